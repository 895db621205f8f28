package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// PurchaseTicket is the transactional core of buying tickets: it
// decrements available_seats by req.Passengers, inserts one Ticket row per
// passenger and one Payment row, all inside a single transaction so a
// mid-purchase failure leaves no partial tickets behind. Pricing is a flat
// 1.0 per ticket with a hardcoded zero discount; CalculateDiscount's real
// policy isn't wired in here.
//
// As in ReserveSeat, the closure returns driver errors unwrapped so
// withTx's retry check can classify them; only the "no seats left"
// business outcome is captured directly as a *Error.
func (s *PgStore) PurchaseTicket(ctx context.Context, req PurchaseRequest) (*PurchaseResult, *Error) {
	if req.Passengers <= 0 {
		return nil, BadRequest("passengers must be >= 1")
	}

	var result *PurchaseResult
	var conflict *Error

	txErr := s.withTx(ctx, func(tx *sql.Tx) error {
		conflict = nil
		result = nil

		var route string
		var seats int
		err := tx.QueryRowContext(ctx,
			`SELECT route, available_seats FROM vehicles WHERE uri = $1 FOR UPDATE`, req.URI,
		).Scan(&route, &seats)
		if err != nil {
			return err
		}
		if seats < req.Passengers {
			conflict = Conflict("No available seats")
			return conflict
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE vehicles SET available_seats = available_seats - $1, last_update = $2
			 WHERE uri = $3 AND available_seats >= $1`,
			req.Passengers, time.Now(), req.URI)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			conflict = Conflict("No available seats")
			return conflict
		}

		unitPrice := CalculateTicketPrice(req.VehicleType, req.TicketType, req.Passengers)
		const discount = 0.0
		now := time.Now()

		tickets := make([]Ticket, 0, req.Passengers)
		for i := 0; i < req.Passengers; i++ {
			t := Ticket{
				TicketID:     "ticket_" + uuid.NewString(),
				UserURN:      req.UserURN,
				TicketType:   req.TicketType,
				VehicleType:  req.VehicleType,
				Route:        route,
				Price:        unitPrice,
				Discount:     discount,
				PurchaseDate: now,
				SeatNumber:   seats - i,
				Used:         false,
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO tickets (ticket_id, user_urn, ticket_type, vehicle_type, route, price, discount, purchase_date, seat_number, used)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false)`,
				t.TicketID, t.UserURN, t.TicketType, t.VehicleType, t.Route, t.Price, t.Discount, t.PurchaseDate, t.SeatNumber,
			)
			if err != nil {
				return err
			}
			tickets = append(tickets, t)
		}

		total := unitPrice * float64(req.Passengers) * (1 - discount)
		payment := Payment{
			TransactionID: "txn_" + uuid.NewString(),
			TicketID:      tickets[0].TicketID,
			Amount:        total,
			Method:        "account",
			PaymentDate:   now,
			Successful:    true,
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payments (transaction_id, ticket_id, amount, payment_method, payment_date, successful)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			payment.TransactionID, payment.TicketID, payment.Amount, payment.Method, payment.PaymentDate, payment.Successful,
		)
		if err != nil {
			return err
		}

		result = &PurchaseResult{
			TotalAmount:    total,
			Route:          route,
			VehicleURI:     req.URI,
			AvailableSeats: seats - req.Passengers,
			Passengers:     req.Passengers,
			Tickets:        tickets,
			Payment:        payment,
		}
		return nil
	})

	if conflict != nil {
		return nil, conflict
	}
	if txErr != nil {
		return nil, asStoreError(txErr, "Vehicle/route not found")
	}
	return result, nil
}

// UpsertPrice writes a (vehicle_type, ticket_type, price) row, inserting
// or replacing the existing entry.
func (s *PgStore) UpsertPrice(ctx context.Context, vehicleType protocol.VehicleType, ticketType protocol.TicketType, price float64) *Error {
	if price < 0 {
		return BadRequest("price must be >= 0")
	}

	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	_, dbErr := s.db.ExecContext(ctx,
		`INSERT INTO price_list (vehicle_type, ticket_type, base_price, last_update)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (vehicle_type, ticket_type) DO UPDATE SET base_price = EXCLUDED.base_price, last_update = EXCLUDED.last_update`,
		vehicleType, ticketType, price, time.Now(),
	)
	if dbErr != nil {
		return Internal("%s", dbErr.Error())
	}
	return nil
}
