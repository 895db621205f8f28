package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

const defaultVehicleCapacity = 50

// RegisterDevice creates or replaces a Vehicle: capacity/available_seats
// reset to 50, route derived from the URI, active=true.
func (s *PgStore) RegisterDevice(ctx context.Context, uri string, vehicleType protocol.VehicleType) *Error {
	if uri == "" || len(uri) > 32 {
		return BadRequest("Invalid URI")
	}

	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	route := "Route_" + uri
	_, dbErr := s.db.ExecContext(ctx,
		`INSERT INTO vehicles (uri, type, capacity, available_seats, route, active, last_update)
		 VALUES ($1, $2, $3, $3, $4, true, $5)
		 ON CONFLICT (uri) DO UPDATE SET
		   type = EXCLUDED.type,
		   capacity = EXCLUDED.capacity,
		   available_seats = EXCLUDED.available_seats,
		   route = EXCLUDED.route,
		   active = true,
		   last_update = EXCLUDED.last_update`,
		uri, vehicleType, defaultVehicleCapacity, route, time.Now(),
	)
	if dbErr != nil {
		return Internal("%s", dbErr.Error())
	}
	return nil
}

func scanVehicle(row *sql.Row) (*Vehicle, error) {
	v := &Vehicle{}
	var vtype uint8
	err := row.Scan(&v.URI, &vtype, &v.Capacity, &v.AvailableSeats, &v.Route, &v.Active, &v.LastUpdate)
	if err != nil {
		return nil, err
	}
	v.Type = protocol.VehicleType(vtype)
	return v, nil
}

func (s *PgStore) GetVehicleByURI(ctx context.Context, uri string) (*Vehicle, *Error) {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return nil, Internal("%s", err.Error())
	}
	defer release()
	return s.getVehicleByURI(ctx, uri)
}

func (s *PgStore) getVehicleByURI(ctx context.Context, uri string) (*Vehicle, *Error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uri, type, capacity, available_seats, route, active, last_update
		 FROM vehicles WHERE uri = $1`, uri)
	v, dbErr := scanVehicle(row)
	if dbErr != nil {
		if errors.Is(dbErr, sql.ErrNoRows) {
			return nil, NotFound("Vehicle/route not found")
		}
		return nil, Internal("%s", dbErr.Error())
	}
	return v, nil
}

func (s *PgStore) getVehicleByRoute(ctx context.Context, route string, vehicleType protocol.VehicleType) (*Vehicle, *Error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uri, type, capacity, available_seats, route, active, last_update
		 FROM vehicles WHERE route = $1 AND type = $2 ORDER BY uri LIMIT 1`,
		route, vehicleType)
	v, dbErr := scanVehicle(row)
	if dbErr != nil {
		if errors.Is(dbErr, sql.ErrNoRows) {
			return nil, NotFound("Vehicle/route not found")
		}
		return nil, Internal("%s", dbErr.Error())
	}
	return v, nil
}

var allVehicleTypes = []protocol.VehicleType{protocol.Bus, protocol.Tram, protocol.Trolleybus}

// FindVehicle resolves a vehicle by uri if given; else by (route, type);
// else, when tryOtherTypes is set, any other vehicle type on the same
// route.
func (s *PgStore) FindVehicle(ctx context.Context, uri, route string, vehicleType protocol.VehicleType, tryOtherTypes bool) (*Vehicle, *Error) {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return nil, Internal("%s", err.Error())
	}
	defer release()

	if uri != "" {
		return s.getVehicleByURI(ctx, uri)
	}

	v, storeErr := s.getVehicleByRoute(ctx, route, vehicleType)
	if storeErr == nil {
		return v, nil
	}
	if storeErr.Code != 404 || !tryOtherTypes {
		return nil, storeErr
	}

	for _, t := range allVehicleTypes {
		if t == vehicleType {
			continue
		}
		if v, err := s.getVehicleByRoute(ctx, route, t); err == nil {
			return v, nil
		}
	}
	return nil, NotFound("Vehicle/route not found")
}

// UpdateVehicle applies the optional-field patch UPDATE_VEHICLE carries.
func (s *PgStore) UpdateVehicle(ctx context.Context, uri string, patch VehicleUpdate) *Error {
	if patch.Active == nil && patch.Route == nil && patch.Type == nil {
		return BadRequest("At least one of active, route, vehicle_type is required")
	}

	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	current, getErr := s.getVehicleByURI(ctx, uri)
	if getErr != nil {
		return getErr
	}

	if patch.Active != nil {
		current.Active = *patch.Active
	}
	if patch.Route != nil {
		current.Route = *patch.Route
	}
	if patch.Type != nil {
		current.Type = *patch.Type
	}

	_, dbErr := s.db.ExecContext(ctx,
		`UPDATE vehicles SET type = $1, route = $2, active = $3, last_update = $4 WHERE uri = $5`,
		current.Type, current.Route, current.Active, time.Now(), uri)
	if dbErr != nil {
		return Internal("%s", dbErr.Error())
	}
	return nil
}

// UpdateCapacity validates and writes a new capacity/available_seats pair.
func (s *PgStore) UpdateCapacity(ctx context.Context, uri string, capacity, availableSeats int) *Error {
	if capacity < 0 {
		return BadRequest("capacity must be >= 0")
	}
	if availableSeats < 0 || availableSeats > capacity {
		return BadRequest("available_seats must be within [0, capacity]")
	}

	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	res, dbErr := s.db.ExecContext(ctx,
		`UPDATE vehicles SET capacity = $1, available_seats = $2, last_update = $3 WHERE uri = $4`,
		capacity, availableSeats, time.Now(), uri)
	if dbErr != nil {
		return Internal("%s", dbErr.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFound("Vehicle %s not found", uri)
	}
	return nil
}

// ReserveSeat is the transactional core of RESERVE_SEAT: read-check-update
// inside one transaction, retried on the store's busy signal. The SELECT
// takes a row lock (FOR UPDATE), and the UPDATE's WHERE clause re-checks
// available_seats > 0 as well, so the decrement cannot oversell under
// concurrent reservations — the same guarded-update idiom the retrieved corpus uses for its
// REQUESTED-only AssignDriver update
// (internal/ride/adapter/out/repo/ride_pg_repository.go in
// ember-in-void-ride-hail).
//
// The closure below returns driver errors unwrapped so withTx's retry
// check can see the underlying *pgconn.PgError; only the "no seats left"
// business outcome is captured as a *Error directly, since that one isn't
// a busy signal and must never be retried.
func (s *PgStore) ReserveSeat(ctx context.Context, uri string) (int, *Error) {
	var available int
	var conflict *Error

	txErr := s.withTx(ctx, func(tx *sql.Tx) error {
		conflict = nil
		var seats int
		err := tx.QueryRowContext(ctx, `SELECT available_seats FROM vehicles WHERE uri = $1 FOR UPDATE`, uri).Scan(&seats)
		if err != nil {
			return err
		}
		if seats <= 0 {
			conflict = Conflict("No available seats")
			return conflict
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE vehicles SET available_seats = available_seats - 1, last_update = $1
			 WHERE uri = $2 AND available_seats > 0`,
			time.Now(), uri)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			conflict = Conflict("No available seats")
			return conflict
		}
		available = seats - 1
		return nil
	})

	if conflict != nil {
		return 0, conflict
	}
	if txErr != nil {
		return 0, asStoreError(txErr, "Vehicle/route not found")
	}
	return available, nil
}
