package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
	"github.com/ap876/protokol-javni-prevoz/internal/store"
)

func PurchaseTicket(ctx *dispatch.Context, msg *protocol.Message) {
	sessionID := msg.GetString("session_id")
	urn := msg.GetString("urn")

	if sessionID != "" {
		boundURN, ok := ctx.Sessions.Touch(sessionID)
		if !ok {
			_ = ctx.ReplyErrorf(msg, 401, "invalid or expired session")
			return
		}
		urn = boundURN
	}
	if urn == "" {
		_ = ctx.ReplyErrorf(msg, 400, "session_id or urn is required")
		return
	}

	ticketType, ok := protocol.ParseTicketType(msg.GetString("ticket_type"))
	if !ok {
		_ = ctx.ReplyErrorf(msg, 400, "Invalid ticket_type")
		return
	}
	vehicleType, _ := protocol.ParseVehicleType(msg.GetString("vehicle_type"))

	passengers := int(msg.GetInt("passengers"))
	if passengers <= 0 {
		passengers = 1
	}

	uri := msg.GetString("uri")
	route := msg.GetString("route")
	if uri == "" && route == "" {
		_ = ctx.ReplyErrorf(msg, 400, "uri or route is required")
		return
	}

	bg := context.Background()
	vehicle, err := ctx.Store.FindVehicle(bg, uri, route, vehicleType, uri == "")
	if err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	result, err := ctx.Store.PurchaseTicket(bg, store.PurchaseRequest{
		UserURN:     urn,
		TicketType:  ticketType,
		VehicleType: vehicleType,
		URI:         vehicle.URI,
		Passengers:  passengers,
	})
	if err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	fields := map[string]string{
		"total_amount":    ftoa(result.TotalAmount),
		"route":           result.Route,
		"vehicle_uri":     result.VehicleURI,
		"available_seats": itoa(result.AvailableSeats),
		"passengers":      itoa(result.Passengers),
		"user_urn":        urn,
	}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Ticket purchased", fields))
	ctx.Fanout.Publish("ticket_purchased", fields)
	ctx.Regional.Publish("ticket_purchased", fields)
}
