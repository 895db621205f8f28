package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// ReserveSeat requires the connection to already be AUTHENTICATED (the
// dispatcher enforces this before the handler runs) but does not itself
// check that the urn field matches the authenticated session's urn.
func ReserveSeat(ctx *dispatch.Context, msg *protocol.Message) {
	urn := msg.GetString("urn")
	uri := msg.GetString("uri")
	route := msg.GetString("route")
	vt, _ := protocol.ParseVehicleType(msg.GetString("vehicle_type"))

	if urn == "" {
		_ = ctx.ReplyErrorf(msg, 400, "urn is required")
		return
	}
	if uri == "" && route == "" {
		_ = ctx.ReplyErrorf(msg, 400, "uri or (route, vehicle_type) is required")
		return
	}

	bg := context.Background()
	vehicle, err := ctx.Store.FindVehicle(bg, uri, route, vt, uri == "")
	if err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	available, err := ctx.Store.ReserveSeat(bg, vehicle.URI)
	if err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	fields := map[string]string{
		"route":           vehicle.Route,
		"vehicle_uri":     vehicle.URI,
		"available_seats": itoa(available),
	}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Seat reserved", fields))
	ctx.Fanout.Publish("seat_reserved", fields)
	ctx.Regional.Publish("seat_reserved", fields)
}
