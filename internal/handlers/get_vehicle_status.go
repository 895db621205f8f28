package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
	"github.com/ap876/protokol-javni-prevoz/internal/store"
)

// GetVehicleStatus is a read-only lookup with no side effects. It uses
// the same vehicle-resolution order as RESERVE_SEAT/PURCHASE_TICKET.
func GetVehicleStatus(ctx *dispatch.Context, msg *protocol.Message) {
	uri := msg.GetString("uri")
	route := msg.GetString("route")
	vt, _ := protocol.ParseVehicleType(msg.GetString("vehicle_type"))

	if uri == "" && route == "" {
		_ = ctx.ReplyErrorf(msg, 400, "uri or route is required")
		return
	}

	vehicle, err := ctx.Store.FindVehicle(context.Background(), uri, route, vt, uri == "")
	if err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	fields := map[string]string{
		"uri":             vehicle.URI,
		"type":            vehicle.Type.String(),
		"capacity":        itoa(vehicle.Capacity),
		"available_seats": itoa(vehicle.AvailableSeats),
		"route":           vehicle.Route,
		"active":          boolStr(vehicle.Active),
		"last_update":     store.FormatTime(vehicle.LastUpdate),
	}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Vehicle status", fields))
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
