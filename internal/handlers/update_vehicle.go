package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
	"github.com/ap876/protokol-javni-prevoz/internal/store"
)

func UpdateVehicle(ctx *dispatch.Context, msg *protocol.Message) {
	uri := msg.GetString("uri")
	if uri == "" {
		_ = ctx.ReplyErrorf(msg, 400, "uri is required")
		return
	}

	var patch store.VehicleUpdate
	if msg.HasKey("active") {
		v := msg.GetBool("active")
		patch.Active = &v
	}
	if msg.HasKey("route") {
		v := msg.GetString("route")
		patch.Route = &v
	}
	if msg.HasKey("vehicle_type") {
		if vt, ok := protocol.ParseVehicleType(msg.GetString("vehicle_type")); ok {
			patch.Type = &vt
		}
	}

	if patch.Active == nil && patch.Route == nil && patch.Type == nil {
		_ = ctx.ReplyErrorf(msg, 400, "at least one of active, route, vehicle_type is required")
		return
	}

	if err := ctx.Store.UpdateVehicle(context.Background(), uri, patch); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	fields := map[string]string{"uri": uri}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Vehicle updated", fields))
	ctx.Fanout.Publish("vehicle_updated", fields)
	ctx.Regional.Publish("vehicle_updated", fields)
}
