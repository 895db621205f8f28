package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

func RegisterDevice(ctx *dispatch.Context, msg *protocol.Message) {
	uri := msg.GetString("uri")
	vt, ok := protocol.ParseVehicleType(msg.GetString("vehicle_type"))
	if !ok {
		_ = ctx.ReplyErrorf(msg, 400, "Invalid vehicle_type")
		return
	}

	if err := ctx.Store.RegisterDevice(context.Background(), uri, vt); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Device registered", map[string]string{"uri": uri}))
}
