package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

func UpdatePrice(ctx *dispatch.Context, msg *protocol.Message) {
	vt, ok := protocol.ParseVehicleType(msg.GetString("vehicle_type"))
	if !ok {
		_ = ctx.ReplyErrorf(msg, 400, "Invalid vehicle_type")
		return
	}
	tt, ok := protocol.ParseTicketType(msg.GetString("ticket_type"))
	if !ok {
		_ = ctx.ReplyErrorf(msg, 400, "Invalid ticket_type")
		return
	}
	price := msg.GetDouble("price")

	if err := ctx.Store.UpsertPrice(context.Background(), vt, tt, price); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	fields := map[string]string{
		"vehicle_type": vt.String(),
		"ticket_type":  tt.String(),
		"price":        ftoa(price),
	}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Price updated", fields))
	ctx.Fanout.Publish("price_updated", fields)
	ctx.Regional.Publish("price_updated", fields)
}
