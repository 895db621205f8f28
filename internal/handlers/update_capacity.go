package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

func UpdateCapacity(ctx *dispatch.Context, msg *protocol.Message) {
	uri := msg.GetString("uri")
	if uri == "" {
		_ = ctx.ReplyErrorf(msg, 400, "uri is required")
		return
	}
	capacity := int(msg.GetInt("capacity"))
	availableSeats := capacity
	if msg.HasKey("available_seats") {
		availableSeats = int(msg.GetInt("available_seats"))
	}

	if err := ctx.Store.UpdateCapacity(context.Background(), uri, capacity, availableSeats); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	fields := map[string]string{
		"uri":             uri,
		"capacity":        itoa(capacity),
		"available_seats": itoa(availableSeats),
	}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Capacity updated", fields))
	ctx.Fanout.Publish("capacity_updated", fields)
	ctx.Regional.Publish("capacity_updated", fields)
}
