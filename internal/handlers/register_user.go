package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// RegisterUser forwards whatever the store returns; the store validates
// the urn format itself and its error already carries the message
// "Invalid URN format" when it doesn't match.
func RegisterUser(ctx *dispatch.Context, msg *protocol.Message) {
	urn := msg.GetString("urn")
	name := msg.GetString("name")
	age := int(msg.GetInt("age"))
	pinHash := msg.GetString("pin_hash")

	if err := ctx.Store.RegisterUser(context.Background(), urn, name, age, pinHash); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	_ = ctx.Reply(msg, protocol.NewSuccessResponse("User registered", map[string]string{"urn": urn}))
}
