package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// AuthRequest never verifies the PIN carried in the request — presence
// of a registered urn is sufficient. The pin field is read off the wire
// and deliberately ignored, not an oversight.
func AuthRequest(ctx *dispatch.Context, msg *protocol.Message) {
	urn := msg.GetString("urn")
	_ = msg.GetString("pin") // deliberately unused, not checked against any stored hash

	if urn == "" {
		_ = ctx.Reply(msg, protocol.NewAuthResponse(false, ""))
		return
	}

	if _, err := ctx.Store.GetUser(context.Background(), urn); err != nil {
		_ = ctx.Reply(msg, protocol.NewAuthResponse(false, ""))
		return
	}

	sess := ctx.Sessions.Create(urn)
	ctx.Authenticate(sess.ID, urn)
	_ = ctx.Reply(msg, protocol.NewAuthResponse(true, sess.ID))
}
