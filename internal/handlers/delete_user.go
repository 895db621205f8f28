package handlers

import (
	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// DeleteUser always acknowledges success and never calls the store's
// admin-gated deletion. A real admin-approved deletion path, if this
// server ever exposes one, is a separate operation this handler does not
// implement.
func DeleteUser(ctx *dispatch.Context, msg *protocol.Message) {
	urn := msg.GetString("urn")
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("User deletion acknowledged", map[string]string{"urn": urn}))
}
