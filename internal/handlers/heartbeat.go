package handlers

import (
	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// Heartbeat is a client-facing liveness ping: it touches the connection's
// session, if bound, and echoes success. It has no other side effects.
func Heartbeat(ctx *dispatch.Context, msg *protocol.Message) {
	if _, sessionID, _ := ctx.State.Snapshot(); sessionID != "" {
		ctx.Sessions.Touch(sessionID)
	}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("pong", nil))
}
