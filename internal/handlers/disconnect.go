package handlers

import (
	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// Disconnect is an explicit client-initiated teardown message: it
// removes the session (if any) and acknowledges. The connection itself
// still closes the ordinary way, by the peer closing its TLS stream —
// this handler does not close it.
func Disconnect(ctx *dispatch.Context, msg *protocol.Message) {
	if _, sessionID, _ := ctx.State.Snapshot(); sessionID != "" {
		ctx.Sessions.Remove(sessionID)
	}
	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Disconnected", nil))
}
