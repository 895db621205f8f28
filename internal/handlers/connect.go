package handlers

import (
	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// ConnectRequest is an optional handshake: it has no side effects and is
// never a precondition for authentication.
func ConnectRequest(ctx *dispatch.Context, msg *protocol.Message) {
	_ = ctx.Reply(msg, protocol.NewConnectResponse(true, "Connection established"))
}
