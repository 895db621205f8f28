package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

func AddMemberToGroup(ctx *dispatch.Context, msg *protocol.Message) {
	sessionID := msg.GetString("session_id")
	groupName := msg.GetString("group_name")
	urn := msg.GetString("urn")

	if _, ok := ctx.Sessions.Touch(sessionID); !ok {
		_ = ctx.ReplyErrorf(msg, 401, "invalid or expired session")
		return
	}
	if groupName == "" || urn == "" {
		_ = ctx.ReplyErrorf(msg, 400, "group_name and urn are required")
		return
	}

	if err := ctx.Store.AddGroupMember(context.Background(), groupName, urn); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Member added", map[string]string{"group_name": groupName, "urn": urn}))
}
