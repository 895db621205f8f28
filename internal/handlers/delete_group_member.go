package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// DeleteGroupMember enforces group-leader authorization: the session's
// bound urn must equal the group's leader_urn, or the request fails with
// 403 before the membership set is touched.
func DeleteGroupMember(ctx *dispatch.Context, msg *protocol.Message) {
	sessionID := msg.GetString("session_id")
	groupName := msg.GetString("group_name")
	urn := msg.GetString("urn")

	callerURN, ok := ctx.Sessions.Touch(sessionID)
	if !ok {
		_ = ctx.ReplyErrorf(msg, 401, "invalid or expired session")
		return
	}
	if groupName == "" || urn == "" {
		_ = ctx.ReplyErrorf(msg, 400, "group_name and urn are required")
		return
	}

	bg := context.Background()
	leaderURN, err := ctx.Store.GroupLeader(bg, groupName)
	if err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}
	if callerURN != leaderURN {
		_ = ctx.ReplyErrorf(msg, 403, "Admin (group leader) privileges required")
		return
	}

	if err := ctx.Store.DeleteGroupMember(bg, groupName, urn); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Member removed", map[string]string{"group_name": groupName, "urn": urn}))
}
