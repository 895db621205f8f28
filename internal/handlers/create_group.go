package handlers

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

func CreateGroup(ctx *dispatch.Context, msg *protocol.Message) {
	groupName := msg.GetString("group_name")
	leaderURN := msg.GetString("leader_urn")

	if groupName == "" || leaderURN == "" {
		_ = ctx.ReplyErrorf(msg, 400, "group_name and leader_urn are required")
		return
	}

	if _, err := ctx.Store.CreateGroup(context.Background(), groupName, leaderURN); err != nil {
		_ = ctx.ReplyError(msg, err)
		return
	}

	_ = ctx.Reply(msg, protocol.NewSuccessResponse("Group created", map[string]string{"group_name": groupName}))
}
