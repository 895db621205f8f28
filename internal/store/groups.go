package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// CreateGroup inserts a new active group led by leaderURN. group_name is
// unique only among active groups, so a disbanded group's name can be
// reused.
func (s *PgStore) CreateGroup(ctx context.Context, groupName, leaderURN string) (int64, *Error) {
	if groupName == "" {
		return 0, BadRequest("group_name is required")
	}

	release, err := s.pool.acquire(ctx)
	if err != nil {
		return 0, Internal("%s", err.Error())
	}
	defer release()

	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE group_name = $1 AND active)`, groupName,
	).Scan(&exists)
	if err != nil {
		return 0, Internal("%s", err.Error())
	}
	if exists {
		return 0, Conflict("Group %s already exists", groupName)
	}

	var groupID int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO groups (group_name, leader_urn, creation_date, active)
		 VALUES ($1, $2, $3, true) RETURNING group_id`,
		groupName, leaderURN, time.Now(),
	).Scan(&groupID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return 0, NotFound("Leader %s not found", leaderURN)
		}
		return 0, Internal("%s", err.Error())
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, member_urn, join_date, active)
		 VALUES ($1, $2, $3, true)`,
		groupID, leaderURN, time.Now(),
	); err != nil {
		return 0, Internal("%s", err.Error())
	}

	return groupID, nil
}

func (s *PgStore) groupIDByName(ctx context.Context, groupName string) (int64, *Error) {
	var groupID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT group_id FROM groups WHERE group_name = $1 AND active`, groupName,
	).Scan(&groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, NotFound("Group %s not found", groupName)
		}
		return 0, Internal("%s", err.Error())
	}
	return groupID, nil
}

// AddGroupMember reactivates a formerly-removed membership row if one
// exists, otherwise inserts a fresh one; it rejects a URN that is already
// an active member. Membership rows are soft-deletable: a (group, member)
// pair is toggled active/inactive rather than being deleted outright.
func (s *PgStore) AddGroupMember(ctx context.Context, groupName, urn string) *Error {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	groupID, gerr := s.groupIDByName(ctx, groupName)
	if gerr != nil {
		return gerr
	}

	var active bool
	scanErr := s.db.QueryRowContext(ctx,
		`SELECT active FROM group_members WHERE group_id = $1 AND member_urn = $2`,
		groupID, urn,
	).Scan(&active)

	switch {
	case errors.Is(scanErr, sql.ErrNoRows):
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO group_members (group_id, member_urn, join_date, active)
			 VALUES ($1, $2, $3, true)`,
			groupID, urn, time.Now(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return NotFound("User %s not found", urn)
			}
			return Internal("%s", err.Error())
		}
		return nil
	case scanErr != nil:
		return Internal("%s", scanErr.Error())
	case active:
		return Conflict("%s is already a member of %s", urn, groupName)
	default:
		_, err := s.db.ExecContext(ctx,
			`UPDATE group_members SET active = true, join_date = $1 WHERE group_id = $2 AND member_urn = $3`,
			time.Now(), groupID, urn,
		)
		if err != nil {
			return Internal("%s", err.Error())
		}
		return nil
	}
}

// DeleteGroupMember soft-deletes an active membership. Callers are
// expected to have already checked GroupLeader against the requesting
// session's URN — only the leader may remove a member — since this
// method itself performs no authorization.
func (s *PgStore) DeleteGroupMember(ctx context.Context, groupName, urn string) *Error {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	groupID, gerr := s.groupIDByName(ctx, groupName)
	if gerr != nil {
		return gerr
	}

	res, dbErr := s.db.ExecContext(ctx,
		`UPDATE group_members SET active = false WHERE group_id = $1 AND member_urn = $2 AND active`,
		groupID, urn,
	)
	if dbErr != nil {
		return Internal("%s", dbErr.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFound("%s is not an active member of %s", urn, groupName)
	}
	return nil
}

// GroupLeader returns the leader_urn of the named active group, for the
// dispatcher/handler layer to check authorization against the calling
// session before DeleteGroupMember.
func (s *PgStore) GroupLeader(ctx context.Context, groupName string) (string, *Error) {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return "", Internal("%s", err.Error())
	}
	defer release()

	var leaderURN string
	dbErr := s.db.QueryRowContext(ctx,
		`SELECT leader_urn FROM groups WHERE group_name = $1 AND active`, groupName,
	).Scan(&leaderURN)
	if dbErr != nil {
		if errors.Is(dbErr, sql.ErrNoRows) {
			return "", NotFound("Group %s not found", groupName)
		}
		return "", Internal("%s", dbErr.Error())
	}
	return leaderURN, nil
}
