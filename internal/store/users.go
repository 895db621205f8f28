package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// urnPattern enforces the User invariant: urn matches exactly [0-9]{13}.
var urnPattern = regexp.MustCompile(`^[0-9]{13}$`)

func ValidURN(urn string) bool {
	return urnPattern.MatchString(urn)
}

func (s *PgStore) RegisterUser(ctx context.Context, urn, name string, age int, pinHash string) *Error {
	if !ValidURN(urn) {
		return BadRequest("Invalid URN format")
	}

	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	_, dbErr := s.db.ExecContext(ctx,
		`INSERT INTO users (urn, name, age, registration_date, active, pin_hash)
		 VALUES ($1, $2, $3, $4, true, $5)`,
		urn, name, age, time.Now(), pinHash,
	)
	if dbErr != nil {
		var pgErr *pgconn.PgError
		if errors.As(dbErr, &pgErr) && pgErr.Code == "23505" {
			return Conflict("User with URN %s already exists", urn)
		}
		return Internal("%s", dbErr.Error())
	}
	return nil
}

func (s *PgStore) GetUser(ctx context.Context, urn string) (*User, *Error) {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return nil, Internal("%s", err.Error())
	}
	defer release()

	u := &User{}
	dbErr := s.db.QueryRowContext(ctx,
		`SELECT urn, name, age, registration_date, active, pin_hash FROM users WHERE urn = $1`,
		urn,
	).Scan(&u.URN, &u.Name, &u.Age, &u.RegistrationDate, &u.Active, &u.PinHash)
	if dbErr != nil {
		if errors.Is(dbErr, sql.ErrNoRows) {
			return nil, NotFound("User %s not found", urn)
		}
		return nil, Internal("%s", dbErr.Error())
	}
	return u, nil
}

// DeleteUser is split from the wire handler on purpose: the handler
// (internal/handlers/delete_user.go) always acknowledges success, but this
// internal API only actually removes the row when adminApproved is true.
func (s *PgStore) DeleteUser(ctx context.Context, urn string, adminApproved bool) *Error {
	if !adminApproved {
		return Forbidden("Deletion requires admin approval")
	}

	release, err := s.pool.acquire(ctx)
	if err != nil {
		return Internal("%s", err.Error())
	}
	defer release()

	res, dbErr := s.db.ExecContext(ctx, `DELETE FROM users WHERE urn = $1`, urn)
	if dbErr != nil {
		return Internal("%s", dbErr.Error())
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFound("User %s not found", urn)
	}
	return nil
}
