package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ap876/protokol-javni-prevoz/internal/logger"
)

// PgStore is the PostgreSQL-backed implementation of Store, using the
// database/sql + pgx/v5/stdlib driver pairing the retrieved ride-hailing
// corpus uses in its internal/db_conn.
type PgStore struct {
	db   *sql.DB
	pool *handlePool
	log  *logger.Logger
}

// Open connects to dsn and bounds both the database/sql pool and the
// application-level handle pool to poolSize (default 5).
func Open(ctx context.Context, dsn string, poolSize int, log *logger.Logger) (*PgStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if poolSize <= 0 {
		poolSize = 5
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	log.Info(logger.Entry{Action: "store_connected", Message: "connected to database"})

	return &PgStore{db: db, pool: newHandlePool(poolSize), log: log}, nil
}

func (s *PgStore) Close() error {
	return s.db.Close()
}

// withTx acquires a bounded handle, begins a transaction, runs fn, and
// commits or rolls back. On a serialization/lock-contention failure it
// retries fn with bounded exponential backoff and jitter, up to a small
// fixed number of attempts.
func (s *PgStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	release, err := s.pool.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	const maxAttempts = 4
	backoff := 10 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = s.runOnce(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !isBusy(lastErr) || attempt == maxAttempts {
			return lastErr
		}
		jitter := time.Duration(rand.Int63n(int64(backoff)))
		time.Sleep(backoff + jitter)
		backoff *= 2
	}
	return lastErr
}

func (s *PgStore) runOnce(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// isBusy reports whether err is the store's "busy" signal: PostgreSQL's
// serialization_failure, lock_not_available, or deadlock_detected codes.
func isBusy(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "55P03", "40P01":
			return true
		}
	}
	return false
}

// asStoreError classifies a driver error into the structured *Error the
// facade returns, defaulting to a generic 500 store error.
func asStoreError(err error, notFoundMsg string) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound("%s", notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return Conflict("%s", pgErr.Message)
	}
	return Internal("%s", err.Error())
}
