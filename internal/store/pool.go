package store

import "context"

// handlePool bounds concurrent store access to a fixed number of leased
// tokens: a small bounded pool (default 5) of store handles, with callers
// blocking when all are leased. A buffered channel is Go's idiomatic
// condition variable here: acquire blocks on a receive, release is a
// send, and the size of the pool is exactly the channel's capacity. The
// underlying *sql.DB has its own connection pool (pgstore.go sets
// MaxOpenConns to the same bound) — this channel enforces the limit at
// the call-site level so a caller observes backpressure instead of
// database/sql silently queuing on a mutex it does not expose.
type handlePool struct {
	tokens chan struct{}
}

func newHandlePool(size int) *handlePool {
	if size <= 0 {
		size = 5
	}
	p := &handlePool{tokens: make(chan struct{}, size)}
	for i := 0; i < size; i++ {
		p.tokens <- struct{}{}
	}
	return p
}

// acquire blocks until a handle is available or ctx is cancelled. The
// returned release func must be called exactly once.
func (p *handlePool) acquire(ctx context.Context) (release func(), err error) {
	select {
	case <-p.tokens:
		return func() { p.tokens <- struct{}{} }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
