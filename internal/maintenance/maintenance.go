// Package maintenance runs three independent background workers: session
// cleanup, data collection, and heartbeat. Each is a cancellation-aware
// ticker loop that logs and continues on panic, so a panic in one task
// never takes down the others or any live connection. Grounded on the
// retry/backoff worker loop shape of internal/shared/mq.RabbitMQ.connect
// in the retrieved corpus, simplified to a plain ticker since these tasks
// have no I/O to retry.
package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/ap876/protokol-javni-prevoz/internal/logger"
	"github.com/ap876/protokol-javni-prevoz/internal/session"
)

// Runner starts and stops the three background workers.
type Runner struct {
	sessions *session.Registry
	log      *logger.Logger

	sessionTimeout    time.Duration
	cleanupInterval   time.Duration
	dataInterval      time.Duration
	heartbeatInterval time.Duration

	wg sync.WaitGroup
}

func New(sessions *session.Registry, log *logger.Logger, sessionTimeout, cleanupInterval, dataInterval, heartbeatInterval time.Duration) *Runner {
	return &Runner{
		sessions:          sessions,
		log:               log,
		sessionTimeout:    sessionTimeout,
		cleanupInterval:   cleanupInterval,
		dataInterval:      dataInterval,
		heartbeatInterval: heartbeatInterval,
	}
}

// Start launches all three workers; they exit when ctx is cancelled. Call
// Wait after cancelling ctx to block until they've all returned.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(3)
	go r.run(ctx, "session_cleanup", r.cleanupInterval, r.sessionCleanupTick)
	go r.run(ctx, "data_collection", r.dataInterval, r.dataCollectionTick)
	go r.run(ctx, "heartbeat", r.heartbeatInterval, r.heartbeatTick)
}

func (r *Runner) Wait() { r.wg.Wait() }

// run is the shared ticker loop: tick, recover any panic from tick so
// one broken task never stops the other two, repeat until ctx is done.
func (r *Runner) run(ctx context.Context, name string, interval time.Duration, tick func()) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info(logger.Entry{Action: name + "_stopped", Message: "background task stopped"})
			return
		case <-ticker.C:
			r.safeTick(name, tick)
		}
	}
}

func (r *Runner) safeTick(name string, tick func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error(logger.Entry{
				Action:  name + "_panic",
				Message: "background task panicked, continuing",
				Additional: map[string]any{"recovered": rec},
			})
		}
	}()
	tick()
}

// sessionCleanupTick runs purge_expired() against the session registry.
func (r *Runner) sessionCleanupTick() {
	removed := r.sessions.PurgeExpired(r.sessionTimeout)
	if removed > 0 {
		r.log.Debug(logger.Entry{
			Action:     "session_cleanup_tick",
			Message:    "purged expired sessions",
			Additional: map[string]any{"removed": removed},
		})
	}
}

// dataCollectionTick is a no-op hook for vehicle-data polling.
func (r *Runner) dataCollectionTick() {
	r.log.Debug(logger.Entry{Action: "data_collection_tick"})
}

// heartbeatTick is a no-op hook for peer liveness.
func (r *Runner) heartbeatTick() {
	r.log.Debug(logger.Entry{Action: "heartbeat_tick"})
}
