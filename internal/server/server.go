// Package server composes every component of the transit-ticketing
// service into one runnable process, the way internal/admin/bootstrap.Run
// composes the retrieved corpus's admin service: connect the store, wire
// the dispatch table, start background workers, then block on the
// transport's accept loop until ctx is cancelled.
package server

import (
	"context"
	"fmt"

	"github.com/ap876/protokol-javni-prevoz/internal/config"
	"github.com/ap876/protokol-javni-prevoz/internal/discovery"
	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/fanout"
	"github.com/ap876/protokol-javni-prevoz/internal/handlers"
	"github.com/ap876/protokol-javni-prevoz/internal/logger"
	"github.com/ap876/protokol-javni-prevoz/internal/maintenance"
	"github.com/ap876/protokol-javni-prevoz/internal/regional"
	"github.com/ap876/protokol-javni-prevoz/internal/session"
	"github.com/ap876/protokol-javni-prevoz/internal/store"
	"github.com/ap876/protokol-javni-prevoz/internal/transport"
)

// Run starts one server process and blocks until ctx is cancelled or a
// fatal startup error occurs.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	log.Info(logger.Entry{Action: "server_starting", Message: cfg.Role, Additional: map[string]any{"port": cfg.Port}})

	st, err := store.Open(ctx, cfg.Database, cfg.PoolSize, log)
	if err != nil {
		return fmt.Errorf("server: open store: %w", err)
	}
	defer st.Close()

	sessions := session.NewRegistry()
	fanoutHub := fanout.NewHub(log)
	relay := regional.Connect(ctx, cfg.RabbitMQURL, log)
	defer relay.Close()

	d := dispatch.New(st, sessions, fanoutHub, relay, log)
	handlers.RegisterAll(d)

	ln, err := transport.Listen(fmt.Sprintf(":%d", cfg.Port), cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		log.Info(logger.Entry{Action: "server_stopping", Message: "closing listener"})
		_ = ln.Close()
	}()

	maint := maintenance.New(sessions, log, cfg.SessionTimeout, cfg.SessionCleanupInterval, cfg.DataCollectionInterval, cfg.HeartbeatInterval)
	maint.Start(ctx)

	var discoveryListener *discovery.Listener
	if cfg.Multicast.Enabled {
		discoveryListener, err = discovery.Listen(cfg.Multicast.Addr, cfg.Multicast.Port, cfg.Port, log)
		if err != nil {
			log.Error(logger.Entry{
				Action:  "discovery_listen_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		} else {
			defer discoveryListener.Close()
			go func() {
				if err := discoveryListener.Serve(ctx); err != nil {
					log.Error(logger.Entry{Action: "discovery_serve_failed", Error: &logger.ErrObj{Msg: err.Error()}})
				}
			}()
		}
	}

	log.Info(logger.Entry{Action: "server_ready", Message: fmt.Sprintf("listening on %s", ln.Addr())})
	serveErr := ln.Serve(d.Serve)

	maint.Wait()
	log.Info(logger.Entry{Action: "server_stopped", Message: cfg.Role})
	return serveErr
}
