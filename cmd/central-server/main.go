// Command central-server runs the central coordination role: user/session
// authentication, ticket purchase, group management, admin operations.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ap876/protokol-javni-prevoz/internal/config"
	"github.com/ap876/protokol-javni-prevoz/internal/logger"
	"github.com/ap876/protokol-javni-prevoz/internal/server"
)

func main() {
	cfg, err := config.Parse("central", os.Args[1:])
	if err != nil {
		logger.New("central-server").Fatal(logger.Entry{Action: "config_parse_failed", Message: err.Error()})
	}

	log, err := logger.NewWithFile("central-server", cfg.LogFile, cfg.Verbose)
	if err != nil {
		logger.New("central-server").Fatal(logger.Entry{Action: "log_open_failed", Message: err.Error()})
	}
	defer log.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-quit; log.Info(logger.Entry{Action: "signal_received", Message: "shutting down"}); cancel() }()

	if err := server.Run(ctx, cfg, log); err != nil {
		log.Fatal(logger.Entry{Action: "server_exit", Message: err.Error()})
	}
}
