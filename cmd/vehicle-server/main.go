// Command vehicle-server runs the vehicle role: device registration, seat
// reservation, on-board ticket sale, and vehicle status/capacity updates.
// It runs the same dispatch table as central-server; the split into
// separate binaries reflects deployment topology, not a difference in
// code.
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
	cfg, err := config.Parse("vehicle", os.Args[1:])
	if err != nil {
		logger.New("vehicle-server").Fatal(logger.Entry{Action: "config_parse_failed", Message: err.Error()})
	}

	log, err := logger.NewWithFile("vehicle-server", cfg.LogFile, cfg.Verbose)
	if err != nil {
		logger.New("vehicle-server").Fatal(logger.Entry{Action: "log_open_failed", Message: err.Error()})
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
