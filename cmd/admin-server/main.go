// Command admin-server runs the admin role: pricing and fleet-management
// operations (UPDATE_PRICE, UPDATE_VEHICLE, UPDATE_CAPACITY, DELETE_USER).
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
	cfg, err := config.Parse("admin", os.Args[1:])
	if err != nil {
		logger.New("admin-server").Fatal(logger.Entry{Action: "config_parse_failed", Message: err.Error()})
	}

	log, err := logger.NewWithFile("admin-server", cfg.LogFile, cfg.Verbose)
	if err != nil {
		logger.New("admin-server").Fatal(logger.Entry{Action: "log_open_failed", Message: err.Error()})
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
