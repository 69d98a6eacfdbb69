package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/WillyAmmm/Quote-Logger/internal/config"
	"github.com/WillyAmmm/Quote-Logger/internal/logging"
	"github.com/WillyAmmm/Quote-Logger/internal/server"
)

func main() {
	cfg := config.LoadOrDefault()

	logger := logging.Must(cfg.Logging.Level, cfg.Logging.Development)
	defer logger.Sync()

	if cfg.Sink.URL == "" {
		logger.Warn("SINK_URL not set, sync operations will fail")
	}

	srv := server.New(cfg, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}
}
