package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contactbase/internal/config"
	"contactbase/internal/logger"
	"contactbase/internal/normalizer"
)

func main() {
	cfg, err := config.Load()
	must(err)

	log := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		cfg: cfg,
		log: log,
		newNormalizer: func(cfg config.Config) normalizer.Normalizer {
			return normalizer.NewClient(cfg)
		},
	}
	err = a.rootCmd().ExecuteContext(ctx)
	cancel()
	must(err)
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
