package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/expectimax2048/internal/config"
	"github.com/nnaakkaaii/expectimax2048/internal/usecase"
)

func main() {
	cfg := &config.Config{}
	if _, err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := cfg.SetupLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	benchCfg, err := usecase.BenchConfigFrom(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	logger.Info().Int("games", benchCfg.Games).Int("parallelism", benchCfg.Parallelism).
		Interface("sweep", benchCfg.Sweep).Msg("bench-started")
	if _, err := usecase.Bench(ctx, os.Stdout, benchCfg); err != nil {
		log.Error().Err(err).Msg("bench-failed")
		os.Exit(1)
	}
}
