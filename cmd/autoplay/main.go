package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/expectimax2048/internal/config"
	"github.com/nnaakkaaii/expectimax2048/internal/domain"
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
	logger.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded-config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	rng, err := usecase.NewRNG(cfg.GetString(config.KeySeed))
	if err != nil {
		log.Fatal().Err(err).Msg("bad-seed")
	}

	playCfg := usecase.AutoPlayConfigFrom(cfg)
	tables := domain.NewTables(playCfg.Weights)

	games := max(1, cfg.GetInt(config.KeyGames))
	for i := 0; i < games; i++ {
		start := time.Now()
		res, err := usecase.AutoPlay(ctx, os.Stdout, rng, tables, playCfg)
		if err != nil {
			log.Error().Err(err).Int("game", i).Msg("autoplay-stopped")
			os.Exit(1)
		}
		fmt.Printf("game %d: score %.0f, moves %d, max tile %d (%v)\n",
			i+1, res.Score, res.Moves, res.MaxTile, time.Since(start).Round(time.Millisecond))
	}
}
