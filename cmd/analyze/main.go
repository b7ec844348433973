package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nnaakkaaii/expectimax2048/internal/config"
	"github.com/nnaakkaaii/expectimax2048/internal/domain"
	"github.com/nnaakkaaii/expectimax2048/internal/usecase"
)

const usage = `usage: analyze [flags] <16 tile values, row-major, 0 for empty>
example: analyze 0 0 0 0 0 0 0 0 0 0 0 0 0 0 2 2`

func main() {
	cfg := &config.Config{}
	args, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := cfg.SetupLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	board, err := usecase.ParseBoard(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := logger.WithContext(context.Background())
	tables := domain.NewTables(cfg.Weights())
	if _, err := usecase.Analyze(ctx, os.Stdout, tables, cfg.SearchConfig(), board); err != nil {
		if errors.Is(err, usecase.ErrNoLegalMove) {
			fmt.Println("Game Over!")
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
