package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/expectimax2048/internal/config"
	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

// AutoPlayConfig は自動プレイの設定
type AutoPlayConfig struct {
	Search  domain.SearchConfig
	Weights domain.Weights
	Delay   time.Duration
	Verbose bool
}

// DefaultAutoPlayConfig はデフォルトの設定を返す
func DefaultAutoPlayConfig() AutoPlayConfig {
	return AutoPlayConfig{
		Search:  domain.DefaultSearchConfig(),
		Weights: domain.DefaultWeights(),
		Verbose: true,
	}
}

// AutoPlayConfigFrom は読み込んだ設定から自動プレイの設定を作る
func AutoPlayConfigFrom(cfg *config.Config) AutoPlayConfig {
	return AutoPlayConfig{
		Search:  cfg.SearchConfig(),
		Weights: cfg.Weights(),
		Verbose: cfg.GetBool(config.KeyVerbose),
		Delay:   cfg.GetDuration(config.KeyDelay),
	}
}

// GameResult は1ゲームの結果
type GameResult struct {
	Score   float32       `yaml:"score"`
	Moves   int           `yaml:"moves"`
	MaxTile int           `yaml:"max-tile"`
	Elapsed time.Duration `yaml:"elapsed"`
}

// AutoPlay は自動でゲームをプレイする
// ctxがキャンセルされたらその時点の結果とctx.Err()を返す
func AutoPlay(ctx context.Context, w io.Writer, rng *frand.RNG, tables *domain.Tables, cfg AutoPlayConfig) (GameResult, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	game := domain.NewGame(tables, rng)
	solver := domain.NewSolver(tables, cfg.Search)

	result := func() GameResult {
		return GameResult{
			Score:   game.Score(),
			Moves:   game.Moves(),
			MaxTile: game.MaxTile(),
			Elapsed: time.Since(start),
		}
	}

	for !game.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return result(), err
		}
		if cfg.Verbose {
			fmt.Fprint(w, game.Board())
			fmt.Fprintf(w, "Score: %.0f, Moves: %d\n", game.Score(), game.Moves())
		}

		board := game.Board()
		dir := solver.BestMove(ctx, board)
		if dir == domain.NoDirection {
			break
		}

		if cfg.Verbose {
			fmt.Fprintf(w, "Move: %s\n\n", dir)
		}
		if !game.Move(dir) {
			// BestMoveは有効な手しか返さないので通常は起きない
			logger.Warn().Stringer("move", dir).Uint64("board", uint64(board)).Msg("illegal-move")
			break
		}
		logger.Debug().Int("move-no", game.Moves()).Stringer("move", dir).
			Float32("score", game.Score()).Msg("moved")

		if cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return result(), ctx.Err()
			case <-time.After(cfg.Delay):
			}
		}
	}

	res := result()
	if cfg.Verbose {
		fmt.Fprint(w, game.Board())
		fmt.Fprintln(w, "=== Game Over ===")
		fmt.Fprintf(w, "Final Score: %.0f\n", res.Score)
		fmt.Fprintf(w, "Total Moves: %d\n", res.Moves)
		fmt.Fprintf(w, "Max Tile: %d\n", res.MaxTile)
	}
	logger.Info().Float32("score", res.Score).Int("moves", res.Moves).
		Int("max-tile", res.MaxTile).Dur("elapsed", res.Elapsed).Msg("game-over")
	return res, nil
}
