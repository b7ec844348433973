package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/expectimax2048/internal/config"
	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

const histogramBins = 10

// BenchConfig はcprob閾値を振って複数ゲームを回すベンチの設定
type BenchConfig struct {
	Games       int
	Parallelism int
	Sweep       []float32
	Seed        string
	Base        AutoPlayConfig
}

// BenchConfigFrom は読み込んだ設定からベンチ設定を作る
func BenchConfigFrom(cfg *config.Config) (BenchConfig, error) {
	sweep, err := cfg.SweepCprob()
	if err != nil {
		return BenchConfig{}, err
	}
	base := AutoPlayConfigFrom(cfg)
	base.Verbose = false
	return BenchConfig{
		Games:       max(1, cfg.GetInt(config.KeyGames)),
		Parallelism: max(1, cfg.GetInt(config.KeyParallelism)),
		Sweep:       sweep,
		Seed:        cfg.GetString(config.KeySeed),
		Base:        base,
	}, nil
}

// SweepResult は1つのcprob閾値での集計
type SweepResult struct {
	CprobThreshold float32       `yaml:"cprob-threshold"`
	Games          int           `yaml:"games"`
	MeanScore      float64       `yaml:"mean-score"`
	StdDevScore    float64       `yaml:"stddev-score"`
	MaxScore       float64       `yaml:"max-score"`
	MeanMoves      float64       `yaml:"mean-moves"`
	MaxTile        int           `yaml:"max-tile"`
	Reached2048    float64       `yaml:"reached-2048"`
	MeanGameTime   time.Duration `yaml:"mean-game-time"`
	Scores         []float64     `yaml:"-"`
}

// BenchReport はベンチ全体の結果
type BenchReport struct {
	Weights domain.Weights `yaml:"weights"`
	Results []SweepResult  `yaml:"results"`
}

// Bench はcprob閾値ごとにGames回ゲームを回し、ヒストグラムとYAMLのレポートをwに書く
func Bench(ctx context.Context, w io.Writer, cfg BenchConfig) (BenchReport, error) {
	if cfg.Games < 1 || cfg.Parallelism < 1 {
		return BenchReport{}, fmt.Errorf("%w: games %d, parallelism %d must be at least 1",
			ErrBadBenchConfig, cfg.Games, cfg.Parallelism)
	}

	logger := zerolog.Ctx(ctx)
	tables := domain.NewTables(cfg.Base.Weights)
	report := BenchReport{Weights: tables.Weights()}

	master, err := NewRNG(cfg.Seed)
	if err != nil {
		return report, err
	}

	for _, cprob := range cfg.Sweep {
		playCfg := cfg.Base
		playCfg.Search.CprobThreshold = cprob

		// ゲームごとのシードは起動前に順番に引いておく（並列でも再現できるように）
		rngs := make([]*frand.RNG, cfg.Games)
		for i := range rngs {
			rngs[i] = frand.NewCustom(master.Bytes(seedSize), 1024, 12)
		}

		results := make([]GameResult, cfg.Games)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Parallelism)
		for i := range results {
			i := i
			g.Go(func() error {
				res, err := AutoPlay(gctx, io.Discard, rngs[i], tables, playCfg)
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return report, err
		}

		sr := summarize(cprob, results)
		logger.Info().Float32("cprob-threshold", cprob).Float64("mean-score", sr.MeanScore).
			Float64("reached-2048", sr.Reached2048).Msg("sweep-finished")
		report.Results = append(report.Results, sr)

		fmt.Fprintf(w, "# cprob-threshold %g: score histogram\n", cprob)
		if err := histogram.Fprint(w, histogram.Hist(histogramBins, sr.Scores), histogram.Linear(40)); err != nil {
			return report, fmt.Errorf("printing histogram: %w", err)
		}
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return report, fmt.Errorf("marshaling report: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return report, err
	}
	return report, nil
}

func summarize(cprob float32, results []GameResult) SweepResult {
	scores := lo.Map(results, func(r GameResult, _ int) float64 {
		return float64(r.Score)
	})
	moves := lo.Map(results, func(r GameResult, _ int) float64 {
		return float64(r.Moves)
	})
	mean, std := stat.MeanStdDev(scores, nil)
	reached := lo.CountBy(results, func(r GameResult) bool {
		return r.MaxTile >= 2048
	})
	total := lo.SumBy(results, func(r GameResult) time.Duration {
		return r.Elapsed
	})

	return SweepResult{
		CprobThreshold: cprob,
		Games:          len(results),
		MeanScore:      mean,
		StdDevScore:    std,
		MaxScore:       lo.Max(scores),
		MeanMoves:      stat.Mean(moves, nil),
		MaxTile: lo.MaxBy(results, func(a, b GameResult) bool {
			return a.MaxTile > b.MaxTile
		}).MaxTile,
		Reached2048:  float64(reached) / float64(len(results)),
		MeanGameTime: total / time.Duration(len(results)),
		Scores:       scores,
	}
}
