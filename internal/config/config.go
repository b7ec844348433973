package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

const (
	KeyConfigFile      = "config"
	KeyLogLevel        = "log-level"
	KeyCprobThreshold  = "cprob-threshold"
	KeyCacheDepthLimit = "cache-depth-limit"
	KeyMinDepthLimit   = "min-depth-limit"
	KeyTieEpsilon      = "tie-epsilon"
	KeyGames           = "games"
	KeyParallelism     = "parallelism"
	KeySweepCprob      = "sweep-cprob"
	KeySeed            = "seed"
	KeyVerbose         = "verbose"
	KeyDelay           = "delay"

	KeyLostPenalty        = "weights.lost-penalty"
	KeyMonotonicityPower  = "weights.monotonicity-power"
	KeyMonotonicityWeight = "weights.monotonicity-weight"
	KeySumPower           = "weights.sum-power"
	KeySumWeight          = "weights.sum-weight"
	KeyMergesWeight       = "weights.merges-weight"
	KeyEmptyWeight        = "weights.empty-weight"
)

const envPrefix = "expectimax2048"

var ErrBadSweep = errors.New("bad cprob sweep value")

// Config はフラグ・環境変数・設定ファイルをまとめたもの
// 優先順位はフラグ > 環境変数 > 設定ファイル > 既定値
type Config struct {
	*viper.Viper
}

// DefaultConfig は既定値だけを持つConfigを返す
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	if err := c.BindPFlags(newFlagSet()); err != nil {
		// 既定値のフラグのバインドは失敗しない
		panic(err)
	}
	return c
}

func newFlagSet() *pflag.FlagSet {
	d := domain.DefaultSearchConfig()
	w := domain.DefaultWeights()

	fs := pflag.NewFlagSet("expectimax2048", pflag.ContinueOnError)
	fs.String(KeyConfigFile, "", "path to a YAML config file")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn, error")
	fs.Float64(KeyCprobThreshold, float64(d.CprobThreshold), "do not expand nodes less likely than this")
	fs.Int(KeyCacheDepthLimit, d.CacheDepthLimit, "do not cache nodes at or below this depth")
	fs.Int(KeyMinDepthLimit, d.MinDepthLimit, "minimum search depth")
	fs.Float64(KeyTieEpsilon, float64(d.TieEpsilon), "added to every legal move score")
	fs.Int(KeyGames, 10, "number of games per configuration (bench)")
	fs.Int(KeyParallelism, 2, "games played at once (bench)")
	fs.StringSlice(KeySweepCprob, []string{"0.001", "0.0001"}, "cprob thresholds to sweep (bench)")
	fs.String(KeySeed, "", "hex seed for the tile spawn RNG; random when empty")
	fs.Bool(KeyVerbose, false, "print the board after every move")
	fs.Duration(KeyDelay, 0, "wait between moves (autoplay)")

	fs.Float64(KeyLostPenalty, w.LostPenalty, "heuristic: constant per row")
	fs.Float64(KeyMonotonicityPower, w.MonotonicityPower, "heuristic: monotonicity exponent")
	fs.Float64(KeyMonotonicityWeight, w.MonotonicityWeight, "heuristic: monotonicity weight")
	fs.Float64(KeySumPower, w.SumPower, "heuristic: tile sum exponent")
	fs.Float64(KeySumWeight, w.SumWeight, "heuristic: tile sum weight")
	fs.Float64(KeyMergesWeight, w.MergesWeight, "heuristic: merges weight")
	fs.Float64(KeyEmptyWeight, w.EmptyWeight, "heuristic: empty cell weight")
	return fs
}

// Load はコマンドライン引数・環境変数・設定ファイルを読み込む
// フラグ以外の引数はArgsで取得できる
func (c *Config) Load(args []string) ([]string, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c.Viper = viper.New()
	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if path := c.GetString(KeyConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return fs.Args(), nil
}

// SearchConfig は探索設定を返す
func (c *Config) SearchConfig() domain.SearchConfig {
	return domain.SearchConfig{
		CprobThreshold:  float32(c.GetFloat64(KeyCprobThreshold)),
		CacheDepthLimit: c.GetInt(KeyCacheDepthLimit),
		MinDepthLimit:   c.GetInt(KeyMinDepthLimit),
		TieEpsilon:      float32(c.GetFloat64(KeyTieEpsilon)),
	}
}

// Weights はヒューリスティックの係数を返す
func (c *Config) Weights() domain.Weights {
	return domain.Weights{
		LostPenalty:        c.GetFloat64(KeyLostPenalty),
		MonotonicityPower:  c.GetFloat64(KeyMonotonicityPower),
		MonotonicityWeight: c.GetFloat64(KeyMonotonicityWeight),
		SumPower:           c.GetFloat64(KeySumPower),
		SumWeight:          c.GetFloat64(KeySumWeight),
		MergesWeight:       c.GetFloat64(KeyMergesWeight),
		EmptyWeight:        c.GetFloat64(KeyEmptyWeight),
	}
}

// SweepCprob はベンチで試すcprob閾値の一覧を返す
func (c *Config) SweepCprob() ([]float32, error) {
	raw := c.GetStringSlice(KeySweepCprob)
	out := make([]float32, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrBadSweep, s, err)
		}
		if v <= 0 || v >= 1 {
			return nil, fmt.Errorf("%w %q: must be in (0, 1)", ErrBadSweep, s)
		}
		out = append(out, float32(v))
	}
	return out, nil
}
