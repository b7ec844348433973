package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()

	is.Equal(cfg.SearchConfig(), domain.DefaultSearchConfig())
	is.Equal(cfg.Weights(), domain.DefaultWeights())
	is.Equal(cfg.GetString(KeyLogLevel), "info")

	sweep, err := cfg.SweepCprob()
	is.NoErr(err)
	is.Equal(sweep, []float32{0.001, 0.0001})
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	args, err := cfg.Load([]string{
		"--cprob-threshold=0.01",
		"--min-depth-limit", "2",
		"--weights.empty-weight=300",
		"0", "2", "4",
	})
	is.NoErr(err)
	is.Equal(args, []string{"0", "2", "4"})

	sc := cfg.SearchConfig()
	is.Equal(sc.CprobThreshold, float32(0.01))
	is.Equal(sc.MinDepthLimit, 2)
	is.Equal(sc.CacheDepthLimit, 15)
	is.Equal(cfg.Weights().EmptyWeight, 300.0)
	is.Equal(cfg.Weights().SumWeight, domain.DefaultWeights().SumWeight)
}

func TestLoadUnknownFlag(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Load([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("EXPECTIMAX2048_MIN_DEPTH_LIMIT", "5")
	t.Setenv("EXPECTIMAX2048_WEIGHTS_SUM_WEIGHT", "12.5")
	t.Setenv("EXPECTIMAX2048_GAMES", "7")

	cfg := &Config{}
	_, err := cfg.Load([]string{"--games=3"})
	is.NoErr(err)

	is.Equal(cfg.SearchConfig().MinDepthLimit, 5)
	is.Equal(cfg.Weights().SumWeight, 12.5)
	// フラグは環境変数より優先
	is.Equal(cfg.GetInt(KeyGames), 3)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "expectimax.yaml")
	content := `
min-depth-limit: 4
sweep-cprob: ["0.01", "0.05"]
weights:
  merges-weight: 650
  lost-penalty: 100000
`
	is.NoErr(os.WriteFile(path, []byte(content), 0o600))

	cfg := &Config{}
	_, err := cfg.Load([]string{"--config", path, "--weights.lost-penalty=150000"})
	is.NoErr(err)

	is.Equal(cfg.SearchConfig().MinDepthLimit, 4)
	w := cfg.Weights()
	is.Equal(w.MergesWeight, 650.0)
	is.Equal(w.LostPenalty, 150000.0)
	is.Equal(w.EmptyWeight, domain.DefaultWeights().EmptyWeight)

	sweep, err := cfg.SweepCprob()
	is.NoErr(err)
	is.Equal(sweep, []float32{0.01, 0.05})
}

func TestLoadMissingConfigFile(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestSweepCprobInvalid(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{"not a number", "--sweep-cprob=abc"},
		{"zero", "--sweep-cprob=0"},
		{"one", "--sweep-cprob=0.001,1"},
		{"negative", "--sweep-cprob=-0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			_, err := cfg.Load([]string{tt.arg})
			assert.NoError(t, err)
			_, err = cfg.SweepCprob()
			assert.ErrorIs(t, err, ErrBadSweep)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	is := is.New(t)

	cfg := &Config{}
	_, err := cfg.Load([]string{"--log-level=debug"})
	is.NoErr(err)

	var buf bytes.Buffer
	logger, err := cfg.SetupLogger(&buf)
	is.NoErr(err)
	logger.Debug().Int("depth", 3).Msg("test-message")
	is.True(bytes.Contains(buf.Bytes(), []byte("test-message")))
	is.True(bytes.Contains(buf.Bytes(), []byte("DEBUG")))

	_, err = cfg.Load([]string{"--log-level=loud"})
	is.NoErr(err)
	_, err = cfg.SetupLogger(&buf)
	is.True(err != nil)
}
