package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lukechampine.com/frand"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

var (
	ErrBadBoard       = errors.New("bad board")
	ErrNoLegalMove    = errors.New("no legal move")
	ErrBadSeed        = errors.New("bad seed")
	ErrBadBenchConfig = errors.New("bad bench config")
)

const seedSize = 32

// NewRNG はタイル生成用の乱数源を返す
// seedが空ならランダム、そうでなければ16進のシードから決定的に生成する
func NewRNG(seed string) (*frand.RNG, error) {
	if seed == "" {
		return frand.New(), nil
	}
	raw, err := hex.DecodeString(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSeed, err)
	}
	if len(raw) > seedSize {
		return nil, fmt.Errorf("%w: longer than %d bytes", ErrBadSeed, seedSize)
	}
	key := make([]byte, seedSize)
	copy(key, raw)
	return frand.NewCustom(key, 1024, 12), nil
}

// ParseBoard は16個のタイル値（0は空）を行優先で読み込む
func ParseBoard(fields []string) (domain.Board, error) {
	if len(fields) == 1 {
		fields = strings.Fields(fields[0])
	}
	if len(fields) != 16 {
		return 0, fmt.Errorf("%w: need exactly 16 numbers, got %d", ErrBadBoard, len(fields))
	}

	var values [4][4]int
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadBoard, err)
		}
		if !domain.IsTileValue(v) {
			return 0, fmt.Errorf("%w: %d is not a tile value", ErrBadBoard, v)
		}
		values[i/4][i%4] = v
	}
	return domain.NewBoardFromValues(values), nil
}

// Analyze は4方向の評価値を表示し、最良の手を返す
func Analyze(ctx context.Context, w io.Writer, tables *domain.Tables, cfg domain.SearchConfig, board domain.Board) (domain.Direction, error) {
	solver := domain.NewSolver(tables, cfg)

	fmt.Fprintln(w, "Current board:")
	fmt.Fprint(w, board)
	fmt.Fprintf(w, "Current scores: heur %.0f, actual %.0f\n", tables.ScoreHeuristic(board), tables.ScoreBoard(board))
	fmt.Fprintf(w, "Search depth: %d\n", solver.DepthLimit(board))

	scores := solver.ScoreMoves(ctx, board)
	best := domain.BestOf(scores)
	if best == domain.NoDirection {
		return domain.NoDirection, ErrNoLegalMove
	}

	fmt.Fprintln(w, "\nMove scores:")
	for _, s := range scores {
		if !s.Legal {
			fmt.Fprintf(w, "  %-5s: -\n", s.Dir)
			continue
		}
		fmt.Fprintf(w, "  %-5s: %.2f (evaled %d, cache hits %d, max depth %d)",
			s.Dir, s.Score, s.Stats.MovesEvaled, s.Stats.CacheHits, s.Stats.MaxDepth)
		if s.Dir == best {
			fmt.Fprint(w, " <- BEST")
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n=== Recommended move: %s ===\n", best)
	return best, nil
}
