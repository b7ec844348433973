package domain

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestScoreBoard(t *testing.T) {
	is := is.New(t)
	is.Equal(ScoreBoard(0), float32(0))

	// 2のタイルはスポーンしたものなので0点、4は2+2のマージで4点
	b := NewBoardFromValues([4][4]int{{2, 2, 0, 0}})
	is.Equal(ScoreBoard(b), float32(0))
	is.Equal(ScoreBoard(ApplyMove(Left, b)), float32(4))

	b = NewBoardFromValues([4][4]int{{8, 0, 0, 0}, {0, 16, 0, 0}})
	is.Equal(ScoreBoard(b), float32(16+48))
}

func TestScoreHeuristic(t *testing.T) {
	is := is.New(t)
	w := DefaultWeights()
	emptyRow := w.LostPenalty + 4*w.EmptyWeight
	is.Equal(ScoreHeuristic(0), float32(8*emptyRow))

	rng := testRNG()
	evaluator := NewHeuristicEvaluator(DefaultTables())
	for i := 0; i < 1000; i++ {
		b := randomBoard(rng)
		// 行と列を同じ重みで扱うので転置しても変わらない
		assert.InDelta(t, ScoreHeuristic(b), ScoreHeuristic(Transpose(b)), 1.0)
		is.Equal(evaluator.Evaluate(b), ScoreHeuristic(b))
	}
}

func TestScoreHeuristicPrefersOrderedBoard(t *testing.T) {
	ordered := NewBoardFromValues([4][4]int{
		{256, 128, 64, 32},
		{16, 8, 4, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	scattered := NewBoardFromValues([4][4]int{
		{2, 0, 128, 0},
		{0, 256, 0, 16},
		{64, 0, 4, 0},
		{0, 32, 0, 8},
	})
	assert.Greater(t, ScoreHeuristic(ordered), ScoreHeuristic(scattered))
}
