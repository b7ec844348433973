package domain

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

// onlyUpBoard は上にしか動かせない盤面
var onlyUpBoard = Pack([4][4]uint8{
	{0, 0, 0, 0},
	{1, 2, 1, 2},
	{2, 1, 2, 1},
	{1, 2, 1, 2},
})

func TestDepthLimit(t *testing.T) {
	s := NewSolver(DefaultTables(), DefaultSearchConfig())
	tests := []struct {
		name  string
		board Board
		want  int
	}{
		{"empty", 0, 3},
		{"few tiles", NewBoardFromValues([4][4]int{{2, 4, 8, 16}}), 3},
		{"many tiles", NewBoardFromValues([4][4]int{
			{2, 4, 8, 16},
			{32, 64, 128, 256},
		}), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.DepthLimit(tt.board))
		})
	}
}

func TestBestMoveSingleLegalMove(t *testing.T) {
	is := is.New(t)
	s := NewSolver(DefaultTables(), DefaultSearchConfig())
	ctx := context.Background()

	is.Equal(s.BestMove(ctx, onlyUpBoard), Up)
	is.Equal(s.BestMove(ctx, Transpose(onlyUpBoard)), Left)
}

func TestBestMoveGameOver(t *testing.T) {
	is := is.New(t)
	s := NewSolver(DefaultTables(), DefaultSearchConfig())
	over := Pack([4][4]uint8{
		{1, 2, 1, 2},
		{2, 1, 2, 1},
		{1, 2, 1, 2},
		{2, 1, 2, 1},
	})
	is.Equal(s.BestMove(context.Background(), over), NoDirection)
	is.Equal(ChooseBestMove(over), NoDirection)

	for _, dir := range Directions {
		ms := s.ScoreMove(over, dir)
		is.True(!ms.Legal)
		is.Equal(ms.Score, float32(0))
	}
}

func TestScoreMoveLegal(t *testing.T) {
	is := is.New(t)
	s := NewSolver(DefaultTables(), DefaultSearchConfig())

	ms := s.ScoreMove(onlyUpBoard, Up)
	is.True(ms.Legal)
	is.True(ms.Score > 0)
	is.True(ms.Stats.MovesEvaled > 0)
	is.Equal(ms.Stats.DepthLimit, 3)
	is.True(ms.Stats.MaxDepth <= ms.Stats.DepthLimit)

	ms = s.ScoreMove(onlyUpBoard, Down)
	is.True(!ms.Legal)
	is.Equal(ms.Stats.MovesEvaled, uint64(0))
}

func TestTileChooseNodeCache(t *testing.T) {
	is := is.New(t)
	s := NewSolver(DefaultTables(), DefaultSearchConfig())
	b := NewBoardFromValues([4][4]int{
		{2, 4, 8, 16},
		{16, 8, 4, 2},
		{2, 4, 8, 0},
		{0, 0, 0, 2},
	})

	state := s.newState(b)
	first := s.tileChooseNode(state, b, 1.0)
	is.True(len(state.cache) > 0)

	hits := state.cacheHits
	second := s.tileChooseNode(state, b, 1.0)
	is.Equal(second, first)
	is.Equal(state.cacheHits, hits+1)

	// 新しい状態で計算し直しても同じ値
	is.Equal(s.tileChooseNode(s.newState(b), b, 1.0), first)
}

func TestTileChooseNodeCutoff(t *testing.T) {
	is := is.New(t)
	cfg := DefaultSearchConfig()
	cfg.CprobThreshold = 0.5
	s := NewSolver(DefaultTables(), cfg)
	b := NewBoardFromValues([4][4]int{{2, 4, 0, 0}})

	// 到達確率が閾値未満なら静的評価のみ
	state := s.newState(b)
	is.Equal(s.tileChooseNode(state, b, 0.1), ScoreHeuristic(b))
	is.Equal(state.movesEvaled, uint64(0))
}

func TestScoreMovesMatchesSequential(t *testing.T) {
	s := NewSolver(DefaultTables(), DefaultSearchConfig())
	b := NewBoardFromValues([4][4]int{
		{2, 4, 8, 2},
		{0, 16, 4, 0},
		{0, 0, 2, 0},
		{0, 0, 0, 0},
	})

	parallel := s.ScoreMoves(context.Background(), b)
	for i, dir := range Directions {
		seq := s.ScoreMove(b, dir)
		assert.Equal(t, dir, parallel[i].Dir)
		assert.Equal(t, seq.Legal, parallel[i].Legal)
		assert.Equal(t, seq.Score, parallel[i].Score)
		assert.Equal(t, seq.Stats.MovesEvaled, parallel[i].Stats.MovesEvaled)
	}
}

func TestBestOf(t *testing.T) {
	tests := []struct {
		name   string
		scores [4]MoveScore
		want   Direction
	}{
		{"none legal", [4]MoveScore{{Dir: Up}, {Dir: Down}, {Dir: Left}, {Dir: Right}}, NoDirection},
		{"highest wins", [4]MoveScore{
			{Dir: Up, Score: 1, Legal: true},
			{Dir: Down, Score: 3, Legal: true},
			{Dir: Left, Score: 2, Legal: true},
			{Dir: Right, Legal: false},
		}, Down},
		{"tie picks lowest index", [4]MoveScore{
			{Dir: Up},
			{Dir: Down, Score: 5, Legal: true},
			{Dir: Left, Score: 5, Legal: true},
			{Dir: Right, Score: 4, Legal: true},
		}, Down},
		{"illegal never chosen", [4]MoveScore{
			{Dir: Up, Score: 100},
			{Dir: Down},
			{Dir: Left},
			{Dir: Right, Score: -1, Legal: true},
		}, Right},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestOf(tt.scores))
		})
	}
}

func BenchmarkBestMove(b *testing.B) {
	s := NewSolver(DefaultTables(), DefaultSearchConfig())
	board := NewBoardFromValues([4][4]int{
		{2, 4, 8, 16},
		{0, 32, 64, 4},
		{0, 0, 2, 8},
		{0, 0, 0, 2},
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.BestMove(ctx, board)
	}
}
