package domain

import (
	"time"
)

// スポーン確率（2が90%、4が10%）
const (
	spawn2Prob = 0.9
	spawn4Prob = 0.1
)

// SearchConfig はExpectimax探索の枝刈り・キャッシュの設定
type SearchConfig struct {
	// CprobThreshold より到達確率が低い局面は展開しない
	CprobThreshold float32
	// CacheDepthLimit 以上の深さではキャッシュを使わない
	CacheDepthLimit int
	// MinDepthLimit は探索深さの下限
	MinDepthLimit int
	// TieEpsilon は有効な手の評価値に加算し、評価0の無効手と区別する
	TieEpsilon float32
}

// DefaultSearchConfig は既定の探索設定を返す
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		CprobThreshold:  0.0001,
		CacheDepthLimit: 15,
		MinDepthLimit:   3,
		TieEpsilon:      0.000001,
	}
}

// SearchStats は1回のトップレベル評価の統計
type SearchStats struct {
	MovesEvaled uint64
	CacheHits   uint64
	CacheSize   int
	MaxDepth    int
	DepthLimit  int
	Elapsed     time.Duration
}

// MoveScore はトップレベルの1方向の評価結果
type MoveScore struct {
	Dir   Direction
	Score float32
	Legal bool
	Stats SearchStats
}

// cacheEntry は評価値と、それを計算したときの深さ
type cacheEntry struct {
	depth     uint8
	heuristic float32
}

// searchState はトップレベルの1方向の評価ごとに作り直す。goroutine間で共有しない
type searchState struct {
	cache       map[Board]cacheEntry
	curDepth    int
	depthLimit  int
	maxDepth    int
	movesEvaled uint64
	cacheHits   uint64
}

// Solver はExpectimaxアルゴリズムで最良の手を探索する
type Solver struct {
	tables    *Tables
	evaluator Evaluator
	cfg       SearchConfig
}

// NewSolver は新しいSolverを生成する
func NewSolver(tables *Tables, cfg SearchConfig) *Solver {
	return &Solver{
		tables:    tables,
		evaluator: NewHeuristicEvaluator(tables),
		cfg:       cfg,
	}
}

// DepthLimit は盤面のタイルの種類数から探索深さを決める
// 種類が多いほど深く読む
func (s *Solver) DepthLimit(b Board) int {
	return max(s.cfg.MinDepthLimit, int(DistinctTileCount(b))-2)
}

func (s *Solver) newState(b Board) *searchState {
	return &searchState{
		cache:      make(map[Board]cacheEntry),
		depthLimit: s.DepthLimit(b),
	}
}

// ScoreMove は指定方向に動かした後の期待値を計算する
// 動かせない方向の評価は0
func (s *Solver) ScoreMove(b Board, dir Direction) MoveScore {
	start := time.Now()
	state := s.newState(b)
	ms := MoveScore{Dir: dir}

	newBoard := s.tables.ApplyMove(dir, b)
	if newBoard != b {
		ms.Legal = true
		ms.Score = s.tileChooseNode(state, newBoard, 1.0) + s.cfg.TieEpsilon
	}

	ms.Stats = SearchStats{
		MovesEvaled: state.movesEvaled,
		CacheHits:   state.cacheHits,
		CacheSize:   len(state.cache),
		MaxDepth:    state.maxDepth,
		DepthLimit:  state.depthLimit,
		Elapsed:     time.Since(start),
	}
	return ms
}

// moveNode はプレイヤーの最善手を探索（最大化ノード）
// どの方向にも動かせなければ0
func (s *Solver) moveNode(state *searchState, b Board, cprob float32) float32 {
	var best float32
	state.curDepth++
	for _, dir := range Directions {
		newBoard := s.tables.ApplyMove(dir, b)
		state.movesEvaled++
		if newBoard == b {
			continue
		}
		best = max(best, s.tileChooseNode(state, newBoard, cprob))
	}
	state.curDepth--
	return best
}

// tileChooseNode はスポーンの期待値を計算する（期待値ノード）
func (s *Solver) tileChooseNode(state *searchState, b Board, cprob float32) float32 {
	if cprob < s.cfg.CprobThreshold || state.curDepth >= state.depthLimit {
		state.maxDepth = max(state.maxDepth, state.curDepth)
		return s.evaluator.Evaluate(b)
	}

	// NOTE: 比べるのは深さだけで、計算時のcprobは見ない。
	// 別の経路で枝刈りされた近似値を返しうるが、着手を変えないためこの比較のまま
	if state.curDepth < s.cfg.CacheDepthLimit {
		if entry, ok := state.cache[b]; ok && int(entry.depth) <= state.curDepth {
			state.cacheHits++
			return entry.heuristic
		}
	}

	numOpen := CountEmptyCells(b)
	if numOpen == 0 {
		return s.evaluator.Evaluate(b)
	}
	cprob /= float32(numOpen)

	// 空きマスごとに2（指数1）と4（指数2）を置いた局面を評価
	var res float32
	tmp := b
	tile2 := Board(1)
	for tile2 != 0 {
		if tmp&0xF == 0 {
			res += s.moveNode(state, b|tile2, cprob*spawn2Prob) * spawn2Prob
			res += s.moveNode(state, b|(tile2<<1), cprob*spawn4Prob) * spawn4Prob
		}
		tmp >>= 4
		tile2 <<= 4
	}
	res /= float32(numOpen)

	if state.curDepth < s.cfg.CacheDepthLimit {
		state.cache[b] = cacheEntry{depth: uint8(state.curDepth), heuristic: res}
	}
	return res
}
