package domain

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// ScoreMoves は4方向をそれぞれ別のgoroutineで評価する
// キャッシュは方向ごとに独立で、共有するのは読み取り専用のテーブルのみ
func (s *Solver) ScoreMoves(ctx context.Context, b Board) [4]MoveScore {
	logger := zerolog.Ctx(ctx)

	var results [4]MoveScore
	g := errgroup.Group{}
	for i, dir := range Directions {
		i, dir := i, dir
		g.Go(func() error {
			results[i] = s.ScoreMove(b, dir)
			return nil
		})
	}
	// 各goroutineはエラーを返さない
	_ = g.Wait()

	for _, r := range results {
		logger.Debug().
			Stringer("move", r.Dir).
			Float32("result", r.Score).
			Uint64("moves-evaled", r.Stats.MovesEvaled).
			Uint64("cache-hits", r.Stats.CacheHits).
			Int("cache-size", r.Stats.CacheSize).
			Int("max-depth", r.Stats.MaxDepth).
			Int("depth-limit", r.Stats.DepthLimit).
			Dur("elapsed", r.Stats.Elapsed).
			Msg("move-scored")
	}
	return results
}

// BestMove は現在の盤面から最良の手を返す（トップレベルのみ並列化）
// 同点ならインデックスの小さい方向。有効な手がない場合はNoDirectionを返す
func (s *Solver) BestMove(ctx context.Context, b Board) Direction {
	scores := s.ScoreMoves(ctx, b)
	return BestOf(scores)
}

// BestOf は評価済みの4方向から有効な手の最大を選ぶ
func BestOf(scores [4]MoveScore) Direction {
	legal := lo.Filter(scores[:], func(m MoveScore, _ int) bool {
		return m.Legal
	})
	if len(legal) == 0 {
		return NoDirection
	}
	// MaxByは同値なら先頭を返す
	best := lo.MaxBy(legal, func(a, b MoveScore) bool {
		return a.Score > b.Score
	})
	return best.Dir
}

// ChooseBestMove は既定のテーブルと探索設定で最良の手を返す
func ChooseBestMove(b Board) Direction {
	return NewSolver(DefaultTables(), DefaultSearchConfig()).BestMove(context.Background(), b)
}
