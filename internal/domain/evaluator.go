package domain

// Evaluator は探索の末端で盤面を静的に評価するインターフェース
type Evaluator interface {
	Evaluate(b Board) float32
}

// HeuristicEvaluator は行ごとのヒューリスティック表で評価する
type HeuristicEvaluator struct {
	tables *Tables
}

// NewHeuristicEvaluator は指定テーブルを使うEvaluatorを生成する
func NewHeuristicEvaluator(t *Tables) *HeuristicEvaluator {
	return &HeuristicEvaluator{tables: t}
}

func (e *HeuristicEvaluator) Evaluate(b Board) float32 {
	return e.tables.ScoreHeuristic(b)
}

// ScoreBoard は盤面の実スコア（マージで得た点数の近似）を返す
func (t *Tables) ScoreBoard(b Board) float32 {
	return sumRows(b, &t.rowScore)
}

// ScoreHeuristic は盤面とその転置の両方でヒューリスティック値を合計する
// 行方向と列方向の単調性・マージ可能性を同じ重みで扱うため
func (t *Tables) ScoreHeuristic(b Board) float32 {
	return sumRows(b, &t.rowHeuristic) + sumRows(Transpose(b), &t.rowHeuristic)
}

// ScoreBoard は既定のテーブルで実スコアを返す
func ScoreBoard(b Board) float32 {
	return DefaultTables().ScoreBoard(b)
}

// ScoreHeuristic は既定のテーブルでヒューリスティック値を返す
func ScoreHeuristic(b Board) float32 {
	return DefaultTables().ScoreHeuristic(b)
}

func sumRows(b Board, table *[tableSize]float32) float32 {
	return table[b.Row(0)] +
		table[b.Row(1)] +
		table[b.Row(2)] +
		table[b.Row(3)]
}
