package domain

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// tableSize は16ビット行の全パターン数
const tableSize = 1 << 16

// Weights はヒューリスティックの各項の係数
type Weights struct {
	LostPenalty        float64 `yaml:"lost-penalty"`
	MonotonicityPower  float64 `yaml:"monotonicity-power"`
	MonotonicityWeight float64 `yaml:"monotonicity-weight"`
	SumPower           float64 `yaml:"sum-power"`
	SumWeight          float64 `yaml:"sum-weight"`
	MergesWeight       float64 `yaml:"merges-weight"`
	EmptyWeight        float64 `yaml:"empty-weight"`
}

// DefaultWeights はチューニング済みの既定の係数を返す
func DefaultWeights() Weights {
	return Weights{
		LostPenalty:        200000.0,
		MonotonicityPower:  4.0,
		MonotonicityWeight: 47.0,
		SumPower:           3.5,
		SumWeight:          11.0,
		MergesWeight:       700.0,
		EmptyWeight:        270.0,
	}
}

// MoveTables は各行のスワイプ結果をXOR差分として保持する
// colUp/colDownは列の形に展開済みの差分
type MoveTables struct {
	rowLeft  [tableSize]Row
	rowRight [tableSize]Row
	colUp    [tableSize]Board
	colDown  [tableSize]Board
}

// ScoreTables は各行の実スコアとヒューリスティック値を保持する
type ScoreTables struct {
	rowScore     [tableSize]float32
	rowHeuristic [tableSize]float32
}

// Tables は構築後は読み取り専用。複数のgoroutineからロックなしで共有できる
type Tables struct {
	MoveTables
	ScoreTables
	weights Weights
}

var defaultTables = sync.OnceValue(func() *Tables {
	return NewTables(DefaultWeights())
})

// DefaultTables は既定の係数で一度だけ構築されたテーブルを返す
func DefaultTables() *Tables {
	return defaultTables()
}

// NewTables は全65536行について移動・スコアのテーブルを事前計算する
func NewTables(w Weights) *Tables {
	start := time.Now()
	t := &Tables{weights: w}

	for i := 0; i < tableSize; i++ {
		row := Row(i)
		line := unpackRow(row)

		t.rowScore[row] = rowScore(line)
		t.rowHeuristic[row] = rowHeuristic(line, w)

		result := packRow(slideLeft(line))
		revRow := ReverseRow(row)
		revResult := ReverseRow(result)

		// 右・上・下はすべて左スワイプの結果から対称性で導出できる
		t.rowLeft[row] = row ^ result
		t.rowRight[revRow] = revRow ^ revResult
		t.colUp[row] = UnpackColumn(row) ^ UnpackColumn(result)
		t.colDown[revRow] = UnpackColumn(revRow) ^ UnpackColumn(revResult)
	}

	log.Debug().Dur("elapsed", time.Since(start)).
		Float64("lost-penalty", w.LostPenalty).
		Msg("tables-built")
	return t
}

// Weights はテーブル構築に使った係数を返す
func (t *Tables) Weights() Weights {
	return t.weights
}

func unpackRow(row Row) [4]uint8 {
	return [4]uint8{
		uint8(row & 0xF),
		uint8((row >> 4) & 0xF),
		uint8((row >> 8) & 0xF),
		uint8((row >> 12) & 0xF),
	}
}

func packRow(line [4]uint8) Row {
	var row Row
	for i := 0; i < 4; i++ {
		row |= Row(line[i]) << (i * 4)
	}
	return row
}

// rowScore はその行のタイルを作るまでに得たマージスコアの近似値
func rowScore(line [4]uint8) float32 {
	var score float32
	for _, rank := range line {
		if rank >= 2 {
			score += float32(rank-1) * float32(uint32(1)<<rank)
		}
	}
	return score
}

// rowHeuristic は空きマス・マージ可能数・単調性・タイル総和を重み付けして合成する
func rowHeuristic(line [4]uint8, w Weights) float32 {
	var sum float64
	empty, merges := 0, 0

	// 同じ指数の連続（空マスは飛ばす）はk個でkマージとして数える
	var prev uint8
	counter := 0
	for _, rank := range line {
		sum += math.Pow(float64(rank), w.SumPower)
		if rank == 0 {
			empty++
			continue
		}
		if prev == rank {
			counter++
		} else if counter > 0 {
			merges += 1 + counter
			counter = 0
		}
		prev = rank
	}
	if counter > 0 {
		merges += 1 + counter
	}

	var monoLeft, monoRight float64
	for i := 1; i < 4; i++ {
		a := math.Pow(float64(line[i-1]), w.MonotonicityPower)
		b := math.Pow(float64(line[i]), w.MonotonicityPower)
		if line[i-1] > line[i] {
			monoLeft += a - b
		} else {
			monoRight += b - a
		}
	}

	return float32(w.LostPenalty +
		w.EmptyWeight*float64(empty) +
		w.MergesWeight*float64(merges) -
		w.MonotonicityWeight*math.Min(monoLeft, monoRight) -
		w.SumWeight*sum)
}

// slideLeft は1行を左にスライドしてマージする
// マージで生まれたタイルは同じスワイプ内で再マージしない。指数15同士はマージしない
func slideLeft(line [4]uint8) [4]uint8 {
	var result [4]uint8
	writePos := 0
	justMerged := false

	for readPos := 0; readPos < 4; readPos++ {
		rank := line[readPos]
		if rank == 0 {
			continue
		}

		if writePos > 0 && !justMerged && result[writePos-1] == rank && rank < maxTileRank {
			result[writePos-1]++
			justMerged = true
		} else {
			result[writePos] = rank
			writePos++
			justMerged = false
		}
	}
	return result
}
