package domain

import (
	"fmt"
	"math/bits"
	"strings"
)

// Board は2048の盤面を64ビット整数で表現
// 各タイルは4ビットで表現（0-15の指数: 0=空, 1=2, 2=4, 3=8, ..., 15=32768）
// 行iはビット[16i, 16i+16)、ニブルiはセル(i/4, i%4)
type Board uint64

// Row は1行分（4タイル × 4ビット）の16ビット値。テーブルのインデックスになる
type Row uint16

const (
	rowMask Board = 0xFFFF
	colMask Board = 0x000F000F000F000F

	// maxTileRank は表現できる最大の指数（2^15 = 32768）
	maxTileRank uint8 = 15
)

// Pack は4x4の指数配列からBoardを生成する
func Pack(ranks [4][4]uint8) Board {
	var b Board
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			b = b.WithRank(r, c, ranks[r][c])
		}
	}
	return b
}

// Unpack はBoardを4x4の指数配列に展開する
func (b Board) Unpack() [4][4]uint8 {
	var ranks [4][4]uint8
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			ranks[r][c] = b.Rank(r, c)
		}
	}
	return ranks
}

// IsTileValue は0（空）または2から32768までの2の累乗かどうかを返す
func IsTileValue(v int) bool {
	return v == 0 || (v >= 2 && v <= 1<<maxTileRank && bits.OnesCount(uint(v)) == 1)
}

// NewBoardFromValues はタイルの値（2, 4, 8, ...）からBoardを生成する
// 各値はIsTileValueを満たすこと。満たさない値があればpanicする
func NewBoardFromValues(values [4][4]int) Board {
	var b Board
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := values[r][c]
			if !IsTileValue(v) {
				panic(fmt.Sprintf("domain: %d at (%d, %d) is not a tile value", v, r, c))
			}
			if v > 0 {
				// 2の何乗かを計算（2→1, 4→2, 8→3, ...）
				b = b.WithRank(r, c, uint8(bits.TrailingZeros(uint(v))))
			}
		}
	}
	return b
}

// Values はBoardをタイルの値の配列に変換する
func (b Board) Values() [4][4]int {
	var values [4][4]int
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if rank := b.Rank(r, c); rank > 0 {
				values[r][c] = 1 << rank
			}
		}
	}
	return values
}

// Rank は指定位置のタイルの指数を返す
func (b Board) Rank(row, col int) uint8 {
	shift := (row*4 + col) * 4
	return uint8((b >> shift) & 0xF)
}

// WithRank は指定位置に指数を設定した新しいBoardを返す
func (b Board) WithRank(row, col int, rank uint8) Board {
	shift := (row*4 + col) * 4
	mask := ^(Board(0xF) << shift)
	return (b & mask) | (Board(rank&0xF) << shift)
}

// Row は指定行を16ビット値として抽出
func (b Board) Row(i int) Row {
	return Row((b >> (i * 16)) & rowMask)
}

// Transpose は盤面を転置する
//
//	a b c d     a e i m
//	e f g h  => b f j n
//	i j k l     c g k o
//	m n o p     d h l p
func Transpose(b Board) Board {
	// 12ビットシフトで2x2ブロック内の対角外ニブルを入れ替え
	a1 := b & 0xF0F00F0FF0F00F0F
	a2 := b & 0x0000F0F00000F0F0
	a3 := b & 0x0F0F00000F0F0000
	a := a1 | (a2 << 12) | (a3 >> 12)
	// 24ビットシフトで右上と左下の2x2ブロックを入れ替え
	b1 := a & 0xFF00FF0000FF00FF
	b2 := a & 0x00FF00FF00000000
	b3 := a & 0x00000000FF00FF00
	return b1 | (b2 >> 24) | (b3 << 24)
}

// ReverseRow は行内の4タイルの並びを反転する
func ReverseRow(row Row) Row {
	return (row >> 12) | ((row >> 4) & 0x00F0) | ((row << 4) & 0x0F00) | (row << 12)
}

// UnpackColumn は行の値を1列目に縦に並べた盤面を返す
func UnpackColumn(row Row) Board {
	tmp := Board(row)
	return (tmp | (tmp << 12) | (tmp << 24) | (tmp << 36)) & colMask
}

// CountEmptyCells は空きマスの数を返す
func CountEmptyCells(b Board) uint8 {
	x := uint64(b)
	// 各ニブルを最下位ビットに畳み込み、空のニブルだけ1を立てる
	x |= (x >> 2) & 0x3333333333333333
	x |= x >> 1
	x = ^x & 0x1111111111111111
	return uint8(bits.OnesCount64(x))
}

// MaxRank は盤面上の最大の指数を返す
func MaxRank(b Board) uint8 {
	var maxRank uint8
	for ; b != 0; b >>= 4 {
		maxRank = max(maxRank, uint8(b&0xF))
	}
	return maxRank
}

// DistinctTileCount は盤面上の異なるタイルの種類数を返す（最小2）
func DistinctTileCount(b Board) uint8 {
	var seen uint16
	for ; b != 0; b >>= 4 {
		seen |= 1 << (b & 0xF)
	}
	// 空マス（指数0）は数えない
	seen >>= 1
	return max(2, uint8(bits.OnesCount16(seen)))
}

// String はBoardをASCIIアートとして表示する
func (b Board) String() string {
	line := "+------+------+------+------+"
	var sb strings.Builder
	sb.WriteString(line + "\n")
	values := b.Values()
	for r := 0; r < 4; r++ {
		sb.WriteString("|")
		for c := 0; c < 4; c++ {
			if values[r][c] == 0 {
				sb.WriteString("      |")
			} else {
				fmt.Fprintf(&sb, "%5d |", values[r][c])
			}
		}
		sb.WriteString("\n" + line + "\n")
	}
	return sb.String()
}
