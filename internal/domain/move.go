package domain

// Direction はスワイプの方向を表す
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// NoDirection は有効な手がないことを表す
const NoDirection Direction = -1

// Directions は全方向をインデックス順に並べたもの
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "None"
	}
}

// ApplyMove は既定のテーブルで指定方向にスワイプした盤面を返す
// 盤面が変化しなければその方向には動かせない
func ApplyMove(dir Direction, b Board) Board {
	return DefaultTables().ApplyMove(dir, b)
}

// ApplyMove は指定方向にスワイプした盤面を返す（スポーンなし）
func (t *Tables) ApplyMove(dir Direction, b Board) Board {
	switch dir {
	case Up:
		return t.applyColumns(&t.colUp, b)
	case Down:
		return t.applyColumns(&t.colDown, b)
	case Left:
		return t.applyRows(&t.rowLeft, b)
	case Right:
		return t.applyRows(&t.rowRight, b)
	default:
		return b
	}
}

func (t *Tables) applyRows(table *[tableSize]Row, b Board) Board {
	ret := b
	ret ^= Board(table[b.Row(0)]) << 0
	ret ^= Board(table[b.Row(1)]) << 16
	ret ^= Board(table[b.Row(2)]) << 32
	ret ^= Board(table[b.Row(3)]) << 48
	return ret
}

// applyColumns は転置した盤面の各行で列形状の差分を引き、元の盤面に適用する
func (t *Tables) applyColumns(table *[tableSize]Board, b Board) Board {
	ret := b
	tr := Transpose(b)
	ret ^= table[tr.Row(0)] << 0
	ret ^= table[tr.Row(1)] << 4
	ret ^= table[tr.Row(2)] << 8
	ret ^= table[tr.Row(3)] << 12
	return ret
}

// CanMove は指定方向にスワイプして盤面が変化するかを返す
func (b Board) CanMove(dir Direction) bool {
	return ApplyMove(dir, b) != b
}

// IsGameOver は全方向にスワイプできない（ゲームオーバー）かどうかを返す
func (b Board) IsGameOver() bool {
	for _, dir := range Directions {
		if b.CanMove(dir) {
			return false
		}
	}
	return true
}
