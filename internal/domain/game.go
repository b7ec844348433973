package domain

import "lukechampine.com/frand"

// DrawTile はスポーンするタイルの指数を返す（90%で2、10%で4）
func DrawTile(rng *frand.RNG) uint8 {
	if rng.Intn(10) < 9 {
		return 1
	}
	return 2
}

// InsertRandomTile は空きマスから一様に1つ選んでタイルを置く
// 空きマスがなければ盤面をそのまま返す
func InsertRandomTile(rng *frand.RNG, b Board, rank uint8) Board {
	empty := int(CountEmptyCells(b))
	if empty == 0 {
		return b
	}
	index := rng.Intn(empty)

	tile := Board(rank)
	tmp := b
	for {
		// 埋まっているマスを飛ばす
		for tmp&0xF != 0 {
			tmp >>= 4
			tile <<= 4
		}
		if index == 0 {
			break
		}
		index--
		tmp >>= 4
		tile <<= 4
	}
	return b | tile
}

// InitialBoard はランダムなタイルを2つ置いた盤面を返す
func InitialBoard(rng *frand.RNG) Board {
	b := InsertRandomTile(rng, 0, DrawTile(rng))
	return InsertRandomTile(rng, b, DrawTile(rng))
}

// Game は2048ゲームの状態を管理する
type Game struct {
	tables       *Tables
	board        Board
	moves        int
	scorePenalty float32
	rng          *frand.RNG
}

// NewGame は新しいゲームを開始する
func NewGame(tables *Tables, rng *frand.RNG) *Game {
	return &Game{
		tables: tables,
		board:  InitialBoard(rng),
		rng:    rng,
	}
}

// NewGameFromBoard は指定した盤面からゲームを始める
func NewGameFromBoard(tables *Tables, rng *frand.RNG, b Board) *Game {
	return &Game{
		tables: tables,
		board:  b,
		rng:    rng,
	}
}

// Board は現在の盤面を返す
func (g *Game) Board() Board {
	return g.board
}

// Moves は成功した手の数を返す
func (g *Game) Moves() int {
	return g.moves
}

// Score は現在のスコアを返す
// 行スコアはスポーンした4もマージで作ったものとして数えるため、その分を差し引く
func (g *Game) Score() float32 {
	return g.tables.ScoreBoard(g.board) - g.scorePenalty
}

// MaxTile は最大タイルの値を返す
func (g *Game) MaxTile() int {
	rank := MaxRank(g.board)
	if rank == 0 {
		return 0
	}
	return 1 << rank
}

// IsGameOver はゲームオーバーかどうかを返す
func (g *Game) IsGameOver() bool {
	for _, dir := range Directions {
		if g.tables.ApplyMove(dir, g.board) != g.board {
			return false
		}
	}
	return true
}

// Move は指定した方向にスワイプを実行する
// 盤面が変化した場合はtrueを返す
func (g *Game) Move(dir Direction) bool {
	newBoard := g.tables.ApplyMove(dir, g.board)
	if newBoard == g.board {
		return false
	}

	rank := DrawTile(g.rng)
	if rank == 2 {
		g.scorePenalty += 4
	}
	g.board = InsertRandomTile(g.rng, newBoard, rank)
	g.moves++
	return true
}
