package game

import "errors"

// NoCount は周囲の地雷数がまだ確定していない(未開封、または地雷)ことを表します
const NoCount = -1

var (
	ErrInvalidSize   = errors.New("board size must be positive")
	ErrTooManyMines  = errors.New("number of mines must be less than the total number of tiles")
	ErrOutOfRange    = errors.New("coordinate out of range")
	ErrDuplicateMine = errors.New("duplicate mine coordinate")
)

// Coord は0始まりの (行, 列) 座標です
type Coord struct {
	Row int
	Col int
}

// Tile は1つのマスの情報を持ちます
type Tile struct {
	IsMine    bool // 地雷かどうか (生成後は変わらない)
	IsExposed bool // すでに開けられたか
	IsFlagged bool // フラグが立てられているか
	Adjacent  int  // 周囲8マスの地雷数。開けるまでは NoCount
}

// TileView はプレイヤーから見えるマスの状態です
// 地雷かどうかは開けられた後にしか分かりません
type TileView struct {
	Exposed  bool
	Flagged  bool
	Mine     bool
	Adjacent int
}

// Board はゲーム盤面全体を持ちます
type Board struct {
	rows    int
	columns int
	tiles   []Tile // row*columns+col の1次元配列で管理

	mineCount    int
	flaggedCount int // 立っているフラグの数
	flaggedMines int // 正しく地雷に立っているフラグの数
	exposedCount int
	detonated    bool
}

// ExposeResult は Expose の結果です
type ExposeResult struct {
	Detonated bool    // 地雷を踏んだ
	Exposed   []Coord // この呼び出しで新しく開いたマス (BFS順)
}

// Count は新しく開いたマスの数を返します
func (r ExposeResult) Count() int {
	return len(r.Exposed)
}

// FlagResult は Flag の結果です
type FlagResult int

const (
	FlagPlaced FlagResult = iota
	FlagRemoved
	FlagRejectedBudget  // 残りフラグがない
	FlagRejectedExposed // すでに開いているマス
	FlagIgnored         // ゲーム終了後などで何もしなかった
)

// Flagged は呼び出し後にそのマスにフラグが立っているかを返します
func (r FlagResult) Flagged() bool {
	return r == FlagPlaced
}

// Changed はマスの状態が変わったかどうかを返します
func (r FlagResult) Changed() bool {
	return r == FlagPlaced || r == FlagRemoved
}

func (r FlagResult) String() string {
	switch r {
	case FlagPlaced:
		return "placed"
	case FlagRemoved:
		return "removed"
	case FlagRejectedBudget:
		return "rejected(budget-exhausted)"
	case FlagRejectedExposed:
		return "rejected(already-exposed)"
	case FlagIgnored:
		return "ignored"
	}
	return "unknown"
}
