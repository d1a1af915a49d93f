package game

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewBoard は指定されたサイズと地雷数で盤面を初期化して返します
// rng が nil の場合は現在時刻で初期化した乱数を使います
func NewBoard(rows, columns, mineCount int, rng *rand.Rand) (*Board, error) {
	if err := checkSize(rows, columns, mineCount); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}

	board := newEmptyBoard(rows, columns)
	board.placeMines(mineCount, rng)

	return board, nil
}

// NewBoardWithMines は地雷の位置を指定して盤面を作ります (テストやリプレイ用)
func NewBoardWithMines(rows, columns int, mines []Coord) (*Board, error) {
	if err := checkSize(rows, columns, len(mines)); err != nil {
		return nil, err
	}

	board := newEmptyBoard(rows, columns)
	for _, c := range mines {
		if !board.Contains(c) {
			return nil, fmt.Errorf("mine %v: %w", c, ErrOutOfRange)
		}
		tile := &board.tiles[board.index(c)]
		if tile.IsMine {
			return nil, fmt.Errorf("mine %v: %w", c, ErrDuplicateMine)
		}
		tile.IsMine = true
	}
	board.mineCount = len(mines)

	return board, nil
}

func checkSize(rows, columns, mineCount int) error {
	if rows <= 0 || columns <= 0 {
		return fmt.Errorf("%dx%d: %w", rows, columns, ErrInvalidSize)
	}
	if mineCount < 0 || mineCount > rows*columns {
		return fmt.Errorf("%d mines on %dx%d: %w", mineCount, rows, columns, ErrTooManyMines)
	}
	return nil
}

func newEmptyBoard(rows, columns int) *Board {
	tiles := make([]Tile, rows*columns)
	for i := range tiles {
		tiles[i].Adjacent = NoCount
	}
	return &Board{
		rows:    rows,
		columns: columns,
		tiles:   tiles,
	}
}

// placeMines は全座標を並べ替えて先頭 count 個を地雷にします
// どの組み合わせも同じ確率で選ばれます
func (b *Board) placeMines(count int, rng *rand.Rand) {
	perm := rng.Perm(len(b.tiles))
	for _, i := range perm[:count] {
		b.tiles[i].IsMine = true
	}
	b.mineCount = count
}

// Adjacent は (row, col) の周囲8マスのうち盤面内にある座標を返します
func Adjacent(c Coord, rows, columns int) []Coord {
	out := make([]Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, col := c.Row+dr, c.Col+dc
			if r >= 0 && r < rows && col >= 0 && col < columns {
				out = append(out, Coord{Row: r, Col: col})
			}
		}
	}
	return out
}

// Contains は座標が盤面内かどうかを返します
func (b *Board) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Col >= 0 && c.Col < b.columns
}

func (b *Board) index(c Coord) int {
	return c.Row*b.columns + c.Col
}

func (b *Board) coord(i int) Coord {
	return Coord{Row: i / b.columns, Col: i % b.columns}
}

func (b *Board) check(c Coord) error {
	if !b.Contains(c) {
		return fmt.Errorf("(%d, %d) on %dx%d: %w", c.Row, c.Col, b.rows, b.columns, ErrOutOfRange)
	}
	return nil
}

// countMines は周囲の地雷数を数えます
func (b *Board) countMines(c Coord) int {
	count := 0
	for _, n := range Adjacent(c, b.rows, b.columns) {
		if b.tiles[b.index(n)].IsMine {
			count++
		}
	}
	return count
}

// Expose は指定された座標のマスを開けます
// 周囲に地雷がないマスからは、つながっている安全な領域を幅優先で開けていきます
func (b *Board) Expose(c Coord) (ExposeResult, error) {
	if err := b.check(c); err != nil {
		return ExposeResult{}, err
	}

	tile := &b.tiles[b.index(c)]

	// 1. フラグがある、またはすでに開いているなら何もしない
	if tile.IsFlagged || tile.IsExposed {
		return ExposeResult{}, nil
	}

	// 2. 地雷判定 (そのマスだけを開ける)
	if tile.IsMine {
		tile.IsExposed = true
		b.exposedCount++
		b.detonated = true
		return ExposeResult{Detonated: true, Exposed: []Coord{c}}, nil
	}

	// 3. 0連鎖 (Flood Fill)
	visited := make([]bool, len(b.tiles))
	queue := []Coord{c}
	var exposed []Coord

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		i := b.index(curr)
		if visited[i] {
			continue
		}
		visited[i] = true

		t := &b.tiles[i]
		// フラグのあるマスは開けないし、その先にも広げない
		if t.IsFlagged {
			continue
		}

		// 開いているマスは数えないが、0 のマスなら通り抜ける
		if !t.IsExposed {
			t.IsExposed = true
			t.Adjacent = b.countMines(curr)
			exposed = append(exposed, curr)
		}

		// 数字のマスは境界なのでここで止める
		if t.Adjacent > 0 {
			continue
		}
		for _, n := range Adjacent(curr, b.rows, b.columns) {
			if !visited[b.index(n)] {
				queue = append(queue, n)
			}
		}
	}

	b.exposedCount += len(exposed)
	return ExposeResult{Exposed: exposed}, nil
}

// Flag は指定された座標のフラグを切り替えます
// 立っているフラグの数は地雷数を超えません
func (b *Board) Flag(c Coord) (FlagResult, error) {
	if err := b.check(c); err != nil {
		return 0, err
	}
	tile := &b.tiles[b.index(c)]

	if tile.IsFlagged {
		tile.IsFlagged = false
		b.flaggedCount--
		if tile.IsMine {
			b.flaggedMines--
		}
		return FlagRemoved, nil
	}

	// すでに開いているマスにはフラグを置けない
	if tile.IsExposed {
		return FlagRejectedExposed, nil
	}
	if b.flaggedCount >= b.mineCount {
		return FlagRejectedBudget, nil
	}

	tile.IsFlagged = true
	b.flaggedCount++
	if tile.IsMine {
		b.flaggedMines++
	}
	return FlagPlaced, nil
}

// TileAt はプレイヤーから見えるマスの状態を返します
func (b *Board) TileAt(c Coord) (TileView, error) {
	if err := b.check(c); err != nil {
		return TileView{}, err
	}
	t := b.tiles[b.index(c)]
	v := TileView{
		Exposed:  t.IsExposed,
		Flagged:  t.IsFlagged,
		Adjacent: NoCount,
	}
	if t.IsExposed {
		v.Mine = t.IsMine
		v.Adjacent = t.Adjacent
	}
	return v, nil
}

// RevealedMines はゲーム終了後に全地雷の座標を返します
// プレイ中は nil です
func (b *Board) RevealedMines() []Coord {
	if !b.detonated && !b.Won() {
		return nil
	}
	mines := make([]Coord, 0, b.mineCount)
	for i, t := range b.tiles {
		if t.IsMine {
			mines = append(mines, b.coord(i))
		}
	}
	return mines
}

// Won は全ての安全なマスが開いているか、地雷に正しくフラグが立っているかを返します
func (b *Board) Won() bool {
	if b.detonated {
		return false
	}
	return b.exposedCount+b.flaggedMines == len(b.tiles)
}

// Detonated は地雷を踏んだかどうかを返します
func (b *Board) Detonated() bool { return b.detonated }

func (b *Board) Rows() int           { return b.rows }
func (b *Board) Columns() int        { return b.columns }
func (b *Board) MineCount() int      { return b.mineCount }
func (b *Board) FlaggedCount() int   { return b.flaggedCount }
func (b *Board) TotalExposed() int   { return b.exposedCount }
func (b *Board) AvailableFlags() int { return b.mineCount - b.flaggedCount }
func (b *Board) TotalTiles() int     { return len(b.tiles) }
