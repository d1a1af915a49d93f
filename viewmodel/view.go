package viewmodel

import (
	"encoding/json"
	"strconv"

	"termsweeper/game"
)

const (
	StateHidden     = "hidden"
	StateFlagged    = "flagged"
	StateOpened     = "opened"
	StateMisflagged = "misflagged" // ゲームオーバー時、地雷でないマスに立っていたフラグ
)

type CellView struct {
	State  string `json:"state"`
	Count  int    `json:"count"`
	IsMine bool   `json:"is_mine"`
}

type GameView struct {
	Cells          [][]CellView `json:"cells"`
	MinesRemaining int          `json:"mines_remaining"`
	IsGameOver     bool         `json:"is_game_over"`
	IsGameClear    bool         `json:"is_game_clear"`
}

// NewGameView は盤面から表示用のデータを作ります
func NewGameView(b *game.Board) GameView {
	rows, cols := b.Rows(), b.Columns()
	isGameOver := b.Detonated()
	isClear := b.Won()

	grid := make([][]CellView, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]CellView, cols)
		for c := 0; c < cols; c++ {
			v, _ := b.TileAt(game.Coord{Row: r, Col: c})
			grid[r][c] = Cell(v)
		}
	}

	// 終了後は全ての地雷を見せる
	mines := b.RevealedMines()
	if len(mines) > 0 {
		isMine := make(map[game.Coord]bool, len(mines))
		for _, m := range mines {
			isMine[m] = true
			cell := &grid[m.Row][m.Col]
			cell.IsMine = true
			if isClear {
				cell.State = StateFlagged
			} else if cell.State == StateHidden {
				cell.State = StateOpened
			}
		}
		if isGameOver {
			for r := range grid {
				for c := range grid[r] {
					if grid[r][c].State == StateFlagged && !isMine[game.Coord{Row: r, Col: c}] {
						grid[r][c].State = StateMisflagged
					}
				}
			}
		}
	}

	return GameView{
		Cells:          grid,
		MinesRemaining: b.AvailableFlags(),
		IsGameOver:     isGameOver,
		IsGameClear:    isClear,
	}
}

// Cell は1マス分の表示データを作ります
func Cell(v game.TileView) CellView {
	switch {
	case v.Exposed:
		cell := CellView{State: StateOpened, IsMine: v.Mine}
		if !v.Mine {
			cell.Count = v.Adjacent
		}
		return cell
	case v.Flagged:
		return CellView{State: StateFlagged}
	}
	return CellView{State: StateHidden}
}

// JSON は盤面を JSON 文字列にします
func JSON(b *game.Board) string {
	// nilの場合は空のJSONオブジェクトを返す
	if b == nil {
		return "{}"
	}
	bytes, _ := json.Marshal(NewGameView(b))
	return string(bytes)
}

const (
	GlyphHidden     = "▓"
	GlyphFlag       = "⚑"
	GlyphMine       = "*"
	GlyphMisflagged = "X"
	GlyphEmpty      = " "
)

// Glyph はマスを端末に表示するときの文字です
func Glyph(c CellView) string {
	switch c.State {
	case StateHidden:
		return GlyphHidden
	case StateFlagged:
		return GlyphFlag
	case StateMisflagged:
		return GlyphMisflagged
	}
	if c.IsMine {
		return GlyphMine
	}
	if c.Count == 0 {
		return GlyphEmpty
	}
	return strconv.Itoa(c.Count)
}
