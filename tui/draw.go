package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"termsweeper/game"
	"termsweeper/session"
	"termsweeper/viewmodel"
)

var (
	styleDefault = tcell.StyleDefault
	styleHidden  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleFlag    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMine    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleWrong   = tcell.StyleDefault.Foreground(tcell.ColorRed).StrikeThrough(true)
	styleHeader  = tcell.StyleDefault.Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleWin     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLose    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	numberColors = [9]tcell.Color{
		tcell.ColorDefault,
		tcell.ColorBlue,
		tcell.ColorGreen,
		tcell.ColorRed,
		tcell.ColorNavy,
		tcell.ColorMaroon,
		tcell.ColorTeal,
		tcell.ColorGray,
		tcell.ColorSilver,
	}
)

// Draw は画面全体を描き直します
func (u *UI) Draw() {
	u.screen.Clear()
	u.layout()

	b := u.sess.Board()
	view := viewmodel.NewGameView(b)
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Columns(); c++ {
			u.drawView(game.Coord{Row: r, Col: c}, view.Cells[r][c])
		}
	}
	u.drawHeader()
	u.drawStatus()
	u.screen.Show()
}

// layout は盤面を横方向の中央に置きます
func (u *UI) layout() {
	w, _ := u.screen.Size()
	u.originX = max(0, (w-u.sess.Board().Columns()*cellWidth)/2)
}

// screenPos はマスの左端の画面座標を返します
func (u *UI) screenPos(c game.Coord) (int, int) {
	return u.originX + c.Col*cellWidth, boardTop + c.Row
}

// cellAt は画面座標にあるマスを返します
func (u *UI) cellAt(x, y int) (game.Coord, bool) {
	if x < u.originX {
		return game.Coord{}, false
	}
	c := game.Coord{Row: y - boardTop, Col: (x - u.originX) / cellWidth}
	return c, u.sess.Board().Contains(c)
}

// drawCell は1マスだけ描き直します (Show は呼び出し側で行う)
func (u *UI) drawCell(c game.Coord) {
	b := u.sess.Board()
	if !b.Contains(c) {
		return
	}
	// 終了後は地雷の表示が変わるので全体を描く
	if u.sess.State() != session.Playing {
		view := viewmodel.NewGameView(b)
		u.drawView(c, view.Cells[c.Row][c.Col])
		return
	}
	v, _ := b.TileAt(c)
	u.drawView(c, viewmodel.Cell(v))
}

func (u *UI) drawView(c game.Coord, cell viewmodel.CellView) {
	x, y := u.screenPos(c)
	glyph := []rune(viewmodel.Glyph(cell))[0]
	style := cellStyle(cell)

	if u.hint != nil && u.hint.Coord == c {
		style = style.Underline(true)
	}
	if c == u.cursor && u.sess.State() == session.Playing {
		style = style.Reverse(true)
	}

	u.screen.SetContent(x, y, ' ', nil, style)
	u.screen.SetContent(x+1, y, glyph, nil, style)
	u.screen.SetContent(x+2, y, ' ', nil, style)
}

func cellStyle(cell viewmodel.CellView) tcell.Style {
	switch cell.State {
	case viewmodel.StateHidden:
		return styleHidden
	case viewmodel.StateFlagged:
		return styleFlag
	case viewmodel.StateMisflagged:
		return styleWrong
	}
	if cell.IsMine {
		return styleMine
	}
	if cell.Count > 0 && cell.Count < len(numberColors) {
		return styleDefault.Foreground(numberColors[cell.Count]).Bold(true)
	}
	return styleDefault
}

// headerText はヘッダーの文字列とスタイルを返します
func (u *UI) headerText() (string, tcell.Style) {
	switch u.sess.State() {
	case session.Won:
		return "You win!", styleWin
	case session.Lost:
		return "You lose!", styleLose
	}
	return fmt.Sprintf("Flags: %d", u.sess.Board().AvailableFlags()), styleHeader
}

func (u *UI) drawHeader() {
	text, style := u.headerText()
	u.drawLine(0, text, style)
}

func (u *UI) drawStatus() {
	y := boardTop + u.sess.Board().Rows() + 1
	u.drawLine(y, u.status, styleStatus)
	help := "arrows/hjkl move  space expose  f flag  ? hint  n new  q quit"
	u.drawLine(y+1, help, styleDefault.Dim(true))
}

// drawLine は1行を消してから中央寄せで文字列を書きます
func (u *UI) drawLine(y int, text string, style tcell.Style) {
	w, _ := u.screen.Size()
	for x := 0; x < w; x++ {
		u.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	runes := []rune(text)
	x := max(0, (w-len(runes))/2)
	for i, r := range runes {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}
