package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"termsweeper/game"
	"termsweeper/internal/logger"
	"termsweeper/session"
	"termsweeper/solver"
	"termsweeper/sound"
	"termsweeper/viewmodel"
)

const (
	cellWidth = 3 // " x " の3文字で1マス
	boardTop  = 2 // ヘッダーの下から盤面を描く
)

type action int

const (
	actNone action = iota
	actQuit
	actUp
	actDown
	actLeft
	actRight
	actExpose
	actFlag
	actHint
	actNew
)

// UI は tcell の画面でゲームを遊ぶための構造体です
type UI struct {
	screen tcell.Screen
	sess   *session.Session
	sound  sound.Player

	cursor      game.Coord
	hint        *solver.Move
	status      string
	originX     int
	lastButtons tcell.ButtonMask
}

// New は UI を作ります。p が nil の場合は音を鳴らしません
func New(screen tcell.Screen, s *session.Session, p sound.Player) *UI {
	if p == nil {
		p = sound.Nop{}
	}
	u := &UI{screen: screen, sess: s, sound: p}
	u.resetCursor()
	return u
}

// Run は終了キーが押されるまでイベントを処理します
func (u *UI) Run() {
	u.screen.EnableMouse()
	u.screen.HideCursor()
	u.Draw()

	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		if !u.HandleEvent(ev) {
			return
		}
	}
}

// HandleEvent は1つのイベントを処理します。終了する場合は false を返します
func (u *UI) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return u.apply(actionFor(ev.Key(), ev.Rune()))
	case *tcell.EventMouse:
		u.handleMouse(ev)
	case *tcell.EventResize:
		u.screen.Sync()
		u.Draw()
	}
	return true
}

// actionFor はキー入力を操作に変換します
func actionFor(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyUp:
		return actUp
	case tcell.KeyDown:
		return actDown
	case tcell.KeyLeft:
		return actLeft
	case tcell.KeyRight:
		return actRight
	case tcell.KeyEnter:
		return actExpose
	case tcell.KeyRune:
	default:
		return actNone
	}

	switch r {
	case 'q', 'Q':
		return actQuit
	case 'k':
		return actUp
	case 'j':
		return actDown
	case 'h':
		return actLeft
	case 'l':
		return actRight
	case ' ', 'e':
		return actExpose
	case 'f':
		return actFlag
	case '?':
		return actHint
	case 'n':
		return actNew
	}
	return actNone
}

// apply は操作を実行します。終了する場合は false を返します
func (u *UI) apply(a action) bool {
	switch a {
	case actQuit:
		return false
	case actNew:
		u.restart()
		return true
	}

	// ゲーム終了後は n と q 以外を受け付けない
	if u.sess.State() != session.Playing {
		return true
	}

	switch a {
	case actUp:
		u.moveCursor(-1, 0)
	case actDown:
		u.moveCursor(1, 0)
	case actLeft:
		u.moveCursor(0, -1)
	case actRight:
		u.moveCursor(0, 1)
	case actExpose:
		u.expose(u.cursor)
	case actFlag:
		u.flag(u.cursor)
	case actHint:
		u.showHint()
	}
	return true
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons &^ u.lastButtons
	u.lastButtons = buttons
	if pressed == tcell.ButtonNone || u.sess.State() != session.Playing {
		return
	}

	x, y := ev.Position()
	c, ok := u.cellAt(x, y)
	if !ok {
		return
	}
	u.setCursor(c)

	switch {
	case pressed&tcell.Button1 != 0:
		u.expose(c)
	case pressed&tcell.Button2 != 0:
		u.flag(c)
	}
}

func (u *UI) expose(c game.Coord) {
	res, err := u.sess.Expose(c)
	if err != nil {
		logger.Get().WithError(err).Warn("expose failed")
		return
	}
	u.status = ""
	u.clearHint()

	switch {
	case res.Detonated:
		u.sound.Detonate()
	case u.sess.State() == session.Won:
		u.sound.Victory()
	case res.Count() > 0:
		u.sound.Click()
	}

	if u.sess.State() != session.Playing {
		u.Draw()
		return
	}
	// 新しく開いたマスだけ描き直す
	for _, e := range res.Exposed {
		u.drawCell(e)
	}
	u.drawHeader()
	u.drawStatus()
	u.screen.Show()
}

func (u *UI) flag(c game.Coord) {
	res, err := u.sess.Flag(c)
	if err != nil {
		logger.Get().WithError(err).Warn("flag failed")
		return
	}
	switch res {
	case game.FlagRejectedBudget:
		u.status = "No flags left"
	case game.FlagRejectedExposed:
		u.status = "Tile is already exposed"
	default:
		u.status = ""
	}
	u.clearHint()

	if u.sess.State() == session.Won {
		u.sound.Victory()
		u.Draw()
		return
	}
	u.drawCell(c)
	u.drawHeader()
	u.drawStatus()
	u.screen.Show()
}

func (u *UI) showHint() {
	move := u.sess.Hint()
	if move == nil {
		u.status = "No hint available"
		u.drawStatus()
		u.screen.Show()
		return
	}
	u.clearHint()
	u.hint = move
	u.status = fmt.Sprintf("Hint: %s (%d, %d) [%s, %.0f%%]",
		move.Type, move.Coord.Row, move.Coord.Col, move.Strategy, move.Confidence*100)
	u.setCursor(move.Coord)
	u.drawStatus()
	u.screen.Show()
}

func (u *UI) clearHint() {
	if u.hint == nil {
		return
	}
	prev := u.hint.Coord
	u.hint = nil
	u.drawCell(prev)
}

func (u *UI) restart() {
	if err := u.sess.Restart(); err != nil {
		u.status = err.Error()
	} else {
		u.status = ""
	}
	u.hint = nil
	u.lastButtons = tcell.ButtonNone
	u.resetCursor()
	u.Draw()
}

func (u *UI) resetCursor() {
	b := u.sess.Board()
	u.cursor = game.Coord{Row: b.Rows() / 2, Col: b.Columns() / 2}
}

func (u *UI) moveCursor(dr, dc int) {
	b := u.sess.Board()
	next := game.Coord{
		Row: min(max(u.cursor.Row+dr, 0), b.Rows()-1),
		Col: min(max(u.cursor.Col+dc, 0), b.Columns()-1),
	}
	u.setCursor(next)
}

func (u *UI) setCursor(c game.Coord) {
	prev := u.cursor
	u.cursor = c
	u.drawCell(prev)
	u.drawCell(c)
	u.screen.Show()
}
