package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"termsweeper/game"
	"termsweeper/session"
)

type recorder struct {
	clicks, detonations, victories int
}

func (r *recorder) Click()    { r.clicks++ }
func (r *recorder) Detonate() { r.detonations++ }
func (r *recorder) Victory()  { r.victories++ }
func (r *recorder) Close()    {}

func newUI(t *testing.T, rows, columns int, mines ...game.Coord) (*UI, *recorder) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	b, err := game.NewBoardWithMines(rows, columns, mines)
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	u := New(screen, session.FromBoard(b), rec)
	u.Draw()
	return u, rec
}

func click(u *UI, c game.Coord, btn tcell.ButtonMask) {
	x, y := u.screenPos(c)
	u.HandleEvent(tcell.NewEventMouse(x+1, y, btn, tcell.ModNone))
	u.HandleEvent(tcell.NewEventMouse(x+1, y, tcell.ButtonNone, tcell.ModNone))
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want action
	}{
		{tcell.KeyEscape, 0, actQuit},
		{tcell.KeyCtrlC, 0, actQuit},
		{tcell.KeyRune, 'q', actQuit},
		{tcell.KeyUp, 0, actUp},
		{tcell.KeyRune, 'j', actDown},
		{tcell.KeyRune, 'h', actLeft},
		{tcell.KeyRight, 0, actRight},
		{tcell.KeyRune, ' ', actExpose},
		{tcell.KeyEnter, 0, actExpose},
		{tcell.KeyRune, 'f', actFlag},
		{tcell.KeyRune, '?', actHint},
		{tcell.KeyRune, 'n', actNew},
		{tcell.KeyRune, 'z', actNone},
		{tcell.KeyF1, 0, actNone},
	}
	for _, tt := range tests {
		if got := actionFor(tt.key, tt.r); got != tt.want {
			t.Errorf("actionFor(%v, %q) = %v, want %v", tt.key, tt.r, got, tt.want)
		}
	}
}

func TestCursorMovementClamped(t *testing.T) {
	u, _ := newUI(t, 3, 3)
	if u.cursor != (game.Coord{Row: 1, Col: 1}) {
		t.Fatalf("initial cursor %v", u.cursor)
	}
	for range 5 {
		u.apply(actUp)
		u.apply(actLeft)
	}
	if u.cursor != (game.Coord{Row: 0, Col: 0}) {
		t.Errorf("cursor = %v, want (0,0)", u.cursor)
	}
	for range 5 {
		u.apply(actDown)
		u.apply(actRight)
	}
	if u.cursor != (game.Coord{Row: 2, Col: 2}) {
		t.Errorf("cursor = %v, want (2,2)", u.cursor)
	}
}

func TestExposeAndWin(t *testing.T) {
	u, rec := newUI(t, 1, 2, game.Coord{Row: 0, Col: 0})

	u.cursor = game.Coord{Row: 0, Col: 0}
	u.apply(actFlag)
	if v, _ := u.sess.Board().TileAt(u.cursor); !v.Flagged {
		t.Fatal("flag not placed")
	}
	u.apply(actRight)
	u.apply(actExpose)

	if u.sess.State() != session.Won {
		t.Fatalf("state = %v", u.sess.State())
	}
	if rec.victories != 1 {
		t.Errorf("victory sound played %d times", rec.victories)
	}
	if text, _ := u.headerText(); text != "You win!" {
		t.Errorf("header = %q", text)
	}
}

func TestMouseLose(t *testing.T) {
	u, rec := newUI(t, 3, 3, game.Coord{Row: 2, Col: 2})

	click(u, game.Coord{Row: 2, Col: 2}, tcell.Button1)
	if u.sess.State() != session.Lost {
		t.Fatalf("state = %v", u.sess.State())
	}
	if rec.detonations != 1 {
		t.Errorf("detonation sound played %d times", rec.detonations)
	}
	if text, _ := u.headerText(); text != "You lose!" {
		t.Errorf("header = %q", text)
	}

	// 終了後の操作は無視される
	before := u.sess.Moves()
	click(u, game.Coord{Row: 0, Col: 0}, tcell.Button1)
	u.apply(actExpose)
	if u.sess.Moves() != before {
		t.Error("input accepted after loss")
	}
}

func TestMouseFlag(t *testing.T) {
	u, _ := newUI(t, 3, 3, game.Coord{Row: 0, Col: 0})
	click(u, game.Coord{Row: 0, Col: 0}, tcell.Button2)
	if v, _ := u.sess.Board().TileAt(game.Coord{Row: 0, Col: 0}); !v.Flagged {
		t.Error("right click should flag")
	}
	if u.cursor != (game.Coord{Row: 0, Col: 0}) {
		t.Errorf("cursor should follow the mouse, got %v", u.cursor)
	}

	click(u, game.Coord{Row: 1, Col: 1}, tcell.Button2)
	if u.status != "No flags left" {
		t.Errorf("status = %q", u.status)
	}
}

func TestExposeClearsStatus(t *testing.T) {
	u, _ := newUI(t, 3, 3, game.Coord{Row: 0, Col: 0})
	// 間違ったフラグで残りを使い切る (勝たずに続ける)
	click(u, game.Coord{Row: 0, Col: 1}, tcell.Button2)
	click(u, game.Coord{Row: 1, Col: 1}, tcell.Button2)
	if u.status != "No flags left" {
		t.Fatalf("status = %q", u.status)
	}

	click(u, game.Coord{Row: 2, Col: 2}, tcell.Button1)
	if u.sess.Board().TotalExposed() == 0 || u.sess.State() != session.Playing {
		t.Fatalf("exposed %d, state %v", u.sess.Board().TotalExposed(), u.sess.State())
	}
	if u.status != "" {
		t.Errorf("status still %q after a move", u.status)
	}
	// ステータス行も消えている
	_, y := u.screenPos(game.Coord{Row: 3, Col: 0})
	w, _ := u.screen.Size()
	for x := 0; x < w; x++ {
		if r, _, _, _ := u.screen.GetContent(x, y+1); r != ' ' {
			t.Fatalf("status line not cleared at x=%d: %q", x, r)
		}
	}
}

func TestMouseOutsideBoard(t *testing.T) {
	u, _ := newUI(t, 2, 2)
	u.HandleEvent(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	if u.sess.Moves() != 0 {
		t.Error("click outside the board was applied")
	}
}

func TestExposeClickSound(t *testing.T) {
	u, rec := newUI(t, 3, 3, game.Coord{Row: 0, Col: 0})
	u.cursor = game.Coord{Row: 2, Col: 2}
	u.apply(actExpose)
	if rec.clicks != 1 {
		t.Errorf("click sound played %d times", rec.clicks)
	}
	u.apply(actExpose)
	if rec.clicks != 1 {
		t.Error("no-op expose should be silent")
	}
}

func TestHint(t *testing.T) {
	u, _ := newUI(t, 1, 2, game.Coord{Row: 0, Col: 0})
	u.cursor = game.Coord{Row: 0, Col: 1}
	u.apply(actExpose)

	u.apply(actHint)
	if u.hint == nil || u.hint.Coord != (game.Coord{Row: 0, Col: 0}) {
		t.Fatalf("hint = %+v", u.hint)
	}
	if u.cursor != u.hint.Coord {
		t.Error("cursor should jump to the hint")
	}
	u.apply(actFlag)
	if u.hint != nil {
		t.Error("hint should clear after a move")
	}
	if u.sess.State() != session.Won {
		t.Errorf("state = %v", u.sess.State())
	}
}

func TestNewGameAndQuit(t *testing.T) {
	u, _ := newUI(t, 2, 2, game.Coord{Row: 0, Col: 0})
	u.cursor = game.Coord{Row: 0, Col: 0}
	u.apply(actExpose)
	if u.sess.State() != session.Lost {
		t.Fatal("expected loss")
	}

	if !u.apply(actNew) {
		t.Fatal("new game should keep running")
	}
	if u.sess.State() != session.Playing || u.sess.Board().TotalExposed() != 0 {
		t.Error("new game did not reset the board")
	}
	if u.apply(actQuit) {
		t.Error("quit should stop the loop")
	}
}

func TestCellAt(t *testing.T) {
	u, _ := newUI(t, 2, 4)
	for r := 0; r < 2; r++ {
		for c := 0; c < 4; c++ {
			want := game.Coord{Row: r, Col: c}
			x, y := u.screenPos(want)
			for dx := 0; dx < cellWidth; dx++ {
				got, ok := u.cellAt(x+dx, y)
				if !ok || got != want {
					t.Errorf("cellAt(%d, %d) = %v, %v; want %v", x+dx, y, got, ok, want)
				}
			}
		}
	}
	if _, ok := u.cellAt(0, 0); ok {
		t.Error("header row mapped to a cell")
	}
}
