package console

import (
	"bytes"
	"strings"
	"testing"

	"termsweeper/game"
	"termsweeper/session"
)

func newSession(t *testing.T, rows, columns int, mines ...game.Coord) *session.Session {
	t.Helper()
	b, err := game.NewBoardWithMines(rows, columns, mines)
	if err != nil {
		t.Fatal(err)
	}
	return session.FromBoard(b)
}

func play(s *session.Session, input string) (session.State, string, string) {
	var out, screen bytes.Buffer
	state := New(strings.NewReader(input), &out, &screen).Play(s)
	return state, out.String(), screen.String()
}

func TestParseCoord(t *testing.T) {
	tests := []struct {
		in   string
		want game.Coord
		ok   bool
	}{
		{"3 4", game.Coord{Row: 3, Col: 4}, true},
		{"3,4", game.Coord{Row: 3, Col: 4}, true},
		{" 3 ,  4 ", game.Coord{Row: 3, Col: 4}, true},
		{"0\t2", game.Coord{Row: 0, Col: 2}, true},
		{"-1 2", game.Coord{Row: -1, Col: 2}, true},
		{"3", game.Coord{}, false},
		{"a b", game.Coord{}, false},
		{"1 2 3", game.Coord{}, false},
		{"", game.Coord{}, false},
	}
	for _, tt := range tests {
		got, err := ParseCoord(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseCoord(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseCoord(%q) = %v, want error", tt.in, got)
		}
	}
}

func TestPlay_Win(t *testing.T) {
	s := newSession(t, 1, 1)
	state, out, screen := play(s, "e\n0 0\n")
	if state != session.Won {
		t.Fatalf("state = %v, output:\n%s", state, out)
	}
	if !strings.Contains(out, "Epic win!") {
		t.Errorf("missing win message:\n%s", out)
	}
	if !strings.Contains(screen, clearScreen) {
		t.Error("screen was never cleared")
	}
}

func TestPlay_FlagThenWin(t *testing.T) {
	s := newSession(t, 1, 2, game.Coord{Row: 0, Col: 0})
	state, out, _ := play(s, "F\n0,0\nE\n0,1\n")
	if state != session.Won {
		t.Fatalf("state = %v, output:\n%s", state, out)
	}
	if !strings.Contains(out, "(⚑ 1)") || !strings.Contains(out, "(⚑ 0)") {
		t.Errorf("prompt should track available flags:\n%s", out)
	}
}

func TestPlay_Lose(t *testing.T) {
	s := newSession(t, 2, 2, game.Coord{Row: 1, Col: 1})
	state, out, _ := play(s, "E\n1 1\n")
	if state != session.Lost {
		t.Fatalf("state = %v", state)
	}
	if !strings.Contains(out, "You lost!") {
		t.Errorf("missing loss message:\n%s", out)
	}
	if !strings.Contains(out, "*") {
		t.Errorf("mine not shown after loss:\n%s", out)
	}
}

func TestPlay_BadInputRecovers(t *testing.T) {
	s := newSession(t, 1, 1)
	input := strings.Join([]string{
		"x",          // 不正な操作
		"E", "nope", // 不正な座標
		"E", "5 5",  // 範囲外
		"E", "0 0",
	}, "\n") + "\n"

	state, out, _ := play(s, input)
	if state != session.Won {
		t.Fatalf("state = %v, output:\n%s", state, out)
	}
	for _, want := range []string{
		"action must be one of E, F, H or Q",
		errBadCoord.Error(),
		"coordinate must be within 0-0, 0-0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestPlay_FlagNotices(t *testing.T) {
	s := newSession(t, 2, 2, game.Coord{Row: 0, Col: 0})
	state, out, _ := play(s, "E\n1 1\nF\n1 1\nF\n0 1\nF\n1 0\nQ\n")
	if state != session.Playing {
		t.Fatalf("state = %v", state)
	}
	if !strings.Contains(out, "tile is already exposed") {
		t.Errorf("missing exposed notice:\n%s", out)
	}
	if !strings.Contains(out, "no flags left") {
		t.Errorf("missing budget notice:\n%s", out)
	}
}

func TestPlay_Hint(t *testing.T) {
	s := newSession(t, 1, 2, game.Coord{Row: 0, Col: 0})
	_, out, _ := play(s, "E\n0 1\nH\nQ\n")
	if !strings.Contains(out, "hint: flag (0, 0) [Logic, 100% sure]") {
		t.Errorf("missing hint:\n%s", out)
	}
}

func TestPlay_EOF(t *testing.T) {
	s := newSession(t, 3, 3, game.Coord{Row: 0, Col: 0})
	state, _, _ := play(s, "")
	if state != session.Playing {
		t.Errorf("state = %v, want playing", state)
	}
}

func TestRender(t *testing.T) {
	b, _ := game.NewBoardWithMines(2, 11, []game.Coord{{Row: 0, Col: 10}})
	b.Expose(game.Coord{Row: 1, Col: 0})

	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, nil)
	c.draw(b)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.HasSuffix(lines[0], " 9 10") {
		t.Errorf("column header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0 ") || !strings.HasSuffix(lines[1], "1  ▓") {
		t.Errorf("row 0 = %q", lines[1])
	}
}
