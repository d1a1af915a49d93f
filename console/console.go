package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"termsweeper/game"
	"termsweeper/internal/logger"
	"termsweeper/session"
	"termsweeper/viewmodel"
)

const clearScreen = "\x1b[2J\x1b[H"

var coordSeparator = regexp.MustCompile(`(?:\s*,\s*)|(?:\s+)`)

var errBadCoord = errors.New("coordinate must be two integers, e.g. \"3 4\" or \"3,4\"")

// ParseCoord は "3 4" や "3,4" の形式の座標を読み取ります
func ParseCoord(s string) (game.Coord, error) {
	parts := coordSeparator.Split(strings.TrimSpace(s), -1)
	if len(parts) != 2 {
		return game.Coord{}, errBadCoord
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return game.Coord{}, errBadCoord
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return game.Coord{}, errBadCoord
	}
	return game.Coord{Row: row, Col: col}, nil
}

// Console は1行ずつ入力を受け取る遊び方です
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	screen io.Writer // 画面クリア用 (通常は stderr)
	styles styles
	notice string // 次の描画の後に出すメッセージ
}

func New(in io.Reader, out, screen io.Writer) *Console {
	return &Console{
		in:     bufio.NewScanner(in),
		out:    out,
		screen: screen,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// Play はゲームが終わるか、入力が尽きるか、Q が入力されるまで遊びます
// 戻り値は終了時の状態です (途中でやめた場合は Playing)
func (c *Console) Play(s *session.Session) session.State {
	log := logger.Get().WithField("session", s.ID.String())

	for s.State() == session.Playing {
		c.clear()
		c.draw(s.Board())

		action, ok := c.prompt(fmt.Sprintf("[E]xpose, [F]lag (%s %d), [H]int or [Q]uit? ",
			viewmodel.GlyphFlag, s.Board().AvailableFlags()))
		if !ok {
			return s.State()
		}

		switch strings.ToUpper(strings.TrimSpace(action)) {
		case "E":
			if coord, ok := c.readCoord(s.Board()); ok {
				_, err := s.Expose(coord)
				c.report(err)
			}
		case "F":
			if coord, ok := c.readCoord(s.Board()); ok {
				res, err := s.Flag(coord)
				if c.report(err) {
					c.reportFlag(res)
				}
			}
		case "H":
			c.hint(s)
		case "Q":
			log.Info("quit")
			return s.State()
		default:
			c.notice = "action must be one of E, F, H or Q"
		}
	}

	c.clear()
	c.draw(s.Board())
	switch s.State() {
	case session.Lost:
		fmt.Fprintln(c.out, c.styles.lose.Render("You lost!"))
	case session.Won:
		fmt.Fprintln(c.out, c.styles.win.Render("Epic win!"))
	}
	return s.State()
}

func (c *Console) prompt(text string) (string, bool) {
	fmt.Fprint(c.out, text)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return c.in.Text(), true
}

// readCoord は座標を読みます。不正な入力はメッセージを残して false を返します
func (c *Console) readCoord(b *game.Board) (game.Coord, bool) {
	line, ok := c.prompt("Coordinate to act on (0-based): ")
	if !ok {
		return game.Coord{}, false
	}
	coord, err := ParseCoord(line)
	if err != nil {
		c.notice = err.Error()
		return game.Coord{}, false
	}
	if !b.Contains(coord) {
		c.notice = fmt.Sprintf("coordinate must be within 0-%d, 0-%d", b.Rows()-1, b.Columns()-1)
		return game.Coord{}, false
	}
	return coord, true
}

func (c *Console) report(err error) bool {
	if err != nil {
		c.notice = err.Error()
		return false
	}
	return true
}

func (c *Console) reportFlag(res game.FlagResult) {
	switch res {
	case game.FlagRejectedBudget:
		c.notice = "no flags left"
	case game.FlagRejectedExposed:
		c.notice = "tile is already exposed"
	}
}

func (c *Console) hint(s *session.Session) {
	move := s.Hint()
	if move == nil {
		c.notice = "no hint available"
		return
	}
	c.notice = fmt.Sprintf("hint: %s (%d, %d) [%s, %.0f%% sure]",
		move.Type, move.Coord.Row, move.Coord.Col, move.Strategy, move.Confidence*100)
}

func (c *Console) clear() {
	if c.screen != nil {
		io.WriteString(c.screen, clearScreen)
	}
}

func (c *Console) draw(b *game.Board) {
	fmt.Fprint(c.out, render(viewmodel.NewGameView(b), c.styles))
	if c.notice != "" {
		fmt.Fprintln(c.out, c.styles.notice.Render(c.notice))
		c.notice = ""
	}
}
