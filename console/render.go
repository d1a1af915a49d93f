package console

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"termsweeper/viewmodel"
)

type styles struct {
	header  lipgloss.Style
	hidden  lipgloss.Style
	flag    lipgloss.Style
	mine    lipgloss.Style
	wrong   lipgloss.Style
	numbers [9]lipgloss.Style
	notice  lipgloss.Style
	win     lipgloss.Style
	lose    lipgloss.Style
}

// 数字ごとの色 (ANSI 16色)
var numberColors = [9]string{"", "12", "10", "9", "4", "1", "6", "8", "7"}

// newStyles は出力先に合わせたスタイルを作ります
// 出力先が端末でない場合、色は付きません
func newStyles(r *lipgloss.Renderer) styles {
	s := styles{
		header: r.NewStyle().Faint(true),
		hidden: r.NewStyle().Foreground(lipgloss.Color("6")),
		flag:   r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		mine:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		wrong:  r.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true),
		notice: r.NewStyle().Foreground(lipgloss.Color("11")),
		win:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		lose:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
	for i := 1; i < len(numberColors); i++ {
		s.numbers[i] = r.NewStyle().Foreground(lipgloss.Color(numberColors[i])).Bold(true)
	}
	return s
}

// render は行番号と列番号つきで盤面を文字列にします
func render(v viewmodel.GameView, st styles) string {
	if len(v.Cells) == 0 {
		return ""
	}
	rows, cols := len(v.Cells), len(v.Cells[0])
	rowWidth := len(strconv.Itoa(rows - 1))
	cellWidth := len(strconv.Itoa(cols-1)) + 1

	var sb strings.Builder

	// 列番号
	sb.WriteString(strings.Repeat(" ", rowWidth+1))
	for c := 0; c < cols; c++ {
		sb.WriteString(st.header.Render(pad(strconv.Itoa(c), cellWidth)))
	}
	sb.WriteByte('\n')

	for r := 0; r < rows; r++ {
		sb.WriteString(st.header.Render(pad(strconv.Itoa(r), rowWidth)))
		sb.WriteByte(' ')
		for c := 0; c < cols; c++ {
			cell := v.Cells[r][c]
			glyph := viewmodel.Glyph(cell)
			sb.WriteString(strings.Repeat(" ", cellWidth-1))
			sb.WriteString(st.cell(cell).Render(glyph))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (st styles) cell(c viewmodel.CellView) lipgloss.Style {
	switch c.State {
	case viewmodel.StateHidden:
		return st.hidden
	case viewmodel.StateFlagged:
		return st.flag
	case viewmodel.StateMisflagged:
		return st.wrong
	}
	if c.IsMine {
		return st.mine
	}
	if c.Count > 0 && c.Count < len(st.numbers) {
		return st.numbers[c.Count]
	}
	return st.header
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
