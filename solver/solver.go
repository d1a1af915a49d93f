package solver

import (
	"math/rand/v2"

	"termsweeper/game"
)

type MoveType int

const (
	MoveOpen MoveType = iota
	MoveFlag
)

func (t MoveType) String() string {
	if t == MoveFlag {
		return "flag"
	}
	return "open"
}

type Move struct {
	Coord      game.Coord
	Type       MoveType
	IsGuess    bool    // 運任せかどうか
	Strategy   string  // "Logic", "Tank", "Tank(Prob)", "Random"
	Confidence float64 // 0.0 ~ 1.0 (安全確率)
}

// Solver はプレイヤーに見えている情報だけを使って次の一手を考えます
type Solver struct {
	Board *game.Board
	rng   *rand.Rand
}

// New は Solver を作ります。rng はランダムな手を選ぶときに使います
func New(b *game.Board, rng *rand.Rand) *Solver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Solver{Board: b, rng: rng}
}

func (s *Solver) NextMove() *Move {
	// 1. 論理的に「絶対に安全」
	if move := s.findSafeMove(); move != nil {
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 2. 論理的に「絶対に地雷」
	if move := s.findFlagMove(); move != nil {
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 3. バックトラック探索
	if move := NewTankSolver(s.Board).Solve(); move != nil {
		move.IsGuess = move.Confidence < 1.0
		return move
	}

	// 4. ランダム
	move := s.findRandomMove()
	if move != nil {
		move.IsGuess = true
	}
	return move
}

func (s *Solver) findSafeMove() *Move {
	for _, c := range numberedTiles(s.Board) {
		v := view(s.Board, c)
		_, flags, hidden := neighborsInfo(s.Board, c)
		if flags == v.Adjacent && len(hidden) > 0 {
			return &Move{Coord: hidden[0], Type: MoveOpen}
		}
	}
	return nil
}

func (s *Solver) findFlagMove() *Move {
	// フラグが残っていなければ立てられない
	if s.Board.AvailableFlags() == 0 {
		return nil
	}
	for _, c := range numberedTiles(s.Board) {
		v := view(s.Board, c)
		totalHidden, _, hidden := neighborsInfo(s.Board, c)
		if totalHidden == v.Adjacent && len(hidden) > 0 {
			return &Move{Coord: hidden[0], Type: MoveFlag}
		}
	}
	return nil
}

func (s *Solver) findRandomMove() *Move {
	candidates := []game.Coord{}
	for r := 0; r < s.Board.Rows(); r++ {
		for c := 0; c < s.Board.Columns(); c++ {
			pos := game.Coord{Row: r, Col: c}
			v := view(s.Board, pos)
			if !v.Exposed && !v.Flagged {
				candidates = append(candidates, pos)
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	choice := candidates[s.rng.IntN(len(candidates))]

	// 残りの未開封マスに地雷が均等にあるとみなした安全確率
	remaining := float64(s.Board.AvailableFlags()) / float64(len(candidates))
	return &Move{
		Coord:      choice,
		Type:       MoveOpen,
		Strategy:   "Random",
		Confidence: max(0, 1.0-remaining),
	}
}

// view は盤面内の座標のマスを返します
func view(b *game.Board, c game.Coord) game.TileView {
	v, _ := b.TileAt(c)
	return v
}

// numberedTiles は開いている数字マスを行優先で返します
func numberedTiles(b *game.Board) []game.Coord {
	var out []game.Coord
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Columns(); c++ {
			pos := game.Coord{Row: r, Col: c}
			v := view(b, pos)
			if v.Exposed && !v.Mine && v.Adjacent > 0 {
				out = append(out, pos)
			}
		}
	}
	return out
}

// neighborsInfo は周囲の未開封マス数 (フラグ含む)、フラグ数、フラグのない未開封マスを返します
func neighborsInfo(b *game.Board, c game.Coord) (totalHidden int, flags int, hiddenList []game.Coord) {
	for _, n := range game.Adjacent(c, b.Rows(), b.Columns()) {
		v := view(b, n)
		if v.Exposed {
			continue
		}
		totalHidden++
		if v.Flagged {
			flags++
		} else {
			hiddenList = append(hiddenList, n)
		}
	}
	return
}
