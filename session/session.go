package session

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"termsweeper/game"
	"termsweeper/internal/logger"
	"termsweeper/solver"
)

// ErrFinished はゲーム終了後に操作しようとしたときに返ります
var ErrFinished = errors.New("game is already finished")

type State int

const (
	Playing State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "playing"
}

// Options はゲームの設定です
type Options struct {
	Rows    int
	Columns int
	Mines   int
	Seed    uint64 // 0 の場合は時刻から決める
}

// Session は1人のプレイヤーが遊ぶ1ゲーム分の状態を管理します
// Board は外から直接操作せず、Session を通して Expose/Flag してください
type Session struct {
	ID      uuid.UUID
	opts    Options
	seed    uint64
	rng     *rand.Rand
	board   *game.Board
	state   State
	moves   int
	started time.Time
	ended   time.Time
	log     *logrus.Entry
}

// New は新しいゲームを始めます
func New(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromBoard は作成済みの盤面でゲームを始めます (テストやリプレイ用)
// Restart すると同じサイズのランダムな盤面になります
func FromBoard(b *game.Board) *Session {
	s := &Session{opts: Options{
		Rows:    b.Rows(),
		Columns: b.Columns(),
		Mines:   b.MineCount(),
	}}
	s.reset(b, 0, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	return s
}

// Restart は同じ設定で盤面を作り直します
// Seed が固定されている場合は同じ盤面になります
func (s *Session) Restart() error {
	seed := s.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>32))

	board, err := game.NewBoard(s.opts.Rows, s.opts.Columns, s.opts.Mines, rng)
	if err != nil {
		return err
	}

	s.reset(board, seed, rng)
	return nil
}

func (s *Session) reset(board *game.Board, seed uint64, rng *rand.Rand) {
	s.ID = uuid.New()
	s.seed = seed
	s.rng = rng
	s.board = board
	s.state = Playing
	s.moves = 0
	s.started = time.Now()
	s.ended = time.Time{}
	s.log = logger.Get().WithFields(logrus.Fields{
		"session": s.ID.String(),
		"rows":    board.Rows(),
		"columns": board.Columns(),
		"mines":   board.MineCount(),
	})
	s.log.WithField("seed", seed).Info("new game")
}

// Expose は指定されたマスを開けます
func (s *Session) Expose(c game.Coord) (game.ExposeResult, error) {
	if s.state != Playing {
		return game.ExposeResult{}, ErrFinished
	}
	res, err := s.board.Expose(c)
	if err != nil {
		return res, err
	}
	s.moves++
	s.log.WithFields(logrus.Fields{
		"row":       c.Row,
		"col":       c.Col,
		"exposed":   res.Count(),
		"detonated": res.Detonated,
	}).Debug("expose")
	s.update()
	return res, nil
}

// Flag は指定されたマスのフラグを切り替えます
func (s *Session) Flag(c game.Coord) (game.FlagResult, error) {
	if s.state != Playing {
		return game.FlagIgnored, ErrFinished
	}
	res, err := s.board.Flag(c)
	if err != nil {
		return res, err
	}
	s.moves++
	s.log.WithFields(logrus.Fields{
		"row":    c.Row,
		"col":    c.Col,
		"result": res.String(),
	}).Debug("flag")
	s.update()
	return res, nil
}

// Hint は次の一手の候補を返します。ゲーム終了後は nil です
func (s *Session) Hint() *solver.Move {
	if s.state != Playing {
		return nil
	}
	return solver.New(s.board, s.rng).NextMove()
}

// update は盤面から勝敗を判定します
func (s *Session) update() {
	switch {
	case s.board.Detonated():
		s.state = Lost
	case s.board.Won():
		s.state = Won
	default:
		return
	}
	s.ended = time.Now()
	s.log.WithFields(logrus.Fields{
		"state":   s.state.String(),
		"moves":   s.moves,
		"elapsed": s.Elapsed().Round(time.Millisecond).String(),
	}).Info("game over")
}

func (s *Session) Board() *game.Board { return s.board }
func (s *Session) State() State        { return s.state }
func (s *Session) Moves() int          { return s.moves }
func (s *Session) Seed() uint64        { return s.seed }
func (s *Session) Options() Options    { return s.opts }

// Elapsed はゲーム開始からの経過時間を返します
func (s *Session) Elapsed() time.Duration {
	if !s.ended.IsZero() {
		return s.ended.Sub(s.started)
	}
	return time.Since(s.started)
}
