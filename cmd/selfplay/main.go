package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"termsweeper/internal/logger"
	"termsweeper/session"
	"termsweeper/solver"
)

// record は1試合分の結果です
type record struct {
	ID      string
	Seed    uint64
	State   session.State
	Moves   int
	Guesses int
	Exposed int
}

func (r record) row() []string {
	return []string{
		r.ID,
		strconv.FormatUint(r.Seed, 10),
		r.State.String(),
		strconv.Itoa(r.Moves),
		strconv.Itoa(r.Guesses),
		strconv.Itoa(r.Exposed),
	}
}

var header = []string{"game", "seed", "result", "moves", "guesses", "exposed"}

func main() {
	games := flag.Int("n", 1000, "number of games to play")
	rows := flag.Int("rows", 9, "rows")
	columns := flag.Int("columns", 9, "columns")
	mines := flag.Int("mines", 10, "mines")
	seed := flag.Uint64("seed", 1, "seed of the first game (0 = time based)")
	out := flag.String("o", "selfplay.csv", "output CSV file")
	debug := flag.Bool("debug", false, "write debug logs")
	flag.Parse()

	closer, err := logger.Setup(*debug, logger.DefaultPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	file, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer file.Close()

	opts := session.Options{Rows: *rows, Columns: *columns, Mines: *mines, Seed: *seed}
	fmt.Printf("Playing %d games on %dx%d with %d mines...\n", *games, *rows, *columns, *mines)
	won, err := run(file, opts, *games)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("\nWon %d/%d (%.1f%%). Saved to %s\n", won, *games, 100*float64(won)/float64(max(*games, 1)), *out)
}

// run は n 試合を続けて遊び、結果を CSV で w に書きます
// opts.Seed が 0 でなければ試合ごとに 1 ずつ増やします
func run(w io.Writer, opts session.Options, n int) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return 0, err
	}

	won := 0
	for i := 0; i < n; i++ {
		o := opts
		if o.Seed != 0 {
			o.Seed += uint64(i)
		}
		rec, err := playGame(o)
		if err != nil {
			return won, err
		}
		if rec.State == session.Won {
			won++
		}
		if err := writer.Write(rec.row()); err != nil {
			return won, err
		}
		if i%100 == 0 {
			fmt.Print(".")
		}
	}

	writer.Flush()
	return won, writer.Error()
}

// playGame は勝敗がつくまでソルバーの手を打ち続けます
func playGame(opts session.Options) (record, error) {
	s, err := session.New(opts)
	if err != nil {
		return record{}, err
	}
	log := logger.Get().WithField("session", s.ID.String())

	guesses := 0
	// 旗の付け外しを繰り返さないように上限を置く
	limit := 2 * s.Board().TotalTiles()
	for s.State() == session.Playing && s.Moves() < limit {
		move := s.Hint()
		if move == nil {
			break
		}
		if move.IsGuess {
			guesses++
		}
		log.WithFields(logrus.Fields{
			"move":     move.Type.String(),
			"row":      move.Coord.Row,
			"col":      move.Coord.Col,
			"strategy": move.Strategy,
		}).Debug("bot move")

		switch move.Type {
		case solver.MoveOpen:
			_, err = s.Expose(move.Coord)
		case solver.MoveFlag:
			_, err = s.Flag(move.Coord)
		}
		if err != nil {
			return record{}, err
		}
	}

	return record{
		ID:      s.ID.String(),
		Seed:    s.Seed(),
		State:   s.State(),
		Moves:   s.Moves(),
		Guesses: guesses,
		Exposed: s.Board().TotalExposed(),
	}, nil
}
