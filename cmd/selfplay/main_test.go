package main

import (
	"bytes"
	"encoding/csv"
	"testing"

	"termsweeper/session"
)

func TestPlayGameFinishes(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rec, err := playGame(session.Options{Rows: 9, Columns: 9, Mines: 10, Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		if rec.State == session.Playing {
			t.Errorf("seed %d: game did not finish after %d moves", seed, rec.Moves)
		}
		if rec.Seed != seed {
			t.Errorf("seed = %d, want %d", rec.Seed, seed)
		}
		if rec.Guesses > rec.Moves {
			t.Errorf("seed %d: %d guesses in %d moves", seed, rec.Guesses, rec.Moves)
		}
	}
}

func TestPlayGameNoMines(t *testing.T) {
	rec, err := playGame(session.Options{Rows: 4, Columns: 4, Mines: 0, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if rec.State != session.Won || rec.Exposed != 16 {
		t.Errorf("rec = %+v", rec)
	}
}

func TestRunWritesCSV(t *testing.T) {
	var buf bytes.Buffer
	won, err := run(&buf, session.Options{Rows: 5, Columns: 5, Mines: 3, Seed: 100}, 5)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want header + 5", len(rows))
	}
	if rows[0][0] != "game" || rows[1][1] != "100" || rows[5][1] != "104" {
		t.Errorf("unexpected rows: %v", rows)
	}

	wins := 0
	for _, r := range rows[1:] {
		if r[2] == session.Won.String() {
			wins++
		}
	}
	if wins != won {
		t.Errorf("won = %d, csv has %d", won, wins)
	}
}

func TestPlayGameInvalidOptions(t *testing.T) {
	if _, err := playGame(session.Options{Rows: 2, Columns: 2, Mines: 4}); err == nil {
		t.Error("expected error")
	}
}
