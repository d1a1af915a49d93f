package main

import (
	"strconv"

	"termsweeper/game"
	"termsweeper/session"
	"termsweeper/solver"
	"termsweeper/viewmodel"
)

// current はブラウザ側で遊んでいるゲームです
var current *session.Session

// newGame は新しいゲームを始め、盤面の JSON を返します
func newGame(rows, columns, mines int) string {
	s, err := session.New(session.Options{Rows: rows, Columns: columns, Mines: mines})
	if err != nil {
		return errorJSON(err)
	}
	current = s
	return viewmodel.JSON(current.Board())
}

func expose(row, col int) string {
	if current == nil {
		return ""
	}
	if _, err := current.Expose(game.Coord{Row: row, Col: col}); err != nil {
		return errorJSON(err)
	}
	return viewmodel.JSON(current.Board())
}

func toggleFlag(row, col int) string {
	if current == nil {
		return ""
	}
	if _, err := current.Flag(game.Coord{Row: row, Col: col}); err != nil {
		return errorJSON(err)
	}
	return viewmodel.JSON(current.Board())
}

// botStep はソルバーに1手進めさせます
func botStep() string {
	if current == nil {
		return ""
	}
	move := current.Hint()
	if move == nil {
		return viewmodel.JSON(current.Board())
	}

	var err error
	switch move.Type {
	case solver.MoveOpen:
		_, err = current.Expose(move.Coord)
	case solver.MoveFlag:
		_, err = current.Flag(move.Coord)
	}
	if err != nil {
		return errorJSON(err)
	}
	return viewmodel.JSON(current.Board())
}

func errorJSON(err error) string {
	return `{"error":` + strconv.Quote(err.Error()) + `}`
}
