//go:build js && wasm

package main

import "syscall/js"

func newGameWrapper(this js.Value, args []js.Value) any {
	rows, columns, mines := 9, 9, 10
	// JS 側から goNewGame(rows, columns, mines) と呼ばれる想定
	if len(args) >= 3 {
		rows = args[0].Int()
		columns = args[1].Int()
		mines = args[2].Int()
	}
	return newGame(rows, columns, mines)
}

func exposeWrapper(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	return expose(args[0].Int(), args[1].Int())
}

func toggleFlagWrapper(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	return toggleFlag(args[0].Int(), args[1].Int())
}

func botStepWrapper(this js.Value, args []js.Value) any {
	return botStep()
}

func main() {
	js.Global().Set("goNewGame", js.FuncOf(newGameWrapper))
	js.Global().Set("goOpenCell", js.FuncOf(exposeWrapper))
	js.Global().Set("goToggleFlag", js.FuncOf(toggleFlagWrapper))
	js.Global().Set("goBotStep", js.FuncOf(botStepWrapper))

	println("termsweeper WebAssembly initialized")
	select {}
}
