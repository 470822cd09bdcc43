package main

import (
	"syscall/js"
)

type cursor string

const (
	cursorDefault cursor = "default"
	cursorMove    cursor = "move"
)

func setCursor(canvas js.Value, c cursor) {
	canvas.Get("style").Set("cursor", string(c))
}
