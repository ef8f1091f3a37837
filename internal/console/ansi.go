package console

import "strconv"

const (
	esc        = "\x1b"
	colorReset = esc + "[0m"
)

func cursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return esc + "[" + strconv.Itoa(n) + "A"
}

func cursorDown(n int) string {
	if n <= 0 {
		return ""
	}
	return esc + "[" + strconv.Itoa(n) + "B"
}

func cursorRight(n int) string {
	if n <= 0 {
		return ""
	}
	return esc + "[" + strconv.Itoa(n) + "C"
}
