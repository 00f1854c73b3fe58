package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to at most width display cells, adding an
// ellipsis when something was cut. Wide runes count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Wrap breaks s into lines of at most width display cells at spaces.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var line string
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
			for runewidth.StringWidth(line) > width {
				head := runewidth.Truncate(line, width, "")
				lines = append(lines, head)
				line = line[len(head):]
			}
		}
		lines = append(lines, line)
	}
	return lines
}
