package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks text into lines no wider than width cells, preferring spaces.
// Words wider than width are split by rune.
func wrapText(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}
	for _, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+wordWidth > width {
			flush()
		}
		if wordWidth > width {
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if lineWidth+rw > width && lineWidth > 0 {
					flush()
				}
				line.WriteRune(r)
				lineWidth += rw
			}
			continue
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += wordWidth
	}
	if lineWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// indentLines joins lines, prefixing every line after the first with pad cells.
func indentLines(lines []string, pad int) string {
	return strings.Join(lines, "\n"+strings.Repeat(" ", pad))
}
