package utils

import "strings"

// WrapText breaks text into lines of at most width runes, splitting on
// whitespace. Words longer than width are kept whole on their own line.
// Existing line breaks are preserved.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		lineLen := 0
		for _, w := range words {
			wl := len([]rune(w))
			if lineLen > 0 && lineLen+1+wl > width {
				lines = append(lines, line.String())
				line.Reset()
				lineLen = 0
			}
			if lineLen > 0 {
				line.WriteByte(' ')
				lineLen++
			}
			line.WriteString(w)
			lineLen += wl
		}
		lines = append(lines, line.String())
	}
	return lines
}
