package codec

import (
	"strings"

	"github.com/nattsrk/AnurVCardPro/internal/card"
)

// renderLines writes header, a blank line, then one "Label: value" line per
// non-empty field.
func renderLines[T any](header string, fields []lineField[T], v T) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for _, f := range fields {
		value := card.CleanLine(f.get(v))
		if value == "" {
			continue
		}
		b.WriteString(f.label())
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

// parseLines fills a T from "Label: value" lines and reports how many lines
// matched a field.
func parseLines[T any](text string, fields []lineField[T]) (T, int) {
	var out T
	matched := 0
	for _, line := range splitLines(text) {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		label := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		for _, f := range fields {
			if f.matches(label) {
				f.set(&out, value)
				matched++
				break
			}
		}
	}
	return out, matched
}

// splitLines splits on CRLF, CR and LF, trims each line and drops empties.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	out := raw[:0]
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
