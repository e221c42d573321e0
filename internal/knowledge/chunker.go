package knowledge

import (
	"strings"
	"unicode/utf8"
)

const (
	// chunkSize is the window length in characters for indexed chunks.
	chunkSize = 1000
	// chunkOverlap is the number of characters shared between consecutive
	// chunks, so a fact straddling a boundary survives in at least one.
	chunkOverlap = 150
)

// splitChunks slices content into overlapping character windows. Window
// starts are snapped back to the nearest whitespace where possible so words
// are not cut mid-token.
func splitChunks(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= chunkSize {
		return []string{content}
	}

	var chunks []string
	step := chunkSize - chunkOverlap

	for start := 0; start < len(content); start += step {
		from := runeFloor(content, start)
		end := start + chunkSize
		if end >= len(content) {
			chunks = append(chunks, strings.TrimSpace(content[from:]))
			break
		}

		// Prefer to end on whitespace within the last 10% of the window.
		// A whitespace cut lands on a rune boundary by construction;
		// otherwise snap back so no rune is split across chunks.
		cut := 0
		for i := end; i > end-chunkSize/10 && i > from; i-- {
			if content[i-1] == ' ' || content[i-1] == '\n' {
				cut = i
				break
			}
		}
		if cut == 0 {
			cut = runeFloor(content, end)
		}
		chunks = append(chunks, strings.TrimSpace(content[from:cut]))
	}

	// Drop empty windows produced by whitespace-heavy content.
	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// runeFloor backs i up to the start of the rune containing it.
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
