package chunkers

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
)

// splitText cuts text into windows of at most size runes with the given
// overlap, preferring to break at a paragraph, line or word boundary in the
// back half of the window. Deterministic for identical input.
func splitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var out []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = breakPoint(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return out
}

// breakPoint finds the best split position in (start, limit]: the last
// paragraph break, else the last newline, else the last space, searching no
// further back than half the window. Falls back to a hard cut.
func breakPoint(runes []rune, start, limit int) int {
	floor := start + (limit-start)/2

	for _, match := range []func(rune, rune) bool{
		func(a, b rune) bool { return a == '\n' && b == '\n' },
		func(a, _ rune) bool { return a == '\n' },
		func(a, _ rune) bool { return unicode.IsSpace(a) },
	} {
		for i := limit - 1; i > floor; i-- {
			next := rune(0)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if match(runes[i], next) {
				return i + 1
			}
		}
	}
	return limit
}

// docHeader builds the header prepended to every chunk so the file name and
// folder are part of the indexed text. Queries that mention a document by
// name then match even when the content never repeats the title.
func docHeader(item *domain.RemoteItem) string {
	if item == nil || item.Name == "" {
		return ""
	}
	if item.FolderPath != "" {
		return fmt.Sprintf("[Document: %s | Folder: %s]\n", item.Name, item.FolderPath)
	}
	return fmt.Sprintf("[Document: %s]\n", item.Name)
}
