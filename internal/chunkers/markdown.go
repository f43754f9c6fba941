package chunkers

import (
	"context"
	"strings"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
)

// Ensure Markdown implements the interface.
var _ driven.Chunker = (*Markdown)(nil)

// Markdown chunks markdown content, keeping heading sections together where
// they fit inside one window.
type Markdown struct {
	size    int
	overlap int
}

// NewMarkdown creates a markdown chunker.
func NewMarkdown(size, overlap int) *Markdown {
	return &Markdown{size: size, overlap: overlap}
}

// ContentTypes returns the MIME types this chunker handles.
func (m *Markdown) ContentTypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Chunk splits the content on top-level heading boundaries first, then
// windows each section. Sections are never merged across headings, so a
// chunk belongs to exactly one section.
func (m *Markdown) Chunk(_ context.Context, data []byte, item *domain.RemoteItem) ([]string, error) {
	header := docHeader(item)

	var out []string
	for _, section := range splitSections(string(data)) {
		for _, part := range splitText(section, m.size, m.overlap) {
			out = append(out, header+part)
		}
	}
	return out, nil
}

// splitSections cuts markdown at lines starting with "#". The preamble
// before the first heading is its own section.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")

	var sections []string
	var current []string
	flush := func() {
		section := strings.TrimSpace(strings.Join(current, "\n"))
		if section != "" {
			sections = append(sections, section)
		}
		current = current[:0]
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return sections
}
