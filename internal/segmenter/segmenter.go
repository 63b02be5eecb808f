// Package segmenter splits Scrapbox pages into retrievable chunks.
//
// A page is read line by line. A chunk ends before a blank line, before a
// dedent once the chunk already holds more than five lines, or once the
// chunk's accumulated text exceeds 1000 characters. The dedent rule
// compares against the indent of the chunk's first line only; it is not
// outline aware.
package segmenter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/futig/scrapbox-rag/internal/entity"
)

const (
	DefaultMaxChars       = 1000
	DefaultDedentMinLines = 5
	DefaultBaseURL        = "https://scrapbox.io"
)

type Segmenter struct {
	maxChars       int
	dedentMinLines int
	baseURL        string
}

type Option func(*Segmenter)

// WithMaxChars sets the accumulated length after which a chunk is closed.
func WithMaxChars(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// WithDedentMinLines sets how many lines a chunk must exceed before a dedent
// closes it.
func WithDedentMinLines(n int) Option {
	return func(s *Segmenter) {
		if n >= 0 {
			s.dedentMinLines = n
		}
	}
}

func WithBaseURL(url string) Option {
	return func(s *Segmenter) {
		if url != "" {
			s.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		maxChars:       DefaultMaxChars,
		dedentMinLines: DefaultDedentMinLines,
		baseURL:        DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageURL returns the public link of a page: spaces in the title become
// underscores.
func (s *Segmenter) PageURL(project, title string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, project, strings.ReplaceAll(title, " ", "_"))
}

// Segment turns a page into its ordered chunks. Blank lines never appear in
// chunk content and an empty chunk is never emitted.
func (s *Segmenter) Segment(page *entity.Page, project string) []entity.Chunk {
	if page == nil {
		return nil
	}

	b := &builder{
		page:      page,
		project:   project,
		url:       s.PageURL(project, page.Title),
		updatedAt: page.UpdatedAt(),
	}

	for i, line := range page.Lines {
		indent := Indent(line.Text)
		blank := strings.TrimSpace(line.Text) == ""

		dedent := i > 0 && indent < b.indent && len(b.lines) > s.dedentMinLines
		oversized := b.size > s.maxChars

		if blank || dedent || oversized {
			b.flush()
		}

		if blank {
			continue
		}

		if len(b.lines) == 0 {
			b.indent = indent
		}
		b.lines = append(b.lines, line.Text)
		b.size += utf8.RuneCountInString(line.Text)
	}

	b.flush()
	return b.chunks
}

// Indent counts the leading run of tabs and spaces, one unit per character.
func Indent(text string) int {
	n := 0
	for _, r := range text {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

type builder struct {
	page      *entity.Page
	project   string
	url       string
	updatedAt time.Time

	lines  []string
	indent int
	size   int
	chunks []entity.Chunk
}

func (b *builder) flush() {
	if len(b.lines) == 0 {
		return
	}

	b.chunks = append(b.chunks, entity.Chunk{
		ID:          fmt.Sprintf("%s_%d", b.page.ID, len(b.chunks)),
		ProjectName: b.project,
		PageTitle:   b.page.Title,
		Content:     strings.Join(b.lines, "\n"),
		URL:         b.url,
		UpdatedAt:   b.updatedAt,
		IndentLevel: b.indent,
	})

	b.lines = nil
	b.size = 0
}
