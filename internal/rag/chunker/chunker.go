package chunker

import (
	"strings"

	"github.com/akolanti/PDFChatAPI/internal/config"
)

// Chunker splits enriched page markdown into bounded, header-aligned chunks.
// Purely deterministic string processing - it never fails.
type Chunker struct {
	minSize int
	maxSize int
}

func New() *Chunker {
	return &Chunker{
		minSize: config.MinChunkSize,
		maxSize: config.MaxChunkSize,
	}
}

func NewWithLimits(minSize, maxSize int) *Chunker {
	if minSize <= 0 {
		minSize = config.MinChunkSize
	}
	if maxSize <= minSize {
		maxSize = config.MaxChunkSize
	}
	return &Chunker{minSize: minSize, maxSize: maxSize}
}

// Split walks the markdown line by line. A header line starts a new chunk only
// when the current chunk already holds at least minSize characters - splitting
// earlier would detach the header from its first paragraph. A line that would
// push the current chunk past maxSize starts a new chunk instead, and a line
// that alone exceeds maxSize is broken on word boundaries, so only an unbroken
// whitespace-free run ever produces a chunk over the max. The trailing partial
// chunk is flushed at end of input; whitespace-only chunks are dropped.
func (c *Chunker) Split(markdown string) []string {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			chunks = append(chunks, text)
		}
		current.Reset()
	}

	for _, line := range strings.Split(markdown, "\n") {
		if isHeader(line) && current.Len() >= c.minSize {
			flush()
		}

		for _, piece := range c.splitLine(line) {
			if current.Len() > 0 && current.Len()+len(piece)+1 > c.maxSize {
				flush()
			}

			current.WriteString(piece)
			current.WriteString("\n")

			if current.Len() > c.maxSize {
				flush()
			}
		}
	}
	flush()

	return chunks
}

// splitLine breaks a line longer than maxSize into word-aligned pieces. A
// single word longer than maxSize is kept intact as its own piece.
func (c *Chunker) splitLine(line string) []string {
	if len(line) <= c.maxSize {
		return []string{line}
	}

	var pieces []string
	var piece strings.Builder
	for _, word := range strings.Fields(line) {
		if piece.Len() > 0 && piece.Len()+len(word)+1 > c.maxSize {
			pieces = append(pieces, piece.String())
			piece.Reset()
		}
		if piece.Len() > 0 {
			piece.WriteString(" ")
		}
		piece.WriteString(word)
	}
	if piece.Len() > 0 {
		pieces = append(pieces, piece.String())
	}
	return pieces
}

func isHeader(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}
