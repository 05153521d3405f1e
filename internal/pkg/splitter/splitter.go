// Package splitter cuts document text into overlapping segments.
package splitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// Recursive splits on paragraph, line, word and finally character
// boundaries, keeping each segment within the configured rune budget.
type Recursive struct {
	inner textsplitter.RecursiveCharacter
}

func NewRecursive(chunkSize, chunkOverlap int) (*Recursive, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}

	return &Recursive{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// Split returns the non-blank segments of text in document order.
func (r *Recursive) Split(text string) ([]string, error) {
	chunks, err := r.inner.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	segments := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		segments = append(segments, chunk)
	}

	return segments, nil
}
