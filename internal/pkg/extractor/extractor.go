// Package extractor turns uploaded files into plain document text.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

type Extractor interface {
	Extract(content []byte) (string, error)
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create picks an extractor by file extension.
func (f *Factory) Create(filename string) (Extractor, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt":
		return NewTextExtractor(), nil
	case ".md":
		return NewMarkdownExtractor(), nil
	case ".docx":
		return NewDOCXExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidExtension, ext)
	}
}

// Extract reads the text of a file using the extractor matching its name.
func (f *Factory) Extract(file entity.FileData) (string, error) {
	ex, err := f.Create(file.Filename)
	if err != nil {
		return "", err
	}

	text, err := ex.Extract(file.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", entity.ErrInvalidFile, file.Filename, err)
	}
	return text, nil
}
