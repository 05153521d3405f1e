package extractor

import (
	"errors"
	"strings"
	"unicode/utf8"
)

type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (te *TextExtractor) Extract(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", errors.New("file is not valid UTF-8")
	}
	return strings.TrimPrefix(string(content), "\ufeff"), nil
}
