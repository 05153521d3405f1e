package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

const (
	MaxQuestionLength = 1000
	MaxContentLength  = 50000
)

var AllowedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".docx": true,
}

// Validator checks inbound requests before any pipeline call is made.
type Validator struct {
	cfg config.FileUploadConfig
}

func New(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) ValidateAsk(req *entity.AskRequest) error {
	return validateText("question", req.Question, MaxQuestionLength)
}

func (v *Validator) ValidateDocument(req *entity.DocumentRequest) error {
	return ValidateContent(req.Content)
}

// ValidateBatch checks every content and that each one has a metadata entry.
func (v *Validator) ValidateBatch(req *entity.BatchDocumentsRequest) error {
	if len(req.Contents) == 0 {
		return fmt.Errorf("%w: contents", entity.ErrMissingField)
	}
	if len(req.Contents) != len(req.Metadata) {
		return fmt.Errorf("%w: contents and metadata must have the same length, got %d and %d",
			entity.ErrInvalidParameter, len(req.Contents), len(req.Metadata))
	}

	for i, content := range req.Contents {
		if err := ValidateContent(content); err != nil {
			return fmt.Errorf("contents[%d]: %w", i, err)
		}
	}

	return nil
}

// ValidateContent checks a document body.
func ValidateContent(content string) error {
	return validateText("content", content, MaxContentLength)
}

// ValidateUpload validates multiple file uploads
func (v *Validator) ValidateUpload(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: files", entity.ErrMissingField)
	}

	if len(files) > v.cfg.MaxFileCount {
		return fmt.Errorf("%w: maximum %d files allowed, got %d", entity.ErrTooManyFiles, v.cfg.MaxFileCount, len(files))
	}

	var totalSize int64
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if _, ok := AllowedExtensions[ext]; !ok {
			return fmt.Errorf("%w: %q (allowed: txt, md, docx)", entity.ErrInvalidExtension, ext)
		}

		if fh.Size > v.cfg.MaxFileSize {
			return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
		}

		totalSize += fh.Size
	}

	if totalSize > v.cfg.MaxTotalSize {
		return fmt.Errorf("%w: total size is %d bytes (max %d)", entity.ErrTotalSizeTooLarge, totalSize, v.cfg.MaxTotalSize)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}

func validateText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s must not be blank", entity.ErrMissingField, field)
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		return fmt.Errorf("%w: %s has %d characters (max %d)", entity.ErrFieldTooLong, field, n, maxLen)
	}
	return nil
}
