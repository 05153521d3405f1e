package rag

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"unicode/utf8"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/validator"
)

// toFileData reads an uploaded file into memory
func toFileData(fh *multipart.FileHeader) (entity.FileData, error) {
	src, err := fh.Open()
	if err != nil {
		return entity.FileData{}, fmt.Errorf("%w: open %s: %v", entity.ErrInvalidFile, fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return entity.FileData{}, fmt.Errorf("%w: read %s: %v", entity.ErrInvalidFile, fh.Filename, err)
	}

	return entity.FileData{
		Filename: validator.SanitizeFilename(fh.Filename),
		Content:  content,
	}, nil
}

// parseMetadataField decodes the optional JSON object sent next to uploaded files.
func parseMetadataField(raw string) (map[string]string, error) {
	md := map[string]string{}
	if raw == "" {
		return md, nil
	}
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return nil, fmt.Errorf("%w: metadata must be a JSON object of strings: %v", entity.ErrInvalidFormat, err)
	}
	if md == nil {
		md = map[string]string{}
	}
	return md, nil
}

// fileMetadata copies the shared upload metadata and records the file name.
func fileMetadata(base map[string]string, filename string) map[string]string {
	md := make(map[string]string, len(base)+1)
	maps.Copy(md, base)
	md[entity.MetadataFilename] = filename
	return md
}

func toUploadedFile(filename, text string) entity.UploadedFile {
	return entity.UploadedFile{
		Name:       filename,
		Characters: utf8.RuneCountInString(text),
	}
}
