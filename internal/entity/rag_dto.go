package entity

import "mime/multipart"

// ApiResponse is the envelope returned by every /api/rag endpoint.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type DocumentRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Normalize replaces a missing metadata object with an empty map.
func (r *DocumentRequest) Normalize() {
	if r.Metadata == nil {
		r.Metadata = map[string]string{}
	}
}

type BatchDocumentsRequest struct {
	Contents []string            `json:"contents"`
	Metadata []map[string]string `json:"metadata"`
}

// Normalize replaces missing metadata entries with empty maps. An omitted
// metadata list means no metadata for every document.
func (r *BatchDocumentsRequest) Normalize() {
	if r.Metadata == nil {
		r.Metadata = make([]map[string]string, len(r.Contents))
	}
	for i := range r.Metadata {
		if r.Metadata[i] == nil {
			r.Metadata[i] = map[string]string{}
		}
	}
}

type BatchDocumentsResponse struct {
	Count int `json:"count"`
}

type UploadDocumentsRequest struct {
	Files    []*multipart.FileHeader
	Metadata map[string]string
}

type UploadedFile struct {
	Name       string `json:"name"`
	Characters int    `json:"characters"`
}

type UploadDocumentsResponse struct {
	Files []UploadedFile `json:"files"`
}

type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
