package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/extractor"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	answer string
	err    error

	questions   []string
	documents   []string
	docMetadata []map[string]string
	batchCalls  int
}

func (f *fakeUsecase) AskQuestion(_ context.Context, question string) (string, error) {
	f.questions = append(f.questions, question)
	return f.answer, f.err
}

func (f *fakeUsecase) AddDocument(_ context.Context, content string, metadata map[string]string) error {
	f.documents = append(f.documents, content)
	f.docMetadata = append(f.docMetadata, metadata)
	return f.err
}

func (f *fakeUsecase) AddDocuments(_ context.Context, contents []string, metadataList []map[string]string) error {
	f.batchCalls++
	f.documents = append(f.documents, contents...)
	f.docMetadata = append(f.docMetadata, metadataList...)
	return f.err
}

var uploadCfg = config.FileUploadConfig{
	MaxFileSize:   1 << 20,
	MaxTotalSize:  2 << 20,
	MaxFileCount:  4,
	MaxUploadSize: 4 << 20,
}

func newTestRouter(uc *fakeUsecase) http.Handler {
	h := NewHandler(uc, extractor.NewFactory(), validator.New(uploadCfg), uploadCfg, "RAG Application", "1.0.0")
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, entity.ApiResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp entity.ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandler_Ask(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		usecase     *fakeUsecase
		wantStatus  int
		wantMessage string
		wantCalls   int
	}{
		{
			name:        "answered",
			body:        `{"question":"What color is the sky?"}`,
			usecase:     &fakeUsecase{answer: "Blue."},
			wantStatus:  http.StatusOK,
			wantMessage: "Question answered successfully",
			wantCalls:   1,
		},
		{
			name:        "blank question",
			body:        `{"question":"   "}`,
			usecase:     &fakeUsecase{},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed: ",
		},
		{
			name:        "question too long",
			body:        `{"question":"` + strings.Repeat("a", validator.MaxQuestionLength+1) + `"}`,
			usecase:     &fakeUsecase{},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed: ",
		},
		{
			name:        "malformed json",
			body:        `{"question":`,
			usecase:     &fakeUsecase{},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed: invalid JSON body",
		},
		{
			name:        "upstream failure is generic",
			body:        `{"question":"hi"}`,
			usecase:     &fakeUsecase{err: errors.Join(entity.ErrUpstreamService, errors.New("openai: 503"))},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to process question: internal server error",
			wantCalls:   1,
		},
		{
			name:        "storage failure is generic",
			body:        `{"question":"hi"}`,
			usecase:     &fakeUsecase{err: entity.ErrStorage},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to process question: internal server error",
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, newTestRouter(tt.usecase), http.MethodPost, "/api/rag/ask", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, resp.Success)
			assert.True(t, strings.HasPrefix(resp.Message, tt.wantMessage), resp.Message)
			assert.Len(t, tt.usecase.questions, tt.wantCalls)
		})
	}
}

func TestHandler_Ask_ResponseBody(t *testing.T) {
	router := newTestRouter(&fakeUsecase{answer: "Blue."})

	req := httptest.NewRequest(http.MethodPost, "/api/rag/ask", strings.NewReader(`{"question":"What color is the sky?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.JSONEq(t, `{
		"success": true,
		"message": "Question answered successfully",
		"data": {"question": "What color is the sky?", "answer": "Blue."}
	}`, rec.Body.String())
}

func TestHandler_AddDocument(t *testing.T) {
	t.Run("null metadata becomes empty map", func(t *testing.T) {
		uc := &fakeUsecase{}
		rec, resp := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/rag/documents",
			`{"content":"The sky is blue.","metadata":null}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, "Document added successfully", resp.Message)
		assert.Nil(t, resp.Data)
		require.Len(t, uc.docMetadata, 1)
		assert.NotNil(t, uc.docMetadata[0])
	})

	t.Run("content too long", func(t *testing.T) {
		uc := &fakeUsecase{}
		body := `{"content":"` + strings.Repeat("a", validator.MaxContentLength+1) + `"}`
		rec, _ := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/rag/documents", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, uc.documents)
	})

	t.Run("pipeline failure", func(t *testing.T) {
		rec, resp := doJSON(t, newTestRouter(&fakeUsecase{err: entity.ErrStorage}), http.MethodPost,
			"/api/rag/documents", `{"content":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to add document: internal server error", resp.Message)
	})
}

func TestHandler_AddDocuments(t *testing.T) {
	t.Run("batch", func(t *testing.T) {
		uc := &fakeUsecase{}
		rec, resp := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/rag/documents/batch",
			`{"contents":["one","two"],"metadata":[{"a":"1"},null]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Documents added successfully", resp.Message)
		assert.Equal(t, map[string]any{"count": float64(2)}, resp.Data)
		assert.Equal(t, []string{"one", "two"}, uc.documents)
		assert.Equal(t, map[string]string{}, uc.docMetadata[1])
	})

	t.Run("length mismatch", func(t *testing.T) {
		uc := &fakeUsecase{}
		rec, resp := doJSON(t, newTestRouter(uc), http.MethodPost, "/api/rag/documents/batch",
			`{"contents":["one","two"],"metadata":[{}]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, resp.Message, "same length")
		assert.Zero(t, uc.batchCalls)
	})
}

func TestHandler_UploadDocuments(t *testing.T) {
	newUpload := func(t *testing.T, files map[string]string, metadata string) *http.Request {
		t.Helper()

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		for name, content := range files {
			fw, err := mw.CreateFormFile("files", name)
			require.NoError(t, err)
			_, err = fw.Write([]byte(content))
			require.NoError(t, err)
		}
		if metadata != "" {
			require.NoError(t, mw.WriteField("metadata", metadata))
		}
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/rag/documents/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	t.Run("text and markdown", func(t *testing.T) {
		uc := &fakeUsecase{}
		req := newUpload(t, map[string]string{"my notes.md": "# Sky\n\nThe sky is blue."}, `{"team":"docs"}`)
		rec := httptest.NewRecorder()
		newTestRouter(uc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{
			"success": true,
			"message": "Files added successfully",
			"data": {"files": [{"name": "my_notes.md", "characters": 21}]}
		}`, rec.Body.String())

		require.Equal(t, 1, uc.batchCalls)
		assert.Equal(t, []string{"Sky\n\nThe sky is blue."}, uc.documents)
		assert.Equal(t, map[string]string{"team": "docs", "filename": "my_notes.md"}, uc.docMetadata[0])
	})

	t.Run("unsupported extension", func(t *testing.T) {
		uc := &fakeUsecase{}
		rec := httptest.NewRecorder()
		newTestRouter(uc).ServeHTTP(rec, newUpload(t, map[string]string{"scan.pdf": "%PDF"}, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, uc.batchCalls)
	})

	t.Run("invalid metadata", func(t *testing.T) {
		uc := &fakeUsecase{}
		rec := httptest.NewRecorder()
		newTestRouter(uc).ServeHTTP(rec, newUpload(t, map[string]string{"a.txt": "text"}, `["not","an","object"]`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, uc.batchCalls)
	})

	t.Run("empty file", func(t *testing.T) {
		uc := &fakeUsecase{}
		rec := httptest.NewRecorder()
		newTestRouter(uc).ServeHTTP(rec, newUpload(t, map[string]string{"a.txt": "  "}, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, uc.batchCalls)
	})
}

func TestHandler_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rag/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"message": "Health check passed",
		"data": {"status": "UP", "service": "RAG Application", "version": "1.0.0"}
	}`, rec.Body.String())
}
