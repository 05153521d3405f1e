package rag

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/logger"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/response"
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	maxJSONBodySize = 16 << 20

	healthStatusUp = "UP"
)

type Handler struct {
	usecase   RAGUsecase
	extractor TextExtractor
	validator *validator.Validator
	cfg       config.FileUploadConfig
	service   string
	version   string
}

func NewHandler(
	usecase RAGUsecase,
	extractor TextExtractor,
	validator *validator.Validator,
	cfg config.FileUploadConfig,
	service string,
	version string,
) *Handler {
	return &Handler{
		usecase:   usecase,
		extractor: extractor,
		validator: validator,
		cfg:       cfg,
		service:   service,
		version:   version,
	}
}

// Ask handles POST /api/rag/ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if !h.decodeJSON(ctx, w, r, &req) {
		return
	}

	if err := h.validator.ValidateAsk(&req); err != nil {
		h.respondValidationError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.String("question", req.Question))
	ctxzap.Info(ctx, "answering question")

	answer, err := h.usecase.AskQuestion(ctx, req.Question)
	if err != nil {
		h.handleUsecaseError(ctx, w, "Failed to process question", err)
		return
	}

	response.Success(w, "Question answered successfully", &entity.AskResponse{
		Question: req.Question,
		Answer:   answer,
	})
}

// AddDocument handles POST /api/rag/documents
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AddDocument")

	var req entity.DocumentRequest
	if !h.decodeJSON(ctx, w, r, &req) {
		return
	}
	req.Normalize()

	if err := h.validator.ValidateDocument(&req); err != nil {
		h.respondValidationError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.Int("content_bytes", len(req.Content)))
	ctxzap.Info(ctx, "adding document")

	if err := h.usecase.AddDocument(ctx, req.Content, req.Metadata); err != nil {
		h.handleUsecaseError(ctx, w, "Failed to add document", err)
		return
	}

	response.Success(w, "Document added successfully", nil)
}

// AddDocuments handles POST /api/rag/documents/batch
func (h *Handler) AddDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AddDocuments")

	var req entity.BatchDocumentsRequest
	if !h.decodeJSON(ctx, w, r, &req) {
		return
	}
	req.Normalize()

	if err := h.validator.ValidateBatch(&req); err != nil {
		h.respondValidationError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.Int("document_count", len(req.Contents)))
	ctxzap.Info(ctx, "adding documents")

	if err := h.usecase.AddDocuments(ctx, req.Contents, req.Metadata); err != nil {
		h.handleUsecaseError(ctx, w, "Failed to add documents", err)
		return
	}

	response.Success(w, "Documents added successfully", &entity.BatchDocumentsResponse{
		Count: len(req.Contents),
	})
}

// UploadDocuments handles POST /api/rag/documents/upload
func (h *Handler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocuments")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Warn(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Validation failed: invalid form data or size too large")
		return
	}
	defer r.MultipartForm.RemoveAll()

	metadata, err := parseMetadataField(r.FormValue("metadata"))
	if err != nil {
		h.respondValidationError(ctx, w, err)
		return
	}

	req := entity.UploadDocumentsRequest{
		Files:    r.MultipartForm.File["files"],
		Metadata: metadata,
	}

	if err := h.validator.ValidateUpload(req.Files); err != nil {
		h.respondValidationError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.Int("file_count", len(req.Files)))

	contents := make([]string, 0, len(req.Files))
	metadataList := make([]map[string]string, 0, len(req.Files))
	uploaded := make([]entity.UploadedFile, 0, len(req.Files))

	for _, fh := range req.Files {
		file, err := toFileData(fh)
		if err != nil {
			h.respondValidationError(ctx, w, err)
			return
		}

		text, err := h.extractor.Extract(file)
		if err != nil {
			h.respondValidationError(ctx, w, err)
			return
		}
		if err := validator.ValidateContent(text); err != nil {
			h.respondValidationError(ctx, w, err)
			return
		}

		ctxzap.Debug(ctx, "file extracted",
			zap.String("filename", file.Filename),
			zap.Int64("size", fh.Size),
		)

		contents = append(contents, text)
		metadataList = append(metadataList, fileMetadata(req.Metadata, file.Filename))
		uploaded = append(uploaded, toUploadedFile(file.Filename, text))
	}

	ctxzap.Info(ctx, "adding uploaded files")

	if err := h.usecase.AddDocuments(ctx, contents, metadataList); err != nil {
		h.handleUsecaseError(ctx, w, "Failed to add files", err)
		return
	}

	response.Success(w, "Files added successfully", &entity.UploadDocumentsResponse{
		Files: uploaded,
	})
}

// Health handles GET /api/rag/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "Health check passed", &entity.HealthStatus{
		Status:  healthStatusUp,
		Service: h.service,
		Version: h.version,
	})
}

// Helper methods
func (h *Handler) decodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "Validation failed: invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) respondValidationError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Warn(ctx, "request validation failed", zap.Error(err))
	response.Error(w, http.StatusBadRequest, "Validation failed: "+err.Error())
}

// handleUsecaseError hides upstream and storage failures behind one generic message.
func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, prefix string, err error) {
	if entity.IsValidationError(err) {
		h.respondValidationError(ctx, w, err)
		return
	}

	ctxzap.Error(ctx, prefix, zap.Error(err))
	response.Error(w, http.StatusInternalServerError, prefix+": internal server error")
}
