package response

import (
	"encoding/json"
	"net/http"

	"github.com/MuhammadSenna/langchain-milvus-rag/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Success writes a 200 envelope carrying data.
func Success(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, entity.ApiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes a failed envelope with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ApiResponse{
		Success: false,
		Message: message,
	})
}
