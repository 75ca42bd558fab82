package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tapestry/internal/curation/models"
	dErrors "tapestry/pkg/domain-errors"
)

// recordResponse wraps a record snapshot plus any non-fatal collaborator
// warnings from the operation that produced it.
type recordResponse struct {
	Record   *models.CurationRecord `json:"record"`
	Warnings []string               `json:"warnings,omitempty"`
}

type requestsResponse struct {
	Record   *models.CurationRecord     `json:"record"`
	Requests []models.ValidationRequest `json:"requests"`
	Warnings []string                   `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain-error translation to HTTP responses so every
// endpoint returns the same JSON error envelope. Coded errors carry a
// caller-safe message; anything else degrades to a generic internal error.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := "internal error"
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		message = coded.Message
	}
	writeJSON(w, dErrors.ToHTTPStatus(code), errorResponse{
		Error:   string(code),
		Message: message,
	})
}
