package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErrorResponse renders errors from the usecase layer. Technical
// failures are logged and answered with a generic message.
func writeErrorResponse(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := usecase.HTTPStatus(err)
	code := usecase.ErrorCode(err)

	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, status, ErrorResponse{Error: de.Message, Code: code, Details: de.Details})
		return
	}

	logger.Error("request failed", zap.String("code", code), zap.Error(err))
	writeJSON(w, status, ErrorResponse{Error: genericMessage(status), Code: code})
}

func genericMessage(status int) string {
	if status == http.StatusBadGateway {
		return "upstream service unavailable"
	}
	return "internal server error"
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: usecase.CodeValidation})
}

// decodeJSON accepts an empty body as the zero value of v.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pathID reads the {id} route parameter. Ids are UUIDs; anything else is
// answered with 400 before it reaches the database.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(w, "id must be a valid UUID")
		return "", false
	}
	return id, true
}
