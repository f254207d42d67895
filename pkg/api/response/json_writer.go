package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Amaranth-us/legal-advisor/pkg/domain"
	"github.com/Amaranth-us/legal-advisor/pkg/logger"
)

type JSONResponseWriter struct{}

func (j *JSONResponseWriter) WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding success response", logger.Err(err))
	}
}

func (j *JSONResponseWriter) WriteErrorResponse(w http.ResponseWriter, statusCode int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message, Details: details}); err != nil {
		slog.Error("encoding error response", logger.Err(err))
	}
}

// WriteDomainError maps a tagged error to the HTTP status reflecting its
// failure class and writes the standard error envelope.
func (j *JSONResponseWriter) WriteDomainError(w http.ResponseWriter, err error) {
	status, message := statusFor(domain.KindOf(err))
	j.WriteErrorResponse(w, status, message, err.Error())
}

func statusFor(kind domain.ErrorKind) (int, string) {
	switch kind {
	case domain.ErrorKindValidation:
		return http.StatusUnprocessableEntity, "validation error"
	case domain.ErrorKindUpstreamTransient, domain.ErrorKindUpstreamFatal:
		return http.StatusBadGateway, "upstream error"
	case domain.ErrorKindNotFound:
		return http.StatusNotFound, "not found"
	case domain.ErrorKindStorage:
		return http.StatusInternalServerError, "storage error"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
