package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/shop-svc/internal/service/apperrors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps a service error to its HTTP status and writes it as
// {"error": "..."}. Unrecognized errors become 500.
func Error(w http.ResponseWriter, err error) {
	JSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func statusFor(err error) int {
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	var insufficient *apperrors.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusBadRequest
	}

	var conflict *apperrors.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict
	}

	if errors.Is(err, apperrors.ErrNoValidItems) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
