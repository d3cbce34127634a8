package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Dashboard domain errors
	case errors.Is(err, dashboard.ErrCategoryNotFound):
		NotFound(w, "Category not found")
	case errors.Is(err, dashboard.ErrCategoryRequired):
		BadRequest(w, "Category is required", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
