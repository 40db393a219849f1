package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ecdash/internal/dataprocessing"
)

// ErrorHandler provides centralized error handling for the HTTP layer. It
// maps pipeline sentinel errors onto their API representations and logs
// every failure with request context.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to a structured response and renders it.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	render.Render(w, r, NewErrorResponse(h.toAPIError(err)))
}

// toAPIError maps errors onto the API taxonomy. Structural pipeline
// failures become 503s; anything unrecognized is a generic 500 whose detail
// stays in the log, not the response.
func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, dataprocessing.ErrDataDirNotFound):
		return ErrDataDirMissing
	case errors.Is(err, dataprocessing.ErrNoEnvironmentData):
		return ErrEnvironmentEmpty
	case errors.Is(err, dataprocessing.ErrGrowthDataNotFound):
		return ErrGrowthDataMissing
	}

	return ErrInternalServer
}
