package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAppError renders err as {"error": {...}}. Anything that is not an
// AppError becomes a 500 without leaking its text.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	WriteAppError(w, r, h.Logger, err)
}

// WriteAppError is the shared error renderer for handlers and middleware.
func WriteAppError(w http.ResponseWriter, r *http.Request, lg *slog.Logger, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("Internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.ErrorContext(r.Context(), "http error",
			"status", appErr.StatusCode, "code", appErr.Code, "path", r.URL.Path, "error", err)
	} else {
		lg.DebugContext(r.Context(), "http error",
			"status", appErr.StatusCode, "code", appErr.Code, "path", r.URL.Path)
	}

	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		lg.Error("failed to encode error response", "error", encErr)
	}
}

// DecodeJSON decodes the request body into dst, mapping failures to a 400.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.ErrInvalidBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// IDParam parses a positive integer URL parameter.
func (h *BaseHandler) IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.ErrInvalidID
	}
	return id, nil
}

// Identity returns the caller attached by the authentication middleware.
// Routes reaching a handler without one were wired without that middleware.
func (h *BaseHandler) Identity(r *http.Request) (identity.Identity, error) {
	id, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		return identity.Identity{}, internal.ErrMissingCredential
	}
	return id, nil
}
