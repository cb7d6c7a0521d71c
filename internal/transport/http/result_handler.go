package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apperrors "spreadcli/internal/errors"
)

// ResultHandler serves the latest analysis result.
type ResultHandler struct {
	store  ResultStore
	logger *slog.Logger
}

// NewResultHandler creates a new result handler
func NewResultHandler(store ResultStore, logger *slog.Logger) *ResultHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "result")),
	}
}

// Get handles GET /api/result
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	result := h.store.Latest()
	if result == nil {
		h.renderError(w, r, apperrors.ErrResultNotFound)
		return
	}
	render.JSON(w, r, result)
}

// Diagnostics handles GET /api/result/diagnostics
func (h *ResultHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	result := h.store.Latest()
	if result == nil {
		h.renderError(w, r, apperrors.ErrResultNotFound)
		return
	}
	render.JSON(w, r, result.Diagnostics)
}

// Probabilities handles GET /api/result/probabilities
func (h *ResultHandler) Probabilities(w http.ResponseWriter, r *http.Request) {
	result := h.store.Latest()
	if result == nil {
		h.renderError(w, r, apperrors.ErrResultNotFound)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"raw":             result.Raw,
		"valid":           result.Valid,
		"volume_weighted": result.VolumeWeighted,
		"bootstrap":       result.Bootstrap,
	})
}

// Levels handles GET /api/result/levels
func (h *ResultHandler) Levels(w http.ResponseWriter, r *http.Request) {
	result := h.store.Latest()
	if result == nil {
		h.renderError(w, r, apperrors.ErrResultNotFound)
		return
	}
	render.JSON(w, r, result.Levels)
}

// Statistics handles GET /api/result/statistics
func (h *ResultHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	result := h.store.Latest()
	if result == nil {
		h.renderError(w, r, apperrors.ErrResultNotFound)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"statistics":  result.Statistics,
		"transitions": result.Transitions,
		"histogram":   result.Histogram,
	})
}

func (h *ResultHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apperrors.APIError) {
	h.logger.WarnContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("error_code", apiErr.ErrorCode))
	if err := render.Render(w, r, apiErr); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
