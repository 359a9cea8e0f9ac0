// Package api exposes HTTP handlers for the activity feed.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"example.com/assettrack/internal/auth"
	"example.com/assettrack/internal/domain"
)

// FeedService is the feed entry point the handler depends on.
type FeedService interface {
	GetActivities(ctx context.Context, filter *domain.ActivityType, page, pageSize int) (json.RawMessage, error)
}

// Handler coordinates HTTP requests with the feed service.
type Handler struct {
	feed FeedService
}

// NewHandler builds a Handler.
func NewHandler(feed FeedService) *Handler {
	return &Handler{feed: feed}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/feed/activities", h.activities)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeAssetsView) {
		writeError(w, http.StatusForbidden, "forbidden", "scope assets:view required")
		return
	}

	var filter *domain.ActivityType
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := domain.ParseActivityType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		filter = &parsed
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "validation_failed", "page must be an integer >= 1")
			return
		}
		page = parsed
	}

	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "validation_failed", "page_size must be an integer >= 1")
			return
		}
		pageSize = parsed
	}

	payload, err := h.feed.GetActivities(r.Context(), filter, page, pageSize)
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			w.Header().Set("Retry-After", "5")
			writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "activity storage is temporarily unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
