// Package handlers provides HTTP handlers for dataset snapshots.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/subsidywatch/internal/modules/datasets"
	"github.com/aristath/subsidywatch/internal/utils"
)

// Handler handles dataset HTTP requests
type Handler struct {
	service *datasets.Service
	log     zerolog.Logger
}

// NewHandler creates a new datasets handler
func NewHandler(service *datasets.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "datasets").Logger(),
	}
}

// HandleGetCurrent returns metadata of the current snapshot
func (h *Handler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Current()
	if err != nil {
		if errors.Is(err, datasets.ErrNoSnapshot) {
			h.writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	h.write(w, r, http.StatusOK, map[string]interface{}{
		"data": snapshot.Info(),
	})
}

// HandleReload reloads every record file and regroups from scratch
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snapshot, err := h.service.Reload(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Manual dataset reload failed")
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	h.write(w, r, http.StatusOK, map[string]interface{}{
		"data": snapshot.Info(),
		"metadata": map[string]interface{}{
			"timestamp":   time.Now().Format(time.RFC3339),
			"duration_ms": time.Since(start).Milliseconds(),
		},
	})
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := utils.WriteResponse(w, r, status, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.write(w, r, status, map[string]string{"error": message})
}
