package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ratiohq/cashup/internal/adapter/http/dto"
	"github.com/ratiohq/cashup/internal/domain"
)

// SettingsHandler serves the site-level cash handling settings. Settings
// are seeded from configuration at startup and held in memory; updates
// apply until the next restart.
type SettingsHandler struct {
	mu       sync.RWMutex
	settings domain.Settings
}

// NewSettingsHandler creates a new SettingsHandler seeded with the given settings.
func NewSettingsHandler(settings domain.Settings) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the current settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	s := h.settings
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, dto.SettingsFromDomain(s))
}

// Update replaces the current settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	s, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings", err.Error())
		return
	}

	h.mu.Lock()
	h.settings = s
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, dto.SettingsFromDomain(s))
}

// Current returns a copy of the settings for other components.
func (h *SettingsHandler) Current() domain.Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings
}
