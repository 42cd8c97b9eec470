package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/settings"
)

// SettingsHandler serves the persisted grid settings.
type SettingsHandler struct {
	config *config.Config
}

// NewSettingsHandler creates a settings handler.
func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{config: cfg}
}

// Get returns the effective settings (file contents or defaults).
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, settings.Load(h.config.Settings.Path))
}

// Update validates and persists new settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	s := settings.Default()
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := s.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.Save(h.config.Settings.Path); err != nil {
		log.Printf("web: saving settings: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	respondJSON(w, http.StatusOK, s)
}
