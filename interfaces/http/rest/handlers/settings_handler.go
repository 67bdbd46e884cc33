package handlers

import (
	"encoding/json"
	"net/http"

	"caseboard/application/session"
	"caseboard/domain/core/aggregates"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SettingsHandler handles setting reads, edits and preset application
type SettingsHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(sessions *session.Manager, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// UpdateSettingRequest represents the request body for one field edit. The
// value is coerced server-side to the field's declared kind.
type UpdateSettingRequest struct {
	Value interface{} `json:"value"`
}

func (h *SettingsHandler) openSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))
	sess, err := h.sessions.Open(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return nil, false
	}
	return sess, true
}

// GetSettings handles GET /sketches/{sketchID}/settings, the merged
// defaults-plus-stored snapshot
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"categories": sess.SettingsCategories(),
		"values":     sess.SettingsSnapshot(),
	})
}

// GetControls handles GET /sketches/{sketchID}/settings/{category}/controls.
// Each field renders to the control type its kind (and category override)
// selects; unknown kinds come back as unsupported rather than an error.
func (h *SettingsHandler) GetControls(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	controls, err := sess.SettingsControls(chi.URLParam(r, "category"))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"controls": controls,
	})
}

// UpdateSetting handles PUT /sketches/{sketchID}/settings/{category}/{key}.
// The response carries the value actually stored after coercion and
// clamping, which the client reflects back into its control.
func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	category := chi.URLParam(r, "category")
	key := chi.URLParam(r, "key")

	stored, err := sess.UpdateSetting(category, key, req.Value)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"category": category,
		"key":      key,
		"value":    stored,
	})
}

// ListPresets handles GET /sketches/{sketchID}/settings/{category}/presets
func (h *SettingsHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	presets, err := sess.ListPresets(chi.URLParam(r, "category"))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"presets": presets,
	})
}

// ApplyPreset handles POST /sketches/{sketchID}/settings/{category}/presets/{name}/apply
func (h *SettingsHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")

	if err := sess.ApplyPreset(category, name); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"category": category,
		"preset":   name,
		"values":   sess.SettingsSnapshot()[category],
	})
}
