package handlers

import (
	"encoding/json"
	"net/http"

	"caseboard/application/session"
	"caseboard/domain/core/aggregates"
	"caseboard/domain/core/valueobjects"
	"caseboard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SelectionHandler handles selection mutations against an open sketch
type SelectionHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewSelectionHandler creates a new selection handler
func NewSelectionHandler(sessions *session.Manager, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ToggleSelectionRequest represents the request body for toggling one node
type ToggleSelectionRequest struct {
	NodeID string `json:"node_id" validate:"required"`
}

// SelectVisibleRequest scopes select-all to the given filter
type SelectVisibleRequest struct {
	Query string `json:"query,omitempty"`
	Type  string `json:"type,omitempty"`
}

// SetSelectionRequest replaces the selection wholesale
type SetSelectionRequest struct {
	NodeIDs []string `json:"node_ids"`
}

func (h *SelectionHandler) openSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))
	sess, err := h.sessions.Open(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return nil, false
	}
	return sess, true
}

func (h *SelectionHandler) respondSelection(w http.ResponseWriter, sess *session.Session) {
	ids := sess.SelectionIDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"node_ids": out,
		"count":    len(out),
	})
}

// GetSelection handles GET /sketches/{sketchID}/selection
func (h *SelectionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}
	h.respondSelection(w, sess)
}

// ToggleSelection handles POST /sketches/{sketchID}/selection/toggle
func (h *SelectionHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req ToggleSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	nodeID, err := valueobjects.NewNodeIDFromString(req.NodeID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	sess.ToggleSelection(nodeID)
	h.respondSelection(w, sess)
}

// SelectVisible handles POST /sketches/{sketchID}/selection/select-visible.
// Only the ids matching the given filter become selected; entities hidden by
// the filter are left out.
func (h *SelectionHandler) SelectVisible(w http.ResponseWriter, r *http.Request) {
	var req SelectVisibleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	sess.SelectVisible(req.Query, req.Type)
	h.respondSelection(w, sess)
}

// SetSelection handles PUT /sketches/{sketchID}/selection
func (h *SelectionHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req SetSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	ids := make([]valueobjects.NodeID, 0, len(req.NodeIDs))
	for _, raw := range req.NodeIDs {
		id, err := valueobjects.NewNodeIDFromString(raw)
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
		ids = append(ids, id)
	}

	sess.SetSelection(ids)
	h.respondSelection(w, sess)
}

// ClearSelection handles DELETE /sketches/{sketchID}/selection
func (h *SelectionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	sess.ClearSelection()
	h.respondSelection(w, sess)
}
