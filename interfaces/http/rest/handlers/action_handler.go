package handlers

import (
	"encoding/json"
	"net/http"

	"caseboard/application/actions"
	"caseboard/application/session"
	"caseboard/domain/core/aggregates"
	"caseboard/domain/core/valueobjects"
	"caseboard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActionHandler handles context-menu action resolution and dispatch
type ActionHandler struct {
	sessions   *session.Manager
	dispatcher *actions.Dispatcher
	logger     *zap.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(sessions *session.Manager, dispatcher *actions.Dispatcher, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{
		sessions:   sessions,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// DispatchActionRequest represents the request body for running an action.
// When target_ids is omitted the current selection is used; the primary
// target's entity type decides which actions are legal.
type DispatchActionRequest struct {
	Action    string   `json:"action" validate:"required"`
	TargetIDs []string `json:"target_ids,omitempty"`
}

// ListActions handles GET /sketches/{sketchID}/actions?entity_type=...
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	resolved := h.dispatcher.Registry().ResolveForType(entityType)
	if resolved == nil {
		resolved = []actions.Action{}
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"actions": resolved,
	})
}

// DispatchAction handles POST /sketches/{sketchID}/actions/dispatch
func (h *ActionHandler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	var req DispatchActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))
	sess, err := h.sessions.Open(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	targetIDs := req.TargetIDs
	if len(targetIDs) == 0 {
		for _, id := range sess.SelectionIDs() {
			targetIDs = append(targetIDs, id.String())
		}
	}

	primaryType := ""
	if len(targetIDs) > 0 {
		if primaryID, err := valueobjects.NewNodeIDFromString(targetIDs[0]); err == nil {
			if node, err := sess.Node(primaryID); err == nil {
				primaryType = node.TypeTag()
			}
		}
	}

	job, err := h.dispatcher.Dispatch(r.Context(), sketchID.String(), targetIDs, primaryType, req.Action)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusAccepted, map[string]interface{}{
		"job_id":  job.JobID,
		"action":  job.Action,
		"kind":    job.Kind,
		"targets": len(job.TargetIDs),
	})
}
