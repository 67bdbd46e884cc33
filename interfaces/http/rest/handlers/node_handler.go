package handlers

import (
	"encoding/json"
	"net/http"

	"caseboard/application/ports"
	"caseboard/application/session"
	"caseboard/domain/core/aggregates"
	"caseboard/domain/core/entities"
	"caseboard/domain/core/valueobjects"
	pkgerrors "caseboard/pkg/errors"
	"caseboard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NodeHandler handles node and edge HTTP requests against an open sketch
type NodeHandler struct {
	sessions *session.Manager
	sketches ports.SketchRepository
	logger   *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(sessions *session.Manager, sketches ports.SketchRepository, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		sessions: sessions,
		sketches: sketches,
		logger:   logger,
	}
}

// UpsertNodeRequest represents the request body for creating or replacing a
// node. A request carrying an ID replaces the node with that ID; without one
// a fresh identifier is minted.
type UpsertNodeRequest struct {
	ID         string                 `json:"id,omitempty"`
	Attributes map[string]interface{} `json:"attributes"`
	X          *float64               `json:"x,omitempty"`
	Y          *float64               `json:"y,omitempty"`
	Size       *float64               `json:"size,omitempty" validate:"omitempty,gt=0"`
	Color      string                 `json:"color,omitempty"`
}

// BulkDeleteRequest represents the request body for deleting many nodes
type BulkDeleteRequest struct {
	NodeIDs []string `json:"node_ids" validate:"required,min=1,dive,required"`
}

// CreateEdgeRequest represents the request body for connecting two nodes
type CreateEdgeRequest struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
	Label    string `json:"label,omitempty" validate:"omitempty,max=100"`
}

func (h *NodeHandler) openSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))
	sess, err := h.sessions.Open(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return nil, false
	}
	return sess, true
}

// UpsertNode handles POST /sketches/{sketchID}/nodes
func (h *NodeHandler) UpsertNode(w http.ResponseWriter, r *http.Request) {
	var req UpsertNodeRequest
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

	var node *entities.Node
	if req.ID == "" {
		node = entities.NewNode(req.Attributes)
	} else {
		nodeID, err := valueobjects.NewNodeIDFromString(req.ID)
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
		node, err = entities.NewNodeWithID(nodeID, req.Attributes)
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
	}

	if req.X != nil && req.Y != nil {
		node.MoveTo(valueobjects.NewPosition(*req.X, *req.Y))
	}
	if req.Size != nil {
		if err := node.Resize(*req.Size); err != nil {
			respondAppError(w, h.logger, err)
			return
		}
	}
	if req.Color != "" {
		node.Recolor(req.Color)
	}

	if err := sess.UpsertNode(node); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	if err := h.sketches.SaveNode(r.Context(), sess.SketchID(), node); err != nil {
		h.logger.Error("Failed to persist node",
			zap.String("sketchID", sess.SketchID().String()),
			zap.String("nodeID", node.ID().String()),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toNodeResponse(node))
}

// GetNode handles GET /sketches/{sketchID}/nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	nodeID, err := valueobjects.NewNodeIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	node, err := sess.Node(nodeID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, toNodeResponse(node))
}

// DeleteNode handles DELETE /sketches/{sketchID}/nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	nodeID, err := valueobjects.NewNodeIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	if err := sess.RemoveNode(nodeID); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	if err := h.sketches.DeleteNode(r.Context(), sess.SketchID(), nodeID.String()); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Node deleted",
	})
}

// BulkDeleteNodes handles POST /sketches/{sketchID}/nodes/bulk-delete.
// Missing IDs are skipped rather than failing the whole batch.
func (h *NodeHandler) BulkDeleteNodes(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
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

	deleted := 0
	for _, rawID := range req.NodeIDs {
		nodeID, err := valueobjects.NewNodeIDFromString(rawID)
		if err != nil {
			continue
		}
		if err := sess.RemoveNode(nodeID); err != nil {
			if pkgerrors.IsNotFound(err) {
				continue
			}
			respondAppError(w, h.logger, err)
			return
		}
		if err := h.sketches.DeleteNode(r.Context(), sess.SketchID(), nodeID.String()); err != nil {
			h.logger.Error("Failed to persist bulk node delete",
				zap.String("nodeID", nodeID.String()),
				zap.Error(err),
			)
		}
		deleted++
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"deleted":   deleted,
		"requested": len(req.NodeIDs),
	})
}

// CreateEdge handles POST /sketches/{sketchID}/edges
func (h *NodeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
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

	sourceID, err := valueobjects.NewNodeIDFromString(req.SourceID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	targetID, err := valueobjects.NewNodeIDFromString(req.TargetID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	edge, err := sess.ConnectNodes(sourceID, targetID, req.Label)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, EdgeResponse{
		ID:        edge.ID,
		SourceID:  edge.SourceID.String(),
		TargetID:  edge.TargetID.String(),
		Label:     edge.Label,
		CreatedAt: utils.FormatRFC3339(edge.CreatedAt),
	})
}

// DeleteEdge handles DELETE /sketches/{sketchID}/edges/{edgeID}
func (h *NodeHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	if err := sess.RemoveEdge(chi.URLParam(r, "edgeID")); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Edge deleted",
	})
}
