package handlers

import (
	"encoding/json"
	"net/http"

	"caseboard/application/ports"
	"caseboard/application/session"
	"caseboard/domain/core/aggregates"
	"caseboard/domain/core/entities"
	"caseboard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SketchHandler handles sketch lifecycle HTTP requests
type SketchHandler struct {
	sessions *session.Manager
	sketches ports.SketchRepository
	settings ports.SettingsStore
	logger   *zap.Logger
}

// NewSketchHandler creates a new sketch handler
func NewSketchHandler(
	sessions *session.Manager,
	sketches ports.SketchRepository,
	settings ports.SettingsStore,
	logger *zap.Logger,
) *SketchHandler {
	return &SketchHandler{
		sessions: sessions,
		sketches: sketches,
		settings: settings,
		logger:   logger,
	}
}

// CreateSketchRequest represents the request body for creating a sketch
type CreateSketchRequest struct {
	InvestigationID string `json:"investigation_id" validate:"required"`
	Name            string `json:"name" validate:"required,min=1,max=200"`
}

// SketchResponse represents sketch metadata in responses
type SketchResponse struct {
	ID              string `json:"id"`
	InvestigationID string `json:"investigation_id"`
	Name            string `json:"name"`
	NodeCount       int    `json:"node_count"`
	EdgeCount       int    `json:"edge_count"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// CreateSketch handles POST /sketches
func (h *SketchHandler) CreateSketch(w http.ResponseWriter, r *http.Request) {
	var req CreateSketchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sketch, err := aggregates.NewSketch(req.InvestigationID, req.Name)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	if err := h.sketches.Save(r.Context(), sketch); err != nil {
		h.logger.Error("Failed to save sketch",
			zap.String("investigationID", req.InvestigationID),
			zap.Error(err),
		)
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toSketchResponse(sketch))
}

// ListSketches handles GET /sketches?investigation_id=...
func (h *SketchHandler) ListSketches(w http.ResponseWriter, r *http.Request) {
	investigationID := r.URL.Query().Get("investigation_id")
	if investigationID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "investigation_id query parameter is required")
		return
	}

	sketches, err := h.sketches.FindByInvestigation(r.Context(), investigationID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	out := make([]SketchResponse, 0, len(sketches))
	for _, s := range sketches {
		out = append(out, toSketchResponse(s))
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"sketches": out,
		"count":    len(out),
	})
}

// GetSketch handles GET /sketches/{sketchID}. Opening a sketch creates or
// reuses its session, so repeated opens share one working set.
func (h *SketchHandler) GetSketch(w http.ResponseWriter, r *http.Request) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))

	sess, err := h.sessions.Open(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	nodes, edges := sess.GraphSnapshot()
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"id":       sketchID.String(),
		"nodes":    toNodeResponses(nodes),
		"edges":    toEdgeResponses(edges),
		"settings": sess.SettingsSnapshot(),
	})
}

// GetGraphData handles GET /sketches/{sketchID}/graph-data, the payload the
// canvas renders from
func (h *SketchHandler) GetGraphData(w http.ResponseWriter, r *http.Request) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))

	sess, err := h.sessions.Open(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	nodes, edges := sess.GraphSnapshot()

	selected := make(map[string]bool)
	for _, id := range sess.SelectionIDs() {
		selected[id.String()] = true
	}

	nodeData := make([]map[string]interface{}, 0, len(nodes))
	for _, node := range nodes {
		nodeData = append(nodeData, map[string]interface{}{
			"id":       node.ID().String(),
			"label":    node.Label(),
			"type":     node.TypeTag(),
			"x":        node.Position().X,
			"y":        node.Position().Y,
			"size":     node.Size(),
			"color":    node.Color(),
			"selected": selected[node.ID().String()],
		})
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"nodes": nodeData,
		"edges": toEdgeResponses(edges),
	})
}

// CloseSketch handles POST /sketches/{sketchID}/close. Pending settings
// writes are flushed before the session is discarded.
func (h *SketchHandler) CloseSketch(w http.ResponseWriter, r *http.Request) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))

	if err := h.sessions.Close(r.Context(), sketchID); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Sketch closed",
	})
}

// SaveSketch handles POST /sketches/{sketchID}/save, persisting the full
// working set of an open session
func (h *SketchHandler) SaveSketch(w http.ResponseWriter, r *http.Request) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))

	sess, ok := h.sessions.Get(sketchID)
	if !ok {
		respondError(w, h.logger, http.StatusNotFound, "sketch is not open")
		return
	}

	sketch, err := h.sketches.FindByID(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	nodes, edges := sess.GraphSnapshot()
	if err := sketch.Load(nodes, edges); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	if err := h.sketches.Save(r.Context(), sketch); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toSketchResponse(sketch))
}

// DeleteSketch handles DELETE /sketches/{sketchID}. The session, the stored
// items and the stored settings all go.
func (h *SketchHandler) DeleteSketch(w http.ResponseWriter, r *http.Request) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))

	if err := h.sessions.Close(r.Context(), sketchID); err != nil {
		h.logger.Warn("session close before delete failed",
			zap.String("sketchID", sketchID.String()),
			zap.Error(err),
		)
	}

	if err := h.sketches.Delete(r.Context(), sketchID); err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	if err := h.settings.Delete(r.Context(), sketchID.String()); err != nil {
		h.logger.Warn("settings cleanup after sketch delete failed",
			zap.String("sketchID", sketchID.String()),
			zap.Error(err),
		)
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Sketch deleted",
	})
}

func toSketchResponse(s *aggregates.Sketch) SketchResponse {
	return SketchResponse{
		ID:              s.ID().String(),
		InvestigationID: s.InvestigationID(),
		Name:            s.Name(),
		NodeCount:       s.NodeCount(),
		EdgeCount:       s.EdgeCount(),
		CreatedAt:       utils.FormatRFC3339(s.CreatedAt()),
		UpdatedAt:       utils.FormatRFC3339(s.UpdatedAt()),
	}
}

// NodeResponse represents one node in responses
type NodeResponse struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	Type       string                 `json:"type"`
	Attributes map[string]interface{} `json:"attributes"`
	X          float64                `json:"x"`
	Y          float64                `json:"y"`
	Size       float64                `json:"size"`
	Color      string                 `json:"color,omitempty"`
	CreatedAt  string                 `json:"created_at"`
	UpdatedAt  string                 `json:"updated_at"`
}

// EdgeResponse represents one edge in responses
type EdgeResponse struct {
	ID        string `json:"id"`
	SourceID  string `json:"source_id"`
	TargetID  string `json:"target_id"`
	Label     string `json:"label,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toNodeResponse(n *entities.Node) NodeResponse {
	return NodeResponse{
		ID:         n.ID().String(),
		Label:      n.Label(),
		Type:       n.TypeTag(),
		Attributes: n.Attributes(),
		X:          n.Position().X,
		Y:          n.Position().Y,
		Size:       n.Size(),
		Color:      n.Color(),
		CreatedAt:  utils.FormatRFC3339(n.CreatedAt()),
		UpdatedAt:  utils.FormatRFC3339(n.UpdatedAt()),
	}
}

func toNodeResponses(nodes []*entities.Node) []NodeResponse {
	out := make([]NodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toNodeResponse(n))
	}
	return out
}

func toEdgeResponses(edges []*aggregates.Edge) []EdgeResponse {
	out := make([]EdgeResponse, 0, len(edges))
	for _, e := range edges {
		out = append(out, EdgeResponse{
			ID:        e.ID,
			SourceID:  e.SourceID.String(),
			TargetID:  e.TargetID.String(),
			Label:     e.Label,
			CreatedAt: utils.FormatRFC3339(e.CreatedAt),
		})
	}
	return out
}
