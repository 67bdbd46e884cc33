package handlers

import (
	"net/http"
	"strconv"

	"caseboard/application/session"
	"caseboard/domain/core/aggregates"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ViewHandler serves the virtualized table view of an open sketch
type ViewHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(sessions *session.Manager, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// TableRowResponse is one rendered row of the table window
type TableRowResponse struct {
	Index    int          `json:"index"`
	Offset   int          `json:"offset"`
	Node     NodeResponse `json:"node"`
	Selected bool         `json:"selected"`
}

// TableViewResponse carries the window plus everything the table chrome
// needs: the scrollable extent and the select-all checkbox state
type TableViewResponse struct {
	Total         int                `json:"total"`
	Filtered      int                `json:"filtered"`
	Extent        int                `json:"extent"`
	Start         int                `json:"start"`
	End           int                `json:"end"`
	Rows          []TableRowResponse `json:"rows"`
	AllSelected   bool               `json:"all_selected"`
	Indeterminate bool               `json:"indeterminate"`
}

// GetTableView handles GET /sketches/{sketchID}/table-view. Filter and
// viewport parameters come in as query string; only rows inside the window
// (plus overscan) are materialized.
func (h *ViewHandler) GetTableView(w http.ResponseWriter, r *http.Request) {
	sketchID := aggregates.SketchID(chi.URLParam(r, "sketchID"))
	sess, err := h.sessions.Open(r.Context(), sketchID)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	q := r.URL.Query()
	vp := session.ViewportParams{
		RowHeight:      queryInt(q.Get("row_height"), 32),
		ViewportHeight: queryInt(q.Get("viewport_height"), 640),
		ScrollOffset:   queryInt(q.Get("scroll_offset"), 0),
		Overscan:       queryInt(q.Get("overscan"), 4),
	}

	tv := sess.TableView(q.Get("q"), q.Get("type"), vp)

	rows := make([]TableRowResponse, 0, len(tv.Rows))
	for _, row := range tv.Rows {
		rows = append(rows, TableRowResponse{
			Index:    row.Index,
			Offset:   row.Offset,
			Node:     toNodeResponse(row.Node),
			Selected: row.Selected,
		})
	}

	respondJSON(w, h.logger, http.StatusOK, TableViewResponse{
		Total:         tv.Total,
		Filtered:      tv.Filtered,
		Extent:        tv.Extent,
		Start:         tv.Start,
		End:           tv.End,
		Rows:          rows,
		AllSelected:   tv.Display.AllSelected,
		Indeterminate: tv.Display.Indeterminate,
	})
}

func queryInt(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}
