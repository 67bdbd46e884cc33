package view

// Row is one materialized row of a virtualized list: its index in the
// filtered sequence and its absolute pixel offset from the top.
type Row struct {
	Index  int `json:"index"`
	Offset int `json:"offset"`
}

// Window is the subset of rows a viewport materializes. Start/End form a
// half-open index range; Extent is the total scrollable height in pixels.
type Window struct {
	Start  int   `json:"start"`
	End    int   `json:"end"`
	Extent int   `json:"extent"`
	Rows   []Row `json:"rows"`
}

// ComputeWindow derives the row range to materialize for a scrollable region.
//
//	total    - total row count n
//	rowH     - fixed row height in pixels
//	viewport - viewport height in pixels
//	scroll   - current scroll offset in pixels
//	overscan - rows rendered beyond each visible edge
//
// The returned range is [max(0, floor(scroll/rowH)-overscan),
// min(total, ceil((scroll+viewport)/rowH)+overscan)), each row at offset
// index*rowH, and Extent is always total*rowH. Holds exactly for total == 0
// (empty range, extent 0) and for sets smaller than the visible capacity
// (one contiguous range covering everything).
func ComputeWindow(total, rowH, viewport, scroll, overscan int) Window {
	w := Window{Extent: total * rowH, Rows: []Row{}}
	if total <= 0 || rowH <= 0 {
		return w
	}
	if scroll < 0 {
		scroll = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	start := scroll/rowH - overscan
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	end := ceilDiv(scroll+viewport, rowH) + overscan
	if end > total {
		end = total
	}
	if end < start {
		end = start
	}

	w.Start = start
	w.End = end
	w.Rows = make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		w.Rows = append(w.Rows, Row{Index: i, Offset: i * rowH})
	}
	return w
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
