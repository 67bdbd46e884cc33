package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		rowH       int
		viewport   int
		scroll     int
		overscan   int
		wantStart  int
		wantEnd    int
		wantExtent int
	}{
		{
			name:       "empty set",
			total:      0,
			rowH:       32,
			viewport:   640,
			wantStart:  0,
			wantEnd:    0,
			wantExtent: 0,
		},
		{
			name:       "underfull viewport covers everything",
			total:      5,
			rowH:       32,
			viewport:   640,
			wantStart:  0,
			wantEnd:    5,
			wantExtent: 160,
		},
		{
			name:       "top of a large set",
			total:      10000,
			rowH:       32,
			viewport:   640,
			overscan:   4,
			wantStart:  0,
			wantEnd:    24,
			wantExtent: 320000,
		},
		{
			name:       "mid scroll",
			total:      10000,
			rowH:       32,
			viewport:   640,
			scroll:     3200, // exactly 100 rows down
			overscan:   4,
			wantStart:  96,
			wantEnd:    124,
			wantExtent: 320000,
		},
		{
			name:       "bottom clamps end",
			total:      100,
			rowH:       32,
			viewport:   640,
			scroll:     99999,
			overscan:   4,
			wantStart:  100, // scroll past the end leaves an empty range
			wantEnd:    100,
			wantExtent: 3200,
		},
		{
			name:       "negative scroll treated as zero",
			total:      100,
			rowH:       32,
			viewport:   320,
			scroll:     -500,
			wantStart:  0,
			wantEnd:    10,
			wantExtent: 3200,
		},
		{
			name:       "zero row height yields empty window",
			total:      100,
			rowH:       0,
			viewport:   640,
			wantStart:  0,
			wantEnd:    0,
			wantExtent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWindow(tt.total, tt.rowH, tt.viewport, tt.scroll, tt.overscan)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
			assert.Equal(t, tt.wantExtent, w.Extent)
			assert.Len(t, w.Rows, tt.wantEnd-tt.wantStart)
		})
	}
}

func TestComputeWindow_RowsAreContiguous(t *testing.T) {
	w := ComputeWindow(1000, 24, 480, 2400, 6)
	require.NotEmpty(t, w.Rows)

	for i, row := range w.Rows {
		assert.Equal(t, w.Start+i, row.Index)
		assert.Equal(t, row.Index*24, row.Offset)
	}
}

func TestComputeWindow_ExtentIndependentOfScroll(t *testing.T) {
	for _, scroll := range []int{0, 100, 5000, 999999} {
		w := ComputeWindow(500, 32, 640, scroll, 4)
		assert.Equal(t, 500*32, w.Extent)
	}
}
