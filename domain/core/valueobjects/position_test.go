package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPosition(t *testing.T) {
	p := NewPosition(120.5, -44.25)

	assert.Equal(t, 120.5, p.X)
	assert.Equal(t, -44.25, p.Y)
	assert.False(t, p.IsZero())
	assert.True(t, NewPosition(0, 0).IsZero())
}

func TestPositionEquals(t *testing.T) {
	tests := []struct {
		name  string
		a     Position
		b     Position
		equal bool
	}{
		{
			name:  "identical coordinates",
			a:     NewPosition(10, 20),
			b:     NewPosition(10, 20),
			equal: true,
		},
		{
			name:  "within tolerance",
			a:     NewPosition(10, 20),
			b:     NewPosition(10+1e-12, 20-1e-12),
			equal: true,
		},
		{
			name:  "different coordinates",
			a:     NewPosition(10, 20),
			b:     NewPosition(10.1, 20),
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equals(tt.b))
		})
	}
}
