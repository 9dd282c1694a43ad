package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceBoundaries_SplitsTwoRegionsAlongOneStraightEdge(t *testing.T) {
	assert := assert.New(t)

	l := NewLabelGrid(4, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				l.Set(x, y, 1)
			} else {
				l.Set(x, y, 2)
			}
		}
	}

	polys := TraceBoundaries(l, 0.5)
	assert.Len(polys, 2)
	for _, p := range polys {
		assert.GreaterOrEqual(len(p.Points), 4)
	}
}

func TestIsImageCorner(t *testing.T) {
	assert := assert.New(t)

	assert.True(isImageCorner(GridPoint{X: 0, Y: 0}, 4, 3))
	assert.True(isImageCorner(GridPoint{X: 4, Y: 2}, 4, 3))
	assert.False(isImageCorner(GridPoint{X: 2, Y: 1}, 4, 3))
}
