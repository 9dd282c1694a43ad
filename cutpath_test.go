package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCut_ComputesOffsetBounds(t *testing.T) {
	assert := assert.New(t)

	c := NewCut("c0", true, []Vec2{{X: 1, Y: 0}, {X: 3, Y: 5}, {X: 2, Y: 10}})
	assert.Equal(float32(1), c.MinOffset)
	assert.Equal(float32(3), c.MaxOffset)
}

func TestFitLocalLine_FitsStraightDiagonal(t *testing.T) {
	assert := assert.New(t)

	// A vertical cut whose path is the line X = Y (offset = indep).
	pts := []Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}}
	cut := NewCut("c0", true, pts)
	tri := Triangle{V: [3]Vec3{{2, 1, 0}, {2, 3, 0}, {2.5, 2, 1}}}

	line := fitLocalLine(cut, tri)
	assert.InDelta(1.0, line.slope, 1e-3)
	assert.InDelta(0.0, line.intercept, 1e-3)
}

func TestFitLocalLine_FallsBackWithoutEnoughPoints(t *testing.T) {
	assert := assert.New(t)

	cut := NewCut("c0", true, []Vec2{{X: 5, Y: 100}})
	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}

	line := fitLocalLine(cut, tri)
	assert.Equal(float32(5), line.offsetAt(0))
}
