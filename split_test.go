package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVertex_VerticalCutLeftRight(t *testing.T) {
	assert := assert.New(t)

	cut := Cut{ID: "v0", Vertical: true}
	line := localLine{slope: 0, intercept: 5}

	assert.Equal(SideLeft, classifyVertex(Vec3{1, 0, 0}, cut, line, 1e-6))
	assert.Equal(SideRight, classifyVertex(Vec3{9, 0, 0}, cut, line, 1e-6))
	assert.Equal(SideOn, classifyVertex(Vec3{5, 0, 0}, cut, line, 1e-6))
}

func TestClassifyVertex_HorizontalCutAboveIsLeft(t *testing.T) {
	assert := assert.New(t)

	cut := Cut{ID: "h0", Vertical: false}
	line := localLine{slope: 0, intercept: 5}

	assert.Equal(SideLeft, classifyVertex(Vec3{0, 9, 0}, cut, line, 1e-6)) // above the line: terminal
	assert.Equal(SideRight, classifyVertex(Vec3{0, 1, 0}, cut, line, 1e-6))
}

func TestSplitTriangleAgainstCut_ProducesBothSidesAndOneSegment(t *testing.T) {
	assert := assert.New(t)

	// Triangle straddling the vertical line X = 5.
	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {10, 0, 0}, {5, 10, 2}}}
	cut := Cut{ID: "v0", Vertical: true, MinOffset: 5, MaxOffset: 5}
	line := localLine{slope: 0, intercept: 5}

	left, right, seg, ok := splitTriangleAgainstCut(tri, cut, line, 1e-6)
	assert.True(ok)
	assert.NotEmpty(left)
	assert.NotEmpty(right)
	assert.InDelta(5, seg.P[0], 1e-3)
	assert.InDelta(5, seg.Q[0], 1e-3)

	var leftArea, rightArea float32
	for _, lt := range left {
		leftArea += triXYArea(lt)
	}
	for _, rt := range right {
		rightArea += triXYArea(rt)
	}
	assert.InDelta(triXYArea(tri), leftArea+rightArea, 1e-2)
}

func triXYArea(t Triangle) float32 {
	ax := t.V[1][0] - t.V[0][0]
	ay := t.V[1][1] - t.V[0][1]
	bx := t.V[2][0] - t.V[0][0]
	by := t.V[2][1] - t.V[0][1]
	a := ax*by - ay*bx
	if a < 0 {
		a = -a
	}
	return a / 2
}
