package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySide(t *testing.T) {
	assert := assert.New(t)

	a, b := Vec2{X: 0, Y: 0}, Vec2{X: 10, Y: 0}
	assert.Equal(SideLeft, ClassifySide(a, b, Vec2{X: 5, Y: 1}, 1e-6))
	assert.Equal(SideRight, ClassifySide(a, b, Vec2{X: 5, Y: -1}, 1e-6))
	assert.Equal(SideOn, ClassifySide(a, b, Vec2{X: 5, Y: 0}, 1e-6))
}

func TestMidEdgeSubdivide_PreservesArea(t *testing.T) {
	assert := assert.New(t)

	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {4, 0, 0}, {0, 4, 0}}}
	subs := MidEdgeSubdivide(tri)
	assert.Len(subs, 4)

	var total float32
	for _, s := range subs {
		total += triXYArea(s)
	}
	assert.InDelta(triXYArea(tri), total, 1e-4)
}

func TestMinMaxAbs(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(2, Min(2, 5))
	assert.Equal(5, Max(2, 5))
	assert.Equal(float32(3), Abs(float32(-3)))
}
