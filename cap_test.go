package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCapLoops_ClosesASquare(t *testing.T) {
	assert := assert.New(t)

	segs := []CutSegment{
		{P: Vec3{5, 0, 0}, Q: Vec3{5, 0, 10}},
		{P: Vec3{5, 0, 10}, Q: Vec3{5, 10, 10}},
		{P: Vec3{5, 10, 10}, Q: Vec3{5, 10, 0}},
		{P: Vec3{5, 10, 0}, Q: Vec3{5, 0, 0}},
	}
	loops, openErrs := buildCapLoops("v0", segs, 0.01)
	assert.Empty(openErrs)
	assert.Len(loops, 1)
	assert.Len(loops[0].points, 4)
}

func TestBuildCapLoops_ReportsOpenLoop(t *testing.T) {
	assert := assert.New(t)

	segs := []CutSegment{
		{P: Vec3{5, 0, 0}, Q: Vec3{5, 0, 10}},
		{P: Vec3{5, 0, 10}, Q: Vec3{5, 10, 10}},
		// Missing the closing segments: this chain dead-ends.
	}
	loops, openErrs := buildCapLoops("v0", segs, 0.01)
	assert.Empty(loops)
	assert.Len(openErrs, 1)
	assert.Equal("v0", openErrs[0].CutID)
}

func TestEarClip_TriangulatesSquare(t *testing.T) {
	assert := assert.New(t)

	square := []Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	tris := earClip(square, 1e-6)
	assert.Len(tris, 2)
}

func TestSnapKey_MergesNearbyCoordinates(t *testing.T) {
	assert := assert.New(t)

	a := snapKey(Vec3{5.001, 0, 0}, 0.01)
	b := snapKey(Vec3{5.004, 0, 0}, 0.01)
	assert.Equal(a, b)
}
