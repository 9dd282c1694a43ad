package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTessellate_SplitsUntilBelowThreshold(t *testing.T) {
	assert := assert.New(t)

	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {20, 0, 0}, {0, 20, 0}}}
	out := Tessellate(tri, 5.0, 4)

	assert.Greater(len(out), 1)
	for _, sub := range out {
		assert.LessOrEqual(sub.longestEdge(), float32(5)) // every piece ends at or below the 5 mm threshold
	}
}

func TestTessellate_StopsAtMaxDepth(t *testing.T) {
	assert := assert.New(t)

	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {1000, 0, 0}, {0, 1000, 0}}}
	out := Tessellate(tri, 0.001, 2)
	assert.Equal(16, len(out)) // 4^2 sub-triangles at depth 2
}

func TestTessellate_LeavesSmallTriangleAlone(t *testing.T) {
	assert := assert.New(t)

	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	out := Tessellate(tri, 5.0, 3)
	assert.Equal([]Triangle{tri}, out)
}
