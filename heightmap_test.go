package hueslicer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTestMesh(t *testing.T, tris []Triangle) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	assert.NoError(t, WriteHeaderAndCount(&buf, "test", uint32(len(tris))))
	for _, tri := range tris {
		assert.NoError(t, WriteTriangleRecord(&buf, tri))
	}
	return bytes.NewReader(buf.Bytes())
}

func TestBuildHeightmap_RejectsNonPositiveResolution(t *testing.T) {
	assert := assert.New(t)

	r := writeTestMesh(t, nil)
	_, _, err := BuildHeightmap(r, 0)
	assert.ErrorIs(err, ErrInvalidArgument)
}

func TestBuildHeightmap_RasterizesMaxZPerCell(t *testing.T) {
	assert := assert.New(t)

	tris := []Triangle{
		{V: [3]Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}}},
		{V: [3]Vec3{{0, 0, 5}, {0.2, 0, 5}, {0, 0.2, 5}}},
	}
	r := writeTestMesh(t, tris)

	grid, bounds, err := BuildHeightmap(r, 1.0)
	assert.NoError(err)
	assert.Equal(float32(1), bounds.XMax)
	assert.Equal(float32(5), bounds.ZMax)
	assert.Equal(float32(5), grid.At(0, grid.H-1))
}

func TestFillZeros_UsesPreFillSnapshot(t *testing.T) {
	assert := assert.New(t)

	// A 3x1 row where only the endpoints have data: the zero cell becomes
	// the mean of its two positive neighbors.
	g := NewGrid(3, 1)
	g.Set(0, 0, 10)
	g.Set(2, 0, 20)

	fillZeros(g)
	assert.Equal(float32(15), g.At(1, 0))

	// A 4x1 row with two adjacent zero cells: each averages only its
	// original (pre-fill) positive neighbor, not a neighbor that was itself
	// just filled in the same pass (which would give 15 for cell 2).
	g2 := NewGrid(4, 1)
	g2.Set(0, 0, 10)
	g2.Set(3, 0, 20)

	fillZeros(g2)
	assert.Equal(float32(10), g2.At(1, 0))
	assert.Equal(float32(20), g2.At(2, 0))
}
