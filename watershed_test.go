package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradientMap_FlatRegionIsZero(t *testing.T) {
	assert := assert.New(t)

	g := NewGrid(4, 4)
	for i := range g.Data {
		g.Data[i] = 3
	}
	grad := GradientMap(g)
	for _, v := range grad.Data {
		assert.Equal(float32(0), v)
	}
}

func TestApplyBarrier_AddsPenaltyOnlyWhereMasked(t *testing.T) {
	assert := assert.New(t)

	grad := NewGrid(2, 1)
	mask := &Mask{W: 2, H: 1, Bits: []bool{true, false}}
	ApplyBarrier(grad, mask, 100)
	assert.Equal(float32(0), grad.At(0, 0))
	assert.Equal(float32(100), grad.At(1, 0))
}

func TestWatershed_EverySeedOwnsItsOwnLabel(t *testing.T) {
	assert := assert.New(t)

	grad := NewGrid(6, 6)
	seeds := SeedGrid(6, 6, 600, 600, 300, 300) // expect a 2x2 seed grid
	assert.Len(seeds, 4)

	labels := Watershed(grad, seeds)
	seen := make(map[int32]bool)
	for _, v := range labels.Data {
		assert.NotEqual(int32(0), v)
		seen[v] = true
	}
	assert.Len(seen, 4)
}
