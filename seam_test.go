package hueslicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindVerticalSeam_TracksLowEnergyColumn(t *testing.T) {
	assert := assert.New(t)

	g := NewGrid(5, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			g.Set(x, y, float32(x)) // a gentle ramp: rightward gradient 1 everywhere
		}
	}
	// Raise columns 2 and 3 so column 1 sees the steepest rightward step
	// (1 -> 10), i.e. the lowest energy (100/10), while column 2 is flat
	// (energy 100, expensive to cross).
	for y := 0; y < 4; y++ {
		g.Set(2, y, 10)
		g.Set(3, y, 10)
	}

	res := FindVerticalSeam(g, nil, 0, 4)
	assert.False(res.Fallback)
	assert.Len(res.Path, 4)
	for y, p := range res.Path {
		assert.Equal(y, p.Y)
		assert.GreaterOrEqual(p.X, 0)
		assert.LessOrEqual(p.X, 4)
		assert.Equal(1, p.X)
	}
}

func TestFindVerticalSeam_MaskForcesFallback(t *testing.T) {
	assert := assert.New(t)

	g := NewGrid(3, 3)
	mask := &Mask{W: 3, H: 3, Bits: make([]bool, 9)} // every cell forbidden

	res := FindVerticalSeam(g, mask, 0, 2)
	assert.True(res.Fallback)
	assert.Len(res.Path, 3)
	for _, p := range res.Path {
		assert.Equal(1, p.X) // mid column of [0,2]
	}
}

func TestFindHorizontalSeam_MatchesTransposedVertical(t *testing.T) {
	assert := assert.New(t)

	g := NewGrid(4, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 4; x++ {
			g.Set(x, y, float32((x+y)%3))
		}
	}

	res := FindHorizontalSeam(g, nil, 0, 4)
	assert.Len(res.Path, 4)
	for x, p := range res.Path {
		assert.Equal(x, p.X)
	}
}

func TestToCutPath_ScalesAndFlipsY(t *testing.T) {
	assert := assert.New(t)

	seam := SeamPolyline{{X: 0, Y: 0}, {X: 1, Y: 1}}
	out := ToCutPath(seam, 2.0, 10.0)
	assert.Equal(Vec2{X: 0, Y: 10}, out[0])
	assert.Equal(Vec2{X: 2, Y: 8}, out[1])
}
