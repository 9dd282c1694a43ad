package hueslicer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamingClipper_RoutesTriangleEntirelyInOneTile(t *testing.T) {
	assert := assert.New(t)

	vcuts := []Cut{NewCut("v0", true, []Vec2{{X: 5, Y: 0}, {X: 5, Y: 10}})}
	writers := make(map[TileID]*seekWriter)
	factory := func(id TileID) (MeshWriter, error) {
		w := &seekWriter{Buffer: &bytes.Buffer{}}
		writers[id] = w
		return w, nil
	}
	cfg := DefaultConfig()
	c := NewStreamingClipper(vcuts, nil, cfg, "hueslicer", factory)

	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	assert.NoError(c.ClipTriangle(tri))
	assert.NoError(c.Close())

	assert.Contains(writers, TileID{Row: 0, Col: 0})
	assert.NotContains(writers, TileID{Row: 0, Col: 1})
}

func TestStreamingClipper_SplitsTriangleStraddlingCut(t *testing.T) {
	assert := assert.New(t)

	vcuts := []Cut{NewCut("v0", true, []Vec2{{X: 5, Y: 0}, {X: 5, Y: 10}})}
	writers := make(map[TileID]*seekWriter)
	factory := func(id TileID) (MeshWriter, error) {
		w := &seekWriter{Buffer: &bytes.Buffer{}}
		writers[id] = w
		return w, nil
	}
	cfg := DefaultConfig()
	c := NewStreamingClipper(vcuts, nil, cfg, "hueslicer", factory)

	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {10, 0, 0}, {5, 10, 1}}}
	assert.NoError(c.ClipTriangle(tri))
	assert.NoError(c.Close())

	assert.Contains(writers, TileID{Row: 0, Col: 0})
	assert.Contains(writers, TileID{Row: 0, Col: 1})
	assert.NotEmpty(c.Segments()["v0"])
}

func TestStreamingClipper_DropsDegenerateTriangle(t *testing.T) {
	assert := assert.New(t)

	var logged []Diagnostic
	cfg := DefaultConfig()
	cfg.Logger = recordingLogger(&logged)
	c := NewStreamingClipper(nil, nil, cfg, "hueslicer", func(id TileID) (MeshWriter, error) {
		return &seekWriter{Buffer: &bytes.Buffer{}}, nil
	})

	flat := Triangle{V: [3]Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}}
	assert.NoError(c.ClipTriangle(flat))
	assert.Len(logged, 1)
	assert.Equal(KindDroppedDegenerate, logged[0].Kind)
}

type recordFn func(Diagnostic)

func (f recordFn) Emit(d Diagnostic) { f(d) }

func recordingLogger(out *[]Diagnostic) Logger {
	return recordFn(func(d Diagnostic) { *out = append(*out, d) })
}
