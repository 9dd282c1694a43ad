package hueslicer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriangleRecordRoundTrip(t *testing.T) {
	assert := assert.New(t)

	tri := Triangle{
		Normal:    Vec3{0, 0, 1},
		V:         [3]Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Attribute: 7,
	}

	var buf bytes.Buffer
	assert.NoError(WriteTriangleRecord(&buf, tri))

	got, err := ReadTriangleRecord(&buf)
	assert.NoError(err)
	assert.Equal(tri, got)
}

func TestReadHeaderAndCount_TruncatedHeaderIsFormatError(t *testing.T) {
	assert := assert.New(t)

	_, _, err := ReadHeaderAndCount(bytes.NewReader([]byte("short")))
	assert.ErrorIs(err, ErrFormat)
}

func TestTriangleIsDegenerate(t *testing.T) {
	assert := assert.New(t)

	flat := Triangle{V: [3]Vec3{{0, 0, 0}, {1, 0, 1}, {2, 0, 2}}}
	assert.True(flat.isDegenerate())

	normal := Triangle{V: [3]Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	assert.False(normal.isDegenerate())
}

func TestTileStream_RewritesCountOnClose(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	w := &seekWriter{Buffer: &buf}
	ts, err := OpenTileStream(TileID{Row: 0, Col: 1}, w, "hueslicer")
	assert.NoError(err)

	tri := Triangle{V: [3]Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	assert.NoError(ts.Write(tri))
	assert.NoError(ts.Write(tri))
	assert.NoError(ts.Close())

	r := bytes.NewReader(buf.Bytes())
	_, count, err := ReadHeaderAndCount(r)
	assert.NoError(err)
	assert.Equal(uint32(2), count)
}

// seekWriter adapts a bytes.Buffer into a MeshWriter for tests that need a
// Seek-capable in-memory sink.
type seekWriter struct {
	*bytes.Buffer
	pos int64
}

func (s *seekWriter) Write(p []byte) (int, error) {
	b := s.Buffer.Bytes()
	if int(s.pos) < len(b) {
		n := copy(b[s.pos:], p)
		s.pos += int64(n)
		if n < len(p) {
			s.Buffer.Write(p[n:])
			s.pos += int64(len(p) - n)
		}
		return len(p), nil
	}
	n, err := s.Buffer.Write(p)
	s.pos += int64(n)
	return n, err
}

func (s *seekWriter) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(s.Buffer.Len()) + offset
	}
	return s.pos, nil
}
