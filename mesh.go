package hueslicer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gviegas/scene/linear"
)

// Vec3 is a 3D point or vector in millimeter units.
type Vec3 = linear.V3

// headerSize is the length, in bytes, of the opaque binary-STL header.
const headerSize = 80

// triangleRecordSize is the length, in bytes, of one binary-STL triangle
// record: 12 floats (normal + 3 vertices) plus a 2-byte attribute.
const triangleRecordSize = 12*4 + 2

// Triangle is one facet of the input or output mesh: three vertices in
// counter-clockwise winding (as seen from the side the normal points to)
// plus the facet normal and the 16-bit attribute byte field carried
// through unchanged by the container format.
type Triangle struct {
	Normal    Vec3
	V         [3]Vec3
	Attribute uint16
}

// longestEdge returns the Euclidean length of T's longest edge.
func (t *Triangle) longestEdge() float32 {
	e0 := edgeLen(t.V[0], t.V[1])
	e1 := edgeLen(t.V[1], t.V[2])
	e2 := edgeLen(t.V[2], t.V[0])
	m := e0
	if e1 > m {
		m = e1
	}
	if e2 > m {
		m = e2
	}
	return m
}

func edgeLen(a, b Vec3) float32 {
	d := Vec3{}
	bb := b
	aa := a
	d.Sub(&bb, &aa)
	return d.Len()
}

// isDegenerate reports whether t has a NaN coordinate or zero projected
// (XY) area, matching the DroppedDegenerate condition of spec section 7.
func (t *Triangle) isDegenerate() bool {
	for _, v := range t.V {
		for _, c := range v {
			if math.IsNaN(float64(c)) {
				return true
			}
		}
	}
	ax := float64(t.V[1][0] - t.V[0][0])
	ay := float64(t.V[1][1] - t.V[0][1])
	bx := float64(t.V[2][0] - t.V[0][0])
	by := float64(t.V[2][1] - t.V[0][1])
	area := ax*by - ay*bx
	return math.Abs(area) < 1e-12
}

// recomputeNormal sets t.Normal from t.V via the cross product, matching
// "the normal is recomputed from the new vertex ordering" in spec 4.3.1.
func (t *Triangle) recomputeNormal() {
	e1, e2 := Vec3{}, Vec3{}
	v0, v1, v2 := t.V[0], t.V[1], t.V[2]
	e1.Sub(&v1, &v0)
	e2.Sub(&v2, &v0)
	n := Vec3{}
	n.Cross(&e1, &e2)
	if l := n.Len(); l > 0 {
		n.Scale(1/l, &n)
	}
	t.Normal = n
}

// MeshReader is the byte stream a binary-STL container is read from.
type MeshReader = io.Reader

// MeshWriter is the byte stream a binary-STL container is written to. It
// must support Seek so the triangle count can be rewritten on close, per
// spec section 3 ("the header-count field... is rewritten once the stream
// is closed").
type MeshWriter interface {
	io.WriteSeeker
}

// ReadHeaderAndCount reads the 80-byte header and 32-bit triangle count
// from the start of a binary-STL stream.
func ReadHeaderAndCount(r io.Reader) (header [headerSize]byte, count uint32, err error) {
	if _, err = io.ReadFull(r, header[:]); err != nil {
		return header, 0, fmt.Errorf("%w: truncated header: %v", ErrFormat, err)
	}
	var countBuf [4]byte
	if _, err = io.ReadFull(r, countBuf[:]); err != nil {
		return header, 0, fmt.Errorf("%w: truncated triangle count: %v", ErrFormat, err)
	}
	count = binary.LittleEndian.Uint32(countBuf[:])
	return header, count, nil
}

// ReadTriangleRecord reads one 50-byte binary-STL triangle record.
func ReadTriangleRecord(r io.Reader) (Triangle, error) {
	var buf [triangleRecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Triangle{}, fmt.Errorf("%w: truncated triangle record: %v", ErrFormat, err)
	}
	var t Triangle
	readF32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
	}
	for i := 0; i < 3; i++ {
		t.Normal[i] = readF32(i * 4)
	}
	for v := 0; v < 3; v++ {
		base := 12 + v*12
		for i := 0; i < 3; i++ {
			t.V[v][i] = readF32(base + i*4)
		}
	}
	t.Attribute = binary.LittleEndian.Uint16(buf[48:50])
	return t, nil
}

// WriteTriangleRecord writes one 50-byte binary-STL triangle record.
func WriteTriangleRecord(w io.Writer, t Triangle) error {
	var buf [triangleRecordSize]byte
	writeF32 := func(off int, f float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
	}
	for i := 0; i < 3; i++ {
		writeF32(i*4, t.Normal[i])
	}
	for v := 0; v < 3; v++ {
		base := 12 + v*12
		for i := 0; i < 3; i++ {
			writeF32(base+i*4, t.V[v][i])
		}
	}
	binary.LittleEndian.PutUint16(buf[48:50], t.Attribute)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// WriteHeaderAndCount writes an 80-byte header (zero-padded or truncated to
// fit) followed by a 32-bit triangle count.
func WriteHeaderAndCount(w io.Writer, header string, count uint32) error {
	var hdr [headerSize]byte
	copy(hdr[:], header)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], count)
	if _, err := w.Write(countBuf[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// TileID identifies a streaming tile by its row/column coordinate in the
// cut grid.
type TileID struct {
	Row, Col int
}

// TileStream is an open output container for one tile: an underlying
// MeshWriter plus a running triangle counter. No per-tile triangle list is
// ever materialized, per spec section 3.
type TileStream struct {
	ID      TileID
	w       MeshWriter
	count   uint32
	closed  bool
	dataEnd int64
}

// OpenTileStream writes a placeholder header+count to w and returns a
// TileStream ready to accept triangle records.
func OpenTileStream(id TileID, w MeshWriter, header string) (*TileStream, error) {
	if err := WriteHeaderAndCount(w, header, 0); err != nil {
		return nil, err
	}
	return &TileStream{ID: id, w: w}, nil
}

// Write emits one triangle to the tile and increments its counter.
func (ts *TileStream) Write(t Triangle) error {
	if ts.closed {
		return fmt.Errorf("%w: write to closed tile stream %v", ErrIO, ts.ID)
	}
	if err := WriteTriangleRecord(ts.w, t); err != nil {
		return err
	}
	ts.count++
	return nil
}

// Count returns the number of triangles written so far.
func (ts *TileStream) Count() uint32 { return ts.count }

// Close rewrites the header-count field with the final triangle count, per
// spec section 3's ownership/lifecycle rule.
func (ts *TileStream) Close() error {
	if ts.closed {
		return nil
	}
	ts.closed = true
	if _, err := ts.w.Seek(headerSize, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], ts.count)
	if _, err := ts.w.Write(countBuf[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Abort truncates and discards a tile stream that was interrupted
// mid-write, per spec section 5's cancellation rule: the underlying writer
// is truncated to zero length when it has a Truncate method (as *os.File
// does), and the stream is marked closed. Callers that opened the stream
// from an *os.File should additionally unlink the file.
func (ts *TileStream) Abort() {
	if tr, ok := ts.w.(interface{ Truncate(int64) error }); ok {
		_ = tr.Truncate(0)
	}
	ts.closed = true
}
