package hueslicer

import (
	"fmt"
	"io"
)

// Grid is a dense W x H array of 32-bit floats, row-major, row 0
// corresponding to the maximum world Y (image-top convention), per spec
// section 3. It mirrors the flat-index storage of the teacher's
// Carver.Points ([]float64 indexed x + y*Width in carver.go), generalized
// to float32 and to an explicit width/height pair instead of an embedded
// image.
type Grid struct {
	W, H int
	Data []float32
}

// NewGrid allocates a zeroed W x H grid.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Data: make([]float32, w*h)}
}

// At returns the value at (x, y).
func (g *Grid) At(x, y int) float32 { return g.Data[y*g.W+x] }

// Set writes the value at (x, y).
func (g *Grid) Set(x, y int, v float32) { g.Data[y*g.W+x] = v }

// Bounds is the world-space bounding box computed by HeightmapBuilder's
// first pass.
type Bounds struct {
	XMin, XMax, YMin, YMax, ZMax float32
}

// BuildHeightmap runs the two-pass HeightmapBuilder of spec section 4.1
// over a binary-STL byte stream: r must support re-reading from the
// start, since pass 1 (bounds) and pass 2 (rasterize) both scan every
// triangle record.
//
// The header and count are read from r's current position; r is then
// rewound to the first triangle record (immediately after the header and
// count) before pass 2.
func BuildHeightmap(r io.ReadSeeker, resolution float32) (*Grid, Bounds, error) {
	if resolution <= 0 {
		return nil, Bounds{}, fmt.Errorf("%w: resolution must be > 0, got %v", ErrInvalidArgument, resolution)
	}

	_, count, err := ReadHeaderAndCount(r)
	if err != nil {
		return nil, Bounds{}, err
	}
	firstRecordOffset, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, Bounds{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	// Pass 1: running bounds over every vertex.
	b := Bounds{
		XMin: float32Inf(1), XMax: float32Inf(-1),
		YMin: float32Inf(1), YMax: float32Inf(-1),
		ZMax: float32Inf(-1),
	}
	for i := uint32(0); i < count; i++ {
		t, err := ReadTriangleRecord(r)
		if err != nil {
			return nil, Bounds{}, err
		}
		for _, v := range t.V {
			if v[0] < b.XMin {
				b.XMin = v[0]
			}
			if v[0] > b.XMax {
				b.XMax = v[0]
			}
			if v[1] < b.YMin {
				b.YMin = v[1]
			}
			if v[1] > b.YMax {
				b.YMax = v[1]
			}
			if v[2] > b.ZMax {
				b.ZMax = v[2]
			}
		}
	}

	w := int(ceilDiv(b.XMax-b.XMin, resolution))
	h := int(ceilDiv(b.YMax-b.YMin, resolution))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	grid := NewGrid(w, h)

	// Pass 2: rasterize every vertex's footprint into the grid.
	if _, err := r.Seek(firstRecordOffset, io.SeekStart); err != nil {
		return nil, Bounds{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	for i := uint32(0); i < count; i++ {
		t, err := ReadTriangleRecord(r)
		if err != nil {
			return nil, Bounds{}, err
		}
		for _, v := range t.V {
			gx := int((v[0] - b.XMin) / resolution)
			gy := int((b.YMax - v[1]) / resolution)
			if gx < 0 {
				gx = 0
			}
			if gx >= w {
				gx = w - 1
			}
			if gy < 0 {
				gy = 0
			}
			if gy >= h {
				gy = h - 1
			}
			if v[2] > grid.At(gx, gy) {
				grid.Set(gx, gy, v[2])
			}
		}
	}

	fillZeros(grid)
	return grid, b, nil
}

// fillZeros runs the single 4-neighbor fill pass of spec section 3: each
// zero cell is replaced by the mean of its positive 4-neighbors, reading
// from a snapshot of the pre-fill grid (DESIGN.md Open Question 1), so
// residual zeros are left untouched when no positive neighbor exists.
func fillZeros(g *Grid) {
	snapshot := make([]float32, len(g.Data))
	copy(snapshot, g.Data)

	at := func(x, y int) (float32, bool) {
		if x < 0 || x >= g.W || y < 0 || y >= g.H {
			return 0, false
		}
		v := snapshot[y*g.W+x]
		return v, v > 0
	}

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if snapshot[y*g.W+x] != 0 {
				continue
			}
			var sum float32
			var n int
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				if v, ok := at(x+d[0], y+d[1]); ok {
					sum += v
					n++
				}
			}
			if n > 0 {
				g.Set(x, y, sum/float32(n))
			}
		}
	}
}

func ceilDiv(a, b float32) float32 {
	if a <= 0 {
		return 1
	}
	q := a / b
	if q == float32(int(q)) {
		return q
	}
	return float32(int(q)) + 1
}

func float32Inf(sign float32) float32 {
	if sign >= 0 {
		return 1e30
	}
	return -1e30
}
