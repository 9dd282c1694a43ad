package hueslicer

import "fmt"

// TileWriterFactory opens the backing MeshWriter for a tile the first time
// the clipper needs to emit a triangle into it.
type TileWriterFactory func(id TileID) (MeshWriter, error)

// StreamingClipper implements spec section 4.3: it routes each incoming
// triangle through an ordered array of vertical cuts and then an ordered
// array of horizontal cuts, splitting at a per-cut, per-triangle local line
// (cutpath.go's fitLocalLine) wherever the triangle straddles it, and
// streams the result directly to per-tile output containers without ever
// materializing a full in-memory mesh. This generalizes carver.go's
// single-direction RemoveSeam/AddSeam reconstruction loop into a
// two-family, N-way routing tree.
type StreamingClipper struct {
	vcuts, hcuts []Cut
	cfg          CoreConfig
	factory      TileWriterFactory
	header       string

	streams  map[TileID]*TileStream
	segments map[string][]CutSegment
	logger   Logger

	index int // running source-triangle index, for diagnostics
}

// NewStreamingClipper builds a clipper for the given vertical/horizontal cut
// families. Both slices must already be ordered along their sweep direction
// (increasing X for vcuts, decreasing Y / increasing row for hcuts), per
// spec section 4.3's "the cut arrays are pre-sorted" requirement.
func NewStreamingClipper(vcuts, hcuts []Cut, cfg CoreConfig, header string, factory TileWriterFactory) *StreamingClipper {
	return &StreamingClipper{
		vcuts:    vcuts,
		hcuts:    hcuts,
		cfg:      cfg,
		factory:  factory,
		header:   header,
		streams:  make(map[TileID]*TileStream),
		segments: make(map[string][]CutSegment),
		logger:   loggerOrDefault(cfg.Logger),
	}
}

// Segments returns the cut segments recorded so far, keyed by Cut.ID, for
// consumption by the cap reconstructor.
func (c *StreamingClipper) Segments() map[string][]CutSegment { return c.segments }

// ClipTriangle routes one (already tessellated) triangle into the tile(s)
// it belongs to, splitting against cuts as needed. Degenerate triangles are
// dropped with a DroppedDegenerate diagnostic per spec section 7.
func (c *StreamingClipper) ClipTriangle(t Triangle) error {
	idx := c.index
	c.index++
	if t.isDegenerate() {
		c.logger.Emit(Diagnostic{Kind: KindDroppedDegenerate, Detail: (&DroppedDegenerateError{Index: idx, Reason: "NaN coordinate or zero projected area"}).Error()})
		return nil
	}
	return c.routeVertical(t, 0)
}

// routeVertical runs the main routing entry point: a terminal fragment
// proceeds into horizontal routing at row 0, per spec section 4.3.1 step 2.
func (c *StreamingClipper) routeVertical(t Triangle, i int) error {
	return c.routeVerticalInto(t, i, -1)
}

// routeVerticalInto is routeVertical generalized with a pinned output row:
// pinnedRow < 0 means "a terminal fragment continues into horizontal
// routing" (the normal triangle-routing path); pinnedRow >= 0 means "a
// terminal fragment is emitted directly to that row", used by
// EmitCapAbove/EmitCapBelow to run a horizontal cap's cap triangle through
// the vertical cut family per spec section 4.3.4 step 5, while keeping the
// row its horizontal cut already fixed.
func (c *StreamingClipper) routeVerticalInto(t Triangle, i, pinnedRow int) error {
	terminal := func(frag Triangle, col int) error {
		if pinnedRow >= 0 {
			return c.emit(TileID{Row: pinnedRow, Col: col}, frag)
		}
		return c.routeHorizontal(frag, col, 0)
	}

	for i < len(c.vcuts) {
		cut := c.vcuts[i]
		lo, hi := triBBoxOffset(t, true)
		if lo >= cut.MaxOffset {
			// Entirely right of this cut's extent: continue to the next one.
			i++
			continue
		}
		if hi <= cut.MinOffset {
			// Entirely left of this cut's extent: terminal for this family.
			return terminal(t, i)
		}

		line := fitLocalLine(cut, t)
		sides := [3]Side{
			classifyVertex(t.V[0], cut, line, c.cfg.EpsilonSide),
			classifyVertex(t.V[1], cut, line, c.cfg.EpsilonSide),
			classifyVertex(t.V[2], cut, line, c.cfg.EpsilonSide),
		}
		if allNotRight(sides) {
			return terminal(t, i)
		}
		if allNotLeft(sides) {
			i++
			continue
		}

		left, right, seg, ok := splitTriangleAgainstCut(t, cut, line, c.cfg.EpsilonSide)
		if !ok {
			return terminal(t, i)
		}
		seg.Col = -1
		c.segments[cut.ID] = append(c.segments[cut.ID], seg)
		for _, lf := range left {
			if err := terminal(lf, i); err != nil {
				return err
			}
		}
		for _, rf := range right {
			if err := c.routeVerticalInto(rf, i+1, pinnedRow); err != nil {
				return err
			}
		}
		return nil
	}
	return terminal(t, i)
}

func (c *StreamingClipper) routeHorizontal(t Triangle, col, j int) error {
	for j < len(c.hcuts) {
		cut := c.hcuts[j]
		lo, hi := triBBoxOffset(t, false)
		// For a horizontal cut the terminal ("above") side is larger Y; the
		// continuation side is smaller Y.
		if hi <= cut.MinOffset {
			j++
			continue
		}
		if lo >= cut.MaxOffset {
			return c.emit(TileID{Row: j, Col: col}, t)
		}

		line := fitLocalLine(cut, t)
		sides := [3]Side{
			classifyVertex(t.V[0], cut, line, c.cfg.EpsilonSide),
			classifyVertex(t.V[1], cut, line, c.cfg.EpsilonSide),
			classifyVertex(t.V[2], cut, line, c.cfg.EpsilonSide),
		}
		if allNotRight(sides) {
			return c.emit(TileID{Row: j, Col: col}, t)
		}
		if allNotLeft(sides) {
			j++
			continue
		}

		above, below, seg, ok := splitTriangleAgainstCut(t, cut, line, c.cfg.EpsilonSide)
		if !ok {
			return c.emit(TileID{Row: j, Col: col}, t)
		}
		seg.Col = col
		c.segments[cut.ID] = append(c.segments[cut.ID], seg)
		for _, af := range above {
			if err := c.emit(TileID{Row: j, Col: col}, af); err != nil {
				return err
			}
		}
		for _, bf := range below {
			if err := c.routeHorizontal(bf, col, j+1); err != nil {
				return err
			}
		}
		return nil
	}
	return c.emit(TileID{Row: j, Col: col}, t)
}

func allNotRight(sides [3]Side) bool {
	for _, s := range sides {
		if s == SideRight {
			return false
		}
	}
	return true
}

func allNotLeft(sides [3]Side) bool {
	for _, s := range sides {
		if s == SideLeft {
			return false
		}
	}
	return true
}

func (c *StreamingClipper) emit(id TileID, t Triangle) error {
	ts, ok := c.streams[id]
	if !ok {
		w, err := c.factory(id)
		if err != nil {
			return fmt.Errorf("%w: opening tile %v: %v", ErrIO, id, err)
		}
		ts, err = OpenTileStream(id, w, c.header)
		if err != nil {
			return err
		}
		c.streams[id] = ts
	}
	return ts.Write(t)
}

// EmitCapLeft routes a cap triangle generated on the left face of the
// vertical cut at vcuts[cutIndex]: its column is already known (cutIndex),
// so only horizontal routing remains.
func (c *StreamingClipper) EmitCapLeft(cutIndex int, t Triangle) error {
	return c.routeHorizontal(t, cutIndex, 0)
}

// EmitCapRight routes a cap triangle generated on the right face of the
// vertical cut at vcuts[cutIndex]: it resumes vertical routing from the
// next cut onward, since further vertical cuts may still apply.
func (c *StreamingClipper) EmitCapRight(cutIndex int, t Triangle) error {
	return c.routeVertical(t, cutIndex+1)
}

// EmitCapAbove routes a cap triangle generated on the "above" face of the
// horizontal cut at hcuts[cutIndex]: its row is already fixed, but per spec
// section 4.3.4 step 5 it still must run through the orthogonal (vertical)
// cut family, since a horizontal cap can itself straddle a vertical cut at
// a cut intersection. The col argument is not used: routing starts at the
// first vertical cut, and the column(s) a fragment lands in are decided by
// routeVerticalInto's own geometric tests.
func (c *StreamingClipper) EmitCapAbove(cutIndex, col int, t Triangle) error {
	return c.routeVerticalInto(t, 0, cutIndex)
}

// EmitCapBelow routes a cap triangle generated on the "below" face of the
// horizontal cut at hcuts[cutIndex]: like EmitCapAbove, its row is fixed one
// past cutIndex, and it is still run through the vertical cut family.
func (c *StreamingClipper) EmitCapBelow(cutIndex, col int, t Triangle) error {
	return c.routeVerticalInto(t, 0, cutIndex+1)
}

// Close flushes and closes every tile stream opened during clipping. It
// continues closing the remaining streams after a failure and returns the
// first error encountered.
func (c *StreamingClipper) Close() error {
	var firstErr error
	for _, ts := range c.streams {
		if err := ts.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
