package hueslicer

import "fmt"

// snapKey quantizes v to a grid of step quantum and returns a stable string
// key, merging near-coincident crossing points produced by adjacent
// triangles into a single cap-loop vertex, per spec section 4.3.4.
func snapKey(v Vec3, quantum float32) string {
	q := func(f float32) int64 {
		if quantum <= 0 {
			return int64(f)
		}
		return int64(f/quantum + 0.5)
	}
	return fmt.Sprintf("%d,%d,%d", q(v[0]), q(v[1]), q(v[2]))
}

func snapPoint(v Vec3, quantum float32) Vec3 {
	if quantum <= 0 {
		return v
	}
	snap := func(f float32) float32 {
		n := float32(int64(f/quantum + 0.5))
		return n * quantum
	}
	return Vec3{snap(v[0]), snap(v[1]), snap(v[2])}
}

// capEdge is one snapped-endpoint edge of the loop-reconstruction
// multigraph built from a cut's recorded segments.
type capEdge struct {
	a, b string
	col  int
}

// capLoop is one closed chain of cap-boundary points, in order, together
// with the column context it belongs to (meaningful for horizontal cuts
// only; -1 for vertical ones).
type capLoop struct {
	points []Vec3
	col    int
}

// buildCapLoops reconstructs closed loops from a cut's recorded crossing
// segments, per spec section 4.3.4 step 1: snap endpoints to the
// configured quantum, then walk the resulting degree-2 multigraph. A chain
// that cannot be closed is reported as an OpenLoopError rather than
// silently dropped or crashed on.
func buildCapLoops(cutID string, segs []CutSegment, quantum float32) ([]capLoop, []*OpenLoopError) {
	var edges []capEdge
	coords := make(map[string]Vec3)
	incident := make(map[string][]int)

	for _, s := range segs {
		pk, qk := snapKey(s.P, quantum), snapKey(s.Q, quantum)
		if pk == qk {
			continue // zero-length after snapping
		}
		coords[pk] = snapPoint(s.P, quantum)
		coords[qk] = snapPoint(s.Q, quantum)
		idx := len(edges)
		edges = append(edges, capEdge{a: pk, b: qk, col: s.Col})
		incident[pk] = append(incident[pk], idx)
		incident[qk] = append(incident[qk], idx)
	}

	used := make([]bool, len(edges))
	var loops []capLoop
	var openErrs []*OpenLoopError

	for start := range edges {
		if used[start] {
			continue
		}
		startKey := edges[start].a
		col := edges[start].col
		var keys []string
		keys = append(keys, startKey)
		cur := startKey
		eidx := start
		closed := false
		for {
			used[eidx] = true
			e := edges[eidx]
			next := e.a
			if next == cur {
				next = e.b
			}
			keys = append(keys, next)
			cur = next
			if cur == startKey {
				closed = true
				break
			}
			found := -1
			for _, id := range incident[cur] {
				if !used[id] {
					found = id
					break
				}
			}
			if found < 0 {
				break
			}
			eidx = found
		}
		if !closed {
			openErrs = append(openErrs, &OpenLoopError{CutID: cutID, SegmentCount: len(keys) - 1})
			continue
		}
		pts := make([]Vec3, 0, len(keys)-1)
		for _, k := range keys[:len(keys)-1] {
			pts = append(pts, coords[k])
		}
		if len(pts) >= 3 {
			loops = append(loops, capLoop{points: pts, col: col})
		}
	}
	return loops, openErrs
}

// project2D flattens a cap loop's 3D points into the 2D plane ear-clipping
// operates in: (Y, Z) for a vertical cut's loop, (X, Z) for a horizontal
// one, since the cap surface is ruled along the cut's own slicing lines and
// nearly planar in the orthogonal coordinate.
func project2D(v Vec3, vertical bool) Vec2 {
	if vertical {
		return Vec2{X: v[1], Y: v[2]}
	}
	return Vec2{X: v[0], Y: v[2]}
}

// polygonArea2 returns twice the signed area of a polygon given in order.
func polygonArea2(poly []Vec2) float32 {
	var a float32
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return a
}

func pointInTriangle(a, b, c, p Vec2, eps float32) bool {
	s1 := ClassifySide(a, b, p, eps)
	s2 := ClassifySide(b, c, p, eps)
	s3 := ClassifySide(c, a, p, eps)
	hasLeft := s1 == SideLeft || s2 == SideLeft || s3 == SideLeft
	hasRight := s1 == SideRight || s2 == SideRight || s3 == SideRight
	return !(hasLeft && hasRight)
}

// earClip triangulates a simple polygon (given CCW) via repeated ear
// removal and returns index triples into poly, grounded on the same
// signed-area classification used for triangle-against-line splitting.
func earClip(poly []Vec2, eps float32) [][3]int {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if polygonArea2(poly) < 0 {
		for l, r := 0, len(idx)-1; l < r; l, r = l+1, r-1 {
			idx[l], idx[r] = idx[r], idx[l]
		}
	}

	var tris [][3]int
	guard := 0
	for len(idx) > 3 && guard < n*n+8 {
		guard++
		earFound := false
		for i := 0; i < len(idx); i++ {
			ip := (i - 1 + len(idx)) % len(idx)
			in := (i + 1) % len(idx)
			a, b, c := poly[idx[ip]], poly[idx[i]], poly[idx[in]]
			if ClassifySide(a, b, c, eps) != SideLeft {
				continue // reflex vertex, not an ear
			}
			isEar := true
			for k := range idx {
				if k == ip || k == i || k == in {
					continue
				}
				if pointInTriangle(a, b, c, poly[idx[k]], eps) {
					isEar = false
					break
				}
			}
			if !isEar {
				continue
			}
			tris = append(tris, [3]int{idx[ip], idx[i], idx[in]})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			break // degenerate polygon; stop rather than spin
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

// triangulateCapLoop ear-clips a 3D cap loop and returns the resulting
// triangles, each counter-clockwise in the projected 2D plane whatever the
// loop's own winding.
func triangulateCapLoop(loop capLoop, vertical bool, eps float32, attr uint16) []Triangle {
	poly2 := make([]Vec2, len(loop.points))
	for i, p := range loop.points {
		poly2[i] = project2D(p, vertical)
	}
	idxTris := earClip(poly2, eps)
	out := make([]Triangle, 0, len(idxTris))
	for _, it := range idxTris {
		t := Triangle{V: [3]Vec3{loop.points[it[0]], loop.points[it[1]], loop.points[it[2]]}, Attribute: attr}
		t.recomputeNormal()
		out = append(out, t)
	}
	return out
}

// reversedWinding returns t with its vertex order reversed and its normal
// recomputed, used to emit the mirrored face of a cap on the opposite tile.
func reversedWinding(t Triangle) Triangle {
	r := Triangle{V: [3]Vec3{t.V[0], t.V[2], t.V[1]}, Attribute: t.Attribute}
	r.recomputeNormal()
	return r
}

// ReconstructCaps implements spec section 4.3.4: for every vertical and
// horizontal cut, rebuild its closed loop(s) from the clipper's recorded
// segments, ear-clip each loop, and emit the resulting triangles to both
// neighboring tiles with the mirrored face reversed in winding. Recovered
// OpenLoop conditions are reported to logger rather than aborting the run.
func ReconstructCaps(c *StreamingClipper, vcuts, hcuts []Cut, cfg CoreConfig, logger Logger) error {
	logger = loggerOrDefault(logger)
	segs := c.Segments()

	for i, cut := range vcuts {
		loops, openErrs := buildCapLoops(cut.ID, segs[cut.ID], cfg.SnapQuantumMm)
		for _, oe := range openErrs {
			logger.Emit(Diagnostic{Kind: KindOpenLoop, CutID: cut.ID, Detail: oe.Error()})
		}
		for _, loop := range loops {
			faceLeft := triangulateCapLoop(loop, true, cfg.EpsilonSide, 0)
			for _, t := range faceLeft {
				if err := c.EmitCapLeft(i, t); err != nil {
					return err
				}
				if err := c.EmitCapRight(i, reversedWinding(t)); err != nil {
					return err
				}
			}
		}
	}

	for j, cut := range hcuts {
		loops, openErrs := buildCapLoops(cut.ID, segs[cut.ID], cfg.SnapQuantumMm)
		for _, oe := range openErrs {
			logger.Emit(Diagnostic{Kind: KindOpenLoop, CutID: cut.ID, Detail: oe.Error()})
		}
		for _, loop := range loops {
			faceAbove := triangulateCapLoop(loop, false, cfg.EpsilonSide, 0)
			for _, t := range faceAbove {
				if err := c.EmitCapAbove(j, loop.col, t); err != nil {
					return err
				}
				if err := c.EmitCapBelow(j, loop.col, reversedWinding(t)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
