package hueslicer

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"
)

// Polygon is one closed, counter-clockwise loop in grid-corner coordinates.
type Polygon struct {
	Label  int32
	Points []GridPoint
}

// cornerEdge is one atomic inter-pixel edge (spec 4.5 step 1): a and b are
// adjacent pixel corners, tagged with the label on each side as seen when
// walking from a to b.
type cornerEdge struct {
	a, b                 GridPoint
	leftLabel, rightLabel int32
}

func cornerID(p GridPoint) string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// pairKey is a canonical, order-independent key for the edge between two
// corners, used to look up a cornerEdge's label metadata from a pair of
// endpoints reached via graph traversal, without needing the graph's own
// edge IDs.
func pairKey(a, b GridPoint) string {
	ia, ib := cornerID(a), cornerID(b)
	if ia > ib {
		ia, ib = ib, ia
	}
	return ia + "|" + ib
}

// buildDualGraph constructs the pixel-corner dual grid of spec section 4.5
// step 1: one undirected graph vertex per pixel corner that ends a boundary
// edge, one edge per boundary between two differently-labeled 4-adjacent
// cells. The graph
// itself is a github.com/katalvlaran/lvlath/core.Graph -- a general-purpose
// graph container from the pack -- driving both node detection (Degree) and
// macro-edge chain walking (NeighborIDs); idToPoint lets a traversal step
// recover the GridPoint for a neighbor ID, and the returned edges map
// (keyed by pairKey, not the graph's internal edge ID) carries the label
// metadata a pure adjacency query doesn't.
func buildDualGraph(l *LabelGrid) (*core.Graph, map[string]GridPoint, map[string]*cornerEdge) {
	g := core.NewGraph(core.WithDirected(false))
	edges := make(map[string]*cornerEdge)
	idToPoint := make(map[string]GridPoint)

	ensureVertex := func(p GridPoint) {
		id := cornerID(p)
		if _, ok := idToPoint[id]; !ok {
			_ = g.AddVertex(id)
			idToPoint[id] = p
		}
	}
	addEdge := func(a, b GridPoint, left, right int32) {
		ensureVertex(a)
		ensureVertex(b)
		if _, err := g.AddEdge(cornerID(a), cornerID(b), 0); err != nil {
			return
		}
		edges[pairKey(a, b)] = &cornerEdge{a: a, b: b, leftLabel: left, rightLabel: right}
	}

	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			if x+1 < l.W {
				left, right := l.At(x, y), l.At(x+1, y)
				if left != right {
					// Vertical boundary between (x,y) and (x+1,y): the shared
					// edge runs along corners (x+1,y)-(x+1,y+1).
					a := GridPoint{X: x + 1, Y: y}
					b := GridPoint{X: x + 1, Y: y + 1}
					addEdge(a, b, left, right)
				}
			}
			if y+1 < l.H {
				top, bottom := l.At(x, y), l.At(x, y+1)
				if top != bottom {
					// Horizontal boundary between (x,y) and (x,y+1): the shared
					// edge runs along corners (x,y+1)-(x+1,y+1).
					a := GridPoint{X: x, Y: y + 1}
					b := GridPoint{X: x + 1, Y: y + 1}
					addEdge(a, b, top, bottom)
				}
			}
		}
	}
	return g, idToPoint, edges
}

// isImageCorner reports whether p lies on the outer boundary of a W x H
// (in corners, (W+1) x (H+1)) grid. Image corners are forced to be nodes
// per spec section 4.5 step 2, regardless of their computed degree.
func isImageCorner(p GridPoint, w, h int) bool {
	return p.X == 0 || p.X == w || p.Y == 0 || p.Y == h
}

func cornerDegree(g *core.Graph, p GridPoint) int {
	_, _, deg, err := g.Degree(cornerID(p))
	if err != nil {
		return 0
	}
	return deg
}

// macroEdge is a maximal chain of degree-2 corners between two nodes
// (spec 4.5 step 3), with a single consistent (left, right) label pair
// for the whole chain.
type macroEdge struct {
	points      []GridPoint
	left, right int32
}

// TraceBoundaries implements the BoundaryTracer of spec section 4.5: it
// extracts atomic edges, finds topological nodes, walks degree-2 chains
// into macro edges, simplifies each with Ramer-Douglas-Peucker, and
// stitches the macro edges touching each label into one closed CCW
// polygon.
func TraceBoundaries(l *LabelGrid, simplifyEps float32) []Polygon {
	g, idToPoint, edgeMeta := buildDualGraph(l)

	isNode := func(p GridPoint) bool {
		return cornerDegree(g, p) != 2 || isImageCorner(p, l.W, l.H)
	}

	// otherEdgeAt walks one step of a degree-2 chain using the graph's own
	// adjacency (NeighborIDs) instead of a hand-rolled incidence map: the
	// continuation corner is whichever neighbor of corner isn't cameFrom.
	otherEdgeAt := func(corner, cameFrom GridPoint) (*cornerEdge, string, bool) {
		neighbors, err := g.NeighborIDs(cornerID(corner))
		if err != nil {
			return nil, "", false
		}
		for _, nid := range neighbors {
			np, ok := idToPoint[nid]
			if !ok || np == cameFrom {
				continue
			}
			key := pairKey(corner, np)
			if em, ok := edgeMeta[key]; ok {
				return em, key, true
			}
		}
		return nil, "", false
	}

	visited := make(map[string]bool)
	var macros []macroEdge

	otherEnd := func(e *cornerEdge, p GridPoint) GridPoint {
		if e.a == p {
			return e.b
		}
		return e.a
	}

	for startKey, startEdge := range edgeMeta {
		if visited[startKey] {
			continue
		}
		for _, startCorner := range [2]GridPoint{startEdge.a, startEdge.b} {
			if !isNode(startCorner) {
				continue
			}
			// Walk forward from startCorner along startEdge until a node is
			// reached, marking every traversed edge visited.
			key := startKey
			e := startEdge
			if visited[key] {
				continue
			}
			left, right := e.leftLabel, e.rightLabel
			if startCorner != e.a {
				left, right = right, left
			}
			points := []GridPoint{startCorner}
			cur := startCorner
			for {
				visited[key] = true
				prev := cur
				cur = otherEnd(e, cur)
				points = append(points, cur)
				if isNode(cur) {
					break
				}
				ne, nkey, ok := otherEdgeAt(cur, prev)
				if !ok || visited[nkey] {
					break
				}
				key, e = nkey, ne
			}
			macros = append(macros, macroEdge{points: rdp(points, simplifyEps), left: left, right: right})
		}
	}

	return stitchPolygons(macros)
}

// rdp runs the Ramer-Douglas-Peucker simplification of spec section 4.5
// step 4, preserving the two endpoints.
func rdp(pts []GridPoint, eps float32) []GridPoint {
	if len(pts) < 3 {
		return pts
	}
	a, b := toVec2(pts[0]), toVec2(pts[len(pts)-1])
	var maxDist float32 = -1
	idx := -1
	for i := 1; i < len(pts)-1; i++ {
		d := pointSegDist(toVec2(pts[i]), a, b)
		if d > maxDist {
			maxDist = d
			idx = i
		}
	}
	if maxDist <= eps || idx < 0 {
		return []GridPoint{pts[0], pts[len(pts)-1]}
	}
	left := rdp(pts[:idx+1], eps)
	right := rdp(pts[idx:], eps)
	return append(left[:len(left)-1], right...)
}

func toVec2(p GridPoint) Vec2 { return Vec2{X: float32(p.X), Y: float32(p.Y)} }

func pointSegDist(p, a, b Vec2) float32 {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		dx, dy := p.X-a.X, p.Y-a.Y
		return sqrtf32(dx*dx + dy*dy)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	t = Max(float32(0), Min(float32(1), t))
	proj := Vec2{X: a.X + t*abx, Y: a.Y + t*aby}
	dx, dy := p.X-proj.X, p.Y-proj.Y
	return sqrtf32(dx*dx + dy*dy)
}

func sqrtf32(v float32) float32 {
	// Newton's method avoids pulling in math.Sqrt's float64 round trip for
	// the hot RDP inner loop; eight iterations seeded with v itself are ample
	// precision for grid-unit distances.
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 8; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

// stitchPolygons implements spec section 4.5 step 5: for each label,
// collect the macro edges touching it (reversing those on which it is the
// right label), then stitch end-to-end into a closed loop.
func stitchPolygons(macros []macroEdge) []Polygon {
	byLabel := make(map[int32][][]GridPoint)
	for _, m := range macros {
		if m.left != 0 {
			byLabel[m.left] = append(byLabel[m.left], m.points)
		}
		if m.right != 0 && m.right != m.left {
			rev := make([]GridPoint, len(m.points))
			for i, p := range m.points {
				rev[len(m.points)-1-i] = p
			}
			byLabel[m.right] = append(byLabel[m.right], rev)
		}
	}

	var polys []Polygon
	for label, chains := range byLabel {
		used := make([]bool, len(chains))
		var loop []GridPoint
		if len(chains) == 0 {
			continue
		}
		loop = append(loop, chains[0]...)
		used[0] = true
		remaining := len(chains) - 1
		for remaining > 0 {
			tail := loop[len(loop)-1]
			found := false
			for i, c := range chains {
				if used[i] {
					continue
				}
				if c[0] == tail {
					loop = append(loop, c[1:]...)
					used[i] = true
					remaining--
					found = true
					break
				}
			}
			if !found {
				break
			}
		}
		polys = append(polys, Polygon{Label: label, Points: loop})
	}
	return polys
}
