package hueslicer

import "container/heap"

// LabelGrid is a dense W x H array of region labels; 0 means unlabeled.
type LabelGrid struct {
	W, H int
	Data []int32
}

// NewLabelGrid allocates a zeroed W x H label grid.
func NewLabelGrid(w, h int) *LabelGrid {
	return &LabelGrid{W: w, H: h, Data: make([]int32, w*h)}
}

func (l *LabelGrid) At(x, y int) int32     { return l.Data[y*l.W+x] }
func (l *LabelGrid) Set(x, y int, v int32) { l.Data[y*l.W+x] = v }

// GradientMap computes the spec 4.4 gradient: the maximum absolute
// difference to a 4-neighbor. This generalizes the neighbor-difference
// loop shape of the teacher's SobelFilter (sobel.go) from a 3x3 oriented
// kernel pair down to the spec's simpler isotropic 4-neighbor operator.
func GradientMap(g *Grid) *Grid {
	out := NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			var m float32
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= g.W || ny < 0 || ny >= g.H {
					continue
				}
				diff := Abs(g.At(x, y) - g.At(nx, ny))
				if diff > m {
					m = diff
				}
			}
			out.Set(x, y, m)
		}
	}
	return out
}

// ApplyBarrier adds a soft-barrier penalty to grad at every cell where
// mask forbids traversal, per spec section 4.4's design choice of a soft
// (expensive, not absolute) barrier.
func ApplyBarrier(grad *Grid, mask *Mask, penalty float32) {
	if mask == nil {
		return
	}
	for y := 0; y < grad.H; y++ {
		for x := 0; x < grad.W; x++ {
			if !mask.At(x, y) {
				grad.Set(x, y, grad.At(x, y)+penalty)
			}
		}
	}
}

// SeedGrid places one seed per intended tile at the center of a regular
// ceil(widthMm/bedW) x ceil(heightMm/bedH) grid, clamped to the image,
// per spec section 4.4.
func SeedGrid(w, h int, widthMm, heightMm, bedW, bedH float32) []GridPoint {
	cols := int(ceilDiv(widthMm, bedW))
	rows := int(ceilDiv(heightMm, bedH))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	seeds := make([]GridPoint, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sx := int((float32(c) + 0.5) * float32(w) / float32(cols))
			sy := int((float32(r) + 0.5) * float32(h) / float32(rows))
			sx = clampInt(sx, 0, w-1)
			sy = clampInt(sy, 0, h-1)
			seeds = append(seeds, GridPoint{X: sx, Y: sy})
		}
	}
	return seeds
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wsItem is one entry of the watershed priority queue.
type wsItem struct {
	priority float32
	order    uint64 // FIFO tiebreak within equal priority, per spec 4.4
	x, y     int
	label    int32
}

// wsQueue implements container/heap.Interface as a min-priority queue
// keyed by gradient value, matching the priority-queue-over-a-grid shape
// of the pack's seeded flood-fill example
// (other_examples/.../stdimg/floodfill.go) generalized from a color-
// tolerance fill to Meyer's watershed.
type wsQueue []*wsItem

func (q wsQueue) Len() int { return len(q) }
func (q wsQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].order < q[j].order
}
func (q wsQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *wsQueue) Push(x any)        { *q = append(*q, x.(*wsItem)) }
func (q *wsQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Watershed runs Meyer's watershed flooding of spec section 4.4: each seed
// carries a unique positive label; cells are labeled in non-decreasing
// gradient order, ties broken FIFO.
func Watershed(grad *Grid, seeds []GridPoint) *LabelGrid {
	labels := NewLabelGrid(grad.W, grad.H)
	q := &wsQueue{}
	heap.Init(q)

	var order uint64
	for i, s := range seeds {
		label := int32(i + 1)
		if labels.At(s.X, s.Y) != 0 {
			continue
		}
		labels.Set(s.X, s.Y, label)
		heap.Push(q, &wsItem{priority: 0, order: order, x: s.X, y: s.Y, label: label})
		order++
	}

	for q.Len() > 0 {
		it := heap.Pop(q).(*wsItem)
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := it.x+d[0], it.y+d[1]
			if nx < 0 || nx >= grad.W || ny < 0 || ny >= grad.H {
				continue
			}
			if labels.At(nx, ny) != 0 {
				continue
			}
			labels.Set(nx, ny, it.label)
			heap.Push(q, &wsItem{priority: grad.At(nx, ny), order: order, x: nx, y: ny, label: it.label})
			order++
		}
	}
	return labels
}
