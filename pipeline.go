package hueslicer

import (
	"fmt"
	"io"
	"sync"
)

// GuideMask carries the optional user-supplied protect/prefer mask used by
// the seam finder and watershed segmenter, per spec section 6's external
// interfaces.
type GuideMask = Mask

// LayoutPolygon is one bed-space footprint polygon produced by the tiling
// layout stage, expressed in the 2D cut-path coordinate system.
type LayoutPolygon struct {
	TileID TileID
	Points []Vec2
}

// Layout is the full tile arrangement a Run call reports back to the
// caller, alongside the written tile streams. Per spec section 2 this is
// the output of the alternative watershed+boundary-tracer layout branch,
// which runs independently of the seam-finder-driven mesh split below.
type Layout struct {
	Tiles       []LayoutPolygon
	Diagnostics []Diagnostic
}

// collectingLogger wraps a Logger and also buffers every Diagnostic it
// sees, so Run can report them back on the returned Layout without forcing
// every caller to implement its own Logger just to inspect the run.
type collectingLogger struct {
	inner Logger
	mu    sync.Mutex
	log   []Diagnostic
}

func (c *collectingLogger) Emit(d Diagnostic) {
	c.mu.Lock()
	c.log = append(c.log, d)
	c.mu.Unlock()
	c.inner.Emit(d)
}

// Run orchestrates the full HueSlicer geometry pipeline of spec section 2 in
// its default serial mode: build the heightmap, run the guide-mask-bounded
// seam finder to get the clipper's cut arrays, tessellate and stream-clip
// the mesh against them, then reconstruct caps. Separately (and serially,
// before the clip), the watershed+boundary-tracer branch runs off the same
// heightmap to produce
// the 2D layout report -- the two branches are independent consumers of the
// grid, exactly as spec section 2's diagram shows them. This mirrors the
// single-threaded path of exec.go's Processor.Execute, generalized from an
// image resize to the mesh-tile pipeline.
func Run(meshIn io.ReadSeeker, guide *GuideMask, cfg CoreConfig, header string, factory TileWriterFactory) (*Layout, error) {
	logger := &collectingLogger{inner: loggerOrDefault(cfg.Logger)}
	cfg.Logger = logger

	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("%w: resolution must be > 0, got %v", ErrInvalidArgument, cfg.Resolution)
	}

	grid, bounds, err := BuildHeightmap(meshIn, cfg.Resolution)
	if err != nil {
		return nil, err
	}

	vcuts := verticalSeamCuts(grid, guide, cfg, bounds, logger)
	hcuts := horizontalSeamCuts(grid, guide, cfg, bounds, logger)

	layoutTiles := watershedLayout(grid, guide, bounds, cfg)

	if _, err := meshIn.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewinding source mesh: %v", ErrIO, err)
	}
	_, count, err := ReadHeaderAndCount(meshIn)
	if err != nil {
		return nil, err
	}

	clipper := NewStreamingClipper(vcuts, hcuts, cfg, header, factory)
	for i := uint32(0); i < count; i++ {
		t, err := ReadTriangleRecord(meshIn)
		if err != nil {
			return nil, err
		}
		for _, sub := range Tessellate(t, cfg.TessellationEdgeThresholdMm, cfg.TessellationMaxDepth) {
			if err := clipper.ClipTriangle(sub); err != nil {
				return nil, err
			}
		}
	}

	if err := ReconstructCaps(clipper, vcuts, hcuts, cfg, logger); err != nil {
		return nil, err
	}
	if err := clipper.Close(); err != nil {
		return nil, err
	}

	return &Layout{Tiles: layoutTiles, Diagnostics: logger.log}, nil
}

// numCutsForSpan returns the number of interior cuts needed to tile a span
// of spanMm into tiles no wider than bedMm, the same tile-count arithmetic
// the watershed segmenter's SeedGrid uses (spec section 4.4), since both
// branches partition the same bed-constrained heightmap.
func numCutsForSpan(spanMm, bedMm float32) int {
	n := int(ceilDiv(spanMm, bedMm)) - 1
	if n < 0 {
		n = 0
	}
	return n
}

// seamBand returns the [lo, hi] grid-index band the i-th of n evenly spaced
// cuts (1-indexed) searches within: a window of half-width dim/(2(n+1)),
// at least 1, centered on its nominal position. Neighboring bands can share
// their edge cell, and overlap further when dim is small next to n. Spec
// section 4.2 takes the search range [x_start, x_end] as given; this is the
// policy that derives one from the bed-tiling geometry.
func seamBand(dim, n, i int) (lo, hi int) {
	half := dim / (2 * (n + 1))
	if half < 1 {
		half = 1
	}
	target := dim * i / (n + 1)
	lo, hi = target-half, target+half
	if lo < 0 {
		lo = 0
	}
	if hi >= dim {
		hi = dim - 1
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// verticalSeamCuts runs the guide-mask-bounded SeamFinder once per interior
// vertical cut the bed width demands, converts each resulting seam polyline
// to a world-space Cut via ToCutPath, and reports an EmptySeamFallback
// diagnostic for every cut that had to fall back to its mid-column line
// (spec section 4.2's failure semantics).
func verticalSeamCuts(grid *Grid, mask *GuideMask, cfg CoreConfig, bounds Bounds, logger Logger) []Cut {
	widthMm := bounds.XMax - bounds.XMin
	n := numCutsForSpan(widthMm, cfg.BedWidthMm)
	if n == 0 {
		return nil
	}
	cuts := make([]Cut, 0, n)
	for i := 1; i <= n; i++ {
		xStart, xEnd := seamBand(grid.W, n, i)
		res := FindVerticalSeam(grid, mask, xStart, xEnd)
		id := fmt.Sprintf("v%d", i-1)
		if res.Fallback {
			logger.Emit(Diagnostic{
				Kind:   KindEmptySeamFallback,
				CutID:  id,
				Detail: (&EmptySeamError{RangeStart: xStart, RangeEnd: xEnd, MidColumn: (xStart + xEnd) / 2}).Error(),
			})
		}
		world := ToCutPath(res.Path, cfg.Resolution, bounds.YMax)
		cuts = append(cuts, NewCut(id, true, world))
	}
	sortCutsByOffset(cuts)
	return cuts
}

// horizontalSeamCuts is verticalSeamCuts' counterpart, driven by bed height
// and FindHorizontalSeam.
func horizontalSeamCuts(grid *Grid, mask *GuideMask, cfg CoreConfig, bounds Bounds, logger Logger) []Cut {
	heightMm := bounds.YMax - bounds.YMin
	n := numCutsForSpan(heightMm, cfg.BedHeightMm)
	if n == 0 {
		return nil
	}
	cuts := make([]Cut, 0, n)
	for j := 1; j <= n; j++ {
		yStart, yEnd := seamBand(grid.H, n, j)
		res := FindHorizontalSeam(grid, mask, yStart, yEnd)
		id := fmt.Sprintf("h%d", j-1)
		if res.Fallback {
			logger.Emit(Diagnostic{
				Kind:   KindEmptySeamFallback,
				CutID:  id,
				Detail: (&EmptySeamError{RangeStart: yStart, RangeEnd: yEnd, MidColumn: (yStart + yEnd) / 2}).Error(),
			})
		}
		world := ToCutPath(res.Path, cfg.Resolution, bounds.YMax)
		cuts = append(cuts, NewCut(id, false, world))
	}
	// The clipper expects horizontal cuts top to bottom (decreasing Y).
	sortCutsByOffset(cuts)
	for l, r := 0, len(cuts)-1; l < r; l, r = l+1, r-1 {
		cuts[l], cuts[r] = cuts[r], cuts[l]
	}
	return cuts
}

func sortCutsByOffset(cuts []Cut) {
	for i := 1; i < len(cuts); i++ {
		for j := i; j > 0 && cuts[j].MinOffset < cuts[j-1].MinOffset; j-- {
			cuts[j], cuts[j-1] = cuts[j-1], cuts[j]
		}
	}
}

// watershedLayout runs the alternative layout branch of spec section 4.4/
// 4.5 (gradient map, barrier, seeded watershed, boundary tracing) and scales
// the resulting label polygons into world-space LayoutPolygons via the same
// ToCutPath scale-and-flip convention the seam finder uses.
func watershedLayout(grid *Grid, guide *GuideMask, bounds Bounds, cfg CoreConfig) []LayoutPolygon {
	grad := GradientMap(grid)
	ApplyBarrier(grad, guide, cfg.BarrierPenalty)
	seeds := SeedGrid(grid.W, grid.H, bounds.XMax-bounds.XMin, bounds.YMax-bounds.YMin, cfg.BedWidthMm, cfg.BedHeightMm)
	labels := Watershed(grad, seeds)
	polys := TraceBoundaries(labels, cfg.SimplifyEpsilonGridUnits)

	out := make([]LayoutPolygon, len(polys))
	for i, p := range polys {
		pts := make(SeamPolyline, len(p.Points))
		copy(pts, p.Points)
		out[i] = LayoutPolygon{
			TileID: TileID{Row: 0, Col: int(p.Label)},
			Points: ToCutPath(pts, cfg.Resolution, bounds.YMax),
		}
	}
	return out
}

// tileJob is one unit of pipelined work: a batch of source triangles ready
// for tessellation and clipping.
type tileJob struct {
	triangles []Triangle
}

// RunPipelined implements the goroutine/bounded-channel orchestration of
// spec section 5's optional concurrency model, generalizing the
// producer/worker-pool/consumer channel topology of exec.go's
// Execute/consumer/walkDir trio from directory-of-images fan-out to
// batches of source triangles flowing through tessellation before they
// reach the (necessarily single-threaded, state-carrying) clipper.
func RunPipelined(meshIn io.ReadSeeker, guide *GuideMask, cfg CoreConfig, header string, factory TileWriterFactory, batchSize int) (*Layout, error) {
	if !cfg.Pipelined {
		return Run(meshIn, guide, cfg, header, factory)
	}
	if batchSize <= 0 {
		batchSize = 256
	}
	logger := &collectingLogger{inner: loggerOrDefault(cfg.Logger)}
	cfg.Logger = logger

	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("%w: resolution must be > 0, got %v", ErrInvalidArgument, cfg.Resolution)
	}

	grid, bounds, err := BuildHeightmap(meshIn, cfg.Resolution)
	if err != nil {
		return nil, err
	}
	vcuts := verticalSeamCuts(grid, guide, cfg, bounds, logger)
	hcuts := horizontalSeamCuts(grid, guide, cfg, bounds, logger)
	layoutTiles := watershedLayout(grid, guide, bounds, cfg)

	if _, err := meshIn.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewinding source mesh: %v", ErrIO, err)
	}
	_, count, err := ReadHeaderAndCount(meshIn)
	if err != nil {
		return nil, err
	}

	jobs := make(chan tileJob, cfg.QueueDepth)
	tessellated := make(chan []Triangle, cfg.QueueDepth)
	errc := make(chan error, 1)

	go func() {
		defer close(jobs)
		batch := make([]Triangle, 0, batchSize)
		for i := uint32(0); i < count; i++ {
			t, err := ReadTriangleRecord(meshIn)
			if err != nil {
				select {
				case errc <- err:
				default:
				}
				return
			}
			batch = append(batch, t)
			if len(batch) == batchSize {
				jobs <- tileJob{triangles: batch}
				batch = make([]Triangle, 0, batchSize)
			}
		}
		if len(batch) > 0 {
			jobs <- tileJob{triangles: batch}
		}
	}()

	var wg sync.WaitGroup
	workers := cfg.QueueDepth
	if workers < 1 {
		workers = 1
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				var out []Triangle
				for _, t := range job.triangles {
					out = append(out, Tessellate(t, cfg.TessellationEdgeThresholdMm, cfg.TessellationMaxDepth)...)
				}
				tessellated <- out
			}
		}()
	}
	go func() {
		wg.Wait()
		close(tessellated)
	}()

	clipper := NewStreamingClipper(vcuts, hcuts, cfg, header, factory)
	for batch := range tessellated {
		for _, t := range batch {
			if err := clipper.ClipTriangle(t); err != nil {
				return nil, err
			}
		}
	}
	select {
	case err := <-errc:
		return nil, err
	default:
	}

	if err := ReconstructCaps(clipper, vcuts, hcuts, cfg, logger); err != nil {
		return nil, err
	}
	if err := clipper.Close(); err != nil {
		return nil, err
	}
	return &Layout{Tiles: layoutTiles, Diagnostics: logger.log}, nil
}
