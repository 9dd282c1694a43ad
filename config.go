package hueslicer

// CoreConfig carries every tunable of the geometry pipeline as an explicit
// value threaded through each stage, rather than as package-level flags.
// See DESIGN.md's config.go/errors.go/diagnostics.go entry.
type CoreConfig struct {
	// Resolution is the heightmap sampling resolution in mm/pixel. Must be > 0.
	Resolution float32

	// TessellationEdgeThresholdMm is the longest-edge length, in mm, above
	// which a triangle is recursively subdivided before clipping.
	TessellationEdgeThresholdMm float32

	// TessellationMaxDepth bounds the recursive mid-edge subdivision depth.
	TessellationMaxDepth int

	// SnapQuantumMm is the cap-reconstruction vertex-snapping quantum, in mm.
	SnapQuantumMm float32

	// EpsilonSide is the tolerance used to classify a point as ON a slicing
	// line rather than LEFT/RIGHT of it.
	EpsilonSide float32

	// BarrierPenalty is added to the watershed gradient at masked cells.
	BarrierPenalty float32

	// BedWidthMm and BedHeightMm size the regular seed grid used by the
	// watershed segmenter.
	BedWidthMm  float32
	BedHeightMm float32

	// SimplifyEpsilonGridUnits is the Ramer-Douglas-Peucker epsilon used by
	// the boundary tracer, in grid units.
	SimplifyEpsilonGridUnits float32

	// Pipelined switches the orchestration from the default serial model to
	// the goroutine/bounded-queue pipelined model of spec section 5. Only
	// RunPipelined reads it; Run always runs serially.
	Pipelined bool

	// QueueDepth sizes the bounded channels used by the pipelined model.
	QueueDepth int

	// Logger receives diagnostic records. A nil Logger is replaced by
	// NewStderrLogger at pipeline construction time.
	Logger Logger
}

// DefaultConfig returns the tuning used when the source reference offers no
// documented relationship to other parameters (DESIGN.md Open Question 2).
func DefaultConfig() CoreConfig {
	return CoreConfig{
		Resolution:                  1.0,
		TessellationEdgeThresholdMm: 5.0,
		TessellationMaxDepth:        3,
		SnapQuantumMm:               0.01,
		EpsilonSide:                 1e-6,
		BarrierPenalty:              1000,
		BedWidthMm:                  200,
		BedHeightMm:                 200,
		SimplifyEpsilonGridUnits:    2.0,
		Pipelined:                   false,
		QueueDepth:                  64,
	}
}
