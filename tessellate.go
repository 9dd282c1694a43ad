package hueslicer

// Tessellate implements the adaptive mid-edge tessellation pass of spec
// section 4.6: a triangle whose longest edge exceeds thresholdMm is
// recursively split into four via MidEdgeSubdivide, up to maxDepth, so that
// no cut line ever has to interpolate across an arbitrarily long edge.
func Tessellate(t Triangle, thresholdMm float32, maxDepth int) []Triangle {
	return tessellateDepth(t, thresholdMm, maxDepth, 0)
}

func tessellateDepth(t Triangle, thresholdMm float32, maxDepth, depth int) []Triangle {
	if depth >= maxDepth || t.longestEdge() <= thresholdMm {
		return []Triangle{t}
	}
	var out []Triangle
	for _, sub := range MidEdgeSubdivide(t) {
		out = append(out, tessellateDepth(sub, thresholdMm, maxDepth, depth+1)...)
	}
	return out
}

// TessellateAll runs Tessellate over a batch of triangles and concatenates
// the results in input order.
func TessellateAll(ts []Triangle, thresholdMm float32, maxDepth int) []Triangle {
	out := make([]Triangle, 0, len(ts))
	for _, t := range ts {
		out = append(out, Tessellate(t, thresholdMm, maxDepth)...)
	}
	return out
}
