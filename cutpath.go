package hueslicer

// Cut is one vertical or horizontal cut path in world (mm) coordinates,
// together with the pre-computed axis-aligned bounds spec section 4.3
// requires for O(1) triangle rejection.
type Cut struct {
	ID       string
	Vertical bool // true: varies with row (Y primary axis); false: varies with column (X primary axis)
	Points   []Vec2

	// MinOffset/MaxOffset bound the cut along its offset (minor) axis: X
	// for a vertical cut, Y for a horizontal one.
	MinOffset, MaxOffset float32
}

// NewCut computes a Cut's offset bounds from its points.
func NewCut(id string, vertical bool, points []Vec2) Cut {
	c := Cut{ID: id, Vertical: vertical, Points: points}
	if len(points) == 0 {
		return c
	}
	c.MinOffset, c.MaxOffset = offsetOf(points[0], vertical), offsetOf(points[0], vertical)
	for _, p := range points[1:] {
		o := offsetOf(p, vertical)
		if o < c.MinOffset {
			c.MinOffset = o
		}
		if o > c.MaxOffset {
			c.MaxOffset = o
		}
	}
	return c
}

// offsetOf returns the minor-axis coordinate of p for a cut of the given
// orientation: X for vertical, Y for horizontal.
func offsetOf(p Vec2, vertical bool) float32 {
	if vertical {
		return p.X
	}
	return p.Y
}

// indepOf returns the primary-axis coordinate of p: Y for vertical cuts
// (row direction), X for horizontal cuts (column direction).
func indepOf(p Vec2, vertical bool) float32 {
	if vertical {
		return p.Y
	}
	return p.X
}

// triBBoxOffset returns the [min,max] range of t's vertices along the
// cut's offset axis.
func triBBoxOffset(t Triangle, vertical bool) (min, max float32) {
	min, max = offsetOfVec3(t.V[0], vertical), offsetOfVec3(t.V[0], vertical)
	for _, v := range t.V[1:] {
		o := offsetOfVec3(v, vertical)
		if o < min {
			min = o
		}
		if o > max {
			max = o
		}
	}
	return
}

func triBBoxIndep(t Triangle, vertical bool) (min, max float32) {
	min, max = indepOfVec3(t.V[0], vertical), indepOfVec3(t.V[0], vertical)
	for _, v := range t.V[1:] {
		o := indepOfVec3(v, vertical)
		if o < min {
			min = o
		}
		if o > max {
			max = o
		}
	}
	return
}

func offsetOfVec3(v Vec3, vertical bool) float32 {
	if vertical {
		return v[0]
	}
	return v[1]
}

func indepOfVec3(v Vec3, vertical bool) float32 {
	if vertical {
		return v[1]
	}
	return v[0]
}

// localLine is the infinite line fitted per spec section 4.3.2: offset =
// slope*indep + intercept.
type localLine struct {
	slope, intercept float32
}

func (l localLine) offsetAt(indep float32) float32 { return l.slope*indep + l.intercept }

// fitLocalLine implements spec section 4.3.2: restrict the cut's points to
// those whose primary-axis coordinate falls within the triangle's
// primary-axis range (with a 1mm margin), least-squares fit
// offset = f(indep), and fall back to the single segment straddling the
// triangle's centroid when fewer than two points remain.
//
// The points are filtered on the regression's own independent axis, since
// that is the only choice that yields a geometrically local fit.
func fitLocalLine(cut Cut, tri Triangle) localLine {
	indepMin, indepMax := triBBoxIndep(tri, cut.Vertical)
	const margin = 1.0
	indepMin -= margin
	indepMax += margin

	var sumX, sumY, sumXY, sumXX float32
	var n float32
	for _, p := range cut.Points {
		ind := indepOf(p, cut.Vertical)
		if ind < indepMin || ind > indepMax {
			continue
		}
		off := offsetOf(p, cut.Vertical)
		sumX += ind
		sumY += off
		sumXY += ind * off
		sumXX += ind * ind
		n++
	}
	if n >= 2 {
		denom := n*sumXX - sumX*sumX
		if denom != 0 {
			slope := (n*sumXY - sumX*sumY) / denom
			intercept := (sumY - slope*sumX) / n
			return localLine{slope: slope, intercept: intercept}
		}
	}

	// Fewer than two usable points (or a degenerate fit): fall back to the
	// segment of the path straddling the triangle's centroid.
	cx := (indepOfVec3(tri.V[0], cut.Vertical) + indepOfVec3(tri.V[1], cut.Vertical) + indepOfVec3(tri.V[2], cut.Vertical)) / 3
	for i := 0; i+1 < len(cut.Points); i++ {
		a, b := cut.Points[i], cut.Points[i+1]
		ia, ib := indepOf(a, cut.Vertical), indepOf(b, cut.Vertical)
		lo, hi := ia, ib
		if lo > hi {
			lo, hi = hi, lo
		}
		if cx >= lo && cx <= hi {
			if ib == ia {
				return localLine{slope: 0, intercept: offsetOf(a, cut.Vertical)}
			}
			slope := (offsetOf(b, cut.Vertical) - offsetOf(a, cut.Vertical)) / (ib - ia)
			intercept := offsetOf(a, cut.Vertical) - slope*ia
			return localLine{slope: slope, intercept: intercept}
		}
	}
	if len(cut.Points) > 0 {
		p := cut.Points[len(cut.Points)/2]
		return localLine{slope: 0, intercept: offsetOf(p, cut.Vertical)}
	}
	return localLine{}
}
