package hueslicer

import (
	"golang.org/x/exp/constraints"
)

// Vec2 is a 2D point or vector, used for grid coordinates, world-space cut
// paths, and layout polygons.
type Vec2 struct {
	X, Y float32
}

// Min returns the smaller of two ordered values, in the style of the
// teacher's own utils.Min generics, generalized to every ordered type this
// package needs (grid coordinates, world-space distances) rather than just
// the image-resize concern the teacher wrote it for.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two ordered values.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Side is the classification of a point with respect to an oriented line,
// used by both clipping directions via a single parameterized callable
// per spec section 9's "Polymorphism" note.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideOn
)

// SignedArea2 returns twice the signed area of the triangle (a, b, c):
// positive when c is to the left of the directed segment a->b, negative
// when to the right, zero when collinear.
func SignedArea2(a, b, c Vec2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// ClassifySide classifies p against the oriented line through a and b,
// using eps as the ON tolerance.
func ClassifySide(a, b, p Vec2, eps float32) Side {
	d := SignedArea2(a, b, p)
	if Abs(d) <= eps {
		return SideOn
	}
	if d > 0 {
		return SideLeft
	}
	return SideRight
}

// SegmentIntersection2 returns the intersection of segments (p1,p2) and
// (p3,p4) and both segment parameters t, u, when the segments are not
// parallel and the intersection lies within [0,1] on both. ok is false
// for parallel segments or an intersection outside either segment.
func SegmentIntersection2(p1, p2, p3, p4 Vec2) (pt Vec2, t, u float32, ok bool) {
	d := (p2.X-p1.X)*(p4.Y-p3.Y) - (p2.Y-p1.Y)*(p4.X-p3.X)
	if d == 0 {
		return Vec2{}, 0, 0, false
	}
	t = ((p3.X-p1.X)*(p4.Y-p3.Y) - (p3.Y-p1.Y)*(p4.X-p3.X)) / d
	u = ((p3.X-p1.X)*(p2.Y-p1.Y) - (p3.Y-p1.Y)*(p2.X-p1.X)) / d
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, t, u, false
	}
	pt = Vec2{X: p1.X + t*(p2.X-p1.X), Y: p1.Y + t*(p2.Y-p1.Y)}
	return pt, t, u, true
}

// LerpVec3 linearly interpolates between two 3D points by t in [0,1],
// component-wise, per spec section 4.6.
func LerpVec3(a, b Vec3, t float32) Vec3 {
	var out Vec3
	for i := range out {
		out[i] = a[i] + t*(b[i]-a[i])
	}
	return out
}

// MidEdgeSubdivide produces four sub-triangles sharing edge midpoints, per
// spec section 4.6.
func MidEdgeSubdivide(t Triangle) [4]Triangle {
	m01 := LerpVec3(t.V[0], t.V[1], 0.5)
	m12 := LerpVec3(t.V[1], t.V[2], 0.5)
	m20 := LerpVec3(t.V[2], t.V[0], 0.5)

	sub := [4]Triangle{
		{V: [3]Vec3{t.V[0], m01, m20}, Attribute: t.Attribute},
		{V: [3]Vec3{m01, t.V[1], m12}, Attribute: t.Attribute},
		{V: [3]Vec3{m20, m12, t.V[2]}, Attribute: t.Attribute},
		{V: [3]Vec3{m01, m12, m20}, Attribute: t.Attribute},
	}
	for i := range sub {
		sub[i].recomputeNormal()
	}
	return sub
}
