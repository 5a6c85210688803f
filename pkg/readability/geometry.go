package readability

import (
	"fmt"
	"math"
)

// Point is a position in the plane.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Sub computes p−o.
func (p Point) Sub(o Point) Vec {
	return Vec{X: p.X - o.X, Y: p.Y - o.Y}
}

// Vec is a displacement in the plane.
type Vec struct {
	X float64
	Y float64
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the cross product of v and o.
func (v Vec) Cross(o Vec) float64 { return v.X*o.Y - v.Y*o.X }

// Hypot returns the magnitude of the vector.
func (v Vec) Hypot() float64 { return math.Hypot(v.X, v.Y) }

// Segment is a straight line segment from P0 to P1.
type Segment struct {
	P0 Point
	P1 Point
}

// Seg returns the segment from p0 to p1.
func Seg(p0, p1 Point) Segment { return Segment{P0: p0, P1: p1} }

// Reverse returns the segment with its endpoints swapped.
func (s Segment) Reverse() Segment { return Segment{P0: s.P1, P1: s.P0} }

func (s Segment) degenerate() bool { return s.P0 == s.P1 }

func (s Segment) slope() float64 {
	return (s.P1.Y - s.P0.Y) / (s.P1.X - s.P0.X)
}

// Orientation returns twice the signed area of the triangle (pi, pj, pk),
// computed as (pk−pi) × (pj−pi). Zero means the points are collinear; the
// sign tells on which side of pi→pj the point pk lies.
func Orientation(pi, pj, pk Point) float64 {
	return pk.Sub(pi).Cross(pj.Sub(pi))
}

// OnSegment reports whether pk lies inside the closed bounding box of pi and
// pj. It is only meaningful once pk is known to be collinear with pi and pj.
func OnSegment(pi, pj, pk Point) bool {
	return math.Min(pi.X, pj.X) <= pk.X && pk.X <= math.Max(pi.X, pj.X) &&
		math.Min(pi.Y, pj.Y) <= pk.Y && pk.Y <= math.Max(pi.Y, pj.Y)
}

// SegmentsIntersect reports whether a and b share at least one point,
// covering proper crossings as well as collinear touching.
func SegmentsIntersect(a, b Segment) bool {
	d1 := Orientation(b.P0, b.P1, a.P0)
	d2 := Orientation(b.P0, b.P1, a.P1)
	d3 := Orientation(a.P0, a.P1, b.P0)
	d4 := Orientation(a.P0, a.P1, b.P1)

	switch {
	case ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)):
		return true
	case d1 == 0 && OnSegment(b.P0, b.P1, a.P0):
		return true
	case d2 == 0 && OnSegment(b.P0, b.P1, a.P1):
		return true
	case d3 == 0 && OnSegment(a.P0, a.P1, b.P0):
		return true
	case d4 == 0 && OnSegment(a.P0, a.P1, b.P1):
		return true
	}
	return false
}

// AcuteAngle returns the acute angle in degrees between the lines through a
// and b, in [0, 90].
//
// When both lines have the same slope the result is 180 if the segments meet
// end to end in a single point, and 0 otherwise (overlapping or parallel).
// A zero-length segment has no direction and yields 0.
func AcuteAngle(a, b Segment) float64 {
	if a.degenerate() || b.degenerate() {
		return 0
	}
	angle := math.Abs(math.Atan(a.slope()) - math.Atan(b.slope()))
	if angle == 0 || angle == math.Pi {
		if meetEndToEnd(a, b) {
			return 180
		}
		return 0
	}
	if angle > math.Pi/2 {
		angle = math.Pi - angle
	}
	return degrees(angle)
}

// meetEndToEnd reports whether collinear segments a and b touch in exactly
// one shared endpoint.
func meetEndToEnd(a, b Segment) bool {
	if Orientation(a.P0, a.P1, b.P0) != 0 || Orientation(a.P0, a.P1, b.P1) != 0 {
		return false
	}
	for _, sa := range [2]Segment{a, a.Reverse()} {
		for _, sb := range [2]Segment{b, b.Reverse()} {
			if sa.P0 != sb.P0 {
				continue
			}
			return !OnSegment(sb.P0, sb.P1, sa.P1) && !OnSegment(sa.P0, sa.P1, sb.P1)
		}
	}
	return false
}

// DirectedAngle returns the counter-clockwise angle in degrees, in [0, 360),
// that turns segment a onto segment b around their shared endpoint.
//
// Both segments are reoriented so the shared endpoint comes first. If they
// share no endpoint their own directions are compared. The function is not
// symmetric: DirectedAngle(a, b) is 360 − DirectedAngle(b, a) unless either
// is 0. It orders links around a node and must not be used as a distance.
func DirectedAngle(a, b Segment) float64 {
	a, b = orientShared(a, b)

	u, w := a.P1.Sub(a.P0), b.P1.Sub(b.P0)
	lu, lw := u.Hypot(), w.Hypot()
	if lu == 0 || lw == 0 {
		return 0
	}
	u = Vec{X: u.X / lu, Y: u.Y / lu}
	w = Vec{X: w.X / lw, Y: w.Y / lw}

	// Express w in the frame where u is the x axis.
	x := math.Max(-1, math.Min(1, u.Dot(w)))
	y := u.Cross(w)

	angle := degrees(math.Acos(x))
	if y < 0 {
		angle = 360 - angle
	}
	if angle >= 360 {
		angle = 0
	}
	return angle
}

// orientShared flips a and b so that a shared endpoint, if any, is P0 of both.
func orientShared(a, b Segment) (Segment, Segment) {
	switch {
	case a.P0 == b.P0:
		return a, b
	case a.P0 == b.P1:
		return a, b.Reverse()
	case a.P1 == b.P0:
		return a.Reverse(), b
	case a.P1 == b.P1:
		return a.Reverse(), b.Reverse()
	}
	return a, b
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
