// Package geom implements the rigid-motion recovery primitives of the
// simulator: tracked reference triples, circumcenter-based local frames
// and 4x4 homogeneous rigid transforms.
package geom

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// CollinearEps is the squared cross-product length below which the three
// tracked points are treated as numerically collinear.
const CollinearEps = 1e-10

// Triple holds the three tracked reference points of one electrode group,
// in the fixed A/B/C labelling order. Coordinates are millimeters.
type Triple struct {
	A, B, C r3.Vec
}

// Add returns the triple shifted point-wise by the given offsets.
func (t Triple) Add(off Triple) Triple {
	return Triple{
		A: r3.Add(t.A, off.A),
		B: r3.Add(t.B, off.B),
		C: r3.Add(t.C, off.C),
	}
}

// Centroid returns the arithmetic mean of the three points.
func (t Triple) Centroid() r3.Vec {
	return r3.Scale(1.0/3.0, r3.Add(t.A, r3.Add(t.B, t.C)))
}

// Circumcenter computes the point equidistant from A, B and C in their
// common plane using the two-chord formula. Collinear triples fall back
// to the centroid; this is a degenerate-input policy, not an error.
func (t Triple) Circumcenter() r3.Vec {
	ab := r3.Sub(t.B, t.A)
	ac := r3.Sub(t.C, t.A)
	n := r3.Cross(ab, ac)

	n2 := r3.Norm2(n)
	if n2 < CollinearEps {
		return t.Centroid()
	}

	abLen2 := r3.Norm2(ab)
	acLen2 := r3.Norm2(ac)
	num := r3.Cross(r3.Sub(r3.Scale(acLen2, ab), r3.Scale(abLen2, ac)), n)
	return r3.Add(t.A, r3.Scale(1.0/(2.0*n2), num))
}

// RefPoint selects which of the three tracked points anchors the V axis
// of a fitted frame.
type RefPoint int

const (
	RefA RefPoint = iota
	RefB
	RefC
)

// Point returns the selected reference point of the triple.
func (t Triple) Point(ref RefPoint) r3.Vec {
	switch ref {
	case RefB:
		return t.B
	case RefC:
		return t.C
	default:
		return t.A
	}
}

// Frame is an orthonormal local coordinate system fitted to a triple.
// Origin is the circumcenter (centroid for degenerate triples); W is the
// plane normal, V points from the origin away from the reference point,
// U completes the right-handed basis.
type Frame struct {
	Origin  r3.Vec
	U, V, W r3.Vec

	// Degenerate marks a collinear triple. The axes are then fixed
	// fallback directions rather than fitted ones, so downstream
	// transform quality is undefined.
	Degenerate bool
}

// Fallback axes used when a direction cannot be derived from the points.
// W matches the original triangle-normal fallback of +Z.
var (
	fallbackW = r3.Vec{Z: 1}
	fallbackV = r3.Vec{Y: -1}
)

// unitOr normalizes v, returning fb when v is numerically zero. It never
// produces NaN components.
func unitOr(v, fb r3.Vec) r3.Vec {
	if r3.Norm2(v) < CollinearEps {
		return fb
	}
	return r3.Unit(v)
}

// FitFrame derives the local frame of a triple. For non-degenerate input
// (U, V, W) form a right-handed orthonormal basis. Collinear input yields
// a frame flagged Degenerate with the centroid as origin and fixed
// fallback axes; callers should treat the result as diagnostic-quality.
func FitFrame(t Triple, ref RefPoint) Frame {
	ab := r3.Sub(t.B, t.A)
	ac := r3.Sub(t.C, t.A)
	n := r3.Cross(ab, ac)

	var f Frame
	if r3.Norm2(n) < CollinearEps {
		f.Degenerate = true
		f.Origin = t.Centroid()
		f.W = fallbackW
	} else {
		f.Origin = t.Circumcenter()
		f.W = r3.Unit(n)
	}

	d := r3.Sub(t.Point(ref), f.Origin)
	if r3.Norm2(d) < CollinearEps {
		f.V = fallbackV
	} else {
		f.V = r3.Scale(-1, r3.Unit(d))
	}
	f.U = unitOr(r3.Cross(f.V, f.W), r3.Vec{X: 1})
	return f
}
