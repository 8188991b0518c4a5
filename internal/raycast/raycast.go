// Package raycast answers nearest-hit queries against a set of world
// space triangles using the Moller-Trumbore intersection test.
package raycast

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// rayEpsilon rejects intersections at (or numerically behind) the ray
// origin so a facet never hits its own surface.
const rayEpsilon = 1e-9

// Triangle is one world-space triangle of a target surface.
type Triangle struct {
	V0, V1, V2 r3.Vec
}

// Hit describes the nearest intersection found for a query.
type Hit struct {
	Point    r3.Vec
	Distance float64
	Index    int
}

// Structure holds the triangles of one target surface. Queries scan
// every triangle; the electrode meshes are small enough that an
// acceleration structure would not pay for its build cost.
type Structure struct {
	tris []Triangle
}

// Build constructs a Structure over the given triangles. The slice is
// retained, not copied.
func Build(tris []Triangle) *Structure {
	return &Structure{tris: tris}
}

// Len returns the number of triangles in the structure.
func (s *Structure) Len() int {
	return len(s.tris)
}

// Nearest casts a ray from origin along dir and returns the closest
// intersection within maxDist. dir must be unit length for Distance to
// be metric. Ties resolve to the lowest triangle index, so results are
// deterministic.
func (s *Structure) Nearest(origin, dir r3.Vec, maxDist float64) (Hit, bool) {
	best := Hit{Distance: math.Inf(1), Index: -1}
	for i, tr := range s.tris {
		t, ok := intersect(origin, dir, tr)
		if !ok || t > maxDist || t >= best.Distance {
			continue
		}
		best = Hit{
			Point:    r3.Add(origin, r3.Scale(t, dir)),
			Distance: t,
			Index:    i,
		}
	}
	return best, best.Index >= 0
}

// intersect runs the Moller-Trumbore test and returns the ray parameter
// of the intersection, if any. Both triangle faces count as hits.
func intersect(origin, dir r3.Vec, tr Triangle) (float64, bool) {
	e1 := r3.Sub(tr.V1, tr.V0)
	e2 := r3.Sub(tr.V2, tr.V0)

	p := r3.Cross(dir, e2)
	det := r3.Dot(e1, p)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det

	tv := r3.Sub(origin, tr.V0)
	u := r3.Dot(tv, p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := r3.Cross(tv, e1)
	v := r3.Dot(dir, q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := r3.Dot(e2, q) * inv
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}
