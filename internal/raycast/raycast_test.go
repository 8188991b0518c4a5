package raycast

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// unitSquare builds a 1x1 square in the XY plane at the given z from
// two triangles.
func unitSquare(z float64) []Triangle {
	v00 := r3.Vec{X: 0, Y: 0, Z: z}
	v10 := r3.Vec{X: 1, Y: 0, Z: z}
	v01 := r3.Vec{X: 0, Y: 1, Z: z}
	v11 := r3.Vec{X: 1, Y: 1, Z: z}
	return []Triangle{
		{V0: v00, V1: v10, V2: v11},
		{V0: v00, V1: v11, V2: v01},
	}
}

func TestNearestHitsSquare(t *testing.T) {
	s := Build(unitSquare(2))
	hit, ok := s.Nearest(r3.Vec{X: 0.25, Y: 0.25, Z: 0}, r3.Vec{Z: 1}, 10)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Distance-2) > 1e-12 {
		t.Errorf("distance = %v, want 2", hit.Distance)
	}
	if math.Abs(hit.Point.Z-2) > 1e-12 {
		t.Errorf("hit point = %+v, want Z=2", hit.Point)
	}
}

func TestNearestMissesOutsideSquare(t *testing.T) {
	s := Build(unitSquare(2))
	if _, ok := s.Nearest(r3.Vec{X: 5, Y: 5, Z: 0}, r3.Vec{Z: 1}, 10); ok {
		t.Error("ray outside the square must miss")
	}
	if _, ok := s.Nearest(r3.Vec{X: 0.5, Y: 0.5, Z: 0}, r3.Vec{Z: -1}, 10); ok {
		t.Error("ray pointing away must miss")
	}
}

func TestNearestHonoursCutoff(t *testing.T) {
	s := Build(unitSquare(2))
	origin := r3.Vec{X: 0.5, Y: 0.5, Z: 0}
	if _, ok := s.Nearest(origin, r3.Vec{Z: 1}, 1.5); ok {
		t.Error("hit beyond maxDist must be discarded")
	}
	if _, ok := s.Nearest(origin, r3.Vec{Z: 1}, 2.0); !ok {
		t.Error("hit exactly at maxDist must be kept")
	}
}

func TestNearestPicksCloserOfTwo(t *testing.T) {
	tris := append(unitSquare(5), unitSquare(2)...)
	s := Build(tris)
	hit, ok := s.Nearest(r3.Vec{X: 0.5, Y: 0.5, Z: 0}, r3.Vec{Z: 1}, 10)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Distance-2) > 1e-12 {
		t.Errorf("distance = %v, want the nearer surface at 2", hit.Distance)
	}
	if hit.Index < 2 {
		t.Errorf("index = %d, want a triangle of the nearer square", hit.Index)
	}
}

func TestNearestIgnoresSelfIntersection(t *testing.T) {
	s := Build(unitSquare(0))
	// Origin on the surface itself: the epsilon guard must reject the
	// zero-distance hit.
	if _, ok := s.Nearest(r3.Vec{X: 0.25, Y: 0.25, Z: 0}, r3.Vec{Z: 1}, 10); ok {
		t.Error("ray starting on a triangle must not hit it")
	}
}

func TestNearestHitsBackFace(t *testing.T) {
	s := Build(unitSquare(2))
	// Approaching from above, against the winding, still counts.
	hit, ok := s.Nearest(r3.Vec{X: 0.5, Y: 0.5, Z: 4}, r3.Vec{Z: -1}, 10)
	if !ok {
		t.Fatal("expected a back-face hit")
	}
	if math.Abs(hit.Distance-2) > 1e-12 {
		t.Errorf("distance = %v, want 2", hit.Distance)
	}
}
