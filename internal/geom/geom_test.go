package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const testTol = 1e-9

// tagTriple returns the TAG resting geometry: three spheres around the
// group centre at (0, 24.85, 0) with 4/sqrt(2) diagonal offsets.
func tagTriple() Triple {
	const radius = 24.85
	off := 4.0 / math.Sqrt2
	return Triple{
		A: r3.Vec{X: 0, Y: radius - 4.0, Z: 0},
		B: r3.Vec{X: off, Y: radius + off, Z: 0},
		C: r3.Vec{X: -off, Y: radius + off, Z: 0},
	}
}

func vecsClose(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestCircumcenterEquidistant(t *testing.T) {
	tr := tagTriple()
	c := tr.Circumcenter()

	da := r3.Norm(r3.Sub(tr.A, c))
	db := r3.Norm(r3.Sub(tr.B, c))
	dc := r3.Norm(r3.Sub(tr.C, c))

	if math.Abs(da-db) > testTol || math.Abs(da-dc) > testTol {
		t.Errorf("circumcenter not equidistant: dA=%v dB=%v dC=%v", da, db, dc)
	}
	// The TAG triple is symmetric about the Y axis.
	if math.Abs(c.X) > testTol || math.Abs(c.Z) > testTol {
		t.Errorf("expected circumcenter on Y axis, got %+v", c)
	}
}

func TestCircumcenterCollinearFallsBackToCentroid(t *testing.T) {
	tr := Triple{
		A: r3.Vec{X: 0, Y: 0, Z: 0},
		B: r3.Vec{X: 1, Y: 0, Z: 0},
		C: r3.Vec{X: 2, Y: 0, Z: 0},
	}
	c := tr.Circumcenter()
	want := r3.Vec{X: 1, Y: 0, Z: 0}
	if !vecsClose(c, want, testTol) {
		t.Errorf("collinear circumcenter = %+v, want centroid %+v", c, want)
	}
}

func TestFitFrameOrthonormalRightHanded(t *testing.T) {
	for _, ref := range []RefPoint{RefA, RefB, RefC} {
		f := FitFrame(tagTriple(), ref)
		if f.Degenerate {
			t.Fatalf("ref %v: unexpected degenerate frame", ref)
		}

		for name, v := range map[string]r3.Vec{"U": f.U, "V": f.V, "W": f.W} {
			if math.Abs(r3.Norm(v)-1.0) > testTol {
				t.Errorf("ref %v: |%s| = %v, want 1", ref, name, r3.Norm(v))
			}
		}
		if d := r3.Dot(f.U, f.V); math.Abs(d) > testTol {
			t.Errorf("ref %v: U.V = %v", ref, d)
		}
		if d := r3.Dot(f.V, f.W); math.Abs(d) > testTol {
			t.Errorf("ref %v: V.W = %v", ref, d)
		}
		if d := r3.Dot(f.U, f.W); math.Abs(d) > testTol {
			t.Errorf("ref %v: U.W = %v", ref, d)
		}
		// Right-handed: U x V = W.
		if !vecsClose(r3.Cross(f.U, f.V), f.W, 1e-8) {
			t.Errorf("ref %v: basis not right-handed", ref)
		}
	}
}

func TestFitFrameDegenerate(t *testing.T) {
	tr := Triple{
		A: r3.Vec{X: 0, Y: 0, Z: 0},
		B: r3.Vec{X: 1, Y: 1, Z: 0},
		C: r3.Vec{X: 2, Y: 2, Z: 0},
	}
	f := FitFrame(tr, RefA)
	if !f.Degenerate {
		t.Fatal("expected degenerate frame for collinear points")
	}
	if !vecsClose(f.Origin, tr.Centroid(), testTol) {
		t.Errorf("degenerate origin = %+v, want centroid %+v", f.Origin, tr.Centroid())
	}
	// No NaN may leak from the fallback axes.
	for name, v := range map[string]r3.Vec{"U": f.U, "V": f.V, "W": f.W} {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
			t.Errorf("degenerate frame axis %s contains NaN: %+v", name, v)
		}
	}
}

func TestFrameAxesTranslationInvariant(t *testing.T) {
	tr := tagTriple()
	shift := r3.Vec{X: 3.5, Y: -1.25, Z: 0.75}
	moved := tr.Add(Triple{A: shift, B: shift, C: shift})

	f0 := FitFrame(tr, RefA)
	f1 := FitFrame(moved, RefA)

	if !vecsClose(f0.U, f1.U, 1e-8) || !vecsClose(f0.V, f1.V, 1e-8) || !vecsClose(f0.W, f1.W, 1e-8) {
		t.Error("frame axes changed under pure translation")
	}
	if !vecsClose(r3.Sub(f1.Origin, f0.Origin), shift, 1e-8) {
		t.Errorf("origin shift = %+v, want %+v", r3.Sub(f1.Origin, f0.Origin), shift)
	}
}
