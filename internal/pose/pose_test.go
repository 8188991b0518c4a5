package pose

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/geom"
)

func TestRestingTripleTAG(t *testing.T) {
	tr := RestingTriple(GroupTAG)
	off := 4.0 / math.Sqrt2

	if math.Abs(tr.A.Y-20.85) > 1e-9 || tr.A.X != 0 {
		t.Errorf("TAG_A = %+v, want (0, 20.85, 0)", tr.A)
	}
	if math.Abs(tr.B.X-off) > 1e-9 || math.Abs(tr.B.Y-(24.85+off)) > 1e-9 {
		t.Errorf("TAG_B = %+v, want (%v, %v, 0)", tr.B, off, 24.85+off)
	}
	if math.Abs(tr.C.X+off) > 1e-9 || math.Abs(tr.C.Y-(24.85+off)) > 1e-9 {
		t.Errorf("TAG_C = %+v, want (%v, %v, 0)", tr.C, -off, 24.85+off)
	}
}

func TestGroupCentersOnCircle(t *testing.T) {
	for _, g := range MovingGroups {
		c := GroupCenter(g)
		if r := math.Hypot(c.X, c.Y); math.Abs(r-GroupRadiusMM) > 1e-9 {
			t.Errorf("%v centre radius = %v, want %v", g, r, GroupRadiusMM)
		}
	}
}

func TestReferencePointSelectors(t *testing.T) {
	if ReferencePoint(GroupTAG) != geom.RefA ||
		ReferencePoint(GroupTBG) != geom.RefB ||
		ReferencePoint(GroupTCG) != geom.RefC {
		t.Error("reference point selectors do not match the group wiring")
	}
}

func TestCombinedAtRestIsWorldPlacement(t *testing.T) {
	s := NewStore()
	for _, m := range []ModelID{ModelA1, ModelNegB, ModelC2} {
		got := s.Combined(m)
		want := geom.Translate(ModelWorldPosition(m))
		if !got.EqualWithin(want, 1e-12) {
			t.Errorf("Combined(%v) at rest differs from world placement", m)
		}
	}
}

func TestApplyCalculatedStickyAcrossReset(t *testing.T) {
	s := NewStore()
	shift := geom.Translate(r3.Vec{X: 1, Y: 2, Z: 3})
	s.ApplyCalculated(GroupTBG, shift)

	s.ResetNeutral()

	// The applied transform must survive the per-row neutral reset.
	got, ok := s.AppliedTransform(GroupTBG)
	if !ok {
		t.Fatal("applied transform lost by ResetNeutral")
	}
	if !got.EqualWithin(shift, 1e-12) {
		t.Error("applied transform changed by ResetNeutral")
	}
	want := shift.Mul(geom.Translate(ModelWorldPosition(ModelB1)))
	if !s.Combined(ModelB1).EqualWithin(want, 1e-12) {
		t.Error("Combined does not hold the last applied transform after reset")
	}

	// ClearApplied is the run-level reset.
	s.ClearApplied()
	if _, ok := s.AppliedTransform(GroupTBG); ok {
		t.Error("ClearApplied left an applied transform behind")
	}
}

func TestCombinedExplicitScalarsActAboutGroupCenter(t *testing.T) {
	s := NewStore()
	s.SetExplicit(GroupTAG, 0, 0, math.Pi/2, 0, 0, 0)
	s.Rebuild()

	// The group centre itself is a fixed point of a pure group rotation.
	c := GroupCenter(GroupTAG)
	got := s.Combined(ModelA1).Apply(r3.Vec{})
	// ModelA1's base origin is placed at the group centre, which the
	// rotation leaves in place.
	if math.Abs(got.X-c.X) > 1e-9 || math.Abs(got.Y-c.Y) > 1e-9 {
		t.Errorf("group centre moved under pure group rotation: %+v", got)
	}
}

func TestTrackedSpheresSitAtRestingPoints(t *testing.T) {
	cases := []struct {
		id   ModelID
		want r3.Vec
	}{
		{SphereTAGA, RestingTriple(GroupTAG).A},
		{SphereTBGB, RestingTriple(GroupTBG).B},
		{SphereTCGC, RestingTriple(GroupTCG).C},
	}
	for _, c := range cases {
		if got := ModelWorldPosition(c.id); got != c.want {
			t.Errorf("%v world position = %+v, want %+v", c.id.Short(), got, c.want)
		}
	}
	for _, id := range TrackedSpheres {
		if g := ModelGroup(id); g != GroupTAG && g != GroupTBG && g != GroupTCG {
			t.Errorf("%v not owned by a moving group: %v", id.Short(), g)
		}
	}
}

func TestPairedNegativeCoversAllPositives(t *testing.T) {
	for _, m := range PositiveModels {
		neg, ok := PairedNegative[m]
		if !ok {
			t.Errorf("no paired negative for %v", m)
			continue
		}
		if ModelGroup(neg) != GroupNegative {
			t.Errorf("pair of %v is not stationary: %v", m, neg)
		}
		if ModelWorldPosition(neg) != ModelWorldPosition(m) {
			t.Errorf("pair of %v not co-located", m)
		}
	}
}
