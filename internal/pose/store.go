package pose

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/geom"
)

// groupState holds one group's transform inputs. A group is driven
// either by explicit rotation/translation scalars (rebuilt into matrices)
// or by an externally solved rigid transform; the applied transform wins
// when present.
type groupState struct {
	Enabled bool

	// Explicit scalars: rotation in radians (X,Y,Z order), translation
	// in millimeters.
	RotX, RotY, RotZ       float64
	TransX, TransY, TransZ float64

	rotation    geom.Transform
	translation geom.Transform

	// Externally computed rigid transform (world rest -> world
	// deformed). Sticky: survives ResetNeutral so a group whose series
	// ran out holds its last pose.
	applied    geom.Transform
	hasApplied bool
}

// Store owns the composed transform state for all groups. The driver
// creates one Store per run and passes it to collaborators; there is no
// package-level instance.
type Store struct {
	groups map[Group]*groupState
}

// NewStore returns a Store with every group in the neutral state.
func NewStore() *Store {
	s := &Store{groups: make(map[Group]*groupState)}
	for _, g := range []Group{GroupTAG, GroupTBG, GroupTCG, GroupPositive} {
		s.groups[g] = &groupState{
			rotation:    geom.Identity(),
			translation: geom.Identity(),
			applied:     geom.Identity(),
		}
	}
	return s
}

// ResetNeutral disables every group and zeroes the explicit scalar
// fields, then rebuilds the scalar matrices. Applied rigid transforms
// are deliberately left in place: a group whose displacement series has
// run out keeps the last pose its data set.
func (s *Store) ResetNeutral() {
	for _, st := range s.groups {
		st.Enabled = false
		st.RotX, st.RotY, st.RotZ = 0, 0, 0
		st.TransX, st.TransY, st.TransZ = 0, 0, 0
	}
	s.Rebuild()
}

// ClearApplied drops every externally applied transform. Called once at
// the start of a run so no pose leaks between runs.
func (s *Store) ClearApplied() {
	for _, st := range s.groups {
		st.applied = geom.Identity()
		st.hasApplied = false
	}
}

// Rebuild recomputes each group's rotation and translation matrices from
// the explicit scalar fields.
func (s *Store) Rebuild() {
	for _, st := range s.groups {
		st.rotation = geom.RotateXYZ(st.RotX, st.RotY, st.RotZ)
		st.translation = geom.Translate(r3.Vec{X: st.TransX, Y: st.TransY, Z: st.TransZ})
	}
}

// SetExplicit sets a group's scalar rotation/translation values and
// enables it. Matrices must be rebuilt with Rebuild before Combined
// reflects the change.
func (s *Store) SetExplicit(g Group, rotX, rotY, rotZ, transX, transY, transZ float64) {
	st, ok := s.groups[g]
	if !ok {
		return
	}
	st.RotX, st.RotY, st.RotZ = rotX, rotY, rotZ
	st.TransX, st.TransY, st.TransZ = transX, transY, transZ
	st.Enabled = true
	st.hasApplied = false
}

// ApplyCalculated installs an externally solved rigid transform for a
// moving group and enables the group.
func (s *Store) ApplyCalculated(g Group, t geom.Transform) {
	st, ok := s.groups[g]
	if !ok {
		return
	}
	st.applied = t
	st.hasApplied = true
	st.Enabled = true
}

// AppliedTransform returns the externally applied transform for a group
// and whether one is present.
func (s *Store) AppliedTransform(g Group) (geom.Transform, bool) {
	st, ok := s.groups[g]
	if !ok {
		return geom.Identity(), false
	}
	return st.applied, st.hasApplied
}

// Combined returns the full world transform for a model: world
// placement, then the owning group's transform, then the parent Positive
// group's transform when enabled. Stationary electrodes only receive
// their world placement (the Negative parent never moves).
func (s *Store) Combined(m ModelID) geom.Transform {
	world := geom.Translate(ModelWorldPosition(m))
	g := ModelGroup(m)

	out := world
	if st, ok := s.groups[g]; ok {
		if st.hasApplied {
			// The solved rigid transform already maps world rest
			// geometry to world deformed geometry.
			out = st.applied.Mul(out)
		} else if st.Enabled {
			// Explicit scalars act about the group centre.
			c := GroupCenter(g)
			out = geom.Translate(c).
				Mul(st.rotation).
				Mul(st.translation).
				Mul(geom.Translate(r3.Scale(-1, c))).
				Mul(out)
		}
	}

	if g != GroupNegative {
		if parent := s.groups[GroupPositive]; parent.Enabled {
			out = parent.translation.Mul(parent.rotation).Mul(out)
		}
	}
	return out
}
