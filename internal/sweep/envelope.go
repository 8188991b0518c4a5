package sweep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/pose"
)

// Envelope accumulates motion statistics for one group's circumcenter
// over a run: the per-axis bounding box and the largest excursion from
// the group's resting circumcenter. The radius never decreases.
type Envelope struct {
	Group pose.Group

	original r3.Vec
	seeded   bool
	current  r3.Vec
	min, max r3.Vec
	radius   float64
	path     []r3.Vec
}

// NewEnvelope returns an empty envelope for a group.
func NewEnvelope(g pose.Group) *Envelope {
	e := &Envelope{Group: g}
	e.Reset()
	return e
}

// Reset clears all accumulated statistics and re-anchors the radius
// origin at the group's resting circumcenter.
func (e *Envelope) Reset() {
	*e = Envelope{
		Group:    e.Group,
		original: pose.RestingTriple(e.Group).Circumcenter(),
	}
}

// Update folds one circumcenter observation into the statistics.
func (e *Envelope) Update(center r3.Vec) {
	if !e.seeded {
		e.min, e.max = center, center
		e.seeded = true
	}
	e.current = center
	e.path = append(e.path, center)

	e.min.X = math.Min(e.min.X, center.X)
	e.min.Y = math.Min(e.min.Y, center.Y)
	e.min.Z = math.Min(e.min.Z, center.Z)
	e.max.X = math.Max(e.max.X, center.X)
	e.max.Y = math.Max(e.max.Y, center.Y)
	e.max.Z = math.Max(e.max.Z, center.Z)

	if r := r3.Norm(r3.Sub(center, e.original)); r > e.radius {
		e.radius = r
	}
}

// Radius returns the largest distance observed from the resting
// circumcenter, in millimeters.
func (e *Envelope) Radius() float64 {
	return e.radius
}

// Bounds returns the per-axis min and max of all observations.
func (e *Envelope) Bounds() (min, max r3.Vec) {
	return e.min, e.max
}

// Current returns the most recent observation.
func (e *Envelope) Current() r3.Vec {
	return e.current
}

// Path returns every observation in order, for trajectory plotting.
func (e *Envelope) Path() []r3.Vec {
	return e.path
}

// Report formats a one-line summary for the end-of-run log.
func (e *Envelope) Report() string {
	if !e.seeded {
		return fmt.Sprintf("%s: no motion data", e.Group)
	}
	span := r3.Sub(e.max, e.min)
	return fmt.Sprintf("%s: radius %.3f mm, span (%.3f, %.3f, %.3f) mm",
		e.Group, e.radius, span.X, span.Y, span.Z)
}
