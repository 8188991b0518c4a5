// Package cap estimates the capacitance between each moving electrode
// and its stationary counter-electrode from facet-level parallel-plate
// contributions.
package cap

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/mesh"
	"github.com/NanayasWorkshop/FT-Sim/internal/pose"
	"github.com/NanayasWorkshop/FT-Sim/internal/raycast"
	"github.com/NanayasWorkshop/FT-Sim/internal/units"
)

// Physical constants of the capacitance model. The dielectric between
// the plates is glycerin.
const (
	Epsilon0                = 8.854e-12
	GlycerinRelPermittivity = 42.28
	DefaultMaxRayDistanceMM = 2.0
)

// degenerateAreaMM2 is the facet area below which a triangle carries no
// usable normal and is excluded from the estimate.
const degenerateAreaMM2 = 1e-12

// Facet is one world-space triangle of a moving electrode, reduced to
// the quantities the parallel-plate model needs.
type Facet struct {
	Center     r3.Vec
	Normal     r3.Vec
	AreaMM2    float64
	Degenerate bool
}

// Sample is the estimate for one electrode at one pose.
type Sample struct {
	Model            pose.ModelID
	Capacitance      float64 // farads
	TriangleCount    int
	HitCount         int
	AvgHitDistanceMM float64
}

// Config tunes the estimator. Zero values fall back to the defaults
// above.
type Config struct {
	MaxRayDistanceMM     float64
	RelativePermittivity float64
}

type electrodeState struct {
	model  *mesh.Model
	facets []Facet
	scene  *raycast.Structure
}

// Estimator owns the per-electrode scenes and facet caches. Build one
// per run; Refresh after every pose change, then Evaluate per
// electrode.
type Estimator struct {
	store      *pose.Store
	maxRayMM   float64
	relPerm    float64
	electrodes map[pose.ModelID]*electrodeState
}

// NewEstimator resolves every moving electrode's mesh and its paired
// counter-electrode scene. A missing mesh or pairing is fatal: an
// electrode without a counter-electrode has no defined capacitance.
func NewEstimator(provider mesh.Provider, store *pose.Store, cfg Config) (*Estimator, error) {
	e := &Estimator{
		store:      store,
		maxRayMM:   cfg.MaxRayDistanceMM,
		relPerm:    cfg.RelativePermittivity,
		electrodes: make(map[pose.ModelID]*electrodeState),
	}
	if e.maxRayMM <= 0 {
		e.maxRayMM = DefaultMaxRayDistanceMM
	}
	if e.relPerm <= 0 {
		e.relPerm = GlycerinRelPermittivity
	}

	for _, id := range pose.PositiveModels {
		m, err := provider.Model(id)
		if err != nil {
			return nil, fmt.Errorf("resolve mesh for %s: %w", id, err)
		}
		negID, ok := pose.PairedNegative[id]
		if !ok {
			return nil, fmt.Errorf("no counter-electrode paired with %s", id)
		}
		neg, err := provider.Model(negID)
		if err != nil {
			return nil, fmt.Errorf("resolve counter-electrode for %s: %w", id, err)
		}

		// Counter-electrodes are stationary, so their world-space scene
		// is built once.
		negT := store.Combined(negID)
		tris := make([]raycast.Triangle, 0, neg.TriangleCount())
		for i := 0; i < neg.TriangleCount(); i++ {
			v0, v1, v2 := neg.Triangle(i)
			tris = append(tris, raycast.Triangle{
				V0: negT.Apply(v0),
				V1: negT.Apply(v1),
				V2: negT.Apply(v2),
			})
		}
		e.electrodes[id] = &electrodeState{model: m, scene: raycast.Build(tris)}
	}

	e.Refresh()
	return e, nil
}

// Refresh recomputes every moving electrode's world-space facets from
// the current pose state. Must be called after the pose store changes
// and before Evaluate.
func (e *Estimator) Refresh() {
	for id, st := range e.electrodes {
		t := e.store.Combined(id)
		st.facets = st.facets[:0]
		for i := 0; i < st.model.TriangleCount(); i++ {
			v0, v1, v2 := st.model.Triangle(i)
			st.facets = append(st.facets, worldFacet(t.Apply(v0), t.Apply(v1), t.Apply(v2)))
		}
	}
}

func worldFacet(v0, v1, v2 r3.Vec) Facet {
	cross := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))
	area := r3.Norm(cross) / 2
	f := Facet{
		Center:  r3.Scale(1.0/3.0, r3.Add(r3.Add(v0, v1), v2)),
		AreaMM2: area,
	}
	if area < degenerateAreaMM2 {
		f.Degenerate = true
		return f
	}
	f.Normal = r3.Scale(1/(2*area), cross)
	return f
}

// Evaluate estimates one electrode's capacitance at the current pose.
// Each facet casts a ray along each surface normal direction, and every
// ray that finds the counter-electrode within the cutoff adds its own
// parallel-plate contribution, so a facet between two surfaces counts
// twice.
func (e *Estimator) Evaluate(id pose.ModelID) (Sample, error) {
	st, ok := e.electrodes[id]
	if !ok {
		return Sample{}, fmt.Errorf("unknown electrode %s", id)
	}

	s := Sample{Model: id, TriangleCount: len(st.facets)}
	var distSum float64
	for _, f := range st.facets {
		if f.Degenerate {
			continue
		}
		areaM2 := f.AreaMM2 * units.SquareMetersPerSquareMillimeter
		for _, dir := range [2]r3.Vec{f.Normal, r3.Scale(-1, f.Normal)} {
			hit, ok := st.scene.Nearest(f.Center, dir, e.maxRayMM)
			if !ok {
				continue
			}
			s.Capacitance += Epsilon0 * e.relPerm * areaM2 / units.MillimetersToMeters(hit.Distance)
			s.HitCount++
			distSum += hit.Distance
		}
	}
	if s.HitCount > 0 {
		s.AvgHitDistanceMM = distSum / float64(s.HitCount)
	}
	return s, nil
}

// EvaluateAll evaluates every moving electrode in the fixed output
// order.
func (e *Estimator) EvaluateAll() ([]Sample, error) {
	out := make([]Sample, 0, len(pose.PositiveModels))
	for _, id := range pose.PositiveModels {
		s, err := e.Evaluate(id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
