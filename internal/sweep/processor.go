// Package sweep drives the pose store and capacitance estimator through
// a loaded displacement series, row by row or as a full run, and owns
// the result outputs.
package sweep

import (
	"fmt"
	"log"

	"github.com/NanayasWorkshop/FT-Sim/internal/cap"
	"github.com/NanayasWorkshop/FT-Sim/internal/geom"
	"github.com/NanayasWorkshop/FT-Sim/internal/pose"
	"github.com/NanayasWorkshop/FT-Sim/internal/series"
)

// Evaluator is the estimator surface the processor drives. Satisfied by
// *cap.Estimator.
type Evaluator interface {
	Refresh()
	EvaluateAll() ([]cap.Sample, error)
}

// RowResult holds one processed row's estimates.
type RowResult struct {
	Row     int
	Samples []cap.Sample
	Total   float64 // farads
}

// Results is a full run's output in row order.
type Results struct {
	Models []pose.ModelID
	Rows   []RowResult
}

const defaultProgressInterval = 50

// Processor walks a displacement series: per row it resets the pose
// store to neutral, solves each group's rigid transform from its
// tracked triple, and applies it. Groups whose series has run out keep
// their last applied pose.
type Processor struct {
	store         *pose.Store
	eval          Evaluator
	set           series.Set
	maxRows       int
	row           int
	envelopes     map[pose.Group]*Envelope
	progressEvery int
}

// NewProcessor returns an unloaded processor over a store and
// estimator.
func NewProcessor(store *pose.Store, eval Evaluator) *Processor {
	p := &Processor{
		store:         store,
		eval:          eval,
		row:           -1,
		envelopes:     make(map[pose.Group]*Envelope),
		progressEvery: defaultProgressInterval,
	}
	for _, g := range pose.MovingGroups {
		p.envelopes[g] = NewEnvelope(g)
	}
	return p
}

// SetProgressInterval overrides how often Sweep logs progress.
func (p *Processor) SetProgressInterval(n int) {
	if n > 0 {
		p.progressEvery = n
	}
}

// Load reads the displacement series from dir and resets all run state.
func (p *Processor) Load(dir string) error {
	set, err := series.LoadDirectory(dir)
	if err != nil {
		return err
	}
	p.UseSet(set)
	return nil
}

// UseSet installs an already loaded series set and resets all run
// state.
func (p *Processor) UseSet(set series.Set) {
	p.set = set
	p.maxRows = set.MaxRows()
	p.row = -1
	p.store.ClearApplied()
	p.store.ResetNeutral()
	for _, e := range p.envelopes {
		e.Reset()
	}
}

// Loaded reports whether a series set is installed.
func (p *Processor) Loaded() bool {
	return p.set != nil
}

// MaxRows returns the longest loaded series length.
func (p *Processor) MaxRows() int {
	return p.maxRows
}

// Row returns the current row index, or -1 before the first GotoRow.
func (p *Processor) Row() int {
	return p.row
}

// GotoRow applies row n's displacements. An out-of-range n leaves every
// piece of state untouched and returns false.
func (p *Processor) GotoRow(n int) bool {
	if !p.Loaded() || n < 0 || n >= p.maxRows {
		return false
	}
	p.applyRow(n)
	p.row = n
	return true
}

// Next advances one row; Prev steps one row back.
func (p *Processor) Next() bool { return p.GotoRow(p.row + 1) }
func (p *Processor) Prev() bool { return p.GotoRow(p.row - 1) }

func (p *Processor) applyRow(n int) {
	p.store.ResetNeutral()
	for _, g := range pose.MovingGroups {
		gs := p.set[g]
		if n >= gs.Len() {
			// Series exhausted: the group holds its last applied pose.
			continue
		}
		off := gs.Rows[n]
		rest := pose.RestingTriple(g)
		deformed := rest.Add(geom.Triple{A: off.A, B: off.B, C: off.C})

		ref := pose.ReferencePoint(g)
		restFrame := geom.FitFrame(rest, ref)
		defFrame := geom.FitFrame(deformed, ref)
		if defFrame.Degenerate {
			log.Printf("sweep: row %d: %s tracked points collinear, using centroid fallback", n, g)
		}

		p.store.ApplyCalculated(g, geom.RigidBetween(restFrame, defFrame))
		p.envelopes[g].Update(deformed.Circumcenter())
	}
}

// Evaluate refreshes the estimator against the current pose and returns
// the per-electrode samples and their total in farads.
func (p *Processor) Evaluate() ([]cap.Sample, float64, error) {
	p.eval.Refresh()
	samples, err := p.eval.EvaluateAll()
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, s := range samples {
		total += s.Capacitance
	}
	return samples, total, nil
}

// Sweep processes every row in order and collects the results. Progress
// is logged for the first row, every progress-interval-th row, and the
// last.
func (p *Processor) Sweep() (*Results, error) {
	if !p.Loaded() {
		return nil, fmt.Errorf("sweep: no series loaded")
	}

	res := &Results{Models: pose.PositiveModels}
	for n := 0; n < p.maxRows; n++ {
		p.GotoRow(n)
		samples, total, err := p.Evaluate()
		if err != nil {
			return nil, fmt.Errorf("evaluate row %d: %w", n, err)
		}
		res.Rows = append(res.Rows, RowResult{Row: n, Samples: samples, Total: total})

		if n == 0 || (n+1)%p.progressEvery == 0 || n == p.maxRows-1 {
			log.Printf("sweep: processed row %d/%d", n+1, p.maxRows)
		}
	}
	return res, nil
}

// Envelopes returns the motion envelopes in group processing order.
func (p *Processor) Envelopes() []*Envelope {
	out := make([]*Envelope, 0, len(pose.MovingGroups))
	for _, g := range pose.MovingGroups {
		out = append(out, p.envelopes[g])
	}
	return out
}

// RowInfo formats the current position for the interactive console.
func (p *Processor) RowInfo() string {
	if !p.Loaded() {
		return "no series loaded"
	}
	if p.row < 0 {
		return fmt.Sprintf("at start, %d rows loaded", p.maxRows)
	}
	return fmt.Sprintf("row %d of %d", p.row+1, p.maxRows)
}
