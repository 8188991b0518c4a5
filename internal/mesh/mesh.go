// Package mesh supplies the triangulated electrode surfaces: OBJ files
// from a models directory, or generated plate/sphere geometry when no
// directory is configured.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/pose"
)

// Model is one electrode body's triangulated surface in its local frame
// (millimeters). Indices address Vertices in groups of three.
type Model struct {
	Name     string
	Vertices []r3.Vec
	Indices  []uint32
}

// TriangleCount returns the number of complete triangles.
func (m *Model) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the i-th triangle's vertices.
func (m *Model) Triangle(i int) (v0, v1, v2 r3.Vec) {
	base := i * 3
	return m.Vertices[m.Indices[base]], m.Vertices[m.Indices[base+1]], m.Vertices[m.Indices[base+2]]
}

// Provider resolves electrode bodies by identifier.
type Provider interface {
	Model(id pose.ModelID) (*Model, error)
}

// Library is the default Provider: it caches one Model per electrode.
type Library struct {
	models map[pose.ModelID]*Model
}

// Model returns the cached mesh for an electrode.
func (l *Library) Model(id pose.ModelID) (*Model, error) {
	m, ok := l.models[id]
	if !ok {
		return nil, fmt.Errorf("no mesh for model %s", id)
	}
	return m, nil
}

// SphereRadiusMM is the body radius of the tracked reference spheres.
const SphereRadiusMM = 2.0

// GeneratorConfig sizes the built-in geometry used when no models
// directory is available.
type GeneratorConfig struct {
	PlateSegments int
	SphereRings   int
	SphereSectors int
}

// NewGeneratedLibrary builds a Library from generated geometry: a plate
// electrode per moving body and a larger plate per stationary
// counter-electrode, offset 1 mm behind the moving pair.
func NewGeneratedLibrary(cfg GeneratorConfig) *Library {
	l := &Library{models: make(map[pose.ModelID]*Model)}
	for _, id := range pose.PositiveModels {
		l.models[id] = Plate(id.String(), 8, 8, cfg.PlateSegments, 0)
	}
	for _, id := range []pose.ModelID{pose.ModelNegA, pose.ModelNegB, pose.ModelNegC} {
		l.models[id] = Plate(id.String(), 12, 12, cfg.PlateSegments, 1.0)
	}
	l.addTrackedSpheres(cfg)
	return l
}

// addTrackedSpheres registers the reference sphere bodies. These are
// always generated; the OBJ sets ship electrodes only.
func (l *Library) addTrackedSpheres(cfg GeneratorConfig) {
	for _, id := range pose.TrackedSpheres {
		l.models[id] = Sphere(id.String(), SphereRadiusMM, cfg.SphereRings, cfg.SphereSectors)
	}
}

// NewOBJLibrary loads every electrode mesh from dir. Moving electrodes
// load "<name>.obj"; the stationary electrodes share a single
// "stationary_negative.obj" mesh. A missing or empty file is fatal.
// Tracked spheres are generated with cfg as in NewGeneratedLibrary.
func NewOBJLibrary(dir string, cfg GeneratorConfig) (*Library, error) {
	l := &Library{models: make(map[pose.ModelID]*Model)}
	for _, id := range pose.PositiveModels {
		m, err := LoadOBJ(dir+"/"+id.String()+".obj", id.String())
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", id, err)
		}
		l.models[id] = m
	}

	neg, err := LoadOBJ(dir+"/stationary_negative.obj", "stationary_negative")
	if err != nil {
		return nil, fmt.Errorf("load stationary negative: %w", err)
	}
	for _, id := range []pose.ModelID{pose.ModelNegA, pose.ModelNegB, pose.ModelNegC} {
		named := *neg
		named.Name = id.String()
		l.models[id] = &named
	}
	l.addTrackedSpheres(cfg)
	return l, nil
}
