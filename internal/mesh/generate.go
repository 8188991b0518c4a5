package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Plate generates a rectangular electrode surface of width x height mm
// in the XY plane, subdivided segments x segments, at the given Z
// offset. Triangles wind so the surface normal points along +Z.
func Plate(name string, width, height float64, segments int, z float64) *Model {
	if segments < 1 {
		segments = 1
	}
	m := &Model{Name: name}

	n := segments + 1
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			m.Vertices = append(m.Vertices, r3.Vec{
				X: -width/2 + width*float64(i)/float64(segments),
				Y: -height/2 + height*float64(j)/float64(segments),
				Z: z,
			})
		}
	}
	for j := 0; j < segments; j++ {
		for i := 0; i < segments; i++ {
			v00 := uint32(j*n + i)
			v10 := uint32(j*n + i + 1)
			v01 := uint32((j+1)*n + i)
			v11 := uint32((j+1)*n + i + 1)
			m.Indices = append(m.Indices, v00, v10, v11, v00, v11, v01)
		}
	}
	return m
}

// Sphere generates a UV sphere of the given radius in mm, centred at the
// origin. Used for the tracked reference spheres.
func Sphere(name string, radius float64, rings, sectors int) *Model {
	if rings < 3 {
		rings = 3
	}
	if sectors < 3 {
		sectors = 3
	}
	m := &Model{Name: name}

	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s <= sectors; s++ {
			theta := 2 * math.Pi * float64(s) / float64(sectors)
			m.Vertices = append(m.Vertices, r3.Vec{
				X: radius * math.Sin(phi) * math.Cos(theta),
				Y: radius * math.Cos(phi),
				Z: radius * math.Sin(phi) * math.Sin(theta),
			})
		}
	}
	cols := sectors + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			v00 := uint32(r*cols + s)
			v10 := uint32(r*cols + s + 1)
			v01 := uint32((r+1)*cols + s)
			v11 := uint32((r+1)*cols + s + 1)
			m.Indices = append(m.Indices, v00, v01, v11, v00, v11, v10)
		}
	}
	return m
}
