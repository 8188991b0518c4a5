package mesh

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// LoadOBJ reads a Wavefront OBJ file into a Model. Only vertex (v) and
// face (f) records are used; faces with more than three corners are
// fan-triangulated. Malformed records are skipped and counted; a file
// yielding no triangles is an error.
func LoadOBJ(path, name string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	m := &Model{Name: name}
	skipped := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, ok := parseVertex(fields)
			if !ok {
				skipped++
				continue
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			idx, ok := parseFace(fields, len(m.Vertices))
			if !ok {
				skipped++
				continue
			}
			// Fan-triangulate polygons.
			for i := 1; i+1 < len(idx); i++ {
				m.Indices = append(m.Indices, idx[0], idx[i], idx[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj %s: %w", path, err)
	}

	if skipped > 0 {
		log.Printf("mesh: %s: skipped %d malformed records", path, skipped)
	}
	if m.TriangleCount() == 0 {
		return nil, fmt.Errorf("obj %s contains no triangles", path)
	}
	return m, nil
}

func parseVertex(fields []string) (r3.Vec, bool) {
	if len(fields) < 4 {
		return r3.Vec{}, false
	}
	var c [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return r3.Vec{}, false
		}
		c[i] = v
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, true
}

// parseFace resolves face corner references ("7", "7/1", "7//3", "-1")
// to zero-based vertex indices.
func parseFace(fields []string, vertexCount int) ([]uint32, bool) {
	if len(fields) < 4 {
		return nil, false
	}
	idx := make([]uint32, 0, len(fields)-1)
	for _, ref := range fields[1:] {
		tok := ref
		if slash := strings.IndexByte(tok, '/'); slash >= 0 {
			tok = tok[:slash]
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n == 0 {
			return nil, false
		}
		if n < 0 {
			n = vertexCount + n + 1
		}
		if n < 1 || n > vertexCount {
			return nil, false
		}
		idx = append(idx, uint32(n-1))
	}
	return idx, true
}
