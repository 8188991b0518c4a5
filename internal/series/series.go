// Package series ingests the displacement time series that drive the
// moving electrode groups. Input files carry meters; rows are converted
// to millimeters on load.
package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/pose"
	"github.com/NanayasWorkshop/FT-Sim/internal/units"
)

// Row holds one time step's displacement offsets for a group's three
// tracked spheres, in millimeters.
type Row struct {
	A, B, C r3.Vec
}

// GroupSeries is one group's full displacement series. Immutable after
// load.
type GroupSeries struct {
	Group pose.Group
	Rows  []Row
}

// Len returns the number of rows in the series.
func (s GroupSeries) Len() int {
	return len(s.Rows)
}

// Set maps each moving group to its loaded series.
type Set map[pose.Group]GroupSeries

// MaxRows returns the longest series length in the set.
func (s Set) MaxRows() int {
	max := 0
	for _, gs := range s {
		if gs.Len() > max {
			max = gs.Len()
		}
	}
	return max
}

// LoadCombined reads a combined displacement file for one group: a
// header line followed by nine numeric columns (A/B/C times x/y/z).
// Malformed rows are skipped and logged; a file with no valid rows is
// an error.
func LoadCombined(path string, g pose.Group) (GroupSeries, error) {
	records, err := readRecords(path)
	if err != nil {
		return GroupSeries{}, err
	}

	gs := GroupSeries{Group: g}
	skipped := 0
	for _, rec := range records {
		vals, ok := parseFloats(rec, 9)
		if !ok {
			skipped++
			continue
		}
		gs.Rows = append(gs.Rows, Row{
			A: offsetMM(vals[0], vals[1], vals[2]),
			B: offsetMM(vals[3], vals[4], vals[5]),
			C: offsetMM(vals[6], vals[7], vals[8]),
		})
	}
	if skipped > 0 {
		log.Printf("series: %s: skipped %d malformed rows", path, skipped)
	}
	if len(gs.Rows) == 0 {
		return GroupSeries{}, fmt.Errorf("series %s: no valid rows", path)
	}
	return gs, nil
}

// LoadPerSphere reads a group's series from three per-sphere files
// ("<G>_A.csv" etc., three numeric columns each). The files are zipped
// row-by-row and truncated to the shortest.
func LoadPerSphere(dir string, g pose.Group) (GroupSeries, error) {
	var cols [3][]r3.Vec
	for i, sphere := range []string{"A", "B", "C"} {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", g, sphere))
		records, err := readRecords(path)
		if err != nil {
			return GroupSeries{}, err
		}
		skipped := 0
		for _, rec := range records {
			vals, ok := parseFloats(rec, 3)
			if !ok {
				skipped++
				continue
			}
			cols[i] = append(cols[i], offsetMM(vals[0], vals[1], vals[2]))
		}
		if skipped > 0 {
			log.Printf("series: %s: skipped %d malformed rows", path, skipped)
		}
	}

	n := len(cols[0])
	for _, c := range cols[1:] {
		if len(c) < n {
			n = len(c)
		}
	}
	if n == 0 {
		return GroupSeries{}, fmt.Errorf("per-sphere series for %s in %s: no valid rows", g, dir)
	}

	gs := GroupSeries{Group: g, Rows: make([]Row, n)}
	for i := 0; i < n; i++ {
		gs.Rows[i] = Row{A: cols[0][i], B: cols[1][i], C: cols[2][i]}
	}
	return gs, nil
}

// LoadDirectory loads all three moving groups from dir. A combined
// "<G>.csv" is preferred; otherwise the per-sphere files are used. Any
// group that cannot be loaded fails the whole load.
func LoadDirectory(dir string) (Set, error) {
	set := make(Set, len(pose.MovingGroups))
	for _, g := range pose.MovingGroups {
		combined := filepath.Join(dir, g.String()+".csv")
		var (
			gs  GroupSeries
			err error
		)
		if _, statErr := os.Stat(combined); statErr == nil {
			gs, err = LoadCombined(combined, g)
		} else {
			gs, err = LoadPerSphere(dir, g)
		}
		if err != nil {
			return nil, fmt.Errorf("load series for %s: %w", g, err)
		}
		set[g] = gs
	}
	return set, nil
}

// readRecords reads all CSV records after the header line.
func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read series %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseFloats(rec []string, n int) ([]float64, bool) {
	if len(rec) < n {
		return nil, false
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func offsetMM(x, y, z float64) r3.Vec {
	return r3.Vec{
		X: units.MetersToMillimeters(x),
		Y: units.MetersToMillimeters(y),
		Z: units.MetersToMillimeters(z),
	}
}
