package sweep

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NanayasWorkshop/FT-Sim/internal/units"
)

// WriteResultsCSV writes the per-row capacitance table: one column per
// electrode plus a total, values in picofarads with five decimals, rows
// numbered from 1. The file is written to a temp name and renamed into
// place so a failed run never leaves a partial results file.
func WriteResultsCSV(path string, res *Results) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".results-*.csv")
	if err != nil {
		return fmt.Errorf("create temp results file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)

	header := make([]string, 0, len(res.Models)+2)
	header = append(header, "Row")
	for _, m := range res.Models {
		header = append(header, m.Short()+"_Capacitance_pF")
	}
	header = append(header, "Total_Capacitance_pF")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}

	rec := make([]string, len(header))
	for _, row := range res.Rows {
		rec[0] = fmt.Sprintf("%d", row.Row+1)
		for i, s := range row.Samples {
			rec[i+1] = units.FormatPicofarads(s.Capacitance)
		}
		rec[len(rec)-1] = units.FormatPicofarads(row.Total)
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write results row %d: %w", row.Row+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close results: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalize results: %w", err)
	}
	return nil
}
