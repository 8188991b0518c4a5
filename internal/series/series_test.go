package series

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/pose"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCombinedScalesToMillimeters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TAG.csv",
		"A_x,A_y,A_z,B_x,B_y,B_z,C_x,C_y,C_z\n"+
			"0.001,0.002,0.003,0,0,0,0,0,-0.001\n")

	gs, err := LoadCombined(filepath.Join(dir, "TAG.csv"), pose.GroupTAG)
	if err != nil {
		t.Fatal(err)
	}
	if gs.Len() != 1 {
		t.Fatalf("rows = %d, want 1", gs.Len())
	}
	r := gs.Rows[0]
	if math.Abs(r.A.X-1) > 1e-12 || math.Abs(r.A.Y-2) > 1e-12 || math.Abs(r.A.Z-3) > 1e-12 {
		t.Errorf("A = %+v, want (1, 2, 3) mm", r.A)
	}
	if math.Abs(r.C.Z+1) > 1e-12 {
		t.Errorf("C.Z = %v, want -1 mm", r.C.Z)
	}
}

func TestLoadCombinedSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TBG.csv",
		"A_x,A_y,A_z,B_x,B_y,B_z,C_x,C_y,C_z\n"+
			"0,0,0,0,0,0,0,0,0\n"+
			"0,0,bad,0,0,0,0,0,0\n"+
			"1,1,1\n"+
			"0.001,0,0,0,0,0,0,0,0\n")

	gs, err := LoadCombined(filepath.Join(dir, "TBG.csv"), pose.GroupTBG)
	if err != nil {
		t.Fatal(err)
	}
	if gs.Len() != 2 {
		t.Errorf("rows = %d, want 2 (malformed skipped)", gs.Len())
	}
}

func TestLoadCombinedEmptyIsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TCG.csv", "A_x,A_y,A_z,B_x,B_y,B_z,C_x,C_y,C_z\n")
	if _, err := LoadCombined(filepath.Join(dir, "TCG.csv"), pose.GroupTCG); err == nil {
		t.Error("expected error for series with no valid rows")
	}
}

func TestLoadPerSphereTruncatesToShortest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TAG_A.csv", "x,y,z\n0.001,0,0\n0.002,0,0\n0.003,0,0\n")
	writeFile(t, dir, "TAG_B.csv", "x,y,z\n0,0.001,0\n0,0.002,0\n")
	writeFile(t, dir, "TAG_C.csv", "x,y,z\n0,0,0.001\n0,0,0.002\n0,0,0.003\n")

	gs, err := LoadPerSphere(dir, pose.GroupTAG)
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{
		{A: r3.Vec{X: 1}, B: r3.Vec{Y: 1}, C: r3.Vec{Z: 1}},
		{A: r3.Vec{X: 2}, B: r3.Vec{Y: 2}, C: r3.Vec{Z: 2}},
	}
	if diff := cmp.Diff(want, gs.Rows, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDirectoryPrefersCombined(t *testing.T) {
	dir := t.TempDir()
	header := "A_x,A_y,A_z,B_x,B_y,B_z,C_x,C_y,C_z\n"
	writeFile(t, dir, "TAG.csv", header+"0.005,0,0,0,0,0,0,0,0\n")
	// Per-sphere files for TAG too; the combined file must win.
	writeFile(t, dir, "TAG_A.csv", "x,y,z\n0.009,0,0\n")
	writeFile(t, dir, "TAG_B.csv", "x,y,z\n0,0,0\n")
	writeFile(t, dir, "TAG_C.csv", "x,y,z\n0,0,0\n")

	writeFile(t, dir, "TBG.csv", header+"0,0,0,0,0,0,0,0,0\n")
	writeFile(t, dir, "TCG.csv", header+"0,0,0,0,0,0,0,0,0\n")

	set, err := LoadDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := set[pose.GroupTAG].Rows[0].A.X; math.Abs(got-5) > 1e-12 {
		t.Errorf("TAG A.X = %v, want 5 (combined file preferred)", got)
	}
	if set.MaxRows() != 1 {
		t.Errorf("MaxRows = %d, want 1", set.MaxRows())
	}
}

func TestLoadDirectoryMissingGroupIsError(t *testing.T) {
	dir := t.TempDir()
	header := "A_x,A_y,A_z,B_x,B_y,B_z,C_x,C_y,C_z\n"
	writeFile(t, dir, "TAG.csv", header+"0,0,0,0,0,0,0,0,0\n")
	writeFile(t, dir, "TBG.csv", header+"0,0,0,0,0,0,0,0,0\n")
	// TCG absent entirely.

	if _, err := LoadDirectory(dir); err == nil {
		t.Error("expected error when a group has no series files")
	}
}

func TestSetMaxRowsAsymmetric(t *testing.T) {
	set := Set{
		pose.GroupTAG: GroupSeries{Group: pose.GroupTAG, Rows: make([]Row, 5)},
		pose.GroupTBG: GroupSeries{Group: pose.GroupTBG, Rows: make([]Row, 3)},
		pose.GroupTCG: GroupSeries{Group: pose.GroupTCG, Rows: make([]Row, 4)},
	}
	if set.MaxRows() != 5 {
		t.Errorf("MaxRows = %d, want 5", set.MaxRows())
	}
}
