package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-malhotra/go-vdb/internal/codec"
	"github.com/robert-malhotra/go-vdb/nvdb"
	"github.com/robert-malhotra/go-vdb/vdb"
)

// scriptedPrompter answers every confirmation with a fixed response and
// records whether it was consulted.
type scriptedPrompter struct {
	answer   bool
	prompted bool
}

func (p *scriptedPrompter) Confirm(prompt string) (bool, error) {
	p.prompted = true
	return p.answer, nil
}

func testGrid(name string, seed float32) *vdb.Grid {
	g := vdb.NewGrid(name)
	g.SetVoxel(vdb.Coord{X: 0, Y: 0, Z: 0}, seed)
	g.SetVoxel(vdb.Coord{X: -9, Y: 40, Z: 3}, seed*3)
	return g
}

// writeTreeFile creates a .vdb input file for the tests.
func writeTreeFile(t *testing.T, dir, name string, grids []*vdb.Grid) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := vdb.WriteFile(path, grids); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		output  string
		want    Direction
		wantErr bool
	}{
		{"out.nvdb", ToCompact, false},
		{"out.vdb", ToTree, false},
		{"dir/path/OUT.NVDB", ToCompact, false},
		{"out.txt", 0, true},
		{"out", 0, true},
		{"out.vdb.bak", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			dir, err := ClassifyDirection(tt.output)
			if tt.wantErr {
				var usageErr *UsageError
				if !errors.As(err, &usageErr) {
					t.Fatalf("expected UsageError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClassifyDirection failed: %v", err)
			}
			if dir != tt.want {
				t.Errorf("direction = %v, want %v", dir, tt.want)
			}
		})
	}
}

func TestRunRequiresOperands(t *testing.T) {
	job := &Job{}
	var usageErr *UsageError
	if err := job.Run(); !errors.As(err, &usageErr) {
		t.Errorf("expected UsageError, got %v", err)
	}
}

func TestRunRejectsMismatchedInputExtension(t *testing.T) {
	tmpDir := t.TempDir()
	output := filepath.Join(tmpDir, "out.nvdb")

	job := &Job{
		Inputs: []string{"a.vdb", "b.nvdb"},
		Output: output,
		Force:  true,
	}
	var usageErr *UsageError
	if err := job.Run(); !errors.As(err, &usageErr) {
		t.Fatalf("expected UsageError, got %v", err)
	}

	// The mismatch must abort before any file is touched.
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output file should not have been created")
	}
}

func TestOverwriteGuardDecline(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeTreeFile(t, tmpDir, "in.vdb", []*vdb.Grid{testGrid("g", 1)})

	output := filepath.Join(tmpDir, "out.nvdb")
	original := []byte("precious existing bytes")
	if err := os.WriteFile(output, original, 0o644); err != nil {
		t.Fatalf("writing existing output: %v", err)
	}

	prompter := &scriptedPrompter{answer: false}
	job := &Job{
		Inputs:   []string{input},
		Output:   output,
		Prompter: prompter,
	}

	if err := job.Run(); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if !prompter.prompted {
		t.Error("expected the prompter to be consulted")
	}

	// Declining must leave the file byte-for-byte untouched.
	after, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Equal(after, original) {
		t.Error("declined overwrite modified the output file")
	}
}

func TestOverwriteGuardSkips(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeTreeFile(t, tmpDir, "in.vdb", []*vdb.Grid{testGrid("g", 1)})

	tests := []struct {
		name   string
		output string
		setup  func(path string)
		force  bool
	}{
		{"missing output", "missing.nvdb", func(string) {}, false},
		{"empty output", "empty.nvdb", func(path string) { os.WriteFile(path, nil, 0o644) }, false},
		{"force", "forced.nvdb", func(path string) { os.WriteFile(path, []byte("x"), 0o644) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(tmpDir, tt.output)
			tt.setup(output)

			prompter := &scriptedPrompter{answer: false}
			job := &Job{
				Inputs:   []string{input},
				Output:   output,
				Force:    tt.force,
				Prompter: prompter,
			}
			if err := job.Run(); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if prompter.prompted {
				t.Error("prompter should not have been consulted")
			}
		})
	}
}

func TestRoundTripConversion(t *testing.T) {
	tmpDir := t.TempDir()

	// Two tree files with three grids between them.
	in1 := writeTreeFile(t, tmpDir, "in1.vdb", []*vdb.Grid{testGrid("density", 1), testGrid("velocity", 2)})
	in2 := writeTreeFile(t, tmpDir, "in2.vdb", []*vdb.Grid{testGrid("fog", 3)})

	compact := filepath.Join(tmpDir, "all.nvdb")
	toCompact := &Job{
		Inputs:   []string{in1, in2},
		Output:   compact,
		Codec:    codec.Zip,
		Stats:    nvdb.StatsAll,
		Checksum: nvdb.ChecksumFull,
		Force:    true,
	}
	if err := toCompact.Run(); err != nil {
		t.Fatalf("tree->compact failed: %v", err)
	}

	restored := filepath.Join(tmpDir, "restored.vdb")
	toTree := &Job{
		Inputs: []string{compact},
		Output: restored,
		Force:  true,
	}
	if err := toTree.Run(); err != nil {
		t.Fatalf("compact->tree failed: %v", err)
	}

	f, err := vdb.Open(restored)
	if err != nil {
		t.Fatalf("opening restored file: %v", err)
	}
	defer f.Close()

	wantNames := []string{"density", "velocity", "fog"}
	if names := f.GridNames(); len(names) != len(wantNames) {
		t.Fatalf("grid names = %v, want %v", names, wantNames)
	} else {
		for i := range wantNames {
			if names[i] != wantNames[i] {
				t.Errorf("grid %d = %q, want %q (input order must be preserved)", i, names[i], wantNames[i])
			}
		}
	}

	grids, err := f.ReadGrids()
	if err != nil {
		t.Fatalf("reading restored grids: %v", err)
	}
	seeds := []float32{1, 2, 3}
	for i, grid := range grids {
		for _, c := range []vdb.Coord{{X: 0, Y: 0, Z: 0}, {X: -9, Y: 40, Z: 3}} {
			want, _ := testGrid("", seeds[i]).Voxel(c)
			got, active := grid.Voxel(c)
			if !active || got != want {
				t.Errorf("grid %q voxel %v = %v active=%v, want %v", grid.Name(), c, got, active, want)
			}
		}
	}
}

func TestGridFilterSelectsOneGridPerInput(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeTreeFile(t, tmpDir, "in.vdb", []*vdb.Grid{testGrid("density", 1), testGrid("fog", 2)})

	output := filepath.Join(tmpDir, "out.nvdb")
	job := &Job{
		Inputs:   []string{input},
		Output:   output,
		GridName: "fog",
		Force:    true,
	}
	if err := job.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	handles, err := nvdb.ReadGrids(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(handles) != 1 || handles[0].GridName() != "fog" {
		t.Errorf("expected exactly the grid %q, got %d handles", "fog", len(handles))
	}
}

func TestGridFilterMissingToCompact(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeTreeFile(t, tmpDir, "in.vdb", []*vdb.Grid{testGrid("density", 1)})

	job := &Job{
		Inputs:   []string{input},
		Output:   filepath.Join(tmpDir, "out.nvdb"),
		GridName: "missing",
		Force:    true,
	}
	if err := job.Run(); !errors.Is(err, vdb.ErrGridNotFound) {
		t.Errorf("expected ErrGridNotFound, got %v", err)
	}
}

func TestGridFilterMissingToTree(t *testing.T) {
	tmpDir := t.TempDir()

	// Build a compact input with one grid.
	treeIn := writeTreeFile(t, tmpDir, "in.vdb", []*vdb.Grid{testGrid("density", 1)})
	compact := filepath.Join(tmpDir, "in.nvdb")
	seed := &Job{Inputs: []string{treeIn}, Output: compact, Force: true}
	if err := seed.Run(); err != nil {
		t.Fatalf("seeding compact input: %v", err)
	}

	output := filepath.Join(tmpDir, "out.vdb")
	job := &Job{
		Inputs:   []string{compact},
		Output:   output,
		GridName: "missing",
		Force:    true,
	}
	err := job.Run()
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected missing-grid error, got %v", err)
	}

	// The batch-then-write strategy must not have produced an output.
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output file should not have been written")
	}
}

func TestVerboseLogging(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeTreeFile(t, tmpDir, "in.vdb", []*vdb.Grid{testGrid("density", 1)})

	var log bytes.Buffer
	job := &Job{
		Inputs:  []string{input},
		Output:  filepath.Join(tmpDir, "out.nvdb"),
		Force:   true,
		Verbose: true,
		Log:     &log,
	}
	if err := job.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(log.String(), `"density"`) {
		t.Errorf("verbose log should mention the grid name, got %q", log.String())
	}
}
