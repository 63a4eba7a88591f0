package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-vdb/internal/codec"
	"github.com/robert-malhotra/go-vdb/nvdb"
	"github.com/robert-malhotra/go-vdb/vdb"
)

// Job is one batch conversion run. Inputs are processed in order and
// determine the grid order in the output.
type Job struct {
	Inputs []string
	Output string

	Codec    codec.ID
	Stats    nvdb.StatsMode
	Checksum nvdb.ChecksumMode

	// GridName restricts conversion to the single named grid per input
	// file. An input file without a matching grid is a fatal error in
	// both directions.
	GridName string

	Force   bool
	Verbose bool

	// Prompter handles the overwrite confirmation. Required unless
	// Force is set.
	Prompter Prompter

	// Log receives verbose progress output. Defaults to io.Discard.
	Log io.Writer
}

// Run performs the conversion. It returns ErrCancelled when the user
// declines to overwrite the output file, a *UsageError for invocation
// problems, and any other error for runtime failures. No per-file
// recovery is attempted.
func (j *Job) Run() error {
	if len(j.Inputs) < 1 || j.Output == "" {
		return usageErrorf("expected at least one input file followed by exactly one output file")
	}

	dir, err := ClassifyDirection(j.Output)
	if err != nil {
		return err
	}

	// Validate every input extension before touching any file, so a
	// mismatch anywhere in the list aborts with nothing written.
	for _, input := range j.Inputs {
		if err := checkInputExt(input, dir); err != nil {
			return err
		}
	}

	if !j.Force {
		ok, err := j.confirmOverwrite()
		if err != nil {
			return err
		}
		if !ok {
			return ErrCancelled
		}
	}

	if dir == ToCompact {
		return j.runToCompact()
	}
	return j.runToTree()
}

// confirmOverwrite prompts before clobbering a non-empty existing
// output file. A missing or empty file needs no confirmation.
func (j *Job) confirmOverwrite() (bool, error) {
	info, err := os.Stat(j.Output)
	if err != nil || info.Size() == 0 {
		return true, nil
	}
	return j.Prompter.Confirm(fmt.Sprintf("Overwrite the existing output file %q? [Y]/n: ", j.Output))
}

// runToCompact streams grids from tree inputs into the compact output,
// appending each encoded grid as soon as it is translated.
func (j *Job) runToCompact() error {
	out, err := os.Create(j.Output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	for _, input := range j.Inputs {
		if err := j.convertTreeFile(input, out); err != nil {
			return err
		}
	}
	return out.Close()
}

func (j *Job) convertTreeFile(input string, out io.Writer) error {
	j.logf("Opening VDB file %q", input)
	f, err := vdb.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	var grids []*vdb.Grid
	if j.GridName == "" {
		if grids, err = f.ReadGrids(); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	} else {
		grid, err := f.ReadGrid(j.GridName)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		grids = []*vdb.Grid{grid}
	}

	for _, grid := range grids {
		j.logf("Converting grid %q to the compact format", grid.Name())
		handle, err := nvdb.Encode(grid, j.Stats, j.Checksum)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		if err := nvdb.WriteGrid(out, handle, j.Codec); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	}
	return nil
}

// runToTree decodes every grid from every compact input first, then
// writes the tree output in one atomic operation.
func (j *Job) runToTree() error {
	var grids []*vdb.Grid
	for _, input := range j.Inputs {
		decoded, err := j.decodeCompactFile(input)
		if err != nil {
			return err
		}
		grids = append(grids, decoded...)
	}
	return vdb.WriteFile(j.Output, grids)
}

func (j *Job) decodeCompactFile(input string) ([]*vdb.Grid, error) {
	j.logf("Opening NVDB file %q", input)

	var handles []nvdb.Handle
	if j.GridName == "" {
		all, err := nvdb.ReadGrids(input)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}
		handles = all
	} else {
		handle, err := nvdb.ReadGrid(input, j.GridName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}
		if handle.Empty() {
			return nil, fmt.Errorf("%s: contains no grid named %q", input, j.GridName)
		}
		handles = []nvdb.Handle{handle}
	}

	grids := make([]*vdb.Grid, 0, len(handles))
	for _, handle := range handles {
		j.logf("Converting grid %q to the tree format", handle.GridName())
		grid, err := handle.Grid()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}
		grids = append(grids, grid)
	}
	return grids, nil
}

func (j *Job) logf(format string, args ...any) {
	if !j.Verbose || j.Log == nil {
		return
	}
	fmt.Fprintf(j.Log, format+"\n", args...)
}
