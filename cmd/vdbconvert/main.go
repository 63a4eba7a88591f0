// Command vdbconvert converts between the two voxel grid container
// formats: one or more .vdb tree files into a single .nvdb compact
// file, or one or more .nvdb files into a single .vdb file. The
// direction is decided by the output file's extension.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robert-malhotra/go-vdb/internal/codec"
	"github.com/robert-malhotra/go-vdb/internal/convert"
	"github.com/robert-malhotra/go-vdb/nvdb"
)

var cli struct {
	Blosc    bool     `short:"b" xor:"codec" help:"Use blosc-style (LZ4) compression on the output file."`
	Zip      bool     `short:"z" xor:"codec" help:"Use ZIP compression on the output file."`
	Checksum string   `short:"c" default:"partial" enum:"none,partial,full" help:"Checksum mode: none, partial or full."`
	Stats    string   `short:"s" default:"all" enum:"none,bbox,extrema,all" help:"Statistics mode: none, bbox, extrema or all."`
	Grid     string   `short:"g" placeholder:"NAME" help:"Convert only the grid with the given name."`
	Force    bool     `short:"f" help:"Overwrite the output file if it already exists."`
	Verbose  bool     `short:"v" help:"Print progress information to the terminal."`
	Paths    []string `arg:"" name:"path" help:"One or more input files followed by exactly one output file."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("vdbconvert"),
		kong.Description("Convert one or more .vdb tree files to a single .nvdb compact file, "+
			"or one or more .nvdb files to a single .vdb file. "+
			"The direction is derived from the output file's extension."),
		kong.UsageOnError(),
	)
	os.Exit(run(ctx))
}

func run(ctx *kong.Context) int {
	if len(cli.Paths) < 2 {
		fmt.Fprintln(os.Stderr, "vdbconvert: expected at least one input file followed by exactly one output file")
		ctx.PrintUsage(false)
		return 1
	}

	job := &convert.Job{
		Inputs:   cli.Paths[:len(cli.Paths)-1],
		Output:   cli.Paths[len(cli.Paths)-1],
		Codec:    chosenCodec(),
		Stats:    statsMode(cli.Stats),
		Checksum: checksumMode(cli.Checksum),
		GridName: cli.Grid,
		Force:    cli.Force,
		Verbose:  cli.Verbose,
		Prompter: convert.NewTerminalPrompter(os.Stdin, os.Stdout),
		Log:      os.Stdout,
	}

	err := job.Run()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, convert.ErrCancelled):
		fmt.Println("Please specify a different output file")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "vdbconvert: %v\n", err)
		var usageErr *convert.UsageError
		if errors.As(err, &usageErr) {
			ctx.PrintUsage(false)
		}
		return 1
	}
}

func chosenCodec() codec.ID {
	switch {
	case cli.Blosc:
		return codec.Blosc
	case cli.Zip:
		return codec.Zip
	default:
		return codec.None
	}
}

// statsMode maps the CLI enum to its typed mode. kong has already
// validated the string.
func statsMode(s string) nvdb.StatsMode {
	switch s {
	case "none":
		return nvdb.StatsNone
	case "bbox":
		return nvdb.StatsBBox
	case "extrema":
		return nvdb.StatsExtrema
	default:
		return nvdb.StatsAll
	}
}

func checksumMode(s string) nvdb.ChecksumMode {
	switch s {
	case "none":
		return nvdb.ChecksumNone
	case "full":
		return nvdb.ChecksumFull
	default:
		return nvdb.ChecksumPartial
	}
}
