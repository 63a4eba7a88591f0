// Package convert implements the batch conversion driver between the
// tree (.vdb) and compact (.nvdb) container formats.
//
// The two directions use structurally different write strategies. The
// compact format supports appending independent grid segments to an
// open stream, so tree inputs are translated and flushed one grid at a
// time. The tree format requires the complete grid set up front for its
// single atomic file write, so compact inputs are fully decoded and
// accumulated before the output is written once. The asymmetry is a
// property of the formats and is kept explicit here.
package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Recognized file extensions.
const (
	TreeExt    = ".vdb"
	CompactExt = ".nvdb"
)

// ErrCancelled is returned when the user declines the overwrite prompt.
// It is not a failure; callers map it to a clean exit.
var ErrCancelled = errors.New("conversion cancelled")

// UsageError marks an error caused by a malformed invocation, as
// opposed to a runtime failure. Callers print usage text for it.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// Direction is the conversion direction, derived from the output file's
// extension.
type Direction int

const (
	// ToCompact converts .vdb inputs into one .nvdb output.
	ToCompact Direction = iota
	// ToTree converts .nvdb inputs into one .vdb output.
	ToTree
)

// InputExt returns the extension every input file must have for this
// direction.
func (d Direction) InputExt() string {
	if d == ToCompact {
		return TreeExt
	}
	return CompactExt
}

// ClassifyDirection decides the conversion direction from the output
// path's extension. Any extension other than the two recognized ones is
// a usage error.
func ClassifyDirection(output string) (Direction, error) {
	switch ext(output) {
	case CompactExt:
		return ToCompact, nil
	case TreeExt:
		return ToTree, nil
	default:
		return 0, usageErrorf("unrecognized file extension: %q", ext(output))
	}
}

// ext returns the lower-cased extension of path.
func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// checkInputExt verifies one input file's extension against the
// direction fixed by the output file.
func checkInputExt(input string, dir Direction) error {
	if ext(input) != dir.InputExt() {
		return usageErrorf("since the output file has extension %s, input %q was expected to have extension %s",
			outputExt(dir), input, dir.InputExt())
	}
	return nil
}

func outputExt(dir Direction) string {
	if dir == ToCompact {
		return CompactExt
	}
	return TreeExt
}
