// Package nvdb implements the compact read-optimized voxel grid format.
//
// An .nvdb file is a concatenation of self-describing grid segments.
// Each segment carries one grid: a header with the grid's name,
// transform and optional derived statistics, followed by the leaf
// payload passed through a compression codec. Segments are independent,
// so grids can be encoded and appended to an open stream one at a time;
// this is the structural difference from the tree format, which is
// written whole-file at once.
package nvdb

import "errors"

// Common errors
var (
	ErrNotNVDB            = errors.New("not an NVDB segment")
	ErrUnsupportedVersion = errors.New("unsupported NVDB segment version")
	ErrHeaderChecksum     = errors.New("segment header checksum mismatch")
	ErrPayloadChecksum    = errors.New("payload checksum mismatch")
	ErrEmptyHandle        = errors.New("empty grid handle")
)
