// Package vdb implements the mutable tree-based voxel grid format.
//
// A grid stores sparse float32 voxel data in 8x8x8 leaf blocks indexed
// by their origin coordinate. Grids are serialized to .vdb container
// files; a file holds any number of named grids and is always written
// in a single atomic operation (see WriteFile).
package vdb

import "errors"

// Common errors
var (
	ErrNotVDB             = errors.New("not a VDB file")
	ErrUnsupportedVersion = errors.New("unsupported VDB file version")
	ErrGridNotFound       = errors.New("grid not found")
	ErrClosed             = errors.New("file is closed")
	ErrNoGrids            = errors.New("no grids to write")
)
