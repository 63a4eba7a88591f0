// Package alloc plans the byte layout of VDB container files.
//
// A .vdb file is written in a single pass: the grid directory at the
// front of the file records the offset and length of every grid blob,
// so all placements must be decided before the first byte is written.
// The [Allocator] hands out non-overlapping extents for that plan and
// can validate the final layout.
package alloc
