package alloc

import "fmt"

// Allocator hands out append-only extents starting at a base offset.
// Layout planning is single-threaded, so the allocator is not
// synchronized.
type Allocator struct {
	// end is the next allocation point (the planned end of file).
	end uint64

	// base is the minimum offset that can be allocated, typically the
	// end of the file header and directory.
	base uint64

	// extents records all allocations made, for validation.
	extents []Extent
}

// Extent is a single planned allocation.
type Extent struct {
	Offset uint64
	Size   uint64
	Tag    string // optional, for error messages
}

// New creates an Allocator starting at the given base offset.
func New(base uint64) *Allocator {
	return &Allocator{end: base, base: base}
}

// Alloc reserves size bytes and returns the extent's offset.
func (a *Allocator) Alloc(size uint64) uint64 {
	return a.AllocTagged(size, "")
}

// AllocTagged reserves size bytes with a tag for error reporting.
func (a *Allocator) AllocTagged(size uint64, tag string) uint64 {
	offset := a.end
	if size == 0 {
		return offset
	}
	a.end += size
	a.extents = append(a.extents, Extent{Offset: offset, Size: size, Tag: tag})
	return offset
}

// End returns the planned end-of-file offset.
func (a *Allocator) End() uint64 {
	return a.end
}

// Base returns the base offset.
func (a *Allocator) Base() uint64 {
	return a.base
}

// Extents returns a copy of all planned extents.
func (a *Allocator) Extents() []Extent {
	out := make([]Extent, len(a.extents))
	copy(out, a.extents)
	return out
}

// Validate checks that planned extents stay within bounds and do not
// overlap.
func (a *Allocator) Validate() error {
	for _, e := range a.extents {
		if e.Offset < a.base {
			return fmt.Errorf("extent %q at 0x%x is before base offset 0x%x", e.Tag, e.Offset, a.base)
		}
		if e.Offset+e.Size > a.end {
			return fmt.Errorf("extent %q at 0x%x size %d extends past end 0x%x", e.Tag, e.Offset, e.Size, a.end)
		}
	}

	for i := 0; i < len(a.extents); i++ {
		for j := i + 1; j < len(a.extents); j++ {
			e1, e2 := a.extents[i], a.extents[j]
			if e1.Offset < e2.Offset+e2.Size && e2.Offset < e1.Offset+e1.Size {
				return fmt.Errorf("overlapping extents: %q [0x%x, size %d] and %q [0x%x, size %d]",
					e1.Tag, e1.Offset, e1.Size, e2.Tag, e2.Offset, e2.Size)
			}
		}
	}
	return nil
}
