package nvdb

import (
	"fmt"

	"github.com/robert-malhotra/go-vdb/vdb"
)

// Segment header flag bits.
const (
	flagBBox    uint16 = 1 << 0
	flagExtrema uint16 = 1 << 1
)

// BBox is an inclusive index-space bounding box.
type BBox struct {
	Min, Max vdb.Coord
}

// Extrema holds the minimum and maximum active voxel values of a grid.
type Extrema struct {
	Min, Max float32
}

// Handle is one encoded grid: the segment header fields plus the raw
// (uncompressed) leaf payload. A zero Handle is "empty" and is the
// not-found result of ReadGrid.
type Handle struct {
	name         string
	transform    vdb.Transform
	activeVoxels uint64
	checksumMode ChecksumMode

	bbox    *BBox
	extrema *Extrema
	payload []byte
}

// Empty reports whether the handle holds no grid.
func (h Handle) Empty() bool {
	return h.payload == nil
}

// GridName returns the encoded grid's name.
func (h Handle) GridName() string {
	return h.name
}

// Transform returns the encoded grid's transform.
func (h Handle) Transform() vdb.Transform {
	return h.transform
}

// ActiveVoxelCount returns the number of active voxels recorded at
// encode time.
func (h Handle) ActiveVoxelCount() uint64 {
	return h.activeVoxels
}

// ChecksumMode returns the checksum mode the handle was encoded with.
func (h Handle) ChecksumMode() ChecksumMode {
	return h.checksumMode
}

// BBox returns the embedded bounding box, if the stats mode recorded one.
func (h Handle) BBox() (BBox, bool) {
	if h.bbox == nil {
		return BBox{}, false
	}
	return *h.bbox, true
}

// Extrema returns the embedded value extrema, if the stats mode recorded
// them.
func (h Handle) Extrema() (Extrema, bool) {
	if h.extrema == nil {
		return Extrema{}, false
	}
	return *h.extrema, true
}

// Grid decodes the handle back into a mutable tree grid.
func (h Handle) Grid() (*vdb.Grid, error) {
	if h.Empty() {
		return nil, ErrEmptyHandle
	}
	grid := vdb.NewGrid(h.name)
	grid.SetTransform(h.transform)
	if err := vdb.UnmarshalLeaves(grid, h.payload); err != nil {
		return nil, fmt.Errorf("decoding grid %q: %w", h.name, err)
	}
	return grid, nil
}
