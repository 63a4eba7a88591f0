package nvdb

import (
	"fmt"

	"github.com/robert-malhotra/go-vdb/vdb"
)

// Encode translates a tree grid into a compact-format handle. The stats
// mode selects which derived statistics are embedded in the segment
// header; the checksum mode is recorded on the handle and applied when
// the handle is written to a stream.
func Encode(g *vdb.Grid, stats StatsMode, checksum ChecksumMode) (Handle, error) {
	payload, err := vdb.MarshalLeaves(g)
	if err != nil {
		return Handle{}, fmt.Errorf("encoding grid %q: %w", g.Name(), err)
	}

	h := Handle{
		name:         g.Name(),
		transform:    g.Transform(),
		activeVoxels: g.ActiveVoxelCount(),
		checksumMode: checksum,
		payload:      payload,
	}

	if stats == StatsBBox || stats == StatsAll {
		if min, max, ok := g.IndexBBox(); ok {
			h.bbox = &BBox{Min: min, Max: max}
		} else {
			h.bbox = &BBox{}
		}
	}
	if stats == StatsExtrema || stats == StatsAll {
		if min, max, ok := g.Extrema(); ok {
			h.extrema = &Extrema{Min: min, Max: max}
		} else {
			h.extrema = &Extrema{}
		}
	}
	return h, nil
}
