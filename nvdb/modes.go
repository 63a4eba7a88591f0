package nvdb

import "fmt"

// StatsMode controls which derived statistics are computed and embedded
// in a segment header during encoding.
type StatsMode uint8

const (
	StatsNone    StatsMode = 0 // no statistics
	StatsBBox    StatsMode = 1 // index-space bounding box only
	StatsExtrema StatsMode = 2 // min/max voxel values only
	StatsAll     StatsMode = 3 // bounding box and extrema

	// StatsDefault is the mode used when none is requested.
	StatsDefault = StatsAll
)

// String returns the mode name as used on the command line.
func (m StatsMode) String() string {
	switch m {
	case StatsNone:
		return "none"
	case StatsBBox:
		return "bbox"
	case StatsExtrema:
		return "extrema"
	case StatsAll:
		return "all"
	default:
		return fmt.Sprintf("stats(%d)", uint8(m))
	}
}

// ChecksumMode controls which integrity checksums are embedded in a
// segment during encoding. Checksums present in a segment are always
// verified on read.
type ChecksumMode uint8

const (
	ChecksumNone    ChecksumMode = 0 // no checksums
	ChecksumPartial ChecksumMode = 1 // header checksum only
	ChecksumFull    ChecksumMode = 2 // header and payload checksums

	// ChecksumDefault is the mode used when none is requested.
	ChecksumDefault = ChecksumPartial
)

// String returns the mode name as used on the command line.
func (m ChecksumMode) String() string {
	switch m {
	case ChecksumNone:
		return "none"
	case ChecksumPartial:
		return "partial"
	case ChecksumFull:
		return "full"
	default:
		return fmt.Sprintf("checksum(%d)", uint8(m))
	}
}
