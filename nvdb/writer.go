package nvdb

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-vdb/internal/binary"
	"github.com/robert-malhotra/go-vdb/internal/codec"
)

// NVDB segment magic: N V D B S E G \0
var segmentMagic = []byte{'N', 'V', 'D', 'B', 'S', 'E', 'G', 0}

// Version is the current segment format version.
const Version = 1

// WriteGrid appends one encoded grid to the output stream, applying the
// given codec to the payload. Segments are self-contained; any number of
// grids can be written to the same stream in sequence.
func WriteGrid(w io.Writer, h Handle, codecID codec.ID) error {
	if h.Empty() {
		return ErrEmptyHandle
	}

	c, err := codec.New(codecID)
	if err != nil {
		return err
	}
	stored, err := c.Encode(h.payload)
	if err != nil {
		return fmt.Errorf("compressing grid %q: %w", h.name, err)
	}

	segment, err := assembleSegment(h, codecID, stored)
	if err != nil {
		return fmt.Errorf("assembling segment for grid %q: %w", h.name, err)
	}
	if _, err := w.Write(segment); err != nil {
		return fmt.Errorf("writing grid %q: %w", h.name, err)
	}
	return nil
}

func assembleSegment(h Handle, codecID codec.ID, stored []byte) ([]byte, error) {
	var flags uint16
	if h.bbox != nil {
		flags |= flagBBox
	}
	if h.extrema != nil {
		flags |= flagExtrema
	}

	var buf binary.Buffer
	bw := binary.NewWriter(&buf)

	if err := bw.WriteBytes(segmentMagic); err != nil {
		return nil, err
	}
	if err := bw.WriteUint16(Version); err != nil {
		return nil, err
	}
	if err := bw.WriteUint16(flags); err != nil {
		return nil, err
	}
	if err := bw.WriteUint8(uint8(codecID)); err != nil {
		return nil, err
	}
	if err := bw.WriteUint8(uint8(h.checksumMode)); err != nil {
		return nil, err
	}
	if err := bw.WriteString(h.name); err != nil {
		return nil, err
	}
	for _, v := range h.transform.VoxelSize {
		if err := bw.WriteFloat64(v); err != nil {
			return nil, err
		}
	}
	for _, v := range h.transform.Origin {
		if err := bw.WriteFloat64(v); err != nil {
			return nil, err
		}
	}
	if err := bw.WriteUint64(h.activeVoxels); err != nil {
		return nil, err
	}
	if h.bbox != nil {
		for _, v := range []int32{h.bbox.Min.X, h.bbox.Min.Y, h.bbox.Min.Z, h.bbox.Max.X, h.bbox.Max.Y, h.bbox.Max.Z} {
			if err := bw.WriteInt32(v); err != nil {
				return nil, err
			}
		}
	}
	if h.extrema != nil {
		if err := bw.WriteFloat32(h.extrema.Min); err != nil {
			return nil, err
		}
		if err := bw.WriteFloat32(h.extrema.Max); err != nil {
			return nil, err
		}
	}
	if err := bw.WriteUint64(uint64(len(h.payload))); err != nil {
		return nil, err
	}
	if err := bw.WriteUint64(uint64(len(stored))); err != nil {
		return nil, err
	}

	// The header checksum covers every byte written so far.
	var headerSum uint32
	if h.checksumMode != ChecksumNone {
		headerSum = binary.Lookup3Checksum(buf.Bytes())
	}
	if err := bw.WriteUint32(headerSum); err != nil {
		return nil, err
	}

	var payloadSum uint32
	if h.checksumMode == ChecksumFull {
		payloadSum = binary.Fletcher32(h.payload)
	}
	if err := bw.WriteUint32(payloadSum); err != nil {
		return nil, err
	}

	if err := bw.WriteBytes(stored); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
