package nvdb

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-vdb/internal/binary"
	"github.com/robert-malhotra/go-vdb/internal/codec"
	"github.com/robert-malhotra/go-vdb/vdb"
)

// segmentHeader is the parsed fixed part of a segment, before payload.
type segmentHeader struct {
	flags        uint16
	codecID      codec.ID
	checksumMode ChecksumMode
	name         string
	transform    vdb.Transform
	activeVoxels uint64
	bbox         *BBox
	extrema      *Extrema
	rawSize      uint64
	storedSize   uint64
	headerSum    uint32
	payloadSum   uint32
}

// ReadGrids reads every grid segment from the file at path.
func ReadGrids(path string) ([]Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return ReadGridsFrom(f, info.Size())
}

// ReadGridsFrom reads every grid segment from r, which holds size bytes
// of concatenated segments.
func ReadGridsFrom(r io.ReaderAt, size int64) ([]Handle, error) {
	br := binary.NewReader(r)
	var handles []Handle
	for br.Pos() < size {
		hdr, err := readSegmentHeader(br)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", len(handles), err)
		}
		h, err := readSegmentPayload(br, hdr)
		if err != nil {
			return nil, fmt.Errorf("segment %d (grid %q): %w", len(handles), hdr.name, err)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// ReadGrid scans the file at path for a segment with the given grid
// name. It returns an empty Handle, not an error, when no segment
// matches.
func ReadGrid(path, name string) (Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Handle{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Handle{}, fmt.Errorf("stat file: %w", err)
	}
	size := info.Size()

	br := binary.NewReader(f)
	index := 0
	for br.Pos() < size {
		hdr, err := readSegmentHeader(br)
		if err != nil {
			return Handle{}, fmt.Errorf("segment %d: %w", index, err)
		}
		if hdr.name != name {
			br.Skip(int64(hdr.storedSize))
			index++
			continue
		}
		h, err := readSegmentPayload(br, hdr)
		if err != nil {
			return Handle{}, fmt.Errorf("segment %d (grid %q): %w", index, name, err)
		}
		return h, nil
	}
	return Handle{}, nil
}

// readSegmentHeader parses and verifies a segment header, leaving the
// reader positioned at the start of the stored payload.
func readSegmentHeader(r *binary.Reader) (segmentHeader, error) {
	var hdr segmentHeader
	start := r.Pos()

	magic, err := r.ReadBytes(len(segmentMagic))
	if err != nil {
		return hdr, fmt.Errorf("reading magic: %w", ErrNotNVDB)
	}
	if !bytes.Equal(magic, segmentMagic) {
		return hdr, ErrNotNVDB
	}

	version, err := r.ReadUint16()
	if err != nil {
		return hdr, fmt.Errorf("reading version: %w", err)
	}
	if version > Version {
		return hdr, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	if hdr.flags, err = r.ReadUint16(); err != nil {
		return hdr, fmt.Errorf("reading flags: %w", err)
	}
	codecID, err := r.ReadUint8()
	if err != nil {
		return hdr, fmt.Errorf("reading codec: %w", err)
	}
	hdr.codecID = codec.ID(codecID)
	mode, err := r.ReadUint8()
	if err != nil {
		return hdr, fmt.Errorf("reading checksum mode: %w", err)
	}
	hdr.checksumMode = ChecksumMode(mode)

	if hdr.name, err = r.ReadString(); err != nil {
		return hdr, fmt.Errorf("reading grid name: %w", err)
	}
	for i := range hdr.transform.VoxelSize {
		if hdr.transform.VoxelSize[i], err = r.ReadFloat64(); err != nil {
			return hdr, fmt.Errorf("reading transform: %w", err)
		}
	}
	for i := range hdr.transform.Origin {
		if hdr.transform.Origin[i], err = r.ReadFloat64(); err != nil {
			return hdr, fmt.Errorf("reading transform: %w", err)
		}
	}
	if hdr.activeVoxels, err = r.ReadUint64(); err != nil {
		return hdr, fmt.Errorf("reading active voxel count: %w", err)
	}

	if hdr.flags&flagBBox != 0 {
		var bb BBox
		coords := []*int32{&bb.Min.X, &bb.Min.Y, &bb.Min.Z, &bb.Max.X, &bb.Max.Y, &bb.Max.Z}
		for _, c := range coords {
			if *c, err = r.ReadInt32(); err != nil {
				return hdr, fmt.Errorf("reading bounding box: %w", err)
			}
		}
		hdr.bbox = &bb
	}
	if hdr.flags&flagExtrema != 0 {
		var ex Extrema
		if ex.Min, err = r.ReadFloat32(); err != nil {
			return hdr, fmt.Errorf("reading extrema: %w", err)
		}
		if ex.Max, err = r.ReadFloat32(); err != nil {
			return hdr, fmt.Errorf("reading extrema: %w", err)
		}
		hdr.extrema = &ex
	}

	if hdr.rawSize, err = r.ReadUint64(); err != nil {
		return hdr, fmt.Errorf("reading raw size: %w", err)
	}
	if hdr.storedSize, err = r.ReadUint64(); err != nil {
		return hdr, fmt.Errorf("reading stored size: %w", err)
	}
	headerEnd := r.Pos()

	if hdr.headerSum, err = r.ReadUint32(); err != nil {
		return hdr, fmt.Errorf("reading header checksum: %w", err)
	}
	if hdr.payloadSum, err = r.ReadUint32(); err != nil {
		return hdr, fmt.Errorf("reading payload checksum: %w", err)
	}

	if hdr.checksumMode != ChecksumNone {
		headerBytes, err := r.At(start).ReadBytes(int(headerEnd - start))
		if err != nil {
			return hdr, fmt.Errorf("re-reading header: %w", err)
		}
		if !binary.VerifyLookup3(headerBytes, hdr.headerSum) {
			return hdr, fmt.Errorf("grid %q: %w", hdr.name, ErrHeaderChecksum)
		}
	}
	return hdr, nil
}

// readSegmentPayload reads and decodes the stored payload that follows
// a parsed header, returning the grid handle.
func readSegmentPayload(r *binary.Reader, hdr segmentHeader) (Handle, error) {
	stored, err := r.ReadBytes(int(hdr.storedSize))
	if err != nil {
		return Handle{}, fmt.Errorf("reading payload: %w", err)
	}

	c, err := codec.New(hdr.codecID)
	if err != nil {
		return Handle{}, err
	}
	payload, err := c.Decode(stored, int(hdr.rawSize))
	if err != nil {
		return Handle{}, fmt.Errorf("decompressing payload: %w", err)
	}

	if hdr.checksumMode == ChecksumFull {
		if !binary.VerifyFletcher32(payload, hdr.payloadSum) {
			return Handle{}, ErrPayloadChecksum
		}
	}

	return Handle{
		name:         hdr.name,
		transform:    hdr.transform,
		activeVoxels: hdr.activeVoxels,
		checksumMode: hdr.checksumMode,
		bbox:         hdr.bbox,
		extrema:      hdr.extrema,
		payload:      payload,
	}, nil
}
