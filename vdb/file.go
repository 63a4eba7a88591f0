package vdb

import (
	"bytes"
	"fmt"
	"os"

	"github.com/robert-malhotra/go-vdb/internal/binary"
)

// VDB file signature: 0x89 V D B \r \n 0x1a \n
var Signature = []byte{0x89, 'V', 'D', 'B', '\r', '\n', 0x1a, '\n'}

// Version is the current container format version.
const Version = 1

// Sizes of fixed on-disk structures.
const (
	headerSize    = 8 + 4 + 4                     // signature, version, grid count
	transformSize = 6 * 8                         // voxel size + origin, float64 each
	leafDiskSize  = 3*4 + LeafSize/8 + LeafSize*4 // origin, mask, values
)

// dirEntry locates one grid blob within the file.
type dirEntry struct {
	name   string
	offset uint64
	length uint64
}

func (e dirEntry) diskSize() uint64 {
	return 2 + uint64(len(e.name)) + 8 + 8
}

// File represents an open VDB container file.
type File struct {
	path    string
	file    *os.File
	reader  *binary.Reader
	version uint32
	entries []dirEntry
	closed  bool
}

// Open opens a VDB file for reading and parses its grid directory.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	reader := binary.NewReader(f)
	vf := &File{
		path:   path,
		file:   f,
		reader: reader,
	}
	if err := vf.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return vf, nil
}

func (f *File) readHeader() error {
	sig, err := f.reader.ReadBytes(len(Signature))
	if err != nil {
		return fmt.Errorf("reading signature: %w", ErrNotVDB)
	}
	if !bytes.Equal(sig, Signature) {
		return ErrNotVDB
	}

	version, err := f.reader.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading version: %w", err)
	}
	if version > Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	f.version = version

	gridCount, err := f.reader.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading grid count: %w", err)
	}

	f.entries = make([]dirEntry, 0, gridCount)
	for i := uint32(0); i < gridCount; i++ {
		name, err := f.reader.ReadString()
		if err != nil {
			return fmt.Errorf("reading directory entry %d: %w", i, err)
		}
		offset, err := f.reader.ReadUint64()
		if err != nil {
			return fmt.Errorf("reading directory entry %d: %w", i, err)
		}
		length, err := f.reader.ReadUint64()
		if err != nil {
			return fmt.Errorf("reading directory entry %d: %w", i, err)
		}
		f.entries = append(f.entries, dirEntry{name: name, offset: offset, length: length})
	}
	return nil
}

// Close closes the file.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// FileVersion returns the container format version of the file.
func (f *File) FileVersion() int {
	return int(f.version)
}

// GridCount returns the number of grids in the file.
func (f *File) GridCount() int {
	return len(f.entries)
}

// GridNames returns the grid names in directory (write) order.
func (f *File) GridNames() []string {
	names := make([]string, len(f.entries))
	for i, e := range f.entries {
		names[i] = e.name
	}
	return names
}

// ReadGrids decodes every grid in the file, preserving directory order.
func (f *File) ReadGrids() ([]*Grid, error) {
	if f.closed {
		return nil, ErrClosed
	}
	grids := make([]*Grid, 0, len(f.entries))
	for _, entry := range f.entries {
		grid, err := f.readGridAt(entry)
		if err != nil {
			return nil, fmt.Errorf("reading grid %q: %w", entry.name, err)
		}
		grids = append(grids, grid)
	}
	return grids, nil
}

// ReadGrid decodes the grid with the given name.
func (f *File) ReadGrid(name string) (*Grid, error) {
	if f.closed {
		return nil, ErrClosed
	}
	for _, entry := range f.entries {
		if entry.name == name {
			grid, err := f.readGridAt(entry)
			if err != nil {
				return nil, fmt.Errorf("reading grid %q: %w", name, err)
			}
			return grid, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrGridNotFound, name)
}

func (f *File) readGridAt(entry dirEntry) (*Grid, error) {
	r := f.reader.At(int64(entry.offset))

	grid := NewGrid(entry.name)
	transform, err := readTransform(r)
	if err != nil {
		return nil, fmt.Errorf("reading transform: %w", err)
	}
	grid.SetTransform(transform)

	leafCount, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading leaf count: %w", err)
	}
	for i := uint32(0); i < leafCount; i++ {
		leaf, err := readLeaf(r)
		if err != nil {
			return nil, fmt.Errorf("reading leaf %d: %w", i, err)
		}
		grid.AddLeaf(leaf)
	}

	if used := uint64(r.Pos()) - entry.offset; used != entry.length {
		return nil, fmt.Errorf("grid blob is %d bytes, directory says %d", used, entry.length)
	}
	return grid, nil
}

func readTransform(r *binary.Reader) (Transform, error) {
	var t Transform
	for i := range t.VoxelSize {
		v, err := r.ReadFloat64()
		if err != nil {
			return t, err
		}
		t.VoxelSize[i] = v
	}
	for i := range t.Origin {
		v, err := r.ReadFloat64()
		if err != nil {
			return t, err
		}
		t.Origin[i] = v
	}
	return t, nil
}

func readLeaf(r *binary.Reader) (*Leaf, error) {
	leaf := &Leaf{}
	var err error
	if leaf.Origin.X, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if leaf.Origin.Y, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if leaf.Origin.Z, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	for i := range leaf.Mask {
		if leaf.Mask[i], err = r.ReadUint64(); err != nil {
			return nil, err
		}
	}
	for i := range leaf.Values {
		if leaf.Values[i], err = r.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	return leaf, nil
}
