package vdb

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-vdb/internal/alloc"
	"github.com/robert-malhotra/go-vdb/internal/binary"
)

// WriteFile writes all grids to a new VDB file at path in a single
// operation, replacing any existing file. The directory at the front of
// the file records every blob's offset and length, so the complete grid
// set must be known up front; grids cannot be appended later.
func WriteFile(path string, grids []*Grid) error {
	if len(grids) == 0 {
		return ErrNoGrids
	}

	// Plan the layout before opening the file.
	dirSize := uint64(0)
	entries := make([]dirEntry, len(grids))
	for i, grid := range grids {
		entries[i] = dirEntry{name: grid.Name()}
		dirSize += entries[i].diskSize()
	}

	allocator := alloc.New(headerSize + dirSize)
	for i, grid := range grids {
		size := gridBlobSize(grid)
		entries[i].offset = allocator.AllocTagged(size, grid.Name())
		entries[i].length = size
	}
	if err := allocator.Validate(); err != nil {
		return fmt.Errorf("planning file layout: %w", err)
	}

	osFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := writeAll(osFile, entries, grids); err != nil {
		osFile.Close()
		os.Remove(path)
		return err
	}
	return osFile.Close()
}

func writeAll(osFile *os.File, entries []dirEntry, grids []*Grid) error {
	w := binary.NewWriter(osFile)

	if err := w.WriteBytes(Signature); err != nil {
		return fmt.Errorf("writing signature: %w", err)
	}
	if err := w.WriteUint32(Version); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}
	if err := w.WriteUint32(uint32(len(grids))); err != nil {
		return fmt.Errorf("writing grid count: %w", err)
	}

	for _, entry := range entries {
		if err := writeDirEntry(w, entry); err != nil {
			return fmt.Errorf("writing directory entry %q: %w", entry.name, err)
		}
	}

	for i, grid := range grids {
		gw := w.At(int64(entries[i].offset))
		if err := writeGridBlob(gw, grid); err != nil {
			return fmt.Errorf("writing grid %q: %w", grid.Name(), err)
		}
		if used := uint64(gw.Pos()) - entries[i].offset; used != entries[i].length {
			return fmt.Errorf("grid %q blob is %d bytes, planned %d", grid.Name(), used, entries[i].length)
		}
	}
	return nil
}

func writeDirEntry(w *binary.Writer, entry dirEntry) error {
	if err := w.WriteString(entry.name); err != nil {
		return err
	}
	if err := w.WriteUint64(entry.offset); err != nil {
		return err
	}
	return w.WriteUint64(entry.length)
}

// gridBlobSize returns the serialized size of a grid blob.
func gridBlobSize(g *Grid) uint64 {
	return transformSize + 4 + uint64(g.LeafCount())*leafDiskSize
}

func writeGridBlob(w *binary.Writer, g *Grid) error {
	if err := writeTransform(w, g.Transform()); err != nil {
		return err
	}
	leaves := g.Leaves()
	if err := w.WriteUint32(uint32(len(leaves))); err != nil {
		return err
	}
	for _, leaf := range leaves {
		if err := writeLeaf(w, leaf); err != nil {
			return err
		}
	}
	return nil
}

func writeTransform(w *binary.Writer, t Transform) error {
	for _, v := range t.VoxelSize {
		if err := w.WriteFloat64(v); err != nil {
			return err
		}
	}
	for _, v := range t.Origin {
		if err := w.WriteFloat64(v); err != nil {
			return err
		}
	}
	return nil
}

func writeLeaf(w *binary.Writer, leaf *Leaf) error {
	if err := w.WriteInt32(leaf.Origin.X); err != nil {
		return err
	}
	if err := w.WriteInt32(leaf.Origin.Y); err != nil {
		return err
	}
	if err := w.WriteInt32(leaf.Origin.Z); err != nil {
		return err
	}
	for _, word := range leaf.Mask {
		if err := w.WriteUint64(word); err != nil {
			return err
		}
	}
	for _, v := range leaf.Values {
		if err := w.WriteFloat32(v); err != nil {
			return err
		}
	}
	return nil
}
