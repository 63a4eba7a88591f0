package vdb

import (
	"bytes"
	"fmt"

	"github.com/robert-malhotra/go-vdb/internal/binary"
)

// MarshalLeaves serializes a grid's leaves to the payload form shared by
// both container formats: a uint32 leaf count followed by the leaves in
// deterministic order.
func MarshalLeaves(g *Grid) ([]byte, error) {
	var buf binary.Buffer
	w := binary.NewWriter(&buf)

	leaves := g.Leaves()
	if err := w.WriteUint32(uint32(len(leaves))); err != nil {
		return nil, err
	}
	for _, leaf := range leaves {
		if err := writeLeaf(w, leaf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalLeaves decodes a leaf payload produced by MarshalLeaves into
// the grid, replacing any leaves with matching origins.
func UnmarshalLeaves(g *Grid, data []byte) error {
	r := binary.NewReader(bytes.NewReader(data))

	leafCount, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("reading leaf count: %w", err)
	}
	if want := 4 + uint64(leafCount)*leafDiskSize; want != uint64(len(data)) {
		return fmt.Errorf("leaf payload is %d bytes, expected %d for %d leaves", len(data), want, leafCount)
	}
	for i := uint32(0); i < leafCount; i++ {
		leaf, err := readLeaf(r)
		if err != nil {
			return fmt.Errorf("reading leaf %d: %w", i, err)
		}
		g.AddLeaf(leaf)
	}
	return nil
}
