package vdb

import (
	"math"
	"math/bits"
	"sort"
)

// Leaf dimensions. Leaves are cubic blocks of 8x8x8 voxels.
const (
	LeafLog2Dim = 3
	LeafDim     = 1 << LeafLog2Dim // 8
	LeafSize    = LeafDim * LeafDim * LeafDim
	leafMask    = LeafDim - 1
)

// Coord is a signed voxel coordinate in grid index space.
type Coord struct {
	X, Y, Z int32
}

// Vec3d is a 3-component double-precision vector.
type Vec3d [3]float64

// Transform maps grid index space to world space.
type Transform struct {
	VoxelSize Vec3d
	Origin    Vec3d
}

// DefaultTransform returns a unit transform (voxel size 1, origin 0).
func DefaultTransform() Transform {
	return Transform{VoxelSize: Vec3d{1, 1, 1}}
}

// leafOrigin returns the origin of the leaf containing c.
func leafOrigin(c Coord) Coord {
	return Coord{c.X &^ leafMask, c.Y &^ leafMask, c.Z &^ leafMask}
}

// leafOffset returns the linear offset of c within its leaf,
// x varying fastest.
func leafOffset(c Coord) int {
	x := int(c.X & leafMask)
	y := int(c.Y & leafMask)
	z := int(c.Z & leafMask)
	return (z*LeafDim+y)*LeafDim + x
}

// Leaf is an 8x8x8 block of voxels. Mask holds the 512 active-state
// bits, x varying fastest; Values holds the corresponding voxel values.
// Origin components are always multiples of LeafDim.
type Leaf struct {
	Origin Coord
	Mask   [LeafSize / 64]uint64
	Values [LeafSize]float32
}

// Active reports whether the voxel at the given linear offset is active.
func (l *Leaf) Active(offset int) bool {
	return l.Mask[offset>>6]&(1<<(uint(offset)&63)) != 0
}

// setActive marks the voxel at the given linear offset active.
func (l *Leaf) setActive(offset int) {
	l.Mask[offset>>6] |= 1 << (uint(offset) & 63)
}

// ActiveCount returns the number of active voxels in the leaf.
func (l *Leaf) ActiveCount() int {
	count := 0
	for _, word := range l.Mask {
		count += bits.OnesCount64(word)
	}
	return count
}

// Grid is a sparse named voxel grid.
type Grid struct {
	name      string
	transform Transform
	leaves    map[Coord]*Leaf
}

// NewGrid creates an empty grid with the given name and a unit transform.
func NewGrid(name string) *Grid {
	return &Grid{
		name:      name,
		transform: DefaultTransform(),
		leaves:    make(map[Coord]*Leaf),
	}
}

// Name returns the grid name.
func (g *Grid) Name() string {
	return g.name
}

// Transform returns the grid transform.
func (g *Grid) Transform() Transform {
	return g.transform
}

// SetTransform sets the grid transform.
func (g *Grid) SetTransform(t Transform) {
	g.transform = t
}

// SetVoxel sets the voxel at c to v and marks it active.
func (g *Grid) SetVoxel(c Coord, v float32) {
	origin := leafOrigin(c)
	leaf, ok := g.leaves[origin]
	if !ok {
		leaf = &Leaf{Origin: origin}
		g.leaves[origin] = leaf
	}
	offset := leafOffset(c)
	leaf.Values[offset] = v
	leaf.setActive(offset)
}

// Voxel returns the value at c and whether the voxel is active.
// Inactive voxels report the zero value.
func (g *Grid) Voxel(c Coord) (float32, bool) {
	leaf, ok := g.leaves[leafOrigin(c)]
	if !ok {
		return 0, false
	}
	offset := leafOffset(c)
	if !leaf.Active(offset) {
		return 0, false
	}
	return leaf.Values[offset], true
}

// LeafCount returns the number of allocated leaves.
func (g *Grid) LeafCount() int {
	return len(g.leaves)
}

// ActiveVoxelCount returns the total number of active voxels.
func (g *Grid) ActiveVoxelCount() uint64 {
	var count uint64
	for _, leaf := range g.leaves {
		count += uint64(leaf.ActiveCount())
	}
	return count
}

// Leaves returns the grid's leaves ordered by origin (Z, then Y, then X).
// The ordering is deterministic so serialized output is reproducible.
func (g *Grid) Leaves() []*Leaf {
	leaves := make([]*Leaf, 0, len(g.leaves))
	for _, leaf := range g.leaves {
		leaves = append(leaves, leaf)
	}
	sort.Slice(leaves, func(i, j int) bool {
		a, b := leaves[i].Origin, leaves[j].Origin
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return leaves
}

// AddLeaf installs a leaf, replacing any existing leaf with the same
// origin. The leaf's origin components must be multiples of LeafDim.
func (g *Grid) AddLeaf(leaf *Leaf) {
	g.leaves[leaf.Origin] = leaf
}

// IndexBBox returns the inclusive bounding box of all active voxels in
// index space. ok is false for a grid with no active voxels.
func (g *Grid) IndexBBox() (min, max Coord, ok bool) {
	min = Coord{math.MaxInt32, math.MaxInt32, math.MaxInt32}
	max = Coord{math.MinInt32, math.MinInt32, math.MinInt32}
	for _, leaf := range g.leaves {
		for offset := 0; offset < LeafSize; offset++ {
			if !leaf.Active(offset) {
				continue
			}
			ok = true
			c := Coord{
				leaf.Origin.X + int32(offset&leafMask),
				leaf.Origin.Y + int32((offset>>LeafLog2Dim)&leafMask),
				leaf.Origin.Z + int32(offset>>(2*LeafLog2Dim)),
			}
			if c.X < min.X {
				min.X = c.X
			}
			if c.Y < min.Y {
				min.Y = c.Y
			}
			if c.Z < min.Z {
				min.Z = c.Z
			}
			if c.X > max.X {
				max.X = c.X
			}
			if c.Y > max.Y {
				max.Y = c.Y
			}
			if c.Z > max.Z {
				max.Z = c.Z
			}
		}
	}
	if !ok {
		return Coord{}, Coord{}, false
	}
	return min, max, true
}

// Extrema returns the minimum and maximum active voxel values.
// ok is false for a grid with no active voxels.
func (g *Grid) Extrema() (min, max float32, ok bool) {
	min = float32(math.Inf(1))
	max = float32(math.Inf(-1))
	for _, leaf := range g.leaves {
		for offset := 0; offset < LeafSize; offset++ {
			if !leaf.Active(offset) {
				continue
			}
			ok = true
			v := leaf.Values[offset]
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}
