package world

import (
	"cmp"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ChunkShift is log2 of the chunk edge length.
	ChunkShift  = 4
	ChunkSize   = 1 << ChunkShift
	ChunkMask   = ChunkSize - 1
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// BlockCoord describes a block position, either in world space or local to a chunk.
type BlockCoord struct {
	X int
	Y int
	Z int
}

func (c BlockCoord) Add(o BlockCoord) BlockCoord {
	return BlockCoord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

func (c BlockCoord) Sub(o BlockCoord) BlockCoord {
	return BlockCoord{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

// Axis returns the component for axis 0 (x), 1 (y) or 2 (z).
func (c BlockCoord) Axis(axis int) int {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

func (c BlockCoord) withAxis(axis, v int) BlockCoord {
	switch axis {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	default:
		c.Z = v
	}
	return c
}

// Vec3 converts the block's minimum corner to a float vector.
func (c BlockCoord) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

func (c BlockCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// BlockCoordFromPoint floors a world-space point onto the block grid.
func BlockCoordFromPoint(p mgl32.Vec3) BlockCoord {
	return BlockCoord{
		X: int(math.Floor(float64(p[0]))),
		Y: int(math.Floor(float64(p[1]))),
		Z: int(math.Floor(float64(p[2]))),
	}
}

// ChunkID identifies a chunk on the chunk lattice.
type ChunkID struct {
	X int
	Y int
	Z int
}

// ChunkIDFromBlock shifts a world-space block position down to its chunk.
// The arithmetic shift floors negative coordinates.
func ChunkIDFromBlock(pos BlockCoord) ChunkID {
	return ChunkID{
		X: pos.X >> ChunkShift,
		Y: pos.Y >> ChunkShift,
		Z: pos.Z >> ChunkShift,
	}
}

// ChunkIDFromPoint returns the chunk containing a float world position.
func ChunkIDFromPoint(p mgl32.Vec3) ChunkID {
	return ChunkIDFromBlock(BlockCoordFromPoint(p))
}

func (id ChunkID) Add(o ChunkID) ChunkID {
	return ChunkID{X: id.X + o.X, Y: id.Y + o.Y, Z: id.Z + o.Z}
}

func (id ChunkID) Sub(o ChunkID) ChunkID {
	return ChunkID{X: id.X - o.X, Y: id.Y - o.Y, Z: id.Z - o.Z}
}

// Origin is the world-space position of the chunk's minimum corner.
func (id ChunkID) Origin() BlockCoord {
	return BlockCoord{X: id.X << ChunkShift, Y: id.Y << ChunkShift, Z: id.Z << ChunkShift}
}

// Distance is the Euclidean distance between two ids in chunk units.
func (id ChunkID) Distance(o ChunkID) float64 {
	dx := float64(id.X - o.X)
	dy := float64(id.Y - o.Y)
	dz := float64(id.Z - o.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (id ChunkID) String() string {
	return fmt.Sprintf("chunk(%d, %d, %d)", id.X, id.Y, id.Z)
}

// Compare orders ids by x, then y, then z.
func (id ChunkID) Compare(o ChunkID) int {
	if c := cmp.Compare(id.X, o.X); c != 0 {
		return c
	}
	if c := cmp.Compare(id.Y, o.Y); c != 0 {
		return c
	}
	return cmp.Compare(id.Z, o.Z)
}

// Extent is a box size in chunks.
type Extent struct {
	Width  int
	Height int
	Depth  int
}

// Centered lists every id of an extent centered on the origin chunk, x fastest.
func (e Extent) Centered() []ChunkID {
	if e.Width <= 0 || e.Height <= 0 || e.Depth <= 0 {
		return nil
	}
	ids := make([]ChunkID, 0, e.Width*e.Height*e.Depth)
	for z := 0; z < e.Depth; z++ {
		for y := 0; y < e.Height; y++ {
			for x := 0; x < e.Width; x++ {
				ids = append(ids, ChunkID{X: x - e.Width/2, Y: y - e.Height/2, Z: z - e.Depth/2})
			}
		}
	}
	return ids
}

// Cube lists the ids within radius chunks of center on every axis.
func Cube(center ChunkID, radius int) []ChunkID {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	ids := make([]ChunkID, 0, side*side*side)
	for z := -radius; z <= radius; z++ {
		for y := -radius; y <= radius; y++ {
			for x := -radius; x <= radius; x++ {
				ids = append(ids, center.Add(ChunkID{X: x, Y: y, Z: z}))
			}
		}
	}
	return ids
}
