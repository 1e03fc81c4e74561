package world

import "fmt"

// BlockType enumerates block categories.
type BlockType uint8

const (
	BlockAir BlockType = iota
	BlockSolid
)

// Block is a tagged value. The zero value is air.
type Block struct {
	Type  BlockType
	Color Color
}

func Air() Block {
	return Block{}
}

func Solid(c Color) Block {
	return Block{Type: BlockSolid, Color: c}
}

func (b Block) IsAir() bool {
	return b.Type == BlockAir
}

func (b Block) IsSolid() bool {
	return b.Type == BlockSolid
}

// BlockSource answers block queries in world space. Absent space reads as air.
type BlockSource interface {
	Block(pos BlockCoord) Block
}

// Chunk stores a dense ChunkSize³ block grid indexed x + y*16 + z*256.
// Chunk is not safe for concurrent mutation; World serializes writes.
type Chunk struct {
	origin BlockCoord
	blocks []Block
}

// NewChunk returns an all-air chunk with the given world-space origin.
func NewChunk(origin BlockCoord) *Chunk {
	return &Chunk{origin: origin, blocks: make([]Block, ChunkVolume)}
}

// NewChunkFromBlocks adopts blocks, which must hold exactly ChunkVolume entries.
func NewChunkFromBlocks(origin BlockCoord, blocks []Block) *Chunk {
	if len(blocks) != ChunkVolume {
		panic(fmt.Sprintf("world: chunk needs %d blocks, got %d", ChunkVolume, len(blocks)))
	}
	return &Chunk{origin: origin, blocks: blocks}
}

// Origin is the world-space position of the minimum corner.
func (c *Chunk) Origin() BlockCoord {
	return c.origin
}

func (c *Chunk) ID() ChunkID {
	return ChunkIDFromBlock(c.origin)
}

func inChunk(local BlockCoord) bool {
	return uint(local.X) < ChunkSize && uint(local.Y) < ChunkSize && uint(local.Z) < ChunkSize
}

func index(local BlockCoord) int {
	return local.X + local.Y<<ChunkShift + local.Z<<(2*ChunkShift)
}

func localAt(i int) BlockCoord {
	return BlockCoord{X: i & ChunkMask, Y: (i >> ChunkShift) & ChunkMask, Z: i >> (2 * ChunkShift)}
}

// LocalBlock reads a chunk-local position. Out-of-range positions read as air.
func (c *Chunk) LocalBlock(local BlockCoord) Block {
	if !inChunk(local) {
		return Block{}
	}
	return c.blocks[index(local)]
}

// SetLocalBlock writes a chunk-local position and reports whether it was in range.
func (c *Chunk) SetLocalBlock(local BlockCoord, block Block) bool {
	if !inChunk(local) {
		return false
	}
	c.blocks[index(local)] = block
	return true
}

// Block reads a world-space position.
func (c *Chunk) Block(pos BlockCoord) Block {
	return c.LocalBlock(pos.Sub(c.origin))
}

// SetBlock writes a world-space position; positions outside the chunk are ignored.
func (c *Chunk) SetBlock(pos BlockCoord, block Block) bool {
	return c.SetLocalBlock(pos.Sub(c.origin), block)
}

// Fill evaluates f once per block at its world position, x fastest, then y, then z.
func (c *Chunk) Fill(f func(pos BlockCoord) Block) {
	for i := range c.blocks {
		c.blocks[i] = f(c.origin.Add(localAt(i)))
	}
}

// ForEach visits every block with its world position in index order. Returning
// false stops the walk.
func (c *Chunk) ForEach(fn func(pos BlockCoord, block Block) bool) {
	for i, block := range c.blocks {
		if !fn(c.origin.Add(localAt(i)), block) {
			return
		}
	}
}

// MapBlocks transforms every block in index order.
func MapBlocks[T any](c *Chunk, fn func(pos BlockCoord, block Block) T) []T {
	out := make([]T, len(c.blocks))
	for i, block := range c.blocks {
		out[i] = fn(c.origin.Add(localAt(i)), block)
	}
	return out
}

// CompactMapBlocks keeps only the results fn marks as present.
func CompactMapBlocks[T any](c *Chunk, fn func(pos BlockCoord, block Block) (T, bool)) []T {
	var out []T
	for i, block := range c.blocks {
		if v, ok := fn(c.origin.Add(localAt(i)), block); ok {
			out = append(out, v)
		}
	}
	return out
}

func (c *Chunk) Clone() *Chunk {
	blocks := make([]Block, len(c.blocks))
	copy(blocks, c.blocks)
	return &Chunk{origin: c.origin, blocks: blocks}
}

// SolidCount reports how many blocks are not air.
func (c *Chunk) SolidCount() int {
	n := 0
	for _, block := range c.blocks {
		if !block.IsAir() {
			n++
		}
	}
	return n
}

func (c *Chunk) IsEmpty() bool {
	for _, block := range c.blocks {
		if !block.IsAir() {
			return false
		}
	}
	return true
}
