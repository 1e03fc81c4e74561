package terrain

import "voxelengine/internal/world"

// Flat generates a superflat slab: bedrock at y=0, stone at y=1..2, dirt at
// y=3 and grass at y=4. Everything else is air. The seed is ignored.
type Flat struct {
	layers []world.Block
}

func NewFlat() *Flat {
	return &Flat{layers: []world.Block{
		world.Solid(world.HSV(0, 0, 0.2).Linear()),
		world.Solid(world.HSV(0, 0, 0.5).Linear()),
		world.Solid(world.HSV(0, 0, 0.5).Linear()),
		world.Solid(world.HSV(30, 0.6, 0.45).Linear()),
		world.Solid(world.HSV(110, 0.55, 0.65).Linear()),
	}}
}

func (g *Flat) Reset(uint64) {}

// SurfaceHeight is the y of the topmost solid block.
func (g *Flat) SurfaceHeight() int {
	return len(g.layers) - 1
}

func (g *Flat) MakeChunk(id world.ChunkID) *world.Chunk {
	chunk := world.NewChunk(id.Origin())
	origin := id.Origin()
	if origin.Y > g.SurfaceHeight() || origin.Y+world.ChunkSize <= 0 {
		return chunk
	}
	chunk.Fill(func(pos world.BlockCoord) world.Block {
		if pos.Y < 0 || pos.Y >= len(g.layers) {
			return world.Air()
		}
		return g.layers[pos.Y]
	})
	return chunk
}
