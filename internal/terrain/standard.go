package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelengine/internal/noise"
	"voxelengine/internal/prng"
	"voxelengine/internal/world"
)

// Standard layers a broad simplex height field under Perlin detail that is
// stretched twice as fast vertically. Solids sit where the sum is negative.
type Standard struct {
	height  *noise.Layered[*noise.Simplex]
	terrain *noise.Layered[*noise.Perlin]
	color   *noise.Layered[*noise.Simplex]
}

func NewStandard() *Standard {
	g := &Standard{}
	g.Reset(0)
	return g
}

func (g *Standard) Reset(seed uint64) {
	src := prng.NewPCG32(seed)
	simplex := func() *noise.Simplex { return noise.NewSimplex(src) }
	perlin := func() *noise.Perlin { return noise.NewPerlin(src) }

	// Draw order fixes the tables, so keep it stable.
	g.height = noise.NewLayered(200, 0.0002, 2.0, simplex)
	g.terrain = noise.NewLayered(10, 0.01, 0.437, perlin)
	g.color = noise.NewLayered(150, 0.0006667, 17.0, simplex)
}

func (g *Standard) MakeChunk(id world.ChunkID) *world.Chunk {
	origin := id.Origin()
	chunk := world.NewChunk(origin)

	for z := 0; z < world.ChunkSize; z++ {
		for x := 0; x < world.ChunkSize; x++ {
			column := mgl64.Vec2{float64(origin.X + x), float64(origin.Z + z)}
			height := g.height.At2(column)
			for y := 0; y < world.ChunkSize; y++ {
				local := world.BlockCoord{X: x, Y: y, Z: z}
				p := point(origin.Add(local))
				value := p.Y()/64 + height + g.terrain.At3(mgl64.Vec3{p.X(), p.Y() * 2, p.Z()})
				if value < 0 {
					hue := 180 + g.color.At3(p)*180
					chunk.SetLocalBlock(local, world.Solid(world.HSV(hue, 0.47, 0.9).Linear()))
				}
			}
		}
	}
	return chunk
}
