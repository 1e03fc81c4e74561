package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxelengine/internal/noise"
	"voxelengine/internal/prng"
	"voxelengine/internal/world"
)

// Tower carves a noisy spire around the y axis. Solidity falls off with
// horizontal distance from the axis.
type Tower struct {
	shape *noise.Layered[*noise.Perlin]
	tint  *noise.Layered[*noise.Simplex]
}

func NewTower() *Tower {
	g := &Tower{}
	g.Reset(0)
	return g
}

func (g *Tower) Reset(seed uint64) {
	src := prng.NewXoroshiro128PlusPlus(seed)
	g.shape = noise.NewLayered(4, 0.05, 2.2, func() *noise.Perlin { return noise.NewPerlin(src) })
	g.tint = noise.NewLayered(3, 0.1, 1, func() *noise.Simplex { return noise.NewSimplex(src) })
}

func (g *Tower) MakeChunk(id world.ChunkID) *world.Chunk {
	return fillChunk(id, g.sample)
}

func (g *Tower) sample(p mgl64.Vec3) world.Block {
	gradient := math.Hypot(p.X(), p.Z()) / 14
	if gradient+g.shape.At3(p)-0.25 >= 0.6 {
		return world.Air()
	}
	hue := ((p.X()*0.5 + p.Y()) / 30) * 360
	saturation := 0.2 + g.tint.At3(p)*0.2
	value := 0.75 + g.tint.At4(p.Vec4(1).Mul(0.25))
	return world.Solid(world.HSV(hue, saturation, value).Linear())
}
