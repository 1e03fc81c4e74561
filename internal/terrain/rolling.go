package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelengine/internal/noise"
	"voxelengine/internal/prng"
	"voxelengine/internal/world"
)

const rollingThreshold = 0.6

// Rolling sums three Perlin bands over a vertical gradient and tints solids
// with simplex-driven HSV.
type Rolling struct {
	shape *noise.Perlin
	tint  *noise.Simplex
}

func NewRolling() *Rolling {
	g := &Rolling{}
	g.Reset(0)
	return g
}

func (g *Rolling) Reset(seed uint64) {
	src := prng.NewXoroshiro128PlusPlus(seed)
	g.shape = noise.NewPerlin(src)
	g.tint = noise.NewSimplex(src)
}

func (g *Rolling) MakeChunk(id world.ChunkID) *world.Chunk {
	return fillChunk(id, g.sample)
}

func (g *Rolling) sample(p mgl64.Vec3) world.Block {
	value := p.Y()/world.ChunkSize +
		g.shape.At3(p.Mul(0.05))*1.1 +
		g.shape.At3(p.Mul(0.10))*0.5 +
		g.shape.At3(p.Mul(0.30))*0.23
	if value >= rollingThreshold {
		return world.Air()
	}
	q := p.Mul(0.05)
	hue := 180 + g.tint.At3(q)*180
	saturation := 0.5 + g.tint.At4(q.Vec4(4))*0.5
	brightness := 0.5 + g.tint.At4(q.Vec4(9))*0.5
	return world.Solid(world.HSV(hue, saturation, 0.5+brightness*0.5).Linear())
}
