package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxelengine/internal/prng"
)

// Perlin is improved gradient noise over 2D and 3D points.
type Perlin struct {
	perm Permutation
}

// NewPerlin draws a fresh permutation table from src.
func NewPerlin(src prng.Source) *Perlin {
	return &Perlin{perm: NewPermutation(src)}
}

func NewPerlinFromTable(table Permutation) *Perlin {
	return &Perlin{perm: table}
}

func (n *Perlin) Table() Permutation {
	return n.perm
}

func (n *Perlin) At2(p mgl64.Vec2) float64 {
	fx, fy := math.Floor(p[0]), math.Floor(p[1])
	xi, yi := int(fx)&0xFF, int(fy)&0xFF
	x, y := p[0]-fx, p[1]-fy
	u, v := fade(x), fade(y)

	a := n.perm.at(xi) + yi
	b := n.perm.at(xi+1) + yi

	return lerp(v,
		lerp(u, grad(n.perm.at(a), x, y, 0), grad(n.perm.at(b), x-1, y, 0)),
		lerp(u, grad(n.perm.at(a+1), x, y-1, 0), grad(n.perm.at(b+1), x-1, y-1, 0)),
	)
}

func (n *Perlin) At3(p mgl64.Vec3) float64 {
	fx, fy, fz := math.Floor(p[0]), math.Floor(p[1]), math.Floor(p[2])
	xi, yi, zi := int(fx)&0xFF, int(fy)&0xFF, int(fz)&0xFF
	x, y, z := p[0]-fx, p[1]-fy, p[2]-fz
	u, v, w := fade(x), fade(y), fade(z)

	a := n.perm.at(xi) + yi
	aa := n.perm.at(a) + zi
	ab := n.perm.at(a+1) + zi
	b := n.perm.at(xi+1) + yi
	ba := n.perm.at(b) + zi
	bb := n.perm.at(b+1) + zi

	near := lerp(v,
		lerp(u, grad(n.perm.at(aa), x, y, z), grad(n.perm.at(ba), x-1, y, z)),
		lerp(u, grad(n.perm.at(ab), x, y-1, z), grad(n.perm.at(bb), x-1, y-1, z)),
	)
	far := lerp(v,
		lerp(u, grad(n.perm.at(aa+1), x, y, z-1), grad(n.perm.at(ba+1), x-1, y, z-1)),
		lerp(u, grad(n.perm.at(ab+1), x, y-1, z-1), grad(n.perm.at(bb+1), x-1, y-1, z-1)),
	)
	return lerp(w, near, far)
}

// fade is the smootherstep curve 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad picks one of the 12 cube-edge gradients (16 with repeats) from the
// low four hash bits and dots it with the offset.
func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
