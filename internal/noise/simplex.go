package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxelengine/internal/prng"
)

var (
	sqrt3 = math.Sqrt(3)
	sqrt5 = math.Sqrt(5)

	skew2   = 0.5 * (sqrt3 - 1)
	unskew2 = (3 - sqrt3) / 6
	skew4   = (sqrt5 - 1) / 4
	unskew4 = (5 - sqrt5) / 20
)

const (
	skew3   = 1.0 / 3.0
	unskew3 = 1.0 / 6.0

	scale2 = 70
	scale3 = 32
	scale4 = 27
)

var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

var grad4 = [32][4]float64{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

// Simplex is simplex noise over 2D, 3D and 4D points.
type Simplex struct {
	perm  Permutation
	mod12 [TableSize]uint8
}

func NewSimplex(src prng.Source) *Simplex {
	return NewSimplexFromTable(NewPermutation(src))
}

func NewSimplexFromTable(table Permutation) *Simplex {
	s := &Simplex{perm: table}
	for i, v := range table {
		s.mod12[i] = v % 12
	}
	return s
}

func (n *Simplex) Table() Permutation {
	return n.perm
}

func (n *Simplex) gradIndex3(i int) int {
	return int(n.mod12[i&(TableSize-1)])
}

// corner returns (r² - d²)^4 or zero outside the kernel radius.
func corner(r2, d2 float64) float64 {
	t := r2 - d2
	if t < 0 {
		return 0
	}
	t *= t
	return t * t
}

func (n *Simplex) At2(p mgl64.Vec2) float64 {
	s := (p[0] + p[1]) * skew2
	i := math.Floor(p[0] + s)
	j := math.Floor(p[1] + s)
	t := (i + j) * unskew2
	x0 := p[0] - (i - t)
	y0 := p[1] - (j - t)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + unskew2
	y1 := y0 - float64(j1) + unskew2
	x2 := x0 - 1 + 2*unskew2
	y2 := y0 - 1 + 2*unskew2

	ii, jj := int(i)&0xFF, int(j)&0xFF
	g0 := grad3[n.gradIndex3(ii+n.perm.at(jj))]
	g1 := grad3[n.gradIndex3(ii+i1+n.perm.at(jj+j1))]
	g2 := grad3[n.gradIndex3(ii+1+n.perm.at(jj+1))]

	sum := corner(0.5, x0*x0+y0*y0)*(g0[0]*x0+g0[1]*y0) +
		corner(0.5, x1*x1+y1*y1)*(g1[0]*x1+g1[1]*y1) +
		corner(0.5, x2*x2+y2*y2)*(g2[0]*x2+g2[1]*y2)
	return scale2 * sum
}

func (n *Simplex) At3(p mgl64.Vec3) float64 {
	s := (p[0] + p[1] + p[2]) * skew3
	i := math.Floor(p[0] + s)
	j := math.Floor(p[1] + s)
	k := math.Floor(p[2] + s)
	t := (i + j + k) * unskew3
	x0 := p[0] - (i - t)
	y0 := p[1] - (j - t)
	z0 := p[2] - (k - t)

	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	offsets := [4][3]float64{
		{x0, y0, z0},
		{x0 - float64(i1) + unskew3, y0 - float64(j1) + unskew3, z0 - float64(k1) + unskew3},
		{x0 - float64(i2) + 2*unskew3, y0 - float64(j2) + 2*unskew3, z0 - float64(k2) + 2*unskew3},
		{x0 - 1 + 3*unskew3, y0 - 1 + 3*unskew3, z0 - 1 + 3*unskew3},
	}

	ii, jj, kk := int(i)&0xFF, int(j)&0xFF, int(k)&0xFF
	hashes := [4]int{
		n.gradIndex3(ii + n.perm.at(jj+n.perm.at(kk))),
		n.gradIndex3(ii + i1 + n.perm.at(jj+j1+n.perm.at(kk+k1))),
		n.gradIndex3(ii + i2 + n.perm.at(jj+j2+n.perm.at(kk+k2))),
		n.gradIndex3(ii + 1 + n.perm.at(jj+1+n.perm.at(kk+1))),
	}

	var sum float64
	for c, o := range offsets {
		g := grad3[hashes[c]]
		sum += corner(0.6, o[0]*o[0]+o[1]*o[1]+o[2]*o[2]) * (g[0]*o[0] + g[1]*o[1] + g[2]*o[2])
	}
	return scale3 * sum
}

func (n *Simplex) At4(p mgl64.Vec4) float64 {
	s := (p[0] + p[1] + p[2] + p[3]) * skew4
	i := math.Floor(p[0] + s)
	j := math.Floor(p[1] + s)
	k := math.Floor(p[2] + s)
	l := math.Floor(p[3] + s)
	t := (i + j + k + l) * unskew4
	x0 := p[0] - (i - t)
	y0 := p[1] - (j - t)
	z0 := p[2] - (k - t)
	w0 := p[3] - (l - t)

	// Rank each axis by pairwise comparison to find the simplex traversal order.
	var rx, ry, rz, rw int
	rank := func(a, b float64, ra, rb *int) {
		if a > b {
			*ra++
		} else {
			*rb++
		}
	}
	rank(x0, y0, &rx, &ry)
	rank(x0, z0, &rx, &rz)
	rank(x0, w0, &rx, &rw)
	rank(y0, z0, &ry, &rz)
	rank(y0, w0, &ry, &rw)
	rank(z0, w0, &rz, &rw)

	step := func(r, threshold int) int {
		if r >= threshold {
			return 1
		}
		return 0
	}

	ii, jj, kk, ll := int(i)&0xFF, int(j)&0xFF, int(k)&0xFF, int(l)&0xFF
	var sum float64
	for c := 0; c <= 4; c++ {
		var di, dj, dk, dl int
		switch c {
		case 0:
		case 4:
			di, dj, dk, dl = 1, 1, 1, 1
		default:
			threshold := 4 - c
			di, dj, dk, dl = step(rx, threshold), step(ry, threshold), step(rz, threshold), step(rw, threshold)
		}
		off := float64(c) * unskew4
		x := x0 - float64(di) + off
		y := y0 - float64(dj) + off
		z := z0 - float64(dk) + off
		w := w0 - float64(dl) + off

		h := n.perm.at(ii+di+n.perm.at(jj+dj+n.perm.at(kk+dk+n.perm.at(ll+dl)))) & 0x1F
		g := grad4[h]
		sum += corner(0.6, x*x+y*y+z*z+w*w) * (g[0]*x + g[1]*y + g[2]*z + g[3]*w)
	}
	return scale4 * sum
}
