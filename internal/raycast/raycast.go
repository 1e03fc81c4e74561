// Package raycast walks voxel cells along a ray with a 3D DDA.
package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelengine/internal/world"
)

// Hit describes the first solid cell a ray enters.
type Hit struct {
	Position mgl32.Vec3
	Distance float32
	Cell     world.BlockCoord
	Face     world.Face
}

func (h Hit) Normal() mgl32.Vec3 {
	return h.Face.Normal()
}

// Adjacent is the cell on the near side of the hit face, where a placed
// block would go.
func (h Hit) Adjacent() world.BlockCoord {
	return h.Cell.Add(h.Face.Offset())
}

// Cast steps from origin along direction until it enters a non-air cell of
// src or travels farther than maxDistance. A *world.Chunk source confines the
// walk to that chunk since everything outside reads as air; a *world.World
// source follows the ray across loaded chunks. Distances are measured along
// the normalized direction. The starting cell is never reported. Inputs
// that are not finite never hit.
func Cast(src world.BlockSource, origin, direction mgl32.Vec3, maxDistance float32) (Hit, bool) {
	length := float64(direction.Len())
	if src == nil || length == 0 || !finite(length) || !finite(float64(maxDistance)) || maxDistance < 0 {
		return Hit{}, false
	}
	for axis := 0; axis < 3; axis++ {
		if !finite(float64(origin[axis])) || !finite(float64(direction[axis])) {
			return Hit{}, false
		}
	}
	var pos, dir, delta, side [3]float64
	var step, cell [3]int
	for axis := 0; axis < 3; axis++ {
		pos[axis] = float64(origin[axis])
		dir[axis] = float64(direction[axis]) / length
		delta[axis] = math.Abs(1 / dir[axis])
		cell[axis] = int(math.Floor(pos[axis]))
		if dir[axis] < 0 {
			step[axis] = -1
			side[axis] = (pos[axis] - float64(cell[axis])) * delta[axis]
		} else {
			step[axis] = 1
			side[axis] = (float64(cell[axis]) + 1 - pos[axis]) * delta[axis]
		}
	}

	for {
		axis := nextAxis(side)
		side[axis] += delta[axis]
		cell[axis] += step[axis]

		distance := math.Abs((float64(cell[axis]) - pos[axis] + float64(1-step[axis])/2) / dir[axis])
		if distance > float64(maxDistance) {
			return Hit{}, false
		}

		at := world.BlockCoord{X: cell[0], Y: cell[1], Z: cell[2]}
		if src.Block(at).IsAir() {
			continue
		}
		return Hit{
			Position: mgl32.Vec3{
				float32(pos[0] + dir[0]*distance),
				float32(pos[1] + dir[1]*distance),
				float32(pos[2] + dir[2]*distance),
			},
			Distance: float32(distance),
			Cell:     at,
			Face:     entryFace(axis, step[axis]),
		}, true
	}
}

// nextAxis picks the axis whose boundary is closest. Ties go to z, then y.
func nextAxis(side [3]float64) int {
	if side[0] < side[1] {
		if side[0] < side[2] {
			return 0
		}
		return 2
	}
	if side[1] < side[2] {
		return 1
	}
	return 2
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// entryFace names the face of the entered cell that the ray crossed.
func entryFace(axis, step int) world.Face {
	switch axis {
	case 0:
		if step > 0 {
			return world.FaceLeft
		}
		return world.FaceRight
	case 1:
		if step > 0 {
			return world.FaceDown
		}
		return world.FaceUp
	default:
		if step > 0 {
			return world.FaceFront
		}
		return world.FaceBack
	}
}
