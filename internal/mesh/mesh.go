// Package mesh turns chunks into indexed triangle meshes and tracks the
// renderer handles built from them.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelengine/internal/world"
)

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    mgl32.Vec4
	TexCoord mgl32.Vec2
}

// Mesh is an indexed triangle list with positions local to its chunk.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// Triangles reports the number of triangles in the index list.
func (m *Mesh) Triangles() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

type corner struct {
	offset   mgl32.Vec3
	texCoord mgl32.Vec2
}

// quads holds the four corners of each face, wound for quadIndices.
var quads = [...][4]corner{
	world.FaceLeft: {
		{mgl32.Vec3{0, 0, 0}, mgl32.Vec2{0, 0}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec2{1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec2{0, 1}},
		{mgl32.Vec3{0, 1, 1}, mgl32.Vec2{1, 1}},
	},
	world.FaceRight: {
		{mgl32.Vec3{1, 0, 1}, mgl32.Vec2{0, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec2{1, 0}},
		{mgl32.Vec3{1, 1, 1}, mgl32.Vec2{0, 1}},
		{mgl32.Vec3{1, 1, 0}, mgl32.Vec2{1, 1}},
	},
	world.FaceDown: {
		{mgl32.Vec3{0, 0, 0}, mgl32.Vec2{0, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec2{1, 0}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec2{0, 1}},
		{mgl32.Vec3{1, 0, 1}, mgl32.Vec2{1, 1}},
	},
	world.FaceUp: {
		{mgl32.Vec3{0, 1, 1}, mgl32.Vec2{0, 0}},
		{mgl32.Vec3{1, 1, 1}, mgl32.Vec2{1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec2{0, 1}},
		{mgl32.Vec3{1, 1, 0}, mgl32.Vec2{1, 1}},
	},
	world.FaceBack: {
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec2{0, 0}},
		{mgl32.Vec3{1, 0, 1}, mgl32.Vec2{1, 0}},
		{mgl32.Vec3{0, 1, 1}, mgl32.Vec2{0, 1}},
		{mgl32.Vec3{1, 1, 1}, mgl32.Vec2{1, 1}},
	},
	world.FaceFront: {
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec2{0, 0}},
		{mgl32.Vec3{0, 0, 0}, mgl32.Vec2{1, 0}},
		{mgl32.Vec3{1, 1, 0}, mgl32.Vec2{0, 1}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec2{1, 1}},
	},
}

var quadIndices = [6]uint32{0, 1, 2, 2, 1, 3}

// Build emits one quad for every face of a solid block whose neighbor is
// air. Neighbors inside the chunk come from chunk itself; the rest come from
// src, and a nil src treats them as air.
func Build(src world.BlockSource, chunk *world.Chunk) Mesh {
	var m Mesh
	origin := chunk.Origin()
	chunk.ForEach(func(pos world.BlockCoord, block world.Block) bool {
		if !block.IsSolid() {
			return true
		}
		local := pos.Sub(origin).Vec3()
		color := block.Color.Vec4()
		for _, face := range world.Faces {
			if !exposed(src, chunk, pos.Add(face.Offset())) {
				continue
			}
			base := uint32(len(m.Vertices))
			normal := face.Normal()
			for _, c := range quads[face] {
				m.Vertices = append(m.Vertices, Vertex{
					Position: local.Add(c.offset),
					Normal:   normal,
					Color:    color,
					TexCoord: c.texCoord,
				})
			}
			for _, i := range quadIndices {
				m.Indices = append(m.Indices, base+i)
			}
		}
		return true
	})
	return m
}

func exposed(src world.BlockSource, chunk *world.Chunk, neighbor world.BlockCoord) bool {
	if world.ChunkIDFromBlock(neighbor) == chunk.ID() {
		return chunk.Block(neighbor).IsAir()
	}
	if src == nil {
		return true
	}
	return src.Block(neighbor).IsAir()
}
