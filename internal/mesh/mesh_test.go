package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"voxelengine/internal/world"
)

// chunkSource serves blocks from a fixed set of chunks.
type chunkSource map[world.ChunkID]*world.Chunk

func (s chunkSource) Block(pos world.BlockCoord) world.Block {
	if chunk, ok := s[world.ChunkIDFromBlock(pos)]; ok {
		return chunk.Block(pos)
	}
	return world.Air()
}

var red = world.Color{R: 1, A: 1}

func TestBuildSingleBlock(t *testing.T) {
	chunk := world.NewChunk(world.ChunkID{X: 2}.Origin())
	chunk.SetLocalBlock(world.BlockCoord{X: 3, Y: 4, Z: 5}, world.Solid(red))

	m := Build(nil, chunk)
	require.Len(t, m.Vertices, 24)
	require.Len(t, m.Indices, 36)
	assert.Equal(t, 12, m.Triangles())

	lo := mgl32.Vec3{3, 4, 5}
	hi := mgl32.Vec3{4, 5, 6}
	for _, v := range m.Vertices {
		for axis := 0; axis < 3; axis++ {
			assert.GreaterOrEqual(t, v.Position[axis], lo[axis])
			assert.LessOrEqual(t, v.Position[axis], hi[axis])
		}
		assert.Equal(t, red.Vec4(), v.Color)
	}
	for _, i := range m.Indices {
		assert.Less(t, i, uint32(len(m.Vertices)))
	}
}

func TestBuildQuadLayout(t *testing.T) {
	chunk := world.NewChunk(world.BlockCoord{})
	chunk.SetLocalBlock(world.BlockCoord{}, world.Solid(red))

	m := Build(nil, chunk)
	require.Len(t, m.Vertices, 24)

	// Faces come out left, right, down, up, back, front.
	back := m.Vertices[16:20]
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, back[0].Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, back[3].Position)
	assert.Equal(t, mgl32.Vec2{1, 0}, back[1].TexCoord)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, back[0].Normal)

	front := m.Vertices[20:24]
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, front[0].Position)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, front[0].Normal)

	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3}, m.Indices[:6])
	assert.Equal(t, []uint32{20, 21, 22, 22, 21, 23}, m.Indices[30:])
}

func TestBuildAllAirIsEmpty(t *testing.T) {
	m := Build(nil, world.NewChunk(world.BlockCoord{}))
	assert.True(t, m.IsEmpty())
	assert.Empty(t, m.Vertices)
}

func TestBuildCullsSharedFaces(t *testing.T) {
	chunk := world.NewChunk(world.BlockCoord{})
	chunk.SetLocalBlock(world.BlockCoord{X: 7, Y: 7, Z: 7}, world.Solid(red))
	chunk.SetLocalBlock(world.BlockCoord{X: 8, Y: 7, Z: 7}, world.Solid(red))

	m := Build(nil, chunk)
	assert.Len(t, m.Vertices, 40)
	assert.Len(t, m.Indices, 60)
}

func TestBuildReadsNeighborChunks(t *testing.T) {
	a := world.NewChunk(world.BlockCoord{})
	b := world.NewChunk(world.ChunkID{X: 1}.Origin())
	a.SetLocalBlock(world.BlockCoord{X: world.ChunkMask, Y: 2, Z: 2}, world.Solid(red))
	src := chunkSource{a.ID(): a, b.ID(): b}

	assert.Len(t, Build(src, a).Vertices, 24)

	b.SetLocalBlock(world.BlockCoord{X: 0, Y: 2, Z: 2}, world.Solid(red))
	assert.Len(t, Build(src, a).Vertices, 20)
}

func TestChunkMeshesDrawsAtChunkOrigin(t *testing.T) {
	renderer := NewHeadless(0)
	meshes := NewChunkMeshes(renderer, zaptest.NewLogger(t))

	id := world.ChunkID{X: -1, Y: 2, Z: 3}
	chunk := world.NewChunk(id.Origin())
	chunk.SetLocalBlock(world.BlockCoord{}, world.Solid(red))
	m := Build(nil, chunk)
	require.NoError(t, meshes.Set(id, &m))

	assert.Equal(t, 1, meshes.Draw())
	handle, ok := meshes.Handle(id)
	require.True(t, ok)
	model, ok := renderer.Model(handle)
	require.True(t, ok)
	assert.Equal(t, mgl32.Translate3D(-16, 32, 48), model)

	// Replacing releases the old handle.
	require.NoError(t, meshes.Set(id, &m))
	assert.Equal(t, 1, renderer.Stats().Meshes)

	empty := Build(nil, world.NewChunk(id.Origin()))
	require.NoError(t, meshes.Set(id, &empty))
	assert.Zero(t, meshes.Len())
	assert.Zero(t, renderer.Stats().Meshes)
}

func TestGenerationLatestRequestWins(t *testing.T) {
	src := chunkSource{}
	gen := NewGeneration(src, 4, zaptest.NewLogger(t))
	t.Cleanup(gen.Close)
	renderer := NewHeadless(0)
	meshes := NewChunkMeshes(renderer, nil)

	id := world.ChunkID{}
	chunk := world.NewChunk(id.Origin())
	chunk.SetLocalBlock(world.BlockCoord{X: 1}, world.Solid(red))
	gen.Generate(id, chunk)

	n, err := gen.AcceptReadyMeshes(meshes)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 24, renderer.Stats().Vertices)

	// The builder works on a snapshot, so the later edit needs its own request.
	for i := 0; i < 20; i++ {
		chunk.SetLocalBlock(world.BlockCoord{X: 1, Y: i % world.ChunkSize}, world.Solid(red))
		gen.Generate(id, chunk)
	}
	chunk.Fill(func(world.BlockCoord) world.Block { return world.Air() })
	gen.Generate(id, chunk)

	n, err = gen.AcceptReadyMeshes(meshes)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, func() bool { _, ok := meshes.Handle(id); return ok }())
	assert.Zero(t, renderer.Stats().Meshes)
}

func TestGenerationCollectsUploadErrors(t *testing.T) {
	gen := NewGeneration(nil, 2, nil)
	t.Cleanup(gen.Close)
	meshes := NewChunkMeshes(NewHeadless(30), nil)

	small := world.NewChunk(world.BlockCoord{})
	small.SetLocalBlock(world.BlockCoord{}, world.Solid(red))
	big := world.NewChunk(world.ChunkID{X: 1}.Origin())
	big.SetLocalBlock(world.BlockCoord{}, world.Solid(red))
	big.SetLocalBlock(world.BlockCoord{X: 5}, world.Solid(red))

	gen.Generate(small.ID(), small)
	gen.Generate(big.ID(), big)
	n, err := gen.AcceptReadyMeshes(meshes)
	assert.Equal(t, 2, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 30")
	_, ok := meshes.Handle(small.ID())
	assert.True(t, ok)
	_, ok = meshes.Handle(big.ID())
	assert.False(t, ok)
}

func TestGenerationRejectsResultsNotInFlight(t *testing.T) {
	gen := NewGeneration(nil, 1, zaptest.NewLogger(t, zaptest.WrapOptions(zap.Development())))
	t.Cleanup(gen.Close)
	meshes := NewChunkMeshes(NewHeadless(0), nil)

	stray := world.ChunkID{X: 7}
	gen.ready.Put(stray, built{request: 1})
	assert.Panics(t, func() { _, _ = gen.AcceptReadyMeshes(meshes) })

	// Production loggers report the stray result and carry on.
	quiet := NewGeneration(nil, 1, nil)
	t.Cleanup(quiet.Close)
	id := world.ChunkID{}
	chunk := world.NewChunk(id.Origin())
	chunk.SetLocalBlock(world.BlockCoord{}, world.Solid(red))
	quiet.Generate(id, chunk)
	quiet.ready.Put(stray, built{request: 99})

	n, err := quiet.AcceptReadyMeshes(meshes)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, meshes.Len())
	_, ok := meshes.Handle(stray)
	assert.False(t, ok)
}

func TestGenerationAfterCloseSettles(t *testing.T) {
	gen := NewGeneration(nil, 1, zaptest.NewLogger(t))
	gen.Close()

	chunk := world.NewChunk(world.BlockCoord{})
	chunk.SetLocalBlock(world.BlockCoord{}, world.Solid(red))
	gen.Generate(chunk.ID(), chunk)

	n, err := gen.AcceptReadyMeshes(NewChunkMeshes(NewHeadless(0), nil))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, gen.Pending())
}
