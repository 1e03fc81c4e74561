package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelengine/internal/terrain"
	"voxelengine/internal/world"
)

func TestCountingGeneratorTracksChunks(t *testing.T) {
	base, err := terrain.New("flat")
	require.NoError(t, err)
	g := newCountingGenerator(base)
	g.Reset(7)

	ground := g.MakeChunk(world.ChunkID{})
	g.MakeChunk(world.ChunkID{Y: 3})

	assert.Equal(t, int64(2), g.chunks.Load())
	assert.Equal(t, int64(ground.SolidCount()), g.solid.Load())
}

func TestChunkSetServesAirOutsideItsChunks(t *testing.T) {
	chunk := world.NewChunk(world.BlockCoord{})
	chunk.SetLocalBlock(world.BlockCoord{X: 1}, world.Solid(world.Color{B: 1, A: 1}))
	set := chunkSet{chunk.ID(): chunk}

	assert.True(t, set.Block(world.BlockCoord{X: 1}).IsSolid())
	assert.True(t, set.Block(world.BlockCoord{X: 40}).IsAir())
}
