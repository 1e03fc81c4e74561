package world

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelengine/internal/jobs"
)

func TestPriorityTiersClassify(t *testing.T) {
	tiers := DefaultPriorityTiers()
	cases := []struct {
		distance float64
		want     jobs.Priority
	}{
		{0, jobs.PriorityHighest},
		{2.9, jobs.PriorityHighest},
		{3, jobs.PriorityNormal},
		{5.99, jobs.PriorityNormal},
		{6, jobs.PriorityLow},
		{9.5, jobs.PriorityLow},
		{10, jobs.PriorityLowest},
		{42, jobs.PriorityLowest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tiers.Classify(tc.distance), "distance %v", tc.distance)
	}
}

func TestGenerateSameChunkTwiceRunsOneJob(t *testing.T) {
	gen := newGatedGenerator()
	w := newTestWorld(t, gen, 2)
	g := w.Generation()
	id := ChunkID{X: 4, Y: 1, Z: -3}

	require.True(t, g.Generate(id))
	<-gen.started
	assert.False(t, g.Generate(id))
	assert.True(t, g.InFlight(id))
	assert.Equal(t, 1, g.InFlightCount())

	close(gen.release)
	w.WaitForActiveOperations()
	assert.Equal(t, 1, w.AcceptReadyChunks())
	assert.EqualValues(t, 1, gen.calls.Load())
	assert.False(t, g.InFlight(id))
	assert.True(t, w.HasChunk(id))
}

func TestAcceptReadyChunksDoesNotBlockOnRunningJobs(t *testing.T) {
	gen := newGatedGenerator()
	w := newTestWorld(t, gen, 1)
	g := w.Generation()

	g.Generate(ChunkID{})
	<-gen.started
	assert.Zero(t, w.AcceptReadyChunks())
	assert.Equal(t, 1, g.InFlightCount())

	close(gen.release)
	w.WaitForActiveOperations()
	assert.Equal(t, 1, g.ReadyCount())
	assert.Equal(t, 1, w.AcceptReadyChunks())
	assert.Zero(t, g.ReadyCount())
}

func TestDistantQueuedJobIsCancelledAndRequestable(t *testing.T) {
	gen := newGatedGenerator()
	w := newTestWorld(t, gen, 1)
	g := w.Generation()

	near := ChunkID{}
	far := ChunkID{X: 20}
	require.True(t, g.Generate(near))
	<-gen.started
	require.True(t, g.Generate(far))
	require.Equal(t, 2, g.TrackedJobs())

	w.UpdateGenerationPriority(mgl32.Vec3{1, 1, 1})
	assert.False(t, g.InFlight(far))
	assert.True(t, g.InFlight(near))
	assert.Equal(t, 1, g.TrackedJobs())

	close(gen.release)
	w.WaitForActiveOperations()
	assert.Equal(t, 1, w.AcceptReadyChunks())
	assert.False(t, w.HasChunk(far))
	assert.Equal(t, []ChunkID{near}, gen.Made())

	// The cancelled id can be asked for again and completes normally.
	require.True(t, g.Generate(far))
	w.WaitForActiveOperations()
	assert.Equal(t, 1, w.AcceptReadyChunks())
	assert.True(t, w.HasChunk(far))
}

func TestRunningJobCancelledByDistanceNeverCommits(t *testing.T) {
	gen := newGatedGenerator()
	w := newTestWorld(t, gen, 1)
	g := w.Generation()

	id := ChunkID{}
	g.Generate(id)
	<-gen.started

	w.UpdateGenerationPriority(mgl32.Vec3{1000, 0, 0})
	assert.False(t, g.InFlight(id))

	close(gen.release)
	w.WaitForActiveOperations()
	assert.Zero(t, g.ReadyCount())
	assert.Zero(t, w.AcceptReadyChunks())
	assert.False(t, w.HasChunk(id))
}

func TestUpdatePriorityPositionReordersQueuedJobs(t *testing.T) {
	gen := newGatedGenerator()
	w := newTestWorld(t, gen, 1)
	g := w.Generation()

	g.Generate(ChunkID{Z: -50})
	<-gen.started
	g.Generate(ChunkID{X: 8})
	g.Generate(ChunkID{X: 1})
	w.UpdateGenerationPriority(mgl32.Vec3{16 * 1.5, 0, 0})

	// The blocked job far from the new focus was cancelled while running.
	assert.Equal(t, 2, g.InFlightCount())
	close(gen.release)
	w.WaitForActiveOperations()
	assert.Equal(t, 2, w.AcceptReadyChunks())
	made := gen.Made()
	require.Len(t, made, 3)
	assert.Equal(t, []ChunkID{{Z: -50}, {X: 1}, {X: 8}}, made)
}

func TestCancelAndClearAllForgetsEverything(t *testing.T) {
	gen := newGatedGenerator()
	w := newTestWorld(t, gen, 1)
	g := w.Generation()

	for x := 0; x < 6; x++ {
		g.Generate(ChunkID{X: x})
	}
	<-gen.started
	go func() {
		// Release the running job only once the queued ones are dropped.
		for g.Stats().Pending > 0 {
			time.Sleep(time.Millisecond)
		}
		close(gen.release)
	}()
	g.CancelAndClearAll()

	assert.Zero(t, g.InFlightCount())
	assert.Zero(t, g.TrackedJobs())
	assert.Zero(t, g.ReadyCount())
	assert.Zero(t, w.AcceptReadyChunks())
	assert.Zero(t, w.ChunkCount())
	assert.Len(t, gen.Made(), 1)

	require.True(t, g.Generate(ChunkID{X: 2}))
	w.WaitForActiveOperations()
	assert.Equal(t, 1, w.AcceptReadyChunks())
}
