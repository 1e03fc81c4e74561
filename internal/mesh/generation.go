package mesh

import (
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"voxelengine/internal/jobs"
	"voxelengine/internal/world"
)

// built is a finished mesh tagged with the request that produced it. A nil
// mesh means the chunk has nothing to draw.
type built struct {
	request uint64
	mesh    *Mesh
}

// Generation builds chunk meshes on a worker pool. Generate and
// AcceptReadyMeshes belong to the frame goroutine.
type Generation struct {
	log     *zap.Logger
	src     world.BlockSource
	queue   *jobs.Queue
	ready   *jobs.ReadyMap[world.ChunkID, built]
	request uint64

	// inFlight maps each requested id to its latest request number.
	inFlight map[world.ChunkID]uint64
}

// NewGeneration builds against src, which must tolerate concurrent reads.
func NewGeneration(src world.BlockSource, workers int, log *zap.Logger) *Generation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generation{
		log:   log.With(zap.String("component", "mesh-generation")),
		src:   src,
		queue: jobs.NewQueue("mesh-generation", workers, log),
		ready: jobs.NewReadyMap[world.ChunkID, built](),

		inFlight: make(map[world.ChunkID]uint64),
	}
}

// Generate snapshots chunk and queues a build. When several builds for the
// same id finish before they are accepted, the most recent request wins.
func (g *Generation) Generate(id world.ChunkID, chunk *world.Chunk) {
	g.request++
	request := g.request
	g.inFlight[id] = request
	snapshot := chunk.Clone()
	src := g.src
	ready := g.ready

	g.queue.Submit(jobs.PriorityNormal, func(t *jobs.Ticket) {
		if t.Cancelled() {
			return
		}
		m := Build(src, snapshot)
		result := built{request: request}
		if !m.IsEmpty() {
			result.mesh = &m
		}
		ready.Update(id, func(current built, ok bool) (built, bool) {
			if ok && current.request > request {
				return current, true
			}
			return result, true
		})
	})
}

// AcceptReadyMeshes waits for every queued build, then moves the results
// into dst in lattice order. Upload failures are collected and the chunk is
// left without a mesh. Every request is settled once it returns.
func (g *Generation) AcceptReadyMeshes(dst *ChunkMeshes) (int, error) {
	g.queue.Wait()
	results := g.ready.Take()
	inFlight := g.inFlight
	g.inFlight = make(map[world.ChunkID]uint64)
	if len(results) == 0 {
		return 0, nil
	}
	ids := maps.Keys(results)
	slices.SortFunc(ids, world.ChunkID.Compare)

	var errs error
	accepted := 0
	for _, id := range ids {
		result := results[id]
		if latest, ok := inFlight[id]; !ok || result.request != latest {
			g.log.DPanic("chunk mesh was not in flight",
				zap.Stringer("chunk", id),
				zap.Uint64("request", result.request))
			continue
		}
		accepted++
		if result.mesh == nil {
			dst.Remove(id)
			continue
		}
		if err := dst.Set(id, result.mesh); err != nil {
			dst.Remove(id)
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		g.log.Warn("some chunk meshes failed to upload", zap.Error(errs))
	}
	return accepted, errs
}

// Pending reports builds queued but not started.
func (g *Generation) Pending() int {
	return g.queue.Pending()
}

// Cancel drops queued builds and any results not yet accepted.
func (g *Generation) Cancel() {
	g.queue.CancelAll()
	g.queue.Wait()
	g.ready.Clear()
	g.inFlight = make(map[world.ChunkID]uint64)
}

func (g *Generation) Close() {
	g.Cancel()
	g.queue.Close()
}
