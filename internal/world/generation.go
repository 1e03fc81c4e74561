package world

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"voxelengine/internal/jobs"
)

const DefaultAdjacentRadius = 2

// PriorityTiers maps chunk distance from the focus onto job priority.
// Distances at or beyond Low cancel the job.
type PriorityTiers struct {
	Highest float64
	Normal  float64
	Low     float64
}

func DefaultPriorityTiers() PriorityTiers {
	return PriorityTiers{Highest: 3, Normal: 6, Low: 10}
}

func (t PriorityTiers) Classify(distance float64) jobs.Priority {
	switch {
	case distance < t.Highest:
		return jobs.PriorityHighest
	case distance < t.Normal:
		return jobs.PriorityNormal
	case distance < t.Low:
		return jobs.PriorityLow
	default:
		return jobs.PriorityLowest
	}
}

func (t PriorityTiers) valid() bool {
	return t.Highest > 0 && t.Highest <= t.Normal && t.Normal <= t.Low
}

// chunkSink receives committed chunks. A nil sink makes commits a no-op.
type chunkSink interface {
	HasChunk(id ChunkID) bool
	AddChunk(id ChunkID, chunk *Chunk)
}

type GenerationConfig struct {
	Workers        int
	AdjacentRadius int
	Tiers          PriorityTiers
	Logger         *zap.Logger
}

// ChunkGeneration turns requested ids into chunks on a bounded worker pool.
// All methods except the jobs themselves run on the frame goroutine.
type ChunkGeneration struct {
	log       *zap.Logger
	generator Generator
	sink      chunkSink
	queue     *jobs.Queue
	ready     *jobs.ReadyMap[ChunkID, *Chunk]
	tiers     PriorityTiers
	radius    int

	inFlight map[ChunkID]struct{}
	tickets  map[ChunkID]*jobs.Ticket
	focus    ChunkID
	hasFocus bool
}

func NewChunkGeneration(generator Generator, sink chunkSink, cfg GenerationConfig) *ChunkGeneration {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tiers := cfg.Tiers
	if !tiers.valid() {
		tiers = DefaultPriorityTiers()
	}
	radius := cfg.AdjacentRadius
	if radius <= 0 {
		radius = DefaultAdjacentRadius
	}
	return &ChunkGeneration{
		log:       log.With(zap.String("component", "chunk-generation")),
		generator: generator,
		sink:      sink,
		queue:     jobs.NewQueue("chunk-generation", cfg.Workers, log),
		ready:     jobs.NewReadyMap[ChunkID, *Chunk](),
		tiers:     tiers,
		radius:    radius,
		inFlight:  make(map[ChunkID]struct{}),
		tickets:   make(map[ChunkID]*jobs.Ticket),
	}
}

// Generate queues id unless it is already in flight and reports whether a
// job was submitted.
func (g *ChunkGeneration) Generate(id ChunkID) bool {
	if _, ok := g.inFlight[id]; ok {
		return false
	}
	priority := jobs.PriorityNormal
	if g.hasFocus {
		priority = g.tiers.Classify(id.Distance(g.focus))
		if priority == jobs.PriorityLowest {
			// The next priority pass decides whether it survives.
			priority = jobs.PriorityLow
		}
	}

	generator := g.generator
	ready := g.ready
	g.inFlight[id] = struct{}{}
	g.tickets[id] = g.queue.Submit(priority, func(t *jobs.Ticket) {
		if t.Cancelled() {
			return
		}
		chunk := generator.MakeChunk(id)
		ready.PublishUnless(t, id, chunk)
	})
	return true
}

// UpdatePriorityPosition re-tiers every live job by its distance to the
// focus chunk. Jobs that fall to the lowest tier are cancelled and their ids
// become requestable again.
func (g *ChunkGeneration) UpdatePriorityPosition(focus mgl32.Vec3) {
	center := ChunkIDFromPoint(focus)
	g.focus, g.hasFocus = center, true

	cancelled := 0
	for id, ticket := range g.tickets {
		if ticket.Finished() {
			delete(g.tickets, id)
			continue
		}
		priority := g.tiers.Classify(id.Distance(center))
		if priority == jobs.PriorityLowest {
			t := ticket
			g.ready.Revoke(id, func() { g.queue.Cancel(t) })
			delete(g.tickets, id)
			delete(g.inFlight, id)
			cancelled++
			continue
		}
		g.queue.Reprioritize(ticket, priority)
	}
	if cancelled > 0 {
		g.log.Debug("cancelled distant chunk jobs",
			zap.Stringer("focus", center),
			zap.Int("cancelled", cancelled),
			zap.Int("inFlight", len(g.inFlight)))
	}
}

// GenerateAdjacentIfNeeded requests every missing chunk within the adjacent
// radius of the focus chunk.
func (g *ChunkGeneration) GenerateAdjacentIfNeeded(focus mgl32.Vec3) int {
	if g.sink == nil {
		return 0
	}
	requested := 0
	for _, id := range Cube(ChunkIDFromPoint(focus), g.radius) {
		if g.sink.HasChunk(id) {
			continue
		}
		if g.Generate(id) {
			requested++
		}
	}
	return requested
}

// AcceptReadyChunks drains finished results into the sink without waiting
// for running jobs.
func (g *ChunkGeneration) AcceptReadyChunks() int {
	if len(g.inFlight) == 0 {
		return 0
	}
	results := g.ready.Take()
	if len(results) == 0 {
		return 0
	}
	ids := maps.Keys(results)
	slices.SortFunc(ids, ChunkID.Compare)

	committed := 0
	for _, id := range ids {
		if _, ok := g.inFlight[id]; !ok {
			g.log.DPanic("generated chunk was not in flight", zap.Stringer("chunk", id))
			continue
		}
		delete(g.inFlight, id)
		delete(g.tickets, id)
		if g.sink == nil {
			continue
		}
		g.sink.AddChunk(id, results[id])
		committed++
	}
	g.log.Debug("accepted generated chunks",
		zap.Int("committed", committed),
		zap.Int("inFlight", len(g.inFlight)))
	return committed
}

// CancelAndClearAll cancels every job, waits for the pool to drain and
// forgets all scheduler state.
func (g *ChunkGeneration) CancelAndClearAll() {
	dropped := g.queue.CancelAll()
	for _, ticket := range g.tickets {
		g.queue.Cancel(ticket)
	}
	g.queue.Wait()
	g.ready.Clear()
	g.inFlight = make(map[ChunkID]struct{})
	g.tickets = make(map[ChunkID]*jobs.Ticket)
	if dropped > 0 {
		g.log.Debug("dropped queued chunk jobs", zap.Int("dropped", dropped))
	}
}

// Wait blocks until every submitted job has finished or been dropped.
func (g *ChunkGeneration) Wait() {
	g.queue.Wait()
}

func (g *ChunkGeneration) InFlight(id ChunkID) bool {
	_, ok := g.inFlight[id]
	return ok
}

func (g *ChunkGeneration) InFlightCount() int {
	return len(g.inFlight)
}

// TrackedJobs counts live job handles, which can trail InFlightCount once
// finished handles are pruned.
func (g *ChunkGeneration) TrackedJobs() int {
	return len(g.tickets)
}

// ReadyCount reports results waiting for AcceptReadyChunks.
func (g *ChunkGeneration) ReadyCount() int {
	return g.ready.Len()
}

func (g *ChunkGeneration) Stats() jobs.Stats {
	return g.queue.Stats()
}

func (g *ChunkGeneration) Close() {
	g.CancelAndClearAll()
	g.queue.Close()
}
