package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Generator describes terrain population for chunks. MakeChunk must be safe
// to call from several goroutines once Reset has returned.
type Generator interface {
	Reset(seed uint64)
	MakeChunk(id ChunkID) *Chunk
}

// Config wires a World. Zero values select defaults.
type Config struct {
	Generator      Generator
	Logger         *zap.Logger
	Workers        int
	AdjacentRadius int
	Tiers          PriorityTiers
}

// World keeps the chunk map, the damage set and the generation scheduler.
// Writes come from the frame goroutine; Block may be called concurrently
// from mesh workers.
type World struct {
	log        *zap.Logger
	generator  Generator
	generation *ChunkGeneration

	mu     sync.RWMutex
	chunks map[ChunkID]*Chunk
	damage *DamageSet
}

func New(cfg Config) *World {
	if cfg.Generator == nil {
		panic("world: generator is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		log:       log.With(zap.String("component", "world")),
		generator: cfg.Generator,
		chunks:    make(map[ChunkID]*Chunk),
		damage:    NewDamageSet(),
	}
	w.generation = NewChunkGeneration(cfg.Generator, w, GenerationConfig{
		Workers:        cfg.Workers,
		AdjacentRadius: cfg.AdjacentRadius,
		Tiers:          cfg.Tiers,
		Logger:         log,
	})
	return w
}

func (w *World) Generation() *ChunkGeneration {
	return w.generation
}

// Block returns air for positions in absent chunks.
func (w *World) Block(pos BlockCoord) Block {
	w.mu.RLock()
	defer w.mu.RUnlock()
	chunk, ok := w.chunks[ChunkIDFromBlock(pos)]
	if !ok {
		return Block{}
	}
	return chunk.Block(pos)
}

// SetBlock writes into a loaded chunk and damages it. Writes into absent
// chunks are dropped. When the position sits on a chunk face, the neighbor
// across that face is damaged too if its adjacent block is solid.
func (w *World) SetBlock(pos BlockCoord, block Block) bool {
	id := ChunkIDFromBlock(pos)

	w.mu.Lock()
	defer w.mu.Unlock()
	chunk, ok := w.chunks[id]
	if !ok {
		return false
	}
	local := pos.Sub(chunk.Origin())
	chunk.SetLocalBlock(local, block)
	w.damage.Add(id)

	for axis := 0; axis < 3; axis++ {
		switch local.Axis(axis) {
		case 0:
			w.damageAcross(id, local, axis, -1)
		case ChunkMask:
			w.damageAcross(id, local, axis, 1)
		}
	}
	return true
}

// damageAcross checks the neighbor's block that shares the face with local.
func (w *World) damageAcross(id ChunkID, local BlockCoord, axis, dir int) {
	step := BlockCoord{}.withAxis(axis, dir)
	neighborID := id.Add(ChunkID(step))
	neighbor, ok := w.chunks[neighborID]
	if !ok {
		return
	}
	adjacent := local.withAxis(axis, (local.Axis(axis)+dir)&ChunkMask)
	if neighbor.LocalBlock(adjacent).IsSolid() {
		w.damage.Add(neighborID)
	}
}

// AddChunk installs chunk and damages it along with every loaded face neighbor.
func (w *World) AddChunk(id ChunkID, chunk *Chunk) {
	if chunk == nil {
		w.log.DPanic("nil chunk committed", zap.Stringer("chunk", id))
		return
	}
	if chunk.ID() != id {
		w.log.DPanic("chunk committed under foreign id",
			zap.Stringer("chunk", id),
			zap.Stringer("origin", chunk.Origin()))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunks[id] = chunk
	w.damage.Add(id)
	for _, face := range Faces {
		neighborID := id.Add(ChunkID(face.Offset()))
		if _, ok := w.chunks[neighborID]; ok {
			w.damage.Add(neighborID)
		}
	}
}

func (w *World) Chunk(id ChunkID) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	chunk, ok := w.chunks[id]
	return chunk, ok
}

func (w *World) HasChunk(id ChunkID) bool {
	_, ok := w.Chunk(id)
	return ok
}

func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// ForEachChunk visits loaded chunks in no particular order until fn returns false.
func (w *World) ForEachChunk(fn func(id ChunkID, chunk *Chunk) bool) {
	w.mu.RLock()
	snapshot := make(map[ChunkID]*Chunk, len(w.chunks))
	for id, chunk := range w.chunks {
		snapshot[id] = chunk
	}
	w.mu.RUnlock()

	for id, chunk := range snapshot {
		if !fn(id, chunk) {
			return
		}
	}
}

// DamagedChunks lists pending remesh ids without clearing them.
func (w *World) DamagedChunks() []ChunkID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.damage.Chunks()
}

// HandleRenderDamagedChunks calls body once per damaged chunk and clears the
// damage set. body runs without the world lock held.
func (w *World) HandleRenderDamagedChunks(body func(id ChunkID, chunk *Chunk)) int {
	type damaged struct {
		id    ChunkID
		chunk *Chunk
	}

	w.mu.Lock()
	ids := w.damage.Chunks()
	w.damage.Clear()
	pending := make([]damaged, 0, len(ids))
	for _, id := range ids {
		chunk, ok := w.chunks[id]
		if !ok {
			w.log.DPanic("damaged chunk is not loaded", zap.Stringer("chunk", id))
			continue
		}
		pending = append(pending, damaged{id: id, chunk: chunk})
	}
	w.mu.Unlock()

	for _, d := range pending {
		body(d.id, d.chunk)
	}
	return len(pending)
}

// Generate drops every chunk, reseeds the generator and requests a box of
// chunks centered on the origin.
func (w *World) Generate(extent Extent, seed uint64) int {
	w.RemoveAllChunks()
	w.generator.Reset(seed)
	requested := 0
	for _, id := range extent.Centered() {
		if w.generation.Generate(id) {
			requested++
		}
	}
	w.log.Info("world generation requested",
		zap.Uint64("seed", seed),
		zap.Int("width", extent.Width),
		zap.Int("height", extent.Height),
		zap.Int("depth", extent.Depth),
		zap.Int("chunks", requested))
	return requested
}

// GenerateSingleChunkUncommitted builds a chunk on the calling goroutine
// without touching the world.
func (w *World) GenerateSingleChunkUncommitted(id ChunkID) *Chunk {
	return w.generator.MakeChunk(id)
}

func (w *World) GenerateAdjacentChunksIfNeeded(focus mgl32.Vec3) int {
	return w.generation.GenerateAdjacentIfNeeded(focus)
}

func (w *World) UpdateGenerationPriority(focus mgl32.Vec3) {
	w.generation.UpdatePriorityPosition(focus)
}

// AcceptReadyChunks commits finished generation results. It never blocks on
// running jobs.
func (w *World) AcceptReadyChunks() int {
	return w.generation.AcceptReadyChunks()
}

// WaitForActiveOperations blocks until queued generation jobs have finished.
func (w *World) WaitForActiveOperations() {
	w.generation.Wait()
}

// RemoveAllChunks cancels generation and empties the world.
func (w *World) RemoveAllChunks() {
	w.generation.CancelAndClearAll()
	w.mu.Lock()
	w.chunks = make(map[ChunkID]*Chunk)
	w.damage.Clear()
	w.mu.Unlock()
}

// Close stops the generation workers.
func (w *World) Close() {
	w.generation.Close()
}
