// Package engine drives the per-frame host sequence: generate around the
// focus, commit chunks, remesh damage, upload meshes and draw.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"voxelengine/internal/config"
	"voxelengine/internal/mesh"
	"voxelengine/internal/raycast"
	"voxelengine/internal/terrain"
	"voxelengine/internal/world"
)

// FocusFunc yields the focus point for a frame.
type FocusFunc func(frame uint64) mgl32.Vec3

// FrameStats summarises one call to Frame.
type FrameStats struct {
	Frame     uint64
	Requested int
	Accepted  int
	Remeshed  int
	Uploaded  int
	Drawn     int
	InFlight  int
}

type Engine struct {
	cfg    *config.Config
	log    *zap.Logger
	world  *world.World
	meshes *mesh.Generation
	chunks *mesh.ChunkMeshes
	frame  uint64
}

func New(cfg *config.Config, renderer mesh.Renderer, log *zap.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	generator, err := terrain.New(cfg.World.Generator)
	if err != nil {
		return nil, fmt.Errorf("select terrain: %w", err)
	}

	tiers := cfg.World.Tiers
	w := world.New(world.Config{
		Generator:      generator,
		Logger:         log,
		Workers:        cfg.Generation.Workers,
		AdjacentRadius: cfg.World.AdjacentRadius,
		Tiers:          world.PriorityTiers{Highest: tiers.Highest, Normal: tiers.Normal, Low: tiers.Low},
	})

	return &Engine{
		cfg:    cfg,
		log:    log.With(zap.String("component", "engine")),
		world:  w,
		meshes: mesh.NewGeneration(w, cfg.Meshing.Workers, log),
		chunks: mesh.NewChunkMeshes(renderer, log),
	}, nil
}

func (e *Engine) World() *world.World {
	return e.world
}

func (e *Engine) Meshes() *mesh.ChunkMeshes {
	return e.chunks
}

// Reset drops every chunk and mesh, reseeds the generator and requests the
// configured initial extent.
func (e *Engine) Reset() int {
	e.meshes.Cancel()
	e.chunks.Clear()
	extent := e.cfg.World.InitialExtent
	return e.world.Generate(world.Extent{
		Width:  extent.Width,
		Height: extent.Height,
		Depth:  extent.Depth,
	}, e.cfg.World.SeedValue())
}

// Frame runs one host iteration around focus. Upload failures are returned
// after the frame has been drawn.
func (e *Engine) Frame(focus mgl32.Vec3) (FrameStats, error) {
	e.frame++
	stats := FrameStats{Frame: e.frame}

	stats.Requested = e.world.GenerateAdjacentChunksIfNeeded(focus)
	e.world.UpdateGenerationPriority(focus)
	stats.Accepted = e.world.AcceptReadyChunks()
	stats.Remeshed = e.world.HandleRenderDamagedChunks(func(id world.ChunkID, chunk *world.Chunk) {
		e.meshes.Generate(id, chunk)
	})
	uploaded, err := e.meshes.AcceptReadyMeshes(e.chunks)
	stats.Uploaded = uploaded
	stats.Drawn = e.chunks.Draw()
	stats.InFlight = e.world.Generation().InFlightCount()

	if ce := e.log.Check(zap.DebugLevel, "frame"); ce != nil {
		ce.Write(
			zap.Uint64("frame", stats.Frame),
			zap.Stringer("focus", world.ChunkIDFromPoint(focus)),
			zap.Int("requested", stats.Requested),
			zap.Int("accepted", stats.Accepted),
			zap.Int("remeshed", stats.Remeshed),
			zap.Int("uploaded", stats.Uploaded),
			zap.Int("drawn", stats.Drawn),
			zap.Int("inFlight", stats.InFlight))
	}
	if err != nil {
		return stats, fmt.Errorf("frame %d: %w", stats.Frame, err)
	}
	return stats, nil
}

// Run ticks Frame at the configured interval until ctx ends or the
// configured frame count is reached. Mesh upload errors are logged and do
// not stop the loop.
func (e *Engine) Run(ctx context.Context, focus FocusFunc) error {
	interval := e.cfg.Host.FrameInterval.Duration()
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	limit := uint64(e.cfg.Host.Frames)
	start := e.frame
	e.log.Info("engine running",
		zap.Duration("frameInterval", interval),
		zap.Uint64("frames", limit))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := e.Frame(focus(e.frame - start)); err != nil {
				e.log.Warn("frame finished with errors", zap.Error(err))
			}
			if limit > 0 && e.frame-start >= limit {
				e.logSummary()
				return nil
			}
		}
	}
}

func (e *Engine) logSummary() {
	gen := e.world.Generation().Stats()
	e.log.Info("engine stopped",
		zap.Uint64("frames", e.frame),
		zap.Int("chunks", e.world.ChunkCount()),
		zap.Int("meshes", e.chunks.Len()),
		zap.Int("inFlight", e.world.Generation().InFlightCount()),
		zap.Uint64("generatedJobs", gen.Completed))
}

// Pick casts a ray into the world up to the configured distance.
func (e *Engine) Pick(origin, direction mgl32.Vec3) (raycast.Hit, bool) {
	return raycast.Cast(e.world, origin, direction, e.cfg.Raycast.MaxDistance)
}

// Break clears the block under the ray. The remesh happens on the next frame.
func (e *Engine) Break(origin, direction mgl32.Vec3) (raycast.Hit, bool) {
	hit, ok := e.Pick(origin, direction)
	if !ok {
		return hit, false
	}
	return hit, e.world.SetBlock(hit.Cell, world.Air())
}

// Place puts block against the face the ray hits.
func (e *Engine) Place(origin, direction mgl32.Vec3, block world.Block) (raycast.Hit, bool) {
	hit, ok := e.Pick(origin, direction)
	if !ok {
		return hit, false
	}
	return hit, e.world.SetBlock(hit.Adjacent(), block)
}

// SavePreviews writes a PNG for every loaded non-empty chunk into dir.
func (e *Engine) SavePreviews(dir string) (int, error) {
	var errs error
	written := 0
	e.world.ForEachChunk(func(_ world.ChunkID, chunk *world.Chunk) bool {
		if chunk.IsEmpty() {
			return true
		}
		if _, err := world.SaveChunkPreview(chunk, dir); err != nil {
			errs = multierr.Append(errs, err)
			return !errors.Is(err, os.ErrPermission)
		}
		written++
		return true
	})
	return written, errs
}

// Close stops every worker pool and releases renderer handles.
func (e *Engine) Close() {
	e.meshes.Close()
	e.chunks.Clear()
	e.world.Close()
}
