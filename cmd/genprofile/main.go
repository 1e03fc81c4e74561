package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"voxelengine/internal/config"
	"voxelengine/internal/mesh"
	"voxelengine/internal/terrain"
	"voxelengine/internal/world"
)

// countingGenerator records how many chunks the wrapped generator produced
// and how long it spent on them.
type countingGenerator struct {
	base    world.Generator
	chunks  atomic.Int64
	solid   atomic.Int64
	elapsed atomic.Int64
}

func newCountingGenerator(base world.Generator) *countingGenerator {
	return &countingGenerator{base: base}
}

func (g *countingGenerator) Reset(seed uint64) {
	g.base.Reset(seed)
}

func (g *countingGenerator) MakeChunk(id world.ChunkID) *world.Chunk {
	start := time.Now()
	chunk := g.base.MakeChunk(id)
	g.elapsed.Add(int64(time.Since(start)))
	g.chunks.Add(1)
	g.solid.Add(int64(chunk.SolidCount()))
	return chunk
}

// chunkSet serves blocks to the mesher once generation is done.
type chunkSet map[world.ChunkID]*world.Chunk

func (s chunkSet) Block(pos world.BlockCoord) world.Block {
	if chunk, ok := s[world.ChunkIDFromBlock(pos)]; ok {
		return chunk.Block(pos)
	}
	return world.Air()
}

func main() {
	var (
		generatorName = flag.String("generator", terrain.DefaultGenerator, fmt.Sprintf("terrain generator %v", terrain.Names()))
		seed          = flag.String("seed", "1337", "world seed, a number or a phrase")
		radius        = flag.Int("radius", 2, "chunks around the origin on every axis")
		concurrency   = flag.Int("concurrency", runtime.NumCPU(), "number of concurrent workers")
		rounds        = flag.Int("rounds", 1, "number of times to regenerate the region")
		verbose       = flag.Bool("v", false, "log every chunk")
	)
	flag.Parse()

	if *radius < 0 {
		fmt.Fprintln(os.Stderr, "radius cannot be negative")
		os.Exit(1)
	}
	if *concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency must be positive")
		os.Exit(1)
	}
	if *rounds <= 0 {
		fmt.Fprintln(os.Stderr, "rounds must be positive")
		os.Exit(1)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := config.LoggingConfig{Level: level, Encoding: "console"}.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	base, err := terrain.New(*generatorName)
	if err != nil {
		logger.Fatal("select terrain", zap.Error(err))
	}
	generator := newCountingGenerator(base)
	seedValue := config.WorldConfig{Seed: *seed}.SeedValue()
	generator.Reset(seedValue)

	ids := world.Cube(world.ChunkID{}, *radius)

	var (
		totalVertices  atomic.Int64
		totalTriangles atomic.Int64
		emptyChunks    atomic.Int64
		meshDuration   atomic.Int64
		genWall        time.Duration
		meshWall       time.Duration
	)

	for round := 0; round < *rounds; round++ {
		chunks := make(chunkSet, len(ids))
		var mu sync.Mutex

		pool := pond.NewPool(*concurrency)
		start := time.Now()
		for _, id := range ids {
			pool.Submit(func() {
				chunk := generator.MakeChunk(id)
				mu.Lock()
				chunks[id] = chunk
				mu.Unlock()
				logger.Debug("chunk generated", zap.Stringer("chunk", id), zap.Int("solid", chunk.SolidCount()))
			})
		}
		pool.StopAndWait()
		genWall += time.Since(start)

		// The set is read-only from here on, so mesh workers share it freely.
		pool = pond.NewPool(*concurrency)
		start = time.Now()
		for _, id := range ids {
			chunk := chunks[id]
			pool.Submit(func() {
				meshStart := time.Now()
				m := mesh.Build(chunks, chunk)
				meshDuration.Add(int64(time.Since(meshStart)))
				if m.IsEmpty() {
					emptyChunks.Add(1)
					return
				}
				totalVertices.Add(int64(len(m.Vertices)))
				totalTriangles.Add(int64(m.Triangles()))
			})
		}
		pool.StopAndWait()
		meshWall += time.Since(start)
	}

	made := generator.chunks.Load()
	meshed := int64(len(ids) * *rounds)
	perChunk := func(total int64, n int64) time.Duration {
		if n == 0 {
			return 0
		}
		return time.Duration(total / n)
	}
	throughput := 0.0
	if genWall > 0 {
		throughput = float64(made) / genWall.Seconds()
	}

	fmt.Println("== Terrain Generation Profile ==")
	fmt.Printf("Generator: %s (seed %d)\n", *generatorName, seedValue)
	fmt.Printf("Chunks per round: %d (radius %d)\n", len(ids), *radius)
	fmt.Printf("Rounds: %d\n", *rounds)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Chunks generated: %d, empty meshes: %d\n", made, emptyChunks.Load())
	fmt.Printf("Solid blocks: %d (%.2f%% of volume)\n", generator.solid.Load(),
		100*float64(generator.solid.Load())/float64(max(made, 1)*world.ChunkVolume))
	fmt.Printf("Average per-chunk generation: %s\n", perChunk(generator.elapsed.Load(), made))
	fmt.Printf("Generation wall clock: %s (%.1f chunks/s)\n", genWall, throughput)
	fmt.Printf("Average per-chunk meshing: %s\n", perChunk(meshDuration.Load(), meshed))
	fmt.Printf("Meshing wall clock: %s\n", meshWall)
	fmt.Printf("Vertices: %d, triangles: %d\n", totalVertices.Load(), totalTriangles.Load())
}
