// Package terrain provides the procedural chunk generators.
package terrain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/maps"

	"voxelengine/internal/world"
)

const DefaultGenerator = "standard"

var ErrUnknownGenerator = errors.New("unknown terrain generator")

var registry = map[string]func() world.Generator{
	"flat":     func() world.Generator { return NewFlat() },
	"rolling":  func() world.Generator { return NewRolling() },
	"standard": func() world.Generator { return NewStandard() },
	"tower":    func() world.Generator { return NewTower() },
}

// New returns a freshly seeded generator by name. An empty name selects
// DefaultGenerator.
func New(name string) (world.Generator, error) {
	if name == "" {
		name = DefaultGenerator
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownGenerator, name, Names())
	}
	return ctor(), nil
}

// Names lists the registered generators in sorted order.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}

// fillChunk evaluates sample at every block of the chunk for id.
func fillChunk(id world.ChunkID, sample func(p mgl64.Vec3) world.Block) *world.Chunk {
	chunk := world.NewChunk(id.Origin())
	chunk.Fill(func(pos world.BlockCoord) world.Block {
		return sample(point(pos))
	})
	return chunk
}

func point(pos world.BlockCoord) mgl64.Vec3 {
	return mgl64.Vec3{float64(pos.X), float64(pos.Y), float64(pos.Z)}
}
