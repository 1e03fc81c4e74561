package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"voxelengine/internal/world"
)

// Handle names a mesh uploaded to a Renderer.
type Handle uint64

// Renderer owns GPU-side meshes. Every method is called from the frame
// goroutine.
type Renderer interface {
	CreateMesh(m *Mesh) (Handle, error)
	Draw(h Handle, model mgl32.Mat4)
	Release(h Handle)
}

// ChunkMeshes maps loaded chunks to their renderer handles.
type ChunkMeshes struct {
	renderer Renderer
	log      *zap.Logger
	handles  map[world.ChunkID]Handle
}

func NewChunkMeshes(renderer Renderer, log *zap.Logger) *ChunkMeshes {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChunkMeshes{
		renderer: renderer,
		log:      log.With(zap.String("component", "chunk-meshes")),
		handles:  make(map[world.ChunkID]Handle),
	}
}

// Set uploads m for id, replacing and releasing any previous handle. An
// empty mesh removes the chunk instead.
func (c *ChunkMeshes) Set(id world.ChunkID, m *Mesh) error {
	if m.IsEmpty() {
		c.Remove(id)
		return nil
	}
	handle, err := c.renderer.CreateMesh(m)
	if err != nil {
		return fmt.Errorf("create mesh for %v: %w", id, err)
	}
	if old, ok := c.handles[id]; ok {
		c.renderer.Release(old)
	}
	c.handles[id] = handle
	return nil
}

func (c *ChunkMeshes) Remove(id world.ChunkID) {
	if handle, ok := c.handles[id]; ok {
		c.renderer.Release(handle)
		delete(c.handles, id)
	}
}

func (c *ChunkMeshes) Handle(id world.ChunkID) (Handle, bool) {
	handle, ok := c.handles[id]
	return handle, ok
}

func (c *ChunkMeshes) Len() int {
	return len(c.handles)
}

// Draw submits every chunk mesh translated to its chunk origin.
func (c *ChunkMeshes) Draw() int {
	for id, handle := range c.handles {
		c.renderer.Draw(handle, mgl32.Translate3D(id.Origin().Vec3().Elem()))
	}
	return len(c.handles)
}

// Clear releases every handle.
func (c *ChunkMeshes) Clear() {
	for id, handle := range c.handles {
		c.renderer.Release(handle)
		delete(c.handles, id)
	}
	c.log.Debug("released all chunk meshes")
}
