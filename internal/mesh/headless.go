package mesh

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Headless is an in-memory Renderer for tools and tests. It keeps uploaded
// meshes and counts draws.
type Headless struct {
	mu        sync.Mutex
	next      Handle
	meshes    map[Handle]*Mesh
	draws     int
	lastModel map[Handle]mgl32.Mat4
	maxVerts  int
}

// HeadlessStats is a snapshot of a Headless renderer.
type HeadlessStats struct {
	Meshes    int
	Vertices  int
	Triangles int
	Draws     int
}

// NewHeadless returns a renderer that rejects meshes over maxVertices. Zero
// disables the limit.
func NewHeadless(maxVertices int) *Headless {
	return &Headless{
		meshes:    make(map[Handle]*Mesh),
		lastModel: make(map[Handle]mgl32.Mat4),
		maxVerts:  maxVertices,
	}
}

func (h *Headless) CreateMesh(m *Mesh) (Handle, error) {
	if m.IsEmpty() {
		return 0, fmt.Errorf("mesh has no indices")
	}
	if h.maxVerts > 0 && len(m.Vertices) > h.maxVerts {
		return 0, fmt.Errorf("mesh has %d vertices, limit is %d", len(m.Vertices), h.maxVerts)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.meshes[h.next] = m
	return h.next, nil
}

func (h *Headless) Draw(handle Handle, model mgl32.Mat4) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.meshes[handle]; !ok {
		return
	}
	h.draws++
	h.lastModel[handle] = model
}

func (h *Headless) Release(handle Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.meshes, handle)
	delete(h.lastModel, handle)
}

// Model returns the transform last drawn with handle.
func (h *Headless) Model(handle Handle) (mgl32.Mat4, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.lastModel[handle]
	return m, ok
}

func (h *Headless) Stats() HeadlessStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	stats := HeadlessStats{Meshes: len(h.meshes), Draws: h.draws}
	for _, m := range h.meshes {
		stats.Vertices += len(m.Vertices)
		stats.Triangles += m.Triangles()
	}
	return stats
}
