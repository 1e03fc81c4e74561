package world

import "testing"

func TestChunkLocalAccessOutOfRangeReadsAir(t *testing.T) {
	chunk := NewChunk(BlockCoord{})
	chunk.Fill(func(BlockCoord) Block { return Solid(Color{R: 1, A: 1}) })

	for _, local := range []BlockCoord{
		{X: -1}, {Y: -1}, {Z: -1},
		{X: ChunkSize}, {Y: ChunkSize}, {Z: ChunkSize},
	} {
		if got := chunk.LocalBlock(local); !got.IsAir() {
			t.Fatalf("expected air at %v, got %+v", local, got)
		}
		if chunk.SetLocalBlock(local, Air()) {
			t.Fatalf("expected write at %v to be rejected", local)
		}
	}
	if chunk.SolidCount() != ChunkVolume {
		t.Fatalf("rejected writes must not touch the chunk")
	}
}

func TestChunkIDFloorsNegativeCoordinates(t *testing.T) {
	cases := []struct {
		pos  BlockCoord
		want ChunkID
	}{
		{BlockCoord{X: 0, Y: 0, Z: 0}, ChunkID{}},
		{BlockCoord{X: 15, Y: 15, Z: 15}, ChunkID{}},
		{BlockCoord{X: 16, Y: 0, Z: 0}, ChunkID{X: 1}},
		{BlockCoord{X: -1, Y: -16, Z: -17}, ChunkID{X: -1, Y: -1, Z: -2}},
	}
	for _, tc := range cases {
		if got := ChunkIDFromBlock(tc.pos); got != tc.want {
			t.Fatalf("ChunkIDFromBlock(%v) = %v, want %v", tc.pos, got, tc.want)
		}
	}

	id := ChunkID{X: -2, Y: 3, Z: -1}
	if back := ChunkIDFromBlock(id.Origin()); back != id {
		t.Fatalf("origin round trip: got %v, want %v", back, id)
	}
}

func TestChunkFillVisitsWorldPositionsInIndexOrder(t *testing.T) {
	origin := ChunkID{X: -1, Y: 2, Z: 0}.Origin()
	chunk := NewChunk(origin)

	var visited []BlockCoord
	chunk.Fill(func(pos BlockCoord) Block {
		visited = append(visited, pos)
		if pos.Y == origin.Y {
			return Solid(Color{G: 1, A: 1})
		}
		return Air()
	})

	if len(visited) != ChunkVolume {
		t.Fatalf("expected %d visits, got %d", ChunkVolume, len(visited))
	}
	if visited[0] != origin || visited[1] != origin.Add(BlockCoord{X: 1}) || visited[ChunkSize] != origin.Add(BlockCoord{Y: 1}) {
		t.Fatalf("fill order is not x fastest: %v %v %v", visited[0], visited[1], visited[ChunkSize])
	}
	if got := chunk.SolidCount(); got != ChunkSize*ChunkSize {
		t.Fatalf("expected one solid layer, got %d solids", got)
	}
	if !chunk.Block(origin.Add(BlockCoord{X: 3, Z: 7})).IsSolid() {
		t.Fatalf("expected floor block to be solid")
	}
	if chunk.Block(origin.Add(BlockCoord{Y: 1})).IsSolid() {
		t.Fatalf("expected block above floor to be air")
	}
}

func TestChunkCloneIsIndependent(t *testing.T) {
	chunk := NewChunk(BlockCoord{})
	chunk.SetLocalBlock(BlockCoord{X: 1, Y: 2, Z: 3}, Solid(Color{B: 1, A: 1}))

	clone := chunk.Clone()
	chunk.SetLocalBlock(BlockCoord{X: 1, Y: 2, Z: 3}, Air())

	if !clone.LocalBlock(BlockCoord{X: 1, Y: 2, Z: 3}).IsSolid() {
		t.Fatalf("clone shares storage with the original")
	}
	if !chunk.IsEmpty() || clone.IsEmpty() {
		t.Fatalf("unexpected emptiness: original %v clone %v", chunk.IsEmpty(), clone.IsEmpty())
	}
}

func TestCompactMapBlocksKeepsPresentValues(t *testing.T) {
	chunk := NewChunk(BlockCoord{})
	chunk.SetLocalBlock(BlockCoord{X: 2}, Solid(Color{A: 1}))
	chunk.SetLocalBlock(BlockCoord{Z: 2}, Solid(Color{A: 1}))

	solids := CompactMapBlocks(chunk, func(pos BlockCoord, block Block) (BlockCoord, bool) {
		return pos, block.IsSolid()
	})
	if len(solids) != 2 || solids[0] != (BlockCoord{X: 2}) || solids[1] != (BlockCoord{Z: 2}) {
		t.Fatalf("unexpected solids %v", solids)
	}
}

func TestHSVPrimaries(t *testing.T) {
	cases := []struct {
		hue  float64
		want Color
	}{
		{0, Color{R: 1, A: 1}},
		{120, Color{G: 1, A: 1}},
		{240, Color{B: 1, A: 1}},
		{360 + 120, Color{G: 1, A: 1}},
		{-120, Color{B: 1, A: 1}},
	}
	for _, tc := range cases {
		if got := HSV(tc.hue, 1, 1); got != tc.want {
			t.Fatalf("HSV(%v) = %+v, want %+v", tc.hue, got, tc.want)
		}
	}
	if got := HSV(30, 0, 0.5); got.R != got.G || got.G != got.B {
		t.Fatalf("zero saturation should be grey, got %+v", got)
	}
}

func TestFaceOffsetsAreOpposed(t *testing.T) {
	for i := 0; i < len(Faces); i += 2 {
		a, b := Faces[i], Faces[i+1]
		if sum := a.Offset().Add(b.Offset()); sum != (BlockCoord{}) {
			t.Fatalf("%v and %v are not opposite: %v", a, b, sum)
		}
	}
	if FaceBack.Offset() != (BlockCoord{Z: 1}) {
		t.Fatalf("back must face +z")
	}
}
