package world

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
)

const (
	previewTileWidth    = 32
	previewTileHeight   = 16
	previewBlockHeight  = 16
	previewAmbientLight = 0.2
)

type blockPreview struct {
	local   BlockCoord
	block   Block
	screenX int
	screenY int
}

// SaveChunkPreview renders an isometric preview PNG for the provided chunk
// and returns the written path.
func SaveChunkPreview(chunk *Chunk, outputDir string) (string, error) {
	if chunk == nil {
		return "", fmt.Errorf("chunk is nil")
	}
	if err := ensurePreviewDir(outputDir); err != nil {
		return "", err
	}

	img := RenderChunkPreview(chunk)
	id := chunk.ID()
	path := filepath.Join(outputDir, fmt.Sprintf("chunk_%d_%d_%d.png", id.X, id.Y, id.Z))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return path, nil
}

// RenderChunkPreview draws the chunk's solid blocks as isometric cubes, y up.
func RenderChunkPreview(chunk *Chunk) *image.NRGBA {
	width := ChunkSize*previewTileWidth + previewTileWidth
	height := ChunkSize*previewTileHeight + ChunkSize*previewBlockHeight + previewTileHeight
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	background := color.NRGBA{R: 10, G: 10, B: 18, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	blocks := collectPreviewBlocks(chunk)
	sort.Slice(blocks, func(i, j int) bool {
		bi := blocks[i]
		bj := blocks[j]
		if bi.screenY == bj.screenY {
			if bi.screenX == bj.screenX {
				if bi.local.Y == bj.local.Y {
					if bi.local.Z == bj.local.Z {
						return bi.local.X < bj.local.X
					}
					return bi.local.Z > bj.local.Z
				}
				return bi.local.Y < bj.local.Y
			}
			return bi.screenX < bj.screenX
		}
		return bi.screenY < bj.screenY
	})

	offsetX := ChunkSize * previewTileWidth / 2
	offsetY := ChunkSize * previewBlockHeight

	for _, info := range blocks {
		renderBlockPreview(img, offsetX+info.screenX, offsetY+info.screenY, info.block)
	}
	return img
}

func collectPreviewBlocks(chunk *Chunk) []blockPreview {
	origin := chunk.Origin()
	return CompactMapBlocks(chunk, func(pos BlockCoord, block Block) (blockPreview, bool) {
		if block.IsAir() {
			return blockPreview{}, false
		}
		local := pos.Sub(origin)
		return blockPreview{
			local:   local,
			block:   block,
			screenX: (local.X - local.Z) * previewTileWidth / 2,
			screenY: (local.X+local.Z)*previewTileHeight/2 - local.Y*previewBlockHeight,
		}, true
	})
}

func renderBlockPreview(img *image.NRGBA, baseX, baseY int, block Block) {
	baseColor := block.Color.SRGB().NRGBA()

	topColor := applyLighting(baseColor, previewAmbientLight+0.8)
	leftColor := applyLighting(baseColor, previewAmbientLight+0.45)
	rightColor := applyLighting(baseColor, previewAmbientLight+0.3)

	top := []image.Point{
		{X: baseX, Y: baseY - previewBlockHeight},
		{X: baseX + previewTileWidth/2, Y: baseY - previewBlockHeight + previewTileHeight/2},
		{X: baseX, Y: baseY - previewBlockHeight + previewTileHeight},
		{X: baseX - previewTileWidth/2, Y: baseY - previewBlockHeight + previewTileHeight/2},
	}
	left := []image.Point{
		{X: baseX - previewTileWidth/2, Y: baseY - previewBlockHeight + previewTileHeight/2},
		{X: baseX, Y: baseY - previewBlockHeight + previewTileHeight},
		{X: baseX, Y: baseY + previewTileHeight},
		{X: baseX - previewTileWidth/2, Y: baseY + previewTileHeight/2},
	}
	right := []image.Point{
		{X: baseX + previewTileWidth/2, Y: baseY - previewBlockHeight + previewTileHeight/2},
		{X: baseX, Y: baseY - previewBlockHeight + previewTileHeight},
		{X: baseX, Y: baseY + previewTileHeight},
		{X: baseX + previewTileWidth/2, Y: baseY + previewTileHeight/2},
	}

	fillPolygon(img, left, leftColor)
	fillPolygon(img, right, rightColor)
	fillPolygon(img, top, topColor)
}

func applyLighting(base color.NRGBA, factor float64) color.NRGBA {
	factor = clamp(factor, 0, 1)
	r := uint8(math.Round(float64(base.R) * factor))
	g := uint8(math.Round(float64(base.G) * factor))
	b := uint8(math.Round(float64(base.B) * factor))
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func fillPolygon(img *image.NRGBA, pts []image.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	minY := pts[0].Y
	maxY := pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	bounds := img.Bounds()
	if minY < bounds.Min.Y {
		minY = bounds.Min.Y
	}
	if maxY > bounds.Max.Y-1 {
		maxY = bounds.Max.Y - 1
	}
	tmp := make([]int, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		tmp = tmp[:0]
		for i := range pts {
			j := (i + 1) % len(pts)
			x1, y1 := pts[i].X, pts[i].Y
			x2, y2 := pts[j].X, pts[j].Y
			if y1 == y2 {
				continue
			}
			if y < min(y1, y2) || y >= max(y1, y2) {
				continue
			}
			x := x1 + (y-y1)*(x2-x1)/(y2-y1)
			tmp = append(tmp, x)
		}
		if len(tmp) < 2 {
			continue
		}
		sort.Ints(tmp)
		for i := 0; i+1 < len(tmp); i += 2 {
			xStart := tmp[i]
			xEnd := tmp[i+1]
			if xStart > xEnd {
				xStart, xEnd = xEnd, xStart
			}
			if xEnd < bounds.Min.X || xStart >= bounds.Max.X {
				continue
			}
			if xStart < bounds.Min.X {
				xStart = bounds.Min.X
			}
			if xEnd > bounds.Max.X-1 {
				xEnd = bounds.Max.X - 1
			}
			for x := xStart; x <= xEnd; x++ {
				idx := (y-bounds.Min.Y)*img.Stride + (x-bounds.Min.X)*4
				img.Pix[idx] = col.R
				img.Pix[idx+1] = col.G
				img.Pix[idx+2] = col.B
				img.Pix[idx+3] = col.A
			}
		}
	}
}

func ensurePreviewDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is empty")
	}
	return os.MkdirAll(dir, 0o755)
}
