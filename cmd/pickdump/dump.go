package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/picker"
	"github.com/HugoSmits86/nativewebp"
)

// summary describes a decoded pick buffer.
type summary struct {
	// Pixels is the image area.
	Pixels int

	// TilePixels counts pixels that decode to a tile on the map.
	TilePixels int

	// Stray counts pixels that decode to a coordinate outside the map.
	Stray int

	// Tiles counts distinct tiles with at least one pixel.
	Tiles int

	// Missing lists map tiles with no pixel, in row-major order.
	Missing []common.TileCoord
}

// summarize decodes every pixel of a pick buffer.
func summarize(img *image.RGBA, size common.Size2) summary {
	b := img.Bounds()
	s := summary{Pixels: b.Dx() * b.Dy()}
	seen := make(map[common.TileCoord]bool)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			tile, ok := picker.DecodeTilePixel([4]byte(img.Pix[i : i+4]))
			if !ok {
				continue
			}
			if tile.X >= size.W || tile.Y >= size.H {
				s.Stray++
				continue
			}
			s.TilePixels++
			seen[tile] = true
		}
	}
	s.Tiles = len(seen)
	for t := range hexgrid.Tiles(size) {
		if !seen[t] {
			s.Missing = append(s.Missing, t)
		}
	}
	return s
}

// formatFor picks the output encoding from the file extension.
func formatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".webp", ".png":
		return ext[1:], nil
	default:
		return "", fmt.Errorf("pickdump: unsupported output format %q, want .webp or .png", ext)
	}
}

// encode writes img losslessly, so every pixel still decodes to the same tile.
func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "webp":
		return nativewebp.Encode(w, img, nil)
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("pickdump: unsupported output format %q", format)
	}
}
