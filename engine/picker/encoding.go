package picker

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
)

const (
	// MaxMapAxis is the largest map width or height the picker accepts. Coordinates are written to 8-bit
	// channels as c/255, so only 0..254 survive the round trip and 255 tiles per axis is the limit.
	MaxMapAxis = 255

	// MaxTileCoord is the largest coordinate component that can be encoded.
	MaxTileCoord = MaxMapAxis - 1
)

// ErrMapTooLarge is returned by Init when either map axis exceeds MaxMapAxis.
var ErrMapTooLarge = errors.New("picker: map exceeds 255 tiles per axis")

// EncodeTileColor returns the pick color for a tile: (x/255, y/255, 1). The blue channel marks the pixel as
// covered by a tile so that tile (0, 0) is distinguishable from the black background.
//
// Parameters:
//   - t: the tile; each component must be in [0, MaxTileCoord]
//
// Returns:
//   - common.Color3: the encoded color
func EncodeTileColor(t common.TileCoord) common.Color3 {
	return common.Color3{
		R: float32(t.X) / 255,
		G: float32(t.Y) / 255,
		B: 1,
	}
}

// DecodeTilePixel turns an RGBA8 pixel read back from the pick buffer into a tile coordinate.
//
// Parameters:
//   - px: the pixel
//
// Returns:
//   - common.TileCoord: (R, G) when a tile was hit
//   - bool: false when blue is zero, i.e. the pixel shows the background
func DecodeTilePixel(px [4]byte) (common.TileCoord, bool) {
	if px[2] == 0 {
		return common.TileCoord{}, false
	}
	return common.TileCoord{X: int(px[0]), Y: int(px[1])}, true
}
