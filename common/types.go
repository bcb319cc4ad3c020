// package common contains common types that are used throughout the picker. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a 3-component float vector in render space. It is used both for world positions and for offsets
// (hex corner offsets are added to tile centers).
type Vec3 = mgl32.Vec3

// Vec2 is a 2-component float vector, used for texture coordinates.
type Vec2 = mgl32.Vec2

// TileCoord identifies a single hex cell on the map by its column (X) and row (Y).
// Picking encodes each component into one 8-bit color channel, so only components in [0, 254] round-trip.
type TileCoord struct {
	X int
	Y int
}

// String renders the coordinate as "(x, y)".
func (t TileCoord) String() string {
	return fmt.Sprintf("(%d, %d)", t.X, t.Y)
}

// Color3 is an RGB vertex color with channels in [0, 1].
// The layout is three tightly packed float32 values so slices can be uploaded to the GPU directly.
type Color3 struct {
	R float32
	G float32
	B float32
}

// Size2 is an integer width/height pair. It is used for map sizes (in tiles) and window sizes (in pixels).
type Size2 struct {
	W int
	H int
}

// Area returns W * H.
//
// Returns:
//   - int: the number of cells (or pixels) covered by the size
func (s Size2) Area() int {
	return s.W * s.H
}

// CursorPos is a cursor position in window coordinates as reported by the windowing layer.
// The origin is the top-left corner of the window and Y grows downward.
type CursorPos struct {
	X float64
	Y float64
}
