// Package hexgrid describes the layout of a pointy-top hex tile map in world space: where each tile's center
// sits, where the six corners of a tile lie relative to that center, and the reverse lookup from a world
// position to the tile containing it. Odd rows are not shifted; even rows are shifted right by one inner radius.
package hexgrid

import (
	"iter"
	"math"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/go-gl/mathgl/mgl32"
)

// geometry is the implementation of the Geometry interface.
type geometry struct {
	outer   float32
	inner   float32
	corners [6]common.Vec3
}

// Geometry maps tile coordinates to world positions.
type Geometry interface {
	// CornerOffset returns the offset of corner i from a tile center. i is taken modulo 6, so CornerOffset(6)
	// equals CornerOffset(0) and consecutive indices walk around the hexagon counter-clockwise.
	//
	// Parameters:
	//   - i: corner index
	//
	// Returns:
	//   - common.Vec3: the corner offset, z = 0
	CornerOffset(i int) common.Vec3

	// TileToWorld returns the world position of a tile's center.
	//
	// Parameters:
	//   - t: the tile
	//
	// Returns:
	//   - common.Vec3: the center, z = 0
	TileToWorld(t common.TileCoord) common.Vec3

	// OuterRadius returns the center-to-corner distance.
	//
	// Returns:
	//   - float32: the outer radius
	OuterRadius() float32

	// InnerRadius returns the center-to-edge distance, sqrt(R² - (R/2)²).
	//
	// Returns:
	//   - float32: the inner radius
	InnerRadius() float32
}

var _ Geometry = &geometry{}

// NewGeometry creates the default hex Geometry. The outer radius defaults to 1.
//
// Parameters:
//   - options: functional options such as WithRadius
//
// Returns:
//   - Geometry: the geometry
func NewGeometry(options ...GeometryBuilderOption) Geometry {
	g := &geometry{outer: DefaultRadius}
	for _, opt := range options {
		opt(g)
	}
	g.inner = float32(math.Sqrt(float64(g.outer*g.outer) - float64(g.outer*g.outer)/4))
	for i := range g.corners {
		angle := math.Pi/2 + float64(i)*math.Pi/3
		g.corners[i] = common.Vec3{
			g.outer * float32(math.Cos(angle)),
			g.outer * float32(math.Sin(angle)),
			0,
		}
	}
	return g
}

func (g *geometry) CornerOffset(i int) common.Vec3 {
	i %= 6
	if i < 0 {
		i += 6
	}
	return g.corners[i]
}

func (g *geometry) TileToWorld(t common.TileCoord) common.Vec3 {
	x := 2 * g.inner * float32(t.X)
	if t.Y%2 == 0 {
		x += g.inner
	}
	return common.Vec3{x, 1.5 * g.outer * float32(t.Y), 0}
}

func (g *geometry) OuterRadius() float32 {
	return g.outer
}

func (g *geometry) InnerRadius() float32 {
	return g.inner
}

// Tiles iterates every tile of a map in row-major order: all of row 0, then row 1, and so on.
//
// Parameters:
//   - size: the map size in tiles
//
// Returns:
//   - iter.Seq[common.TileCoord]: the tiles
func Tiles(size common.Size2) iter.Seq[common.TileCoord] {
	return func(yield func(common.TileCoord) bool) {
		for y := 0; y < size.H; y++ {
			for x := 0; x < size.W; x++ {
				if !yield(common.TileCoord{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// WorldToTile finds the tile whose hexagon contains p (ignoring z). Hex cells are exactly the regions closest
// to their centers, so this is a nearest-center search over the handful of candidates around p.
//
// Parameters:
//   - g: the geometry
//   - p: a world position
//   - size: the map size in tiles
//
// Returns:
//   - common.TileCoord: the containing tile
//   - bool: false if p lies outside the map
func WorldToTile(g Geometry, p common.Vec3, size common.Size2) (common.TileCoord, bool) {
	rowStep := 1.5 * g.OuterRadius()
	colStep := 2 * g.InnerRadius()
	if rowStep <= 0 || colStep <= 0 {
		return common.TileCoord{}, false
	}

	row := int(math.Round(float64(p.Y() / rowStep)))
	best := common.TileCoord{}
	bestDist := float32(math.MaxFloat32)
	for y := row - 1; y <= row+1; y++ {
		offset := float32(0)
		if y%2 == 0 {
			offset = g.InnerRadius()
		}
		col := int(math.Round(float64((p.X() - offset) / colStep)))
		for x := col - 1; x <= col+1; x++ {
			t := common.TileCoord{X: x, Y: y}
			c := g.TileToWorld(t)
			d := mgl32.Vec2{p.X() - c.X(), p.Y() - c.Y()}.Len()
			if d < bestDist {
				best, bestDist = t, d
			}
		}
	}

	if best.X < 0 || best.Y < 0 || best.X >= size.W || best.Y >= size.H {
		return common.TileCoord{}, false
	}
	return best, true
}

// Bounds returns the axis-aligned box enclosing every hexagon of a map.
//
// Parameters:
//   - g: the geometry
//   - size: the map size in tiles
//
// Returns:
//   - common.Vec3: the minimum corner
//   - common.Vec3: the maximum corner
func Bounds(g Geometry, size common.Size2) (common.Vec3, common.Vec3) {
	if size.W <= 0 || size.H <= 0 {
		return common.Vec3{}, common.Vec3{}
	}
	inf := float32(math.Inf(1))
	lo := common.Vec3{inf, inf, 0}
	hi := common.Vec3{-inf, -inf, 0}
	for t := range Tiles(size) {
		c := g.TileToWorld(t)
		for i := 0; i < 6; i++ {
			v := c.Add(g.CornerOffset(i))
			lo[0], lo[1] = min(lo[0], v[0]), min(lo[1], v[1])
			hi[0], hi[1] = max(hi[0], v[0]), max(hi[1], v[1])
		}
	}
	return lo, hi
}
