package hexgrid

// DefaultRadius is the outer radius used when no WithRadius option is given.
const DefaultRadius float32 = 1

// GeometryBuilderOption is a functional option for configuring a Geometry via NewGeometry.
type GeometryBuilderOption func(*geometry)

// WithRadius is an option builder that sets the outer (center-to-corner) radius of every tile.
// Non-positive values are ignored.
//
// Parameters:
//   - radius: the outer radius in world units
//
// Returns:
//   - GeometryBuilderOption: a function that applies the radius to a geometry
func WithRadius(radius float32) GeometryBuilderOption {
	return func(g *geometry) {
		if radius > 0 {
			g.outer = radius
		}
	}
}
