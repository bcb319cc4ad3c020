package mesh

const (
	// DefaultPositionAttribute is the vertex attribute positions are bound to unless overridden.
	DefaultPositionAttribute = "position"

	// DefaultColorAttribute is the vertex attribute colors are bound to unless overridden.
	DefaultColorAttribute = "color"

	// DefaultTexCoordAttribute is the vertex attribute texture coordinates are bound to unless overridden.
	DefaultTexCoordAttribute = "in_texture_coordinates"
)

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithPositionAttribute is an option builder that sets the shader attribute name positions are bound to.
//
// Parameters:
//   - name: the vertex shader input receiving positions
//
// Returns:
//   - MeshBuilderOption: a function that applies the attribute name to a mesh
func WithPositionAttribute(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.positionAttribute = name
	}
}

// WithColorAttribute is an option builder that sets the shader attribute name colors are bound to.
//
// Parameters:
//   - name: the vertex shader input receiving colors
//
// Returns:
//   - MeshBuilderOption: a function that applies the attribute name to a mesh
func WithColorAttribute(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.colorAttribute = name
	}
}

// WithTexCoordAttribute is an option builder that sets the shader attribute name texture coordinates are bound to.
//
// Parameters:
//   - name: the vertex shader input receiving texture coordinates
//
// Returns:
//   - MeshBuilderOption: a function that applies the attribute name to a mesh
func WithTexCoordAttribute(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.texCoordAttribute = name
	}
}
