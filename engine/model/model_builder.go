package model

import "github.com/Carmen-Shannon/oxy-hexpick/common"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithCoords is an option builder that sets the vertex positions of the Model.
//
// Parameters:
//   - coords: the positions, referenced by 1-based Face.Vertex indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the coords option to a model
func WithCoords(coords []common.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.coords = coords
	}
}

// WithNormals is an option builder that sets the vertex normals of the Model.
//
// Parameters:
//   - normals: the normals, referenced by 1-based Face.Normal indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the normals option to a model
func WithNormals(normals []common.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.normals = normals
	}
}

// WithTexCoords is an option builder that sets the texture coordinates of the Model.
//
// Parameters:
//   - uv: the texture coordinates, referenced by 1-based Face.Texture indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the texture coordinate option to a model
func WithTexCoords(uv []common.Vec2) ModelBuilderOption {
	return func(m *model) {
		m.texCoords = uv
	}
}

// WithFaces is an option builder that sets the triangles of the Model.
//
// Parameters:
//   - faces: the faces
//
// Returns:
//   - ModelBuilderOption: a function that applies the faces option to a model
func WithFaces(faces []Face) ModelBuilderOption {
	return func(m *model) {
		m.faces = faces
	}
}
