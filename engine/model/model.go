package model

import (
	"github.com/Carmen-Shannon/oxy-hexpick/common"
)

// Face is one triangle of an OBJ model. Each array holds three 1-based indices, one per corner, into the
// model's coordinate, texture coordinate and normal arrays.
type Face struct {
	Vertex  [3]int
	Texture [3]int
	Normal  [3]int
}

// model is the implementation of the Model interface.
type model struct {
	name      string
	coords    []common.Vec3
	normals   []common.Vec3
	texCoords []common.Vec2
	faces     []Face
}

// Model defines the interface for a parsed triangle model.
// A Model keeps the indexed arrays as read from the file; the Build methods expand them into flat,
// draw-ready arrays with one vertex triple per face, in face order.
type Model interface {
	// Name retrieves the model identifier, usually the file path it was loaded from.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Coords returns the vertex positions in declaration order.
	//
	// Returns:
	//   - []common.Vec3: the positions
	Coords() []common.Vec3

	// Normals returns the vertex normals in declaration order.
	//
	// Returns:
	//   - []common.Vec3: the normals
	Normals() []common.Vec3

	// TexCoords returns the texture coordinates in declaration order, already flipped to (u, 1 - v).
	//
	// Returns:
	//   - []common.Vec2: the texture coordinates
	TexCoords() []common.Vec2

	// Faces returns the triangles in declaration order.
	//
	// Returns:
	//   - []Face: the faces
	Faces() []Face

	// FaceCount returns the number of triangles.
	//
	// Returns:
	//   - int: the face count
	FaceCount() int

	// Build resolves every face's vertex indices into positions.
	//
	// Returns:
	//   - []common.Vec3: 3 positions per face
	Build() []common.Vec3

	// BuildTexCoords resolves every face's texture indices into texture coordinates.
	//
	// Returns:
	//   - []common.Vec2: 3 texture coordinates per face, or nil when the model has no texture coordinates
	BuildTexCoords() []common.Vec2

	// BuildNormals resolves every face's normal indices into normals.
	//
	// Returns:
	//   - []common.Vec3: 3 normals per face, or nil when the model has no normals
	BuildNormals() []common.Vec3

	// Bounds returns the axis-aligned box around every declared position.
	//
	// Returns:
	//   - common.Vec3: the minimum corner, zero for an empty model
	//   - common.Vec3: the maximum corner, zero for an empty model
	Bounds() (common.Vec3, common.Vec3)
}

var _ Model = &model{}

// NewModel creates a new Model instance with the provided options.
// Indices in the faces are trusted: use ParseOBJ for untrusted input, it range-checks every face.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Coords() []common.Vec3 {
	return m.coords
}

func (m *model) Normals() []common.Vec3 {
	return m.normals
}

func (m *model) TexCoords() []common.Vec2 {
	return m.texCoords
}

func (m *model) Faces() []Face {
	return m.faces
}

func (m *model) FaceCount() int {
	return len(m.faces)
}

func (m *model) Build() []common.Vec3 {
	return expand(m.faces, m.coords, func(f Face) [3]int { return f.Vertex })
}

func (m *model) BuildTexCoords() []common.Vec2 {
	return expand(m.faces, m.texCoords, func(f Face) [3]int { return f.Texture })
}

func (m *model) BuildNormals() []common.Vec3 {
	return expand(m.faces, m.normals, func(f Face) [3]int { return f.Normal })
}

func (m *model) Bounds() (common.Vec3, common.Vec3) {
	if len(m.coords) == 0 {
		return common.Vec3{}, common.Vec3{}
	}
	lo, hi := m.coords[0], m.coords[0]
	for _, c := range m.coords[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], c[i])
			hi[i] = max(hi[i], c[i])
		}
	}
	return lo, hi
}

// expand converts 1-based face indices picked by sel into a flat array of values.
// An empty values array has nothing to resolve against and yields nil.
func expand[T any](faces []Face, values []T, sel func(Face) [3]int) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, 0, len(faces)*3)
	for _, f := range faces {
		for _, idx := range sel(f) {
			out = append(out, values[idx-1])
		}
	}
	return out
}
