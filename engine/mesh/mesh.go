package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	device gpu.Device

	positionAttribute string
	colorAttribute    string
	texCoordAttribute string

	positions gpu.BufferID
	colors    gpu.BufferID
	texCoords gpu.BufferID

	vertexCount int
	closed      bool
}

// Mesh defines the interface for a triangle-list mesh living in GPU vertex buffers.
// A Mesh owns its buffers exclusively: each is released exactly once, either when it is replaced
// or when the Mesh is closed.
type Mesh interface {
	// Init uploads vertex positions, replacing any previous geometry. Every three positions form one triangle.
	// Color and texture coordinate buffers from an earlier Init are released, since they no longer match.
	//
	// Parameters:
	//   - positions: triangle-list vertex positions; the count must be a multiple of 3
	//
	// Returns:
	//   - error: an error if the vertex count is not a multiple of 3
	Init(positions []common.Vec3) error

	// SetColor uploads one color per vertex, replacing any previous color buffer.
	//
	// Parameters:
	//   - colors: per-vertex colors; the count must equal the vertex count
	//
	// Returns:
	//   - error: an error if the mesh has no positions yet or the count does not match
	SetColor(colors []common.Color3) error

	// SetTexCoords uploads one texture coordinate per vertex, replacing any previous texture coordinate buffer.
	//
	// Parameters:
	//   - uv: per-vertex texture coordinates; the count must equal the vertex count
	//
	// Returns:
	//   - error: an error if the mesh has no positions yet or the count does not match
	SetTexCoords(uv []common.Vec2) error

	// Draw binds each present vertex attribute to p and draws the mesh. Colors are bound first, then texture
	// coordinates, then positions. Attributes the program does not declare are skipped.
	//
	// Parameters:
	//   - p: the program to draw with; it must be in use
	Draw(p *gpu.Program)

	// VertexCount returns the number of vertices uploaded by the last Init.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// FaceCount returns VertexCount / 3.
	//
	// Returns:
	//   - int: the triangle count
	FaceCount() int

	// HasColor reports whether a color buffer is present.
	//
	// Returns:
	//   - bool: true once SetColor succeeded
	HasColor() bool

	// HasTexCoords reports whether a texture coordinate buffer is present.
	//
	// Returns:
	//   - bool: true once SetTexCoords succeeded
	HasTexCoords() bool

	// Close releases every owned buffer. It is safe to call more than once.
	Close()
}

var _ Mesh = &mesh{}

// NewMesh creates an empty Mesh on d. No GPU resources are allocated until Init.
//
// Parameters:
//   - d: the device the mesh's buffers live on
//   - options: functional options overriding attribute names
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(d gpu.Device, options ...MeshBuilderOption) Mesh {
	m := &mesh{
		device:            d,
		positionAttribute: DefaultPositionAttribute,
		colorAttribute:    DefaultColorAttribute,
		texCoordAttribute: DefaultTexCoordAttribute,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *mesh) Init(positions []common.Vec3) error {
	if m.closed {
		return fmt.Errorf("mesh: Init on closed mesh")
	}
	if len(positions)%3 != 0 {
		return fmt.Errorf("mesh: vertex count %d is not a multiple of 3", len(positions))
	}

	m.release(&m.positions)
	m.release(&m.colors)
	m.release(&m.texCoords)

	m.positions = m.device.GenBuffer()
	gpu.UploadBuffer(m.device, m.positions, flatten3(positions))
	m.vertexCount = len(positions)
	return nil
}

func (m *mesh) SetColor(colors []common.Color3) error {
	if err := m.checkCount("SetColor", len(colors)); err != nil {
		return err
	}
	data := make([]float32, 0, len(colors)*3)
	for _, c := range colors {
		data = append(data, c.R, c.G, c.B)
	}
	m.release(&m.colors)
	m.colors = m.device.GenBuffer()
	gpu.UploadBuffer(m.device, m.colors, data)
	return nil
}

func (m *mesh) SetTexCoords(uv []common.Vec2) error {
	if err := m.checkCount("SetTexCoords", len(uv)); err != nil {
		return err
	}
	data := make([]float32, 0, len(uv)*2)
	for _, t := range uv {
		data = append(data, t[0], t[1])
	}
	m.release(&m.texCoords)
	m.texCoords = m.device.GenBuffer()
	gpu.UploadBuffer(m.device, m.texCoords, data)
	return nil
}

func (m *mesh) Draw(p *gpu.Program) {
	if m.closed {
		panic("mesh: Draw on closed mesh")
	}
	if m.positions == 0 {
		panic("mesh: Draw before Init")
	}

	if m.colors != 0 {
		m.bindAttribute(p, m.colors, m.colorAttribute, 3)
	}
	if m.texCoords != 0 {
		m.bindAttribute(p, m.texCoords, m.texCoordAttribute, 2)
	}
	m.bindAttribute(p, m.positions, m.positionAttribute, 3)
	m.device.DrawTriangles(m.vertexCount / 3)
}

// bindAttribute binds buf and points the named attribute of p at it.
func (m *mesh) bindAttribute(p *gpu.Program, buf gpu.BufferID, name string, components int) {
	m.device.BindBuffer(buf)
	loc := p.AttribLocation(name)
	if !loc.Valid() {
		return
	}
	m.device.EnableVertexAttribArray(loc)
	m.device.VertexAttribPointer(loc, components)
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) FaceCount() int {
	return m.vertexCount / 3
}

func (m *mesh) HasColor() bool {
	return m.colors != 0
}

func (m *mesh) HasTexCoords() bool {
	return m.texCoords != 0
}

func (m *mesh) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.release(&m.positions)
	m.release(&m.colors)
	m.release(&m.texCoords)
	m.vertexCount = 0
}

// release deletes *buf if set and clears it so it is never deleted twice.
func (m *mesh) release(buf *gpu.BufferID) {
	if *buf == 0 {
		return
	}
	m.device.DeleteBuffer(*buf)
	*buf = 0
}

func (m *mesh) checkCount(op string, n int) error {
	if m.closed {
		return fmt.Errorf("mesh: %s on closed mesh", op)
	}
	if m.positions == 0 {
		return fmt.Errorf("mesh: %s before Init", op)
	}
	if n != m.vertexCount {
		return fmt.Errorf("mesh: %s got %d values for %d vertices", op, n, m.vertexCount)
	}
	return nil
}

func flatten3(v []common.Vec3) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}
