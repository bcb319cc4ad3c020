package mesh

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu/gputest"
)

const colorVertex = `#version 410 core
in vec3 position;
in vec3 color;
out vec3 frag_color;
void main() { frag_color = color; gl_Position = vec4(position, 1.0); }
`

const colorFragment = `#version 410 core
in vec3 frag_color;
out vec4 out_color;
void main() { out_color = vec4(frag_color, 1.0); }
`

func triangle() []common.Vec3 {
	return []common.Vec3{{-1, -1, 0}, {1, -1, 0}, {0, 1, 0}}
}

func TestMeshInit(t *testing.T) {
	d := gputest.NewDevice(4, 4)
	m := NewMesh(d)

	if err := m.Init(triangle()[:2]); err == nil {
		t.Error("Init(2 vertices) error = nil, want error")
	}
	if d.LiveBuffers() != 0 {
		t.Errorf("LiveBuffers() = %d after rejected Init, want 0", d.LiveBuffers())
	}

	if err := m.Init(triangle()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if m.VertexCount() != 3 || m.FaceCount() != 1 {
		t.Errorf("VertexCount() = %d, FaceCount() = %d, want 3 and 1", m.VertexCount(), m.FaceCount())
	}

	// re-Init replaces the position buffer and drops the stale color buffer
	if err := m.SetColor([]common.Color3{{R: 1, G: 0, B: 0}, {R: 1, G: 0, B: 0}, {R: 1, G: 0, B: 0}}); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if err := m.Init(append(triangle(), triangle()...)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if d.LiveBuffers() != 1 || m.HasColor() {
		t.Errorf("after re-Init LiveBuffers() = %d, HasColor() = %v, want 1 and false", d.LiveBuffers(), m.HasColor())
	}

	m.Close()
	if d.LiveBuffers() != 0 || len(d.DoubleFrees()) != 0 {
		t.Errorf("after Close LiveBuffers() = %d, DoubleFrees() = %v", d.LiveBuffers(), d.DoubleFrees())
	}
}

func TestMeshSetColorLength(t *testing.T) {
	d := gputest.NewDevice(4, 4)
	m := NewMesh(d)
	defer m.Close()

	if err := m.SetColor([]common.Color3{{R: 1, G: 1, B: 1}}); err == nil {
		t.Error("SetColor() before Init error = nil, want error")
	}
	if err := m.Init(triangle()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := m.SetColor([]common.Color3{{R: 1, G: 1, B: 1}}); err == nil {
		t.Error("SetColor(1 color for 3 vertices) error = nil, want error")
	}
	if err := m.SetTexCoords([]common.Vec2{{0, 0}, {1, 0}}); err == nil {
		t.Error("SetTexCoords(2 coords for 3 vertices) error = nil, want error")
	}

	colors := []common.Color3{{R: 1, G: 0, B: 0}, {R: 0, G: 1, B: 0}, {R: 0, G: 0, B: 1}}
	if err := m.SetColor(colors); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	if err := m.SetColor(colors); err != nil {
		t.Fatalf("second SetColor() error = %v", err)
	}
	if d.LiveBuffers() != 2 {
		t.Errorf("LiveBuffers() = %d after replacing colors, want 2", d.LiveBuffers())
	}
}

func TestMeshDrawOrder(t *testing.T) {
	d := gputest.NewDevice(4, 4)
	p, err := gpu.CompileProgram(d, colorVertex, colorFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	defer p.Close()

	m := NewMesh(d)
	defer m.Close()
	if err := m.Init(triangle()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := m.SetColor([]common.Color3{{R: 0, G: 1, B: 0}, {R: 0, G: 1, B: 0}, {R: 0, G: 1, B: 0}}); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}

	p.Use()
	d.ResetCalls()
	m.Draw(p)

	var binds []string
	for _, c := range d.Calls() {
		if strings.HasPrefix(c, "BindBuffer") || strings.HasPrefix(c, "VertexAttribPointer") || strings.HasPrefix(c, "DrawTriangles") {
			binds = append(binds, c)
		}
	}
	colorLoc := p.AttribLocation("color")
	posLoc := p.AttribLocation("position")
	colorBuf, _, _ := d.AttribSource(colorLoc)
	posBuf, _, _ := d.AttribSource(posLoc)
	want := []string{
		fmt.Sprintf("BindBuffer %d", colorBuf),
		fmt.Sprintf("VertexAttribPointer %d 3", colorLoc),
		fmt.Sprintf("BindBuffer %d", posBuf),
		fmt.Sprintf("VertexAttribPointer %d 3", posLoc),
		"DrawTriangles 1",
	}
	if !slices.Equal(binds, want) {
		t.Errorf("draw sequence = %v, want %v", binds, want)
	}

	// the triangle covers the center of the 4x4 screen
	if px := d.Pixel(gpu.DefaultFramebuffer, 2, 1); px != [4]byte{0, 255, 0, 255} {
		t.Errorf("Pixel(2, 1) = %v, want green", px)
	}
}

func TestMeshDrawSkipsMissingAttributes(t *testing.T) {
	d := gputest.NewDevice(4, 4)
	p, err := gpu.CompileProgram(d, colorVertex, colorFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	defer p.Close()

	m := NewMesh(d, WithPositionAttribute("in_vertex_coordinates"))
	defer m.Close()
	if err := m.Init(triangle()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := m.SetTexCoords([]common.Vec2{{0, 0}, {1, 0}, {0.5, 1}}); err != nil {
		t.Fatalf("SetTexCoords() error = %v", err)
	}

	p.Use()
	d.ResetCalls()
	m.Draw(p)
	for _, c := range d.Calls() {
		if strings.HasPrefix(c, "VertexAttribPointer") {
			t.Errorf("unexpected %q for attributes the program does not declare", c)
		}
	}
	if len(d.Draws()) != 1 {
		t.Errorf("Draws() = %d, want 1", len(d.Draws()))
	}
}

func TestMeshCreateCloseCycles(t *testing.T) {
	d := gputest.NewDevice(4, 4)
	colors := []common.Color3{{R: 1, G: 0, B: 0}, {R: 0, G: 1, B: 0}, {R: 0, G: 0, B: 1}}
	for i := 0; i < 1000; i++ {
		m := NewMesh(d)
		if err := m.Init(triangle()); err != nil {
			t.Fatalf("cycle %d: Init() error = %v", i, err)
		}
		if err := m.SetColor(colors); err != nil {
			t.Fatalf("cycle %d: SetColor() error = %v", i, err)
		}
		m.Close()
		m.Close()
	}
	if d.LiveBuffers() != 0 {
		t.Errorf("LiveBuffers() = %d, want 0", d.LiveBuffers())
	}
	if len(d.DoubleFrees()) != 0 {
		t.Errorf("DoubleFrees() = %d, want 0", len(d.DoubleFrees()))
	}
}

func TestMeshDrawAfterClosePanics(t *testing.T) {
	d := gputest.NewDevice(4, 4)
	p, err := gpu.CompileProgram(d, colorVertex, colorFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	defer p.Close()

	m := NewMesh(d)
	if err := m.Init(triangle()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	m.Close()

	defer func() {
		if recover() == nil {
			t.Error("Draw after Close did not panic")
		}
	}()
	m.Draw(p)
}
