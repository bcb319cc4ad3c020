package gpu_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-hexpick/assets"
	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu/gputest"
)

const testVertex = `#version 410 core
in vec3 position;
in vec3 color;
uniform mat4 mvp_mat;
out vec3 frag_color;
void main() {
    frag_color = color;
    gl_Position = mvp_mat * vec4(position, 1.0);
}
`

const testFragment = `#version 410 core
in vec3 frag_color;
out vec4 out_color;
void main() {
    out_color = vec4(frag_color, 1.0);
}
`

func TestCompileProgram(t *testing.T) {
	d := gputest.NewDevice(8, 8)
	p, err := gpu.CompileProgram(d, testVertex, testFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	if d.LivePrograms() != 1 {
		t.Errorf("LivePrograms() = %d, want 1", d.LivePrograms())
	}
	if d.LiveShaders() != 0 {
		t.Errorf("LiveShaders() = %d, want 0 after link", d.LiveShaders())
	}

	if loc := p.AttribLocation("position"); loc != 0 {
		t.Errorf("AttribLocation(position) = %d, want 0", loc)
	}
	if loc := p.AttribLocation("color"); loc != 1 {
		t.Errorf("AttribLocation(color) = %d, want 1", loc)
	}
	if loc := p.AttribLocation("missing"); loc.Valid() {
		t.Errorf("AttribLocation(missing) = %d, want -1", loc)
	}
	if loc := p.UniformLocation("mvp_mat"); !loc.Valid() {
		t.Errorf("UniformLocation(mvp_mat) = %d, want valid", loc)
	}

	// cached lookups do not go back to the device
	d.ResetCalls()
	p.AttribLocation("position")
	p.UniformLocation("mvp_mat")
	for _, c := range d.Calls() {
		if strings.HasPrefix(c, "AttribLocation") || strings.HasPrefix(c, "UniformLocation") {
			t.Errorf("cached lookup issued device call %q", c)
		}
	}

	p.Close()
	p.Close()
	if d.LivePrograms() != 0 {
		t.Errorf("LivePrograms() = %d after Close, want 0", d.LivePrograms())
	}
	if len(d.DoubleFrees()) != 0 {
		t.Errorf("DoubleFrees() = %v, want none", d.DoubleFrees())
	}
}

func TestProgramLookupAfterClosePanics(t *testing.T) {
	d := gputest.NewDevice(8, 8)
	p, err := gpu.CompileProgram(d, testVertex, testFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	p.AttribLocation("position")
	p.Close()

	defer func() {
		if recover() == nil {
			t.Error("AttribLocation after Close did not panic")
		}
	}()
	p.AttribLocation("position")
}

func TestCompileProgramErrors(t *testing.T) {
	tests := []struct {
		name     string
		vertex   string
		fragment string
		kind     common.AssetErrorKind
	}{
		{
			name:     "vertex compile failure",
			vertex:   "#version 410 core\n#error broken\nvoid main() {}\n",
			fragment: testFragment,
			kind:     common.KindShaderCompile,
		},
		{
			name:     "fragment compile failure",
			vertex:   testVertex,
			fragment: "#version 410 core\nout vec4 c;\n",
			kind:     common.KindShaderCompile,
		},
		{
			name:     "link failure",
			vertex:   "#version 410 core\nin vec3 position;\nvoid main() {}\n",
			fragment: testFragment,
			kind:     common.KindProgramLink,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gputest.NewDevice(8, 8)
			p, err := gpu.CompileProgram(d, tt.vertex, tt.fragment)
			if err == nil {
				p.Close()
				t.Fatal("CompileProgram() error = nil, want error")
			}
			if !errors.Is(err, common.ErrAsset) {
				t.Errorf("error %v is not an asset error", err)
			}
			if kind, _ := common.AssetKind(err); kind != tt.kind {
				t.Errorf("kind = %s, want %s", kind, tt.kind)
			}
			if d.LiveShaders() != 0 || d.LivePrograms() != 0 {
				t.Errorf("leaked %d shaders and %d programs on error path", d.LiveShaders(), d.LivePrograms())
			}
		})
	}
}

func TestLoadProgram(t *testing.T) {
	dir := t.TempDir()
	vsPath := filepath.Join(dir, "map.vs.glsl")
	fsPath := filepath.Join(dir, "map.fs.glsl")
	if err := os.WriteFile(vsPath, []byte(testVertex), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fsPath, []byte(testFragment), 0o644); err != nil {
		t.Fatal(err)
	}

	d := gputest.NewDevice(8, 8)
	p, err := gpu.LoadProgram(d, vsPath, fsPath)
	if err != nil {
		t.Fatalf("LoadProgram() error = %v", err)
	}
	defer p.Close()
	if p.VertexShader().Path() != vsPath {
		t.Errorf("VertexShader().Path() = %s, want %s", p.VertexShader().Path(), vsPath)
	}

	_, err = gpu.LoadProgram(d, filepath.Join(dir, "missing.glsl"), fsPath)
	if kind, ok := common.AssetKind(err); !ok || kind != common.KindShaderSource {
		t.Errorf("LoadProgram(missing) error = %v, want shader source error", err)
	}
}

func TestUploadBufferBindsBeforeFill(t *testing.T) {
	d := gputest.NewDevice(8, 8)
	a := d.GenBuffer()
	b := d.GenBuffer()
	d.BindBuffer(b)

	gpu.UploadBuffer(d, a, []float32{1, 2, 3})
	if got, _ := d.BufferData(a); len(got) != 3 || got[2] != 3 {
		t.Errorf("BufferData(a) = %v, want [1 2 3]", got)
	}
	if got, _ := d.BufferData(b); len(got) != 0 {
		t.Errorf("BufferData(b) = %v, want empty", got)
	}
}

func TestDrawTrianglesCoversThreeVerticesPerFace(t *testing.T) {
	d := gputest.NewDevice(8, 8)
	p, err := gpu.CompileProgram(d, testVertex, testFragment)
	if err != nil {
		t.Fatalf("CompileProgram() error = %v", err)
	}
	defer p.Close()

	buf := d.GenBuffer()
	gpu.UploadBuffer(d, buf, make([]float32, 4*3*3))
	p.Use()
	loc := p.EnableAttribute("position")
	d.VertexAttribPointer(loc, 3)
	d.DrawTriangles(4)

	draws := d.Draws()
	if len(draws) != 1 || draws[0].Vertices != 12 || draws[0].Program != p.ID() {
		t.Errorf("Draws() = %+v, want one 12-vertex draw", draws)
	}
}

func TestRenderTarget(t *testing.T) {
	d := gputest.NewDevice(16, 16)
	rt, err := gpu.NewRenderTarget(d, 4, 2)
	if err != nil {
		t.Fatalf("NewRenderTarget() error = %v", err)
	}

	rt.Bind()
	if w, h := d.ViewportSize(); w != 4 || h != 2 {
		t.Errorf("viewport after Bind = %dx%d, want 4x2", w, h)
	}
	d.SetClearColor(1, 0, 0)
	d.Clear()
	img := rt.Snapshot()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 || img.Pix[0] != 255 {
		t.Errorf("Snapshot() = %v, want 4x2 red", img.Bounds())
	}
	rt.Unbind(16, 16)
	if d.BoundFramebuffer() != gpu.DefaultFramebuffer {
		t.Errorf("BoundFramebuffer() = %d after Unbind, want default", d.BoundFramebuffer())
	}
	if px := d.Pixel(gpu.DefaultFramebuffer, 0, 0); px[0] != 0 {
		t.Errorf("screen pixel = %v, want untouched", px)
	}

	if err := rt.Resize(8, 8); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h := rt.Size(); w != 8 || h != 8 {
		t.Errorf("Size() = %dx%d, want 8x8", w, h)
	}
	if d.LiveFramebuffers() != 1 {
		t.Errorf("LiveFramebuffers() = %d after Resize, want 1", d.LiveFramebuffers())
	}

	rt.Close()
	rt.Close()
	if d.LiveFramebuffers() != 0 || len(d.DoubleFrees()) != 0 {
		t.Errorf("after Close: live = %d, double frees = %v", d.LiveFramebuffers(), d.DoubleFrees())
	}

	if _, err := gpu.NewRenderTarget(d, 0, 4); err == nil {
		t.Error("NewRenderTarget(0, 4) error = nil, want error")
	}
}

func TestLoadProgramFS(t *testing.T) {
	d := gputest.NewDevice(8, 8)
	p, err := gpu.LoadProgramFS(d, assets.Shaders, assets.MapVertexShader, assets.MapFragmentShader)
	if err != nil {
		t.Fatalf("LoadProgramFS() error = %v", err)
	}
	defer p.Close()

	// mvp_mat comes from an included file
	if _, ok := p.VertexShader().Uniform("mvp_mat"); !ok {
		t.Error("vertex shader is missing the included mvp_mat uniform")
	}
	if !p.UniformLocation("mvp_mat").Valid() {
		t.Error("UniformLocation(mvp_mat) is invalid")
	}
}
