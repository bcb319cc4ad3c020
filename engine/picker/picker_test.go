package picker

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// orthoCamera frames a whole map with a fixed orthographic projection.
type orthoCamera struct {
	m mgl32.Mat4
}

func (c orthoCamera) ViewProjectionMatrix() [16]float32 { return c.m }

func frameMap(g hexgrid.Geometry, size common.Size2) orthoCamera {
	lo, hi := hexgrid.Bounds(g, size)
	return orthoCamera{m: mgl32.Ortho(lo.X()-0.5, hi.X()+0.5, lo.Y()-0.5, hi.Y()+0.5, -1, 1)}
}

// cursorAt projects a world point to window coordinates with a top-left origin.
func cursorAt(cam orthoCamera, p common.Vec3, w, h int) common.CursorPos {
	ndc := cam.m.Mul4x1(p.Vec4(1))
	return common.CursorPos{
		X: float64((ndc.X() + 1) / 2 * float32(w)),
		Y: float64(h) - float64((ndc.Y()+1)/2*float32(h)),
	}
}

func newTestPicker(t *testing.T, d *gputest.Device, size common.Size2, opts ...TilePickerBuilderOption) (TilePicker, hexgrid.Geometry) {
	t.Helper()
	w, h := d.ScreenSize()
	opts = append([]TilePickerBuilderOption{WithWindowSize(common.Size2{W: w, H: h}), WithWorkers(2)}, opts...)
	p := NewTilePicker(d, opts...)
	g := hexgrid.NewGeometry()
	if err := p.Init(g, size); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return p, g
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for x := 0; x <= MaxTileCoord; x++ {
		tile := common.TileCoord{X: x, Y: MaxTileCoord - x}
		c := EncodeTileColor(tile)
		px := [4]byte{
			byte(c.R*255 + 0.5),
			byte(c.G*255 + 0.5),
			byte(c.B*255 + 0.5),
			255,
		}
		got, ok := DecodeTilePixel(px)
		if !ok || got != tile {
			t.Errorf("DecodeTilePixel(EncodeTileColor(%v)) = %v, %v", tile, got, ok)
		}
	}

	if got, ok := DecodeTilePixel([4]byte{0, 0, 0, 255}); ok {
		t.Errorf("DecodeTilePixel(black) = %v, want no tile", got)
	}
	if got, ok := DecodeTilePixel([4]byte{0, 0, 255, 255}); !ok || got != (common.TileCoord{}) {
		t.Errorf("DecodeTilePixel(blue) = %v, %v, want tile (0, 0)", got, ok)
	}
}

func TestBuildHexMapMesh(t *testing.T) {
	g := hexgrid.NewGeometry()
	size := common.Size2{W: 3, H: 2}
	positions, colors := BuildHexMapMesh(g, size)

	if len(positions) != size.Area()*VerticesPerTile || len(colors) != len(positions) {
		t.Fatalf("len(positions), len(colors) = %d, %d, want %d", len(positions), len(colors), size.Area()*VerticesPerTile)
	}

	i := 0
	for tile := range hexgrid.Tiles(size) {
		want := EncodeTileColor(tile)
		center := g.TileToWorld(tile)
		for n := 0; n < VerticesPerTile; n++ {
			if colors[i+n] != want {
				t.Fatalf("colors[%d] = %v, want %v for tile %v", i+n, colors[i+n], want, tile)
			}
		}
		for tri := 0; tri < 6; tri++ {
			v := positions[i+tri*3 : i+tri*3+3]
			if v[0] != center.Add(g.CornerOffset(tri)) || v[1] != center.Add(g.CornerOffset(tri+1)) || v[2] != center {
				t.Fatalf("tile %v triangle %d = %v", tile, tri, v)
			}
		}
		i += VerticesPerTile
	}

	again, _ := BuildHexMapMesh(g, size)
	for k := range positions {
		if positions[k] != again[k] {
			t.Fatalf("second build differs at %d: %v vs %v", k, positions[k], again[k])
		}
	}

	if p, c := BuildHexMapMesh(g, common.Size2{}); p != nil || c != nil {
		t.Errorf("BuildHexMapMesh(0x0) = %d, %d vertices, want none", len(p), len(c))
	}
}

func TestPickTile(t *testing.T) {
	d := gputest.NewDevice(64, 64)
	size := common.Size2{W: 4, H: 4}
	p, g := newTestPicker(t, d, size)
	defer p.Close()
	cam := frameMap(g, size)

	want := common.TileCoord{X: 2, Y: 1}
	got, ok := p.PickTile(cam, cursorAt(cam, g.TileToWorld(want), 64, 64))
	if !ok || got != want {
		t.Errorf("PickTile(center of %v) = %v, %v", want, got, ok)
	}

	if got, ok := p.PickTile(cam, common.CursorPos{X: 0.5, Y: 63.5}); ok {
		t.Errorf("PickTile(bottom-left corner) = %v, want background", got)
	}
}

func TestPickEveryTile(t *testing.T) {
	d := gputest.NewDevice(128, 96)
	size := common.Size2{W: 6, H: 5}
	p, g := newTestPicker(t, d, size)
	defer p.Close()
	cam := frameMap(g, size)

	for tile := range hexgrid.Tiles(size) {
		got, ok := p.PickTile(cam, cursorAt(cam, g.TileToWorld(tile), 128, 96))
		if !ok || got != tile {
			t.Errorf("PickTile(center of %v) = %v, %v", tile, got, ok)
		}
	}
	if p.MapSize() != size {
		t.Errorf("MapSize() = %v, want %v", p.MapSize(), size)
	}
}

func TestPickUploadsCameraMatrix(t *testing.T) {
	d := gputest.NewDevice(32, 32)
	size := common.Size2{W: 2, H: 2}
	p, g := newTestPicker(t, d, size)
	defer p.Close()
	cam := frameMap(g, size)

	p.PickTile(cam, common.CursorPos{X: 16, Y: 16})
	m, ok := d.UniformMatrix(d.CurrentProgram(), MVPUniform)
	if !ok || m != cam.ViewProjectionMatrix() {
		t.Errorf("uploaded %s = %v, %v, want the camera matrix", MVPUniform, m, ok)
	}
}

func TestInitMapSizeLimits(t *testing.T) {
	d := gputest.NewDevice(16, 16)
	p := NewTilePicker(d, WithWindowSize(common.Size2{W: 16, H: 16}))
	defer p.Close()
	g := hexgrid.NewGeometry()

	for _, size := range []common.Size2{{W: 256, H: 1}, {W: 1, H: 256}, {W: 300, H: 300}} {
		if err := p.Init(g, size); !errors.Is(err, ErrMapTooLarge) {
			t.Errorf("Init(%v) error = %v, want ErrMapTooLarge", size, err)
		}
	}
	if err := p.Init(g, common.Size2{W: 0, H: 4}); err == nil {
		t.Error("Init(0x4) error = nil, want error")
	}
	if d.LivePrograms() != 0 || d.LiveBuffers() != 0 {
		t.Errorf("rejected Init allocated %d programs, %d buffers", d.LivePrograms(), d.LiveBuffers())
	}

	if err := p.Init(g, common.Size2{W: MaxMapAxis, H: 1}); err != nil {
		t.Errorf("Init(255x1) error = %v", err)
	}
}

func TestInitRejectsShaderContract(t *testing.T) {
	fsys := fstest.MapFS{
		"pick.vs": {Data: []byte(`#version 410 core
uniform mat4 mvp_mat;
in vec3 in_vertex_coordinates;
out vec3 pass_color;
void main() { pass_color = vec3(1.0); gl_Position = mvp_mat * vec4(in_vertex_coordinates, 1.0); }
`)},
		"pick.fs": {Data: []byte(`#version 410 core
in vec3 pass_color;
out vec4 out_color;
void main() { out_color = vec4(pass_color, 1.0); }
`)},
	}
	d := gputest.NewDevice(16, 16)
	p := NewTilePicker(d, WithShaderFS(fsys, "pick.vs", "pick.fs"))
	defer p.Close()

	err := p.Init(hexgrid.NewGeometry(), common.Size2{W: 2, H: 2})
	if kind, ok := common.AssetKind(err); !ok || kind != common.KindShaderContract {
		t.Fatalf("Init() error = %v, want a shader contract error", err)
	}
	if d.LivePrograms() != 0 || d.LiveShaders() != 0 {
		t.Errorf("LivePrograms() = %d, LiveShaders() = %d, want 0", d.LivePrograms(), d.LiveShaders())
	}
}

func TestInitMissingShader(t *testing.T) {
	d := gputest.NewDevice(16, 16)
	p := NewTilePicker(d, WithShaderFS(fstest.MapFS{}, "pick.vs", "pick.fs"))
	defer p.Close()

	err := p.Init(hexgrid.NewGeometry(), common.Size2{W: 2, H: 2})
	if kind, ok := common.AssetKind(err); !ok || kind != common.KindShaderSource {
		t.Errorf("Init() error = %v, want a shader source error", err)
	}
}

func TestReInitKeepsProgram(t *testing.T) {
	d := gputest.NewDevice(32, 32)
	p, g := newTestPicker(t, d, common.Size2{W: 2, H: 2})
	defer p.Close()

	if err := p.Init(g, common.Size2{W: 3, H: 3}); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if d.LivePrograms() != 1 {
		t.Errorf("LivePrograms() = %d, want 1", d.LivePrograms())
	}
	if d.LiveBuffers() != 2 {
		t.Errorf("LiveBuffers() = %d, want 2 (positions and colors)", d.LiveBuffers())
	}
	if len(d.DoubleFrees()) != 0 {
		t.Errorf("DoubleFrees() = %v", d.DoubleFrees())
	}
}

func TestOffscreenPickLeavesScreenUntouched(t *testing.T) {
	d := gputest.NewDevice(64, 64)
	size := common.Size2{W: 4, H: 4}
	p, g := newTestPicker(t, d, size, WithOffscreenTarget(true))
	cam := frameMap(g, size)

	if d.LiveFramebuffers() != 1 {
		t.Fatalf("LiveFramebuffers() = %d, want 1", d.LiveFramebuffers())
	}

	want := common.TileCoord{X: 1, Y: 2}
	c := cursorAt(cam, g.TileToWorld(want), 64, 64)
	got, ok := p.PickTile(cam, c)
	if !ok || got != want {
		t.Errorf("PickTile(center of %v) = %v, %v", want, got, ok)
	}
	if d.BoundFramebuffer() != gpu.DefaultFramebuffer {
		t.Errorf("BoundFramebuffer() = %d after pick, want default", d.BoundFramebuffer())
	}
	if px := d.Pixel(gpu.DefaultFramebuffer, int(c.X), 63-int(c.Y)); px != [4]byte{} {
		t.Errorf("screen pixel = %v after offscreen pick, want untouched", px)
	}

	if err := p.SetWindowSize(common.Size2{W: 32, H: 32}); err != nil {
		t.Fatalf("SetWindowSize() error = %v", err)
	}
	if d.LiveFramebuffers() != 1 {
		t.Errorf("LiveFramebuffers() = %d after resize, want 1", d.LiveFramebuffers())
	}

	p.Close()
	if d.LiveFramebuffers() != 0 {
		t.Errorf("LiveFramebuffers() = %d after Close, want 0", d.LiveFramebuffers())
	}
}

func TestOffscreenTargetCreatedByLateWindowSize(t *testing.T) {
	d := gputest.NewDevice(64, 64)
	size := common.Size2{W: 4, H: 4}
	p := NewTilePicker(d, WithOffscreenTarget(true), WithWorkers(2))
	defer p.Close()
	g := hexgrid.NewGeometry()
	if err := p.Init(g, size); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if d.LiveFramebuffers() != 0 {
		t.Fatalf("LiveFramebuffers() = %d before a window size, want 0", d.LiveFramebuffers())
	}

	if err := p.SetWindowSize(common.Size2{W: 64, H: 64}); err != nil {
		t.Fatalf("SetWindowSize() error = %v", err)
	}
	if d.LiveFramebuffers() != 1 {
		t.Fatalf("LiveFramebuffers() = %d after SetWindowSize, want 1", d.LiveFramebuffers())
	}

	cam := frameMap(g, size)
	want := common.TileCoord{X: 1, Y: 2}
	c := cursorAt(cam, g.TileToWorld(want), 64, 64)
	got, ok := p.PickTile(cam, c)
	if !ok || got != want {
		t.Errorf("PickTile(center of %v) = %v, %v", want, got, ok)
	}
	if px := d.Pixel(gpu.DefaultFramebuffer, int(c.X), 63-int(c.Y)); px != [4]byte{} {
		t.Errorf("screen pixel = %v after offscreen pick, want untouched", px)
	}
}

func TestEmbeddedPickShadersUseFlatColor(t *testing.T) {
	stages := []struct {
		name      string
		typ       shader.ShaderType
		qualifier shader.StorageQualifier
	}{
		{defaultVertexShader, shader.ShaderTypeVertex, shader.QualifierOut},
		{defaultFragmentShader, shader.ShaderTypeFragment, shader.QualifierIn},
	}
	for _, st := range stages {
		s, err := shader.NewShaderFromFS(st.name, st.typ, defaultShaderFS, st.name)
		if err != nil {
			t.Fatalf("NewShaderFromFS(%s) error = %v", st.name, err)
		}
		found := false
		for _, decl := range s.Declarations() {
			if decl.Name != "pass_color" || decl.Qualifier != st.qualifier {
				continue
			}
			found = true
			if decl.Interpolation != "flat" {
				t.Errorf("%s: pass_color interpolation = %q, want flat", st.name, decl.Interpolation)
			}
		}
		if !found {
			t.Errorf("%s: no %s pass_color declaration", st.name, st.qualifier)
		}
	}
}

func TestPickBuffer(t *testing.T) {
	d := gputest.NewDevice(64, 64)
	size := common.Size2{W: 4, H: 4}
	p, g := newTestPicker(t, d, size)
	defer p.Close()
	cam := frameMap(g, size)

	img := p.PickBuffer(cam)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("PickBuffer() bounds = %v", img.Bounds())
	}
	want := common.TileCoord{X: 3, Y: 0}
	c := cursorAt(cam, g.TileToWorld(want), 64, 64)
	off := img.PixOffset(int(c.X), int(c.Y))
	var px [4]byte
	copy(px[:], img.Pix[off:off+4])
	if got, ok := DecodeTilePixel(px); !ok || got != want {
		t.Errorf("PickBuffer() pixel at center of %v decodes to %v, %v", want, got, ok)
	}
}

func TestPickOutsideWindow(t *testing.T) {
	d := gputest.NewDevice(32, 32)
	p, g := newTestPicker(t, d, common.Size2{W: 2, H: 2})
	defer p.Close()
	cam := frameMap(g, common.Size2{W: 2, H: 2})

	reads := d.Reads()
	for _, c := range []common.CursorPos{{X: -1, Y: 5}, {X: 5, Y: -0.5}, {X: 32, Y: 5}, {X: 5, Y: 40}} {
		if got, ok := p.PickTile(cam, c); ok {
			t.Errorf("PickTile(%v) = %v, want no tile", c, got)
		}
	}
	if d.Reads() != reads {
		t.Errorf("Reads() = %d, want %d: out-of-window picks must not read back", d.Reads(), reads)
	}
}

func TestPickBeforeInitPanics(t *testing.T) {
	d := gputest.NewDevice(8, 8)
	p := NewTilePicker(d, WithWindowSize(common.Size2{W: 8, H: 8}))
	defer func() {
		if recover() == nil {
			t.Error("PickTile before Init did not panic")
		}
	}()
	p.PickTile(orthoCamera{m: mgl32.Ident4()}, common.CursorPos{X: 1, Y: 1})
}

func TestCloseReleasesEverything(t *testing.T) {
	d := gputest.NewDevice(32, 32)
	p, _ := newTestPicker(t, d, common.Size2{W: 3, H: 3}, WithOffscreenTarget(true))

	p.Close()
	p.Close()
	if d.LivePrograms() != 0 || d.LiveBuffers() != 0 || d.LiveShaders() != 0 || d.LiveFramebuffers() != 0 {
		t.Errorf("after Close: %d programs, %d buffers, %d shaders, %d framebuffers",
			d.LivePrograms(), d.LiveBuffers(), d.LiveShaders(), d.LiveFramebuffers())
	}
	if len(d.DoubleFrees()) != 0 {
		t.Errorf("DoubleFrees() = %v", d.DoubleFrees())
	}
}
