// Package gputest provides a software gpu.Device for tests. It keeps every object the engine creates in
// plain Go maps, counts live handles and double frees, logs calls and draws, and rasterizes triangles into
// CPU-side framebuffers so picking can be exercised end to end without a graphics context.
//
// The fake vertex stage treats the first vertex input as the position and transforms it by the first mat4
// uniform (identity until one is uploaded). The fragment color is taken from the first other vec3 vertex
// input when its array is enabled, then from the first vec3 uniform, and is white otherwise. There is no
// clipping: triangles with a vertex behind the eye are dropped.
package gputest

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Draw records one DrawTriangles call.
type Draw struct {
	Program     gpu.ProgramID
	Framebuffer gpu.FramebufferID
	Vertices    int
}

type fakeShader struct {
	stage  shader.ShaderType
	parsed shader.Shader
}

type fakeProgram struct {
	attribs  map[string]gpu.AttribLocation
	uniforms map[string]gpu.UniformLocation
	values   map[gpu.UniformLocation]any

	position  string
	color     string
	mvp       string
	tintColor string
}

type attribPointer struct {
	buffer     gpu.BufferID
	components int
}

// surface is a CPU framebuffer. Rows are stored bottom row first, matching GL read order.
type surface struct {
	w, h  int
	color []byte
	depth []float32
}

func newSurface(w, h int) *surface {
	s := &surface{w: w, h: h, color: make([]byte, w*h*4), depth: make([]float32, w*h)}
	for i := range s.depth {
		s.depth[i] = 1
	}
	return s
}

// Device is an in-memory gpu.Device. It is not safe for concurrent use, like the real thing.
type Device struct {
	nextID uint32

	shaders      map[gpu.ShaderID]*fakeShader
	programs     map[gpu.ProgramID]*fakeProgram
	buffers      map[gpu.BufferID][]float32
	textures     map[gpu.TextureID]*gpu.Image
	framebuffers map[gpu.FramebufferID]*surface
	screen       *surface

	current      gpu.ProgramID
	boundBuffer  gpu.BufferID
	boundFB      gpu.FramebufferID
	boundTexture gpu.TextureID
	enabled      map[gpu.AttribLocation]bool
	pointers     map[gpu.AttribLocation]attribPointer

	clearColor [3]float32
	viewportW  int
	viewportH  int

	doubleFrees []string
	draws       []Draw
	calls       []string
	reads       int
	closed      bool
}

var _ gpu.Device = &Device{}

// NewDevice creates a fake device whose default framebuffer is w x h pixels. The viewport starts at full size.
//
// Parameters:
//   - w, h: default framebuffer size
//
// Returns:
//   - *Device: the device
func NewDevice(w, h int) *Device {
	return &Device{
		shaders:      make(map[gpu.ShaderID]*fakeShader),
		programs:     make(map[gpu.ProgramID]*fakeProgram),
		buffers:      make(map[gpu.BufferID][]float32),
		textures:     make(map[gpu.TextureID]*gpu.Image),
		framebuffers: make(map[gpu.FramebufferID]*surface),
		screen:       newSurface(w, h),
		enabled:      make(map[gpu.AttribLocation]bool),
		pointers:     make(map[gpu.AttribLocation]attribPointer),
		viewportW:    w,
		viewportH:    h,
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *Device) CompileShader(source string, stage shader.ShaderType) (gpu.ShaderID, error) {
	d.record("CompileShader %s", stage)
	if strings.Contains(source, "#error") || !strings.Contains(source, "main(") {
		return 0, &common.AssetError{Kind: common.KindShaderCompile, Log: stage.String() + ": 0:1: error: no main function or #error directive"}
	}
	parsed, err := shader.NewShaderFromSource("", stage, source)
	if err != nil {
		return 0, &common.AssetError{Kind: common.KindShaderCompile, Log: stage.String() + ": " + err.Error()}
	}
	id := gpu.ShaderID(d.id())
	d.shaders[id] = &fakeShader{stage: stage, parsed: parsed}
	return id, nil
}

func (d *Device) LinkProgram(vs, fs gpu.ShaderID) (gpu.ProgramID, error) {
	d.record("LinkProgram %d %d", vs, fs)
	v, ok := d.shaders[vs]
	if !ok || v.stage != shader.ShaderTypeVertex {
		return 0, &common.AssetError{Kind: common.KindProgramLink, Log: fmt.Sprintf("shader %d is not a vertex shader", vs)}
	}
	f, ok := d.shaders[fs]
	if !ok || f.stage != shader.ShaderTypeFragment {
		return 0, &common.AssetError{Kind: common.KindProgramLink, Log: fmt.Sprintf("shader %d is not a fragment shader", fs)}
	}

	outputs := make(map[string]string)
	for _, decl := range v.parsed.Declarations() {
		if decl.Qualifier == shader.QualifierOut {
			outputs[decl.Name] = decl.Type
		}
	}
	for _, in := range f.parsed.Inputs() {
		if strings.HasPrefix(in.Name, "gl_") {
			continue
		}
		if typ, ok := outputs[in.Name]; !ok || typ != in.Type {
			return 0, &common.AssetError{Kind: common.KindProgramLink, Log: fmt.Sprintf("fragment input %s %s is not written by the vertex shader", in.Type, in.Name)}
		}
	}

	p := &fakeProgram{
		attribs:  make(map[string]gpu.AttribLocation),
		uniforms: make(map[string]gpu.UniformLocation),
		values:   make(map[gpu.UniformLocation]any),
	}

	inputs := v.parsed.Inputs()
	used := make(map[int]bool)
	for _, in := range inputs {
		if in.Location >= 0 {
			p.attribs[in.Name] = gpu.AttribLocation(in.Location)
			used[in.Location] = true
		}
	}
	next := 0
	for _, in := range inputs {
		if in.Location >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		p.attribs[in.Name] = gpu.AttribLocation(next)
		used[next] = true
	}
	if len(inputs) > 0 {
		p.position = inputs[0].Name
		for _, in := range inputs[1:] {
			if in.Type == "vec3" {
				p.color = in.Name
				break
			}
		}
	}

	loc := 0
	for _, s := range []shader.Shader{v.parsed, f.parsed} {
		for _, u := range s.Uniforms() {
			if _, ok := p.uniforms[u.Name]; ok {
				continue
			}
			p.uniforms[u.Name] = gpu.UniformLocation(loc)
			loc++
			if u.Type == "mat4" && p.mvp == "" {
				p.mvp = u.Name
			}
			if u.Type == "vec3" && p.tintColor == "" {
				p.tintColor = u.Name
			}
		}
	}

	id := gpu.ProgramID(d.id())
	d.programs[id] = p
	return id, nil
}

func (d *Device) DeleteShader(id gpu.ShaderID) {
	d.record("DeleteShader %d", id)
	if _, ok := d.shaders[id]; !ok {
		d.doubleFrees = append(d.doubleFrees, fmt.Sprintf("shader %d", id))
		return
	}
	delete(d.shaders, id)
}

func (d *Device) DeleteProgram(id gpu.ProgramID) {
	d.record("DeleteProgram %d", id)
	if _, ok := d.programs[id]; !ok {
		d.doubleFrees = append(d.doubleFrees, fmt.Sprintf("program %d", id))
		return
	}
	delete(d.programs, id)
	if d.current == id {
		d.current = 0
	}
}

func (d *Device) program(id gpu.ProgramID, op string) *fakeProgram {
	p, ok := d.programs[id]
	if !ok {
		panic(fmt.Sprintf("gputest: %s on unknown program %d", op, id))
	}
	return p
}

func (d *Device) UseProgram(p gpu.ProgramID) {
	d.record("UseProgram %d", p)
	d.program(p, "UseProgram")
	d.current = p
}

func (d *Device) AttribLocation(p gpu.ProgramID, name string) gpu.AttribLocation {
	d.record("AttribLocation %d %s", p, name)
	if loc, ok := d.program(p, "AttribLocation").attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UniformLocation(p gpu.ProgramID, name string) gpu.UniformLocation {
	d.record("UniformLocation %d %s", p, name)
	if loc, ok := d.program(p, "UniformLocation").uniforms[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) EnableVertexAttribArray(loc gpu.AttribLocation) {
	d.record("EnableVertexAttribArray %d", loc)
	if loc.Valid() {
		d.enabled[loc] = true
	}
}

func (d *Device) VertexAttribPointer(loc gpu.AttribLocation, components int) {
	d.record("VertexAttribPointer %d %d", loc, components)
	if !loc.Valid() {
		return
	}
	if d.boundBuffer == 0 {
		panic("gputest: VertexAttribPointer with no buffer bound")
	}
	if components < 1 || components > 4 {
		panic(fmt.Sprintf("gputest: VertexAttribPointer with %d components", components))
	}
	d.pointers[loc] = attribPointer{buffer: d.boundBuffer, components: components}
}

func (d *Device) GenBuffer() gpu.BufferID {
	id := gpu.BufferID(d.id())
	d.buffers[id] = nil
	d.record("GenBuffer %d", id)
	return id
}

func (d *Device) DeleteBuffer(id gpu.BufferID) {
	d.record("DeleteBuffer %d", id)
	if id == 0 {
		return
	}
	if _, ok := d.buffers[id]; !ok {
		d.doubleFrees = append(d.doubleFrees, fmt.Sprintf("buffer %d", id))
		return
	}
	delete(d.buffers, id)
	if d.boundBuffer == id {
		d.boundBuffer = 0
	}
}

func (d *Device) BindBuffer(id gpu.BufferID) {
	d.record("BindBuffer %d", id)
	if _, ok := d.buffers[id]; !ok && id != 0 {
		panic(fmt.Sprintf("gputest: BindBuffer on unknown buffer %d", id))
	}
	d.boundBuffer = id
}

func (d *Device) FillCurrentBuffer(data []float32) {
	d.record("FillCurrentBuffer %d", len(data))
	if d.boundBuffer == 0 {
		panic("gputest: FillCurrentBuffer with no buffer bound")
	}
	d.buffers[d.boundBuffer] = append([]float32(nil), data...)
}

func (d *Device) setUniform(loc gpu.UniformLocation, v any, op string) {
	d.record("%s %d", op, loc)
	if d.current == 0 {
		panic("gputest: " + op + " with no program in use")
	}
	if !loc.Valid() {
		return
	}
	d.programs[d.current].values[loc] = v
}

func (d *Device) UniformMatrix4(loc gpu.UniformLocation, m [16]float32) {
	d.setUniform(loc, mgl32.Mat4(m), "UniformMatrix4")
}

func (d *Device) UniformInt(loc gpu.UniformLocation, v int32) {
	d.setUniform(loc, v, "UniformInt")
}

func (d *Device) UniformVec3(loc gpu.UniformLocation, c common.Color3) {
	d.setUniform(loc, c, "UniformVec3")
}

func (d *Device) DrawTriangles(faceCount int) {
	d.record("DrawTriangles %d", faceCount)
	if d.current == 0 {
		panic("gputest: DrawTriangles with no program in use")
	}
	d.draws = append(d.draws, Draw{Program: d.current, Framebuffer: d.boundFB, Vertices: faceCount * 3})
	d.rasterize(d.programs[d.current], faceCount*3)
}

func (d *Device) SetClearColor(r, g, b float32) {
	d.record("SetClearColor %g %g %g", r, g, b)
	d.clearColor = [3]float32{r, g, b}
}

func (d *Device) Clear() {
	d.record("Clear")
	s := d.target()
	px := [4]byte{quantize(d.clearColor[0]), quantize(d.clearColor[1]), quantize(d.clearColor[2]), 255}
	for i := 0; i < len(s.color); i += 4 {
		copy(s.color[i:i+4], px[:])
	}
	for i := range s.depth {
		s.depth[i] = 1
	}
}

func (d *Device) Viewport(w, h int) {
	d.record("Viewport %d %d", w, h)
	d.viewportW, d.viewportH = w, h
}

func (d *Device) ReadPixel(x, y int) [4]byte {
	d.record("ReadPixel %d %d", x, y)
	d.reads++
	return d.target().at(x, y)
}

func (d *Device) ReadPixels(x, y, w, h int) *image.RGBA {
	d.record("ReadPixels %d %d %d %d", x, y, w, h)
	d.reads++
	s := d.target()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			px := s.at(x+col, y+h-1-row)
			copy(img.Pix[img.PixOffset(col, row):], px[:])
		}
	}
	return img
}

func (d *Device) CreateTexture(img *gpu.Image) (gpu.TextureID, error) {
	d.record("CreateTexture")
	if img.Depth != 3 && img.Depth != 4 {
		return 0, &common.AssetError{Kind: common.KindImageDepth, Source: img.Source, Log: fmt.Sprintf("unsupported channel count %d", img.Depth)}
	}
	id := gpu.TextureID(d.id())
	cp := *img
	cp.Pix = append([]byte(nil), img.Pix...)
	d.textures[id] = &cp
	return id, nil
}

func (d *Device) BindTexture(p gpu.ProgramID, tex gpu.TextureID) {
	d.record("BindTexture %d %d", p, tex)
	if _, ok := d.textures[tex]; !ok {
		panic(fmt.Sprintf("gputest: BindTexture on unknown texture %d", tex))
	}
	d.UseProgram(p)
	d.UniformInt(d.UniformLocation(p, "basic_texture"), 0)
	d.boundTexture = tex
}

func (d *Device) DeleteTexture(id gpu.TextureID) {
	d.record("DeleteTexture %d", id)
	if _, ok := d.textures[id]; !ok {
		d.doubleFrees = append(d.doubleFrees, fmt.Sprintf("texture %d", id))
		return
	}
	delete(d.textures, id)
	if d.boundTexture == id {
		d.boundTexture = 0
	}
}

func (d *Device) CreateFramebuffer(w, h int) (gpu.FramebufferID, error) {
	d.record("CreateFramebuffer %d %d", w, h)
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("gputest: invalid framebuffer size %dx%d", w, h)
	}
	id := gpu.FramebufferID(d.id())
	d.framebuffers[id] = newSurface(w, h)
	return id, nil
}

func (d *Device) BindFramebuffer(id gpu.FramebufferID) {
	d.record("BindFramebuffer %d", id)
	if _, ok := d.framebuffers[id]; !ok && id != gpu.DefaultFramebuffer {
		panic(fmt.Sprintf("gputest: BindFramebuffer on unknown framebuffer %d", id))
	}
	d.boundFB = id
}

func (d *Device) DeleteFramebuffer(id gpu.FramebufferID) {
	d.record("DeleteFramebuffer %d", id)
	if id == gpu.DefaultFramebuffer {
		return
	}
	if _, ok := d.framebuffers[id]; !ok {
		d.doubleFrees = append(d.doubleFrees, fmt.Sprintf("framebuffer %d", id))
		return
	}
	delete(d.framebuffers, id)
	if d.boundFB == id {
		d.boundFB = gpu.DefaultFramebuffer
	}
}

func (d *Device) Close() {
	d.record("Close")
	d.closed = true
}

// target returns the surface draws and reads currently go to.
func (d *Device) target() *surface {
	if d.boundFB == gpu.DefaultFramebuffer {
		return d.screen
	}
	return d.framebuffers[d.boundFB]
}

func (s *surface) at(x, y int) [4]byte {
	var px [4]byte
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return px
	}
	i := (y*s.w + x) * 4
	copy(px[:], s.color[i:i+4])
	return px
}

func quantize(c float32) byte {
	return byte(math.Round(float64(mgl32.Clamp(c, 0, 1)) * 255))
}
