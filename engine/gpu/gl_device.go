package gpu

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/shader"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// glDevice implements Device on top of an OpenGL 4.1 core context.
// A core profile refuses to draw without a vertex array object, so one shared VAO is created and left bound
// for the lifetime of the device. Attribute state therefore lives on that VAO and is re-pointed on every draw.
type glDevice struct {
	vao          uint32
	framebuffers map[FramebufferID]glFramebuffer
	closed       bool
}

// glFramebuffer records the attachments created with a framebuffer so they can be released together.
type glFramebuffer struct {
	color uint32
	depth uint32
}

var _ Device = &glDevice{}

func newGLDevice(procAddr ProcAddressFunc) (Device, error) {
	var err error
	if procAddr != nil {
		err = gl.InitWithProcAddrFunc(procAddr)
	} else {
		err = gl.Init()
	}
	if err != nil {
		return nil, fmt.Errorf("gpu: init OpenGL: %w", err)
	}

	d := &glDevice{framebuffers: make(map[FramebufferID]glFramebuffer)}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)

	common.Logger().Info("gpu: OpenGL device created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)
	return d, nil
}

func glStage(stage shader.ShaderType) uint32 {
	if stage == shader.ShaderTypeFragment {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func (d *glDevice) CompileShader(source string, stage shader.ShaderType) (ShaderID, error) {
	id := gl.CreateShader(glStage(stage))
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteShader(id)
		return 0, &common.AssetError{
			Kind: common.KindShaderCompile,
			Log:  stage.String() + ": " + strings.TrimRight(log, "\x00\n"),
		}
	}
	return ShaderID(id), nil
}

func (d *glDevice) LinkProgram(vs, fs ShaderID) (ProgramID, error) {
	id := gl.CreateProgram()
	gl.AttachShader(id, uint32(vs))
	gl.AttachShader(id, uint32(fs))
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return 0, &common.AssetError{
			Kind: common.KindProgramLink,
			Log:  strings.TrimRight(log, "\x00\n"),
		}
	}
	return ProgramID(id), nil
}

func (d *glDevice) DeleteShader(id ShaderID) {
	gl.DeleteShader(uint32(id))
}

func (d *glDevice) DeleteProgram(id ProgramID) {
	gl.DeleteProgram(uint32(id))
}

func (d *glDevice) UseProgram(p ProgramID) {
	gl.UseProgram(uint32(p))
}

func (d *glDevice) AttribLocation(p ProgramID, name string) AttribLocation {
	cname, free := gl.Strs(name + "\x00")
	defer free()
	return AttribLocation(gl.GetAttribLocation(uint32(p), *cname))
}

func (d *glDevice) UniformLocation(p ProgramID, name string) UniformLocation {
	cname, free := gl.Strs(name + "\x00")
	defer free()
	return UniformLocation(gl.GetUniformLocation(uint32(p), *cname))
}

func (d *glDevice) EnableVertexAttribArray(loc AttribLocation) {
	if !loc.Valid() {
		return
	}
	gl.EnableVertexAttribArray(uint32(loc))
}

func (d *glDevice) VertexAttribPointer(loc AttribLocation, components int) {
	if !loc.Valid() {
		return
	}
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(components), gl.FLOAT, false, 0, 0)
}

func (d *glDevice) GenBuffer() BufferID {
	var id uint32
	gl.GenBuffers(1, &id)
	return BufferID(id)
}

func (d *glDevice) DeleteBuffer(id BufferID) {
	buf := uint32(id)
	gl.DeleteBuffers(1, &buf)
}

func (d *glDevice) BindBuffer(id BufferID) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(id))
}

func (d *glDevice) FillCurrentBuffer(data []float32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *glDevice) UniformMatrix4(loc UniformLocation, m [16]float32) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (d *glDevice) UniformInt(loc UniformLocation, v int32) {
	gl.Uniform1i(int32(loc), v)
}

func (d *glDevice) UniformVec3(loc UniformLocation, c common.Color3) {
	gl.Uniform3f(int32(loc), c.R, c.G, c.B)
}

func (d *glDevice) DrawTriangles(faceCount int) {
	gl.DrawArrays(gl.TRIANGLES, 0, int32(faceCount*3))
}

func (d *glDevice) SetClearColor(r, g, b float32) {
	gl.ClearColor(r, g, b, 1)
}

func (d *glDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *glDevice) Viewport(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (d *glDevice) ReadPixel(x, y int) [4]byte {
	var px [4]byte
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&px[0]))
	return px
}

func (d *glDevice) ReadPixels(x, y, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return img
	}
	raw := make([]byte, w*h*4)
	gl.ReadPixels(int32(x), int32(y), int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&raw[0]))

	// GL rows run bottom-up
	stride := w * 4
	for row := 0; row < h; row++ {
		src := raw[(h-1-row)*stride : (h-row)*stride]
		copy(img.Pix[row*img.Stride:row*img.Stride+stride], src)
	}
	return img
}

func (d *glDevice) CreateTexture(img *Image) (TextureID, error) {
	var internal int32
	var format uint32
	switch img.Depth {
	case 3:
		internal, format = gl.RGB8, gl.RGB
	case 4:
		internal, format = gl.RGBA8, gl.RGBA
	default:
		return 0, &common.AssetError{
			Kind:   common.KindImageDepth,
			Source: img.Source,
			Log:    fmt.Sprintf("unsupported channel count %d", img.Depth),
		}
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	var pix unsafe.Pointer
	if len(img.Pix) > 0 {
		pix = gl.Ptr(img.Pix)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(img.Width), int32(img.Height), 0, format, gl.UNSIGNED_BYTE, pix)
	return TextureID(id), nil
}

func (d *glDevice) BindTexture(p ProgramID, tex TextureID) {
	gl.UseProgram(uint32(p))
	gl.Uniform1i(int32(d.UniformLocation(p, textureSamplerName)), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (d *glDevice) DeleteTexture(id TextureID) {
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

func (d *glDevice) CreateFramebuffer(w, h int) (FramebufferID, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("gpu: invalid framebuffer size %dx%d", w, h)
	}

	var fb glFramebuffer
	gl.GenTextures(1, &fb.color)
	gl.BindTexture(gl.TEXTURE_2D, fb.color)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.GenRenderbuffers(1, &fb.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(w), int32(h))

	var id uint32
	gl.GenFramebuffers(1, &id)
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depth)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	d.framebuffers[FramebufferID(id)] = fb
	if status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteFramebuffer(FramebufferID(id))
		return 0, fmt.Errorf("gpu: framebuffer incomplete: status 0x%X", status)
	}
	return FramebufferID(id), nil
}

func (d *glDevice) BindFramebuffer(id FramebufferID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(id))
}

func (d *glDevice) DeleteFramebuffer(id FramebufferID) {
	if id == DefaultFramebuffer {
		return
	}
	fbo := uint32(id)
	gl.DeleteFramebuffers(1, &fbo)
	if fb, ok := d.framebuffers[id]; ok {
		gl.DeleteTextures(1, &fb.color)
		gl.DeleteRenderbuffers(1, &fb.depth)
		delete(d.framebuffers, id)
	}
}

func (d *glDevice) Close() {
	if d.closed {
		return
	}
	d.closed = true
	for id := range d.framebuffers {
		d.DeleteFramebuffer(id)
	}
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
}
