// Package gpu is the thin GPU resource layer the picker and meshes are built on. It exposes strongly typed handles,
// a Device interface covering the handful of operations the engine issues, and helpers that compile programs,
// upload buffers, decode textures and manage offscreen render targets.
//
// Every operation takes the handle it acts on explicitly. Where the underlying API requires an object to be
// bound first, the bind is issued immediately before use and is never assumed from earlier calls.
package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/shader"
)

// BufferID names a vertex buffer object.
type BufferID uint32

// ShaderID names a compiled shader stage.
type ShaderID uint32

// ProgramID names a linked shader program.
type ProgramID uint32

// TextureID names a 2D texture.
type TextureID uint32

// FramebufferID names a framebuffer. The zero value is the window's default framebuffer.
type FramebufferID uint32

// DefaultFramebuffer is the framebuffer presented to the window.
const DefaultFramebuffer FramebufferID = 0

// AttribLocation is a vertex attribute slot in a linked program. -1 means the program has no such attribute.
type AttribLocation int32

// UniformLocation is a uniform slot in a linked program. -1 means the program has no such uniform.
type UniformLocation int32

// Valid reports whether the location refers to an active attribute.
func (l AttribLocation) Valid() bool { return l >= 0 }

// Valid reports whether the location refers to an active uniform.
func (l UniformLocation) Valid() bool { return l >= 0 }

// Device is the set of GPU operations used by the engine. Implementations are not safe for concurrent use:
// all calls must come from the thread that owns the graphics context.
type Device interface {
	// CompileShader compiles one shader stage.
	//
	// Parameters:
	//   - source: the GLSL source
	//   - stage: the pipeline stage to compile for
	//
	// Returns:
	//   - ShaderID: the compiled shader
	//   - error: a *common.AssetError of kind KindShaderCompile carrying the driver info log
	CompileShader(source string, stage shader.ShaderType) (ShaderID, error)

	// LinkProgram links a vertex and fragment shader into a program. The shaders are not deleted.
	//
	// Parameters:
	//   - vs: the compiled vertex shader
	//   - fs: the compiled fragment shader
	//
	// Returns:
	//   - ProgramID: the linked program
	//   - error: a *common.AssetError of kind KindProgramLink carrying the driver info log
	LinkProgram(vs, fs ShaderID) (ProgramID, error)

	// DeleteShader releases a shader. Shaders attached to a live program are freed once the program is deleted.
	DeleteShader(id ShaderID)

	// DeleteProgram releases a program.
	DeleteProgram(id ProgramID)

	// UseProgram makes p the program used by subsequent uniform uploads and draws.
	UseProgram(p ProgramID)

	// AttribLocation looks up a named vertex attribute.
	//
	// Parameters:
	//   - p: the program to query
	//   - name: the attribute name
	//
	// Returns:
	//   - AttribLocation: the attribute slot, or -1 if the program has no active attribute with that name
	AttribLocation(p ProgramID, name string) AttribLocation

	// UniformLocation looks up a named uniform.
	//
	// Parameters:
	//   - p: the program to query
	//   - name: the uniform name
	//
	// Returns:
	//   - UniformLocation: the uniform slot, or -1 if the program has no active uniform with that name
	UniformLocation(p ProgramID, name string) UniformLocation

	// EnableVertexAttribArray enables an attribute slot for array sourcing.
	EnableVertexAttribArray(loc AttribLocation)

	// VertexAttribPointer points an attribute slot at the currently bound buffer: float components,
	// not normalized, tightly packed, starting at offset 0.
	//
	// Parameters:
	//   - loc: the attribute slot
	//   - components: float components per vertex (1 to 4)
	VertexAttribPointer(loc AttribLocation, components int)

	// GenBuffer allocates a new, empty vertex buffer.
	//
	// Returns:
	//   - BufferID: the new buffer
	GenBuffer() BufferID

	// DeleteBuffer releases a vertex buffer.
	DeleteBuffer(id BufferID)

	// BindBuffer makes id the current array buffer.
	BindBuffer(id BufferID)

	// FillCurrentBuffer uploads data into the currently bound array buffer, replacing its contents.
	// Callers must bind the target buffer first; UploadBuffer does both.
	FillCurrentBuffer(data []float32)

	// UniformMatrix4 uploads a column-major 4x4 matrix to the current program.
	UniformMatrix4(loc UniformLocation, m [16]float32)

	// UniformInt uploads an integer (or sampler unit) to the current program.
	UniformInt(loc UniformLocation, v int32)

	// UniformVec3 uploads an RGB triple to the current program.
	UniformVec3(loc UniformLocation, c common.Color3)

	// DrawTriangles draws faceCount triangles (3 * faceCount vertices starting at vertex 0) with the current
	// program and attribute state.
	DrawTriangles(faceCount int)

	// SetClearColor sets the clear color. Alpha is always 1.
	SetClearColor(r, g, b float32)

	// Clear clears the color and depth buffers of the bound framebuffer.
	Clear()

	// Viewport sets the viewport to (0, 0, w, h).
	Viewport(w, h int)

	// ReadPixel synchronously reads one RGBA8 pixel from the bound framebuffer. The origin is bottom-left.
	//
	// Parameters:
	//   - x: pixel column
	//   - y: pixel row counted from the bottom
	//
	// Returns:
	//   - [4]byte: the RGBA components of the pixel
	ReadPixel(x, y int) [4]byte

	// ReadPixels reads a rectangle from the bound framebuffer. The rectangle is given with a bottom-left origin,
	// the returned image has its first row at the top.
	//
	// Parameters:
	//   - x, y: bottom-left corner of the rectangle
	//   - w, h: size of the rectangle
	//
	// Returns:
	//   - *image.RGBA: the pixels, top row first
	ReadPixels(x, y, w, h int) *image.RGBA

	// CreateTexture uploads an 8-bit RGB or RGBA image as a 2D texture with edge clamping and linear filtering.
	//
	// Parameters:
	//   - img: the decoded image
	//
	// Returns:
	//   - TextureID: the new texture
	//   - error: an asset error of kind KindImageDepth if the image is not 3 or 4 channels
	CreateTexture(img *Image) (TextureID, error)

	// BindTexture binds tex on texture unit 0 and points p's "basic_texture" sampler at that unit.
	BindTexture(p ProgramID, tex TextureID)

	// DeleteTexture releases a texture.
	DeleteTexture(id TextureID)

	// CreateFramebuffer allocates an offscreen framebuffer with an RGBA8 color attachment and a depth attachment.
	//
	// Parameters:
	//   - w, h: size in pixels
	//
	// Returns:
	//   - FramebufferID: the new framebuffer
	//   - error: an error if the framebuffer is incomplete
	CreateFramebuffer(w, h int) (FramebufferID, error)

	// BindFramebuffer makes id the draw and read target. DefaultFramebuffer restores the window.
	BindFramebuffer(id FramebufferID)

	// DeleteFramebuffer releases a framebuffer and its attachments.
	DeleteFramebuffer(id FramebufferID)

	// Close releases device-level state. The graphics context itself is owned by the window.
	Close()
}

// BackendType identifies the Device implementation.
type BackendType int

const (
	// BackendTypeOpenGL selects the OpenGL 4.1 core backend.
	BackendTypeOpenGL BackendType = iota
)

// ProcAddressFunc resolves a graphics API entry point by name, e.g. glfw.GetProcAddress.
type ProcAddressFunc func(name string) unsafe.Pointer

// NewDevice creates a Device for the requested backend. The graphics context must already be current on the
// calling thread.
//
// Parameters:
//   - backend: the backend to create
//   - procAddr: resolves entry points from the current context; nil uses the platform loader
//
// Returns:
//   - Device: the device
//   - error: an error if the backend fails to initialize or is unknown
func NewDevice(backend BackendType, procAddr ProcAddressFunc) (Device, error) {
	switch backend {
	case BackendTypeOpenGL:
		return newGLDevice(procAddr)
	default:
		return nil, fmt.Errorf("gpu: unknown backend type %d", backend)
	}
}

// UploadBuffer binds id and fills it with data.
//
// Parameters:
//   - d: the device
//   - id: the destination buffer
//   - data: the values to upload
func UploadBuffer(d Device, id BufferID, data []float32) {
	d.BindBuffer(id)
	d.FillCurrentBuffer(data)
	common.Logger().Debug("gpu: buffer uploaded", "buffer", id, "floats", len(data))
}
