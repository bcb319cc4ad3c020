package gpu

import (
	"errors"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/shader"
)

// Program is a linked shader program together with its cached attribute and uniform locations.
// A Program is owned by exactly one consumer. After Close the handle and every cached location are invalid,
// and any further lookup panics.
type Program struct {
	device   Device
	id       ProgramID
	vertex   shader.Shader
	fragment shader.Shader
	attribs  map[string]AttribLocation
	uniforms map[string]UniformLocation
	closed   bool
}

// NewProgram wraps an already linked program. The Program takes ownership of id.
//
// Parameters:
//   - d: the device that created the program
//   - id: the linked program
//
// Returns:
//   - *Program: the wrapped program
func NewProgram(d Device, id ProgramID) *Program {
	return &Program{
		device:   d,
		id:       id,
		attribs:  make(map[string]AttribLocation),
		uniforms: make(map[string]UniformLocation),
	}
}

// CompileProgram compiles a vertex and fragment shader from source and links them.
// Both shaders are deleted once the program is linked or on any error path, so nothing leaks on failure.
//
// Parameters:
//   - d: the device
//   - vertexSource: GLSL vertex shader source
//   - fragmentSource: GLSL fragment shader source
//
// Returns:
//   - *Program: the linked program
//   - error: an asset error describing the compile or link failure
func CompileProgram(d Device, vertexSource, fragmentSource string) (*Program, error) {
	vs, err := shader.NewShaderFromSource("vertex", shader.ShaderTypeVertex, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShaderFromSource("fragment", shader.ShaderTypeFragment, fragmentSource)
	if err != nil {
		return nil, err
	}
	return LinkShaders(d, vs, fs)
}

// LoadProgram reads, pre-processes and links a vertex and fragment shader from disk.
//
// Parameters:
//   - d: the device
//   - vertexPath: path of the vertex shader
//   - fragmentPath: path of the fragment shader
//
// Returns:
//   - *Program: the linked program
//   - error: an asset error describing the read, compile or link failure
func LoadProgram(d Device, vertexPath, fragmentPath string) (*Program, error) {
	vs, err := shader.NewShader(vertexPath, shader.ShaderTypeVertex, vertexPath)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(fragmentPath, shader.ShaderTypeFragment, fragmentPath)
	if err != nil {
		return nil, err
	}
	return LinkShaders(d, vs, fs)
}

// LoadProgramFS is LoadProgram for shaders stored in fsys, such as the embedded asset bundle.
//
// Parameters:
//   - d: the device
//   - fsys: the file system holding the shaders and their includes
//   - vertexName: slash-separated name of the vertex shader
//   - fragmentName: slash-separated name of the fragment shader
//
// Returns:
//   - *Program: the linked program
//   - error: an asset error describing the read, compile or link failure
func LoadProgramFS(d Device, fsys fs.FS, vertexName, fragmentName string) (*Program, error) {
	vs, err := shader.NewShaderFromFS(vertexName, shader.ShaderTypeVertex, fsys, vertexName)
	if err != nil {
		return nil, err
	}
	frag, err := shader.NewShaderFromFS(fragmentName, shader.ShaderTypeFragment, fsys, fragmentName)
	if err != nil {
		return nil, err
	}
	return LinkShaders(d, vs, frag)
}

// LinkShaders compiles two parsed shaders and links them into a Program that remembers its sources.
//
// Parameters:
//   - d: the device
//   - vs: the vertex shader
//   - fs: the fragment shader
//
// Returns:
//   - *Program: the linked program
//   - error: an asset error describing the compile or link failure
func LinkShaders(d Device, vs, fs shader.Shader) (*Program, error) {
	vsID, err := d.CompileShader(vs.Source(), shader.ShaderTypeVertex)
	if err != nil {
		return nil, withSource(err, vs.Key())
	}
	fsID, err := d.CompileShader(fs.Source(), shader.ShaderTypeFragment)
	if err != nil {
		d.DeleteShader(vsID)
		return nil, withSource(err, fs.Key())
	}

	id, err := d.LinkProgram(vsID, fsID)
	// shaders are flagged for deletion; a linked program keeps them alive until it is deleted
	d.DeleteShader(vsID)
	d.DeleteShader(fsID)
	if err != nil {
		return nil, withSource(err, vs.Key()+"+"+fs.Key())
	}

	p := NewProgram(d, id)
	p.vertex = vs
	p.fragment = fs
	common.Logger().Info("gpu: program linked", "program", id, "vertex", vs.Key(), "fragment", fs.Key())
	return p, nil
}

// withSource fills in the Source of an asset error that does not name one yet.
func withSource(err error, source string) error {
	var ae *common.AssetError
	if errors.As(err, &ae) && ae.Source == "" {
		ae.Source = source
	}
	return err
}

func (p *Program) mustBeOpen(op string) {
	if p.closed {
		panic("gpu: " + op + " on closed program")
	}
}

// ID returns the program handle.
//
// Returns:
//   - ProgramID: the program handle
func (p *Program) ID() ProgramID {
	p.mustBeOpen("ID")
	return p.id
}

// Device returns the device the program lives on.
//
// Returns:
//   - Device: the owning device
func (p *Program) Device() Device {
	return p.device
}

// VertexShader returns the parsed vertex shader the program was linked from, or nil for wrapped handles.
//
// Returns:
//   - shader.Shader: the vertex shader
func (p *Program) VertexShader() shader.Shader {
	return p.vertex
}

// FragmentShader returns the parsed fragment shader the program was linked from, or nil for wrapped handles.
//
// Returns:
//   - shader.Shader: the fragment shader
func (p *Program) FragmentShader() shader.Shader {
	return p.fragment
}

// Use makes the program current.
func (p *Program) Use() {
	p.mustBeOpen("Use")
	p.device.UseProgram(p.id)
}

// AttribLocation returns the cached location of a vertex attribute, querying the device on first use.
//
// Parameters:
//   - name: the attribute name
//
// Returns:
//   - AttribLocation: the location, or -1 if the program has no such attribute
func (p *Program) AttribLocation(name string) AttribLocation {
	p.mustBeOpen("AttribLocation")
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := p.device.AttribLocation(p.id, name)
	p.attribs[name] = loc
	if !loc.Valid() {
		common.Logger().Warn("gpu: attribute not active in program", "program", p.id, "attribute", name)
	} else {
		common.Logger().Debug("gpu: attribute located", "program", p.id, "attribute", name, "location", loc)
	}
	return loc
}

// UniformLocation returns the cached location of a uniform, querying the device on first use.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - UniformLocation: the location, or -1 if the program has no such uniform
func (p *Program) UniformLocation(name string) UniformLocation {
	p.mustBeOpen("UniformLocation")
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.device.UniformLocation(p.id, name)
	p.uniforms[name] = loc
	common.Logger().Debug("gpu: uniform located", "program", p.id, "uniform", name, "location", loc)
	return loc
}

// EnableAttribute resolves an attribute by name and enables its array.
//
// Parameters:
//   - name: the attribute name
//
// Returns:
//   - AttribLocation: the location, or -1 (nothing enabled) if the program has no such attribute
func (p *Program) EnableAttribute(name string) AttribLocation {
	loc := p.AttribLocation(name)
	if loc.Valid() {
		p.device.EnableVertexAttribArray(loc)
	}
	return loc
}

// BindTexture binds tex to the program's basic_texture sampler on unit 0.
//
// Parameters:
//   - tex: the texture to bind
func (p *Program) BindTexture(tex TextureID) {
	p.mustBeOpen("BindTexture")
	p.device.BindTexture(p.id, tex)
}

// Closed reports whether Close has been called.
//
// Returns:
//   - bool: true after Close
func (p *Program) Closed() bool {
	return p.closed
}

// Close deletes the program and drops every cached location. It is safe to call more than once.
func (p *Program) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.device.DeleteProgram(p.id)
	p.attribs = nil
	p.uniforms = nil
}
