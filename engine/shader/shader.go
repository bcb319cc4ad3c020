package shader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
)

// ShaderType identifies the pipeline stage a shader belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render programs.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns "vertex" or "fragment".
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// shader is the implementation of the Shader interface.
// It holds the expanded GLSL source and the declarations parsed from it.
type shader struct {
	key          string
	path         string
	source       string
	shaderType   ShaderType
	declarations []Declaration
	included     []string
}

// Shader defines the interface for a loaded and parsed GLSL shader. It exposes the shader's
// unique key, expanded source code and the top-level inputs, outputs and uniforms it declares.
// Shaders are CPU-side only: compiling them into GPU objects is the job of the gpu package.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for logging and diagnostics.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Path returns the file the shader was loaded from, or an empty string for in-memory sources.
	//
	// Returns:
	//   - string: the source file path
	Path() string

	// Source retrieves the GLSL source code with all #include directives expanded.
	//
	// Returns:
	//   - string: the GLSL source code of the shader
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Declarations returns every top-level in / out / uniform declaration in source order.
	//
	// Returns:
	//   - []Declaration: the parsed declarations
	Declarations() []Declaration

	// Inputs returns the stage inputs (vertex attributes for a vertex shader).
	//
	// Returns:
	//   - []Declaration: declarations with QualifierIn
	Inputs() []Declaration

	// Uniforms returns the uniforms declared by the shader.
	//
	// Returns:
	//   - []Declaration: declarations with QualifierUniform
	Uniforms() []Declaration

	// Input looks up a stage input by name.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - Declaration: the matching declaration
	//   - bool: false if no input has that name
	Input(name string) (Declaration, bool)

	// Uniform looks up a uniform by name.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - Declaration: the matching declaration
	//   - bool: false if no uniform has that name
	Uniform(name string) (Declaration, bool)

	// Included returns the files spliced into the source by the pre-processor, root file first.
	//
	// Returns:
	//   - []string: included file paths, empty for in-memory sources
	Included() []string
}

var _ Shader = &shader{}

// NewShader loads a GLSL shader from disk, expands its includes and parses its declarations.
// Include directives are resolved relative to the directory of sourcePath.
// A missing or unparsable file is an asset defect and is reported as a *common.AssetError of kind KindShaderSource.
//
// Parameters:
//   - key: a unique identifier for the shader, used for diagnostics
//   - shaderType: the stage of the shader
//   - sourcePath: the file path to read GLSL source from
//
// Returns:
//   - Shader: the loaded shader
//   - error: an asset error if the source cannot be read, expanded or parsed
func NewShader(key string, shaderType ShaderType, sourcePath string) (Shader, error) {
	if sourcePath == "" {
		return nil, &common.AssetError{Kind: common.KindShaderSource, Source: key, Log: "no source path provided"}
	}
	s, err := NewShaderFromFS(key, shaderType, os.DirFS(filepath.Dir(sourcePath)), filepath.Base(sourcePath))
	if err != nil {
		return nil, err
	}
	s.(*shader).path = sourcePath
	return s, nil
}

// NewShaderFromFS loads a GLSL shader from a file system, such as an embed.FS.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage of the shader
//   - fsys: the file system holding the shader and its includes
//   - name: slash-separated path of the shader within fsys
//
// Returns:
//   - Shader: the loaded shader
//   - error: an asset error if the source cannot be read, expanded or parsed
func NewShaderFromFS(key string, shaderType ShaderType, fsys fs.FS, name string) (Shader, error) {
	pp := NewPreProcessor(fsys)
	src, err := pp.Process(name)
	if err != nil {
		return nil, &common.AssetError{Kind: common.KindShaderSource, Source: key, Err: err}
	}
	s, err := NewShaderFromSource(key, shaderType, src)
	if err != nil {
		return nil, err
	}
	impl := s.(*shader)
	impl.path = name
	impl.included = append([]string(nil), pp.Included()...)
	return impl, nil
}

// NewShaderFromSource wraps already expanded GLSL source. No include processing is performed.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage of the shader
//   - source: the GLSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: an asset error if a declaration cannot be parsed
func NewShaderFromSource(key string, shaderType ShaderType, source string) (Shader, error) {
	decls, err := parseDeclarations(source, shaderType)
	if err != nil {
		return nil, &common.AssetError{Kind: common.KindShaderSource, Source: key, Err: err}
	}
	return &shader{
		key:          key,
		source:       source,
		shaderType:   shaderType,
		declarations: decls,
	}, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Path() string {
	return s.path
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Declaration {
	return s.declarations
}

func (s *shader) Inputs() []Declaration {
	return s.filter(QualifierIn)
}

func (s *shader) Uniforms() []Declaration {
	return s.filter(QualifierUniform)
}

func (s *shader) Input(name string) (Declaration, bool) {
	return s.lookup(QualifierIn, name)
}

func (s *shader) Uniform(name string) (Declaration, bool) {
	return s.lookup(QualifierUniform, name)
}

func (s *shader) Included() []string {
	return s.included
}

func (s *shader) filter(q StorageQualifier) []Declaration {
	var out []Declaration
	for _, d := range s.declarations {
		if d.Qualifier == q {
			out = append(out, d)
		}
	}
	return out
}

func (s *shader) lookup(q StorageQualifier, name string) (Declaration, bool) {
	for _, d := range s.declarations {
		if d.Qualifier == q && d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// Requirement names a declaration a consumer of a shader depends on.
type Requirement struct {
	Qualifier StorageQualifier
	Type      string
	Name      string
}

// RequireInput builds a Requirement for a stage input.
//
// Parameters:
//   - name: the input variable name
//   - typeName: the expected GLSL type
//
// Returns:
//   - Requirement: the requirement
func RequireInput(name, typeName string) Requirement {
	return Requirement{Qualifier: QualifierIn, Type: typeName, Name: name}
}

// RequireUniform builds a Requirement for a uniform.
//
// Parameters:
//   - name: the uniform name
//   - typeName: the expected GLSL type
//
// Returns:
//   - Requirement: the requirement
func RequireUniform(name, typeName string) Requirement {
	return Requirement{Qualifier: QualifierUniform, Type: typeName, Name: name}
}

// Validate checks that s declares every required variable with the required type.
// All violations are reported together in a single *common.AssetError of kind KindShaderContract.
//
// Parameters:
//   - s: the shader to check
//   - reqs: the declarations the caller depends on
//
// Returns:
//   - error: nil if every requirement is met
func Validate(s Shader, reqs ...Requirement) error {
	var problems []string
	for _, r := range reqs {
		var d Declaration
		var ok bool
		switch r.Qualifier {
		case QualifierUniform:
			d, ok = s.Uniform(r.Name)
		default:
			d, ok = s.Input(r.Name)
		}
		if !ok {
			problems = append(problems, fmt.Sprintf("missing %s %s %s", r.Qualifier, r.Type, r.Name))
			continue
		}
		if r.Type != "" && d.Type != r.Type {
			problems = append(problems, fmt.Sprintf("%s %s declared as %s, want %s", r.Qualifier, r.Name, d.Type, r.Type))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &common.AssetError{
		Kind:   common.KindShaderContract,
		Source: s.Key(),
		Log:    strings.Join(problems, "; "),
	}
}
