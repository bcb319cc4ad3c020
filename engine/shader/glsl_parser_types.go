package shader

// StorageQualifier is the GLSL storage qualifier of a top-level declaration.
type StorageQualifier int

const (
	// QualifierIn marks a stage input (`in`, or `attribute` in legacy vertex shaders, `varying` in legacy fragment shaders).
	QualifierIn StorageQualifier = iota

	// QualifierOut marks a stage output (`out`, or `varying` in legacy vertex shaders).
	QualifierOut

	// QualifierUniform marks a uniform.
	QualifierUniform
)

// String returns the GLSL keyword for the qualifier.
func (q StorageQualifier) String() string {
	switch q {
	case QualifierIn:
		return "in"
	case QualifierOut:
		return "out"
	case QualifierUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// Declaration is a single top-level `in`, `out` or `uniform` variable parsed from GLSL source.
type Declaration struct {
	// Qualifier is the storage qualifier of the variable.
	Qualifier StorageQualifier

	// Type is the GLSL type name, e.g. "vec3", "mat4", "sampler2D".
	Type string

	// Name is the variable identifier.
	Name string

	// Location is the explicit layout(location = N) value, or -1 when none was given.
	Location int

	// ArraySize is the declared array length, or 0 for non-array variables.
	ArraySize int

	// Interpolation is "flat", "smooth" or "noperspective" when the declaration names one, empty otherwise.
	Interpolation string

	// Line is the 1-based source line of the declaration after pre-processing.
	Line int
}

// glslComponentCounts maps GLSL types usable as vertex attributes or plain uniforms to their float component count.
var glslComponentCounts = map[string]int{
	"float": 1,
	"int":   1,
	"uint":  1,
	"bool":  1,
	"vec2":  2,
	"ivec2": 2,
	"uvec2": 2,
	"vec3":  3,
	"ivec3": 3,
	"uvec3": 3,
	"vec4":  4,
	"ivec4": 4,
	"uvec4": 4,
	"mat2":  4,
	"mat3":  9,
	"mat4":  16,
}

// Components returns the number of scalar components of the declaration's type, or 0 for opaque types
// such as samplers.
//
// Returns:
//   - int: scalar component count per element
func (d Declaration) Components() int {
	return glslComponentCounts[d.Type]
}

// glslPrecisions are the precision qualifiers that may precede a type and are skipped during parsing.
var glslPrecisions = map[string]bool{
	"lowp":    true,
	"mediump": true,
	"highp":   true,
}

// glslInterpolations are interpolation / auxiliary qualifiers that may precede a storage qualifier.
// Only the interpolation modes are recorded on the Declaration.
var glslInterpolations = map[string]bool{
	"flat":          true,
	"smooth":        true,
	"noperspective": true,
	"centroid":      false,
	"invariant":     false,
}
