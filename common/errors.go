package common

import (
	"errors"
	"fmt"
)

// ErrAsset is the sentinel matched by every AssetError via errors.Is.
// Asset errors describe defective build content (shaders, images, models). They are never retried:
// callers are expected to abort with the attached diagnostic.
var ErrAsset = errors.New("asset error")

// AssetErrorKind classifies an unrecoverable asset defect.
type AssetErrorKind int

const (
	// KindShaderSource indicates a shader source file could not be read or pre-processed.
	KindShaderSource AssetErrorKind = iota

	// KindShaderCompile indicates the driver rejected a shader during compilation.
	KindShaderCompile

	// KindProgramLink indicates the driver failed to link a vertex/fragment shader pair.
	KindProgramLink

	// KindShaderContract indicates a shader compiled but does not declare the inputs or uniforms its consumer requires.
	KindShaderContract

	// KindImageFormat indicates an image file is in a format none of the registered decoders understand.
	KindImageFormat

	// KindImageDepth indicates an image decoded to something other than 8-bit RGB or RGBA.
	KindImageDepth

	// KindModelParse indicates a malformed model file (bad number, wrong arity, index out of range).
	KindModelParse
)

// String returns a short human readable name for the kind.
func (k AssetErrorKind) String() string {
	switch k {
	case KindShaderSource:
		return "shader source"
	case KindShaderCompile:
		return "shader compile"
	case KindProgramLink:
		return "program link"
	case KindShaderContract:
		return "shader contract"
	case KindImageFormat:
		return "image format"
	case KindImageDepth:
		return "image depth"
	case KindModelParse:
		return "model parse"
	default:
		return fmt.Sprintf("asset kind %d", int(k))
	}
}

// AssetError describes an unrecoverable defect in build-time content.
type AssetError struct {
	// Kind classifies the defect.
	Kind AssetErrorKind

	// Source names the offending asset (file path, shader key, model name). May be empty.
	Source string

	// Log carries the driver or parser diagnostic, e.g. a shader info log. May be empty.
	Log string

	// Err is an optional underlying cause.
	Err error
}

func (e *AssetError) Error() string {
	msg := e.Kind.String()
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Log != "" {
		msg += ": " + e.Log
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *AssetError) Unwrap() error {
	return e.Err
}

// Is reports ErrAsset as matching so callers can classify without a type assertion.
func (e *AssetError) Is(target error) bool {
	return target == ErrAsset
}

// AssetKind extracts the AssetErrorKind from err if it wraps an AssetError.
//
// Parameters:
//   - err: the error to inspect
//
// Returns:
//   - AssetErrorKind: the kind of the wrapped AssetError
//   - bool: false if err does not wrap an AssetError
func AssetKind(err error) (AssetErrorKind, bool) {
	var ae *AssetError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
