package picker

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-hexpick/assets"
	"github.com/Carmen-Shannon/oxy-hexpick/common"
)

var (
	defaultShaderFS       fs.FS = assets.Shaders
	defaultVertexShader         = assets.PickVertexShader
	defaultFragmentShader       = assets.PickFragmentShader
)

// TilePickerBuilderOption is a functional option for configuring a TilePicker.
type TilePickerBuilderOption func(*tilePicker)

// WithShaderPaths loads the pick shaders from disk instead of the embedded assets. Includes resolve
// relative to each shader's directory.
//
// Parameters:
//   - vertexPath: path to the vertex shader
//   - fragmentPath: path to the fragment shader
//
// Returns:
//   - TilePickerBuilderOption: the option
func WithShaderPaths(vertexPath, fragmentPath string) TilePickerBuilderOption {
	return func(p *tilePicker) {
		p.fromDisk = true
		p.vertexPath = vertexPath
		p.fragmentPath = fragmentPath
	}
}

// WithShaderFS loads the pick shaders from fsys.
//
// Parameters:
//   - fsys: the file system holding both shaders and their includes
//   - vertexName: slash-separated name of the vertex shader in fsys
//   - fragmentName: slash-separated name of the fragment shader in fsys
//
// Returns:
//   - TilePickerBuilderOption: the option
func WithShaderFS(fsys fs.FS, vertexName, fragmentName string) TilePickerBuilderOption {
	return func(p *tilePicker) {
		p.fromDisk = false
		p.shaderFS = fsys
		p.vertexPath = vertexName
		p.fragmentPath = fragmentName
	}
}

// WithWindowSize sets the initial framebuffer size.
//
// Parameters:
//   - size: the framebuffer size in pixels
//
// Returns:
//   - TilePickerBuilderOption: the option
func WithWindowSize(size common.Size2) TilePickerBuilderOption {
	return func(p *tilePicker) {
		p.windowSize = size
	}
}

// WithOffscreenTarget renders picks into a private framebuffer so the visible frame is never overwritten.
// The target is sized to the window and created by Init, or by the first SetWindowSize after Init
// when Init ran without a window size.
//
// Parameters:
//   - enabled: whether to render offscreen
//
// Returns:
//   - TilePickerBuilderOption: the option
func WithOffscreenTarget(enabled bool) TilePickerBuilderOption {
	return func(p *tilePicker) {
		p.offscreen = enabled
	}
}

// WithWorkers sets how many workers build the map mesh. Values below 1 are treated as 1.
func WithWorkers(n int) TilePickerBuilderOption {
	return func(p *tilePicker) {
		p.workers = n
	}
}
