// Package assets bundles the GLSL sources the engine ships with, so the picker and the demo tools work
// without a checkout of the shader directory.
package assets

import "embed"

// Shaders holds every file under shaders/. Paths are slash-separated, e.g. "shaders/pick.vs.glsl".
//
//go:embed shaders
var Shaders embed.FS

const (
	// PickVertexShader is the color-id vertex shader used by the tile picker.
	PickVertexShader = "shaders/pick.vs.glsl"

	// PickFragmentShader is the color-id fragment shader used by the tile picker.
	PickFragmentShader = "shaders/pick.fs.glsl"

	// MapVertexShader draws the visible, per-vertex colored map.
	MapVertexShader = "shaders/map.vs.glsl"

	// MapFragmentShader draws the visible, per-vertex colored map.
	MapFragmentShader = "shaders/map.fs.glsl"

	// ModelVertexShader draws textured OBJ models.
	ModelVertexShader = "shaders/model.vs.glsl"

	// ModelFragmentShader draws textured OBJ models through the basic_texture sampler.
	ModelFragmentShader = "shaders/model.fs.glsl"
)
