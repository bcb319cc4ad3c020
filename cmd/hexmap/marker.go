package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-hexpick/assets"
	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/loader"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// marker is a textured OBJ model drawn standing on the selected tile.
type marker struct {
	loader  loader.Loader
	program *gpu.Program
	mesh    mesh.Mesh
	texture gpu.TextureID
	mvp     gpu.UniformLocation

	// local moves the model's footprint center to the origin, its base onto z = 0, and scales it
	local mgl32.Mat4
}

// newMarker loads the model and its texture. An empty texture path selects a plain white texture.
func newMarker(d gpu.Device, modelPath, texturePath string, scale float32) (_ *marker, err error) {
	mk := &marker{
		loader: loader.NewLoader(loader.BackendTypeOBJ, loader.WithDevice(d)),
	}
	defer func() {
		if err != nil {
			mk.Close()
		}
	}()

	m, err := mk.loader.Load(modelPath)
	if err != nil {
		return nil, err
	}
	mk.mesh = mk.loader.Mesh(modelPath)
	if mk.mesh == nil {
		return nil, fmt.Errorf("hexmap: marker %s has no mesh", modelPath)
	}

	if mk.program, err = gpu.LoadProgramFS(d, assets.Shaders, assets.ModelVertexShader, assets.ModelFragmentShader); err != nil {
		return nil, err
	}
	mk.mvp = mk.program.UniformLocation("mvp_mat")

	if texturePath == "" {
		mk.texture, err = d.CreateTexture(&gpu.Image{Width: 1, Height: 1, Depth: 3, Pix: []byte{255, 255, 255}, Source: "white"})
	} else {
		mk.texture, err = gpu.LoadTexture(d, texturePath)
	}
	if err != nil {
		return nil, err
	}

	lo, hi := m.Bounds()
	center := lo.Add(hi).Mul(0.5)
	mk.local = mgl32.Scale3D(scale, scale, scale).Mul4(mgl32.Translate3D(-center.X(), -center.Y(), -lo.Z()))

	common.Logger().Info("hexmap: marker loaded", "model", modelPath, "faces", m.FaceCount(), "texture", texturePath)
	return mk, nil
}

// Matrix returns the model-view-projection matrix placing the marker at the given world position.
func (mk *marker) Matrix(vp mgl32.Mat4, at common.Vec3) mgl32.Mat4 {
	return vp.Mul4(mgl32.Translate3D(at.X(), at.Y(), at.Z())).Mul4(mk.local)
}

// Draw renders the marker at the given world position.
func (mk *marker) Draw(vp mgl32.Mat4, at common.Vec3) {
	mk.program.Use()
	mk.program.BindTexture(mk.texture)
	mk.program.Device().UniformMatrix4(mk.mvp, mk.Matrix(vp, at))
	mk.mesh.Draw(mk.program)
}

// Close releases the texture, the program and every loaded mesh.
func (mk *marker) Close() {
	if mk.program != nil {
		if mk.texture != 0 {
			mk.program.Device().DeleteTexture(mk.texture)
			mk.texture = 0
		}
		mk.program.Close()
	}
	mk.loader.Close()
}
