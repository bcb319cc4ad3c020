package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-hexpick/assets"
	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/mesh"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/picker"
)

var (
	// evenTileColor and oddTileColor alternate by column so neighbouring tiles are distinguishable.
	evenTileColor = common.Color3{R: 0.30, G: 0.55, B: 0.32}
	oddTileColor  = common.Color3{R: 0.26, G: 0.48, B: 0.28}

	// edgeShade darkens the corner vertices of a tile, leaving the center bright.
	edgeShade float32 = 0.75

	highlightColor = common.Color3{R: 0.95, G: 0.78, B: 0.20}
)

// mapView draws the visible map and highlights the selected tile.
type mapView struct {
	program *gpu.Program
	mesh    mesh.Mesh
	mvp     gpu.UniformLocation

	size     common.Size2
	colors   []common.Color3
	selected common.TileCoord
	hasSel   bool
}

// newMapView links the map shaders and uploads the map geometry.
func newMapView(d gpu.Device, geom hexgrid.Geometry, size common.Size2) (*mapView, error) {
	prog, err := gpu.LoadProgramFS(d, assets.Shaders, assets.MapVertexShader, assets.MapFragmentShader)
	if err != nil {
		return nil, err
	}

	positions, _ := picker.BuildHexMapMesh(geom, size)
	v := &mapView{
		program: prog,
		mesh:    mesh.NewMesh(d),
		mvp:     prog.UniformLocation("mvp_mat"),
		size:    size,
		colors:  make([]common.Color3, len(positions)),
	}
	for t := range hexgrid.Tiles(size) {
		v.paint(t, tileColor(t))
	}

	if err := v.mesh.Init(positions); err != nil {
		v.Close()
		return nil, fmt.Errorf("hexmap: map mesh: %w", err)
	}
	if err := v.mesh.SetColor(v.colors); err != nil {
		v.Close()
		return nil, fmt.Errorf("hexmap: map colors: %w", err)
	}
	return v, nil
}

func tileColor(t common.TileCoord) common.Color3 {
	if t.X%2 == 0 {
		return evenTileColor
	}
	return oddTileColor
}

// paint writes base into the tile's vertex colors, shading the rim.
func (v *mapView) paint(t common.TileCoord, base common.Color3) {
	rim := common.Color3{R: base.R * edgeShade, G: base.G * edgeShade, B: base.B * edgeShade}
	i := (t.Y*v.size.W + t.X) * picker.VerticesPerTile
	for n := 0; n < picker.VerticesPerTile; n += 3 {
		v.colors[i+n] = rim
		v.colors[i+n+1] = rim
		v.colors[i+n+2] = base
	}
}

// Select highlights t and restores the previously selected tile.
func (v *mapView) Select(t common.TileCoord) error {
	if v.hasSel {
		v.paint(v.selected, tileColor(v.selected))
	}
	v.paint(t, highlightColor)
	v.selected, v.hasSel = t, true
	return v.mesh.SetColor(v.colors)
}

// Selected returns the highlighted tile.
func (v *mapView) Selected() (common.TileCoord, bool) {
	return v.selected, v.hasSel
}

// Draw renders the map with the given view-projection matrix.
func (v *mapView) Draw(vp [16]float32) {
	v.program.Use()
	v.program.Device().UniformMatrix4(v.mvp, vp)
	v.mesh.Draw(v.program)
}

// Close releases the program and the mesh.
func (v *mapView) Close() {
	if v.mesh != nil {
		v.mesh.Close()
	}
	v.program.Close()
}
