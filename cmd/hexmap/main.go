// Command hexmap renders a hex map, picks the tile under the cursor on left click and highlights it.
//
// Controls: WASD or arrow keys pan, middle mouse drag pans, scroll zooms, Q/E tilt, F frames the whole map.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/camera"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/config"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/picker"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/profiler"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// panStep is the fraction of the camera distance one key press pans.
const panStep = 0.02

// tiltStep is the tilt change per key press, in radians.
const tiltStep = 0.05

var clearColor = common.Color3{R: 0.08, G: 0.09, B: 0.12}

func main() {
	if err := run(); err != nil {
		common.Logger().Error("hexmap: fatal", "error", err)
		fmt.Fprintln(os.Stderr, "hexmap:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "YAML config file")
		width      = flag.Int("width", 0, "window width")
		height     = flag.Int("height", 0, "window height")
		mapWidth   = flag.Int("map-width", 0, "map width in tiles (max 255)")
		mapHeight  = flag.Int("map-height", 0, "map height in tiles (max 255)")
		modelPath  = flag.String("model", "", "OBJ model drawn on the selected tile")
		texture    = flag.String("texture", "", "texture for the marker model")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		offscreen  = flag.Bool("offscreen", false, "pick into an offscreen framebuffer")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(config.Flags{
		Width:     *width,
		Height:    *height,
		MapWidth:  *mapWidth,
		MapHeight: *mapHeight,
		Model:     *modelPath,
		Texture:   *texture,
		LogLevel:  *logLevel,
		Offscreen: *offscreen,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	common.SetLogger(logger)

	// ── Window + Device ─────────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Size()),
		window.WithSizeLimits(common.Size2{W: 320, H: 200}, common.Size2{}),
		window.WithVSync(cfg.VSyncEnabled()),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := gpu.NewDevice(gpu.BackendTypeOpenGL, win.ProcAddress())
	if err != nil {
		return err
	}
	defer dev.Close()

	// ── Map ─────────────────────────────────────────────────────────────
	geom := hexgrid.NewGeometry(hexgrid.WithRadius(cfg.Map.Radius))
	mapSize := cfg.Map.Size()

	view, err := newMapView(dev, geom, mapSize)
	if err != nil {
		return err
	}
	defer view.Close()

	// ── Picker ──────────────────────────────────────────────────────────
	opts := []picker.TilePickerBuilderOption{
		picker.WithWindowSize(win.Size()),
		picker.WithOffscreenTarget(cfg.Picker.Offscreen),
		picker.WithWorkers(cfg.Picker.Workers),
	}
	if cfg.Shaders.PickVertex != "" {
		opts = append(opts, picker.WithShaderPaths(cfg.Shaders.PickVertex, cfg.Shaders.PickFragment))
	}
	tp := picker.NewTilePicker(dev, opts...)
	defer tp.Close()
	if err := tp.Init(geom, mapSize); err != nil {
		return err
	}

	// ── Camera ──────────────────────────────────────────────────────────
	cc := camera.NewCameraController(camera.WithTilt(0.35), camera.WithZoomSpeed(2))
	cam := camera.NewCamera(camera.WithController(cc), camera.WithAspect(aspect(win.Size())))
	frameMap(cam, geom, mapSize)

	// ── Marker ──────────────────────────────────────────────────────────
	var mk *marker
	if cfg.Model.Path != "" {
		if mk, err = newMarker(dev, cfg.Model.Path, cfg.Model.Texture, cfg.Model.Scale); err != nil {
			return err
		}
		defer mk.Close()
	}

	a := &app{
		win:     win,
		dev:     dev,
		cam:     cam,
		geom:    geom,
		mapSize: mapSize,
		view:    view,
		picker:  tp,
		marker:  mk,
		prof:    profiler.NewProfiler(),
		keys:    make(map[uint32]bool),
	}
	a.setupInput()
	win.SetUpdateCallback(a.frame)
	win.ProcessMessages()
	return nil
}

// app holds everything the per-frame and input callbacks touch. All of it lives on the window's thread.
type app struct {
	win     window.Window
	dev     gpu.Device
	cam     camera.Camera
	geom    hexgrid.Geometry
	mapSize common.Size2
	view    *mapView
	picker  picker.TilePicker
	marker  *marker
	prof    *profiler.Profiler

	keys     map[uint32]bool
	dragging bool
	lastDrag common.CursorPos
}

// setupInput wires camera controls and picking to the window callbacks.
func (a *app) setupInput() {
	a.win.SetKeyDownCallback(func(keyCode uint32) {
		a.keys[keyCode] = true
		cc := a.cam.Controller()
		switch keyCode {
		case common.KeyQ:
			cc.SetTilt(cc.Tilt() - tiltStep)
		case common.KeyE:
			cc.SetTilt(cc.Tilt() + tiltStep)
		case common.KeyF:
			frameMap(a.cam, a.geom, a.mapSize)
		}
	})
	a.win.SetKeyUpCallback(func(keyCode uint32) {
		a.keys[keyCode] = false
	})

	a.win.SetMiddleMouseDownCallback(func(pos common.CursorPos) {
		a.dragging = true
		a.lastDrag = pos
	})
	a.win.SetMiddleMouseUpCallback(func(common.CursorPos) {
		a.dragging = false
	})
	a.win.SetMouseMoveCallback(func(pos common.CursorPos) {
		if !a.dragging {
			return
		}
		a.drag(pos)
	})

	a.win.SetScrollCallback(func(delta float32) {
		a.cam.Controller().Zoom(delta)
	})

	a.win.SetResizeCallback(func(width, height int) {
		size := common.Size2{W: width, H: height}
		if size.Area() == 0 {
			return
		}
		if err := a.picker.SetWindowSize(size); err != nil {
			common.Logger().Error("hexmap: resize picker", "error", err)
		}
		a.cam.SetAspect(aspect(size))
	})

	a.win.SetLeftClickCallback(a.click)
}

// drag pans so the map follows the cursor.
func (a *app) drag(pos common.CursorPos) {
	cc := a.cam.Controller()
	size := a.win.Size()
	if size.H == 0 {
		return
	}
	// world units per pixel at the target, from the vertical field of view
	visible := 2 * cc.Distance() * float32(math.Tan(float64(a.cam.Fov())/2))
	perPixel := visible / float32(size.H) / cc.PanSpeed()
	cc.PanRight(-float32(pos.X-a.lastDrag.X) * perPixel)
	cc.PanUp(float32(pos.Y-a.lastDrag.Y) * perPixel)
	a.lastDrag = pos
}

// click picks the tile under the cursor and highlights it.
func (a *app) click(pos common.CursorPos) {
	a.cam.Update()
	tile, ok := a.picker.PickTile(a.cam, pos)
	a.prof.RecordPick(a.picker.LastPickDuration())
	if !ok {
		common.Logger().Info("hexmap: no tile under cursor", "x", pos.X, "y", pos.Y)
		return
	}
	common.Logger().Info("hexmap: picked", "tile", tile, "latency", a.picker.LastPickDuration())
	a.crossCheck(pos, tile)
	if err := a.view.Select(tile); err != nil {
		common.Logger().Error("hexmap: highlight", "tile", tile, "error", err)
	}
}

// crossCheck compares the GPU pick against a CPU ray cast onto the map plane.
// Clicks right on a tile border may legitimately disagree.
func (a *app) crossCheck(pos common.CursorPos, picked common.TileCoord) {
	world, ok := a.cam.Unproject(pos, a.win.Size())
	if !ok {
		return
	}
	cpu, ok := hexgrid.WorldToTile(a.geom, world, a.mapSize)
	if !ok || cpu != picked {
		common.Logger().Warn("hexmap: pick disagrees with ray cast", "gpu", picked, "cpu", cpu, "cpu_ok", ok, "world", world)
		return
	}
	common.Logger().Debug("hexmap: pick confirmed by ray cast", "tile", picked)
}

// applyKeys pans for every held movement key.
func (a *app) applyKeys() {
	cc := a.cam.Controller()
	step := cc.Distance() * panStep
	if a.keys[common.KeyW] || a.keys[common.KeyUp] {
		cc.PanUp(step)
	}
	if a.keys[common.KeyS] || a.keys[common.KeyDown] {
		cc.PanUp(-step)
	}
	if a.keys[common.KeyA] || a.keys[common.KeyLeft] {
		cc.PanRight(-step)
	}
	if a.keys[common.KeyD] || a.keys[common.KeyRight] {
		cc.PanRight(step)
	}
}

// frame draws one frame: map, then the marker on the selected tile.
func (a *app) frame() {
	a.applyKeys()
	a.cam.Update()

	size := a.win.Size()
	a.dev.BindFramebuffer(gpu.DefaultFramebuffer)
	a.dev.Viewport(size.W, size.H)
	a.dev.SetClearColor(clearColor.R, clearColor.G, clearColor.B)
	a.dev.Clear()

	vp := mgl32.Mat4(a.cam.ViewProjectionMatrix())
	a.view.Draw(vp)
	if tile, ok := a.view.Selected(); ok && a.marker != nil {
		a.marker.Draw(vp, a.geom.TileToWorld(tile))
	}

	a.win.SwapBuffers()
	a.prof.Tick()
}

// frameMap points the camera at the whole map.
func frameMap(cam camera.Camera, geom hexgrid.Geometry, size common.Size2) {
	lo, hi := hexgrid.Bounds(geom, size)
	cam.Controller().FrameBounds(lo, hi, cam.Fov(), cam.Aspect())
	cam.Update()
}

func aspect(size common.Size2) float32 {
	if size.H == 0 {
		return 1
	}
	return float32(size.W) / float32(size.H)
}
