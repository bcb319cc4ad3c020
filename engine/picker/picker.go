package picker

import (
	"fmt"
	"image"
	"io/fs"
	"math"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/mesh"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/shader"
)

const (
	// PositionAttribute is the pick vertex shader input receiving tile vertex positions.
	PositionAttribute = "in_vertex_coordinates"

	// ColorAttribute is the pick vertex shader input receiving the encoded tile color.
	ColorAttribute = "color"

	// MVPUniform is the pick vertex shader uniform receiving the camera's view-projection matrix.
	MVPUniform = "mvp_mat"
)

// pickShaderContract lists the declarations the picker binds by name.
var pickShaderContract = []shader.Requirement{
	shader.RequireInput(PositionAttribute, "vec3"),
	shader.RequireInput(ColorAttribute, "vec3"),
	shader.RequireUniform(MVPUniform, "mat4"),
}

// Camera is the only thing the picker needs from a camera: the combined view-projection matrix, column-major.
type Camera interface {
	ViewProjectionMatrix() [16]float32
}

// tilePicker is the implementation of the TilePicker interface.
type tilePicker struct {
	device gpu.Device

	shaderFS       fs.FS
	vertexPath     string
	fragmentPath   string
	fromDisk       bool
	windowSize     common.Size2
	offscreen      bool
	workers        int
	pool           worker.DynamicWorkerPool
	program        *gpu.Program
	mapMesh        mesh.Mesh
	target         gpu.RenderTarget
	mvp            gpu.UniformLocation
	mapSize        common.Size2
	initialized    bool
	lastPickLength time.Duration
}

// TilePicker answers "which tile is under the cursor?" by drawing every tile in a unique flat color
// and reading back the single pixel under the cursor.
//
// The lifecycle is Uninitialized, then Initialized after a successful Init. PickTile may be called any number
// of times once initialized. Close releases the program, the map mesh and the offscreen target, if any.
type TilePicker interface {
	// Init compiles the pick program (on first use), builds the color-encoded map mesh and uploads it.
	// Calling Init again rebuilds the mesh for a new map and keeps the program.
	//
	// Parameters:
	//   - geom: the hex geometry tiles are laid out with
	//   - size: the map size in tiles; both axes must be in [1, MaxMapAxis]
	//
	// Returns:
	//   - error: ErrMapTooLarge, an asset error for shader defects, or a wrapped device error
	Init(geom hexgrid.Geometry, size common.Size2) error

	// SetWindowSize records the window's framebuffer size. Picking flips cursor rows against this height.
	//
	// Parameters:
	//   - size: the framebuffer size in pixels
	//
	// Returns:
	//   - error: an error if the offscreen target cannot be resized
	SetWindowSize(size common.Size2) error

	// WindowSize returns the size last set with SetWindowSize or WithWindowSize.
	//
	// Returns:
	//   - common.Size2: the framebuffer size in pixels
	WindowSize() common.Size2

	// PickTile renders the pick buffer with the camera's matrix and decodes the pixel under the cursor.
	// The pick program is left in use and, without an offscreen target, the pick image is left in the
	// default framebuffer: callers redraw the visible frame afterwards.
	//
	// Parameters:
	//   - cam: supplies the view-projection matrix
	//   - cursor: the cursor in window coordinates, origin top-left
	//
	// Returns:
	//   - common.TileCoord: the tile under the cursor
	//   - bool: false if the cursor is over the background or outside the window
	PickTile(cam Camera, cursor common.CursorPos) (common.TileCoord, bool)

	// PickBuffer renders the pick buffer and returns the whole image, top row first.
	//
	// Parameters:
	//   - cam: supplies the view-projection matrix
	//
	// Returns:
	//   - *image.RGBA: the color-encoded frame
	PickBuffer(cam Camera) *image.RGBA

	// MapSize returns the size passed to the last successful Init.
	//
	// Returns:
	//   - common.Size2: the map size in tiles
	MapSize() common.Size2

	// LastPickDuration returns how long the last PickTile took, from program bind to decoded pixel.
	//
	// Returns:
	//   - time.Duration: the duration, zero before the first pick
	LastPickDuration() time.Duration

	// Close releases every GPU resource the picker owns. It is safe to call more than once.
	Close()
}

var _ TilePicker = &tilePicker{}

// NewTilePicker creates a TilePicker drawing with d. No GPU resources are allocated until Init.
//
// Parameters:
//   - d: the device
//   - options: functional options
//
// Returns:
//   - TilePicker: the picker
func NewTilePicker(d gpu.Device, options ...TilePickerBuilderOption) TilePicker {
	p := &tilePicker{
		device:       d,
		shaderFS:     defaultShaderFS,
		vertexPath:   defaultVertexShader,
		fragmentPath: defaultFragmentShader,
		workers:      runtime.NumCPU(),
		mvp:          -1,
	}
	for _, opt := range options {
		opt(p)
	}
	p.pool = worker.NewDynamicWorkerPool(max(p.workers, 1), 256, time.Second)
	return p
}

func (p *tilePicker) Init(geom hexgrid.Geometry, size common.Size2) error {
	if size.W <= 0 || size.H <= 0 {
		return fmt.Errorf("picker: invalid map size %dx%d", size.W, size.H)
	}
	if size.W > MaxMapAxis || size.H > MaxMapAxis {
		return fmt.Errorf("%w: %dx%d", ErrMapTooLarge, size.W, size.H)
	}

	if p.program == nil {
		prog, err := p.loadProgram()
		if err != nil {
			return err
		}
		p.program = prog
		p.program.Use()
		p.program.EnableAttribute(PositionAttribute)
		p.program.EnableAttribute(ColorAttribute)
		p.mvp = p.program.UniformLocation(MVPUniform)
	}

	positions, colors := buildHexMapMesh(p.pool, geom, size)
	m := mesh.NewMesh(p.device,
		mesh.WithPositionAttribute(PositionAttribute),
		mesh.WithColorAttribute(ColorAttribute),
	)
	if err := m.Init(positions); err != nil {
		m.Close()
		return fmt.Errorf("picker: upload map mesh: %w", err)
	}
	if err := m.SetColor(colors); err != nil {
		m.Close()
		return fmt.Errorf("picker: upload map colors: %w", err)
	}
	if p.mapMesh != nil {
		p.mapMesh.Close()
	}
	p.mapMesh = m

	if err := p.ensureTarget(); err != nil {
		return err
	}

	p.mapSize = size
	p.initialized = true
	common.Logger().Info("picker: initialized", "map", size, "vertices", len(positions), "offscreen", p.target != nil)
	return nil
}

// loadProgram reads, validates and links the pick shaders.
func (p *tilePicker) loadProgram() (*gpu.Program, error) {
	var vs, fs shader.Shader
	var err error
	if p.fromDisk {
		vs, err = shader.NewShader(p.vertexPath, shader.ShaderTypeVertex, p.vertexPath)
	} else {
		vs, err = shader.NewShaderFromFS(p.vertexPath, shader.ShaderTypeVertex, p.shaderFS, p.vertexPath)
	}
	if err != nil {
		return nil, err
	}
	if p.fromDisk {
		fs, err = shader.NewShader(p.fragmentPath, shader.ShaderTypeFragment, p.fragmentPath)
	} else {
		fs, err = shader.NewShaderFromFS(p.fragmentPath, shader.ShaderTypeFragment, p.shaderFS, p.fragmentPath)
	}
	if err != nil {
		return nil, err
	}
	if err := shader.Validate(vs, pickShaderContract...); err != nil {
		return nil, err
	}
	return gpu.LinkShaders(p.device, vs, fs)
}

// ensureTarget creates the offscreen target once the picker wants one and the window has an area.
func (p *tilePicker) ensureTarget() error {
	if !p.offscreen || p.target != nil || p.windowSize.Area() == 0 {
		return nil
	}
	rt, err := gpu.NewRenderTarget(p.device, p.windowSize.W, p.windowSize.H)
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	p.target = rt
	common.Logger().Debug("picker: offscreen target created", "size", p.windowSize)
	return nil
}

func (p *tilePicker) SetWindowSize(size common.Size2) error {
	p.windowSize = size
	if size.Area() == 0 {
		return nil
	}
	if p.target == nil {
		if !p.initialized {
			return nil
		}
		return p.ensureTarget()
	}
	if err := p.target.Resize(size.W, size.H); err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	return nil
}

func (p *tilePicker) WindowSize() common.Size2 {
	return p.windowSize
}

// render draws the pick image into the offscreen target, or the default framebuffer without one.
func (p *tilePicker) render(cam Camera) {
	if !p.initialized {
		panic("picker: pick before Init")
	}
	if p.target != nil {
		p.target.Bind()
	} else {
		p.device.Viewport(p.windowSize.W, p.windowSize.H)
	}
	p.program.Use()
	p.device.UniformMatrix4(p.mvp, cam.ViewProjectionMatrix())
	p.device.SetClearColor(0, 0, 0)
	p.device.Clear()
	p.mapMesh.Draw(p.program)
}

func (p *tilePicker) PickTile(cam Camera, cursor common.CursorPos) (common.TileCoord, bool) {
	if !p.initialized {
		panic("picker: PickTile before Init")
	}
	w, h := p.windowSize.W, p.windowSize.H
	if cursor.X < 0 || cursor.Y < 0 || cursor.X >= float64(w) || cursor.Y >= float64(h) {
		return common.TileCoord{}, false
	}

	start := time.Now()
	p.render(cam)
	x := int(math.Floor(cursor.X))
	y := h - 1 - int(math.Floor(cursor.Y))
	px := p.device.ReadPixel(x, y)
	if p.target != nil {
		p.target.Unbind(w, h)
	}
	p.lastPickLength = time.Since(start)

	tile, ok := DecodeTilePixel(px)
	common.Logger().Debug("picker: pick", "cursor_x", cursor.X, "cursor_y", cursor.Y, "pixel", px, "tile", tile, "hit", ok)
	return tile, ok
}

func (p *tilePicker) PickBuffer(cam Camera) *image.RGBA {
	p.render(cam)
	img := p.device.ReadPixels(0, 0, p.windowSize.W, p.windowSize.H)
	if p.target != nil {
		p.target.Unbind(p.windowSize.W, p.windowSize.H)
	}
	return img
}

func (p *tilePicker) MapSize() common.Size2 {
	return p.mapSize
}

func (p *tilePicker) LastPickDuration() time.Duration {
	return p.lastPickLength
}

func (p *tilePicker) Close() {
	if p.mapMesh != nil {
		p.mapMesh.Close()
		p.mapMesh = nil
	}
	if p.target != nil {
		p.target.Close()
		p.target = nil
	}
	if p.program != nil {
		p.program.Close()
		p.program = nil
	}
	p.initialized = false
}
