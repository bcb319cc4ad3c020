// Command pickdump renders the tile picker's color-id buffer offscreen, checks that every tile decodes back to
// itself and writes the buffer to a WebP or PNG file for inspection.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/camera"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/config"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/picker"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/window"
)

func main() {
	if err := run(); err != nil {
		common.Logger().Error("pickdump: fatal", "error", err)
		fmt.Fprintln(os.Stderr, "pickdump:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "YAML config file")
		out        = flag.String("out", "pick.webp", "output file, .webp or .png")
		width      = flag.Int("width", 0, "buffer width")
		height     = flag.Int("height", 0, "buffer height")
		mapWidth   = flag.Int("map-width", 0, "map width in tiles (max 255)")
		mapHeight  = flag.Int("map-height", 0, "map height in tiles (max 255)")
		tilt       = flag.Float64("tilt", 0, "camera tilt in radians, 0 looks straight down")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		strict     = flag.Bool("strict", false, "fail when a tile has no pixel in the buffer")
	)
	flag.Parse()

	format, err := formatFor(*out)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(config.Flags{
		Width:     *width,
		Height:    *height,
		MapWidth:  *mapWidth,
		MapHeight: *mapHeight,
		LogLevel:  *logLevel,
		Offscreen: true,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	common.SetLogger(logger)

	// a GL context needs a window, even an invisible one
	win, err := window.NewWindow(
		window.WithTitle("pickdump"),
		window.WithSize(cfg.Window.Size()),
		window.WithHidden(true),
		window.WithVSync(false),
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

	geom := hexgrid.NewGeometry(hexgrid.WithRadius(cfg.Map.Radius))
	mapSize := cfg.Map.Size()
	bufSize := cfg.Window.Size()

	opts := []picker.TilePickerBuilderOption{
		picker.WithWindowSize(bufSize),
		picker.WithOffscreenTarget(true),
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

	cc := camera.NewCameraController(camera.WithTilt(float32(*tilt)))
	cam := camera.NewCamera(camera.WithController(cc), camera.WithAspect(float32(bufSize.W)/float32(bufSize.H)))
	lo, hi := hexgrid.Bounds(geom, mapSize)
	cc.FrameBounds(lo, hi, cam.Fov(), cam.Aspect())
	cam.Update()

	s, err := dump(tp, cam, mapSize, *out, format)
	if err != nil {
		return err
	}
	common.Logger().Info("pickdump: wrote pick buffer",
		"path", *out,
		"pixels", s.Pixels,
		"tile_pixels", s.TilePixels,
		"tiles", s.Tiles,
		"missing", len(s.Missing),
		"stray", s.Stray,
	)
	if *strict && (len(s.Missing) > 0 || s.Stray > 0) {
		return fmt.Errorf("%d of %d tiles missing from the pick buffer, %d stray pixels", len(s.Missing), mapSize.Area(), s.Stray)
	}
	return nil
}

// dump renders the pick buffer, decodes it and writes it to path.
func dump(tp picker.TilePicker, cam picker.Camera, mapSize common.Size2, path, format string) (summary, error) {
	img := tp.PickBuffer(cam)
	s := summarize(img, mapSize)

	f, err := os.Create(path)
	if err != nil {
		return s, fmt.Errorf("pickdump: %w", err)
	}
	if err := encode(f, img, format); err != nil {
		f.Close()
		return s, fmt.Errorf("pickdump: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return s, fmt.Errorf("pickdump: %w", err)
	}
	return s, nil
}
