package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/picker"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/webp"
)

type orthoCamera struct {
	m mgl32.Mat4
}

func (c orthoCamera) ViewProjectionMatrix() [16]float32 { return c.m }

func TestSummarize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	set := func(x, y int, tile common.TileCoord) {
		c := picker.EncodeTileColor(tile)
		copy(img.Pix[img.PixOffset(x, y):], []byte{byte(c.R*255 + 0.5), byte(c.G*255 + 0.5), byte(c.B*255 + 0.5), 255})
	}
	set(0, 0, common.TileCoord{X: 0, Y: 0})
	set(1, 0, common.TileCoord{X: 0, Y: 0})
	set(2, 0, common.TileCoord{X: 1, Y: 1})
	set(0, 1, common.TileCoord{X: 9, Y: 0})

	s := summarize(img, common.Size2{W: 2, H: 2})
	if s.Pixels != 6 || s.TilePixels != 3 || s.Tiles != 2 || s.Stray != 1 {
		t.Errorf("summarize() = %+v", s)
	}
	want := []common.TileCoord{{X: 1, Y: 0}, {X: 0, Y: 1}}
	if len(s.Missing) != 2 || s.Missing[0] != want[0] || s.Missing[1] != want[1] {
		t.Errorf("Missing = %v, want %v", s.Missing, want)
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path, want string
		wantErr    bool
	}{
		{path: "pick.webp", want: "webp"},
		{path: "out/PICK.PNG", want: "png"},
		{path: "pick.jpg", wantErr: true},
		{path: "pick", wantErr: true},
	}
	for _, tt := range tests {
		got, err := formatFor(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("formatFor(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestDumpCoversEveryTile(t *testing.T) {
	d := gputest.NewDevice(128, 96)
	g := hexgrid.NewGeometry()
	size := common.Size2{W: 6, H: 5}

	tp := picker.NewTilePicker(d,
		picker.WithWindowSize(common.Size2{W: 128, H: 96}),
		picker.WithOffscreenTarget(true),
		picker.WithWorkers(2),
	)
	defer tp.Close()
	if err := tp.Init(g, size); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	lo, hi := hexgrid.Bounds(g, size)
	cam := orthoCamera{m: mgl32.Ortho(lo.X()-0.5, hi.X()+0.5, lo.Y()-0.5, hi.Y()+0.5, -1, 1)}

	for _, format := range []string{"webp", "png"} {
		path := filepath.Join(t.TempDir(), "pick."+format)
		s, err := dump(tp, cam, size, path, format)
		if err != nil {
			t.Fatalf("dump(%s) error = %v", format, err)
		}
		if s.Tiles != size.Area() || len(s.Missing) != 0 || s.Stray != 0 {
			t.Errorf("dump(%s) summary = %+v, want every tile", format, s)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("dump(%s) wrote nothing: %v", format, err)
		}
	}
}

func TestWebPIsLossless(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		c := picker.EncodeTileColor(common.TileCoord{X: x * 60, Y: 254 - x})
		copy(img.Pix[img.PixOffset(x, 0):], []byte{byte(c.R*255 + 0.5), byte(c.G*255 + 0.5), 255, 255})
	}

	var buf bytes.Buffer
	if err := encode(&buf, img, "webp"); err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	back, err := webp.Decode(&buf)
	if err != nil {
		t.Fatalf("webp.Decode() error = %v", err)
	}
	for x := 0; x < 4; x++ {
		r, g, b, _ := back.At(x, 0).RGBA()
		px := [4]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8), 255}
		tile, ok := picker.DecodeTilePixel(px)
		if !ok || tile != (common.TileCoord{X: x * 60, Y: 254 - x}) {
			t.Errorf("pixel %d decodes to %v, %v", x, tile, ok)
		}
	}
}
