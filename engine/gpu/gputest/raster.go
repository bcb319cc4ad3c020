package gputest

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// screenVertex is a vertex after the fake vertex stage and viewport transform.
type screenVertex struct {
	x, y, z float64
	color   [3]float32
}

// fetch returns the components of vertex i from the array bound to loc.
func (d *Device) fetch(loc gpu.AttribLocation, i int) ([]float32, bool) {
	if !loc.Valid() || !d.enabled[loc] {
		return nil, false
	}
	ptr, ok := d.pointers[loc]
	if !ok {
		return nil, false
	}
	data, ok := d.buffers[ptr.buffer]
	if !ok {
		panic(fmt.Sprintf("gputest: draw sources deleted buffer %d", ptr.buffer))
	}
	start := i * ptr.components
	if start+ptr.components > len(data) {
		panic(fmt.Sprintf("gputest: draw reads vertex %d past the end of buffer %d (%d floats)", i, ptr.buffer, len(data)))
	}
	return data[start : start+ptr.components], true
}

// rasterize runs the fake pipeline over count vertices of the current program.
func (d *Device) rasterize(p *fakeProgram, count int) {
	if p.position == "" {
		return
	}
	posLoc := p.attribs[p.position]
	if !d.enabled[posLoc] {
		return
	}

	mvp := mgl32.Ident4()
	if p.mvp != "" {
		if m, ok := p.values[p.uniforms[p.mvp]].(mgl32.Mat4); ok {
			mvp = m
		}
	}
	tint := [3]float32{1, 1, 1}
	if p.tintColor != "" {
		if c, ok := p.values[p.uniforms[p.tintColor]].(common.Color3); ok {
			tint = [3]float32{c.R, c.G, c.B}
		}
	}
	colorLoc := gpu.AttribLocation(-1)
	if p.color != "" {
		colorLoc = p.attribs[p.color]
	}

	s := d.target()
	vw, vh := min(d.viewportW, s.w), min(d.viewportH, s.h)

	var tri [3]screenVertex
	for base := 0; base+3 <= count; base += 3 {
		visible := true
		for k := 0; k < 3; k++ {
			pos, _ := d.fetch(posLoc, base+k)
			v := mgl32.Vec4{0, 0, 0, 1}
			copy(v[:], pos)
			clip := mvp.Mul4x1(v)
			if clip.W() <= 0 {
				visible = false
				break
			}
			ndc := clip.Vec3().Mul(1 / clip.W())
			tri[k] = screenVertex{
				x:     (float64(ndc.X()) + 1) / 2 * float64(d.viewportW),
				y:     (float64(ndc.Y()) + 1) / 2 * float64(d.viewportH),
				z:     (float64(ndc.Z()) + 1) / 2,
				color: tint,
			}
			if c, ok := d.fetch(colorLoc, base+k); ok && len(c) >= 3 {
				tri[k].color = [3]float32{c[0], c[1], c[2]}
			}
		}
		if visible {
			fillTriangle(s, vw, vh, tri)
		}
	}
}

// fillTriangle scan-converts one triangle with barycentric coverage at pixel centers and a LESS depth test.
func fillTriangle(s *surface, vw, vh int, t [3]screenVertex) {
	x0, y0 := t[0].x, t[0].y
	x1, y1 := t[1].x, t[1].y
	x2, y2 := t[2].x, t[2].y

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if math.Abs(det) < 1e-12 {
		return
	}
	invDet := 1.0 / det

	minX := max(int(math.Floor(math.Min(math.Min(x0, x1), x2))), 0)
	maxX := min(int(math.Ceil(math.Max(math.Max(x0, x1), x2))), vw-1)
	minY := max(int(math.Floor(math.Min(math.Min(y0, y1), y2))), 0)
	maxY := min(int(math.Ceil(math.Max(math.Max(y0, y1), y2))), vh-1)

	for py := minY; py <= maxY; py++ {
		sy := float64(py) + 0.5
		for px := minX; px <= maxX; px++ {
			sx := float64(px) + 0.5
			w0 := ((y1-y2)*(sx-x2) + (x2-x1)*(sy-y2)) * invDet
			w1 := ((y2-y0)*(sx-x2) + (x0-x2)*(sy-y2)) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*t[0].z + w1*t[1].z + w2*t[2].z
			if z < 0 || z > 1 {
				continue
			}
			idx := py*s.w + px
			if float32(z) >= s.depth[idx] {
				continue
			}
			s.depth[idx] = float32(z)

			var rgb [3]float32
			for c := 0; c < 3; c++ {
				rgb[c] = float32(w0)*t[0].color[c] + float32(w1)*t[1].color[c] + float32(w2)*t[2].color[c]
			}
			i := idx * 4
			s.color[i] = quantize(rgb[0])
			s.color[i+1] = quantize(rgb[1])
			s.color[i+2] = quantize(rgb[2])
			s.color[i+3] = 255
		}
	}
}
