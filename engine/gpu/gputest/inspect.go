package gputest

import (
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// LiveBuffers returns the number of buffers generated and not yet deleted.
func (d *Device) LiveBuffers() int { return len(d.buffers) }

// LivePrograms returns the number of linked programs not yet deleted.
func (d *Device) LivePrograms() int { return len(d.programs) }

// LiveShaders returns the number of compiled shaders not yet deleted.
func (d *Device) LiveShaders() int { return len(d.shaders) }

// LiveTextures returns the number of textures not yet deleted.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LiveFramebuffers returns the number of offscreen framebuffers not yet deleted.
func (d *Device) LiveFramebuffers() int { return len(d.framebuffers) }

// DoubleFrees lists every delete issued for a handle that was not live, e.g. "buffer 7".
func (d *Device) DoubleFrees() []string { return d.doubleFrees }

// Draws returns every draw issued so far.
func (d *Device) Draws() []Draw { return d.draws }

// Calls returns the call log, one entry per device call such as "BindBuffer 3".
func (d *Device) Calls() []string { return d.calls }

// ResetCalls clears the call and draw logs.
func (d *Device) ResetCalls() {
	d.calls = nil
	d.draws = nil
}

// Reads returns how many ReadPixel / ReadPixels calls were made.
func (d *Device) Reads() int { return d.reads }

// Closed reports whether Close was called.
func (d *Device) Closed() bool { return d.closed }

// BufferData returns the contents of a live buffer.
//
// Parameters:
//   - id: the buffer
//
// Returns:
//   - []float32: the uploaded floats
//   - bool: false if the buffer is not live
func (d *Device) BufferData(id gpu.BufferID) ([]float32, bool) {
	data, ok := d.buffers[id]
	return data, ok
}

// BoundBuffer returns the current array buffer.
func (d *Device) BoundBuffer() gpu.BufferID { return d.boundBuffer }

// BoundFramebuffer returns the current framebuffer.
func (d *Device) BoundFramebuffer() gpu.FramebufferID { return d.boundFB }

// CurrentProgram returns the program in use.
func (d *Device) CurrentProgram() gpu.ProgramID { return d.current }

// BoundTexture returns the texture bound on unit 0.
func (d *Device) BoundTexture() gpu.TextureID { return d.boundTexture }

// ViewportSize returns the current viewport size.
func (d *Device) ViewportSize() (int, int) { return d.viewportW, d.viewportH }

// AttribEnabled reports whether an attribute array is enabled.
func (d *Device) AttribEnabled(loc gpu.AttribLocation) bool { return d.enabled[loc] }

// AttribSource returns the buffer and component count an attribute slot was last pointed at.
//
// Parameters:
//   - loc: the attribute slot
//
// Returns:
//   - gpu.BufferID: the source buffer
//   - int: components per vertex
//   - bool: false if the slot was never pointed
func (d *Device) AttribSource(loc gpu.AttribLocation) (gpu.BufferID, int, bool) {
	ptr, ok := d.pointers[loc]
	return ptr.buffer, ptr.components, ok
}

// UniformMatrix returns the last matrix uploaded to a program's named uniform.
//
// Parameters:
//   - p: the program
//   - name: the uniform name
//
// Returns:
//   - [16]float32: the column-major matrix
//   - bool: false if nothing was uploaded
func (d *Device) UniformMatrix(p gpu.ProgramID, name string) ([16]float32, bool) {
	prog, ok := d.programs[p]
	if !ok {
		return [16]float32{}, false
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		return [16]float32{}, false
	}
	m, ok := prog.values[loc].(mgl32.Mat4)
	return m, ok
}

// Pixel reads one pixel of a framebuffer without touching the binding or the read counter.
// The origin is bottom-left.
//
// Parameters:
//   - fb: the framebuffer, or gpu.DefaultFramebuffer for the screen
//   - x, y: the pixel
//
// Returns:
//   - [4]byte: RGBA, zero if fb is unknown or the pixel is out of range
func (d *Device) Pixel(fb gpu.FramebufferID, x, y int) [4]byte {
	if fb == gpu.DefaultFramebuffer {
		return d.screen.at(x, y)
	}
	s, ok := d.framebuffers[fb]
	if !ok {
		return [4]byte{}
	}
	return s.at(x, y)
}

// ResizeScreen emulates a window resize by reallocating the default framebuffer.
//
// Parameters:
//   - w, h: the new size
func (d *Device) ResizeScreen(w, h int) {
	d.screen = newSurface(w, h)
}

// ScreenSize returns the default framebuffer size.
func (d *Device) ScreenSize() (int, int) { return d.screen.w, d.screen.h }
