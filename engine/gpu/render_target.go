package gpu

import (
	"fmt"
	"image"
)

// RenderTarget is an offscreen framebuffer with its own color and depth attachments.
// Drawing into it leaves the window's default framebuffer untouched.
type RenderTarget interface {
	// Bind makes this target the draw and read framebuffer and sets the viewport to its size.
	// Call Unbind when done to restore the default framebuffer.
	Bind()

	// Unbind restores the default framebuffer and a viewport of the given window size.
	//
	// Parameters:
	//   - w, h: the window framebuffer size to restore
	Unbind(w, h int)

	// Size returns the dimensions of this render target.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Resize recreates the attachments at a new size. Contents are lost.
	//
	// Parameters:
	//   - w, h: the new size in pixels
	//
	// Returns:
	//   - error: an error if the new framebuffer cannot be created
	Resize(w, h int) error

	// Snapshot binds the target and reads its full contents, top row first. The target stays bound.
	//
	// Returns:
	//   - *image.RGBA: the pixels
	Snapshot() *image.RGBA

	// Close releases the framebuffer. It is safe to call more than once.
	Close()
}

type renderTarget struct {
	device Device
	id     FramebufferID
	width  int
	height int
	closed bool
}

var _ RenderTarget = &renderTarget{}

// NewRenderTarget creates an offscreen render target.
//
// Parameters:
//   - d: the device
//   - w, h: size in pixels
//
// Returns:
//   - RenderTarget: the target
//   - error: an error if the size is invalid or the framebuffer is incomplete
func NewRenderTarget(d Device, w, h int) (RenderTarget, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gpu: invalid render target size: %dx%d", w, h)
	}
	id, err := d.CreateFramebuffer(w, h)
	if err != nil {
		return nil, fmt.Errorf("gpu: create render target: %w", err)
	}
	return &renderTarget{device: d, id: id, width: w, height: h}, nil
}

func (rt *renderTarget) Bind() {
	if rt.closed {
		panic("gpu: Bind on closed render target")
	}
	rt.device.BindFramebuffer(rt.id)
	rt.device.Viewport(rt.width, rt.height)
}

func (rt *renderTarget) Unbind(w, h int) {
	rt.device.BindFramebuffer(DefaultFramebuffer)
	rt.device.Viewport(w, h)
}

func (rt *renderTarget) Size() (int, int) {
	return rt.width, rt.height
}

func (rt *renderTarget) Resize(w, h int) error {
	if w == rt.width && h == rt.height && !rt.closed {
		return nil
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("gpu: invalid render target size: %dx%d", w, h)
	}
	id, err := rt.device.CreateFramebuffer(w, h)
	if err != nil {
		return fmt.Errorf("gpu: resize render target: %w", err)
	}
	if !rt.closed {
		rt.device.DeleteFramebuffer(rt.id)
	}
	rt.id, rt.width, rt.height, rt.closed = id, w, h, false
	return nil
}

func (rt *renderTarget) Snapshot() *image.RGBA {
	rt.Bind()
	return rt.device.ReadPixels(0, 0, rt.width, rt.height)
}

func (rt *renderTarget) Close() {
	if rt.closed {
		return
	}
	rt.closed = true
	rt.device.DeleteFramebuffer(rt.id)
}
