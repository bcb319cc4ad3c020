package window

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
)

// Window provides platform windowing, an OpenGL context and input event handling.
// Wraps platform-specific window implementations with a common interface.
//
// A Window and everything drawn through its context belong to the goroutine that created it: creation locks
// that goroutine to its OS thread.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetLeftClickCallback sets the callback for left mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the cursor in framebuffer pixels, origin top-left
	SetLeftClickCallback(callback func(pos common.CursorPos))

	// SetMiddleMouseDownCallback sets the callback for middle mouse button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor in framebuffer pixels
	SetMiddleMouseDownCallback(callback func(pos common.CursorPos))

	// SetMiddleMouseUpCallback sets the callback for middle mouse button release.
	//
	// Parameters:
	//   - callback: function receiving the cursor in framebuffer pixels
	SetMiddleMouseUpCallback(callback func(pos common.CursorPos))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor in framebuffer pixels
	SetMouseMoveCallback(callback func(pos common.CursorPos))

	// CursorPos returns the current cursor position in framebuffer pixels, origin top-left.
	//
	// Returns:
	//   - common.CursorPos: the cursor position
	CursorPos() common.CursorPos

	// ProcAddress returns the entry point loader of the window's OpenGL context, for gpu.NewDevice.
	//
	// Returns:
	//   - gpu.ProcAddressFunc: the loader
	ProcAddress() gpu.ProcAddressFunc

	// SwapBuffers presents the back buffer.
	SwapBuffers()

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Size returns the current framebuffer size in pixels.
	//
	// Returns:
	//   - common.Size2: the framebuffer size
	Size() common.Size2
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minSize and maxSize bound interactive resizing; a zero maxSize axis is unbounded.
	minSize common.Size2
	maxSize common.Size2

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// hidden creates the window invisible, for offscreen tools.
	hidden bool

	// vsync waits for the display refresh on SwapBuffers.
	vsync bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate          func()
	onResize          func(width, height int)
	onScroll          func(delta float32)
	onKeyDown         func(keyCode uint32)
	onKeyUp           func(keyCode uint32)
	onLeftClick       func(pos common.CursorPos)
	onMiddleMouseDown func(pos common.CursorPos)
	onMiddleMouseUp   func(pos common.CursorPos)
	onMouseMove       func(pos common.CursorPos)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options and makes its OpenGL context current.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window or context cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:   "Default Window Title",
		minSize: common.Size2{W: 320, H: 200},
		width:   1280,
		height:  720,
		vsync:   true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	common.Logger().Info("window: created", "title", w.title, "width", w.width, "height", w.height, "hidden", w.hidden)
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetLeftClickCallback(callback func(pos common.CursorPos)) {
	w.onLeftClick = callback
}

func (w *engineWindow) SetMiddleMouseDownCallback(callback func(pos common.CursorPos)) {
	w.onMiddleMouseDown = callback
}

func (w *engineWindow) SetMiddleMouseUpCallback(callback func(pos common.CursorPos)) {
	w.onMiddleMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(pos common.CursorPos)) {
	w.onMouseMove = callback
}

func (w *engineWindow) CursorPos() common.CursorPos {
	return platformCursorPos(w)
}

func (w *engineWindow) ProcAddress() gpu.ProcAddressFunc {
	return platformProcAddress()
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Size() common.Size2 {
	return common.Size2{W: w.width, H: w.height}
}

// sizeLimit maps a zero axis to GLFW's "don't care" value.
func sizeLimit(v, dontCare int) int {
	if v <= 0 {
		return dontCare
	}
	return v
}

// scaleCursor converts window coordinates to framebuffer pixels. The two differ on high-DPI displays.
//
// Parameters:
//   - x, y: the cursor in window coordinates
//   - winW, winH: the window size in screen coordinates
//   - fbW, fbH: the framebuffer size in pixels
//
// Returns:
//   - common.CursorPos: the cursor in framebuffer pixels
func scaleCursor(x, y float64, winW, winH, fbW, fbH int) common.CursorPos {
	if winW <= 0 || winH <= 0 {
		return common.CursorPos{X: x, Y: y}
	}
	return common.CursorPos{
		X: x * float64(fbW) / float64(winW),
		Y: y * float64(fbH) / float64(winH),
	}
}
