package window

import "github.com/Carmen-Shannon/oxy-hexpick/common"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window width and height.
//
// Parameters:
//   - size: initial size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(size common.Size2) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = size.W
		w.height = size.H
	}
}

// WithSizeLimits bounds interactive resizing. A zero axis in maxSize leaves that axis unbounded.
//
// Parameters:
//   - minSize: the smallest allowed size in pixels
//   - maxSize: the largest allowed size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minSize, maxSize common.Size2) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minSize = minSize
		w.maxSize = maxSize
	}
}

// WithHidden creates the window invisible. Used by tools that only render offscreen.
//
// Parameters:
//   - hidden: true to hide the window
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHidden(hidden bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.hidden = hidden
	}
}

// WithVSync toggles waiting for the display refresh on SwapBuffers.
//
// Parameters:
//   - vsync: true to synchronize with the display
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVSync(vsync bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.vsync = vsync
	}
}
