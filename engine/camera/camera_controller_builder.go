package camera

import "github.com/Carmen-Shannon/oxy-hexpick/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithDistance sets the initial distance from the target.
//
// Parameters:
//   - d: distance from the target
//
// Returns:
//   - CameraControllerOption: functional option to set the distance
func WithDistance(d float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.distance = d
	}
}

// WithDistanceLimits sets the zoom limits.
//
// Parameters:
//   - minDistance: the closest the camera may get to the target
//   - maxDistance: the farthest the camera may get from the target
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom limits
func WithDistanceLimits(minDistance, maxDistance float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minDistance = minDistance
		cc.maxDistance = maxDistance
	}
}

// WithTilt sets the initial angle between the view direction and straight down.
//
// Parameters:
//   - tilt: tilt in radians (0 = top-down)
//
// Returns:
//   - CameraControllerOption: functional option to set the tilt
func WithTilt(tilt float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.tilt = tilt
	}
}

// WithTarget sets the look-at point.
//
// Parameters:
//   - target: the world-space target
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(target common.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
//
// Parameters:
//   - speed: multiplier for pan input
//
// Returns:
//   - CameraControllerOption: functional option to set the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}
