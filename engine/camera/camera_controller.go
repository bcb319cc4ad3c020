package camera

import "github.com/Carmen-Shannon/oxy-hexpick/common"

// CameraController defines the interface for a map camera control system.
// Controllers own positional state: a target on the z = 0 map plane, a distance from it and a tilt away
// from straight down. Camera reads from the controller and computes view/projection matrices.
type CameraController interface {
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target position
	Target() common.Vec3

	// SetTarget sets the look-at point and recomputes position.
	//
	// Parameters:
	//   - target: world-space coordinates; the camera keeps looking at the map plane from its distance and tilt
	SetTarget(target common.Vec3)

	// Distance returns the current distance from the target.
	//
	// Returns:
	//   - float32: the distance
	Distance() float32

	// SetDistance sets the distance from the target, clamped to [MinDistance, MaxDistance].
	//
	// Parameters:
	//   - d: the distance
	SetDistance(d float32)

	// MinDistance returns the minimum allowed distance.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinDistance() float32

	// MaxDistance returns the maximum allowed distance.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxDistance() float32

	// Tilt returns the angle between the view direction and straight down, in radians.
	//
	// Returns:
	//   - float32: the tilt
	Tilt() float32

	// SetTilt sets the tilt, clamped to [0, MaxTilt].
	//
	// Parameters:
	//   - tilt: the tilt in radians
	SetTilt(tilt float32)

	// Zoom adjusts the distance. Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32

	// FrameBounds centers the target on a box and moves back until the box fills the view, leaving a margin.
	// MaxDistance grows if the box needs more room.
	//
	// Parameters:
	//   - lo, hi: the box corners on the map plane
	//   - fovY: the camera's vertical field of view in radians
	//   - aspect: the camera's aspect ratio
	FrameBounds(lo, hi common.Vec3, fovY, aspect float32)
}

// planarCameraController defines planar translation control methods.
// Panning shifts both position and target by the same offset along the map plane.
type planarCameraController interface {
	// PanRight translates the camera along the map's X axis.
	// Positive delta moves right, negative moves left.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanRight(delta float32)

	// PanUp translates the camera along the map's Y axis.
	// Positive delta moves up, negative moves down.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanUp(delta float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32
}
