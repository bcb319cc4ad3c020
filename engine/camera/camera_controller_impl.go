package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/go-gl/mathgl/mgl32"
)

// frameMargin is the extra room FrameBounds leaves around the framed box.
const frameMargin = 1.1

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// position is derived from target, distance and tilt
	position common.Vec3
	target   common.Vec3

	distance float32
	tilt     float32

	minDistance float32
	maxDistance float32
	maxTilt     float32

	zoomSpeed float32
	panSpeed  float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new map camera controller looking straight down at the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		distance: 10.0,
		tilt:     0,

		minDistance: 1.0,
		maxDistance: 500.0,
		maxTilt:     float32(math.Pi/3),

		zoomSpeed: 1.0,
		panSpeed:  1.0,
	}

	for _, option := range options {
		option(cc)
	}

	cc.distance = mgl32.Clamp(cc.distance, cc.minDistance, cc.maxDistance)
	cc.tilt = mgl32.Clamp(cc.tilt, 0, cc.maxTilt)
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from target, distance and tilt.
// The camera leans back along -Y as it tilts so "up" on screen stays +Y.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sin, cos := math.Sincos(float64(cc.tilt))
	cc.position = cc.target.Add(common.Vec3{
		0,
		-cc.distance * float32(sin),
		cc.distance * float32(cos),
	})
}

func (cc *cameraControllerImpl) Position() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Distance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.distance
}

func (cc *cameraControllerImpl) SetDistance(d float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.distance = mgl32.Clamp(d, cc.minDistance, cc.maxDistance)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinDistance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minDistance
}

func (cc *cameraControllerImpl) MaxDistance() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxDistance
}

func (cc *cameraControllerImpl) Tilt() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.tilt
}

func (cc *cameraControllerImpl) SetTilt(tilt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.tilt = mgl32.Clamp(tilt, 0, cc.maxTilt)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.distance = mgl32.Clamp(cc.distance-delta*cc.zoomSpeed, cc.minDistance, cc.maxDistance)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

func (cc *cameraControllerImpl) FrameBounds(lo, hi common.Vec3, fovY, aspect float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	center := lo.Add(hi).Mul(0.5)
	center[2] = 0
	halfW := (hi.X() - lo.X()) / 2
	halfH := (hi.Y() - lo.Y()) / 2
	tan := float32(math.Tan(float64(fovY) / 2))
	if tan <= 0 || aspect <= 0 {
		return
	}

	d := max(halfH, halfW/aspect) / tan * frameMargin
	// the near half of the box sits closer to the camera when tilted
	d += max(halfH, halfW) * float32(math.Sin(float64(cc.tilt)))
	if d > cc.maxDistance {
		cc.maxDistance = d
	}
	cc.target = center
	cc.distance = mgl32.Clamp(d, cc.minDistance, cc.maxDistance)
	cc.updatePosition()
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target[0] += delta * cc.panSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target[1] += delta * cc.panSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}
