package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/go-gl/mathgl/mgl32"
)

func nearVec(a, b common.Vec3, eps float32) bool {
	return a.ApproxEqualThreshold(b, eps)
}

// project maps a world point to window coordinates with a top-left origin.
func project(c Camera, p common.Vec3, w, h int) (common.CursorPos, bool) {
	clip := mgl32.Mat4(c.ViewProjectionMatrix()).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return common.CursorPos{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	return common.CursorPos{
		X: float64((ndc.X() + 1) / 2 * float32(w)),
		Y: float64(h) - float64((ndc.Y()+1)/2*float32(h)),
	}, true
}

func TestCameraWithoutControllerIsIdentity(t *testing.T) {
	c := NewCamera()
	if c.ViewProjectionMatrix() != mgl32.Ident4() {
		t.Errorf("ViewProjectionMatrix() = %v, want identity", c.ViewProjectionMatrix())
	}
	c.Update()
	if c.Controller() != nil {
		t.Error("Controller() != nil")
	}
}

func TestViewProjectionIsProjectionTimesView(t *testing.T) {
	cc := NewCameraController(WithTarget(common.Vec3{3, 2, 0}), WithDistance(12), WithTilt(0.4))
	c := NewCamera(WithController(cc), WithAspect(1.5))

	want := mgl32.Mat4(c.ProjectionMatrix()).Mul4(mgl32.Mat4(c.ViewMatrix()))
	if !mgl32.Mat4(c.ViewProjectionMatrix()).ApproxEqual(want) {
		t.Errorf("ViewProjectionMatrix() = %v, want %v", c.ViewProjectionMatrix(), want)
	}
}

func TestTopDownCameraCentersTarget(t *testing.T) {
	target := common.Vec3{4, -2, 0}
	c := NewCamera(WithController(NewCameraController(WithTarget(target), WithDistance(20))))

	pos, ok := project(c, target, 200, 100)
	if !ok || math.Abs(pos.X-100) > 1e-3 || math.Abs(pos.Y-50) > 1e-3 {
		t.Errorf("project(target) = %v, %v, want window center", pos, ok)
	}

	// +X is right and +Y is up on screen
	right, _ := project(c, target.Add(common.Vec3{1, 0, 0}), 200, 100)
	up, _ := project(c, target.Add(common.Vec3{0, 1, 0}), 200, 100)
	if right.X <= pos.X || up.Y >= pos.Y {
		t.Errorf("right = %v, up = %v relative to %v", right, up, pos)
	}
}

func TestUnproject(t *testing.T) {
	window := common.Size2{W: 320, H: 240}
	cc := NewCameraController(WithTarget(common.Vec3{5, 5, 0}), WithDistance(15), WithTilt(0.5))
	c := NewCamera(WithController(cc), WithAspect(320.0/240.0), WithFar(100))

	for _, p := range []common.Vec3{{5, 5, 0}, {6, 4.5, 0}, {3.5, 7, 0}} {
		cursor, ok := project(c, p, window.W, window.H)
		if !ok {
			t.Fatalf("project(%v) behind camera", p)
		}
		got, ok := c.Unproject(cursor, window)
		if !ok || !nearVec(got, p, 1e-2) {
			t.Errorf("Unproject(project(%v)) = %v, %v", p, got, ok)
		}
	}

	if _, ok := c.Unproject(common.CursorPos{X: 1, Y: 1}, common.Size2{}); ok {
		t.Error("Unproject with an empty window succeeded")
	}
}

func TestControllerClamps(t *testing.T) {
	cc := NewCameraController(WithDistance(5), WithDistanceLimits(2, 8), WithZoomSpeed(1))

	cc.Zoom(10)
	if cc.Distance() != 2 {
		t.Errorf("Distance() = %v after zooming in past the limit, want 2", cc.Distance())
	}
	cc.Zoom(-100)
	if cc.Distance() != 8 {
		t.Errorf("Distance() = %v after zooming out past the limit, want 8", cc.Distance())
	}
	cc.SetDistance(4)
	if p := cc.Position(); !nearVec(p, common.Vec3{0, 0, 4}, 1e-5) {
		t.Errorf("Position() = %v, want (0, 0, 4)", p)
	}

	cc.SetTilt(-1)
	if cc.Tilt() != 0 {
		t.Errorf("Tilt() = %v, want 0", cc.Tilt())
	}
	cc.SetTilt(10)
	if cc.Tilt() > float32(math.Pi/3)+1e-6 {
		t.Errorf("Tilt() = %v, want clamped", cc.Tilt())
	}
}

func TestControllerPan(t *testing.T) {
	cc := NewCameraController(WithPanSpeed(2))
	before := cc.Position()
	cc.PanRight(1)
	cc.PanUp(-0.5)

	if got := cc.Target(); !nearVec(got, common.Vec3{2, -1, 0}, 1e-6) {
		t.Errorf("Target() = %v, want (2, -1, 0)", got)
	}
	if got := cc.Position().Sub(before); !nearVec(got, common.Vec3{2, -1, 0}, 1e-6) {
		t.Errorf("position moved by %v, want (2, -1, 0)", got)
	}
}

func TestFrameBounds(t *testing.T) {
	lo, hi := common.Vec3{-1, -1, 0}, common.Vec3{40, 20, 0}
	for _, tilt := range []float32{0, 0.6} {
		cc := NewCameraController(WithTilt(tilt), WithDistanceLimits(1, 10))
		c := NewCamera(WithController(cc), WithAspect(4.0/3.0))
		cc.FrameBounds(lo, hi, c.Fov(), c.Aspect())
		c.Update()

		if cc.MaxDistance() < cc.Distance() {
			t.Errorf("tilt %v: Distance() = %v exceeds MaxDistance() = %v", tilt, cc.Distance(), cc.MaxDistance())
		}
		for _, corner := range []common.Vec3{lo, hi, {lo.X(), hi.Y(), 0}, {hi.X(), lo.Y(), 0}} {
			pos, ok := project(c, corner, 400, 300)
			if !ok || pos.X < 0 || pos.X > 400 || pos.Y < 0 || pos.Y > 300 {
				t.Errorf("tilt %v: corner %v projects to %v, %v, want inside the window", tilt, corner, pos, ok)
			}
		}
	}
}
