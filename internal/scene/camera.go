package scene

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/rigsync/internal/rig"
	"github.com/Faultbox/rigsync/pkg/math"
)

// OrbitCamera orbits a center point in the rig's Z-up world.
type OrbitCamera struct {
	Center math.Vec3

	Distance float64
	Pitch    float64 // elevation above the desk plane, radians
	Yaw      float64 // around +Z, radians; zero looks along +Y

	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	DragSensitivity float64
	ZoomSensitivity float64

	FovY      float64 // radians
	Near, Far float64
}

// NewOrbitCamera creates an orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        500,
		Pitch:           0.6,
		MinDistance:     10,
		MaxDistance:     10000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            gomath.Pi / 4,
		Near:            0.1,
		Far:             20000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	// Start behind the center on -Y, tilt up by pitch, then swing by yaw.
	yaw := math.QuatFromAxisAngle(math.Vec3{Z: 1}, c.Yaw)
	pitch := math.QuatFromAxisAngle(math.Vec3{X: 1}, -c.Pitch)
	return c.Center.Add(yaw.Mul(pitch).Rotate(math.Vec3{Y: -c.Distance}))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Z: 1})
}

// ProjectionMatrix returns the perspective projection for a viewport of the
// given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float64) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(dx, dy float64) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(box AABB) {
	c.Center = box.Min.Add(box.Max).Scale(0.5)
	radius := box.Max.Sub(box.Min).Length() / 2
	c.Distance = clamp(radius/gomath.Sin(c.FovY/2), c.MinDistance, c.MaxDistance)
}

// ScreenToRay converts a pixel position in a viewport of w by h pixels into
// a world-space pick ray starting on the near plane.
func (c *OrbitCamera) ScreenToRay(x, y, w, h float64) (Ray, error) {
	if w <= 0 || h <= 0 {
		return Ray{}, fmt.Errorf("invalid viewport %vx%v", w, h)
	}
	viewProj := c.ProjectionMatrix(w / h).Mul(c.ViewMatrix())
	inv, err := viewProj.Inverse()
	if err != nil {
		return Ray{}, fmt.Errorf("camera unprojection: %w", err)
	}

	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h // screen Y grows downwards

	near := inv.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := inv.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})
	return NewRay(near, far.Sub(near)), nil
}

// Bounds returns the world-space box around every drawn body shape and
// point marker. ok is false when nothing with extent has been drawn.
func (s *Scene) Bounds() (box AABB, ok bool) {
	add := func(b AABB) {
		if !ok {
			box, ok = b, true
			return
		}
		box = box.Extend(b.Min).Extend(b.Max)
	}

	for _, b := range rig.Bodies {
		d, shown := s.shown(b)
		if !shown || d.shape.IsEmpty() {
			continue
		}
		add(TransformAABB(NewAABB(d.shape.Min, d.shape.Max), d.transform))
	}
	r := math.Vec3{X: s.pointRadius, Y: s.pointRadius, Z: s.pointRadius}
	for _, pts := range s.points {
		for _, p := range pts {
			add(AABB{Min: p.Sub(r), Max: p.Add(r)})
		}
	}
	return box, ok
}

func clamp(v, lo, hi float64) float64 {
	return gomath.Max(lo, gomath.Min(hi, v))
}
