package scene

import (
	gomath "math"

	"github.com/Faultbox/rigsync/internal/rig"
	"github.com/Faultbox/rigsync/pkg/math"
)

// HitKind says what a pick landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitBody
	HitPoint
)

// Hit is the result of a pick.
type Hit struct {
	Kind     HitKind
	Body     rig.Body  // HitBody
	Points   PointKind // HitPoint
	Index    int       // HitPoint
	Distance float64
	Position rig.Vertex
}

// Pick returns the nearest body or point marker along ray. Bodies are
// tested against their shape bounds in model space, so rotated bodies
// pick exactly. Points are spheres of the scene's point radius.
func (s *Scene) Pick(ray Ray) (Hit, bool) {
	best := Hit{Distance: gomath.Inf(1)}

	for kind := PointKind(0); kind < pointKindCount; kind++ {
		for i, p := range s.points[kind] {
			t, ok := ray.IntersectSphere(p, s.pointRadius)
			if ok && t < best.Distance {
				best = Hit{Kind: HitPoint, Points: kind, Index: i, Distance: t, Position: ray.At(t)}
			}
		}
	}

	for _, b := range rig.Bodies {
		t, ok := s.pickBody(b, ray)
		// Points sit on bodies; a point marker wins a tie.
		if ok && t < best.Distance {
			best = Hit{Kind: HitBody, Body: b, Distance: t, Position: ray.At(t)}
		}
	}

	return best, best.Kind != HitNone
}

// firstSurface returns the distance to the nearest visible body along ray,
// ignoring skip.
func (s *Scene) firstSurface(ray Ray, skip rig.Body) (float64, bool) {
	best, found := gomath.Inf(1), false
	for _, b := range rig.Bodies {
		if b == skip {
			continue
		}
		if t, ok := s.pickBody(b, ray); ok && t >= 0 && t < best {
			best, found = t, true
		}
	}
	return best, found
}

func (s *Scene) pickBody(b rig.Body, ray Ray) (float64, bool) {
	d, ok := s.shown(b)
	if !ok || d.shape.IsEmpty() {
		return 0, false
	}
	bounds := NewAABB(d.shape.Min, d.shape.Max)
	if bounds.IsEmpty() {
		return 0, false
	}

	inv, err := d.transform.AffineInverse()
	if err != nil {
		return 0, false
	}
	local := ray.Transform(inv)
	t, ok := local.IntersectAABB(bounds)
	if !ok {
		return 0, false
	}

	// Back to world space for a distance comparable with other hits.
	world := d.transform.TransformPoint(local.At(t))
	return world.Sub(ray.Origin).Dot(ray.Direction), true
}

// PickDesk intersects ray with the desk's top surface plane and returns the
// world point, for placing new points.
func (s *Scene) PickDesk(ray Ray) (rig.Vertex, bool) {
	d := s.bodies[rig.Desk]
	if !d.ok {
		return ray.IntersectPlaneZ(0)
	}
	top := d.transform.TransformPoint(math.Vec3{Z: d.shape.Max.Z})
	return ray.IntersectPlaneZ(top.Z)
}
