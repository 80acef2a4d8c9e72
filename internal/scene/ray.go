package scene

import (
	gomath "math"

	"github.com/Faultbox/rigsync/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transform maps the ray through m. The direction is not renormalized, so
// distances along the result are in m's units.
func (r Ray) Transform(m math.Mat4) Ray {
	return Ray{Origin: m.TransformPoint(r.Origin), Direction: m.TransformDirection(r.Direction)}
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two opposite corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a, Max: a}.Extend(b)
}

// IsEmpty reports whether the box has no volume and no extent.
func (b AABB) IsEmpty() bool {
	return b.Min == b.Max
}

// TransformAABB returns the world-space box enclosing box placed by m.
func TransformAABB(box AABB, m math.Mat4) AABB {
	origin := m.TransformPoint(box.Min)
	out := AABB{Min: origin, Max: origin}
	for i := 1; i < 8; i++ {
		corner := box.Min
		if i&1 != 0 {
			corner.X = box.Max.X
		}
		if i&2 != 0 {
			corner.Y = box.Max.Y
		}
		if i&4 != 0 {
			corner.Z = box.Max.Z
		}
		out = out.Extend(m.TransformPoint(corner))
	}
	return out
}

// Extend grows the box to contain p.
func (b AABB) Extend(p math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: gomath.Min(b.Min.X, p.X), Y: gomath.Min(b.Min.Y, p.Y), Z: gomath.Min(b.Min.Z, p.Z)},
		Max: math.Vec3{X: gomath.Max(b.Max.X, p.X), Y: gomath.Max(b.Max.Y, p.Y), Z: gomath.Max(b.Max.Z, p.Z)},
	}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float64, hit bool) {
	tmin := -gomath.MaxFloat64
	tmax := gomath.MaxFloat64

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectSphere tests ray intersection with a sphere. The ray direction
// must be normalized. If the ray starts inside, returns the exit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float64) (t float64, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sq := gomath.Sqrt(disc)
	t = -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectPlaneZ intersects a ray with a horizontal plane at the given Z
// level. Returns the intersection point and whether it is in front of the
// ray.
func (r Ray) IntersectPlaneZ(planeZ float64) (math.Vec3, bool) {
	if gomath.Abs(r.Direction.Z) < 0.001 {
		return math.Vec3{}, false // Ray parallel to plane
	}

	t := (planeZ - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return math.Vec3{}, false // Intersection behind ray origin
	}
	return r.At(t), true
}
