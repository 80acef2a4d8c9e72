package math

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// DegToRad converts degrees to radians.
const DegToRad = math.Pi / 180

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	halfAngle := angle / 2
	s := math.Sin(halfAngle)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(halfAngle),
	}
}

// QuatFromEulerXYZ creates a quaternion from extrinsic XYZ Euler angles in
// radians: a rotation about the fixed X axis, then fixed Y, then fixed Z.
func QuatFromEulerXYZ(alpha, beta, gamma float64) Quat {
	qx := QuatFromAxisAngle(Vec3{X: 1}, alpha)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, beta)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, gamma)
	return qz.Mul(qy).Mul(qx)
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := quat.Abs(q.number())
	if length < 1e-12 {
		return QuatIdentity()
	}
	return fromNumber(quat.Scale(1/length, q.number()))
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations, other applied first).
func (q Quat) Mul(other Quat) Quat {
	return fromNumber(quat.Mul(q.number(), other.number()))
}

// Rotate applies the rotation to a vector as q·v·q*.
func (q Quat) Rotate(v Vec3) Vec3 {
	n := q.Normalize().number()
	r := quat.Mul(quat.Mul(n, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(n))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

func (q Quat) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromNumber(n quat.Number) Quat {
	return Quat{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	// Normalize first
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
