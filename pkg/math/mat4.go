package math

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a matrix has no usable inverse.
var ErrSingular = errors.New("singular matrix")

// Mat4 is a 4x4 affine matrix in column-major order.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// TranslateVec returns a translation matrix for v.
func TranslateVec(v Vec3) Mat4 {
	return Translate(v.X, v.Y, v.Z)
}

// Scale returns a scale matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// UniformScale returns a scale matrix with the same factor on every axis.
func UniformScale(s float64) Mat4 {
	return Scale(s, s, s)
}

// Perspective returns an OpenGL-style perspective projection matrix.
// fovY is in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovY/2.0)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAt returns a view matrix looking from eye to center with up direction.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Mul multiplies this matrix by another (m * other).
// Applied to a point, other acts first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformPoint transforms a point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// IsFinite reports whether no element is NaN or infinite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// maxCondition bounds the condition number accepted by Inverse and
// CheckAffine.
const maxCondition = 1e12

// minAffineScale is the smallest mean axis scale CheckAffine accepts.
const minAffineScale = 1e-9

// Inverse returns the inverse of the matrix, or ErrSingular when the matrix
// is singular or too ill-conditioned to invert reliably. Use AffineInverse
// for placements; this one also handles projections.
func (m Mat4) Inverse() (Mat4, error) {
	a := mat.NewDense(4, 4, nil)
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			a.Set(row, col, m[col*4+row])
		}
	}

	var lu mat.LU
	lu.Factorize(a)
	if err := checkLU(&lu); err != nil {
		return Identity(), err
	}

	var inv mat.Dense
	if err := lu.SolveTo(&inv, false, eye(4)); err != nil {
		return Identity(), fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] = inv.At(row, col)
		}
	}
	return result, nil
}

// CheckAffine returns ErrSingular when the rotation and scale block of an
// affine matrix cannot be inverted reliably. Translation plays no part.
func (m Mat4) CheckAffine() error {
	_, err := m.linearLU()
	return err
}

// AffineInverse inverts an affine matrix through its 3x3 linear block, so a
// large translation does not degrade the result.
func (m Mat4) AffineInverse() (Mat4, error) {
	lu, err := m.linearLU()
	if err != nil {
		return Identity(), err
	}

	var inv mat.Dense
	if err := lu.SolveTo(&inv, false, eye(3)); err != nil {
		return Identity(), fmt.Errorf("%w: %v", ErrSingular, err)
	}

	result := Identity()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			result[col*4+row] = inv.At(row, col)
		}
	}
	t := result.TransformDirection(m.Translation()).Neg()
	result[12], result[13], result[14] = t.X, t.Y, t.Z
	return result, nil
}

func (m Mat4) linearLU() (*mat.LU, error) {
	if !m.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite element", ErrSingular)
	}
	a := mat.NewDense(3, 3, nil)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			a.Set(row, col, m[col*4+row])
		}
	}

	lu := &mat.LU{}
	lu.Factorize(a)
	if err := checkLU(lu); err != nil {
		return nil, err
	}
	if s := math.Cbrt(math.Abs(lu.Det())); s < minAffineScale {
		return nil, fmt.Errorf("%w: scale %g", ErrSingular, s)
	}
	return lu, nil
}

func checkLU(lu *mat.LU) error {
	if det := lu.Det(); det == 0 || math.IsNaN(det) {
		return fmt.Errorf("%w: determinant %g", ErrSingular, det)
	}
	if cond := lu.Cond(); math.IsNaN(cond) || math.IsInf(cond, 1) || cond > maxCondition {
		return fmt.Errorf("%w: condition number %g", ErrSingular, cond)
	}
	return nil
}

func eye(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	return d
}
