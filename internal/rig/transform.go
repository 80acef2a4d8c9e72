package rig

import "github.com/Faultbox/rigsync/pkg/math"

// Compose builds a body's world transform.
//
// Applied to a point, the steps run right to left:
// T(translation+pivot) · S(scale) · R(live) · R(offset) · T(-pivot),
// so scale and rotation are centred on pivot before the result is placed
// at translation. A zero scale is treated as unset and becomes 1.
func Compose(translation, pivot Vertex, scale float64, rotationOffset, rotationLive RotationAngle) math.Mat4 {
	if scale == 0 {
		scale = 1
	}

	toPlace := math.TranslateVec(translation.Add(pivot))
	scaled := math.UniformScale(scale)
	live := rotationLive.Matrix()
	offset := rotationOffset.Matrix()
	fromPivot := math.TranslateVec(pivot.Neg())

	return toPlace.Mul(scaled).Mul(live).Mul(offset).Mul(fromPivot)
}

// Transform composes the parameters with no live rotation.
func (p CalibrationParameters) Transform() math.Mat4 {
	return Compose(p.Translation, p.Pivot, p.Scale, p.RotationOffset, RotationAngle{})
}

// TransformWithPose composes the parameters with a live pose: the pose
// position is added to the translation and its rotation is the live term.
func (p CalibrationParameters) TransformWithPose(pose Pose) math.Mat4 {
	return Compose(p.Translation.Add(pose.GlobalPos), p.Pivot, p.Scale, p.RotationOffset, pose.GlobalRotation)
}

// FollowTransform is the transform of a body slaved to a pose, ignoring any
// calibration of its own.
func FollowTransform(pose Pose) math.Mat4 {
	return Compose(pose.GlobalPos, Vertex{}, 1, RotationAngle{}, pose.GlobalRotation)
}

// MovePoints rewrites every point of set through fn, keeping order.
func MovePoints[T Located[T]](set *PointSet[T], fn func(Vertex) Vertex) {
	pts := set.All()
	for i := range pts {
		pts[i] = pts[i].Moved(fn(pts[i].Position()))
	}
	set.ReplaceAll(pts)
}

// Located is a point kind with a rewritable world position.
type Located[T any] interface {
	Position() Vertex
	Moved(Vertex) T
}
