// Package rig keeps the bodies of a laser/drill rig placed in world space
// and keeps user points consistent when a body is recalibrated, moved by
// device feedback, or corrected from a vision snapshot.
package rig

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/Faultbox/rigsync/pkg/math"
)

// Vertex is a world-space position.
type Vertex = math.Vec3

// RotationAngle holds extrinsic XYZ Euler angles in degrees.
type RotationAngle struct {
	X, Y, Z float64
}

// Quat returns the rotation as a quaternion.
func (r RotationAngle) Quat() math.Quat {
	return math.QuatFromEulerXYZ(r.X*math.DegToRad, r.Y*math.DegToRad, r.Z*math.DegToRad)
}

// Matrix returns the rotation as a 4x4 matrix.
func (r RotationAngle) Matrix() math.Mat4 {
	return r.Quat().ToMat4()
}

// TaskType is the action the rig performs at a task point.
type TaskType int

const (
	TaskMove TaskType = iota
	TaskDrill
	TaskMark
)

func (t TaskType) String() string {
	switch t {
	case TaskMove:
		return "move"
	case TaskDrill:
		return "drill"
	case TaskMark:
		return "mark"
	default:
		return fmt.Sprintf("TaskType(%d)", int(t))
	}
}

// ParseTaskType parses a task type name as printed by String.
func ParseTaskType(name string) (TaskType, error) {
	switch name {
	case "move":
		return TaskMove, nil
	case "drill":
		return TaskDrill, nil
	case "mark":
		return TaskMark, nil
	}
	return 0, fmt.Errorf("unknown task type %q", name)
}

// CalibrationPoint pairs a world position with the same physical point in
// the device's native frame.
type CalibrationPoint struct {
	GlobalPos Vertex
	DevicePos Vertex
}

// TaskPoint is one step of the rig's job. Order is execution order.
type TaskPoint struct {
	Type      TaskType
	GlobalPos Vertex
	Angle     RotationAngle
	Normal    Vertex
}

// HomePoint is the rig's return position. At most one exists.
type HomePoint struct {
	GlobalPos Vertex
	Normal    Vertex
}

// Position and Moved let propagation rewrite any point kind generically.

func (p CalibrationPoint) Position() Vertex { return p.GlobalPos }
func (p TaskPoint) Position() Vertex { return p.GlobalPos }
func (p HomePoint) Position() Vertex { return p.GlobalPos }

func (p CalibrationPoint) Moved(v Vertex) CalibrationPoint {
	p.GlobalPos = v
	return p
}

func (p TaskPoint) Moved(v Vertex) TaskPoint {
	p.GlobalPos = v
	return p
}

func (p HomePoint) Moved(v Vertex) HomePoint {
	p.GlobalPos = v
	return p
}

// CalibrationParameters place a body's model in world space.
type CalibrationParameters struct {
	Translation    Vertex        `yaml:"translation"`
	Pivot          Vertex        `yaml:"pivot"`
	Scale          float64       `yaml:"scale"` // 0 means unset and behaves as 1
	RotationOffset RotationAngle `yaml:"rotation_offset"`
}

// Pose is a live position report from the device.
type Pose struct {
	GlobalPos      Vertex
	GlobalRotation RotationAngle
}

// Equal reports whether both poses match within the given tolerances.
// Every coordinate is compared on its own.
func (p Pose) Equal(other Pose, distEps, angleEps float64) bool {
	return scalar.EqualWithinAbs(p.GlobalPos.X, other.GlobalPos.X, distEps) &&
		scalar.EqualWithinAbs(p.GlobalPos.Y, other.GlobalPos.Y, distEps) &&
		scalar.EqualWithinAbs(p.GlobalPos.Z, other.GlobalPos.Z, distEps) &&
		scalar.EqualWithinAbs(p.GlobalRotation.X, other.GlobalRotation.X, angleEps) &&
		scalar.EqualWithinAbs(p.GlobalRotation.Y, other.GlobalRotation.Y, angleEps) &&
		scalar.EqualWithinAbs(p.GlobalRotation.Z, other.GlobalRotation.Z, angleEps)
}

// BodyState is the device's grip state.
type BodyState int

const (
	StateFalling BodyState = iota
	StateNotAttached
	StateAttached
)

func (s BodyState) String() string {
	switch s {
	case StateFalling:
		return "falling"
	case StateNotAttached:
		return "not-attached"
	case StateAttached:
		return "attached"
	default:
		return fmt.Sprintf("BodyState(%d)", int(s))
	}
}

// CalibResult is the device's verdict on the current calibration.
type CalibResult int

const (
	CalibOK CalibResult = iota
	CalibFalling
)

func (r CalibResult) String() string {
	if r == CalibOK {
		return "ok"
	}
	return "falling"
}

// Shape describes a body's source geometry. Bounds are in model space.
type Shape struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Min    Vertex `yaml:"min"`
	Max    Vertex `yaml:"max"`
}

// IsEmpty reports whether no geometry is attached.
func (s Shape) IsEmpty() bool {
	return s.Name == "" && s.Source == "" && s.Min.IsZero() && s.Max.IsZero()
}
