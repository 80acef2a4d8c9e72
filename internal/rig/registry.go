package rig

import (
	"fmt"

	"github.com/Faultbox/rigsync/pkg/math"
)

// slot is the registry entry for one body. calibrated and transform are
// recomputed on every write, never on read.
type slot struct {
	params CalibrationParameters
	shape  Shape

	live    Pose // last device pose, laser head and gripper only
	hasLive bool

	follow    Pose // pose the body is slaved to, part only
	following bool

	calibrated math.Mat4
	transform  math.Mat4
}

// Registry owns the calibration parameters and cached world transforms of
// every body.
type Registry struct {
	slots [bodyCount]slot
}

// NewRegistry creates a registry with every body at the identity placement.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, b := range Bodies {
		r.slots[b].params.Scale = 1
		r.recompute(b)
	}
	return r
}

// Calibration returns the body's calibration parameters. An unknown body
// reads as the identity placement.
func (r *Registry) Calibration(b Body) CalibrationParameters {
	if !b.Valid() {
		return CalibrationParameters{Scale: 1}
	}
	return r.slots[b].params
}

// SetCalibration replaces the body's parameters and recomputes its transform.
func (r *Registry) SetCalibration(b Body, params CalibrationParameters) {
	if !b.Valid() {
		return
	}
	r.slots[b].params = params
	r.recompute(b)
}

// Transform returns the body's current world transform.
func (r *Registry) Transform(b Body) math.Mat4 {
	if !b.Valid() {
		return math.Identity()
	}
	return r.slots[b].transform
}

// CalibratedTransform returns the transform implied by the body's
// calibration and live pose, ignoring any follow pose.
func (r *Registry) CalibratedTransform(b Body) math.Mat4 {
	if !b.Valid() {
		return math.Identity()
	}
	return r.slots[b].calibrated
}

// CalibratedTransformFor returns what CalibratedTransform would be if the
// body's parameters were params. Nothing is stored.
func (r *Registry) CalibratedTransformFor(b Body, params CalibrationParameters) math.Mat4 {
	if !b.Valid() {
		return params.Transform()
	}
	if s := &r.slots[b]; s.hasLive {
		return params.TransformWithPose(s.live)
	}
	return params.Transform()
}

// Shape returns the body's geometry descriptor.
func (r *Registry) Shape(b Body) Shape {
	if !b.Valid() {
		return Shape{}
	}
	return r.slots[b].shape
}

// SetShape attaches geometry to the body.
func (r *Registry) SetShape(b Body, shape Shape) {
	if !b.Valid() {
		return
	}
	r.slots[b].shape = shape
}

// LiveFeedback returns the last device pose of the body, if any.
func (r *Registry) LiveFeedback(b Body) (Pose, bool) {
	if !b.Valid() {
		return Pose{}, false
	}
	s := &r.slots[b]
	return s.live, s.hasLive
}

// SetLiveFeedback stores a device pose for the laser head or the gripper.
func (r *Registry) SetLiveFeedback(b Body, pose Pose) error {
	if !b.HasLiveFeedback() {
		return fmt.Errorf("%w: %s", ErrNoLiveFeedback, b)
	}
	s := &r.slots[b]
	s.live = pose
	s.hasLive = true
	r.recompute(b)
	return nil
}

// Follow slaves the part's transform to pose.
func (r *Registry) Follow(pose Pose) {
	s := &r.slots[Part]
	s.follow = pose
	s.following = true
	r.recompute(Part)
}

// Unfollow returns the part to its calibrated transform.
func (r *Registry) Unfollow() {
	s := &r.slots[Part]
	s.following = false
	s.follow = Pose{}
	r.recompute(Part)
}

// Following reports whether the part is slaved to a pose.
func (r *Registry) Following() bool {
	return r.slots[Part].following
}

func (r *Registry) recompute(b Body) {
	s := &r.slots[b]
	s.calibrated = r.CalibratedTransformFor(b, s.params)
	if s.following {
		s.transform = FollowTransform(s.follow)
		return
	}
	s.transform = s.calibrated
}
