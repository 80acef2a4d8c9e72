package rig

import (
	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/logger"
)

// OnLaserHeadFeedback applies a laser head pose from the device. Poses
// within the feedback tolerances of the last applied one are dropped.
// It reports whether the pose was applied.
func (e *Engine) OnLaserHeadFeedback(pose Pose) bool {
	if last, ok := e.bodies.LiveFeedback(LaserHead); ok && pose.Equal(last, e.distEps, e.angleEps) {
		return false
	}
	// LaserHead always accepts live feedback.
	_ = e.bodies.SetLiveFeedback(LaserHead, pose)
	e.emitTransform(LaserHead)
	return true
}

// OnGripperFeedback applies a gripper pose from the device. While the part
// is attached it follows the gripper pose.
func (e *Engine) OnGripperFeedback(pose Pose) {
	_ = e.bodies.SetLiveFeedback(Gripper, pose)
	if e.state == StateAttached {
		e.bodies.Follow(pose)
	}

	e.emitTransform(Gripper)
	if e.bodies.Following() {
		e.emitTransform(Part)
	}
}

// SetBodyState records the device grip state. Entering StateAttached with a
// known gripper pose slaves the part to it at once; leaving it returns the
// part to its calibrated placement.
func (e *Engine) SetBodyState(state BodyState) {
	prev := e.state
	if state == prev {
		return
	}
	e.state = state
	logger.Info("body state changed",
		zap.Stringer("from", prev),
		zap.Stringer("to", state))

	switch {
	case state == StateAttached:
		if pose, ok := e.bodies.LiveFeedback(Gripper); ok {
			e.bodies.Follow(pose)
			e.emitTransform(Part)
		}
	case prev == StateAttached:
		e.bodies.Unfollow()
		e.emitTransform(Part)
	}
	e.emit(Event{Kind: EventBodyStateChanged})
}
