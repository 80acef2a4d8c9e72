package rig

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/logger"
	"github.com/Faultbox/rigsync/pkg/math"
)

// Recalibrate places body b at pose: the pose position becomes the
// calibration translation and the pose rotation the rotation offset. Pivot
// and scale are kept.
//
// When b is the points frame, every stored point is carried rigidly from
// the old placement to the new one.
func (e *Engine) Recalibrate(b Body, pose Pose) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBody, int(b))
	}
	params := e.bodies.Calibration(b)
	params.Translation = pose.GlobalPos
	params.RotationOffset = pose.GlobalRotation
	return e.applyCalibration(b, params)
}

// SetCalibration replaces every calibration parameter of body b, carrying
// the points along when b is the points frame.
func (e *Engine) SetCalibration(b Body, params CalibrationParameters) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBody, int(b))
	}
	return e.applyCalibration(b, params)
}

// SetPointsFrame changes the body whose recalibration carries the points.
// A body whose placement cannot be inverted is refused.
func (e *Engine) SetPointsFrame(b Body) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBody, int(b))
	}
	if err := e.bodies.CalibratedTransform(b).CheckAffine(); err != nil {
		return fmt.Errorf("%w: %s placement: %v", ErrCalibrationDeltaUndefined, b, err)
	}
	e.frame = b
	return nil
}

func (e *Engine) applyCalibration(b Body, params CalibrationParameters) error {
	if b != e.frame {
		e.bodies.SetCalibration(b, params)
		logger.Debug("body recalibrated", zap.Stringer("body", b))
		e.emitTransform(b)
		return nil
	}

	oldTr := e.bodies.CalibratedTransform(b)
	newTr := e.bodies.CalibratedTransformFor(b, params)

	delta, err := pointsDelta(oldTr, newTr)
	if err != nil {
		logger.Warn("recalibration skipped, points left unchanged",
			zap.Stringer("body", b),
			zap.Error(err))
		return fmt.Errorf("recalibrating %s: %w", b, err)
	}

	e.bodies.SetCalibration(b, params)

	if delta == math.Identity() {
		logger.Debug("frame recalibrated without movement", zap.Stringer("body", b))
		e.emitTransform(b)
		return nil
	}

	e.movePoints(delta.TransformPoint)

	logger.Debug("frame recalibrated, points carried",
		zap.Stringer("body", b),
		zap.Int("calibration", e.calib.Count()),
		zap.Int("tasks", e.tasks.Count()),
		zap.Int("homes", e.homes.Count()))

	e.emitTransform(b)
	e.pointsMoved()
	return nil
}

// pointsDelta returns the transform that maps a point placed relative to
// the old frame onto the same place relative to the new frame:
// new · old⁻¹. A new placement that could not itself be inverted later is
// rejected, so the frame never gets stuck.
func pointsDelta(oldTr, newTr math.Mat4) (math.Mat4, error) {
	if err := newTr.CheckAffine(); err != nil {
		return math.Identity(), fmt.Errorf("%w: new placement: %v", ErrCalibrationDeltaUndefined, err)
	}
	if oldTr == newTr {
		return math.Identity(), nil
	}
	inv, err := oldTr.AffineInverse()
	if err != nil {
		return math.Identity(), fmt.Errorf("%w: %v", ErrCalibrationDeltaUndefined, err)
	}
	delta := newTr.Mul(inv)
	if !delta.IsFinite() {
		return math.Identity(), fmt.Errorf("%w: non-finite delta", ErrCalibrationDeltaUndefined)
	}
	return delta, nil
}
