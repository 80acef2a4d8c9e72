package rig

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/logger"
	"github.com/Faultbox/rigsync/pkg/math"
)

// Default feedback tolerances used to drop device jitter.
const (
	DefaultDistanceTolerance = 0.000005
	DefaultAngleTolerance    = 0.000005
)

// PointStore persists task and home points under a path.
type PointStore interface {
	Save(path string, tasks []TaskPoint, homes []HomePoint) error
	Load(path string) ([]TaskPoint, []HomePoint, error)
}

// Engine owns the body registry and the point sets of one rig session.
//
// Engine is not safe for concurrent use. Feed device events from other
// goroutines through a single consumer (see package device).
type Engine struct {
	bodies *Registry

	calib *PointSet[CalibrationPoint]
	tasks *PointSet[TaskPoint]
	homes *PointSet[HomePoint]

	state       BodyState
	calibResult CalibResult
	frame       Body

	distEps  float64
	angleEps float64

	store      PointStore
	backupPath string

	subs []Subscriber
}

// Option configures an Engine.
type Option func(*Engine)

// WithPointStore enables point persistence and auto-backup to backupPath.
// An empty backupPath disables auto-backup.
func WithPointStore(store PointStore, backupPath string) Option {
	return func(e *Engine) {
		e.store = store
		e.backupPath = backupPath
	}
}

// WithTolerances sets the laser head feedback tolerances.
func WithTolerances(distance, angle float64) Option {
	return func(e *Engine) {
		e.distEps = distance
		e.angleEps = angle
	}
}

// WithPointsFrame selects the body whose recalibration carries the points.
func WithPointsFrame(b Body) Option {
	return func(e *Engine) {
		if b.Valid() {
			e.frame = b
		}
	}
}

// New creates an engine with every body at the identity placement.
func New(opts ...Option) *Engine {
	e := &Engine{
		bodies:      NewRegistry(),
		calib:       NewPointSet[CalibrationPoint](),
		tasks:       NewPointSet[TaskPoint](),
		homes:       NewPointSet[HomePoint](),
		state:       StateFalling,
		calibResult: CalibOK,
		frame:       Part,
		distEps:     DefaultDistanceTolerance,
		angleEps:    DefaultAngleTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PointsFrame returns the body whose recalibration carries the points.
func (e *Engine) PointsFrame() Body {
	return e.frame
}

// Transform returns a body's current world transform. Unknown bodies read
// as the identity placement with no shape and no live feedback.
func (e *Engine) Transform(b Body) math.Mat4 {
	return e.bodies.Transform(b)
}

// Calibration returns a body's calibration parameters.
func (e *Engine) Calibration(b Body) CalibrationParameters {
	return e.bodies.Calibration(b)
}

// Shape returns a body's geometry descriptor.
func (e *Engine) Shape(b Body) Shape {
	return e.bodies.Shape(b)
}

// SetShape attaches geometry to a body and reports its shape and transform.
func (e *Engine) SetShape(b Body, shape Shape) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBody, int(b))
	}
	e.bodies.SetShape(b, shape)
	logger.Debug("body shape set", zap.Stringer("body", b), zap.String("shape", shape.Name))
	e.emit(Event{Kind: EventShapeChanged, Body: b, Transform: e.bodies.Transform(b)})
	e.emitTransform(b)
	return nil
}

// LiveFeedback returns the last device pose of a body, if any.
func (e *Engine) LiveFeedback(b Body) (Pose, bool) {
	return e.bodies.LiveFeedback(b)
}

// BodyState returns the device grip state.
func (e *Engine) BodyState() BodyState {
	return e.state
}

// CalibResult returns the device's verdict on the current calibration.
func (e *Engine) CalibResult() CalibResult {
	return e.calibResult
}

// SetCalibResult records the device's calibration verdict.
func (e *Engine) SetCalibResult(r CalibResult) {
	if r == e.calibResult {
		return
	}
	e.calibResult = r
	logger.Info("calibration result changed", zap.Stringer("result", r))
	e.emit(Event{Kind: EventCalibrationResultChanged})
}
