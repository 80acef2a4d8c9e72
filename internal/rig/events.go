package rig

import (
	"fmt"

	"github.com/Faultbox/rigsync/pkg/math"
)

// EventKind identifies what changed.
type EventKind int

const (
	EventTransformChanged EventKind = iota
	EventShapeChanged
	EventCalibrationPointsChanged
	EventTaskPointsChanged
	EventHomePointsChanged
	EventCalibrationResultChanged
	EventBodyStateChanged
	EventPersistenceFailed
)

var eventNames = map[EventKind]string{
	EventTransformChanged:         "transform-changed",
	EventShapeChanged:             "shape-changed",
	EventCalibrationPointsChanged: "calibration-points-changed",
	EventTaskPointsChanged:        "task-points-changed",
	EventHomePointsChanged:        "home-points-changed",
	EventCalibrationResultChanged: "calibration-result-changed",
	EventBodyStateChanged:         "body-state-changed",
	EventPersistenceFailed:        "persistence-failed",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is delivered to subscribers after the change it reports has been
// fully applied.
type Event struct {
	Kind EventKind

	// Body and Transform are set for transform and shape events.
	Body      Body
	Transform math.Mat4

	// Err is set for EventPersistenceFailed.
	Err error
}

// Subscriber receives engine events synchronously, in order.
type Subscriber func(Event)

// Subscribe registers fn. The new subscriber immediately receives the
// current calibration result.
func (e *Engine) Subscribe(fn Subscriber) {
	e.subs = append(e.subs, fn)
	fn(Event{Kind: EventCalibrationResultChanged})
}

func (e *Engine) emit(ev Event) {
	for _, fn := range e.subs {
		fn(ev)
	}
}

func (e *Engine) emitTransform(b Body) {
	e.emit(Event{Kind: EventTransformChanged, Body: b, Transform: e.bodies.Transform(b)})
}
