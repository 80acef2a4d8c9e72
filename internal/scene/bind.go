package scene

import (
	"github.com/Faultbox/rigsync/internal/rig"
	"github.com/Faultbox/rigsync/pkg/math"
)

// BeamFunc places the laser beam for a laser head transform.
type BeamFunc func(lhead math.Mat4) (start, end rig.Vertex)

// BindOption configures Bind.
type BindOption func(*binding)

// WithBeam shows the laser beam, following the laser head.
func WithBeam(fn BeamFunc) BindOption {
	return func(b *binding) {
		b.beam = fn
	}
}

type binding struct {
	engine *rig.Engine
	scene  *Scene
	beam   BeamFunc
}

// Bind keeps s in step with e: it draws the current state at once and then
// redraws whatever each engine event reports.
func Bind(e *rig.Engine, s *Scene, opts ...BindOption) {
	b := &binding{engine: e, scene: s}
	for _, opt := range opts {
		opt(b)
	}

	for _, body := range rig.Bodies {
		b.drawBody(body, e.Transform(body))
	}
	b.drawPoints(CalibrationPoints)
	b.drawPoints(TaskPoints)
	b.drawPoints(HomePoints)

	e.Subscribe(b.on)
}

func (b *binding) on(ev rig.Event) {
	switch ev.Kind {
	case rig.EventTransformChanged, rig.EventShapeChanged:
		b.drawBody(ev.Body, ev.Transform)
	case rig.EventCalibrationPointsChanged:
		b.drawPoints(CalibrationPoints)
	case rig.EventTaskPointsChanged:
		b.drawPoints(TaskPoints)
	case rig.EventHomePointsChanged:
		b.drawPoints(HomePoints)
	}
}

func (b *binding) drawBody(body rig.Body, transform math.Mat4) {
	b.scene.Draw(body, b.engine.Shape(body), transform)
	if body == rig.LaserHead && b.beam != nil {
		start, end := b.beam(transform)
		b.scene.SetBeam(start, end)
	}
}

func (b *binding) drawPoints(kind PointKind) {
	var positions []rig.Vertex
	switch kind {
	case CalibrationPoints:
		for _, p := range b.engine.CalibrationPoints() {
			positions = append(positions, p.GlobalPos)
		}
	case TaskPoints:
		for _, p := range b.engine.TaskPoints() {
			positions = append(positions, p.GlobalPos)
		}
	case HomePoints:
		for _, p := range b.engine.HomePoints() {
			positions = append(positions, p.GlobalPos)
		}
	}
	b.scene.SetPoints(kind, positions)
}
