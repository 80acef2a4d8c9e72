// Package scene keeps an in-memory picture of the rig as last drawn and
// answers cursor picks against it.
package scene

import (
	"fmt"

	"github.com/Faultbox/rigsync/internal/rig"
	"github.com/Faultbox/rigsync/pkg/math"
)

// PointKind identifies a point set shown in the scene.
type PointKind int

const (
	CalibrationPoints PointKind = iota
	TaskPoints
	HomePoints

	pointKindCount
)

func (k PointKind) String() string {
	switch k {
	case CalibrationPoints:
		return "calibration"
	case TaskPoints:
		return "task"
	case HomePoints:
		return "home"
	default:
		return fmt.Sprintf("PointKind(%d)", int(k))
	}
}

// DefaultPointRadius is the pick radius of a point marker in world units.
const DefaultPointRadius = 2.0

// drawn is what the scene last showed for one body.
type drawn struct {
	shape     rig.Shape
	transform math.Mat4
	ok        bool
}

// Scene records the latest draw of every body and point set.
type Scene struct {
	bodies [len(rig.Bodies)]drawn
	hidden [len(rig.Bodies)]bool
	points [pointKindCount][]rig.Vertex

	beamStart, beamEnd rig.Vertex
	hasBeam            bool
	clipBeam           bool

	pointRadius float64
	draws       int
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{pointRadius: DefaultPointRadius}
}

// SetPointRadius sets the pick radius of point markers.
func (s *Scene) SetPointRadius(r float64) {
	if r > 0 {
		s.pointRadius = r
	}
}

// Draw shows body b with shape placed by transform.
func (s *Scene) Draw(b rig.Body, shape rig.Shape, transform math.Mat4) {
	if !b.Valid() {
		return
	}
	s.bodies[b] = drawn{shape: shape, transform: transform, ok: true}
	s.draws++
}

// Drawn returns what was last drawn for b. ok is false for a body that
// was never drawn or is hidden.
func (s *Scene) Drawn(b rig.Body) (rig.Shape, math.Mat4, bool) {
	if !b.Valid() {
		return rig.Shape{}, math.Identity(), false
	}
	d := s.bodies[b]
	return d.shape, d.transform, d.ok && !s.hidden[b]
}

// SetVisible shows or hides body b. A hidden body keeps being tracked but
// is neither shown nor picked.
func (s *Scene) SetVisible(b rig.Body, visible bool) {
	if b.Valid() {
		s.hidden[b] = !visible
	}
}

// Visible reports whether body b is shown.
func (s *Scene) Visible(b rig.Body) bool {
	return b.Valid() && !s.hidden[b]
}

// shown returns the draw record of b when it is drawn and visible.
func (s *Scene) shown(b rig.Body) (drawn, bool) {
	d := s.bodies[b]
	return d, d.ok && !s.hidden[b]
}

// SetPoints replaces the markers of one point set.
func (s *Scene) SetPoints(kind PointKind, positions []rig.Vertex) {
	s.points[kind] = append([]rig.Vertex(nil), positions...)
	s.draws++
}

// Points returns the markers of one point set.
func (s *Scene) Points(kind PointKind) []rig.Vertex {
	return append([]rig.Vertex(nil), s.points[kind]...)
}

// SetBeam shows the laser beam as a segment.
func (s *Scene) SetBeam(start, end rig.Vertex) {
	s.beamStart, s.beamEnd = start, end
	s.hasBeam = true
	s.draws++
}

// SetBeamClip makes the beam stop at the first body surface it meets.
func (s *Scene) SetBeamClip(clip bool) {
	s.clipBeam = clip
}

// Beam returns the laser beam segment, if shown. A clipped beam ends at the
// first visible body other than the laser head.
func (s *Scene) Beam() (start, end rig.Vertex, ok bool) {
	start, end = s.beamStart, s.beamEnd
	if !s.hasBeam || !s.clipBeam || start == end {
		return start, end, s.hasBeam
	}
	ray := NewRay(start, end.Sub(start))
	if t, hit := s.firstSurface(ray, rig.LaserHead); hit && t < end.Distance(start) {
		end = ray.At(t)
	}
	return start, end, true
}

// Draws returns how many draw calls the scene has received.
func (s *Scene) Draws() int {
	return s.draws
}
