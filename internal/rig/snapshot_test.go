package rig

import "testing"

func TestApplyGlobalCorrection_RoundTrip(t *testing.T) {
	e := New()
	if err := e.SetCalibration(Part, CalibrationParameters{Translation: Vertex{X: 1, Y: 2, Z: 3}, Scale: 1}); err != nil {
		t.Fatal(err)
	}
	e.AppendCalibrationPoint(CalibrationPoint{GlobalPos: Vertex{X: 0.5, Y: 2.25, Z: -1}, DevicePos: Vertex{X: 7, Y: 8, Z: 9}})
	e.AppendTaskPoint(TaskPoint{GlobalPos: Vertex{X: 3, Y: 3, Z: 3}})
	e.AppendHomePoint(HomePoint{GlobalPos: Vertex{X: 1, Y: 1, Z: 1}})

	before := struct {
		params CalibrationParameters
		calib  []CalibrationPoint
		tasks  []TaskPoint
		homes  []HomePoint
	}{e.Calibration(Part), e.CalibrationPoints(), e.TaskPoints(), e.HomePoints()}

	delta := Vertex{X: 0.5, Y: -0.25, Z: 2}
	e.ApplyGlobalCorrection(delta)

	if got := e.Calibration(Part).Translation; got != (Vertex{X: 1.5, Y: 1.75, Z: 5}) {
		t.Errorf("part translation = %v", got)
	}
	cp, _ := e.CalibrationPoint(0)
	if cp.GlobalPos != (Vertex{X: 1, Y: 2, Z: 1}) {
		t.Errorf("calibration point = %v", cp.GlobalPos)
	}
	if cp.DevicePos != (Vertex{X: 7, Y: 8, Z: 9}) {
		t.Errorf("device position should be untouched, got %v", cp.DevicePos)
	}
	tp, _ := e.TaskPoint(0)
	if tp.GlobalPos != (Vertex{X: 3.5, Y: 2.75, Z: 5}) {
		t.Errorf("task point = %v", tp.GlobalPos)
	}

	e.ApplyGlobalCorrection(delta.Neg())

	if e.Calibration(Part) != before.params {
		t.Errorf("params after round trip = %+v, want %+v", e.Calibration(Part), before.params)
	}
	if e.CalibrationPoints()[0] != before.calib[0] {
		t.Errorf("calibration point after round trip = %v", e.CalibrationPoints()[0])
	}
	if e.TaskPoints()[0] != before.tasks[0] {
		t.Errorf("task point after round trip = %v", e.TaskPoints()[0])
	}
	if e.HomePoints()[0] != before.homes[0] {
		t.Errorf("home point after round trip = %v", e.HomePoints()[0])
	}
}

func TestApplyGlobalCorrection_Events(t *testing.T) {
	e := New()
	rec := subscribe(e)

	e.ApplyGlobalCorrection(Vertex{X: 1})

	want := []EventKind{
		EventTransformChanged,
		EventCalibrationPointsChanged,
		EventTaskPointsChanged,
		EventHomePointsChanged,
	}
	if !sameKinds(rec.kinds(), want) {
		t.Errorf("events = %v, want %v", rec.kinds(), want)
	}
	if e.CalibResult() != CalibOK {
		t.Error("snapshot correction should not invalidate the calibration")
	}
}
