package rig

import "fmt"

// CalibrationPoints returns the calibration points in order.
func (e *Engine) CalibrationPoints() []CalibrationPoint {
	return e.calib.All()
}

// CalibrationPoint returns the calibration point at index.
func (e *Engine) CalibrationPoint(index int) (CalibrationPoint, error) {
	return e.calib.At(index)
}

// CalibrationLocalPoints returns the calibration points with their global
// position expressed in the points frame's local coordinates.
func (e *Engine) CalibrationLocalPoints() ([]CalibrationPoint, error) {
	inv, err := e.bodies.Transform(e.frame).AffineInverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCalibrationDeltaUndefined, err)
	}
	local := NewPointSet[CalibrationPoint]()
	local.ReplaceAll(e.calib.All())
	MovePoints(local, inv.TransformPoint)
	return local.All(), nil
}

// AppendCalibrationPoint adds a calibration point. Any change to the
// calibration points invalidates the device calibration.
func (e *Engine) AppendCalibrationPoint(p CalibrationPoint) {
	e.calib.Append(p)
	e.calibrationEdited()
}

// ReplaceCalibrationPoint overwrites the calibration point at index.
func (e *Engine) ReplaceCalibrationPoint(index int, p CalibrationPoint) error {
	if err := e.calib.Replace(index, p); err != nil {
		return err
	}
	e.calibrationEdited()
	return nil
}

// RemoveCalibrationPoint deletes the calibration point at index.
func (e *Engine) RemoveCalibrationPoint(index int) error {
	if err := e.calib.RemoveAt(index); err != nil {
		return err
	}
	e.calibrationEdited()
	return nil
}

// MoveCalibrationPoint reorders the calibration points.
func (e *Engine) MoveCalibrationPoint(from, to int) error {
	if err := e.calib.Move(from, to); err != nil {
		return err
	}
	e.calibrationEdited()
	return nil
}

// SetCalibrationPoints replaces every calibration point.
func (e *Engine) SetCalibrationPoints(points []CalibrationPoint) {
	e.calib.ReplaceAll(points)
	e.calibrationPointsChanged()
}

func (e *Engine) calibrationEdited() {
	e.SetCalibResult(CalibFalling)
	e.calibrationPointsChanged()
}

func (e *Engine) calibrationPointsChanged() {
	e.emit(Event{Kind: EventCalibrationPointsChanged})
}

// TaskPoints returns the task points in execution order.
func (e *Engine) TaskPoints() []TaskPoint {
	return e.tasks.All()
}

// TaskPoint returns the task point at index.
func (e *Engine) TaskPoint(index int) (TaskPoint, error) {
	return e.tasks.At(index)
}

// AppendTaskPoint adds a task point at the end of the job.
func (e *Engine) AppendTaskPoint(p TaskPoint) {
	e.tasks.Append(p)
	e.taskPointsChanged()
}

// ReplaceTaskPoint overwrites the task point at index.
func (e *Engine) ReplaceTaskPoint(index int, p TaskPoint) error {
	if err := e.tasks.Replace(index, p); err != nil {
		return err
	}
	e.taskPointsChanged()
	return nil
}

// RemoveTaskPoint deletes the task point at index.
func (e *Engine) RemoveTaskPoint(index int) error {
	if err := e.tasks.RemoveAt(index); err != nil {
		return err
	}
	e.taskPointsChanged()
	return nil
}

// MoveTaskPoint changes a task point's position in the job.
func (e *Engine) MoveTaskPoint(from, to int) error {
	if err := e.tasks.Move(from, to); err != nil {
		return err
	}
	if from != to {
		e.taskPointsChanged()
	}
	return nil
}

// SetTaskPoints replaces the whole job, keeping the given order.
func (e *Engine) SetTaskPoints(points []TaskPoint) {
	e.tasks.ReplaceAll(points)
	e.taskPointsChanged()
}

func (e *Engine) taskPointsChanged() {
	e.backup()
	e.emit(Event{Kind: EventTaskPointsChanged})
}

// HomePoints returns the home point, if set, as a slice of at most one.
func (e *Engine) HomePoints() []HomePoint {
	return e.homes.All()
}

// HomePoint returns the home point, if set.
func (e *Engine) HomePoint() (HomePoint, bool) {
	p, err := e.homes.At(0)
	return p, err == nil
}

// AppendHomePoint sets the home point, replacing any existing one.
func (e *Engine) AppendHomePoint(p HomePoint) {
	e.homes.ReplaceAll([]HomePoint{p})
	e.homePointsChanged()
}

// ReplaceHomePoint overwrites the home point at index.
func (e *Engine) ReplaceHomePoint(index int, p HomePoint) error {
	if err := e.homes.Replace(index, p); err != nil {
		return err
	}
	e.homePointsChanged()
	return nil
}

// RemoveHomePoint deletes the home point at index.
func (e *Engine) RemoveHomePoint(index int) error {
	if err := e.homes.RemoveAt(index); err != nil {
		return err
	}
	e.homePointsChanged()
	return nil
}

// SetHomePoints replaces the home point from a loaded set. An empty set
// keeps the current home point; of several, the last one wins.
func (e *Engine) SetHomePoints(points []HomePoint) {
	if e.replaceHome(points) {
		e.homePointsChanged()
	}
}

func (e *Engine) replaceHome(points []HomePoint) bool {
	if len(points) == 0 {
		return false
	}
	e.homes.ReplaceAll(points[len(points)-1:])
	return true
}

func (e *Engine) homePointsChanged() {
	e.backup()
	e.emit(Event{Kind: EventHomePointsChanged})
}

// pointsMoved backs the points up once and then reports every point set
// as changed.
func (e *Engine) pointsMoved() {
	e.backup()
	e.calibrationPointsChanged()
	e.emit(Event{Kind: EventTaskPointsChanged})
	e.emit(Event{Kind: EventHomePointsChanged})
}

// movePoints maps every stored point's global position through fn.
func (e *Engine) movePoints(fn func(Vertex) Vertex) {
	MovePoints(e.calib, fn)
	MovePoints(e.tasks, fn)
	MovePoints(e.homes, fn)
}
