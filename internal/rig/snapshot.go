package rig

import (
	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/logger"
)

// ApplyGlobalCorrection shifts the part and every stored point by delta.
// It compensates a linear offset measured by an external snapshot; device
// positions of calibration points are left as they are.
func (e *Engine) ApplyGlobalCorrection(delta Vertex) {
	params := e.bodies.Calibration(Part)
	params.Translation = params.Translation.Add(delta)
	e.bodies.SetCalibration(Part, params)

	e.movePoints(func(v Vertex) Vertex { return v.Add(delta) })

	logger.Info("snapshot correction applied",
		zap.Float64("dx", delta.X),
		zap.Float64("dy", delta.Y),
		zap.Float64("dz", delta.Z))

	e.emitTransform(Part)
	e.pointsMoved()
}
