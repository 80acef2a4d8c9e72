package rig

import "errors"

var (
	ErrIndexOutOfRange           = errors.New("point index out of range")
	ErrCalibrationDeltaUndefined = errors.New("calibration delta undefined: reference transform is singular")
	ErrPersistence               = errors.New("points persistence failed")
	ErrUnknownBody               = errors.New("unknown body")
	ErrNoLiveFeedback            = errors.New("body has no live feedback")
)
