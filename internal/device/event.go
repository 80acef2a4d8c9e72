// Package device moves rig feedback from device goroutines onto the single
// goroutine that owns the engine.
package device

import (
	"fmt"

	"github.com/Faultbox/rigsync/internal/rig"
)

// Kind identifies a device event.
type Kind uint16

const (
	KindLaserHead   Kind = 0x0001 // Laser head pose
	KindGripper     Kind = 0x0002 // Gripper pose
	KindBodyState   Kind = 0x0003 // Grip state
	KindCalibResult Kind = 0x0004 // Calibration verdict

	// kindCall runs a function on the engine goroutine. Never recorded.
	kindCall Kind = 0xFFFF
)

func (k Kind) String() string {
	switch k {
	case KindLaserHead:
		return "lhead"
	case KindGripper:
		return "grip"
	case KindBodyState:
		return "body-state"
	case KindCalibResult:
		return "calib-result"
	case kindCall:
		return "call"
	default:
		return fmt.Sprintf("Kind(0x%04X)", uint16(k))
	}
}

// Event is one report from the device.
type Event struct {
	Kind   Kind
	Pose   rig.Pose        // KindLaserHead, KindGripper
	State  rig.BodyState   // KindBodyState
	Result rig.CalibResult // KindCalibResult

	call func(*rig.Engine)
}

// Handler applies one kind of event to the engine.
type Handler func(e *rig.Engine, ev Event)

var handlers = map[Kind]Handler{
	KindLaserHead: func(e *rig.Engine, ev Event) {
		e.OnLaserHeadFeedback(ev.Pose)
	},
	KindGripper: func(e *rig.Engine, ev Event) {
		e.OnGripperFeedback(ev.Pose)
	},
	KindBodyState: func(e *rig.Engine, ev Event) {
		e.SetBodyState(ev.State)
	},
	KindCalibResult: func(e *rig.Engine, ev Event) {
		e.SetCalibResult(ev.Result)
	},
	kindCall: func(e *rig.Engine, ev Event) {
		ev.call(e)
	},
}

// Apply applies ev to e on the calling goroutine.
func Apply(e *rig.Engine, ev Event) error {
	h, ok := handlers[ev.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, ev.Kind)
	}
	h(e, ev)
	return nil
}

// IsPose reports whether the event carries a pose.
func (ev Event) IsPose() bool {
	return ev.Kind == KindLaserHead || ev.Kind == KindGripper
}
