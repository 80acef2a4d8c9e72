package rig

import (
	"fmt"
	"strings"
)

// Body identifies one of the rig's tracked bodies.
type Body int

const (
	Desk Body = iota
	Part
	LaserHead
	Gripper

	bodyCount
)

// Bodies lists every body in registry order.
var Bodies = [bodyCount]Body{Desk, Part, LaserHead, Gripper}

var bodyNames = [bodyCount]string{
	Desk:      "desk",
	Part:      "part",
	LaserHead: "lhead",
	Gripper:   "grip",
}

func (b Body) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// Valid reports whether b names a known body.
func (b Body) Valid() bool {
	return b >= 0 && b < bodyCount
}

// HasLiveFeedback reports whether the device streams poses for b.
func (b Body) HasLiveFeedback() bool {
	return b == LaserHead || b == Gripper
}

// ParseBody parses a body name as printed by String, plus a few long forms.
func ParseBody(name string) (Body, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "desk", "table":
		return Desk, nil
	case "part", "workpiece":
		return Part, nil
	case "lhead", "laserhead", "laser-head", "laser":
		return LaserHead, nil
	case "grip", "gripper":
		return Gripper, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}
