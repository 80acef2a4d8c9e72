// Package settings persists the rig's per-body calibration and display
// settings as YAML.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rigsync/internal/logger"
	"github.com/Faultbox/rigsync/internal/rig"
	"github.com/Faultbox/rigsync/pkg/math"
)

// DefaultSnapshotScale is the snapshot scale used when none is stored.
const DefaultSnapshotScale = 5.0

// Settings holds everything the rig restores on start.
type Settings struct {
	Desk      rig.CalibrationParameters `yaml:"desk"`
	Part      rig.CalibrationParameters `yaml:"part"`
	LaserHead rig.CalibrationParameters `yaml:"lhead"`
	Gripper   rig.CalibrationParameters `yaml:"grip"`

	Shapes Shapes `yaml:"shapes"`

	LaserLine      LaserLine `yaml:"laser_line"`
	SnapshotScale  float64   `yaml:"snapshot_scale"`
	GripperVisible bool      `yaml:"gripper_visible"`
	PointRadius    float64   `yaml:"point_radius"` // pick radius of point markers, 0 keeps the default
}

// Shapes holds the model bounds of each body.
type Shapes struct {
	Desk      rig.Shape `yaml:"desk"`
	Part      rig.Shape `yaml:"part"`
	LaserHead rig.Shape `yaml:"lhead"`
	Gripper   rig.Shape `yaml:"grip"`
}

// LaserLine is the laser beam in the laser head's model space.
type LaserLine struct {
	Origin    rig.Vertex `yaml:"origin"`
	Direction rig.Vertex `yaml:"direction"` // zero means +Z
	Length    float64    `yaml:"length"`
	Clip      bool       `yaml:"clip"` // stop the beam at the first surface
}

// Default returns settings with every body at the identity placement.
func Default() *Settings {
	unit := rig.CalibrationParameters{Scale: 1}
	return &Settings{
		Desk:           unit,
		Part:           unit,
		LaserHead:      unit,
		Gripper:        unit,
		SnapshotScale:  DefaultSnapshotScale,
		GripperVisible: true,
	}
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no settings file, using defaults", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if s.SnapshotScale == 0 {
		s.SnapshotScale = DefaultSnapshotScale
	}
	return s, nil
}

// Save writes the settings to path.
func (s *Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params returns the calibration parameters stored for b.
func (s *Settings) Params(b rig.Body) rig.CalibrationParameters {
	if p := s.slot(b); p != nil {
		return *p
	}
	return rig.CalibrationParameters{Scale: 1}
}

// SetParams stores the calibration parameters for b.
func (s *Settings) SetParams(b rig.Body, params rig.CalibrationParameters) {
	if p := s.slot(b); p != nil {
		*p = params
	}
}

// Shape returns the model bounds stored for b.
func (s *Settings) Shape(b rig.Body) rig.Shape {
	switch b {
	case rig.Desk:
		return s.Shapes.Desk
	case rig.Part:
		return s.Shapes.Part
	case rig.LaserHead:
		return s.Shapes.LaserHead
	case rig.Gripper:
		return s.Shapes.Gripper
	}
	return rig.Shape{}
}

// SnapshotDelta converts a snapshot offset in pixels into a world-space
// correction on the desk plane.
func (s *Settings) SnapshotDelta(dxPixels, dyPixels float64) rig.Vertex {
	scale := s.SnapshotScale
	if scale == 0 {
		scale = DefaultSnapshotScale
	}
	return rig.Vertex{X: dxPixels / scale, Y: dyPixels / scale}
}

func (s *Settings) slot(b rig.Body) *rig.CalibrationParameters {
	switch b {
	case rig.Desk:
		return &s.Desk
	case rig.Part:
		return &s.Part
	case rig.LaserHead:
		return &s.LaserHead
	case rig.Gripper:
		return &s.Gripper
	}
	return nil
}

// Apply pushes every body's parameters and shape into the engine. The
// points frame body carries the stored points along with it.
func (s *Settings) Apply(e *rig.Engine) error {
	for _, b := range rig.Bodies {
		if shape := s.Shape(b); !shape.IsEmpty() {
			if err := e.SetShape(b, shape); err != nil {
				return fmt.Errorf("applying %s shape: %w", b, err)
			}
		}
		if err := e.SetCalibration(b, s.Params(b)); err != nil {
			return fmt.Errorf("applying %s settings: %w", b, err)
		}
	}
	return nil
}

// Capture copies every body's current parameters from the engine.
func (s *Settings) Capture(e *rig.Engine) {
	for _, b := range rig.Bodies {
		s.SetParams(b, e.Calibration(b))
	}
}

// Beam returns the laser line in world space for a laser head placed at
// lhead. The end point lies Length along the beam.
func (l LaserLine) Beam(lhead math.Mat4) (start, end rig.Vertex) {
	dir := l.Direction
	if dir.IsZero() {
		dir = rig.Vertex{Z: 1}
	}
	start = lhead.TransformPoint(l.Origin)
	worldDir := lhead.TransformDirection(dir).Normalize()
	end = start.Add(worldDir.Scale(l.Length))
	return start, end
}
