// Package session wires a rig engine to its files, its scene and the
// device feedback pump.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/config"
	"github.com/Faultbox/rigsync/internal/device"
	"github.com/Faultbox/rigsync/internal/logger"
	"github.com/Faultbox/rigsync/internal/rig"
	"github.com/Faultbox/rigsync/internal/scene"
	"github.com/Faultbox/rigsync/internal/settings"
	"github.com/Faultbox/rigsync/internal/taskfile"
)

// Session is one running rig.
type Session struct {
	cfg *config.Config

	Engine   *rig.Engine
	Settings *settings.Settings
	Scene    *scene.Scene
	Pump     *device.Pump
}

// New creates a session from cfg: it loads the calibration settings,
// binds the scene and prepares the feedback pump. Points are not restored
// until RestoreBackup is called.
func New(cfg *config.Config) (*Session, error) {
	logger.Info("initializing rig session",
		zap.String("settings", cfg.Files.Settings),
		zap.String("backup", cfg.Files.BackupPoints),
		zap.String("frame", cfg.Rig.PointsFrame),
	)

	frame, err := rig.ParseBody(cfg.Rig.PointsFrame)
	if err != nil {
		return nil, fmt.Errorf("points frame: %w", err)
	}

	e := rig.New(
		rig.WithPointStore(taskfile.NewStore(), cfg.Files.BackupPoints),
		rig.WithTolerances(cfg.Feedback.DistanceTolerance, cfg.Feedback.AngleTolerance),
		rig.WithPointsFrame(frame),
	)

	st, err := settings.Load(cfg.Files.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := st.Apply(e); err != nil {
		return nil, fmt.Errorf("failed to apply settings: %w", err)
	}

	sc := scene.New()
	sc.SetVisible(rig.Gripper, st.GripperVisible)
	sc.SetBeamClip(st.LaserLine.Clip)
	sc.SetPointRadius(st.PointRadius)
	scene.Bind(e, sc, scene.WithBeam(st.LaserLine.Beam))

	e.Subscribe(func(ev rig.Event) {
		if ev.Kind == rig.EventPersistenceFailed {
			logger.Warn("points backup not written", zap.Error(ev.Err))
		}
	})

	s := &Session{
		cfg:      cfg,
		Engine:   e,
		Settings: st,
		Scene:    sc,
		Pump:     device.NewPump(e, cfg.Feedback.QueueSize, device.WithStaleAfter(cfg.Feedback.StaleAfter)),
	}

	logger.Info("rig session initialized")
	return s, nil
}

// RestoreBackup reloads the points from the auto-backup file. A missing
// backup is not an error.
func (s *Session) RestoreBackup() error {
	if _, err := os.Stat(s.cfg.Files.BackupPoints); errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no points backup to restore", zap.String("path", s.cfg.Files.BackupPoints))
		return nil
	}
	return s.Engine.LoadBackupPoints()
}

// Run applies device feedback until ctx is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) error {
	return s.Pump.Run(ctx)
}

// SaveSettings stores the engine's current calibration.
func (s *Session) SaveSettings() error {
	s.Settings.Capture(s.Engine)
	if err := s.Settings.Save(s.cfg.Files.Settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logger.Debug("settings saved", zap.String("path", s.cfg.Files.Settings))
	return nil
}

// Close stops the feedback pump.
func (s *Session) Close() {
	s.Pump.Close()
}
