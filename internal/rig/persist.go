package rig

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rigsync/internal/logger"
)

var errNoStore = errors.New("no point store configured")

// SavePoints writes the task and home points to path.
func (e *Engine) SavePoints(path string) error {
	if e.store == nil {
		return fmt.Errorf("%w: %v", ErrPersistence, errNoStore)
	}
	if err := e.store.Save(path, e.tasks.All(), e.homes.All()); err != nil {
		logger.Error("failed to save points", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: saving %s: %v", ErrPersistence, path, err)
	}
	logger.Debug("points saved",
		zap.String("path", path),
		zap.Int("tasks", e.tasks.Count()),
		zap.Int("homes", e.homes.Count()))
	return nil
}

// LoadPoints replaces the task points, and the home point if the file has
// one, from path. A file that cannot be read or holds no points at all
// leaves the current points untouched.
func (e *Engine) LoadPoints(path string) error {
	if e.store == nil {
		return fmt.Errorf("%w: %v", ErrPersistence, errNoStore)
	}
	tasks, homes, err := e.store.Load(path)
	if err != nil {
		logger.Error("failed to load points", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: loading %s: %v", ErrPersistence, path, err)
	}
	if len(tasks) == 0 && len(homes) == 0 {
		logger.Warn("points file is empty", zap.String("path", path))
		return fmt.Errorf("%w: %s holds no points", ErrPersistence, path)
	}

	e.tasks.ReplaceAll(tasks)
	homeChanged := e.replaceHome(homes)
	e.backup()
	e.emit(Event{Kind: EventTaskPointsChanged})
	if homeChanged {
		e.emit(Event{Kind: EventHomePointsChanged})
	}
	logger.Info("points loaded",
		zap.String("path", path),
		zap.Int("tasks", len(tasks)),
		zap.Int("homes", len(homes)))
	return nil
}

// LoadBackupPoints restores the points from the auto-backup file.
func (e *Engine) LoadBackupPoints() error {
	if e.backupPath == "" {
		return fmt.Errorf("%w: no backup path configured", ErrPersistence)
	}
	return e.LoadPoints(e.backupPath)
}

// backup saves the points to the backup path after every change. Failures
// are reported to subscribers and never roll back the change.
func (e *Engine) backup() {
	if e.store == nil || e.backupPath == "" {
		return
	}
	if err := e.store.Save(e.backupPath, e.tasks.All(), e.homes.All()); err != nil {
		logger.Error("points backup failed", zap.String("path", e.backupPath), zap.Error(err))
		e.emit(Event{Kind: EventPersistenceFailed, Err: fmt.Errorf("%w: %v", ErrPersistence, err)})
	}
}
