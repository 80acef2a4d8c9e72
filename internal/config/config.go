// Package config handles rig tool configuration loading and management.
package config

import "time"

// Config holds all application settings.
type Config struct {
	Files    FilesConfig    `yaml:"files"`
	Feedback FeedbackConfig `yaml:"feedback"`
	Rig      RigConfig      `yaml:"rig"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// FilesConfig holds paths of the files the engine reads and writes.
type FilesConfig struct {
	Settings     string `yaml:"settings"`      // Per-body calibration settings (YAML)
	BackupPoints string `yaml:"backup_points"` // Auto-backup of task and home points
}

// FeedbackConfig holds live position feedback settings.
type FeedbackConfig struct {
	DistanceTolerance float64       `yaml:"distance_tolerance"`
	AngleTolerance    float64       `yaml:"angle_tolerance"`
	QueueSize         int           `yaml:"queue_size"`
	StaleAfter        time.Duration `yaml:"stale_after"` // Warn when no pose arrives for this long (0 = off)
}

// RigConfig holds rig topology settings.
type RigConfig struct {
	PointsFrame string `yaml:"points_frame"` // Body whose recalibration carries the points
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			Settings:     "rig_settings.yaml",
			BackupPoints: "_backup_points_.task",
		},
		Feedback: FeedbackConfig{
			DistanceTolerance: 0.000005,
			AngleTolerance:    0.000005,
			QueueSize:         256,
			StaleAfter:        0,
		},
		Rig: RigConfig{
			PointsFrame: "part",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
