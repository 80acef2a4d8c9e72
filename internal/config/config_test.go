package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Files.Settings != "rig_settings.yaml" {
		t.Errorf("expected settings file rig_settings.yaml, got %s", cfg.Files.Settings)
	}
	if cfg.Files.BackupPoints != "_backup_points_.task" {
		t.Errorf("expected backup file _backup_points_.task, got %s", cfg.Files.BackupPoints)
	}

	if cfg.Feedback.DistanceTolerance != 0.000005 {
		t.Errorf("expected distance tolerance 5e-6, got %g", cfg.Feedback.DistanceTolerance)
	}
	if cfg.Feedback.AngleTolerance != 0.000005 {
		t.Errorf("expected angle tolerance 5e-6, got %g", cfg.Feedback.AngleTolerance)
	}
	if cfg.Feedback.QueueSize != 256 {
		t.Errorf("expected queue size 256, got %d", cfg.Feedback.QueueSize)
	}

	if cfg.Rig.PointsFrame != "part" {
		t.Errorf("expected points frame 'part', got %s", cfg.Rig.PointsFrame)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "rigsync.yaml")

	yamlContent := `
files:
  settings: "/etc/rig/settings.yaml"
  backup_points: "/var/lib/rig/backup.task"

feedback:
  distance_tolerance: 0.001
  angle_tolerance: 0.01
  queue_size: 64
  stale_after: 2s

rig:
  points_frame: "desk"

logging:
  level: "debug"
  log_file: "rig.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Files.Settings != "/etc/rig/settings.yaml" {
		t.Errorf("expected settings path from file, got %s", cfg.Files.Settings)
	}
	if cfg.Files.BackupPoints != "/var/lib/rig/backup.task" {
		t.Errorf("expected backup path from file, got %s", cfg.Files.BackupPoints)
	}
	if cfg.Feedback.DistanceTolerance != 0.001 {
		t.Errorf("expected distance tolerance 0.001, got %g", cfg.Feedback.DistanceTolerance)
	}
	if cfg.Feedback.AngleTolerance != 0.01 {
		t.Errorf("expected angle tolerance 0.01, got %g", cfg.Feedback.AngleTolerance)
	}
	if cfg.Feedback.QueueSize != 64 {
		t.Errorf("expected queue size 64, got %d", cfg.Feedback.QueueSize)
	}
	if cfg.Feedback.StaleAfter != 2*time.Second {
		t.Errorf("expected stale_after 2s, got %v", cfg.Feedback.StaleAfter)
	}
	if cfg.Rig.PointsFrame != "desk" {
		t.Errorf("expected points frame 'desk', got %s", cfg.Rig.PointsFrame)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "rig.log" {
		t.Errorf("expected log file 'rig.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
feedback:
  queue_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/rigsync.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "rigsync.yaml")
	if err := os.WriteFile(configPath, []byte("rig:\n  points_frame: part\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find rigsync.yaml in current directory")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rigsync.yaml")

	cfg := Default()
	cfg.Rig.PointsFrame = "desk"
	cfg.Feedback.QueueSize = 8
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Rig.PointsFrame != "desk" || loaded.Feedback.QueueSize != 8 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "settings and backup flags",
			setup: func() {
				*flagSettings = "custom.yaml"
				*flagBackup = "custom.task"
			},
			verify: func(cfg *Config) {
				if cfg.Files.Settings != "custom.yaml" {
					t.Errorf("expected settings custom.yaml, got %s", cfg.Files.Settings)
				}
				if cfg.Files.BackupPoints != "custom.task" {
					t.Errorf("expected backup custom.task, got %s", cfg.Files.BackupPoints)
				}
			},
			teardown: func() {
				*flagSettings = ""
				*flagBackup = ""
			},
		},
		{
			name: "frame flag",
			setup: func() {
				*flagFrame = "desk"
			},
			verify: func(cfg *Config) {
				if cfg.Rig.PointsFrame != "desk" {
					t.Errorf("expected points frame desk, got %s", cfg.Rig.PointsFrame)
				}
			},
			teardown: func() {
				*flagFrame = ""
			},
		},
		{
			name: "log file flag",
			setup: func() {
				*flagLogFile = "journal.log"
			},
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "journal.log" {
					t.Errorf("expected log file journal.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() {
				*flagLogFile = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "rigsync.yaml")

	yamlContent := `
files:
  settings: "from-file.yaml"
  backup_points: "from-file.task"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagSettings = "from-flag.yaml"
	defer func() {
		*flagConfig = ""
		*flagSettings = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file
	if cfg.Files.Settings != "from-flag.yaml" {
		t.Errorf("expected settings from flag, got %s", cfg.Files.Settings)
	}
	// File beats default
	if cfg.Files.BackupPoints != "from-file.task" {
		t.Errorf("expected backup from file, got %s", cfg.Files.BackupPoints)
	}
}
