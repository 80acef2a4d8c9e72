package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Write a rotating log journal to this file")
	flagSettings = flag.String("settings", "", "Calibration settings file")
	flagBackup   = flag.String("backup", "", "Task/home points backup file")
	flagFrame    = flag.String("frame", "", "Body that carries the points (desk, part, lhead, grip)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagSettings != "" {
		cfg.Files.Settings = *flagSettings
	}
	if *flagBackup != "" {
		cfg.Files.BackupPoints = *flagBackup
	}
	if *flagFrame != "" {
		cfg.Rig.PointsFrame = *flagFrame
	}
}
