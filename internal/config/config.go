package config

import "time"

// ServerConfig is the root configuration for the dashboard service.
type ServerConfig struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Data      DataConfig      `yaml:"data"`
	Updater   UpdaterConfig   `yaml:"updater"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// HTTPConfig holds listener settings for the API server.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	StaticDir    string        `yaml:"static_dir"` // Dashboard assets; "" disables static serving
}

// DataConfig locates the snapshot files the collection script writes.
type DataConfig struct {
	StocksPath      string `yaml:"stocks_path"`
	DerivativesPath string `yaml:"derivatives_path"`
}

// UpdaterConfig holds settings for invoking the collection script.
type UpdaterConfig struct {
	Command         []string      `yaml:"command"`           // argv of the collection process
	WorkDir         string        `yaml:"work_dir"`          // Repository root the script expects as cwd
	Timeout         time.Duration `yaml:"timeout"`           // Hard kill deadline for a run
	DefaultMaxPrice string        `yaml:"default_max_price"` // --max-preco when a manual trigger omits it
}

// SchedulerConfig holds the unattended-regeneration window settings.
// WindowOpen and WindowClose are "HH:MM" on the 24-hour UTC clock, both
// endpoints inclusive.
type SchedulerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	WindowOpen  string        `yaml:"window_open"`
	WindowClose string        `yaml:"window_close"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Path string `yaml:"path"`
}
