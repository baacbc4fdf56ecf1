package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAddr            = ":3000"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultStocksPath      = "public/stocks.json"
	DefaultDerivativesPath = "data/cotahist.json"
	DefaultUpdaterWorkDir  = "."
	DefaultUpdaterTimeout  = 10 * time.Minute
	DefaultMaxPrice        = "10.0"
	DefaultInterval        = 30 * time.Minute
	DefaultWindowOpen      = "13:00"
	DefaultWindowClose     = "21:20"
	DefaultMetricsPath     = "/metrics"
)

// DefaultUpdaterCommand is the argv of the collection script.
var DefaultUpdaterCommand = []string{"python3", "scripts/update_stocks.py"}

func (c *ServerConfig) applyDefaults() {
	// HTTP defaults
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = DefaultWriteTimeout
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = DefaultIdleTimeout
	}

	// Data defaults
	if c.Data.StocksPath == "" {
		c.Data.StocksPath = DefaultStocksPath
	}
	if c.Data.DerivativesPath == "" {
		c.Data.DerivativesPath = DefaultDerivativesPath
	}

	// Updater defaults
	if len(c.Updater.Command) == 0 {
		c.Updater.Command = DefaultUpdaterCommand
	}
	if c.Updater.WorkDir == "" {
		c.Updater.WorkDir = DefaultUpdaterWorkDir
	}
	if c.Updater.Timeout == 0 {
		c.Updater.Timeout = DefaultUpdaterTimeout
	}
	if c.Updater.DefaultMaxPrice == "" {
		c.Updater.DefaultMaxPrice = DefaultMaxPrice
	}

	// Scheduler defaults
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = DefaultInterval
	}
	if c.Scheduler.WindowOpen == "" {
		c.Scheduler.WindowOpen = DefaultWindowOpen
	}
	if c.Scheduler.WindowClose == "" {
		c.Scheduler.WindowClose = DefaultWindowClose
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
