package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServerConfig) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}

	if c.Data.StocksPath == "" {
		return errors.New("data.stocks_path is required")
	}
	if c.Data.DerivativesPath == "" {
		return errors.New("data.derivatives_path is required")
	}

	if len(c.Updater.Command) == 0 {
		return errors.New("updater.command is required")
	}
	if c.Updater.Timeout <= 0 {
		return errors.New("updater.timeout must be positive")
	}
	maxPrice, err := decimal.NewFromString(c.Updater.DefaultMaxPrice)
	if err != nil {
		return fmt.Errorf("updater.default_max_price is not a decimal: %w", err)
	}
	if !maxPrice.IsPositive() {
		return fmt.Errorf("updater.default_max_price must be positive, got %s", maxPrice)
	}

	if c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("scheduler.interval must be >= 1m, got %s", c.Scheduler.Interval)
	}
	open, err := parseClock(c.Scheduler.WindowOpen)
	if err != nil {
		return fmt.Errorf("scheduler.window_open: %w", err)
	}
	close_, err := parseClock(c.Scheduler.WindowClose)
	if err != nil {
		return fmt.Errorf("scheduler.window_close: %w", err)
	}
	if open > close_ {
		return fmt.Errorf("scheduler window is inverted: %s > %s", c.Scheduler.WindowOpen, c.Scheduler.WindowClose)
	}

	if c.Metrics.Path == "" || c.Metrics.Path[0] != '/' {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}

	return nil
}

// WindowMinutes returns the trading window as inclusive minutes of the UTC
// day. Call Validate first; invalid clock strings return an error here too.
func (c *SchedulerConfig) WindowMinutes() (open, close int, err error) {
	open, err = parseClock(c.WindowOpen)
	if err != nil {
		return 0, 0, fmt.Errorf("window_open: %w", err)
	}
	close, err = parseClock(c.WindowClose)
	if err != nil {
		return 0, 0, fmt.Errorf("window_close: %w", err)
	}
	return open, close, nil
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
