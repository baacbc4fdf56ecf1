package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/charleira/b3penny/internal/metrics"
	"github.com/charleira/b3penny/internal/updater"
)

// Trigger is the orchestrator surface the scheduler drives. Running is only
// a cheap pre-check; the trigger's own guard stays authoritative.
type Trigger interface {
	TriggerScheduled() error
	Running() bool
}

// Config holds scheduler configuration. WindowOpen and WindowClose are
// minutes of the UTC day, both endpoints inclusive.
type Config struct {
	Interval    time.Duration // Check period (default: 30m)
	WindowOpen  int           // Default: 13:00 UTC
	WindowClose int           // Default: 21:20 UTC
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    30 * time.Minute,
		WindowOpen:  13 * 60,
		WindowClose: 21*60 + 20,
	}
}

// Scheduler periodically requests unattended regenerations during the
// trading window.
type Scheduler struct {
	cfg     Config
	trigger Trigger
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Scheduler.
func New(cfg Config, trigger Trigger, logger *slog.Logger, m *metrics.Metrics) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:     cfg,
		trigger: trigger,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Start begins the periodic window checks.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("trading-window scheduler started",
		"interval", s.cfg.Interval,
		"window_open_utc", clockString(s.cfg.WindowOpen),
		"window_close_utc", clockString(s.cfg.WindowClose),
	)

	return nil
}

// Stop cancels the pending timer and waits for the loop to exit. No trigger
// fires after Stop returns.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("trading-window scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main check loop.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.check()
		}
	}
}

// check evaluates the window and, when permitted, asks for a scheduled run.
func (s *Scheduler) check() {
	now := s.now().UTC()

	if !s.inWindow(now) {
		s.count("outside_window")
		s.logger.Debug("outside trading window", "now_utc", now.Format("15:04"))
		return
	}

	// Read-only pre-check; a manual trigger can still win the race below.
	if s.trigger.Running() {
		s.count("busy")
		s.logger.Debug("update in flight, skipping scheduled trigger")
		return
	}

	err := s.trigger.TriggerScheduled()
	switch {
	case err == nil:
		s.count("triggered")
		s.logger.Info("scheduled update triggered", "now_utc", now.Format("15:04"))
	case errors.Is(err, updater.ErrBusy):
		// Expected overlap with a manual update.
		s.count("busy")
		s.logger.Debug("scheduled trigger lost to a concurrent update")
	default:
		s.logger.Warn("scheduled trigger failed", "error", err)
	}
}

// inWindow reports whether t falls inside the trading window, endpoints
// inclusive.
func (s *Scheduler) inWindow(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	return minute >= s.cfg.WindowOpen && minute <= s.cfg.WindowClose
}

func (s *Scheduler) count(result string) {
	if s.metrics != nil {
		s.metrics.SchedulerChecks.WithLabelValues(result).Inc()
	}
}

func clockString(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04")
}
