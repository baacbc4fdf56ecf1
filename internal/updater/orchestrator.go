package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/charleira/b3penny/internal/metrics"
	"github.com/charleira/b3penny/internal/model"
)

// ErrBusy is returned by a trigger while a regeneration is already running.
// The rejection has no side effects; the caller must re-trigger later.
var ErrBusy = errors.New("update already running")

// Config holds orchestrator configuration.
type Config struct {
	Command []string      // argv of the collection process
	WorkDir string        // Working directory (the repository root the script expects)
	Timeout time.Duration // Hard deadline after which the process is killed (default: 10m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Command: []string{"python3", "scripts/update_stocks.py"},
		WorkDir: ".",
		Timeout: 10 * time.Minute,
	}
}

// Orchestrator owns the single-flight guard and the process-wide UpdateState.
// Nothing outside this package writes either.
type Orchestrator struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	running atomic.Bool

	mu    sync.Mutex
	state model.UpdateState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an Orchestrator.
func New(cfg Config, logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// TriggerManual starts a regeneration with an explicit maximum price filter.
// It returns nil as soon as the run is accepted; completion is observable via
// State. Returns ErrBusy if a run is already in flight.
func (o *Orchestrator) TriggerManual(maxPrice decimal.Decimal) error {
	return o.trigger(model.TriggerManual, []string{"--max-preco", maxPrice.String()})
}

// TriggerScheduled starts an unattended regeneration. The script applies its
// own default price filter; no argument is passed.
func (o *Orchestrator) TriggerScheduled() error {
	return o.trigger(model.TriggerScheduled, nil)
}

// Running reports whether a regeneration is in flight.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// State returns a copy of the current update state.
func (o *Orchestrator) State() model.UpdateState {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.state
	st.Running = o.running.Load()
	return st
}

// Stop cancels any in-flight subprocess and waits for the background run to
// settle, bounded by ctx. A run that outlives ctx is a known limitation: the
// partial output files are never observed because the script writes them
// last.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.cancel()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// trigger performs the atomic check-and-set and launches the background run.
// No state is touched when the guard is already held.
func (o *Orchestrator) trigger(kind string, extraArgs []string) error {
	if !o.running.CompareAndSwap(false, true) {
		if o.metrics != nil {
			o.metrics.UpdateRuns.WithLabelValues(kind, "busy").Inc()
		}
		return ErrBusy
	}

	runID := uuid.New()
	started := time.Now().UTC()

	o.mu.Lock()
	o.state.LastRunID = runID
	o.state.LastTrigger = kind
	o.state.LastStartedAt = &started
	o.mu.Unlock()

	if o.metrics != nil {
		o.metrics.UpdateRunning.Set(1)
	}

	o.logger.Info("update accepted",
		"run_id", runID,
		"trigger", kind,
		"args", strings.Join(extraArgs, " "),
	)

	o.wg.Add(1)
	go o.run(runID, kind, extraArgs, started)

	return nil
}

// run invokes the collection script and records the outcome. It is the only
// writer of LastFinishedAt/LastError and always clears the guard last.
func (o *Orchestrator) run(runID uuid.UUID, kind string, extraArgs []string, started time.Time) {
	defer o.wg.Done()

	ctx, cancel := context.WithTimeout(o.ctx, o.cfg.Timeout)
	defer cancel()

	args := append(append([]string{}, o.cfg.Command[1:]...), extraArgs...)
	cmd := exec.CommandContext(ctx, o.cfg.Command[0], args...)
	cmd.Dir = o.cfg.WorkDir

	// The collection script spawns its own children (the R subprocess,
	// fetch workers). Run it in its own process group and kill the whole
	// group on cancellation, otherwise a surviving grandchild holds the
	// stderr pipe open and the run never settles.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	// Bound Wait even if something escaped the group and kept a pipe open.
	cmd.WaitDelay = 5 * time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	finished := time.Now().UTC()
	duration := finished.Sub(started)

	outcome := "ok"
	var failure string
	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		outcome = "timeout"
		failure = fmt.Sprintf("update timed out after %s", o.cfg.Timeout)
	default:
		outcome = "error"
		failure = err.Error()
		if tail := stderrTail(stderr.String()); tail != "" {
			failure += ": " + tail
		}
	}

	o.mu.Lock()
	o.state.LastFinishedAt = &finished
	o.state.LastError = failure
	o.mu.Unlock()

	// Clear the guard only after the outcome is recorded, so a status read
	// never sees an idle orchestrator with a stale finish time.
	o.running.Store(false)

	if o.metrics != nil {
		o.metrics.UpdateRuns.WithLabelValues(kind, outcome).Inc()
		o.metrics.UpdateDuration.Observe(duration.Seconds())
		o.metrics.UpdateRunning.Set(0)
	}

	if failure != "" {
		o.logger.Error("update failed",
			"run_id", runID,
			"trigger", kind,
			"outcome", outcome,
			"duration", duration,
			"error", failure,
		)
		return
	}

	o.logger.Info("update finished",
		"run_id", runID,
		"trigger", kind,
		"duration", duration,
	)
}

// stderrTail keeps the last non-empty line of the script's stderr so the
// recorded failure stays one line.
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
