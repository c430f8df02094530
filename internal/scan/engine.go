// Package scan runs the category detection strategies over the home-rooted
// layout and produces the items the deletion side later acts on.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/macsweep/macsweep/internal/config"
	"github.com/macsweep/macsweep/internal/rules"
)

// ProgressFunc receives the path currently being visited and the running
// item count. It is called from the scanning goroutine and must not block.
type ProgressFunc func(path string, itemsFound int)

// State is the engine lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// errLimitReached aborts the remaining strategies once MaxResults items
// have been collected. It is an internal control signal, never surfaced.
var errLimitReached = errors.New("scan: result limit reached")

// ErrAlreadyRunning is returned when Scan is called on an engine that has
// a scan in flight.
var ErrAlreadyRunning = errors.New("scan: already running")

// Engine runs the five detection strategies sequentially inside one
// worker. Cancellation is cooperative through the context passed to Scan:
// it is checked before each strategy, before each directory entry, and
// before each item is appended, and never interrupts a filesystem call in
// flight. One Engine supports one scan at a time.
type Engine struct {
	layout   config.Layout
	rules    *rules.Rules
	settings config.Settings
	log      *slog.Logger
	progress ProgressFunc
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// NewEngine builds an engine over an immutable settings snapshot.
func NewEngine(layout config.Layout, r *rules.Rules, settings config.Settings, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		layout:   layout,
		rules:    r,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// SetProgress installs the progress sink. Must be called before Scan.
func (e *Engine) SetProgress(fn ProgressFunc) {
	e.progress = fn
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Scan runs every enabled strategy in fixed order and returns the
// aggregated result. A strategy whose root cannot be read is recorded in
// Result.Errors and the remaining strategies still run. The result is
// returned synchronously; callers wanting a responsive foreground run Scan
// on their own goroutine.
func (e *Engine) Scan(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	e.state = StateRunning
	e.mu.Unlock()

	start := e.now()
	res := &Result{}

	strategies := []struct {
		enabled bool
		name    string
		run     func(context.Context, *Result) error
	}{
		{e.settings.ScanLargeFiles, "large files", e.scanLargeFiles},
		{e.settings.ScanCaches, "caches", e.scanCaches},
		{e.settings.ScanDownloads, "old downloads", e.scanOldDownloads},
		{e.settings.ScanLogs, "logs", e.scanLogs},
		{e.settings.ScanTrash, "trash", e.scanTrash},
	}

	for _, s := range strategies {
		if !s.enabled {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if len(res.Items) >= e.settings.MaxResults {
			break
		}
		e.log.Info("scanning", "strategy", s.name)
		if err := s.run(ctx, res); err != nil {
			if errors.Is(err, errLimitReached) || ctx.Err() != nil {
				break
			}
			e.log.Warn("strategy failed", "strategy", s.name, "error", err)
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", s.name, err))
		}
	}

	res.WasCancelled = ctx.Err() != nil
	res.Duration = e.now().Sub(start)
	for _, item := range res.Items {
		res.TotalSize += item.SizeBytes
	}

	e.mu.Lock()
	if res.WasCancelled {
		e.state = StateCancelled
	} else {
		e.state = StateCompleted
	}
	e.mu.Unlock()

	e.log.Info("scan complete",
		"items", len(res.Items),
		"total_bytes", res.TotalSize,
		"duration", res.Duration,
		"cancelled", res.WasCancelled)
	return res, nil
}

// report forwards progress to the sink, if any.
func (e *Engine) report(path string, found int) {
	if e.progress != nil {
		e.progress(path, found)
	}
}

// appendItem is the single append checkpoint: cancellation and the global
// result ceiling are both enforced here.
func (e *Engine) appendItem(ctx context.Context, res *Result, item *Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(res.Items) >= e.settings.MaxResults {
		return errLimitReached
	}
	res.Items = append(res.Items, item)
	return nil
}
