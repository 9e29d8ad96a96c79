package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/forgo/guildhall/api/internal/metrics"
	"github.com/forgo/guildhall/api/internal/model"
)

// DriftSource reports quests whose bookmark counter disagrees with their
// bookmark records.
type DriftSource interface {
	BookmarkDrift(ctx context.Context) ([]model.CounterDrift, error)
}

// BookmarkAuditor periodically compares every quest's bookmark counter
// with its bookmark records. It reports drift through the log and the
// bookmark_drift gauge but never rewrites a counter: only the toggle
// transaction changes it.
type BookmarkAuditor struct {
	source   DriftSource
	interval time.Duration
	delay    time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewBookmarkAuditor creates an auditor that runs every interval
func NewBookmarkAuditor(source DriftSource, interval time.Duration) *BookmarkAuditor {
	if interval == 0 {
		interval = 15 * time.Minute
	}
	return &BookmarkAuditor{
		source:   source,
		interval: interval,
		delay:    5 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the audit loop. Calling it twice is a no-op.
func (a *BookmarkAuditor) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.mu.Unlock()

	a.wg.Add(1)
	go a.run()
	slog.Info("bookmark auditor started", slog.Duration("interval", a.interval))
}

// Stop ends the loop and waits for an in-flight pass to finish
func (a *BookmarkAuditor) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.mu.Unlock()

	close(a.stopCh)
	a.wg.Wait()
	slog.Info("bookmark auditor stopped")
}

// IsRunning reports whether the loop is active
func (a *BookmarkAuditor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *BookmarkAuditor) run() {
	defer a.wg.Done()

	// Let the server finish starting before the first pass
	select {
	case <-time.After(a.delay):
	case <-a.stopCh:
		return
	}
	a.audit()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.audit()
		case <-a.stopCh:
			return
		}
	}
}

func (a *BookmarkAuditor) audit() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := a.RunOnce(ctx); err != nil {
		slog.Error("bookmark audit failed", slog.String("error", err.Error()))
	}
}

// RunOnce performs a single audit pass and returns the drift it found
func (a *BookmarkAuditor) RunOnce(ctx context.Context) ([]model.CounterDrift, error) {
	drift, err := a.source.BookmarkDrift(ctx)
	if err != nil {
		return nil, err
	}

	metrics.SetBookmarkDrift(len(drift))
	for _, d := range drift {
		slog.Warn("bookmark counter drift",
			slog.Int("quest_id", d.QuestID),
			slog.Int("stored", d.Stored),
			slog.Int("actual", d.Actual),
		)
	}
	return drift, nil
}
