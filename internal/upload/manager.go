// Package upload simulates file transfers.
//
// The progress reported here is cosmetic: no bytes move. Each task advances
// by a bounded random step on a fixed tick and is forced to completion at a
// hard deadline, so every accepted task terminates.
package upload

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/logging"
	"github.com/filedesk/backend/internal/metrics"
	"github.com/filedesk/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTickInterval = 200 * time.Millisecond
	DefaultDeadline     = 3 * time.Second
	DefaultMaxIncrement = 20.0
)

// CompletionFunc runs once when a task reaches 100%. It returns the id of
// whatever the upload produced (a file record or a document).
type CompletionFunc func(ctx context.Context, file models.LocalFile) (string, error)

// IncrementFunc returns the progress step added on one tick.
type IncrementFunc func() float64

// Options tunes the simulation. Zero values select the defaults.
type Options struct {
	TickInterval time.Duration
	Deadline     time.Duration
	MaxIncrement float64
	// Increment overrides the random step in [0, MaxIncrement).
	Increment IncrementFunc
	// Validator, when set, runs before a task is created.
	Validator Validator
	Publisher events.Publisher
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.Deadline <= 0 {
		o.Deadline = DefaultDeadline
	}
	if o.MaxIncrement <= 0 {
		o.MaxIncrement = DefaultMaxIncrement
	}
	if o.Increment == nil {
		limit := o.MaxIncrement
		o.Increment = func() float64 { return rand.Float64() * limit }
	}
	if o.Publisher == nil {
		o.Publisher = events.Discard{}
	}
	return o
}

// Manager owns the set of visible upload tasks.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*task
	opts  Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.Logger
}

type task struct {
	state *models.UploadTask // guarded by Manager.mu
	file  models.LocalFile
	done  CompletionFunc
}

// NewManager creates a new upload manager.
func NewManager(opts Options) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		tasks:  make(map[string]*task),
		opts:   opts.withDefaults(),
		ctx:    ctx,
		cancel: cancel,
		log:    logging.Named("upload"),
	}
}

// Start accepts a local file and begins simulating its transfer into
// folder. A file refused by the validator yields a task already in the
// error state; done is never called for it.
func (m *Manager) Start(file models.LocalFile, folder string, done CompletionFunc) models.UploadTask {
	t := &task{
		state: models.NewUploadTask(uuid.New().String(), file, folder),
		file:  file,
		done:  done,
	}

	if m.opts.Validator != nil {
		if err := m.opts.Validator(file); err != nil {
			now := time.Now()
			t.state.Status = models.UploadStatusError
			t.state.Error = err.Error()
			t.state.CompletedAt = &now

			m.mu.Lock()
			m.tasks[t.state.ID] = t
			snapshot := *t.state
			m.mu.Unlock()

			metrics.UploadRejected()
			m.log.Info("upload rejected", zap.String("task", snapshot.ID),
				zap.String("file", file.Name), zap.Error(err))
			m.publish(events.EventUploadError, snapshot)
			return snapshot
		}
	}

	m.mu.Lock()
	m.tasks[t.state.ID] = t
	snapshot := *t.state
	m.mu.Unlock()

	metrics.UploadStarted()
	m.log.Debug("upload started", zap.String("task", snapshot.ID),
		zap.String("file", file.Name), zap.Int64("size", file.Size), zap.String("folder", folder))
	m.publish(events.EventUploadProgress, snapshot)

	m.wg.Add(1)
	go m.run(t)

	return snapshot
}

// run drives one task until it completes, hits the deadline, or the
// manager is closed.
func (m *Manager) run(t *task) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.opts.TickInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(m.opts.Deadline)
	defer deadline.Stop()

	for {
		select {
		case <-m.ctx.Done():
			m.fail(t, "upload cancelled")
			return
		case <-ticker.C:
			if m.advance(t) {
				m.complete(t)
				return
			}
		case <-deadline.C:
			m.complete(t)
			return
		}
	}
}

// advance adds one step of progress and reports whether the task reached
// 100%. Progress is only set to 100 by complete.
func (m *Manager) advance(t *task) bool {
	step := m.opts.Increment()
	if step < 0 {
		step = 0
	}

	m.mu.Lock()
	next := t.state.Progress + step
	if next >= 100 {
		m.mu.Unlock()
		return true
	}
	t.state.Progress = next
	snapshot := *t.state
	m.mu.Unlock()

	m.publish(events.EventUploadProgress, snapshot)
	return false
}

func (m *Manager) complete(t *task) {
	var recordID string
	if t.done != nil {
		id, err := t.done(m.ctx, t.file)
		if err != nil {
			m.fail(t, fmt.Sprintf("completing upload: %v", err))
			return
		}
		recordID = id
	}

	now := time.Now()
	m.mu.Lock()
	t.state.Progress = 100
	t.state.Status = models.UploadStatusCompleted
	t.state.RecordID = recordID
	t.state.CompletedAt = &now
	snapshot := *t.state
	m.mu.Unlock()

	metrics.UploadFinished(string(models.UploadStatusCompleted), now.Sub(snapshot.CreatedAt))
	m.log.Info("upload completed", zap.String("task", snapshot.ID),
		zap.String("file", snapshot.FileName), zap.String("record", recordID))
	m.publish(events.EventUploadCompleted, snapshot)
}

func (m *Manager) fail(t *task, msg string) {
	now := time.Now()
	m.mu.Lock()
	t.state.Status = models.UploadStatusError
	t.state.Error = msg
	t.state.CompletedAt = &now
	snapshot := *t.state
	m.mu.Unlock()

	metrics.UploadFinished(string(models.UploadStatusError), now.Sub(snapshot.CreatedAt))
	m.log.Warn("upload failed", zap.String("task", snapshot.ID), zap.String("error", msg))
	m.publish(events.EventUploadError, snapshot)
}

func (m *Manager) publish(eventType string, snapshot models.UploadTask) {
	m.opts.Publisher.Publish(events.Event{Type: eventType, ID: snapshot.ID, Data: snapshot})
}

// Get returns a copy of a visible task.
func (m *Manager) Get(id string) (models.UploadTask, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return models.UploadTask{}, false
	}
	return *t.state, true
}

// List returns copies of the visible tasks, oldest first.
func (m *Manager) List() []models.UploadTask {
	m.mu.RLock()
	out := make([]models.UploadTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t.state)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.UploadTask) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// Dismiss hides a task. An in-flight transfer keeps running and still
// delivers its result.
func (m *Manager) Dismiss(id string) bool {
	m.mu.Lock()
	t, ok := m.tasks[id]
	if ok {
		delete(m.tasks, id)
	}
	m.mu.Unlock()

	if ok {
		m.opts.Publisher.Publish(events.Event{Type: events.EventUploadDismissed, ID: t.state.ID})
	}
	return ok
}

// ClearCompleted hides every completed task and returns how many were
// removed. Failed tasks stay visible.
func (m *Manager) ClearCompleted() int {
	return m.removeWhere(func(t *task) bool {
		return t.state.Status == models.UploadStatusCompleted
	})
}

// CleanupOldTasks removes terminal tasks that finished more than maxAge ago.
func (m *Manager) CleanupOldTasks(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	return m.removeWhere(func(t *task) bool {
		return t.state.Terminal() && t.state.CompletedAt != nil && t.state.CompletedAt.Before(cutoff)
	})
}

// removeWhere hides the matching tasks and publishes a dismissal for each.
func (m *Manager) removeWhere(match func(*task) bool) int {
	var removed []string
	m.mu.Lock()
	for id, t := range m.tasks {
		if match(t) {
			delete(m.tasks, id)
			removed = append(removed, id)
		}
	}
	m.mu.Unlock()

	for _, id := range removed {
		m.opts.Publisher.Publish(events.Event{Type: events.EventUploadDismissed, ID: id})
	}
	return len(removed)
}

// RunCleanup calls CleanupOldTasks every interval until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval, maxAge time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.CleanupOldTasks(maxAge); n > 0 {
				m.log.Debug("cleaned up upload tasks", zap.Int("removed", n))
			}
		}
	}
}

// Wait blocks until every in-flight task has terminated.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close cancels in-flight tasks and waits for them. Cancelled tasks end in
// the error state without calling their completion func.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}
