// Package syncer drains the pending-mutation queue against the remote
// service. One pass at a time: concurrent triggers coalesce into the
// in-flight pass instead of queueing a second one, so overlapping passes
// can never duplicate remote writes.
package syncer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/uniplan/uniplan/internal/constants"
	"github.com/uniplan/uniplan/internal/logger"
	"github.com/uniplan/uniplan/internal/models"
	"github.com/uniplan/uniplan/internal/remote"
	"github.com/uniplan/uniplan/internal/storage"
)

// Conflict is a queued mutation the remote rejected for a non-transient
// reason. It has been discarded from the queue and needs user-visible
// handling; it is never retried automatically.
type Conflict struct {
	Mutation models.Mutation
	Err      error
}

// Result summarizes one sync pass.
type Result struct {
	Replayed  int        // confirmed by the remote and removed from the queue
	Deferred  int        // left queued for the next pass (network failures)
	Conflicts []Conflict // discarded and surfaced
}

// Status is the user-facing sync state for the status indicator.
type Status struct {
	Pending      int
	LastSyncedAt *time.Time
	LastError    string
	InFlight     bool
}

// ConflictFunc receives conflicts as they surface, e.g. for notifications.
type ConflictFunc func(Conflict)

// Engine reconciles the local pending-mutation queue with the remote
// service without data loss on partial failure.
type Engine struct {
	store      storage.Provider
	remote     remote.Service
	group      singleflight.Group
	onConflict ConflictFunc

	mu       sync.Mutex
	inFlight bool
	lastErr  error
	trigger  chan struct{}
}

func New(store storage.Provider, svc remote.Service) *Engine {
	return &Engine{
		store:   store,
		remote:  svc,
		trigger: make(chan struct{}, 1),
	}
}

// OnConflict registers a handler invoked for each surfaced conflict.
func (e *Engine) OnConflict(fn ConflictFunc) {
	e.onConflict = fn
}

// SyncNow runs one sync pass. A call that arrives while a pass is in
// flight shares that pass's result rather than starting another; a pass
// cannot be cancelled mid-flight.
func (e *Engine) SyncNow(ctx context.Context) (Result, error) {
	v, err, _ := e.group.Do("pass", func() (interface{}, error) {
		return e.pass(ctx)
	})

	result, _ := v.(Result)
	return result, err
}

// Trigger requests a sync pass from the Run loop without blocking. Used on
// reconnect transitions and explicit force-sync. Redundant triggers while
// one is already requested are dropped.
func (e *Engine) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// Run performs a pass on a fixed interval and whenever Trigger fires,
// until the context is done. Errors are logged, never fatal: local edits
// stay queued and visible as pending until replayed or discarded.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-e.trigger:
		}

		if _, err := e.SyncNow(ctx); err != nil {
			logger.Warn("Sync pass failed", "error", err)
		}
	}
}

// Push is the optimistic write path. The local write has already been
// persisted by the caller; Push attempts the remote write immediately when
// nothing earlier is queued for the same entity kind (FIFO order must
// hold), and falls back to enqueueing on failure or while offline.
func (e *Engine) Push(ctx context.Context, m models.Mutation) error {
	pending, err := e.store.HasPendingFor(m.Entity)
	if err != nil {
		return err
	}

	if !pending {
		err := e.remote.Apply(ctx, m)
		if err == nil {
			if cursorErr := e.store.SetLastSyncedAt(time.Now()); cursorErr != nil {
				logger.Warn("Failed to update sync cursor", "error", cursorErr)
			}
			return nil
		}
		if !remote.IsRetryable(err) {
			// Immediate conflict: nothing queued, surface directly.
			e.reportConflict(Conflict{Mutation: m, Err: err})
			return err
		}
		logger.Debug("Remote write deferred to queue", "entity", m.Entity, "op", m.Op, "error", err)
	}

	if _, err := e.store.EnqueueMutation(m); err != nil {
		return err
	}
	return nil
}

// Ping checks remote reachability without touching the queue.
func (e *Engine) Ping(ctx context.Context) error {
	return e.remote.Ping(ctx)
}

// Status reports queue depth, cursor, and in-flight state.
func (e *Engine) Status() (Status, error) {
	depth, err := e.store.QueueDepth()
	if err != nil {
		return Status{}, err
	}
	lastSynced, err := e.store.GetLastSyncedAt()
	if err != nil {
		return Status{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	status := Status{
		Pending:      depth,
		LastSyncedAt: lastSynced,
		InFlight:     e.inFlight,
	}
	if e.lastErr != nil {
		status.LastError = e.lastErr.Error()
	}
	return status, nil
}

// pass drains a snapshot of the queue. Replay is strictly FIFO per entity
// kind: a network failure aborts further replay for that kind (ordering
// must be preserved) but independent kinds continue. Conflict-class
// failures discard the entry and surface it.
func (e *Engine) pass(ctx context.Context) (Result, error) {
	e.setInFlight(true)
	defer e.setInFlight(false)

	snapshot, err := e.store.QueueSnapshot()
	if err != nil {
		e.setLastErr(err)
		return Result{}, err
	}
	if len(snapshot) == 0 {
		e.setLastErr(nil)
		return Result{}, nil
	}

	logger.Debug("Starting sync pass", "pending", len(snapshot))

	byKind := make(map[constants.EntityKind][]models.Mutation)
	for _, m := range snapshot {
		byKind[m.Entity] = append(byKind[m.Entity], m)
	}

	var result Result
	var replayed []int64
	var firstNetErr error

	for _, kind := range constants.EntityKinds() {
		muts := byKind[kind]
		for i, m := range muts {
			err := e.remote.Apply(ctx, m)
			if err == nil {
				replayed = append(replayed, m.Seq)
				result.Replayed++
				continue
			}

			if remote.IsRetryable(err) {
				// Leave this and everything after it for this kind in
				// place; continue with independent kinds.
				result.Deferred += len(muts) - i
				if firstNetErr == nil {
					firstNetErr = err
				}
				logger.Debug("Replay aborted for entity kind", "entity", kind, "error", err)
				break
			}

			// Remote validation/not-found/unauthorized: discard and surface.
			conflict := Conflict{Mutation: m, Err: err}
			result.Conflicts = append(result.Conflicts, conflict)
			replayed = append(replayed, m.Seq)
			e.reportConflict(conflict)
		}
	}

	if err := e.store.ConfirmReplayed(replayed); err != nil {
		e.setLastErr(err)
		return result, err
	}

	if result.Replayed > 0 {
		if err := e.store.SetLastSyncedAt(time.Now()); err != nil {
			logger.Warn("Failed to update sync cursor", "error", err)
		}
	}

	e.setLastErr(firstNetErr)
	logger.Info("Sync pass complete",
		"replayed", result.Replayed, "deferred", result.Deferred, "conflicts", len(result.Conflicts))

	return result, nil
}

func (e *Engine) reportConflict(c Conflict) {
	logger.Warn("Sync conflict", "entity", c.Mutation.Entity, "op", c.Mutation.Op, "error", c.Err)
	if e.onConflict != nil {
		e.onConflict(c)
	}
}

func (e *Engine) setInFlight(v bool) {
	e.mu.Lock()
	e.inFlight = v
	e.mu.Unlock()
}

func (e *Engine) setLastErr(err error) {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
}
