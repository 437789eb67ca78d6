// Package remote defines the contract with the managed backend service
// that mirrors the local store. The sync engine only sees this interface;
// typed failures decide whether a queued mutation is retried (network) or
// discarded and surfaced to the user (conflict class).
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/uniplan/uniplan/internal/models"
)

var (
	// ErrNotFound means the remote record a mutation targets no longer exists
	ErrNotFound = errors.New("remote record not found")

	// ErrUnauthorized means the remote rejected our credentials
	ErrUnauthorized = errors.New("remote authorization failed")
)

// ValidationError is a remote-side rejection of a mutation's content,
// e.g. a constraint violation. Not retryable.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("remote validation failed: %s", e.Detail)
}

// NetworkError wraps a transient transport failure. Retryable: the queued
// mutation stays in place for the next sync pass.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the failure is transient. Anything that is
// not a network error discards the offending queue entry.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// Service is the remote mirror of the local collections. Apply executes
// one mutation; implementations must be idempotent under replay (client
// generated ids, upsert semantics) so a crash mid-sync cannot duplicate
// records.
type Service interface {
	Ping(ctx context.Context) error
	Apply(ctx context.Context, m models.Mutation) error
	Close() error
}

// ErrNoRemote means no remote service has been configured on this device.
var ErrNoRemote = errors.New("no remote service configured")

// offline is the Service used when no backend is configured. Every call
// fails with a retryable NetworkError so local writes queue up and replay
// untouched once a real remote is wired in.
type offline struct{}

// Offline returns a Service for devices without a configured backend.
func Offline() Service {
	return offline{}
}

func (offline) Ping(context.Context) error { return &NetworkError{Err: ErrNoRemote} }

func (offline) Apply(context.Context, models.Mutation) error {
	return &NetworkError{Err: ErrNoRemote}
}

func (offline) Close() error { return nil }
