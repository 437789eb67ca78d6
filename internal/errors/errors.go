package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/uniplan/uniplan/internal/logger"
)

var (
	// ErrStorageUnavailable means local persistence is inaccessible; core
	// functions degrade to in-memory-only with no offline durability.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrInvalidTransition means a step transition was attempted from a
	// terminal or nonexistent step. Rejected quietly in the CLI; tests assert.
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrAllStepsResolved signals the end of a routine execution session:
	// every step is completed or skipped.
	ErrAllStepsResolved = errors.New("all steps resolved")

	// ErrNoActiveSession means an execution command was issued for a routine
	// with no session in progress.
	ErrNoActiveSession = errors.New("no active session for routine")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
