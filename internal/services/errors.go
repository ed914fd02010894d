package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures of the transcoder binary or an external
	// provider.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks per-item input problems.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks misconfiguration the user must fix.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks negative lookups that are not faults.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks wall-clock ceiling expiry (fatal for the item).
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks retryable faults such as a failed copy attempt.
	ErrTransient = errors.New("transient failure")
	// ErrUnreachable marks a destination that cannot be reached after
	// reconnection attempts.
	ErrUnreachable = errors.New("destination unreachable")
)

// Wrap builds an error whose message carries stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancellation reports whether err stems from cooperative cancellation
// rather than a genuine failure. Cancellation is never re-wrapped into the
// taxonomy above.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
