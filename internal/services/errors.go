package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFatal marks failures that must abort the whole run, such as a
	// missing seed-review artifact or a malformed criteria document.
	ErrFatal = errors.New("fatal error")
	// ErrValidation marks records that cannot be processed as given.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups whose subject does not exist upstream.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited marks upstream throttling responses.
	ErrRateLimited = errors.New("rate limited")
	// ErrTimeout marks external calls that exceeded their deadline.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks retryable failures with no more specific class.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the orchestrator run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}

// Retryable reports whether an error class is worth another attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrTransient)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
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
