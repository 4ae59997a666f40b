package job

import (
	"errors"
	"fmt"
	"strings"

	"github.com/honeycarbs/offerscout/internal/domain"
)

var (
	// ErrNotConfigured means a provider lacks credentials. It is expected,
	// never retried and not counted as a failure.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrNoProviderConfigured is returned before any network call when no
	// provider can serve the search.
	ErrNoProviderConfigured = errors.New("no job provider configured")
)

// AdapterError tags a failure of a single provider. Network errors, non-2xx
// statuses and undecodable bodies all end up here.
type AdapterError struct {
	Source domain.Source
	Err    error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError wraps err for source unless it is already ErrNotConfigured
func NewAdapterError(source domain.Source, err error) error {
	if err == nil || errors.Is(err, ErrNotConfigured) {
		return err
	}
	return &AdapterError{Source: source, Err: err}
}

// AggregateError is returned when every selected provider failed
type AggregateError struct {
	Failures []error
}

func (e *AggregateError) Error() string {
	if len(e.Failures) == 0 {
		return "all job providers failed"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return "all job providers failed: " + strings.Join(parts, "; ")
}

func (e *AggregateError) Unwrap() []error {
	return e.Failures
}
