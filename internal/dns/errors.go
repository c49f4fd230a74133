package dns

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is matched by provider calls answered with HTTP 404
	ErrNotFound = errors.New("not found")

	// ErrUnresolvable is matched by every *UnresolvableError
	ErrUnresolvable = errors.New("DNS provider cannot be resolved")

	// ErrRecordInactive is returned when pushing a record marked inactive
	ErrRecordInactive = errors.New("DNS record is inactive")
)

// UnresolvableError is returned when no adapter exists for a provider name
type UnresolvableError struct {
	Name       string
	Registered []string
	Err        error // factory failure, nil for an unknown name
}

func (e *UnresolvableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("DNS provider %q cannot be constructed: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unsupported DNS provider: %q (registered: %s)", e.Name, strings.Join(e.Registered, ", "))
}

func (e *UnresolvableError) Is(target error) bool {
	return target == ErrUnresolvable
}

func (e *UnresolvableError) Unwrap() error {
	return e.Err
}

// UnimplementedError is returned by adapters that do not implement an operation
type UnimplementedError struct {
	Provider  string
	Operation string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("%s provider: %s() must be implemented", e.Provider, e.Operation)
}

// CallError describes a failed provider call.
// StatusCode is 0 when no HTTP response was received.
type CallError struct {
	Provider   string
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *CallError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s failed: %s", e.Provider, e.Operation, msg)
	}
	return fmt.Sprintf("%s %s failed: %d: %s", e.Provider, e.Operation, e.StatusCode, msg)
}

func (e *CallError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by a *CallError in err's chain, or 0
func StatusOf(err error) int {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.StatusCode
	}
	return 0
}
