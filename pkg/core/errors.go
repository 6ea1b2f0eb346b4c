// core/errors.go
package core

import "errors"

// Sentinel errors for the routing core. Every condition here is recovered
// locally; none of them is fatal to the process.
var (
	// ErrLoadFailure marks a candidate file, type or method that could not be inspected.
	ErrLoadFailure = errors.New("candidate load failure")
	// ErrRootUnavailable marks a scan root that could not be opened.
	ErrRootUnavailable = errors.New("scan root unavailable")
	// ErrUnbound marks a discovered route whose invoker was never registered.
	ErrUnbound = errors.New("no registered invoker")
	// ErrInvocation marks a handler that failed or panicked while running.
	ErrInvocation = errors.New("handler invocation failed")
	// ErrRouteNotFound marks a request no static resource or handler matched.
	ErrRouteNotFound = errors.New("route not found")
)

// SkipKind classifies a skipped scan candidate.
type SkipKind string

const (
	SkipLoadFailure     SkipKind = "load_failure"
	SkipRootUnavailable SkipKind = "root_unavailable"
	SkipUnbound         SkipKind = "unbound"
)

// Skipped records one candidate that did not make it into the table.
type Skipped struct {
	Source string
	Kind   SkipKind
	Err    error
}

func (s Skipped) Error() string {
	if s.Err == nil {
		return string(s.Kind) + ": " + s.Source
	}
	return string(s.Kind) + ": " + s.Source + ": " + s.Err.Error()
}

func (s Skipped) Unwrap() error { return s.Err }
