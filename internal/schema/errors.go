package schema

import "fmt"

// ValidationError reports malformed dish or tool arguments. It is raised
// before any I/O and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports missing restaurant or user context, a precondition
// failure surfaced to the caller.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// ParseError reports a vision reply that is not in the expected fenced-JSON
// shape. Callers should tell the user the image was not a menu rather than
// guessing.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse menu: " + e.Reason
}

// StoreError wraps a remote or local I/O failure. The assistant absorbs these
// at the tool-dispatch boundary and folds them into the reply text.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// BackendError reports a generative-service failure, including quota and
// authentication errors. It propagates to the caller.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Message)
	}
	return "backend: " + e.Message
}
