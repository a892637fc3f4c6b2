package pipeline

import (
	"fmt"
	"strings"
)

// ValidationError reports required fields missing from an inbound record. It
// never aborts a batch; the offending item is skipped.
type ValidationError struct {
	ComplaintID string
	Missing     []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// ExternalServiceError wraps a failed LLM, embedding, or vector-index call.
// Propagated as-is: retry and backoff are not this layer's concern.
type ExternalServiceError struct {
	ComplaintID string
	Stage       string
	Err         error
}

func (e *ExternalServiceError) Error() string {
	if e.ComplaintID != "" {
		return fmt.Sprintf("stage %s failed for complaint %s: %v", e.Stage, e.ComplaintID, e.Err)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed relational write or read outside the
// tolerated conflict clauses.
type PersistenceError struct {
	ComplaintID string
	Stage       string
	Err         error
}

func (e *PersistenceError) Error() string {
	if e.ComplaintID != "" {
		return fmt.Sprintf("stage %s failed for complaint %s: %v", e.Stage, e.ComplaintID, e.Err)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
