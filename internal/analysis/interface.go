package analysis

import "context"

// Analyzer defines the webhook operations used by the study service.
// This interface enables testability by allowing mock implementations.
type Analyzer interface {
	Analyze(ctx context.Context, p Payload) Outcome
}

// Ensure Client implements the interface
var _ Analyzer = (*Client)(nil)
