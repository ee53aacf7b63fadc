// Package abuse implements the heuristic filter in front of the public
// verification-submission endpoint. It classifies likely-automated
// submissions so the handler can return a success-shaped response while
// skipping every downstream write; the caller never learns it was detected.
package abuse

import "time"

// MinCompletionTime is the shortest time a human plausibly takes between the
// form being rendered and the submission arriving. Anything faster is
// classified as automated. Exactly this long is accepted.
const MinCompletionTime = 10 * time.Second

// Submission carries the abuse-relevant parts of a form submission: the
// values of the decoy fields and the client-reported render time.
type Submission struct {
	// Honeypot maps decoy field names to the submitted values. The fields
	// are never visible to a real user, so any non-empty value is automated
	// input.
	Honeypot map[string]string

	// StartedAt is the client-reported time the form was rendered. Nil when
	// the client did not send one; older clients omit the field, so its
	// absence is not a bot signal.
	StartedAt *time.Time
}

// Gate evaluates submissions. It is stateless across calls.
type Gate struct {
	now func() time.Time
}

// NewGate creates a gate that evaluates timing against the wall clock.
func NewGate() *Gate {
	return &Gate{now: time.Now}
}

// NewGateAt creates a gate with a fixed clock, for tests.
func NewGateAt(now func() time.Time) *Gate {
	return &Gate{now: now}
}

// IsLikelyBot classifies a submission. True means the caller should suppress
// all real processing while still returning a success-shaped response.
func (g *Gate) IsLikelyBot(sub Submission) bool {
	for _, value := range sub.Honeypot {
		if value != "" {
			return true
		}
	}

	if sub.StartedAt != nil {
		if g.now().Sub(*sub.StartedAt) < MinCompletionTime {
			return true
		}
	}

	return false
}
