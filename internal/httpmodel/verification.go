package httpmodel

import (
	"time"

	"github.com/pkg/errors"

	"github.com/clearproof/api/internal/abuse"
	"github.com/clearproof/api/internal/model"
)

// NewVerification is the payload for the public verification-submission
// endpoint.
//
// The Website field is a honeypot: it exists in the form markup but is never
// visible to a real user, so it must never carry a validation rule that
// would reject automated submissions outright. The abuse gate wants to see
// them. StartTime is the client-reported render time in Unix milliseconds;
// older clients omit it.
//
// swagger:model
type NewVerification struct {

	// The module the quiz was taken for
	//
	// required: true
	ModuleID string `json:"module_id" validate:"required"`

	// The worker's display name as entered on the form
	//
	// required: true
	WorkerName string `json:"worker_name" validate:"required,max=100"`

	// The employer-assigned worker identifier
	//
	// required: true
	WorkerID string `json:"worker_id" validate:"required,max=50"`

	// The language the quiz was taken in
	//
	// required: true
	LanguageUsed string `json:"language_used" validate:"required,max=10"`

	// The worker's answers, as a JSON document
	Answers string `json:"answers"`

	// The quiz score, from 0 to 100
	Score int `json:"score" validate:"min=0,max=100"`

	// True if the score met the pass threshold
	Passed bool `json:"passed"`

	// The completion time reported by the client
	//
	// required: true
	CompletedAt string `json:"completed_at" validate:"required"`

	// Honeypot field; hidden from real users
	Website string `json:"website"`

	// The form render time in Unix milliseconds
	StartTime *int64 `json:"_start_time"`
}

// Validate verifies that all the required fields in a new verification are
// present.
func (n NewVerification) Validate() error {
	return errors.Wrap(v.Struct(n), "invalid verification")
}

// ToModel converts the payload to its semantic model. The abuse-gate fields
// are dropped; they are never persisted.
func (n NewVerification) ToModel() model.Verification {
	return model.Verification{
		ModuleID:     n.ModuleID,
		WorkerName:   n.WorkerName,
		WorkerID:     n.WorkerID,
		LanguageUsed: n.LanguageUsed,
		Answers:      n.Answers,
		Score:        n.Score,
		Passed:       n.Passed,
		CompletedAt:  n.CompletedAt,
	}
}

// Submission builds the abuse-gate view of the payload.
func (n NewVerification) Submission() abuse.Submission {
	sub := abuse.Submission{
		Honeypot: map[string]string{"website": n.Website},
	}
	if n.StartTime != nil {
		startedAt := time.UnixMilli(*n.StartTime)
		sub.StartedAt = &startedAt
	}
	return sub
}
