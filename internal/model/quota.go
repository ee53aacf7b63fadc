package model

// QuotaDecision is the verdict for a single creation request. It is computed
// fresh from the store on every request and never persisted or cached.
//
// swagger:model
type QuotaDecision struct {

	// True if the creation may proceed
	Allowed bool `json:"allowed"`

	// The usage observed at decision time
	Current int `json:"current"`

	// The plan ceiling the usage was compared against
	Limit int `json:"limit"`
}

// Decide builds the decision for a current usage value and a plan ceiling.
// The creation is allowed whenever the current usage is strictly below the
// ceiling.
func Decide(current, limit int) QuotaDecision {
	return QuotaDecision{
		Allowed: current < limit,
		Current: current,
		Limit:   limit,
	}
}
