package model

// Subscription status constants. The status is only ever written by the
// billing webhook relay; this service never transitions it on its own.
const (
	StatusActive    = "active"
	StatusPastDue   = "past_due"
	StatusCancelled = "cancelled"
)

// Subscription is the semantic view of a subscription record in the external
// store. An account with no subscription record is on an implicit free plan
// with zero recorded usage; callers represent that case with a nil
// *Subscription and must handle it explicitly.
//
// swagger:model
type Subscription struct {

	// The record identifier assigned by the external store
	//
	// readOnly: true
	ID string `json:"id,omitempty"`

	// The account the subscription belongs to
	AccountID string `json:"account_id"`

	// The current plan name
	Plan string `json:"plan"`

	// The subscription lifecycle status
	Status string `json:"status"`

	// The Stripe customer identifier, if the account ever checked out
	StripeCustomerID string `json:"stripe_customer_id,omitempty"`

	// The Stripe subscription identifier
	StripeSubscriptionID string `json:"stripe_subscription_id,omitempty"`

	// The end of the current billing period, in RFC 3339 format
	CurrentPeriodEnd string `json:"current_period_end,omitempty"`

	// The number of modules created during the current billing period
	ModulesUsed int `json:"modules_used"`

	// The number of verifications recorded during the current billing period
	VerificationsUsed int `json:"verifications_used"`
}

// UsageFor returns the stored usage counter for the given resource kind.
func (s *Subscription) UsageFor(kind ResourceKind) int {
	switch kind {
	case ResourceModules:
		return s.ModulesUsed
	case ResourceVerifications:
		return s.VerificationsUsed
	default:
		return 0
	}
}

// Limits returns the plan ceilings for the subscription's current plan.
func (s *Subscription) Limits() PlanLimits {
	return LimitsForPlan(s.Plan)
}
