package model

// Plan name constants. Plans are fixed configuration rather than database
// records: each plan carries two integer ceilings that never vary per
// subscription.
const (
	PlanFree         = "free"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// ResourceKind identifies a countable resource that plan ceilings apply to.
type ResourceKind string

// The resource kinds that are subject to plan ceilings.
const (
	ResourceModules       ResourceKind = "modules"
	ResourceVerifications ResourceKind = "verifications"
)

// PlanLimits defines the resource ceilings for a single plan.
//
// swagger:model
type PlanLimits struct {

	// The maximum number of modules the plan allows
	Modules int `json:"modules"`

	// The maximum number of verification submissions the plan allows
	Verifications int `json:"verifications"`
}

// Limit returns the ceiling for the given resource kind. Unknown resource
// kinds get a limit of zero, which denies everything.
func (l PlanLimits) Limit(kind ResourceKind) int {
	switch kind {
	case ResourceModules:
		return l.Modules
	case ResourceVerifications:
		return l.Verifications
	default:
		return 0
	}
}

// planLimits is the static plan catalog.
var planLimits = map[string]PlanLimits{
	PlanFree:         {Modules: 1, Verifications: 10},
	PlanStarter:      {Modules: 5, Verifications: 100},
	PlanProfessional: {Modules: 20, Verifications: 500},
	PlanEnterprise:   {Modules: 50, Verifications: 2000},
}

// LimitsForPlan returns the resource ceilings for the named plan. Accounts
// with an unknown or empty plan name are treated as free-tier accounts.
func LimitsForPlan(plan string) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[PlanFree]
}

// ValidPlan determines whether or not the given plan name exists in the
// catalog.
func ValidPlan(plan string) bool {
	_, ok := planLimits[plan]
	return ok
}

// PlanNames lists the catalog plan names in ascending order of capability.
func PlanNames() []string {
	return []string{PlanFree, PlanStarter, PlanProfessional, PlanEnterprise}
}
