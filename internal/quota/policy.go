// Package quota implements the plan-limit policy that gates module creation
// and verification submission, together with the usage accounting that runs
// after a successful creation.
package quota

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "quota"})

var (
	// ErrUnknownResource indicates a resource kind outside the plan catalog.
	ErrUnknownResource = errors.New("unknown resource kind")

	// ErrNegativeUsage indicates a stored counter with a negative value.
	// Counters are monotonically non-decreasing, so a negative value means
	// the record was corrupted; it is rejected before any decision is made.
	ErrNegativeUsage = errors.New("stored usage counter is negative")
)

// Store is the read side of the external store that decisions are computed
// from.
type Store interface {
	FindSubscription(ctx context.Context, accountID string) (*model.Subscription, error)
	CountModules(ctx context.Context, accountID string) (int, error)
}

// Policy computes quota decisions. It has no state of its own and never
// writes to the store.
type Policy struct {
	store Store
}

// NewPolicy creates a new quota policy backed by the given store.
func NewPolicy(store Store) *Policy {
	return &Policy{store: store}
}

// CheckLimit decides whether an account may create another resource of the
// given kind. The decision is computed from a fresh read on every call.
//
// The source of truth differs by resource kind on purpose: module usage is
// the live count of module records, so deletions free up quota, while
// verification usage is the stored counter, because verification records are
// unbounded and immutable and counting them on every submission would not
// scale. An account with no subscription record is evaluated against the
// free plan with zero recorded usage.
func (p *Policy) CheckLimit(ctx context.Context, kind model.ResourceKind, accountID string) (model.QuotaDecision, error) {
	var decision model.QuotaDecision

	if kind != model.ResourceModules && kind != model.ResourceVerifications {
		return decision, ErrUnknownResource
	}

	sub, err := p.store.FindSubscription(ctx, accountID)
	if err != nil {
		return decision, errors.Wrap(err, "unable to check the plan limit")
	}

	limits := model.LimitsForPlan(model.PlanFree)
	if sub != nil {
		limits = sub.Limits()
	}
	limit := limits.Limit(kind)

	var current int
	switch kind {
	case model.ResourceModules:
		current, err = p.store.CountModules(ctx, accountID)
		if err != nil {
			return decision, errors.Wrap(err, "unable to check the plan limit")
		}
	case model.ResourceVerifications:
		if sub != nil {
			current = sub.VerificationsUsed
		}
	}

	if current < 0 {
		return decision, ErrNegativeUsage
	}

	decision = model.Decide(current, limit)

	log.WithFields(logrus.Fields{
		"account":  accountID,
		"resource": kind,
		"current":  decision.Current,
		"limit":    decision.Limit,
		"allowed":  decision.Allowed,
	}).Debug("computed quota decision")

	return decision, nil
}
