package quota

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/model"
)

// CounterStore is the write side of the external store used by usage
// accounting.
type CounterStore interface {
	SetUsageCounter(ctx context.Context, subscriptionID string, kind model.ResourceKind, value int) error
}

// Accountant advances usage counters after successful creations. It is only
// ever invoked after an allowed quota decision, once the underlying record
// exists in the store.
type Accountant struct {
	store CounterStore
}

// NewAccountant creates a new accountant backed by the given store.
func NewAccountant(store CounterStore) *Accountant {
	return &Accountant{store: store}
}

// RecordUsage writes previous+1 to the stored counter for the given
// subscription.
//
// A nil subscription means the account is on the implicit free tier and has
// no record to write a counter on: module usage for such accounts is tracked
// by the live count and verification usage is not tracked at all, so this is
// a no-op rather than an error.
//
// Callers must not fail the request or roll back the created resource when
// accounting fails; the returned error is for a best-effort warning only.
func (a *Accountant) RecordUsage(ctx context.Context, sub *model.Subscription, kind model.ResourceKind, previous int) error {
	if sub == nil {
		log.WithFields(logrus.Fields{"resource": kind}).Debug("no subscription record, skipping usage accounting")
		return nil
	}
	if previous < 0 {
		return ErrNegativeUsage
	}

	err := a.store.SetUsageCounter(ctx, sub.ID, kind, previous+1)
	if err != nil {
		return errors.Wrap(err, "unable to record usage")
	}

	log.WithFields(logrus.Fields{
		"subscription": sub.ID,
		"resource":     kind,
		"value":        previous + 1,
	}).Debug("recorded usage")

	return nil
}
