package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/clearproof/api/internal/model"
)

// FindSubscription retrieves the subscription record for an account. A nil
// subscription with a nil error means the account has no record and is on the
// implicit free tier; callers are expected to handle that case explicitly.
func (c *Client) FindSubscription(ctx context.Context, accountID string) (*model.Subscription, error) {
	wrapMsg := "unable to look up the subscription"

	records, err := c.ListRecords(ctx, CollectionSubscriptions)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	for _, rec := range records {
		if stringValue(rec, subFieldAccountID) == accountID {
			sub := DecodeSubscription(rec)
			return &sub, nil
		}
	}
	return nil, nil
}

// FindSubscriptionByCustomer retrieves the subscription record associated
// with a Stripe customer. Used by the billing webhook relay, which only knows
// the customer identifier.
func (c *Client) FindSubscriptionByCustomer(ctx context.Context, customerID string) (*model.Subscription, error) {
	wrapMsg := "unable to look up the subscription by customer"

	records, err := c.ListRecords(ctx, CollectionSubscriptions)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	for _, rec := range records {
		if stringValue(rec, subFieldStripeCustomer) == customerID {
			sub := DecodeSubscription(rec)
			return &sub, nil
		}
	}
	return nil, nil
}

// CreateSubscription stores a new subscription record.
func (c *Client) CreateSubscription(ctx context.Context, sub model.Subscription) (*model.Subscription, error) {
	rec, err := c.CreateRecord(ctx, CollectionSubscriptions, EncodeSubscription(sub))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create the subscription")
	}
	created := DecodeSubscription(rec)
	return &created, nil
}

// UpdateSubscription applies a partial update to a subscription record.
func (c *Client) UpdateSubscription(ctx context.Context, id string, fields Record) error {
	_, err := c.UpdateRecord(ctx, CollectionSubscriptions, id, fields)
	if err != nil {
		return errors.Wrap(err, "unable to update the subscription")
	}
	return nil
}

// SubscriptionPlanFields builds the partial update for a plan or status
// change relayed from the billing provider. The period end is omitted when
// empty.
func SubscriptionPlanFields(plan, status, periodEnd string) Record {
	fields := Record{
		subFieldPlan:   plan,
		subFieldStatus: status,
	}
	if periodEnd != "" {
		fields[subFieldPeriodEnd] = periodEnd
	}
	return fields
}

// SetUsageCounter writes a usage counter on a subscription record. The
// caller supplies the absolute value rather than a delta; SmartSuite has no
// increment primitive.
func (c *Client) SetUsageCounter(ctx context.Context, subscriptionID string, kind model.ResourceKind, value int) error {
	wrapMsg := "unable to update the usage counter"

	var field string
	switch kind {
	case model.ResourceModules:
		field = subFieldModulesUsed
	case model.ResourceVerifications:
		field = subFieldVerificationsUsed
	default:
		return errors.Errorf("unknown resource kind: %s", kind)
	}

	_, err := c.UpdateRecord(ctx, CollectionSubscriptions, subscriptionID, Record{field: value})
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}
