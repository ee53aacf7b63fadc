package quota

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearproof/api/internal/model"
)

// fakeStore is an in-memory stand-in for the external record store.
type fakeStore struct {
	sub         *model.Subscription
	moduleCount int

	findErr  error
	countErr error

	counters map[model.ResourceKind]int
	setErr   error
	setCalls int
}

func (f *fakeStore) FindSubscription(ctx context.Context, accountID string) (*model.Subscription, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.sub, nil
}

func (f *fakeStore) CountModules(ctx context.Context, accountID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.moduleCount, nil
}

func (f *fakeStore) SetUsageCounter(ctx context.Context, subscriptionID string, kind model.ResourceKind, value int) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	if f.counters == nil {
		f.counters = map[model.ResourceKind]int{}
	}
	f.counters[kind] = value
	return nil
}

func starterSub(verificationsUsed int) *model.Subscription {
	return &model.Subscription{
		ID:                "sub-1",
		AccountID:         "acct-1",
		Plan:              model.PlanStarter,
		Status:            model.StatusActive,
		VerificationsUsed: verificationsUsed,
	}
}

func TestCheckLimitAllowsBelowCeiling(t *testing.T) {
	policy := NewPolicy(&fakeStore{sub: starterSub(0), moduleCount: 4})

	decision, err := policy.CheckLimit(context.Background(), model.ResourceModules, "acct-1")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 4, decision.Current)
	assert.Equal(t, 5, decision.Limit)
}

func TestCheckLimitDeniesAtCeiling(t *testing.T) {
	policy := NewPolicy(&fakeStore{sub: starterSub(0), moduleCount: 5})

	decision, err := policy.CheckLimit(context.Background(), model.ResourceModules, "acct-1")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, 5, decision.Current)
	assert.Equal(t, 5, decision.Limit)
}

func TestCheckLimitAllowsLastVerification(t *testing.T) {
	policy := NewPolicy(&fakeStore{sub: starterSub(99)})

	decision, err := policy.CheckLimit(context.Background(), model.ResourceVerifications, "acct-1")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 99, decision.Current)
	assert.Equal(t, 100, decision.Limit)
}

func TestCheckLimitDeniesExhaustedVerifications(t *testing.T) {
	policy := NewPolicy(&fakeStore{sub: starterSub(100)})

	decision, err := policy.CheckLimit(context.Background(), model.ResourceVerifications, "acct-1")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, 100, decision.Current)
	assert.Equal(t, 100, decision.Limit)
}

func TestCheckLimitDefaultsToFreePlan(t *testing.T) {
	// No subscription record means the implicit free tier: one module, ten
	// verifications, zero recorded usage.
	policy := NewPolicy(&fakeStore{})

	decision, err := policy.CheckLimit(context.Background(), model.ResourceModules, "acct-1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.Limit)

	decision, err = policy.CheckLimit(context.Background(), model.ResourceVerifications, "acct-1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Current)
	assert.Equal(t, 10, decision.Limit)
}

func TestCheckLimitFreeTierDeniesSecondModule(t *testing.T) {
	policy := NewPolicy(&fakeStore{moduleCount: 1})

	decision, err := policy.CheckLimit(context.Background(), model.ResourceModules, "acct-1")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, 1, decision.Current)
	assert.Equal(t, 1, decision.Limit)
}

func TestCheckLimitIsIdempotent(t *testing.T) {
	policy := NewPolicy(&fakeStore{sub: starterSub(42)})

	first, err := policy.CheckLimit(context.Background(), model.ResourceVerifications, "acct-1")
	require.NoError(t, err)
	second, err := policy.CheckLimit(context.Background(), model.ResourceVerifications, "acct-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCheckLimitRejectsUnknownResource(t *testing.T) {
	policy := NewPolicy(&fakeStore{sub: starterSub(0)})

	_, err := policy.CheckLimit(context.Background(), model.ResourceKind("widgets"), "acct-1")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestCheckLimitRejectsNegativeCounter(t *testing.T) {
	policy := NewPolicy(&fakeStore{sub: starterSub(-3)})

	_, err := policy.CheckLimit(context.Background(), model.ResourceVerifications, "acct-1")
	assert.ErrorIs(t, err, ErrNegativeUsage)
}

func TestCheckLimitPropagatesStoreFailure(t *testing.T) {
	// A transient store failure must surface as an error, never as an allow
	// or deny verdict.
	policy := NewPolicy(&fakeStore{findErr: errors.New("store unavailable")})

	_, err := policy.CheckLimit(context.Background(), model.ResourceModules, "acct-1")
	assert.Error(t, err)

	policy = NewPolicy(&fakeStore{sub: starterSub(0), countErr: errors.New("store unavailable")})

	_, err = policy.CheckLimit(context.Background(), model.ResourceModules, "acct-1")
	assert.Error(t, err)
}
