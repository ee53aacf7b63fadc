package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearproof/api/internal/model"
)

func TestDecodeSubscriptionHandlesJSONNumbers(t *testing.T) {
	// Counters come back as JSON floats; the decoder must read them as ints.
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "rec-1",
		"sf8a3b2c1d": "acct-1",
		"s1a2b3c4d5": "starter",
		"s2b3c4d5e6": "active",
		"s6f7g8h9i0": 3,
		"s7g8h9i0j1": 41
	}`), &rec))

	sub := DecodeSubscription(rec)
	assert.Equal(t, "acct-1", sub.AccountID)
	assert.Equal(t, model.PlanStarter, sub.Plan)
	assert.Equal(t, 3, sub.ModulesUsed)
	assert.Equal(t, 41, sub.VerificationsUsed)
}

func TestEncodeSubscriptionIncludesCounters(t *testing.T) {
	rec := EncodeSubscription(model.Subscription{
		AccountID:         "acct-1",
		Plan:              model.PlanProfessional,
		Status:            model.StatusActive,
		ModulesUsed:       0,
		VerificationsUsed: 0,
	})

	// Zero counters are written explicitly; a new billing period starts the
	// counts over.
	assert.Equal(t, 0, rec[subFieldModulesUsed])
	assert.Equal(t, 0, rec[subFieldVerificationsUsed])
	assert.Equal(t, model.PlanProfessional, rec[subFieldPlan])
}

func TestEncodeModuleOmitsUnsetFields(t *testing.T) {
	rec := EncodeModule(model.Module{
		ProcessedContent: `{"sections":[]}`,
		Status:           model.ModuleStatusReady,
	})

	// Partial updates must only touch the columns the caller set.
	assert.Len(t, rec, 2)
	assert.Equal(t, `{"sections":[]}`, rec[moduleFieldProcessedContent])
	assert.Equal(t, model.ModuleStatusReady, rec[moduleFieldStatus])
}

func TestModuleRoundTrip(t *testing.T) {
	original := model.Module{
		AccountID:       "acct-1",
		Title:           "Working at Height",
		OriginalContent: "full legal text",
		FileName:        "working-at-height.pdf",
		Status:          model.ModuleStatusProcessing,
	}

	decoded := DecodeModule(EncodeModule(original))

	assert.Equal(t, original.AccountID, decoded.AccountID)
	assert.Equal(t, original.Title, decoded.Title)
	assert.Equal(t, original.OriginalContent, decoded.OriginalContent)
	assert.Equal(t, original.FileName, decoded.FileName)
	assert.Equal(t, original.Status, decoded.Status)
}

func TestEncodeVerificationDerivesTitle(t *testing.T) {
	rec := EncodeVerification(model.Verification{
		ModuleID:   "mod-1",
		WorkerName: "Jan Kowalski",
		WorkerID:   "EMP-17",
		Score:      4,
		Passed:     true,
	})

	assert.Equal(t, "Jan Kowalski - mod-1", rec[fieldTitle])
	assert.Equal(t, true, rec[verifFieldPassed])
	assert.Equal(t, 4, rec[verifFieldScore])
}

func TestEncodeAuditEntrySerializesDetails(t *testing.T) {
	rec := EncodeAuditEntry("create - rec-1 - 1700000000000", "acct-1", "create", "module", "rec-1", "203.0.113.9", map[string]interface{}{
		"title": "Working at Height",
	})

	assert.Equal(t, "acct-1", rec[auditFieldAccountID])
	assert.Equal(t, "create", rec[auditFieldAction])
	assert.JSONEq(t, `{"title":"Working at Height"}`, rec[auditFieldDetails].(string))
}
