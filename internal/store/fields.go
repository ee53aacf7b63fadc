package store

import (
	"encoding/json"

	"github.com/clearproof/api/internal/model"
)

// Collection names used throughout the service. The vendor table identifiers
// they resolve to are opaque and assigned by SmartSuite when the tables are
// created.
const (
	CollectionModules       = "modules"
	CollectionWorkers       = "workers"
	CollectionVerifications = "verifications"
	CollectionSubscriptions = "subscriptions"
	CollectionAuditLogs     = "audit_logs"
)

var tableIDs = map[string]string{
	CollectionModules:       "69441e0e081da2e01f4d9a78",
	CollectionWorkers:       "69441f0deb5683351ec55a8f",
	CollectionVerifications: "69441fd3d9350cee4e1b8e3e",
	CollectionSubscriptions: "694420a51c7a4b6df2e09c44",
	CollectionAuditLogs:     "694440eb0dc34459d50511cd",
}

// SmartSuite column identifiers. Every table has a "title" primary column;
// the rest are the vendor-assigned identifiers for the semantic fields this
// service reads and writes.
const (
	fieldTitle = "title"

	// subscriptions
	subFieldAccountID          = "sf8a3b2c1d"
	subFieldPlan               = "s1a2b3c4d5"
	subFieldStatus             = "s2b3c4d5e6"
	subFieldStripeCustomer     = "s3c4d5e6f7"
	subFieldStripeSubscription = "s4d5e6f7g8"
	subFieldPeriodEnd          = "s5e6f7g8h9"
	subFieldModulesUsed        = "s6f7g8h9i0"
	subFieldVerificationsUsed  = "s7g8h9i0j1"

	// modules
	moduleFieldAccountID        = "s3aa81cf29"
	moduleFieldOriginalContent  = "s77b21d0e4"
	moduleFieldProcessedContent = "s9c0e44f1a"
	moduleFieldQuestions        = "s5d18a02be"
	moduleFieldFileName         = "s614f9cc03"
	moduleFieldStatus           = "sb25e7d918"

	// workers
	workerFieldWorkerID          = "s80a3d95c1"
	workerFieldPhone             = "s49eed06b7"
	workerFieldPreferredLanguage = "sc7f50b2ea"

	// verifications
	verifFieldModuleID     = "s0d81b7a45"
	verifFieldWorkerName   = "s8c44f2d19"
	verifFieldWorkerID     = "s1fb6e803d"
	verifFieldLanguageUsed = "sa92c5e761"
	verifFieldAnswers      = "s67d3b9f02"
	verifFieldScore        = "se04a81c53"
	verifFieldPassed       = "s3b5d92e87"
	verifFieldCompletedAt  = "sdd127c0a9"

	// audit logs
	auditFieldAccountID  = "sd4400df5f"
	auditFieldAction     = "s2fbf046cb"
	auditFieldResource   = "se5c4b6aa6"
	auditFieldResourceID = "sf3515c7f5"
	auditFieldIPAddress  = "s7d26da42e"
	auditFieldDetails    = "s0b9cb63d0"
)

// stringValue extracts a string field from a record.
func stringValue(rec Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

// intValue extracts an integer field from a record. SmartSuite returns
// numbers as JSON floats.
func intValue(rec Record, key string) int {
	switch v := rec[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// boolValue extracts a Boolean field from a record.
func boolValue(rec Record, key string) bool {
	if v, ok := rec[key].(bool); ok {
		return v
	}
	return false
}

// DecodeModule translates a raw module record into the semantic model.
func DecodeModule(rec Record) model.Module {
	return model.Module{
		ID:               stringValue(rec, "id"),
		AccountID:        stringValue(rec, moduleFieldAccountID),
		Title:            stringValue(rec, fieldTitle),
		OriginalContent:  stringValue(rec, moduleFieldOriginalContent),
		ProcessedContent: stringValue(rec, moduleFieldProcessedContent),
		Questions:        stringValue(rec, moduleFieldQuestions),
		FileName:         stringValue(rec, moduleFieldFileName),
		Status:           stringValue(rec, moduleFieldStatus),
	}
}

// EncodeModule translates a semantic module into raw record fields. Empty
// optional fields are omitted so that partial updates only touch the columns
// the caller set.
func EncodeModule(m model.Module) Record {
	rec := Record{}
	if m.Title != "" {
		rec[fieldTitle] = m.Title
	}
	if m.AccountID != "" {
		rec[moduleFieldAccountID] = m.AccountID
	}
	if m.OriginalContent != "" {
		rec[moduleFieldOriginalContent] = m.OriginalContent
	}
	if m.ProcessedContent != "" {
		rec[moduleFieldProcessedContent] = m.ProcessedContent
	}
	if m.Questions != "" {
		rec[moduleFieldQuestions] = m.Questions
	}
	if m.FileName != "" {
		rec[moduleFieldFileName] = m.FileName
	}
	if m.Status != "" {
		rec[moduleFieldStatus] = m.Status
	}
	return rec
}

// DecodeWorker translates a raw worker record into the semantic model.
func DecodeWorker(rec Record) model.Worker {
	return model.Worker{
		ID:                stringValue(rec, "id"),
		Name:              stringValue(rec, fieldTitle),
		WorkerID:          stringValue(rec, workerFieldWorkerID),
		Phone:             stringValue(rec, workerFieldPhone),
		PreferredLanguage: stringValue(rec, workerFieldPreferredLanguage),
	}
}

// EncodeWorker translates a semantic worker into raw record fields.
func EncodeWorker(w model.Worker) Record {
	rec := Record{}
	if w.Name != "" {
		rec[fieldTitle] = w.Name
	}
	if w.WorkerID != "" {
		rec[workerFieldWorkerID] = w.WorkerID
	}
	if w.Phone != "" {
		rec[workerFieldPhone] = w.Phone
	}
	if w.PreferredLanguage != "" {
		rec[workerFieldPreferredLanguage] = w.PreferredLanguage
	}
	return rec
}

// DecodeVerification translates a raw verification record into the semantic
// model.
func DecodeVerification(rec Record) model.Verification {
	return model.Verification{
		ID:           stringValue(rec, "id"),
		ModuleID:     stringValue(rec, verifFieldModuleID),
		WorkerName:   stringValue(rec, verifFieldWorkerName),
		WorkerID:     stringValue(rec, verifFieldWorkerID),
		LanguageUsed: stringValue(rec, verifFieldLanguageUsed),
		Answers:      stringValue(rec, verifFieldAnswers),
		Score:        intValue(rec, verifFieldScore),
		Passed:       boolValue(rec, verifFieldPassed),
		CompletedAt:  stringValue(rec, verifFieldCompletedAt),
	}
}

// EncodeVerification translates a semantic verification into raw record
// fields. The title is derived from the worker and module so that records
// are identifiable in the SmartSuite UI.
func EncodeVerification(v model.Verification) Record {
	return Record{
		fieldTitle:             v.WorkerName + " - " + v.ModuleID,
		verifFieldModuleID:     v.ModuleID,
		verifFieldWorkerName:   v.WorkerName,
		verifFieldWorkerID:     v.WorkerID,
		verifFieldLanguageUsed: v.LanguageUsed,
		verifFieldAnswers:      v.Answers,
		verifFieldScore:        v.Score,
		verifFieldPassed:       v.Passed,
		verifFieldCompletedAt:  v.CompletedAt,
	}
}

// DecodeSubscription translates a raw subscription record into the semantic
// model.
func DecodeSubscription(rec Record) model.Subscription {
	return model.Subscription{
		ID:                   stringValue(rec, "id"),
		AccountID:            stringValue(rec, subFieldAccountID),
		Plan:                 stringValue(rec, subFieldPlan),
		Status:               stringValue(rec, subFieldStatus),
		StripeCustomerID:     stringValue(rec, subFieldStripeCustomer),
		StripeSubscriptionID: stringValue(rec, subFieldStripeSubscription),
		CurrentPeriodEnd:     stringValue(rec, subFieldPeriodEnd),
		ModulesUsed:          intValue(rec, subFieldModulesUsed),
		VerificationsUsed:    intValue(rec, subFieldVerificationsUsed),
	}
}

// EncodeSubscription translates a semantic subscription into raw record
// fields, counters included.
func EncodeSubscription(s model.Subscription) Record {
	return Record{
		fieldTitle:                 s.Plan + " - " + s.AccountID,
		subFieldAccountID:          s.AccountID,
		subFieldPlan:               s.Plan,
		subFieldStatus:             s.Status,
		subFieldStripeCustomer:     s.StripeCustomerID,
		subFieldStripeSubscription: s.StripeSubscriptionID,
		subFieldPeriodEnd:          s.CurrentPeriodEnd,
		subFieldModulesUsed:        s.ModulesUsed,
		subFieldVerificationsUsed:  s.VerificationsUsed,
	}
}

// EncodeAuditEntry builds the raw record fields for an audit log entry. The
// details document is stored as JSON text.
func EncodeAuditEntry(title, accountID, action, resource, resourceID, ip string, details map[string]interface{}) Record {
	encoded, err := json.Marshal(details)
	if err != nil {
		encoded = []byte("{}")
	}
	return Record{
		fieldTitle:           title,
		auditFieldAccountID:  accountID,
		auditFieldAction:     action,
		auditFieldResource:   resource,
		auditFieldResourceID: resourceID,
		auditFieldIPAddress:  ip,
		auditFieldDetails:    string(encoded),
	}
}
