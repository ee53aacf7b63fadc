package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/httpmodel"
	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/store"
)

// SubmissionResponse is the envelope returned for a verification submission.
// Suppressed submissions get the same shape with the blocked sentinel ID, so
// an automated caller can't tell it was detected.
//
// swagger:model
type SubmissionResponse struct {

	// The verification record identifier
	ID string `json:"id"`

	// True when the submission was accepted
	Success bool `json:"success"`
}

// blockedSubmissionID is the sentinel returned for suppressed submissions.
const blockedSubmissionID = "blocked"

// GetAllVerifications lists the recorded verifications.
func (s Server) GetAllVerifications(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing verifications"})

	records, err := s.Store.ListRecords(ctx.Request().Context(), store.CollectionVerifications)
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	verifications := make([]model.Verification, len(records))
	for i, rec := range records {
		verifications[i] = store.DecodeVerification(rec)
	}

	return model.Success(ctx, verifications, http.StatusOK)
}

// GetVerification retrieves a single verification.
func (s Server) GetVerification(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "getting verification", "verification": ctx.Param("id")})

	rec, err := s.Store.GetRecord(ctx.Request().Context(), store.CollectionVerifications, ctx.Param("id"))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	return model.Success(ctx, store.DecodeVerification(rec), http.StatusOK)
}

// SubmitVerification handles the public verification-submission endpoint.
//
// The abuse gate runs before anything else: a suppressed submission returns
// the success envelope with the blocked sentinel and performs no writes at
// all, so bot traffic never consumes quota and never learns it was caught.
// Real submissions are then gated by the module owner's verification
// ceiling, and the quota check, record creation, and usage accounting run
// under the owner's account lock.
func (s Server) SubmitVerification(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "submitting verification"})

	context := ctx.Request().Context()

	var body httpmodel.NewVerification
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	if s.Gate.IsLikelyBot(body.Submission()) {
		log.WithFields(logrus.Fields{"module": body.ModuleID, "ip": ctx.RealIP()}).Info("suppressed likely automated submission")
		return model.Success(ctx, SubmissionResponse{ID: blockedSubmissionID, Success: true}, http.StatusOK)
	}

	// The quota belongs to the account that owns the module being verified.
	moduleRec, err := s.Store.GetRecord(context, store.CollectionModules, body.ModuleID)
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}
	accountID := store.DecodeModule(moduleRec).AccountID
	log = log.WithFields(logrus.Fields{"module": body.ModuleID, "account": accountID})

	unlock := s.Locks.Lock(accountID)
	defer unlock()

	decision, err := s.Quota.CheckLimit(context, model.ResourceVerifications, accountID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	if !decision.Allowed {
		return model.QuotaDenied(ctx, "verification limit reached for the current plan", decision)
	}

	if err := s.ensureWorker(ctx, &body); err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	rec, err := s.Store.CreateRecord(context, store.CollectionVerifications, store.EncodeVerification(body.ToModel()))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}
	created := store.DecodeVerification(rec)

	s.recordCreationUsage(context, log, accountID, model.ResourceVerifications)

	s.Audit.Record(auditEntry(ctx, accountID, "create", "verification", created.ID, map[string]interface{}{
		"worker_id": created.WorkerID,
		"score":     created.Score,
		"passed":    created.Passed,
	}))

	log.WithFields(logrus.Fields{"verification": created.ID}).Info("recorded verification")

	return model.Success(ctx, SubmissionResponse{ID: created.ID, Success: true}, http.StatusOK)
}

// ensureWorker registers the submitting worker if no record exists for the
// employer-assigned identifier yet.
func (s Server) ensureWorker(ctx echo.Context, body *httpmodel.NewVerification) error {
	context := ctx.Request().Context()

	worker, err := s.Store.FindWorker(context, body.WorkerID)
	if err != nil {
		return err
	}
	if worker != nil {
		return nil
	}

	_, err = s.Store.CreateRecord(context, store.CollectionWorkers, store.EncodeWorker(model.Worker{
		Name:              body.WorkerName,
		WorkerID:          body.WorkerID,
		PreferredLanguage: body.LanguageUsed,
	}))
	return err
}
