package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/clearproof/api/internal/auth"
	"github.com/clearproof/api/internal/httpmodel"
	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/query"
	"github.com/clearproof/api/internal/store"
)

// GetAllModules lists the modules owned by the calling account.
func (s Server) GetAllModules(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing modules"})

	context := ctx.Request().Context()
	accountID := auth.AccountID(ctx)

	modules, err := s.Store.ListModules(context, accountID)
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	return model.Success(ctx, modules, http.StatusOK)
}

// getOwnedModule fetches a module and verifies that the calling account owns
// it. Records owned by other accounts are reported as not found.
func (s Server) getOwnedModule(ctx echo.Context, id string) (*model.Module, error) {
	rec, err := s.Store.GetRecord(ctx.Request().Context(), store.CollectionModules, id)
	if err != nil {
		return nil, err
	}

	module := store.DecodeModule(rec)
	if module.AccountID != auth.AccountID(ctx) {
		return nil, &store.APIError{StatusCode: http.StatusNotFound, Body: "not found"}
	}
	return &module, nil
}

// GetModule retrieves a single module.
func (s Server) GetModule(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "getting module", "module": ctx.Param("id")})

	module, err := s.getOwnedModule(ctx, ctx.Param("id"))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	return model.Success(ctx, module, http.StatusOK)
}

// AddModule creates a module, gated by the account's plan ceiling. The quota
// check, the creation, and the usage accounting run under the account's lock
// so that concurrent requests can't both squeeze through the last slot.
func (s Server) AddModule(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "adding module"})

	context := ctx.Request().Context()
	accountID := auth.AccountID(ctx)
	log = log.WithFields(logrus.Fields{"account": accountID})

	var body httpmodel.NewModule
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	unlock := s.Locks.Lock(accountID)
	defer unlock()

	decision, err := s.Quota.CheckLimit(context, model.ResourceModules, accountID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	if !decision.Allowed {
		return model.QuotaDenied(ctx, "module limit reached for the current plan", decision)
	}

	rec, err := s.Store.CreateRecord(context, store.CollectionModules, store.EncodeModule(body.ToModel(accountID)))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}
	created := store.DecodeModule(rec)

	s.recordCreationUsage(context, log, accountID, model.ResourceModules)

	s.Audit.Record(auditEntry(ctx, accountID, "create", "module", created.ID, map[string]interface{}{
		"title": created.Title,
	}))

	log.WithFields(logrus.Fields{"module": created.ID}).Info("created module")

	return model.Success(ctx, created, http.StatusOK)
}

// UpdateModule applies a partial update to a module.
func (s Server) UpdateModule(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "updating module", "module": ctx.Param("id")})

	context := ctx.Request().Context()
	accountID := auth.AccountID(ctx)

	var body httpmodel.ModuleUpdate
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	if _, err := s.getOwnedModule(ctx, ctx.Param("id")); err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	rec, err := s.Store.UpdateRecord(context, store.CollectionModules, ctx.Param("id"), store.EncodeModule(body.ToModel()))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}
	updated := store.DecodeModule(rec)

	s.Audit.Record(auditEntry(ctx, accountID, "update", "module", updated.ID, map[string]interface{}{
		"status": updated.Status,
	}))

	return model.Success(ctx, updated, http.StatusOK)
}

// GetModuleQRCode renders a QR code PNG pointing at the module's public
// verification form.
func (s Server) GetModuleQRCode(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "rendering module QR code", "module": ctx.Param("id")})

	defaultSize := 256
	size, err := query.ValidateIntQueryParam(ctx, "size", &defaultSize, "gte=64", "lte=1024")
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	module, err := s.getOwnedModule(ctx, ctx.Param("id"))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	verifyURL := s.FrontendURL + "/verify/" + module.ID
	png, err := qrcode.Encode(verifyURL, qrcode.Medium, size)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, "unable to render the QR code", http.StatusInternalServerError)
	}

	return ctx.Blob(http.StatusOK, "image/png", png)
}
