package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/auth"
	"github.com/clearproof/api/internal/httpmodel"
	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/store"
)

// GetAllWorkers lists the registered workers.
func (s Server) GetAllWorkers(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "listing workers"})

	records, err := s.Store.ListRecords(ctx.Request().Context(), store.CollectionWorkers)
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	workers := make([]model.Worker, len(records))
	for i, rec := range records {
		workers[i] = store.DecodeWorker(rec)
	}

	return model.Success(ctx, workers, http.StatusOK)
}

// GetWorker retrieves a single worker.
func (s Server) GetWorker(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "getting worker", "worker": ctx.Param("id")})

	rec, err := s.Store.GetRecord(ctx.Request().Context(), store.CollectionWorkers, ctx.Param("id"))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	return model.Success(ctx, store.DecodeWorker(rec), http.StatusOK)
}

// AddWorker registers a worker.
func (s Server) AddWorker(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "adding worker"})

	context := ctx.Request().Context()

	var body httpmodel.NewWorker
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	rec, err := s.Store.CreateRecord(context, store.CollectionWorkers, store.EncodeWorker(body.ToModel()))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}
	created := store.DecodeWorker(rec)

	s.Audit.Record(auditEntry(ctx, auth.AccountID(ctx), "create", "worker", created.ID, map[string]interface{}{
		"worker_id": created.WorkerID,
	}))

	return model.Success(ctx, created, http.StatusOK)
}

// UpdateWorker applies a partial update to a worker.
func (s Server) UpdateWorker(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "updating worker", "worker": ctx.Param("id")})

	context := ctx.Request().Context()

	var body httpmodel.WorkerUpdate
	if err := ctx.Bind(&body); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err := body.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	rec, err := s.Store.UpdateRecord(context, store.CollectionWorkers, ctx.Param("id"), store.EncodeWorker(body.ToModel()))
	if err != nil {
		log.Error(err)
		return storeError(ctx, err)
	}

	return model.Success(ctx, store.DecodeWorker(rec), http.StatusOK)
}
