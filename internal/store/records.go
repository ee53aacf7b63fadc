package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/clearproof/api/internal/model"
)

// ListModules lists the modules owned by an account.
func (c *Client) ListModules(ctx context.Context, accountID string) ([]model.Module, error) {
	records, err := c.ListRecords(ctx, CollectionModules)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list modules")
	}

	modules := make([]model.Module, 0)
	for _, rec := range records {
		if stringValue(rec, moduleFieldAccountID) == accountID {
			modules = append(modules, DecodeModule(rec))
		}
	}
	return modules, nil
}

// CountModules returns the live count of module records owned by an account.
// Module usage is always recomputed from the store rather than read from the
// stored counter, so deleted modules free up quota immediately.
func (c *Client) CountModules(ctx context.Context, accountID string) (int, error) {
	modules, err := c.ListModules(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return len(modules), nil
}

// CountVerifications returns the live count of verification records for the
// modules owned by an account. This is expensive at scale and is only used by
// the reconciliation tool; request-path decisions use the stored counter.
func (c *Client) CountVerifications(ctx context.Context, accountID string) (int, error) {
	modules, err := c.ListModules(ctx, accountID)
	if err != nil {
		return 0, err
	}
	owned := make(map[string]bool, len(modules))
	for _, m := range modules {
		owned[m.ID] = true
	}

	records, err := c.ListRecords(ctx, CollectionVerifications)
	if err != nil {
		return 0, errors.Wrap(err, "unable to list verifications")
	}

	count := 0
	for _, rec := range records {
		if owned[stringValue(rec, verifFieldModuleID)] {
			count++
		}
	}
	return count, nil
}

// FindWorker retrieves a worker record by the employer-assigned worker
// identifier. A nil worker with a nil error means no record exists.
func (c *Client) FindWorker(ctx context.Context, workerID string) (*model.Worker, error) {
	records, err := c.ListRecords(ctx, CollectionWorkers)
	if err != nil {
		return nil, errors.Wrap(err, "unable to look up the worker")
	}

	for _, rec := range records {
		if stringValue(rec, workerFieldWorkerID) == workerID {
			worker := DecodeWorker(rec)
			return &worker, nil
		}
	}
	return nil, nil
}
