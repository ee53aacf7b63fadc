package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/audit"
	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/internal/store"
)

// auditEntry builds an audit entry for an operation performed within a
// request.
func auditEntry(ctx echo.Context, accountID, action, resource, resourceID string, details map[string]interface{}) audit.Entry {
	return audit.Entry{
		AccountID:  accountID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         ctx.RealIP(),
		Details:    details,
	}
}

// storeErrorStatus maps a store error onto the status code to surface.
// Transient store failures are the caller's 5xx; a 404 from the vendor means
// the record genuinely doesn't exist.
func storeErrorStatus(err error) int {
	var apiErr *store.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// storeError sends the response for a failed store call.
func storeError(ctx echo.Context, err error) error {
	code := storeErrorStatus(err)
	if code == http.StatusNotFound {
		return model.Error(ctx, "record not found", code)
	}
	return model.Error(ctx, err.Error(), code)
}

// recordCreationUsage advances the stored usage counter after a successful
// creation. Accounting failures never fail the request or undo the creation;
// they're reported in the log and nowhere else.
func (s Server) recordCreationUsage(ctx context.Context, log *logrus.Entry, accountID string, kind model.ResourceKind) {
	sub, err := s.Store.FindSubscription(ctx, accountID)
	if err != nil {
		log.Warnf("usage accounting skipped, subscription lookup failed: %s", err.Error())
		return
	}

	var previous int
	if sub != nil {
		previous = sub.UsageFor(kind)
	}
	if err := s.Usage.RecordUsage(ctx, sub, kind, previous); err != nil {
		log.Warnf("usage accounting failed: %s", err.Error())
	}
}
