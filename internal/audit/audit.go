// Package audit writes audit-log entries to the external store. Entries are
// recorded on a best-effort basis after the audited operation already
// succeeded; a failed write is logged and never surfaced to the caller.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/store"
	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "audit"})

// Store is the subset of the record store the audit logger writes through.
type Store interface {
	CreateRecord(ctx context.Context, collection string, fields store.Record) (store.Record, error)
}

// Entry describes a single audited operation.
type Entry struct {
	AccountID  string
	Action     string
	Resource   string
	ResourceID string
	IP         string
	Details    map[string]interface{}
}

// Logger records audit entries asynchronously.
type Logger struct {
	store   Store
	timeout time.Duration
}

// NewLogger creates a new audit logger.
func NewLogger(s Store) *Logger {
	return &Logger{store: s, timeout: 15 * time.Second}
}

// Record writes an audit entry on a background goroutine. The write runs
// under its own deadline so it survives the originating request ending.
func (l *Logger) Record(entry Entry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		resourceID := entry.ResourceID
		if resourceID == "" {
			resourceID = "unknown"
		}
		title := fmt.Sprintf("%s - %s - %d", entry.Action, resourceID, time.Now().UnixMilli())

		fields := store.EncodeAuditEntry(
			title,
			entry.AccountID,
			entry.Action,
			entry.Resource,
			entry.ResourceID,
			entry.IP,
			entry.Details,
		)

		if _, err := l.store.CreateRecord(ctx, store.CollectionAuditLogs, fields); err != nil {
			log.WithFields(logrus.Fields{
				"action":   entry.Action,
				"resource": entry.Resource,
			}).Errorf("unable to record audit entry: %s", err.Error())
		}
	}()
}
