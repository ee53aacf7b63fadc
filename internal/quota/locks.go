package quota

import "sync"

// AccountLocks serializes the check-then-create-then-record span per account
// within a single process. Without it, two concurrent creation requests for
// an account sitting one below its ceiling can both observe an allowed
// decision before either write lands.
//
// The serialization only covers one process; separate instances still race
// at the store boundary, since the vendor API has no conditional update. The
// reconcile-usage tool exists to repair any drift that slips through.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

// NewAccountLocks creates an empty lock table.
func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[string]*accountLock)}
}

// Lock acquires the lock for an account and returns the function that
// releases it. Lock entries are removed once no request holds or awaits
// them, so the table stays proportional to in-flight requests.
func (l *AccountLocks) Lock(accountID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[accountID]
	if !ok {
		entry = &accountLock{}
		l.locks[accountID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, accountID)
		}
		l.mu.Unlock()
	}
}
