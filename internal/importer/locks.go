package importer

import "sync"

// accountLocks serializes imports per account. Reconciliation and replay
// read prior ledger state and then write derived state; a second import
// racing the same account could replay from stale balances.
type accountLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{m: make(map[int64]*sync.Mutex)}
}

// acquire blocks until the account's lock is held and returns the release
// function. Locks are never removed from the map; the set of accounts is
// small and stable.
func (l *accountLocks) acquire(accountID int64) (release func()) {
	l.mu.Lock()
	am, ok := l.m[accountID]
	if !ok {
		am = &sync.Mutex{}
		l.m[accountID] = am
	}
	l.mu.Unlock()

	am.Lock()
	return am.Unlock
}
