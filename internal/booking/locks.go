package booking

import "sync"

// arrangementLocks hands out one mutex per arrangement ID so that at
// most one admission decision (read booked sum, compare, write) is in
// flight per arrangement at a time.  Entries are created lazily and
// never reclaimed; the arrangement catalog is small and bounded.
type arrangementLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newArrangementLocks() *arrangementLocks {
	return &arrangementLocks{locks: make(map[uint64]*sync.Mutex)}
}

// get returns the mutex for the given arrangement, creating it on
// first use.
func (l *arrangementLocks) get(arrangementID uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[arrangementID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[arrangementID] = m
	}
	return m
}
