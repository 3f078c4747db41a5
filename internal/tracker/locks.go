package tracker

import "sync"

// AircraftLocks provides a mutual-exclusion token per aircraft id.
//
// The poller holds an aircraft's lock across its store-then-trigger
// step, and the segmenter holds it for a whole segmentation run. This
// serializes the segmenter's read-then-mark of unprocessed samples with
// concurrent inserts by the poller for the same aircraft; different
// aircraft never contend.
type AircraftLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewAircraftLocks creates an empty lock registry.
func NewAircraftLocks() *AircraftLocks {
	return &AircraftLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the lock for an aircraft and returns its unlock func.
func (l *AircraftLocks) Lock(aircraftID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[aircraftID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[aircraftID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
