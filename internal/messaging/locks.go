package messaging

import "sync"

// deviceLocks hands out one mutex per device identifier so state merges
// for the same device are serialized while different devices proceed in
// parallel.
//
// Mutexes are never released; the map is bounded by the number of
// devices that have ever sent a message in this process.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a device, creating it on first use.
func (l *deviceLocks) get(deviceID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[deviceID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[deviceID] = m
	}
	return m
}
