package util

import (
	"sync"
)

type refCount struct {
	readers int
	writer  bool
}

// MultiLocker hands out non-blocking read/write locks per key. Keys with no
// holders take no memory.
type MultiLocker[K comparable] struct {
	mtx   sync.Mutex
	inUse map[K]*refCount
}

func NewMultiLocker[K comparable]() *MultiLocker[K] {
	return &MultiLocker[K]{
		inUse: make(map[K]*refCount),
	}
}

func (l *MultiLocker[K]) TryLock(key K) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	rc := l.get(key)
	if rc.readers > 0 || rc.writer {
		return false
	}
	rc.writer = true
	return true
}

func (l *MultiLocker[K]) TryRLock(key K) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	rc := l.get(key)
	if rc.writer {
		return false
	}
	rc.readers++
	return true
}

func (l *MultiLocker[K]) Unlock(key K) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	rc := l.inUse[key]
	if rc == nil || !rc.writer {
		panic("unlocking unlocked multi locker")
	}
	delete(l.inUse, key)
}

func (l *MultiLocker[K]) RUnlock(key K) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	rc := l.inUse[key]
	if rc == nil || rc.readers < 1 {
		panic("runlocking unlocked multi locker")
	}
	rc.readers--
	if rc.readers == 0 {
		delete(l.inUse, key)
	}
}

// Held returns the number of keys with at least one holder.
func (l *MultiLocker[K]) Held() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.inUse)
}

func (l *MultiLocker[K]) get(key K) *refCount {
	rc, ok := l.inUse[key]
	if !ok {
		rc = &refCount{}
		l.inUse[key] = rc
	}
	return rc
}
