/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package registry

import (
	"sync"
)

// keyedLock serializes work per ticket id so a request thread never
// validates a ticket the cleaner is concurrently destroying. In-process
// only; a distributed deployment swaps this for a shared lock with the
// same surface.
type keyedLock struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

// lockEntry counts holders and waiters so the entry can be dropped once
// the last one is gone; destroyed ticket ids must not accumulate.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{entries: map[string]*lockEntry{}}
}

func (l *keyedLock) Lock(key string) {
	l.mu.Lock()
	e := l.entries[key]
	if e == nil {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()
	e.mu.Lock()
}

func (l *keyedLock) Unlock(key string) {
	l.mu.Lock()
	e := l.entries[key]
	if e == nil {
		l.mu.Unlock()
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
	e.mu.Unlock()
}
