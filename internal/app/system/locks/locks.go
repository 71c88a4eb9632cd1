// Package locks serializes mutations per aggregate.
//
// The document store gives single-document atomicity only. Every compound
// mutation (task create/update/delete plus progress recompute, the paired
// membership writes) touches two or three documents with no transaction, so
// two racing requests against the same project could interleave their writes.
// A per-project mutex closes that window within one process: one writer per
// project ID at a time. It does nothing across processes; that limitation is
// inherited and documented rather than hidden.
package locks

import "sync"

// Keyed hands out one mutex per key. Mutexes are created on first use and
// kept for the life of the process; the key space (project IDs) is small
// enough that reclamation is not worth the bookkeeping.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyed returns an empty keyed lock set.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it if needed.
func (k *Keyed) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the mutex for key. It panics if Lock was not called first,
// same as sync.Mutex.
func (k *Keyed) Unlock(key string) {
	k.get(key).Unlock()
}

func (k *Keyed) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
