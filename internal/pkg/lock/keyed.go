package lock

import (
	"sync"

	"github.com/google/uuid"
)

// Keyed serializes operations per key. Booking writes for one provider must
// be mutually exclusive across the whole check-then-reserve section;
// different providers proceed in parallel.
//
// Entries are reference-counted and removed once the last holder releases,
// so the map does not grow with the number of providers ever seen.
type Keyed struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[uuid.UUID]*entry)}
}

// Acquire blocks until the key's lock is held and returns the release func.
func (k *Keyed) Acquire(key uuid.UUID) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.entries, key)
			}
			k.mu.Unlock()
		})
	}
}
