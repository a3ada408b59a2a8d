// Package registry tracks every live pool instance for one payload
// type, process-wide, so that a pool being shut down can offer its
// surplus slots to a sibling pool instead of destroying them outright.
// Shrink does not go through the registry.
//
// The original notion of "rescue a thread-local cache when its owning
// thread exits" has no Go equivalent — goroutines have no exit hook,
// and per-P shards (see internal/shard) never belong to one goroutine
// long enough to need rescuing. What the registry rescues instead is
// pool-instance retirement: Close is a deterministic, observable
// event, unlike goroutine death, which makes this a
// strictly more testable rescue point than the original design.
package registry

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Rescuer is implemented by a pool instance willing to both offer and
// accept slots during another instance's retirement.
type Rescuer interface {
	// TryAbsorb offers one slot to this pool; it returns false if the
	// pool has no room (its ring is full) or is itself shutting down.
	TryAbsorb(slot any) bool
	// Alive reports whether this pool is still accepting work. Dead
	// pools are skipped as rescue targets; they stay registered until
	// they Unregister themselves.
	Alive() bool
}

type typeRegistry struct {
	mu      sync.RWMutex
	members map[uuid.UUID]Rescuer
}

var (
	globalMu sync.RWMutex
	global   = map[reflect.Type]*typeRegistry{}
)

func registryFor(t reflect.Type) *typeRegistry {
	globalMu.RLock()
	r, ok := global[t]
	globalMu.RUnlock()
	if ok {
		return r
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if r, ok := global[t]; ok {
		return r
	}
	r = &typeRegistry{members: make(map[uuid.UUID]Rescuer)}
	global[t] = r
	return r
}

// Register adds a pool instance to the process-wide registry for
// payload type t, returning a stable identity to later Unregister it.
func Register(t reflect.Type, r Rescuer) uuid.UUID {
	id := uuid.New()
	reg := registryFor(t)
	reg.mu.Lock()
	reg.members[id] = r
	reg.mu.Unlock()
	return id
}

// Unregister removes a pool instance, typically called once during
// Close, before its remaining slots are offered to siblings.
func Unregister(t reflect.Type, id uuid.UUID) {
	reg := registryFor(t)
	reg.mu.Lock()
	delete(reg.members, id)
	reg.mu.Unlock()
}

// Rescue offers slot to every other live pool instance registered for
// type t (excluding self), stopping at the first one that accepts. It
// reports whether any sibling absorbed the slot.
func Rescue(t reflect.Type, self uuid.UUID, slot any) bool {
	reg := registryFor(t)
	reg.mu.RLock()
	candidates := make([]Rescuer, 0, len(reg.members))
	for id, r := range reg.members {
		if id == self {
			continue
		}
		candidates = append(candidates, r)
	}
	reg.mu.RUnlock()

	for _, r := range candidates {
		if !r.Alive() {
			continue
		}
		if r.TryAbsorb(slot) {
			return true
		}
	}
	return false
}

// Count returns the number of live pool instances registered for
// type t, for diagnostics and tests.
func Count(t reflect.Type) int {
	reg := registryFor(t)
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.members)
}
