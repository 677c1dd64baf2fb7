// set.go: type-safe concurrent set facade and snapshot set algebra
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"sync/atomic"
)

// Set is a lock-free concurrent set. It is the Dictionary with the value
// elided: the same open-addressed table stores keys alone. Single-key
// operations (Contains, Add, Remove, FindOrStore) are individually
// linearizable; the set-algebra methods are snapshot operations and are not
// linearizable against concurrent writers.
type Set[K any] struct {
	c *core[K, struct{}]
}

// NewSet creates an empty Set with the given configuration and equality
// capability. The capacity is rounded up to the next power of two and must
// be within [0, MaxCapacity]; zero selects DefaultCapacity.
func NewSet[K any](cfg Config, hasher Hasher[K]) (*Set[K], error) {
	c, err := newCore[K, struct{}](cfg, hasher)
	if err != nil {
		return nil, err
	}
	return &Set[K]{c: c}, nil
}

// NewSetOf creates a Set pre-populated with keys. The table is pre-sized
// from len(keys) when no explicit capacity is configured.
func NewSetOf[K any](cfg Config, hasher Hasher[K], keys []K) (*Set[K], error) {
	if keys == nil {
		return nil, NewErrNilSource("NewSetOf")
	}
	if cfg.Capacity == 0 && len(keys) > 0 {
		cfg.Capacity = len(keys)
		if cfg.Capacity > MaxCapacity {
			cfg.Capacity = MaxCapacity
		}
	}
	s, err := NewSet[K](cfg, hasher)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		s.c.setIfAbsent(k, struct{}{})
	}
	return s, nil
}

// Contains reports whether k is in the set.
func (s *Set[K]) Contains(k K) bool {
	now := s.c.timer.Now()

	found := s.c.getEntry(k) != nil
	if found {
		atomic.AddInt64(&s.c.hits, 1)
	} else {
		atomic.AddInt64(&s.c.misses, 1)
	}
	if s.c.metrics != nil {
		s.c.metrics.RecordGet(s.c.timer.Now()-now, found)
	}
	return found
}

// Add inserts k. Returns true when no prior live binding existed, i.e. the
// set did not already contain the key.
func (s *Set[K]) Add(k K) bool {
	now := s.c.timer.Now()

	prior := s.c.setIfAbsent(k, struct{}{})
	if prior != nil && prior.kind == kindLive {
		return false
	}
	atomic.AddInt64(&s.c.sets, 1)
	if s.c.metrics != nil {
		s.c.metrics.RecordSet(s.c.timer.Now() - now)
	}
	return true
}

// Remove deletes k. Returns true when the set contained the key.
func (s *Set[K]) Remove(k K) bool {
	now := s.c.timer.Now()

	prior := s.c.remove(k)
	if prior == nil || prior.kind != kindLive {
		return false
	}
	atomic.AddInt64(&s.c.deletes, 1)
	if s.c.metrics != nil {
		s.c.metrics.RecordDelete(s.c.timer.Now() - now)
	}
	return true
}

// FindOrStore interns k: it returns the canonical resident key, storing k
// when the set did not already contain an equal key. Idempotent, so the set
// can be used as a deduplication pool where the stored key instance is
// canonical. Interning is only meaningful for key types with reference
// identity (pointers, or structs carrying them); for plain value types the
// returned key is indistinguishable from the argument.
func (s *Set[K]) FindOrStore(k K) K {
	if e := s.c.getEntry(k); e != nil {
		return e.key
	}
	prior := s.c.setIfAbsent(k, struct{}{})
	if prior != nil && prior.kind == kindLive {
		return prior.key
	}
	atomic.AddInt64(&s.c.sets, 1)
	return k
}

// RemoveWhere deletes every key satisfying pred. Returns the number of keys
// removed by this call.
func (s *Set[K]) RemoveWhere(pred func(K) bool) int {
	return s.c.removeWhere(func(k K, _ struct{}) bool { return pred(k) })
}

// Range calls f for each key until f returns false. Iteration is
// best-effort: it reflects ongoing mutations, carries no ordering guarantee,
// and during a resize a key may be visited twice or not at all.
func (s *Set[K]) Range(f func(K) bool) {
	s.c.rangeEntries(func(k K, _ struct{}) bool { return f(k) })
}

// Items returns a best-effort snapshot of the keys.
func (s *Set[K]) Items() []K {
	keys := make([]K, 0, s.Len())
	s.Range(func(k K) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Len returns the approximate number of keys.
func (s *Set[K]) Len() int {
	return s.c.size()
}

// Capacity returns the capacity of the current table, or of the in-progress
// successor when a resize is underway.
func (s *Set[K]) Capacity() int {
	return s.c.tableCapacity()
}

// Clear atomically resets the set to an empty table of the original initial
// capacity.
func (s *Set[K]) Clear() {
	s.c.clear()
}

// applyInitialCapacity updates the capacity used by the next Clear.
func (s *Set[K]) applyInitialCapacity(capacity int) {
	if capacity < 1 || capacity > MaxCapacity {
		return
	}
	atomic.StoreInt64(&s.c.initialCap, int64(nextPowerOf2(capacity)))
}

// Stats returns usage statistics.
func (s *Set[K]) Stats() Stats {
	return Stats{
		Hits:     uint64(atomic.LoadInt64(&s.c.hits)),    // #nosec G115 - counters are non-negative
		Misses:   uint64(atomic.LoadInt64(&s.c.misses)),  // #nosec G115 - counters are non-negative
		Sets:     uint64(atomic.LoadInt64(&s.c.sets)),    // #nosec G115 - counters are non-negative
		Deletes:  uint64(atomic.LoadInt64(&s.c.deletes)), // #nosec G115 - counters are non-negative
		Resizes:  uint64(atomic.LoadInt64(&s.c.resizes)), // #nosec G115 - counters are non-negative
		Size:     s.c.size(),
		Capacity: s.c.tableCapacity(),
	}
}

// =============================================================================
// SET ALGEBRA
//
// These methods are composed from the single-key primitives or rebuild the
// table wholesale. They observe a best-effort snapshot of the set and are
// NOT linearizable against concurrent writers: a writer racing with them
// may or may not be reflected. A nil slice is treated as the empty set.
// =============================================================================

// UnionWith adds every key in keys.
func (s *Set[K]) UnionWith(keys []K) {
	for _, k := range keys {
		s.Add(k)
	}
}

// ExceptWith removes every key in keys.
func (s *Set[K]) ExceptWith(keys []K) {
	for _, k := range keys {
		s.Remove(k)
	}
}

// SymmetricExceptWith toggles membership of every key in keys.
func (s *Set[K]) SymmetricExceptWith(keys []K) {
	for _, k := range keys {
		if !s.Remove(k) {
			s.Add(k)
		}
	}
}

// IntersectWith keeps only the keys present in keys. It rebuilds a private
// table from the intersection and substitutes it under a full fence.
func (s *Set[K]) IntersectWith(keys []K) {
	probe := s.buildProbe(keys)
	fresh, err := newCore[K, struct{}](Config{
		Capacity:     boundedCapacity(probe.size()),
		Logger:       s.c.logger,
		TimeProvider: s.c.timer,
	}, s.c.hasher)
	if err != nil {
		// The capacity is bounded and the hasher non-nil, so this is
		// unreachable; keep the set unchanged rather than panic.
		return
	}
	s.c.rangeEntries(func(k K, _ struct{}) bool {
		if probe.getEntry(k) != nil {
			fresh.setIfAbsent(k, struct{}{})
		}
		return true
	})
	s.c.replaceTable(fresh.table())
}

// Overlaps reports whether the set shares at least one key with keys.
func (s *Set[K]) Overlaps(keys []K) bool {
	for _, k := range keys {
		if s.c.getEntry(k) != nil {
			return true
		}
	}
	return false
}

// IsSupersetOf reports whether every key in keys is in the set.
func (s *Set[K]) IsSupersetOf(keys []K) bool {
	for _, k := range keys {
		if s.c.getEntry(k) == nil {
			return false
		}
	}
	return true
}

// IsSubsetOf reports whether every key in the set is in keys.
func (s *Set[K]) IsSubsetOf(keys []K) bool {
	probe := s.buildProbe(keys)
	subset := true
	s.c.rangeEntries(func(k K, _ struct{}) bool {
		if probe.getEntry(k) == nil {
			subset = false
		}
		return subset
	})
	return subset
}

// SetEquals reports whether the set contains exactly the distinct keys in
// keys.
func (s *Set[K]) SetEquals(keys []K) bool {
	probe := s.buildProbe(keys)
	n := int64(0)
	equal := true
	s.c.rangeEntries(func(k K, _ struct{}) bool {
		if probe.getEntry(k) == nil {
			equal = false
			return false
		}
		n++
		return true
	})
	return equal && n == probe.table().size.get()
}

// buildProbe materializes keys into a private core for membership tests.
func (s *Set[K]) buildProbe(keys []K) *core[K, struct{}] {
	probe, err := newCore[K, struct{}](Config{
		Capacity:     boundedCapacity(len(keys)),
		Logger:       s.c.logger,
		TimeProvider: s.c.timer,
	}, s.c.hasher)
	if err != nil {
		// Unreachable for a bounded capacity and non-nil hasher.
		probe, _ = newCore[K, struct{}](Config{}, s.c.hasher)
	}
	for _, k := range keys {
		probe.setIfAbsent(k, struct{}{})
	}
	return probe
}

// boundedCapacity clamps a size hint into the accepted capacity range.
func boundedCapacity(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxCapacity {
		return MaxCapacity
	}
	return n
}
