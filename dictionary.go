// dictionary.go: type-safe concurrent dictionary facade
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"sync"
	"sync/atomic"
)

// Pair is a key-value binding, used by the seeded constructor and the
// snapshot adapters.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Dictionary is a lock-free concurrent hash map. All methods are safe for
// unrestricted concurrent use; single-key operations (Get, Set, SetIfAbsent,
// CompareAndSwap, Remove) are individually linearizable. Bulk operations and
// iteration are best-effort and carry no snapshot guarantee.
//
// Example:
//
//	dict, err := ariadne.NewDictionary[string, User](ariadne.Config{
//	    Capacity: 10_000,
//	}, ariadne.StringHasher{})
//	dict.Set("user:123", user)
//	if value, found := dict.Get("user:123"); found {
//	    fmt.Printf("User: %+v\n", value)
//	}
type Dictionary[K, V any] struct {
	c *core[K, V]

	// Per-dictionary in-flight map for the GetOrLoad singleflight pattern.
	inflight sync.Map
}

// NewDictionary creates an empty Dictionary with the given configuration and
// equality capability. The capacity is rounded up to the next power of two
// and must be within [0, MaxCapacity]; zero selects DefaultCapacity.
func NewDictionary[K, V any](cfg Config, hasher Hasher[K]) (*Dictionary[K, V], error) {
	c, err := newCore[K, V](cfg, hasher)
	if err != nil {
		return nil, err
	}
	return &Dictionary[K, V]{c: c}, nil
}

// NewDictionaryFrom creates a Dictionary pre-populated with pairs. The table
// is pre-sized from len(pairs) when no explicit capacity is configured.
func NewDictionaryFrom[K, V any](cfg Config, hasher Hasher[K], pairs []Pair[K, V]) (*Dictionary[K, V], error) {
	if pairs == nil {
		return nil, NewErrNilSource("NewDictionaryFrom")
	}
	if cfg.Capacity == 0 && len(pairs) > 0 {
		cfg.Capacity = len(pairs)
		if cfg.Capacity > MaxCapacity {
			cfg.Capacity = MaxCapacity
		}
	}
	d, err := NewDictionary[K, V](cfg, hasher)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		d.c.set(p.Key, p.Value)
	}
	return d, nil
}

// Get retrieves the current live value for k.
// Returns the value and true if found, the zero value and false otherwise.
func (d *Dictionary[K, V]) Get(k K) (V, bool) {
	now := d.c.timer.Now()

	e := d.c.getEntry(k)
	if e == nil {
		atomic.AddInt64(&d.c.misses, 1)
		if d.c.metrics != nil {
			d.c.metrics.RecordGet(d.c.timer.Now()-now, false)
		}
		var zero V
		return zero, false
	}

	atomic.AddInt64(&d.c.hits, 1)
	if d.c.metrics != nil {
		d.c.metrics.RecordGet(d.c.timer.Now()-now, true)
	}
	return e.value, true
}

// MustGet is the indexer form of Get: a missing key is reported as a
// key-not-found error distinguishable via IsNotFound.
func (d *Dictionary[K, V]) MustGet(k K) (V, error) {
	v, found := d.Get(k)
	if !found {
		var zero V
		return zero, NewErrKeyNotFound(k)
	}
	return v, nil
}

// Has checks if a key has a live binding without retrieving the value.
func (d *Dictionary[K, V]) Has(k K) bool {
	return d.c.getEntry(k) != nil
}

// Set stores a key-value binding, replacing any previous one.
// Returns the previous value and whether one existed.
func (d *Dictionary[K, V]) Set(k K, v V) (prev V, had bool) {
	now := d.c.timer.Now()

	prior := d.c.set(k, v)
	atomic.AddInt64(&d.c.sets, 1)
	if d.c.metrics != nil {
		d.c.metrics.RecordSet(d.c.timer.Now() - now)
	}
	if prior != nil && prior.kind == kindLive {
		return prior.value, true
	}
	var zero V
	return zero, false
}

// SetIfAbsent stores the binding only when no live binding exists.
// Returns the resident value either way, and whether this call stored it.
func (d *Dictionary[K, V]) SetIfAbsent(k K, v V) (resident V, stored bool) {
	now := d.c.timer.Now()

	prior := d.c.setIfAbsent(k, v)
	if prior != nil && prior.kind == kindLive {
		return prior.value, false
	}
	atomic.AddInt64(&d.c.sets, 1)
	if d.c.metrics != nil {
		d.c.metrics.RecordSet(d.c.timer.Now() - now)
	}
	return v, true
}

// Remove deletes the binding for k.
// Returns the prior value and whether a live binding existed.
func (d *Dictionary[K, V]) Remove(k K) (prev V, had bool) {
	now := d.c.timer.Now()

	prior := d.c.remove(k)
	if prior == nil || prior.kind != kindLive {
		var zero V
		return zero, false
	}
	atomic.AddInt64(&d.c.deletes, 1)
	if d.c.metrics != nil {
		d.c.metrics.RecordDelete(d.c.timer.Now() - now)
	}
	return prior.value, true
}

// CompareAndSwap replaces the value bound to k with newv only when the
// resident live value equals expected under eq. Returns true when the
// replacement happened.
func (d *Dictionary[K, V]) CompareAndSwap(k K, expected, newv V, eq func(V, V) bool) bool {
	now := d.c.timer.Now()

	if !d.c.compareAndSwap(k, expected, newv, eq) {
		return false
	}
	atomic.AddInt64(&d.c.sets, 1)
	if d.c.metrics != nil {
		d.c.metrics.RecordSet(d.c.timer.Now() - now)
	}
	return true
}

// RemoveWhere deletes every binding whose key and value satisfy pred,
// re-checking under CAS so concurrent overwrites are honored. Returns the
// number of bindings removed by this call.
func (d *Dictionary[K, V]) RemoveWhere(pred func(K, V) bool) int {
	return d.c.removeWhere(pred)
}

// Range calls f for each live binding until f returns false. Iteration is
// best-effort: it reflects ongoing mutations, carries no ordering guarantee,
// and during a resize a key may be visited twice or not at all.
func (d *Dictionary[K, V]) Range(f func(K, V) bool) {
	d.c.rangeEntries(f)
}

// Keys returns a best-effort snapshot of the keys.
func (d *Dictionary[K, V]) Keys() []K {
	keys := make([]K, 0, d.Len())
	d.c.rangeEntries(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns a best-effort snapshot of the values.
func (d *Dictionary[K, V]) Values() []V {
	values := make([]V, 0, d.Len())
	d.c.rangeEntries(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Items returns a best-effort snapshot of the bindings.
func (d *Dictionary[K, V]) Items() []Pair[K, V] {
	items := make([]Pair[K, V], 0, d.Len())
	d.c.rangeEntries(func(k K, v V) bool {
		items = append(items, Pair[K, V]{Key: k, Value: v})
		return true
	})
	return items
}

// Len returns the approximate number of live bindings.
func (d *Dictionary[K, V]) Len() int {
	return d.c.size()
}

// Capacity returns the capacity of the current table, or of the in-progress
// successor when a resize is underway.
func (d *Dictionary[K, V]) Capacity() int {
	return d.c.tableCapacity()
}

// Clear atomically resets the dictionary to an empty table of the original
// initial capacity.
func (d *Dictionary[K, V]) Clear() {
	d.c.clear()
}

// applyInitialCapacity updates the capacity used by the next Clear.
func (d *Dictionary[K, V]) applyInitialCapacity(capacity int) {
	if capacity < 1 || capacity > MaxCapacity {
		return
	}
	atomic.StoreInt64(&d.c.initialCap, int64(nextPowerOf2(capacity)))
}

// Stats returns usage statistics.
func (d *Dictionary[K, V]) Stats() Stats {
	return Stats{
		Hits:     uint64(atomic.LoadInt64(&d.c.hits)),    // #nosec G115 - counters are non-negative
		Misses:   uint64(atomic.LoadInt64(&d.c.misses)),  // #nosec G115 - counters are non-negative
		Sets:     uint64(atomic.LoadInt64(&d.c.sets)),    // #nosec G115 - counters are non-negative
		Deletes:  uint64(atomic.LoadInt64(&d.c.deletes)), // #nosec G115 - counters are non-negative
		Resizes:  uint64(atomic.LoadInt64(&d.c.resizes)), // #nosec G115 - counters are non-negative
		Size:     d.c.size(),
		Capacity: d.c.tableCapacity(),
	}
}
