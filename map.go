// map.go: core lock-free open-addressed hash table
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"sync/atomic"
	"unsafe"
)

// core is the shared engine behind Dictionary and Set. It holds a single
// atomic pointer to the current table, the hash/equality capability and the
// operation counters. All mutations go through CAS on record slots; the
// current-table pointer rotates through CAS during resize promotion.
type core[K, V any] struct {
	// 64-bit atomic fields (MUST be first for 32-bit alignment)
	hits       int64
	misses     int64
	sets       int64
	deletes    int64
	resizes    int64
	initialCap int64 // capacity used by Clear; hot-reloadable

	current unsafe.Pointer // *table[K,V]

	hasher  Hasher[K]
	logger  Logger
	timer   TimeProvider
	metrics MetricsCollector
}

// Match predicates for putIfMatch. They decide, against the resident entry,
// whether the write may proceed.
const (
	matchAny     int32 = iota // unconditional write
	matchAbsent               // only when no live binding exists
	matchLive                 // only when a live binding exists (delete)
	matchValue                // only when the live value equals expected
	matchMissing              // only when the payload is nil (resize mirror)
)

type match[V any] struct {
	kind     int32
	expected V
	eq       func(V, V) bool
}

func newCore[K, V any](cfg Config, hasher Hasher[K]) (*core[K, V], error) {
	if hasher == nil {
		return nil, NewErrNilHasher()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Capacity < 0 || cfg.Capacity > MaxCapacity {
		return nil, NewErrInvalidCapacity(cfg.Capacity)
	}
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	capacity = nextPowerOf2(capacity)

	c := &core[K, V]{
		initialCap: int64(capacity),
		hasher:     hasher,
		logger:     cfg.Logger,
		timer:      cfg.TimeProvider,
		metrics:    cfg.MetricsCollector,
	}
	t := newTable[K, V](capacity, newCounter(), 0)
	atomic.StorePointer(&c.current, unsafe.Pointer(t))
	return c, nil
}

func (c *core[K, V]) table() *table[K, V] {
	return (*table[K, V])(atomic.LoadPointer(&c.current))
}

// matchOK evaluates a match predicate against the resident entry.
// resident is nil when the slot has no payload yet.
func (c *core[K, V]) matchOK(m match[V], resident *entry[K, V]) bool {
	switch m.kind {
	case matchAny:
		return true
	case matchAbsent:
		return resident == nil || resident.kind == kindTombstone
	case matchLive:
		return resident != nil && resident.kind == kindLive
	case matchValue:
		return resident != nil && resident.kind == kindLive && m.eq(resident.value, m.expected)
	case matchMissing:
		return resident == nil
	}
	return false
}

// zeroHashSubstitute replaces a user hash of 0: zero is reserved to mean
// "slot never written".
const zeroHashSubstitute uint32 = 0x55555555

// keyHash returns the user hash mapped into the nonzero space.
func (c *core[K, V]) keyHash(k K) uint32 {
	h := c.hasher.Hash(k)
	if h == 0 {
		return zeroHashSubstitute
	}
	return h
}

// getEntry returns the resident live entry for k, or nil when absent.
func (c *core[K, V]) getEntry(k K) *entry[K, V] {
	return c.getImpl(c.table(), k, c.keyHash(k))
}

func (c *core[K, V]) getImpl(t *table[K, V], k K, h uint32) *entry[K, V] {
tableLoop:
	for t != nil {
		idx := h & t.mask
		for probes := uint32(0); probes < t.reprobe; probes++ {
			r := &t.records[idx]
			rh := atomic.LoadUint32(&r.hash)
			if rh == 0 {
				// Never claimed: the key is not in this table.
				t = t.loadNext()
				continue tableLoop
			}
			if rh == h {
				p := atomic.LoadPointer(&r.ent)
				switch {
				case p == nil:
					// Claimed hash with no payload yet: the insert has not
					// landed, the binding is absent.
					return nil
				case p == deadSentinel:
					t = t.loadNext()
					continue tableLoop
				default:
					e := (*entry[K, V])(p)
					if c.hasher.Equal(e.key, k) {
						switch e.kind {
						case kindLive:
							return e
						case kindTombstone:
							return nil
						default:
							// Mid-copy: the successor may hold a newer write
							// for this key, so finish the copy and ask it.
							t = c.copySlotAndCheck(t, idx, true)
							continue tableLoop
						}
					}
					// Foreign key sharing the hash: keep probing.
				}
			}
			idx = (idx + 1) & t.mask
		}
		// Probe budget exhausted.
		t = t.loadNext()
	}
	return nil
}

// putIfMatch threads a desired entry and a match predicate through the
// table. It returns the prior resident entry: nil when the slot held no
// binding. When the predicate fails, the resident is returned unchanged.
func (c *core[K, V]) putIfMatch(t *table[K, V], k K, h uint32, newe *entry[K, V], m match[V]) *entry[K, V] {
tableLoop:
	for {
		idx := h & t.mask
		for probes := uint32(0); ; probes++ {
			if probes >= t.reprobe {
				// Out of probe budget: escalate to the successor,
				// creating it if nobody has yet.
				nt := t.loadNext()
				if nt == nil {
					nt = c.resize(t)
				}
				c.helpCopy(t, nt)
				t = nt
				continue tableLoop
			}
			r := &t.records[idx]
			rh := atomic.LoadUint32(&r.hash)
			if rh == 0 {
				// A delete against an unclaimed slot must not allocate it.
				if newe.kind == kindTombstone {
					return nil
				}
				if atomic.CompareAndSwapUint32(&r.hash, 0, h) {
					atomic.AddInt64(&t.slots, 1)
					rh = h
				} else {
					rh = atomic.LoadUint32(&r.hash)
				}
			}
			if rh != h {
				idx = (idx + 1) & t.mask
				continue
			}

			// Candidate slot.
			p := atomic.LoadPointer(&r.ent)
			if p == nil {
				// Empty-payload fast path: the first installed entry binds
				// the slot's key identity.
				if !c.matchOK(m, nil) {
					return nil
				}
				if atomic.CompareAndSwapPointer(&r.ent, nil, unsafe.Pointer(newe)) {
					if newe.kind == kindLive && m.kind != matchMissing {
						t.size.add(1)
					}
					return nil
				}
				p = atomic.LoadPointer(&r.ent)
			}
			if p == deadSentinel {
				t = t.loadNext()
				continue tableLoop
			}
			e := (*entry[K, V])(p)
			if !c.hasher.Equal(e.key, k) {
				// Foreign slot.
				idx = (idx + 1) & t.mask
				continue
			}

			// Resize in progress: move this binding over, then restart the
			// operation against the successor.
			if m.kind != matchMissing && t.loadNext() != nil {
				t = c.copySlotAndCheck(t, idx, true)
				continue tableLoop
			}

			// CAS loop on the payload.
			for {
				if e.kind == kindPrime {
					t = c.copySlotAndCheck(t, idx, true)
					continue tableLoop
				}
				if !c.matchOK(m, e) {
					return e
				}
				if atomic.CompareAndSwapPointer(&r.ent, p, unsafe.Pointer(newe)) {
					wasLive := e.kind == kindLive
					isLive := newe.kind == kindLive
					if isLive && !wasLive {
						t.size.add(1)
					} else if !isLive && wasLive {
						t.size.add(-1)
					}
					return e
				}
				p = atomic.LoadPointer(&r.ent)
				if p == deadSentinel {
					t = t.loadNext()
					continue tableLoop
				}
				e = (*entry[K, V])(p)
			}
		}
	}
}

// set installs an unconditional live binding and returns the prior entry.
func (c *core[K, V]) set(k K, v V) *entry[K, V] {
	h := c.keyHash(k)
	return c.putIfMatch(c.table(), k, h, &entry[K, V]{kind: kindLive, key: k, value: v}, match[V]{kind: matchAny})
}

// setIfAbsent installs the binding only when no live binding exists.
func (c *core[K, V]) setIfAbsent(k K, v V) *entry[K, V] {
	h := c.keyHash(k)
	return c.putIfMatch(c.table(), k, h, &entry[K, V]{kind: kindLive, key: k, value: v}, match[V]{kind: matchAbsent})
}

// remove installs a tombstone over a live binding and returns the prior entry.
func (c *core[K, V]) remove(k K) *entry[K, V] {
	h := c.keyHash(k)
	return c.putIfMatch(c.table(), k, h, &entry[K, V]{kind: kindTombstone, key: k}, match[V]{kind: matchLive})
}

// compareAndSwap replaces the live value only when it equals expected under
// the caller-supplied comparator. Returns true when the swap happened.
func (c *core[K, V]) compareAndSwap(k K, expected, newv V, eq func(V, V) bool) bool {
	h := c.keyHash(k)
	prior := c.putIfMatch(c.table(), k, h,
		&entry[K, V]{kind: kindLive, key: k, value: newv},
		match[V]{kind: matchValue, expected: expected, eq: eq})
	return prior != nil && prior.kind == kindLive && eq(prior.value, expected)
}

// rangeEntries walks the current table and any successor it encounters,
// yielding live bindings. Primes are helped along the way so that their
// bindings become observable in the successor pass. No snapshot guarantee:
// a key may be seen twice during a resize, or not at all if it lands in the
// successor behind the cursor.
func (c *core[K, V]) rangeEntries(f func(k K, v V) bool) {
	t := c.table()
	for t != nil {
		for i := range t.records {
			p := atomic.LoadPointer(&t.records[i].ent)
			if p == nil || p == deadSentinel {
				continue
			}
			e := (*entry[K, V])(p)
			switch e.kind {
			case kindLive:
				if !f(e.key, e.value) {
					return
				}
			case kindPrime:
				c.copySlotAndCheck(t, uint32(i), false) // #nosec G115 - index bounded by capacity
			}
		}
		t = t.loadNext()
	}
}

// removeWhere sweeps live bindings whose key/value satisfy pred, replacing
// each with a tombstone under a CAS loop. The predicate is re-evaluated on
// CAS loss. A sweep that removed more than 1/16 of the capacity or 1/4 of
// the size proactively triggers a resize to reclaim tombstones.
func (c *core[K, V]) removeWhere(pred func(K, V) bool) int {
	removed := 0
	t := c.table()
	for t != nil {
		for i := range t.records {
			r := &t.records[i]
			for {
				p := atomic.LoadPointer(&r.ent)
				if p == nil || p == deadSentinel {
					break
				}
				e := (*entry[K, V])(p)
				if e.kind == kindPrime {
					c.copySlotAndCheck(t, uint32(i), false) // #nosec G115 - index bounded by capacity
					break
				}
				if e.kind != kindLive || !pred(e.key, e.value) {
					break
				}
				tomb := &entry[K, V]{kind: kindTombstone, key: e.key}
				if atomic.CompareAndSwapPointer(&r.ent, p, unsafe.Pointer(tomb)) {
					t.size.add(-1)
					atomic.AddInt64(&c.deletes, 1)
					removed++
					break
				}
			}
		}
		t = t.loadNext()
	}

	ct := c.table()
	sz := ct.size.get()
	if removed > ct.capacity()/16 || int64(removed) > sz/4 {
		nt := ct.loadNext()
		if nt == nil {
			nt = c.resize(ct)
		}
		c.helpCopy(ct, nt)
	}
	return removed
}

// clear atomically swaps in a brand-new empty table of the configured
// initial capacity with a fresh counter, abandoning the old table chain.
func (c *core[K, V]) clear() {
	capacity := int(atomic.LoadInt64(&c.initialCap))
	t := newTable[K, V](capacity, newCounter(), 0)
	// The atomic store is a full fence: the replacement table is fully
	// initialized before it becomes reachable.
	atomic.StorePointer(&c.current, unsafe.Pointer(t))
	c.logger.Debug("collection cleared", "capacity", capacity)
}

// replaceTable substitutes a privately built table under a full fence.
// Used by snapshot rebuilds such as the set's IntersectWith.
func (c *core[K, V]) replaceTable(t *table[K, V]) {
	atomic.StorePointer(&c.current, unsafe.Pointer(t))
}

// size reports the approximate number of live bindings.
func (c *core[K, V]) size() int {
	return int(c.table().size.get())
}

// tableCapacity reports the capacity of the current table, or of its
// in-progress successor when a resize is underway.
func (c *core[K, V]) tableCapacity() int {
	t := c.table()
	if nt := t.loadNext(); nt != nil {
		return nt.capacity()
	}
	return t.capacity()
}
