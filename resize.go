// resize.go: cooperative incremental table migration
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"
)

const (
	// Resizes whose new capacity is at or above this apply back-pressure
	// when more than two threads race to install the same successor.
	resizeStallCapacity = 1 << 18

	// resizeStallSpins is the brief busy-wait before sleeping.
	resizeStallSpins = 128

	// maxResizeStall bounds the back-pressure sleep.
	maxResizeStall = 200 * time.Millisecond
)

// resize returns the successor of t, installing a freshly sized one if no
// other thread has yet. Writers that exhaust the probe budget and
// RemoveWhere sweeps that removed a large share end up here (a mid-copy
// entry is handled by copySlotAndCheck instead); the protocol is
// cooperative and the CAS install makes it race-free.
func (c *core[K, V]) resize(t *table[K, V]) *table[K, V] {
	if nt := t.loadNext(); nt != nil {
		return nt
	}

	oldCap := int64(t.capacity())
	sz := t.size.get()

	// Size by live density: the fuller the table, the more aggressively
	// it grows.
	newCap := sz
	switch {
	case sz >= oldCap*3/4:
		newCap = sz * 8
	case sz >= oldCap/2:
		newCap = sz * 4
	case sz >= oldCap/4:
		newCap = sz * 2
	}

	// Tombstone-heavy tables resize at the same live count mostly to
	// reclaim dead slots; doubling is enough.
	if atomic.LoadInt64(&t.slots) >= 2*sz {
		newCap = oldCap * 2
	}
	if newCap < oldCap {
		newCap = oldCap
	}
	// A table reborn with the live count it started with suggests resize
	// thrash; break the cycle by doubling.
	if sz == t.prevSize {
		newCap *= 2
	}
	newCap = int64(nextPowerOf2(int(newCap)))

	// Back-pressure: damp allocation storms when many threads race to
	// grow a large table simultaneously.
	r := atomic.AddInt64(&t.resizers, 1)
	if newCap >= resizeStallCapacity && r > 2 {
		for i := 0; i < resizeStallSpins; i++ {
			if nt := t.loadNext(); nt != nil {
				return nt
			}
			runtime.Gosched()
		}
		stall := time.Duration((newCap>>18)*r) * time.Millisecond
		if stall > maxResizeStall {
			stall = maxResizeStall
		}
		deadline := c.timer.Now() + stall.Nanoseconds()
		for c.timer.Now() < deadline {
			if nt := t.loadNext(); nt != nil {
				return nt
			}
			time.Sleep(time.Millisecond)
		}
	}
	if nt := t.loadNext(); nt != nil {
		return nt
	}

	nt := newTable[K, V](int(newCap), t.size, sz)
	if !atomic.CompareAndSwapPointer(&t.next, nil, unsafe.Pointer(nt)) {
		// Lost the install race: adopt the winner.
		return t.loadNext()
	}
	atomic.AddInt64(&c.resizes, 1)
	if c.metrics != nil {
		c.metrics.RecordResize(int(oldCap), nt.capacity())
	}
	c.logger.Debug("resize installed", "from", oldCap, "to", nt.capacity(), "live", sz)
	return nt
}

// copySlotAndCheck finishes the migration of one slot, optionally helps with
// a chunk of further slots, and returns the successor table for the caller
// to retry its operation against.
func (c *core[K, V]) copySlotAndCheck(t *table[K, V], idx uint32, helpChunk bool) *table[K, V] {
	nt := t.loadNext()
	if nt == nil {
		return t
	}
	if c.copySlot(t, idx, nt) {
		c.copyCheckAndPromote(t, 1)
	}
	if helpChunk {
		c.helpCopy(t, nt)
	}
	return nt
}

// copySlot migrates the record at idx into nt. Idempotent: any thread may
// invoke it for any index. Returns true iff this call performed the CAS
// that retired the slot, so each slot contributes exactly one unit to the
// promotion scoreboard.
func (c *core[K, V]) copySlot(t *table[K, V], idx uint32, nt *table[K, V]) bool {
	r := &t.records[idx]

	// Never-claimed slot: retire it outright, nothing to copy.
	if atomic.LoadUint32(&r.hash) == 0 {
		if atomic.CompareAndSwapPointer(&r.ent, nil, deadSentinel) {
			return true
		}
	}

	// Freeze the slot: box any live value into a Prime so concurrent
	// readers know to consult the successor.
	p := atomic.LoadPointer(&r.ent)
	for {
		if p == deadSentinel {
			return false
		}
		if p == nil {
			// Claimed hash, payload never landed.
			if atomic.CompareAndSwapPointer(&r.ent, nil, deadSentinel) {
				return true
			}
			p = atomic.LoadPointer(&r.ent)
			continue
		}
		e := (*entry[K, V])(p)
		if e.kind == kindPrime {
			break
		}
		if e.kind == kindTombstone {
			// No live value to migrate.
			if atomic.CompareAndSwapPointer(&r.ent, p, deadSentinel) {
				return true
			}
			p = atomic.LoadPointer(&r.ent)
			continue
		}
		boxed := &entry[K, V]{kind: kindPrime, key: e.key, value: e.value}
		if atomic.CompareAndSwapPointer(&r.ent, p, unsafe.Pointer(boxed)) {
			p = unsafe.Pointer(boxed)
			break
		}
		p = atomic.LoadPointer(&r.ent)
	}

	// Mirror the binding into the successor. The matchMissing predicate
	// only wins when no later writer has populated the successor slot, and
	// it skips the size counter: the binding was already counted when it
	// was first inserted.
	prime := (*entry[K, V])(p)
	fresh := &entry[K, V]{kind: kindLive, key: prime.key, value: prime.value}
	h := c.keyHash(prime.key)
	c.putIfMatch(nt, prime.key, h, fresh, match[V]{kind: matchMissing})

	// Retire the slot.
	for {
		if atomic.CompareAndSwapPointer(&r.ent, p, deadSentinel) {
			return true
		}
		if atomic.LoadPointer(&r.ent) == deadSentinel {
			return false
		}
	}
}

// helpCopy reserves a chunk of slots and migrates them, crediting the work
// to the promotion scoreboard.
func (c *core[K, V]) helpCopy(t *table[K, V], nt *table[K, V]) {
	capacity := int64(t.capacity())
	chunk := int64(copyChunk)
	if chunk > capacity {
		chunk = capacity
	}
	start := atomic.AddInt64(&t.copyIdx, chunk) - chunk
	if start >= capacity {
		// All slots reserved; the reservers will finish. Still check for
		// promotion in case they already have.
		c.copyCheckAndPromote(t, 0)
		return
	}
	end := start + chunk
	if end > capacity {
		end = capacity
	}
	var work int64
	for i := start; i < end; i++ {
		if c.copySlot(t, uint32(i), nt) { // #nosec G115 - index bounded by capacity
			work++
		}
	}
	c.copyCheckAndPromote(t, work)
}

// copyCheckAndPromote credits finished slots and, once every slot of t has
// been retired, promotes the successor to be the current table. The check
// cascades: a successor that has itself finished copying is promoted too.
func (c *core[K, V]) copyCheckAndPromote(t *table[K, V], work int64) {
	capacity := int64(t.capacity())
	done := atomic.LoadInt64(&t.copyDone)
	if work > 0 {
		done = atomic.AddInt64(&t.copyDone, work)
	}
	for done >= capacity {
		nt := t.loadNext()
		if nt == nil {
			return
		}
		if !atomic.CompareAndSwapPointer(&c.current, unsafe.Pointer(t), unsafe.Pointer(nt)) {
			return
		}
		c.logger.Debug("table promoted", "capacity", nt.capacity(), "live", nt.size.get())
		t = nt
		capacity = int64(t.capacity())
		done = atomic.LoadInt64(&t.copyDone)
	}
}
