// resize_test.go: incremental resize and probe-budget behavior
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"testing"
)

func TestResize_GrowthUnderLoad(t *testing.T) {
	d := newIntDict(t, 2)

	for i := 1; i <= 128; i++ {
		d.Set(i, "v")
	}

	if d.Capacity() <= 2 {
		t.Errorf("Capacity = %d, expected at least one completed resize", d.Capacity())
	}
	if d.Stats().Resizes == 0 {
		t.Error("expected resize counter to advance")
	}
	for i := 1; i <= 128; i++ {
		if _, found := d.Get(i); !found {
			t.Fatalf("Get(%d) missed after growth", i)
		}
	}
	if d.Len() != 128 {
		t.Errorf("Len = %d, want 128", d.Len())
	}
}

func TestResize_ProbeBudgetExhaustionTriggersResize(t *testing.T) {
	// Every key hashes identically, so the probe budget of a capacity-16
	// table (5 probes) is exhausted after 5 resident keys.
	d, err := NewDictionary[int, string](Config{Capacity: 16}, collideHasher{})
	if err != nil {
		t.Fatalf("NewDictionary failed: %v", err)
	}

	for i := 1; i <= 12; i++ {
		d.Set(i, "v")
	}

	if d.Stats().Resizes == 0 {
		t.Error("probe exhaustion should have triggered a resize, not a silent miss")
	}
	for i := 1; i <= 12; i++ {
		if _, found := d.Get(i); !found {
			t.Fatalf("Get(%d) missed after collision-driven growth", i)
		}
	}
	// A missing key with the same crowded hash is still a clean miss.
	if _, found := d.Get(999); found {
		t.Error("Get of absent key should miss")
	}
}

func TestResize_TombstoneReclaim(t *testing.T) {
	d := newIntDict(t, 16)

	// Churn a fresh batch of 8 keys each round so tombstones pile up
	// without the live count growing.
	for round := 0; round < 50; round++ {
		for i := 0; i < 8; i++ {
			k := round*8 + i
			d.Set(k, "v")
		}
		for i := 0; i < 8; i++ {
			k := round*8 + i
			d.Remove(k)
		}
	}

	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0 after churn", d.Len())
	}
	// The table stayed usable throughout; a fresh insert lands fine.
	d.Set(1_000_000, "x")
	if _, found := d.Get(1_000_000); !found {
		t.Error("insert after churn missed")
	}
}

func TestResize_SizeSurvivesGrowth(t *testing.T) {
	d := newIntDict(t, 2)
	for i := 1; i <= 64; i++ {
		d.Set(i, "v")
		// The aliased counter must never report fewer live bindings than
		// have been inserted and not removed.
		if got := d.Len(); got != i {
			t.Fatalf("Len after %d inserts = %d", i, got)
		}
	}
}

func TestResize_RemoveWhereSweepTriggersReclaim(t *testing.T) {
	d := newIntDict(t, 64)
	for i := 0; i < 64; i++ {
		d.Set(i, "v")
	}

	removed := d.RemoveWhere(func(k int, _ string) bool { return k < 48 })
	if removed != 48 {
		t.Fatalf("removed = %d, want 48", removed)
	}
	// The sweep removed far more than 1/4 of the live count, so it
	// proactively resized; the survivors must still be reachable.
	for i := 48; i < 64; i++ {
		if _, found := d.Get(i); !found {
			t.Errorf("Get(%d) missed after sweep", i)
		}
	}
	if d.Len() != 16 {
		t.Errorf("Len = %d, want 16", d.Len())
	}
}

func TestReprobeLimit(t *testing.T) {
	tests := []struct {
		capacity int
		want     uint32
	}{
		{1, 1},
		{4, 4},
		{16, 5},
		{32, 6},
		{1024, 37},
	}
	for _, tt := range tests {
		if got := reprobeLimit(tt.capacity); got != tt.want {
			t.Errorf("reprobeLimit(%d) = %d, want %d", tt.capacity, got, tt.want)
		}
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {1023, 1024}, {1024, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOf2(tt.in); got != tt.want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
