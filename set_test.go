// set_test.go: behavior tests for Set and the snapshot set algebra
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newIntSet(t *testing.T, capacity int, keys ...int) *Set[int] {
	t.Helper()
	if keys == nil {
		keys = []int{}
	}
	s, err := NewSetOf[int](Config{Capacity: capacity}, intHasher{}, keys)
	if err != nil {
		t.Fatalf("NewSetOf failed: %v", err)
	}
	return s
}

func sortedItems(s *Set[int]) []int {
	items := s.Items()
	sort.Ints(items)
	return items
}

func TestSet_AddContainsRemove(t *testing.T) {
	s := newIntSet(t, 16)

	if s.Contains(1) {
		t.Error("empty set should not contain 1")
	}
	if !s.Add(1) {
		t.Error("first Add should report a new key")
	}
	if s.Add(1) {
		t.Error("second Add of the same key should report it resident")
	}
	if !s.Contains(1) {
		t.Error("set should contain 1 after Add")
	}
	if !s.Remove(1) {
		t.Error("Remove of resident key should succeed")
	}
	if s.Remove(1) {
		t.Error("Remove of absent key should fail")
	}
	// Add after Remove is a fresh insertion again.
	if !s.Add(1) {
		t.Error("Add after Remove should report a new key")
	}
}

func TestSet_AddAfterTombstone(t *testing.T) {
	s := newIntSet(t, 4)
	s.Add(5)
	s.Remove(5)

	// The slot now holds a tombstone; Add must still report a new key.
	if !s.Add(5) {
		t.Error("Add over a tombstone should report a new key")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

type internKey struct {
	name string
}

type internHasher struct{}

func (internHasher) Hash(k *internKey) uint32 {
	var h uint32
	for i := 0; i < len(k.name); i++ {
		h = h*31 + uint32(k.name[i])
	}
	return h
}

func (internHasher) Equal(a, b *internKey) bool { return a.name == b.name }

func TestSet_FindOrStoreInterning(t *testing.T) {
	s, err := NewSet[*internKey](Config{}, internHasher{})
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}

	first := &internKey{name: "alpha"}
	second := &internKey{name: "alpha"} // equal but not identical

	got := s.FindOrStore(first)
	if got != first {
		t.Fatal("first FindOrStore should return the argument instance")
	}

	got = s.FindOrStore(second)
	if got != first {
		t.Error("second FindOrStore should return the canonical stored instance")
	}

	// Idempotent: repeated calls keep returning the same instance.
	if s.FindOrStore(second) != first {
		t.Error("FindOrStore is not idempotent")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSet_RemoveWhere(t *testing.T) {
	s := newIntSet(t, 64)
	for i := 0; i < 32; i++ {
		s.Add(i)
	}

	removed := s.RemoveWhere(func(k int) bool { return k%2 == 0 })
	if removed != 16 {
		t.Errorf("RemoveWhere removed %d, want 16", removed)
	}
	for i := 0; i < 32; i++ {
		if s.Contains(i) != (i%2 == 1) {
			t.Errorf("Contains(%d) = %v after sweep", i, s.Contains(i))
		}
	}
}

func TestSet_UnionWith(t *testing.T) {
	s := newIntSet(t, 16, 1, 2)
	s.UnionWith([]int{2, 3, 4})

	if diff := cmp.Diff([]int{1, 2, 3, 4}, sortedItems(s)); diff != "" {
		t.Errorf("union mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_ExceptWith(t *testing.T) {
	s := newIntSet(t, 16, 1, 2, 3, 4)
	s.ExceptWith([]int{2, 4, 99})

	if diff := cmp.Diff([]int{1, 3}, sortedItems(s)); diff != "" {
		t.Errorf("except mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_SymmetricExceptWith(t *testing.T) {
	s := newIntSet(t, 16, 1, 2, 3)
	s.SymmetricExceptWith([]int{2, 3, 4})

	if diff := cmp.Diff([]int{1, 4}, sortedItems(s)); diff != "" {
		t.Errorf("symmetric except mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_IntersectWith(t *testing.T) {
	s := newIntSet(t, 16, 1, 2, 3, 4, 5)
	s.IntersectWith([]int{2, 4, 6})

	if diff := cmp.Diff([]int{2, 4}, sortedItems(s)); diff != "" {
		t.Errorf("intersection mismatch (-want +got):\n%s", diff)
	}
	// The rebuilt table keeps working for subsequent operations.
	if !s.Add(10) {
		t.Error("Add after IntersectWith should work")
	}
	if !s.Contains(2) || s.Contains(3) {
		t.Error("membership wrong after IntersectWith")
	}
}

func TestSet_Predicates(t *testing.T) {
	s := newIntSet(t, 16, 1, 2, 3)

	if !s.Overlaps([]int{3, 9}) {
		t.Error("Overlaps should see shared key 3")
	}
	if s.Overlaps([]int{8, 9}) {
		t.Error("Overlaps should be false for disjoint keys")
	}
	if !s.IsSupersetOf([]int{1, 3}) {
		t.Error("IsSupersetOf([1 3]) should hold")
	}
	if s.IsSupersetOf([]int{1, 9}) {
		t.Error("IsSupersetOf([1 9]) should fail")
	}
	if !s.IsSubsetOf([]int{1, 2, 3, 4}) {
		t.Error("IsSubsetOf([1 2 3 4]) should hold")
	}
	if s.IsSubsetOf([]int{1, 2}) {
		t.Error("IsSubsetOf([1 2]) should fail")
	}
	if !s.SetEquals([]int{3, 2, 1, 1}) {
		t.Error("SetEquals should ignore duplicate keys in the argument")
	}
	if s.SetEquals([]int{1, 2}) || s.SetEquals([]int{1, 2, 3, 4}) {
		t.Error("SetEquals should compare exact membership")
	}
}

func TestSet_Clear(t *testing.T) {
	s := newIntSet(t, 8, 1, 2, 3)
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}
	if s.Contains(1) {
		t.Error("Contains(1) should be false after Clear")
	}
}

func TestNewSetOf_NilKeys(t *testing.T) {
	_, err := NewSetOf[int](Config{}, intHasher{}, nil)
	if err == nil {
		t.Fatal("expected error for nil keys")
	}
	if GetErrorCode(err) != ErrCodeNilSource {
		t.Errorf("error code = %v, want %v", GetErrorCode(err), ErrCodeNilSource)
	}
}

func TestNewSetOf_DuplicateKeys(t *testing.T) {
	s := newIntSet(t, 0, 1, 1, 2, 2, 3)
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3 distinct keys", s.Len())
	}
}
