// hash.go: stock hashers for common key types
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// StringHasher hashes string keys with xxh3. Zero allocations.
type StringHasher struct{}

func (StringHasher) Hash(k string) uint32 {
	h := xxh3.HashString(k)
	return uint32(h) ^ uint32(h>>32) // #nosec G115 - intentional fold to 32 bits
}

func (StringHasher) Equal(a, b string) bool { return a == b }

// BytesHasher hashes byte-slice keys with xxhash. The slice contents are
// the key identity; callers must not mutate a key after insertion.
type BytesHasher struct{}

func (BytesHasher) Hash(k []byte) uint32 {
	h := xxhash.Sum64(k)
	return uint32(h) ^ uint32(h>>32) // #nosec G115 - intentional fold to 32 bits
}

func (BytesHasher) Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ComparableHasher adapts any comparable key type. Strings are hashed as is
// and integer types are formatted with strconv; other types fall back to
// fmt.Sprintf.
type ComparableHasher[K comparable] struct{}

func (ComparableHasher[K]) Hash(k K) uint32 {
	h := xxh3.HashString(keyToString(k))
	return uint32(h) ^ uint32(h>>32) // #nosec G115 - intentional fold to 32 bits
}

func (ComparableHasher[K]) Equal(a, b K) bool { return a == b }

// keyToString converts a key of any comparable type to string efficiently.
// Uses a type switch so that strings pass through without allocating and
// integer types are formatted with strconv rather than fmt.Sprintf.
// Falls back to fmt.Sprintf for other types.
func keyToString[K comparable](key K) string {
	switch v := any(key).(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		// Uncommon key types (structs, arrays) allocate here.
		return fmt.Sprintf("%v", key)
	}
}
