// Package ariadne provides lock-free concurrent collections: a Dictionary
// (hash map) and a Set that tolerate unrestricted concurrent readers and
// writers without any mutual exclusion.
//
// Both collections are built on a single open-addressed hash table whose
// correctness rests entirely on word-sized compare-and-swap operations and a
// cooperative incremental resize protocol: any goroutine that notices a
// migration in progress helps finish it.
//
// Example usage:
//
//	dict, err := ariadne.NewDictionary[string, int](ariadne.Config{
//		Capacity: 1024,
//	}, ariadne.StringHasher{})
//
//	dict.Set("answer", 42)
//	value, found := dict.Get("answer")
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

const (
	// Version of the ariadne collections library
	Version = "v0.1.0-dev"

	// DefaultCapacity is the table capacity used when Config.Capacity is zero.
	DefaultCapacity = 16

	// MaxCapacity is the largest accepted initial capacity (2^26 slots).
	MaxCapacity = 1 << 26
)
