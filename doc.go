// Package ariadne provides lock-free concurrent collections: Dictionary and
// Set, built on a shared open-addressed hash table with a cooperative
// incremental resize protocol.
//
// # Overview
//
// Ariadne is designed for workloads with unrestricted concurrent readers and
// writers:
//   - No mutual exclusion: correctness rests entirely on word-sized
//     compare-and-swap operations on record slots and on the table pointer
//   - Lock-free progress: some operation always completes; a suspended
//     goroutine never blocks the rest of the system
//   - Cooperative resize: any goroutine that notices a migration helps
//     finish it in chunks, so growth cost is spread across all writers
//   - Type safety: generic Dictionary[K, V] and Set[K] with a pluggable
//     Hasher[K] equality capability
//
// # Guarantees
//
// Single-key operations (Get, Set, SetIfAbsent, CompareAndSwap, Remove, Add,
// Contains, FindOrStore) are individually linearizable. Bulk operations,
// Len, Stats and iteration are best-effort: they reflect ongoing mutations
// and carry no snapshot or ordering guarantee. The set-algebra methods
// observe a best-effort snapshot and are documented as such.
//
// # Quick Start
//
//	import "github.com/kyyberi/ariadne"
//
//	func main() {
//	    dict, err := ariadne.NewDictionary[string, int](ariadne.Config{
//	        Capacity: 1024,
//	    }, ariadne.StringHasher{})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    dict.Set("answer", 42)
//	    if v, found := dict.Get("answer"); found {
//	        fmt.Println(v)
//	    }
//
//	    stats := dict.Stats()
//	    fmt.Printf("Hit ratio: %.2f%%\n", stats.HitRatio())
//	}
//
// # Interning with Set
//
// The Set doubles as a deduplication pool: FindOrStore returns the canonical
// resident key, so equal-but-distinct instances collapse to one:
//
//	canonical := set.FindOrStore(key)
//
// # Observability
//
// Operation latencies and hit/miss rates flow through the MetricsCollector
// interface; the otel submodule provides an OpenTelemetry implementation.
// Structured errors carry codes and context via the go-errors library.
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0
package ariadne
