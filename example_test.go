// example_test.go: runnable examples for the package documentation
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne_test

import (
	"fmt"
	"sort"

	"github.com/kyyberi/ariadne"
)

func ExampleNewDictionary() {
	dict, err := ariadne.NewDictionary[string, int](ariadne.Config{
		Capacity: 64,
	}, ariadne.StringHasher{})
	if err != nil {
		panic(err)
	}

	dict.Set("alpha", 1)
	dict.Set("beta", 2)

	if v, found := dict.Get("alpha"); found {
		fmt.Println("alpha:", v)
	}

	prev, had := dict.Set("alpha", 10)
	fmt.Println("replaced:", prev, had)

	// Output:
	// alpha: 1
	// replaced: 1 true
}

func ExampleSet_FindOrStore() {
	set, err := ariadne.NewSet[string](ariadne.Config{}, ariadne.StringHasher{})
	if err != nil {
		panic(err)
	}

	first := set.FindOrStore("token")
	second := set.FindOrStore("token")
	fmt.Println(first == second)

	// Output:
	// true
}

func ExampleDictionary_Range() {
	dict, err := ariadne.NewDictionary[string, int](ariadne.Config{}, ariadne.StringHasher{})
	if err != nil {
		panic(err)
	}
	dict.Set("a", 1)
	dict.Set("b", 2)
	dict.Set("c", 3)

	var keys []string
	dict.Range(func(k string, _ int) bool {
		keys = append(keys, k)
		return true
	})
	sort.Strings(keys)
	fmt.Println(keys)

	// Output:
	// [a b c]
}
