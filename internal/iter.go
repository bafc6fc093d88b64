// Package internal holds helpers shared by the vcpu packages.
package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// MergeDefines merges several key/value sequences into one sequence
// ordered by key. A key seen in a later sequence replaces the value
// from an earlier one.
func MergeDefines[K cmp.Ordered, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	merged := map[K]V{}
	for _, seq := range seqs {
		maps.Insert(merged, seq)
	}

	return func(yield func(K, V) bool) {
		for _, key := range slices.Sorted(maps.Keys(merged)) {
			if !yield(key, merged[key]) {
				return
			}
		}
	}
}
