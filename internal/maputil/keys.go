// Package maputil provides small helpers for working with maps.
package maputil

import "sort"

// SortedKeys returns the keys of a string-keyed map in sorted order. A nil
// map yields an empty slice, never nil.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
