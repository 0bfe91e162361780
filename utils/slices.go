package utils

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// SortSlice sorts a slice in place.
func SortSlice[T constraints.Ordered](s []T) {
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})
}

// MinSlice returns the minimum value of a non-empty slice.
func MinSlice[T constraints.Ordered](s []T) (min T) {
	if len(s) == 0 {
		panic("cannot MinSlice: empty slice")
	}
	min = s[0]
	for _, si := range s[1:] {
		min = Min(min, si)
	}
	return
}

// MaxSlice returns the maximum value of a non-empty slice.
func MaxSlice[T constraints.Ordered](s []T) (max T) {
	if len(s) == 0 {
		panic("cannot MaxSlice: empty slice")
	}
	max = s[0]
	for _, si := range s[1:] {
		max = Max(max, si)
	}
	return
}

// CompactFunc removes consecutive elements for which eq(previous kept, current)
// returns true and returns the shortened slice. The input slice is reused.
func CompactFunc[V any](s []V, eq func(a, b V) bool) []V {
	if len(s) < 2 {
		return s
	}
	i := 1
	for k := 1; k < len(s); k++ {
		if !eq(s[i-1], s[k]) {
			s[i] = s[k]
			i++
		}
	}
	return s[:i]
}
