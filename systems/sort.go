package systems

import (
	"cmp"
	"slices"
)

func compareKeys(a, b IndexEntry) int {
	return cmp.Compare(a.Key, b.Key)
}

// SortComparison sorts entries by key. Each worker stable-sorts one run,
// then adjacent runs are merged pairwise, one launch per merge round.
// scratch must hold at least len(entries) elements. The result is stable.
func SortComparison(entries, scratch []IndexEntry, l Launcher) {
	n := len(entries)
	workers := l.Workers()
	if workers <= 1 || n < 2*workers {
		slices.SortStableFunc(entries, compareKeys)
		return
	}

	runLen := (n + workers - 1) / workers
	runs := (n + runLen - 1) / runLen
	l.Launch(runs, func(_, lo, hi int) {
		for r := lo; r < hi; r++ {
			start := r * runLen
			end := min(start+runLen, n)
			slices.SortStableFunc(entries[start:end], compareKeys)
		}
	})

	src, dst := entries, scratch[:n]
	for width := runLen; width < n; width *= 2 {
		pairs := (n + 2*width - 1) / (2 * width)
		l.Launch(pairs, func(_, lo, hi int) {
			for p := lo; p < hi; p++ {
				start := p * 2 * width
				mid := min(start+width, n)
				end := min(start+2*width, n)
				mergeRuns(dst[start:end], src[start:mid], src[mid:end])
			}
		})
		src, dst = dst, src
	}
	if &src[0] != &entries[0] {
		copy(entries, src)
	}
}

// mergeRuns merges two sorted runs into dst, taking from left on ties.
func mergeRuns(dst, left, right []IndexEntry) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if right[j].Key < left[i].Key {
			dst[k] = right[j]
			j++
		} else {
			dst[k] = left[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
}
