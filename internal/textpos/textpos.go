// Package textpos converts character offsets in raw file text into the
// 1-based line/column pairs editors and CI annotations expect.
package textpos

import "sort"

// Index scans text once and records the offset of every line start,
// including offset 0 for the first line.
func Index(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Locate maps a character offset to a 1-based (line, column) pair using a
// binary search for the greatest line start not beyond the offset.
func Locate(starts []int, offset int) (line, column int) {
	if len(starts) == 0 {
		return 1, offset + 1
	}
	// First index whose start is strictly greater than offset.
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
	line = i // starts[i-1] is the containing line, rank is 1-based
	column = offset - starts[i-1] + 1
	return line, column
}
