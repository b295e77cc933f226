package draw

import (
	"sort"
	"strconv"
	"strings"
)

// Fingerprint returns the canonical identity of a drawn combination: the
// numbers sorted ascending and joined with dashes. The order of the input
// does not affect the result, so two queries for the same combination
// always produce the same fingerprint.
func Fingerprint(numbers []int) string {
	sorted := make([]int, len(numbers))
	copy(sorted, numbers)
	sort.Ints(sorted)

	var b strings.Builder

	for i, n := range sorted {
		if i > 0 {
			b.WriteByte('-')
		}

		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}
