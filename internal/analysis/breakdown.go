package analysis

import (
	"slices"

	"github.com/ademuri/listening-insights/internal/history"
)

const unknownValue = "unknown"

// ValueCount is one row of a breakdown: a distinct value and how many events
// carried it.
type ValueCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// countBy counts the distinct values of key over events. The result is sorted
// by count, descending; equal counts keep first-seen order. Empty values are
// reported as "unknown".
func countBy(events []history.PlayEvent, key func(history.PlayEvent) string) []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for _, e := range events {
		v := key(e)
		if v == "" {
			v = unknownValue
		}
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, ValueCount{Value: v})
		}
		counts[i].Count++
	}

	slices.SortStableFunc(counts, func(a, b ValueCount) int {
		return b.Count - a.Count
	})
	return counts
}

// yearOf buckets a timestamp by its UTC calendar year.
func yearOf(e history.PlayEvent) int {
	return e.Timestamp.UTC().Year()
}

// sortedYears returns the keys of m in ascending order.
func sortedYears[V any](m map[int]V) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
