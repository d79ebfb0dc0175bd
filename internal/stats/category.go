package stats

import (
	"sort"

	"github.com/jmallek/lectern/internal/storage"
)

// CategoryShare is one slice of the category breakdown.
type CategoryShare struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Percent  int    `json:"percent"`
}

// CategoryBreakdown computes the percentage distribution of reads across
// categories, sorted by count descending (ties alphabetical). Percentages
// use largest-remainder rounding, so a non-empty breakdown always sums to
// exactly 100.
func CategoryBreakdown(events []storage.ReadEvent) []CategoryShare {
	if len(events) == 0 {
		return []CategoryShare{}
	}

	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Category]++
	}

	shares := make([]CategoryShare, 0, len(counts))
	for cat, n := range counts {
		shares = append(shares, CategoryShare{Category: cat, Count: n})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Category < shares[j].Category
	})

	// Largest-remainder apportionment: hand out floor percentages first,
	// then distribute the leftover points to the largest remainders.
	total := len(events)
	remainders := make([]int, len(shares)) // remainder scaled by total
	assigned := 0
	for i, s := range shares {
		scaled := s.Count * 100
		shares[i].Percent = scaled / total
		remainders[i] = scaled % total
		assigned += shares[i].Percent
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})

	for i := 0; i < 100-assigned; i++ {
		shares[order[i%len(order)]].Percent++
	}

	return shares
}

// DistinctCategories counts the number of different categories read.
func DistinctCategories(events []storage.ReadEvent) int {
	seen := make(map[string]bool)
	for _, e := range events {
		seen[e.Category] = true
	}
	return len(seen)
}

// DistinctDocuments counts the number of different document paths read.
func DistinctDocuments(events []storage.ReadEvent) int {
	seen := make(map[string]bool)
	for _, e := range events {
		seen[e.Path] = true
	}
	return len(seen)
}
