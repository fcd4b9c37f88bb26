package stats

import (
	"sort"

	"github.com/verte-zerg/tuidrill/internal/model"
)

// TopItemsByFrequency returns the names of the n most answered items.
func TopItemsByFrequency(aggs []model.ItemAggregate, n int) []string {
	if n <= 0 {
		return nil
	}
	return rankItems(aggs, n, nil, func(a, b model.ItemAggregate) int {
		return (b.Correct + b.Wrong) - (a.Correct + a.Wrong)
	})
}

// SelectWeakItems returns the names of the lowest-accuracy items, weakest
// first, breaking ties by wrong answers. Items without answers are skipped.
// A top of zero or less returns every answered item.
func SelectWeakItems(aggs []model.ItemAggregate, top int) []string {
	answered := func(agg model.ItemAggregate) bool {
		return agg.Correct+agg.Wrong > 0
	}
	return rankItems(aggs, top, answered, func(a, b model.ItemAggregate) int {
		if accA, accB := itemAccuracy(a), itemAccuracy(b); accA != accB {
			if accA < accB {
				return -1
			}
			return 1
		}
		return b.Wrong - a.Wrong
	})
}

// rankItems orders the aggregates kept by keep with order, then by name, and
// returns at most limit names. A limit of zero or less keeps them all.
func rankItems(aggs []model.ItemAggregate, limit int, keep func(model.ItemAggregate) bool, order func(a, b model.ItemAggregate) int) []string {
	kept := make([]model.ItemAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if keep == nil || keep(agg) {
			kept = append(kept, agg)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	sort.Slice(kept, func(i, j int) bool {
		if c := order(kept[i], kept[j]); c != 0 {
			return c < 0
		}
		return kept[i].Name() < kept[j].Name()
	})
	if limit <= 0 || limit > len(kept) {
		limit = len(kept)
	}
	names := make([]string, limit)
	for i := range names {
		names[i] = kept[i].Name()
	}
	return names
}
