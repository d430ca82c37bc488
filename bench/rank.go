package bench

import "sort"

// Rankings holds four independently ordered views over one run's records.
// Every view is a stable sort of the original matrix order, so trials with
// equal scores keep their codec-declaration, level-ascending position.
type Rankings struct {
	ByRatio      []Record // compression ratio, descending
	ByElapsed    []Record // elapsed open time, ascending
	ByEfficiency []Record // efficiency score, descending
	ByWeighted   []Record // weighted efficiency score, descending
}

// Recommendations names the winning trial of each ranked view.
type Recommendations struct {
	BestCompression Record
	BestSpeed       Record
	BestBalanced    Record
	BestWeighted    Record
}

// Rank builds the four ranked views from a run's records. The input slice is
// not modified.
func Rank(records []Record) Rankings {
	return Rankings{
		ByRatio:      rankBy(records, func(a, b Record) bool { return a.Ratio() > b.Ratio() }),
		ByElapsed:    rankBy(records, func(a, b Record) bool { return a.Elapsed < b.Elapsed }),
		ByEfficiency: rankBy(records, func(a, b Record) bool { return a.Efficiency() > b.Efficiency() }),
		ByWeighted:   rankBy(records, func(a, b Record) bool { return a.WeightedEfficiency() > b.WeightedEfficiency() }),
	}
}

// Recommendations returns the top entry of each view. The second return is
// false when the run produced no records.
func (r Rankings) Recommendations() (Recommendations, bool) {
	if len(r.ByRatio) == 0 {
		return Recommendations{}, false
	}

	return Recommendations{
		BestCompression: r.ByRatio[0],
		BestSpeed:       r.ByElapsed[0],
		BestBalanced:    r.ByEfficiency[0],
		BestWeighted:    r.ByWeighted[0],
	}, true
}

func rankBy(records []Record, less func(a, b Record) bool) []Record {
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })

	return ranked
}
