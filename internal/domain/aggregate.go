package domain

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Aggregate groups counties by state code and computes the median of each
// numeric field, ignoring nil values. A field whose group has no values at all
// stays nil. The result has exactly one entry per distinct non-empty state
// code, sorted by code.
func Aggregate(counties []CountyIncome) []StateAggregate {
	type group struct {
		income2015 stats.Float64Data
		income1989 stats.Float64Data
		change     stats.Float64Data
	}

	groups := make(map[string]*group)
	for _, c := range counties {
		if c.State == "" {
			continue
		}
		g, ok := groups[c.State]
		if !ok {
			g = &group{}
			groups[c.State] = g
		}
		g.income2015 = appendPresent(g.income2015, c.Income2015)
		g.income1989 = appendPresent(g.income1989, c.Income1989)
		g.change = appendPresent(g.change, c.Change)
	}

	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]StateAggregate, 0, len(codes))
	for _, code := range codes {
		g := groups[code]
		out = append(out, StateAggregate{
			State:            code,
			MedianIncome2015: median(g.income2015),
			MedianIncome1989: median(g.income1989),
			MedianChange:     median(g.change),
		})
	}
	return out
}

func appendPresent(data stats.Float64Data, v *float64) stats.Float64Data {
	if v == nil {
		return data
	}
	return append(data, *v)
}

// median returns nil for an empty input rather than zero.
func median(data stats.Float64Data) *float64 {
	if len(data) == 0 {
		return nil
	}
	m, err := stats.Median(data)
	if err != nil {
		return nil
	}
	return &m
}
