package domain

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RankSize is the length of the top and bottom state tables.
const RankSize = 5

// StateRank is one row of a ranked state table.
type StateRank struct {
	Name             string  `json:"name"`
	Alpha2           string  `json:"alpha-2"`
	MedianIncome2015 float64 `json:"median_income_2015"`
}

// Summary holds national statistics over the state medians.
type Summary struct {
	StatesWithData int         `json:"states_with_data"`
	StatesNoData   int         `json:"states_no_data"`
	Max            *float64    `json:"max"`
	Min            *float64    `json:"min"`
	Mean           *float64    `json:"mean"`
	Highest        string      `json:"highest,omitempty"`
	Lowest         string      `json:"lowest,omitempty"`
	Top            []StateRank `json:"top"`
	Bottom         []StateRank `json:"bottom"`
}

// Summarize computes max, min and mean of the state median 2015 incomes plus
// the top and bottom RankSize states. Ties rank alphabetically by name.
func Summarize(states []StateView) Summary {
	ranked := make([]StateRank, 0, len(states))
	for _, s := range states {
		v := s.MedianIncome2015()
		if v == nil {
			continue
		}
		ranked = append(ranked, StateRank{Name: s.Name, Alpha2: s.Alpha2, MedianIncome2015: *v})
	}

	sum := Summary{
		StatesWithData: len(ranked),
		StatesNoData:   len(states) - len(ranked),
		Top:            []StateRank{},
		Bottom:         []StateRank{},
	}
	if len(ranked) == 0 {
		return sum
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MedianIncome2015 != ranked[j].MedianIncome2015 {
			return ranked[i].MedianIncome2015 > ranked[j].MedianIncome2015
		}
		return ranked[i].Name < ranked[j].Name
	})

	values := make([]float64, len(ranked))
	for i, r := range ranked {
		values[i] = r.MedianIncome2015
	}
	maxV, minV, meanV := floats.Max(values), floats.Min(values), stat.Mean(values, nil)
	sum.Max, sum.Min, sum.Mean = &maxV, &minV, &meanV
	sum.Highest = ranked[0].Name
	sum.Lowest = ranked[len(ranked)-1].Name

	n := min(RankSize, len(ranked))
	sum.Top = append(sum.Top, ranked[:n]...)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		sum.Bottom = append(sum.Bottom, ranked[i])
	}
	return sum
}
