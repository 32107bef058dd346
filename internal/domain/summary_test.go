package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankNames(ranks []StateRank) []string {
	names := make([]string, len(ranks))
	for i, r := range ranks {
		names[i] = r.Name
	}
	return names
}

func TestSummarize_MockView(t *testing.T) {
	sum := mockView(t).Summary

	assert.Equal(t, 4, sum.StatesWithData)
	assert.Equal(t, 2, sum.StatesNoData)
	require.NotNil(t, sum.Max)
	require.NotNil(t, sum.Min)
	require.NotNil(t, sum.Mean)
	assert.Equal(t, 61888.0, *sum.Max)
	assert.Equal(t, 50254.0, *sum.Min)
	assert.InEpsilon(t, 56308.625, *sum.Mean, 1e-9)
	assert.Equal(t, "New York", sum.Highest)
	assert.Equal(t, "Alabama", sum.Lowest)
	assert.Equal(t, []string{"New York", "California", "Texas", "Alabama"}, rankNames(sum.Top))
	assert.Equal(t, []string{"Alabama", "Texas", "California", "New York"}, rankNames(sum.Bottom))
}

func TestSummarize_CapsRankTables(t *testing.T) {
	var states []StateView
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		states = append(states, StateView{Name: name, Aggregate: &StateAggregate{MedianIncome2015: f(float64(i + 1))}})
	}

	sum := Summarize(states)
	assert.Equal(t, []string{"G", "F", "E", "D", "C"}, rankNames(sum.Top))
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, rankNames(sum.Bottom))
}

func TestSummarize_TiesBreakByName(t *testing.T) {
	sum := Summarize([]StateView{
		{Name: "Oregon", Aggregate: &StateAggregate{MedianIncome2015: f(100)}},
		{Name: "Idaho", Aggregate: &StateAggregate{MedianIncome2015: f(100)}},
	})
	assert.Equal(t, []string{"Idaho", "Oregon"}, rankNames(sum.Top))
}

func TestSummarize_NoData(t *testing.T) {
	sum := Summarize([]StateView{{Name: "Alaska"}})
	assert.Equal(t, 0, sum.StatesWithData)
	assert.Equal(t, 1, sum.StatesNoData)
	assert.Nil(t, sum.Max)
	assert.Nil(t, sum.Mean)
	assert.Empty(t, sum.Top)
	assert.NotNil(t, sum.Bottom)
}
