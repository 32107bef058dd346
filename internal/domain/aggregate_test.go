package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func county(state, name string, income2015, income1989, change *float64) CountyIncome {
	return CountyIncome{State: state, County: name, Income2015: income2015, Income1989: income1989, Change: change}
}

func TestAggregate_EvenGroupAveragesMiddleValues(t *testing.T) {
	counties := []CountyIncome{
		{FIPS: "06", State: "CA", County: "Alameda", Income2015: f(75000), Income1989: f(50000), Change: f(50)},
		{FIPS: "06", State: "CA", County: "Fresno", Income2015: f(45000), Income1989: f(30000), Change: f(50)},
	}

	aggs := Aggregate(counties)
	require.Len(t, aggs, 1)
	assert.Equal(t, "CA", aggs[0].State)
	assert.Equal(t, 60000.0, *aggs[0].MedianIncome2015)
	assert.Equal(t, 40000.0, *aggs[0].MedianIncome1989)
	assert.Equal(t, 50.0, *aggs[0].MedianChange)
}

func TestAggregate_OddGroupTakesMiddle(t *testing.T) {
	aggs := Aggregate([]CountyIncome{
		county("AL", "a", f(51281), f(1), f(1)),
		county("AL", "b", f(32964), f(2), f(2)),
		county("AL", "c", f(50254), f(3), f(3)),
	})
	require.Len(t, aggs, 1)
	assert.Equal(t, 50254.0, *aggs[0].MedianIncome2015)
}

func TestAggregate_NilValuesExcluded(t *testing.T) {
	aggs := Aggregate([]CountyIncome{
		county("CA", "Alameda", f(75000), f(50000), f(50)),
		county("CA", "Fresno", f(45000), f(30000), f(50)),
		county("CA", "Los Angeles", nil, f(48000), f(-2)),
	})
	require.Len(t, aggs, 1)
	assert.Equal(t, 60000.0, *aggs[0].MedianIncome2015)
	assert.Equal(t, 48000.0, *aggs[0].MedianIncome1989)
	assert.Equal(t, 50.0, *aggs[0].MedianChange)
}

func TestAggregate_AllNilYieldsNil(t *testing.T) {
	aggs := Aggregate([]CountyIncome{
		county("WY", "Laramie", nil, f(55000), f(-5)),
		county("WY", "Lincoln", nil, nil, nil),
	})
	require.Len(t, aggs, 1)
	assert.Nil(t, aggs[0].MedianIncome2015)
	assert.Equal(t, 55000.0, *aggs[0].MedianIncome1989)
	assert.Equal(t, -5.0, *aggs[0].MedianChange)
}

func TestAggregate_OneRowPerStateSorted(t *testing.T) {
	aggs := Aggregate([]CountyIncome{
		county("TX", "a", f(1), f(1), f(1)),
		county("AL", "b", f(2), f(2), f(2)),
		county("TX", "c", f(3), f(3), f(3)),
		county("", "orphan", f(4), f(4), f(4)),
		county("NY", "d", f(5), f(5), f(5)),
	})
	codes := make([]string, len(aggs))
	for i, a := range aggs {
		codes[i] = a.State
	}
	assert.Equal(t, []string{"AL", "NY", "TX"}, codes)
}

func TestAggregate_MatchesMedianOfFilteredCounties(t *testing.T) {
	counties, err := ParseCountyIncome(bytesReader(readMock(t, "income_counties.csv")))
	require.NoError(t, err)

	want := map[string]*float64{
		"AL": f(50254),
		"CA": f(60000),
		"NY": f(61888),
		"TX": f(53092.5),
		"WY": nil,
		"PR": f(14000),
	}

	aggs := Aggregate(counties)
	require.Len(t, aggs, len(want))
	for _, a := range aggs {
		expected, ok := want[a.State]
		require.True(t, ok, a.State)
		if expected == nil {
			assert.Nil(t, a.MedianIncome2015, a.State)
			continue
		}
		require.NotNil(t, a.MedianIncome2015, a.State)
		assert.Equal(t, *expected, *a.MedianIncome2015, a.State)
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
