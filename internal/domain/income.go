package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// CountyIncome is one row of the county income table. Nil numeric fields are
// values that were missing or could not be parsed.
type CountyIncome struct {
	FIPS       string   `json:"fips"`
	State      string   `json:"state"`
	County     string   `json:"county"`
	Income2015 *float64 `json:"income_2015"`
	Income1989 *float64 `json:"income_1989b"`
	Change     *float64 `json:"change"`
}

// StateAggregate holds per-state medians over the county table.
type StateAggregate struct {
	State            string   `json:"state"`
	MedianIncome2015 *float64 `json:"median_income_2015"`
	MedianIncome1989 *float64 `json:"median_income_1989"`
	MedianChange     *float64 `json:"median_change"`
}

// StatePolygon is one feature of the state boundary collection, in EPSG:4326.
type StatePolygon struct {
	Name     string
	ID       string
	Geometry orb.Geometry
}

// StateAbbrev maps a full state name to its two-letter code.
type StateAbbrev struct {
	Name   string `json:"name"`
	Alpha2 string `json:"alpha-2"`
}

// StateView is a state polygon joined with its abbreviation and, when county
// data exists for it, its aggregate.
type StateView struct {
	Name      string          `json:"name"`
	Alpha2    string          `json:"alpha-2"`
	Geometry  orb.Geometry    `json:"-"`
	Aggregate *StateAggregate `json:"aggregate"`
}

// MedianIncome2015 returns the state's median 2015 income, or nil when the
// state has no aggregate or the aggregate has no 2015 values.
func (s StateView) MedianIncome2015() *float64 {
	if s.Aggregate == nil {
		return nil
	}
	return s.Aggregate.MedianIncome2015
}

// MedianIncome1989 returns the state's median 1989 income or nil.
func (s StateView) MedianIncome1989() *float64 {
	if s.Aggregate == nil {
		return nil
	}
	return s.Aggregate.MedianIncome1989
}

// MedianChange returns the state's median percent change or nil.
func (s StateView) MedianChange() *float64 {
	if s.Aggregate == nil {
		return nil
	}
	return s.Aggregate.MedianChange
}

// Sources holds the three raw source documents exactly as fetched.
type Sources struct {
	Counties []byte
	States   []byte
	Abbrevs  []byte
}

// View is the complete computed result for one set of source documents.
type View struct {
	Digest     string           `json:"digest"`
	Counties   []CountyIncome   `json:"-"`
	Aggregates []StateAggregate `json:"-"`
	States     []StateView      `json:"states"`
	Scale      ColorScale       `json:"scale"`
	Summary    Summary          `json:"summary"`
	Join       JoinReport       `json:"join"`
	ComputedAt time.Time        `json:"computed_at"`
}
