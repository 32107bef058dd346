package domain

// JoinReport records the rows the geo-join dropped or could not match.
type JoinReport struct {
	// Unmatched lists polygon names with no abbreviation entry (inner join drops).
	Unmatched []string `json:"unmatched,omitempty"`
	// DuplicatePolygons lists names that appeared on more than one polygon;
	// only the first polygon with a given name is kept.
	DuplicatePolygons []string `json:"duplicate_polygons,omitempty"`
	// DuplicateAbbrevs lists names that appeared more than once in the
	// abbreviation table; the first entry wins.
	DuplicateAbbrevs []string `json:"duplicate_abbrevs,omitempty"`
	// OrphanAggregates lists state codes that have county data but no polygon.
	OrphanAggregates []string `json:"orphan_aggregates,omitempty"`
}

// Join combines state polygons with the abbreviation table (inner join on
// name) and then with the aggregates (left join on alpha-2 == state). States
// without aggregates keep a nil Aggregate. The result follows polygon order.
func Join(polygons []StatePolygon, abbrevs []StateAbbrev, aggregates []StateAggregate) ([]StateView, JoinReport) {
	var report JoinReport

	codeByName := make(map[string]string, len(abbrevs))
	for _, a := range abbrevs {
		if _, dup := codeByName[a.Name]; dup {
			report.DuplicateAbbrevs = append(report.DuplicateAbbrevs, a.Name)
			continue
		}
		codeByName[a.Name] = a.Alpha2
	}

	aggByCode := make(map[string]*StateAggregate, len(aggregates))
	for i := range aggregates {
		if _, dup := aggByCode[aggregates[i].State]; dup {
			continue
		}
		agg := aggregates[i]
		aggByCode[agg.State] = &agg
	}

	seen := make(map[string]bool, len(polygons))
	usedCodes := make(map[string]bool, len(polygons))
	views := make([]StateView, 0, len(polygons))
	for _, p := range polygons {
		if seen[p.Name] {
			report.DuplicatePolygons = append(report.DuplicatePolygons, p.Name)
			continue
		}
		seen[p.Name] = true

		code, ok := codeByName[p.Name]
		if !ok {
			report.Unmatched = append(report.Unmatched, p.Name)
			continue
		}
		usedCodes[code] = true
		views = append(views, StateView{
			Name:      p.Name,
			Alpha2:    code,
			Geometry:  p.Geometry,
			Aggregate: aggByCode[code],
		})
	}

	for _, agg := range aggregates {
		if !usedCodes[agg.State] {
			report.OrphanAggregates = append(report.OrphanAggregates, agg.State)
		}
	}

	return views, report
}
