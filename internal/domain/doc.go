// Package domain models U.S. county household income and the state-level
// choropleth built from it.
//
// # Data Sources
//
// Three documents feed every computation:
//
//	counties  CSV, one row per county:  fips,state,county,income-2015,income-1989b,change
//	states    GeoJSON FeatureCollection of state boundaries, "name" property per feature
//	abbrevs   JSON array of {"name": "Alabama", "alpha-2": "AL"}
//
// The public defaults are the PRI "50 states" income CSV, the folium example
// us_states.json and a gist with the state abbreviation list.
//
// # Conventions
//
// FIPS codes are strings. "01001" is Autauga County, AL, and must not lose its
// leading zero.
//
// Income cells that do not parse as numbers (blank, "NA", "(X)") are missing,
// represented as nil. Missing values never count as zero: medians skip them
// and a state whose counties are all missing has a nil median.
//
// Coordinates are EPSG:4326 longitude/latitude degrees and pass through
// untouched.
//
// # Pipeline
//
//	ParseCountyIncome ─┐
//	                   ├─ Aggregate ─┐
//	ParseStatePolygons ┼─────────────┼─ Join ─ NewColorScale / Summarize
//	ParseStateAbbrevs ─┘             │
//
// Join is an inner join of polygons with abbreviations on name (so territories
// such as Puerto Rico fall out) followed by a left join with the aggregates on
// the two-letter code (so states without county data stay on the map with a
// transparent fill). [ComputeView] runs all of it; [Select] answers the
// drop-down.
package domain
