package domain

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Column names of the county income CSV.
const (
	colFIPS       = "fips"
	colState      = "state"
	colCounty     = "county"
	colIncome2015 = "income-2015"
	colIncome1989 = "income-1989b"
	colChange     = "change"
)

var requiredColumns = []string{colFIPS, colState, colCounty, colIncome2015, colIncome1989, colChange}

// ParseCountyIncome reads the county income CSV. The header row may list the
// columns in any order and may carry extra columns. FIPS codes are kept as
// strings so leading zeros survive. Numeric cells that do not parse become nil.
func ParseCountyIncome(r io.Reader) ([]CountyIncome, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse county income: empty document")
		}
		return nil, fmt.Errorf("parse county income header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("parse county income: missing column %q", col)
		}
	}

	var out []CountyIncome
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse county income line %d: %w", line, err)
		}
		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		out = append(out, CountyIncome{
			FIPS:       field(colFIPS),
			State:      field(colState),
			County:     field(colCounty),
			Income2015: parseNullableFloat(field(colIncome2015)),
			Income1989: parseNullableFloat(field(colIncome1989)),
			Change:     parseNullableFloat(field(colChange)),
		})
	}
	return out, nil
}

// parseNullableFloat returns nil for empty, non-numeric, NaN or infinite input.
func parseNullableFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseStatePolygons decodes a GeoJSON feature collection of state
// boundaries. Every feature needs a string "name" property. Coordinates are
// taken as EPSG:4326 longitude/latitude and are not reprojected.
func ParseStatePolygons(data []byte) ([]StatePolygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse state polygons: %w", err)
	}

	out := make([]StatePolygon, 0, len(fc.Features))
	for i, f := range fc.Features {
		name, ok := f.Properties["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("parse state polygons: feature %d has no name property", i)
		}
		out = append(out, StatePolygon{
			Name:     name,
			ID:       featureID(f.ID),
			Geometry: f.Geometry,
		})
	}
	return out, nil
}

func featureID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// ParseStateAbbrevs decodes the JSON array of {name, alpha-2} objects.
func ParseStateAbbrevs(data []byte) ([]StateAbbrev, error) {
	var out []StateAbbrev
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse state abbreviations: %w", err)
	}
	return out, nil
}
