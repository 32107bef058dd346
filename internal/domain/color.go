package domain

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NoDataFill is the fill for states without a 2015 median income.
const NoDataFill = "transparent"

// ScaleCaption labels the map legend.
const ScaleCaption = "State Level Median County Household Income in 2015 (USD)"

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes the color as its hex string so scales serialize as
// CSS colors.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// DefaultAnchors runs red, orange, lightblue, green, darkgreen.
var DefaultAnchors = []Color{
	{R: 0xff, G: 0x00, B: 0x00},
	{R: 0xff, G: 0xa5, B: 0x00},
	{R: 0xad, G: 0xd8, B: 0xe6},
	{R: 0x00, G: 0x80, B: 0x00},
	{R: 0x00, G: 0x64, B: 0x00},
}

// ColorScale linearly interpolates between evenly spaced anchor colors over
// [Min, Max].
type ColorScale struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	HasData bool    `json:"has_data"`
	Anchors []Color `json:"anchors"`
	Caption string  `json:"caption"`
}

// NewColorScale builds the scale over the 0 and 1 quantiles of the states'
// median 2015 income. States without that value do not contribute.
func NewColorScale(states []StateView) ColorScale {
	values := make([]float64, 0, len(states))
	for _, s := range states {
		if v := s.MedianIncome2015(); v != nil {
			values = append(values, *v)
		}
	}

	scale := ColorScale{Anchors: DefaultAnchors, Caption: ScaleCaption}
	if len(values) == 0 {
		return scale
	}
	sort.Float64s(values)
	scale.Min = stat.Quantile(0, stat.LinInterp, values, nil)
	scale.Max = stat.Quantile(1, stat.LinInterp, values, nil)
	scale.HasData = true
	return scale
}

// At returns the interpolated color for v. Values outside the domain clamp to
// the end anchors.
func (s ColorScale) At(v float64) Color {
	n := len(s.Anchors)
	if n == 0 {
		return Color{}
	}
	if n == 1 || s.Max <= s.Min || v <= s.Min {
		return s.Anchors[0]
	}
	if v >= s.Max {
		return s.Anchors[n-1]
	}

	pos := (v - s.Min) / (s.Max - s.Min) * float64(n-1)
	i := int(math.Floor(pos))
	if i >= n-1 {
		return s.Anchors[n-1]
	}
	frac := pos - float64(i)
	lo, hi := s.Anchors[i], s.Anchors[i+1]
	return Color{
		R: lerp(lo.R, hi.R, frac),
		G: lerp(lo.G, hi.G, frac),
		B: lerp(lo.B, hi.B, frac),
	}
}

// Fill returns the map fill for a possibly missing value.
func (s ColorScale) Fill(v *float64) string {
	if v == nil || !s.HasData {
		return NoDataFill
	}
	return s.At(*v).Hex()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
