package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statesWithIncome(values ...*float64) []StateView {
	out := make([]StateView, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		out[i].Aggregate = &StateAggregate{MedianIncome2015: v}
	}
	return out
}

func TestNewColorScale_DomainIsObservedRange(t *testing.T) {
	scale := NewColorScale(statesWithIncome(f(53092.5), f(50254), nil, f(61888), f(60000)))

	assert.True(t, scale.HasData)
	assert.Equal(t, 50254.0, scale.Min)
	assert.Equal(t, 61888.0, scale.Max)
	assert.Equal(t, ScaleCaption, scale.Caption)
	assert.Len(t, scale.Anchors, 5)
}

func TestColorScale_Endpoints(t *testing.T) {
	scale := NewColorScale(statesWithIncome(f(40000), f(50000), f(80000)))

	assert.Equal(t, "#ff0000", scale.Fill(f(40000)))
	assert.Equal(t, "#006400", scale.Fill(f(80000)))
	assert.Equal(t, NoDataFill, scale.Fill(nil))
}

func TestColorScale_AnchorsEvenlySpaced(t *testing.T) {
	scale := ColorScale{Min: 0, Max: 4, HasData: true, Anchors: DefaultAnchors}

	assert.Equal(t, "#ffa500", scale.At(1).Hex())
	assert.Equal(t, "#add8e6", scale.At(2).Hex())
	assert.Equal(t, "#008000", scale.At(3).Hex())
}

func TestColorScale_Interpolates(t *testing.T) {
	scale := ColorScale{Min: 0, Max: 4, HasData: true, Anchors: DefaultAnchors}

	// Halfway between red (ff0000) and orange (ffa500).
	assert.Equal(t, Color{R: 0xff, G: 0x53, B: 0x00}, scale.At(0.5))
}

func TestColorScale_Clamps(t *testing.T) {
	scale := ColorScale{Min: 10, Max: 20, HasData: true, Anchors: DefaultAnchors}

	assert.Equal(t, DefaultAnchors[0], scale.At(-100))
	assert.Equal(t, DefaultAnchors[4], scale.At(1e9))
}

func TestColorScale_SingleValue(t *testing.T) {
	scale := NewColorScale(statesWithIncome(f(50000)))
	assert.Equal(t, "#ff0000", scale.Fill(f(50000)))
}

func TestColorScale_NoData(t *testing.T) {
	scale := NewColorScale(statesWithIncome(nil, nil))
	assert.False(t, scale.HasData)
	assert.Equal(t, NoDataFill, scale.Fill(f(1)))
}

func TestColor_MarshalText(t *testing.T) {
	text, err := Color{R: 0xad, G: 0xd8, B: 0xe6}.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "#add8e6", string(text))
}
