package httpadapter

import (
	"testing"

	"github.com/couchcryptid/county-income-map/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	v := 51281.4
	assert.Equal(t, "$51,281", formatUSD(&v))
	assert.Equal(t, "n/a", formatUSD(nil))
}

func TestFormatPct(t *testing.T) {
	v := 22.14
	assert.Equal(t, "22.1%", formatPct(&v))
	assert.Equal(t, "n/a", formatPct(nil))
}

func TestLegendStops(t *testing.T) {
	stops := legendStops(domain.ColorScale{Anchors: domain.DefaultAnchors})

	assert.Equal(t, []legendStop{
		{Offset: "0%", Color: "#ff0000"},
		{Offset: "25%", Color: "#ffa500"},
		{Offset: "50%", Color: "#add8e6"},
		{Offset: "75%", Color: "#008000"},
		{Offset: "100%", Color: "#006400"},
	}, stops)
}
