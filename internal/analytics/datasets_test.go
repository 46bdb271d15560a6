package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogGroups(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 16, catalog.Len())
	assert.Len(t, catalog.Group(GroupInventory), 7)
	assert.Len(t, catalog.Group(GroupSupplyChain), 5)
	assert.Len(t, catalog.Group(GroupFinancial), 4)
	assert.Empty(t, catalog.Group("unknown"))

	first := catalog.Group(GroupInventory)[0]
	assert.Equal(t, "salesTrend", first.Name)
	assert.True(t, first.Series[1].Secondary)
}

func TestHeatmapIsTransposed(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	chart, ok := catalog.Chart("networkHeatmap")
	require.True(t, ok)
	require.Len(t, chart.Series, 8)
	// Column 0 of the matrix: only AsiaConnect ships to TechCorp.
	assert.Equal(t, "TechCorp", chart.Series[0].Label)
	assert.Equal(t, []float64{0, 0, 0, 0, 125, 0, 0, 0}, chart.Series[0].Values)
	assert.Equal(t, "hsla(0, 70%, 60%, 0.8)", chart.Series[0].Color)
	assert.Equal(t, "hsla(45, 70%, 60%, 0.8)", chart.Series[1].Color)
	assert.Nil(t, chart.Matrix)
}

func TestParseCatalogRejectsBadInput(t *testing.T) {
	_, err := ParseCatalog(`
[[chart]]
name = "a"
group = "nowhere"
kind = "line"
labels = ["x"]
  [[chart.series]]
  values = [1]
`)
	assert.ErrorContains(t, err, "unknown group")

	_, err = ParseCatalog(`
[[chart]]
name = "a"
group = "inventory"
kind = "line"
labels = ["x", "y"]
  [[chart.series]]
  label = "s"
  values = [1]
`)
	assert.ErrorContains(t, err, "has 1 values for 2 labels")

	_, err = ParseCatalog(`
[[chart]]
name = "a"
group = "inventory"
kind = "radar"
labels = ["x"]
  [[chart.series]]
  values = [1]
`)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "$74.5K", ChartSpec{Prefix: "$", Suffix: "K"}.FormatValue(74.5))
	assert.Equal(t, "$35000", ChartSpec{Prefix: "$", Scale: 1000}.FormatValue(35))
}
