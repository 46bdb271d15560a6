package analytics

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed datasets.toml
var datasetsTOML string

// Chart groups shown as analytics tabs.
const (
	GroupInventory   = "inventory"
	GroupSupplyChain = "supply-chain"
	GroupFinancial   = "financial"
)

// Kind selects the renderer for a chart.
type Kind string

const (
	KindLine     Kind = "line"
	KindBar      Kind = "bar"
	KindStacked  Kind = "stacked"
	KindHBar     Kind = "hbar"
	KindPie      Kind = "pie"
	KindDoughnut Kind = "doughnut"
)

// SeriesSpec is one dataset of a chart.
type SeriesSpec struct {
	Label     string    `toml:"label" json:"label"`
	Color     string    `toml:"color" json:"color,omitempty"`
	Fill      string    `toml:"fill" json:"fill,omitempty"`
	Values    []float64 `toml:"values" json:"values"`
	Secondary bool      `toml:"secondary" json:"secondary,omitempty"`
	Overlay   bool      `toml:"overlay" json:"overlay,omitempty"`
}

// ChartSpec declares a chart: its data and how values are labelled.
type ChartSpec struct {
	Name   string       `toml:"name" json:"name"`
	Group  string       `toml:"group" json:"group"`
	Title  string       `toml:"title" json:"title"`
	Kind   Kind         `toml:"kind" json:"kind"`
	Labels []string     `toml:"labels" json:"labels"`
	Colors []string     `toml:"colors" json:"colors,omitempty"`
	Prefix string       `toml:"prefix" json:"prefix,omitempty"`
	Suffix string       `toml:"suffix" json:"suffix,omitempty"`
	Scale  float64      `toml:"scale" json:"scale,omitempty"`
	Series []SeriesSpec `toml:"series" json:"series"`
	// Transpose builds one series per column of Matrix.
	Transpose bool        `toml:"transpose" json:"-"`
	Matrix    [][]float64 `toml:"matrix" json:"-"`
}

// FormatValue renders v with the chart's prefix, suffix and scale.
func (c ChartSpec) FormatValue(v float64) string {
	if c.Scale > 0 {
		v *= c.Scale
	}
	return c.Prefix + trimFloat(v) + c.Suffix
}

// Catalog is the parsed set of chart datasets.
type Catalog struct {
	charts  []ChartSpec
	byName  map[string]int
	byGroup map[string][]int
}

// LoadCatalog parses the embedded datasets.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(datasetsTOML)
}

// ParseCatalog decodes and validates a TOML chart declaration.
func ParseCatalog(data string) (*Catalog, error) {
	var doc struct {
		Chart []ChartSpec `toml:"chart"`
	}
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("analytics: decode datasets: %w", err)
	}
	c := &Catalog{byName: make(map[string]int), byGroup: make(map[string][]int)}
	for _, chart := range doc.Chart {
		if chart.Transpose {
			chart.Series = transpose(chart.Labels, chart.Matrix)
			chart.Matrix = nil
		}
		if err := validateChart(chart); err != nil {
			return nil, err
		}
		if _, dup := c.byName[chart.Name]; dup {
			return nil, fmt.Errorf("analytics: duplicate chart %q", chart.Name)
		}
		c.byName[chart.Name] = len(c.charts)
		c.byGroup[chart.Group] = append(c.byGroup[chart.Group], len(c.charts))
		c.charts = append(c.charts, chart)
	}
	return c, nil
}

// Groups lists the known tab groups in display order.
func Groups() []string {
	return []string{GroupInventory, GroupSupplyChain, GroupFinancial}
}

// ValidGroup reports whether name is a known tab group.
func ValidGroup(name string) bool {
	for _, g := range Groups() {
		if g == name {
			return true
		}
	}
	return false
}

// Group returns the charts of a tab in declaration order.
func (c *Catalog) Group(name string) []ChartSpec {
	idx := c.byGroup[name]
	out := make([]ChartSpec, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.charts[i])
	}
	return out
}

// Chart looks up a chart by name.
func (c *Catalog) Chart(name string) (ChartSpec, bool) {
	i, ok := c.byName[name]
	if !ok {
		return ChartSpec{}, false
	}
	return c.charts[i], true
}

// Len is the number of declared charts.
func (c *Catalog) Len() int { return len(c.charts) }

func validateChart(chart ChartSpec) error {
	if chart.Name == "" {
		return fmt.Errorf("analytics: chart name required")
	}
	if !ValidGroup(chart.Group) {
		return fmt.Errorf("analytics: chart %q has unknown group %q", chart.Name, chart.Group)
	}
	switch chart.Kind {
	case KindLine, KindBar, KindStacked, KindHBar, KindPie, KindDoughnut:
	default:
		return fmt.Errorf("analytics: chart %q has unknown kind %q", chart.Name, chart.Kind)
	}
	if len(chart.Series) == 0 {
		return fmt.Errorf("analytics: chart %q has no series", chart.Name)
	}
	for _, s := range chart.Series {
		if len(s.Values) != len(chart.Labels) {
			return fmt.Errorf("analytics: chart %q series %q has %d values for %d labels", chart.Name, s.Label, len(s.Values), len(chart.Labels))
		}
	}
	return nil
}

// transpose turns a source x target matrix into one series per target, with
// hues spread evenly around the colour wheel.
func transpose(labels []string, matrix [][]float64) []SeriesSpec {
	series := make([]SeriesSpec, 0, len(labels))
	for i, label := range labels {
		values := make([]float64, len(matrix))
		for r, row := range matrix {
			if i < len(row) {
				values[r] = row[i]
			}
		}
		series = append(series, SeriesSpec{
			Label:  label,
			Color:  fmt.Sprintf("hsla(%s, 70%%, 60%%, 0.8)", trimFloat(float64(i)*360/float64(len(labels)))),
			Values: values,
		})
	}
	return series
}
