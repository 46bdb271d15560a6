package svg

// Series is one named run of values plotted against the shared labels.
type Series struct {
	Label  string
	Values []float64
	Color  string
	Fill   string
	// Secondary series use their own scale on the right axis.
	Secondary bool
	// Overlay series are drawn as a line on top of bar charts.
	Overlay bool
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// BarOpts customises the bar chart renderers.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	Stacked     bool
	// Palette colours bars individually when a single series is drawn.
	Palette []string
}

// PieOpts customises the pie and doughnut renderer.
type PieOpts struct {
	Title       string
	Description string
	// InnerRatio > 0 cuts a hole of that fraction of the radius.
	InnerRatio  float64
	StrokeColor string
	Padding     float64
	// Shares, one percentage per slice, replaces the computed legend shares.
	Shares      []float64
}

// Defaults for the analytics charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 24.0
	DefaultTicks   = 6
)

// DefaultPalette colours series without an explicit colour.
var DefaultPalette = []string{"#6366f1", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#06b6d4"}

func paletteColor(palette []string, i int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[i%len(palette)]
}
