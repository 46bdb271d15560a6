package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Lines renders a multi-series SVG line chart. Secondary series are scaled
// against a right-hand axis.
func Lines(width, height int, series []Series, labels []string, opts LineOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", fmt.Errorf("svg: series %q length must match labels", s.Label)
		}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	var primary, secondary [][]float64
	for _, s := range series {
		if s.Secondary {
			secondary = append(secondary, s.Values)
		} else {
			primary = append(primary, s.Values)
		}
	}
	if len(primary) == 0 {
		primary, secondary = secondary, nil
		series = append([]Series(nil), series...)
		for i := range series {
			series[i].Secondary = false
		}
	}
	minP, maxP := span(primary...)
	minS, maxS := span(secondary...)

	step := 0.0
	if len(labels) > 1 {
		step = chartWidth / float64(len(labels)-1)
	}
	xAt := func(i int) float64 {
		if len(labels) > 1 {
			return padding + float64(i)*step
		}
		return padding + chartWidth/2
	}
	yAt := func(v, lo, hi float64) float64 {
		return padding + chartHeight - (v-lo)*chartHeight/(hi-lo)
	}

	titleID := makeID(opts.Title, "line-title")
	descID := makeID(opts.Title, "line-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Line chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Trend data"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(minP+(maxP-minP)*ratio))))
		if len(secondary) > 0 {
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", padding+chartWidth+6, y+4, axisColor, template.HTMLEscapeString(formatTick(minS+(maxS-minS)*ratio))))
		}
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding+chartHeight, padding+chartWidth, padding+chartHeight))
	if len(secondary) > 0 {
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding+chartWidth, padding, padding+chartWidth, padding+chartHeight))
	}
	b.WriteString("</g>")

	base := padding + chartHeight
	for idx, s := range series {
		lo, hi := minP, maxP
		if s.Secondary {
			lo, hi = minS, maxS
		}
		color := fallback(s.Color, paletteColor(nil, idx))
		path := polyline(s.Values, xAt, func(v float64) float64 { return yAt(v, lo, hi) })
		if s.Fill != "" {
			area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", path, xAt(len(s.Values)-1), base, xAt(0), base)
			b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"%s\" stroke=\"none\" aria-hidden=\"true\"></path>", area, s.Fill))
		}
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\" aria-label=\"%s\"></path>", path, color, template.HTMLEscapeString(s.Label)))
		if opts.ShowDots {
			for i, v := range s.Values {
				b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"></circle>", xAt(i), yAt(v, lo, hi), color))
			}
		}
	}

	for i, label := range labels {
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", xAt(i), padding+chartHeight+14, axisColor, template.HTMLEscapeString(label)))
	}

	writeLegend(&b, series, padding, axisColor)
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func polyline(values []float64, xAt func(int) float64, yAt func(float64) float64) string {
	var path strings.Builder
	for i, v := range values {
		if i == 0 {
			path.WriteString(fmt.Sprintf("M%.2f %.2f", xAt(i), yAt(v)))
		} else {
			path.WriteString(fmt.Sprintf(" L%.2f %.2f", xAt(i), yAt(v)))
		}
	}
	return path.String()
}

func writeLegend(b *strings.Builder, series []Series, padding float64, textColor string) {
	legendY := padding - 12
	if legendY < 12 {
		legendY = 12
	}
	legendX := padding
	for idx, s := range series {
		if s.Label == "" {
			continue
		}
		color := fallback(s.Color, paletteColor(nil, idx))
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, color))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", legendX+14, legendY, textColor, template.HTMLEscapeString(s.Label)))
		legendX += 24 + float64(len(s.Label))*5.5
	}
}

// span returns the value range across all runs, always including zero.
func span(runs ...[]float64) (float64, float64) {
	minVal, maxVal := 0.0, 0.0
	for _, run := range runs {
		if len(run) == 0 {
			continue
		}
		lo, hi := bounds(run)
		minVal = math.Min(minVal, lo)
		maxVal = math.Max(maxVal, hi)
	}
	if almostEqual(maxVal, minVal) {
		maxVal = minVal + 1
	}
	return minVal, maxVal
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func bounds(series []float64) (float64, float64) {
	minVal := series[0]
	maxVal := series[0]
	for _, v := range series[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
}
