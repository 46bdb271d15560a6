package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Bars renders a grouped or stacked bar chart. Overlay series are drawn as a
// line across the group centres.
func Bars(width, height int, series []Series, labels []string, opts BarOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: at least one series required")
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

	var bars, overlays []Series
	for _, s := range series {
		if s.Overlay {
			overlays = append(overlays, s)
		} else {
			bars = append(bars, s)
		}
	}

	var minVal, maxVal float64
	if opts.Stacked {
		sums := make([]float64, len(labels))
		for _, s := range bars {
			for i, v := range s.Values {
				sums[i] += math.Max(v, 0)
			}
		}
		runs := [][]float64{sums}
		for _, s := range overlays {
			runs = append(runs, s.Values)
		}
		minVal, maxVal = span(runs...)
	} else {
		runs := make([][]float64, 0, len(series))
		for _, s := range series {
			runs = append(runs, s.Values)
		}
		minVal, maxVal = span(runs...)
	}
	scale := chartHeight / (maxVal - minVal)
	zeroY := padding + chartHeight - (0-minVal)*scale
	chartBottom := padding + chartHeight

	groupWidth := chartWidth / float64(len(labels))
	barWidth := groupWidth * 0.6
	if !opts.Stacked && len(bars) > 0 {
		barWidth = groupWidth * 0.8 / float64(len(bars))
	}

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Bar comparison"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := minVal + (maxVal-minVal)*ratio
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, zeroY, padding+chartWidth, zeroY))
	b.WriteString("</g>")

	for i, label := range labels {
		baseX := padding + float64(i)*groupWidth
		stackTop := zeroY
		for k, s := range bars {
			color := fallback(s.Color, paletteColor(nil, k))
			if len(bars) == 1 && len(opts.Palette) > 0 {
				color = paletteColor(opts.Palette, i)
			}
			v := s.Values[i]
			var x, y, h float64
			if opts.Stacked {
				if v <= 0 {
					continue
				}
				x = baseX + (groupWidth-barWidth)/2
				h = v * scale
				y = stackTop - h
				stackTop = y
			} else {
				x = baseX + groupWidth*0.1 + float64(k)*barWidth
				y, h = barPosition(v, scale, zeroY, padding, chartBottom)
			}
			b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>", x, y, barWidth, h, color, template.HTMLEscapeString(s.Label), template.HTMLEscapeString(label)))
		}
		center := baseX + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, padding+chartHeight+14, axisColor, template.HTMLEscapeString(label)))
	}

	for k, s := range overlays {
		color := fallback(s.Color, paletteColor(nil, len(bars)+k))
		xAt := func(i int) float64 { return padding + float64(i)*groupWidth + groupWidth/2 }
		yAt := func(v float64) float64 { return padding + chartHeight - (v-minVal)*scale }
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-dasharray=\"5,5\" aria-label=\"%s\"></path>", polyline(s.Values, xAt, yAt), color, template.HTMLEscapeString(s.Label)))
	}

	if len(bars) > 1 || len(overlays) > 0 {
		writeLegend(&b, append(append([]Series(nil), bars...), overlays...), padding, axisColor)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// HBars renders a single series as horizontal bars, one per label.
func HBars(width, height int, values []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("svg: values required")
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match values")
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
	axisColor := fallback(opts.AxisColor, "#475569")
	labelWidth := 110.0

	chartWidth := float64(width) - 2*padding - labelWidth
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	_, maxVal := span(values)
	rowHeight := chartHeight / float64(len(values))
	left := padding + labelWidth

	titleID := makeID(opts.Title, "hbar-title")
	descID := makeID(opts.Title, "hbar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Ranking"))))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"></line>", left, padding, left, padding+chartHeight, axisColor))

	for i, v := range values {
		y := padding + float64(i)*rowHeight
		w := math.Max(v, 0) / maxVal * chartWidth
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", left-6, y+rowHeight/2+3, axisColor, template.HTMLEscapeString(labels[i])))
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></rect>", left, y+rowHeight*0.15, w, rowHeight*0.7, paletteColor(opts.Palette, i), template.HTMLEscapeString(labels[i])))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", left+w+4, y+rowHeight/2+3, axisColor, template.HTMLEscapeString(formatTick(v))))
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func barPosition(value, scale, zeroY, padding, bottom float64) (float64, float64) {
	if value >= 0 {
		height := value * scale
		y := zeroY - height
		if y < padding {
			height -= padding - y
			y = padding
		}
		if height < 0 {
			height = 0
		}
		return y, height
	}
	height := math.Abs(value * scale)
	y := zeroY
	if y+height > bottom {
		height = bottom - y
	}
	if height < 0 {
		height = 0
	}
	return y, height
}
