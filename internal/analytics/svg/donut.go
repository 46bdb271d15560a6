package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Donut renders a pie chart, or a doughnut when opts.InnerRatio is set. The
// legend lists each slice with its share of the total.
func Donut(width, height int, values []float64, labels []string, colors []string, opts PieOpts) (template.HTML, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("svg: values required")
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match values")
	}
	total := 0.0
	for _, v := range values {
		if v < 0 {
			return "", fmt.Errorf("svg: negative slice %q", labels[0])
		}
		total += v
	}
	if total <= 0 {
		return "", fmt.Errorf("svg: total must be positive")
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
	stroke := fallback(opts.StrokeColor, "#ffffff")

	radius := float64(height)/2 - padding
	if radius <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	inner := 0.0
	if opts.InnerRatio > 0 && opts.InnerRatio < 1 {
		inner = radius * opts.InnerRatio
	}
	cx := padding + radius
	cy := float64(height) / 2

	titleID := makeID(opts.Title, "pie-title")
	descID := makeID(opts.Title, "pie-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Pie chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Distribution"))))

	angle := -math.Pi / 2
	for i, v := range values {
		if v == 0 {
			continue
		}
		color := paletteColor(colors, i)
		sweep := v / total * 2 * math.Pi
		label := template.HTMLEscapeString(labels[i])
		if almostEqual(v, total) {
			b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"2\" aria-label=\"%s\"></circle>", cx, cy, radius, color, stroke, label))
			angle += sweep
			continue
		}
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"2\" aria-label=\"%s\"></path>", slicePath(cx, cy, radius, inner, angle, angle+sweep), color, stroke, label))
		angle += sweep
	}
	if inner > 0 {
		b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\"></circle>", cx, cy, inner, stroke))
	}

	legendX := cx + radius + 32
	lineHeight := math.Min(18, (float64(height)-2*padding)/float64(len(values)))
	for i, v := range values {
		y := padding + float64(i)*lineHeight + 10
		share := math.Round(v/total*1000) / 10
		if len(opts.Shares) == len(values) {
			share = opts.Shares[i]
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, y-9, paletteColor(colors, i)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"#475569\" font-size=\"11\" text-anchor=\"start\">%s (%.1f%%)</text>", legendX+16, y, template.HTMLEscapeString(labels[i]), share))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func slicePath(cx, cy, r, inner, start, end float64) string {
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	x0, y0 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	x1, y1 := cx+r*math.Cos(end), cy+r*math.Sin(end)
	if inner <= 0 {
		return fmt.Sprintf("M%.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f Z", cx, cy, x0, y0, r, r, large, x1, y1)
	}
	ix0, iy0 := cx+inner*math.Cos(end), cy+inner*math.Sin(end)
	ix1, iy1 := cx+inner*math.Cos(start), cy+inner*math.Sin(start)
	return fmt.Sprintf("M%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 0 %.2f %.2f Z",
		x0, y0, r, r, large, x1, y1, ix0, iy0, inner, inner, large, ix1, iy1)
}
