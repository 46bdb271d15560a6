package network

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

const (
	edgeStroke = "rgba(99,102,241,0.3)"
	arrowFill  = "rgba(99,102,241,0.6)"
	labelColor = "#1e293b"
)

// SVG draws the diagram: edges first, arrowheads at the target rim, then the
// nodes with their labels on top.
func (g *Graph) SVG() template.HTML {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"network-title\">", g.Width, Height))
	b.WriteString("<title id=\"network-title\">Supply chain network</title>")

	b.WriteString("<g class=\"edges\">")
	for _, e := range g.Edges {
		from, ok1 := g.Node(e.From)
		to, ok2 := g.Node(e.To)
		if !ok1 || !ok2 {
			continue
		}
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"%d\"></line>",
			from.X, from.Y, to.X, to.Y, edgeStroke, e.Width()))
		b.WriteString(fmt.Sprintf("<polygon points=\"%s\" fill=\"%s\"></polygon>", arrowPoints(from, to), arrowFill))
	}
	b.WriteString("</g>")

	b.WriteString("<g class=\"nodes\">")
	for _, n := range g.Nodes {
		name := template.HTMLEscapeString(n.Name)
		b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.0f\" fill=\"%s\" stroke=\"white\" stroke-width=\"3\"><title>%s</title></circle>",
			n.X, n.Y, NodeRadius, n.Color, name))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"11\" text-anchor=\"middle\">%s</text>",
			n.X, n.Y+NodeRadius+15, labelColor, template.HTMLEscapeString(truncate(n.Name, LabelMax))))
	}
	b.WriteString("</g></svg>")
	return template.HTML(b.String())
}

// arrowPoints is the triangle whose tip touches the target node's rim,
// rotated along the edge direction.
func arrowPoints(from, to Node) string {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	cos, sin := math.Cos(angle), math.Sin(angle)
	tipX := to.X - cos*NodeRadius
	tipY := to.Y - sin*NodeRadius
	corner := func(dx, dy float64) (float64, float64) {
		return tipX + dx*cos - dy*sin, tipY + dx*sin + dy*cos
	}
	x1, y1 := corner(-ArrowSize, -ArrowSize/2)
	x2, y2 := corner(-ArrowSize, ArrowSize/2)
	return fmt.Sprintf("%.2f,%.2f %.2f,%.2f %.2f,%.2f", tipX, tipY, x1, y1, x2, y2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
