// Package network lays out the supplier network and derives its metrics.
package network

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// Layout constants for the circular diagram.
const (
	DefaultWidth = 800
	Height       = 600
	Radius       = 200.0
	CenterY      = 300.0
	NodeRadius   = 20.0
	ArrowSize    = 10.0
	LabelMax     = 20
)

var typeColors = map[inventory.SupplierType]string{
	inventory.SupplierManufacturer: "#6366f1",
	inventory.SupplierDistributor:  "#10b981",
	inventory.SupplierWholesaler:   "#8b5cf6",
	inventory.SupplierRetailer:     "#06b6d4",
	inventory.SupplierDropshipper:  "#f59e0b",
	inventory.SupplierAgent:        "#ef4444",
}

// TypeColor maps a supplier type to its node colour, grey when unknown.
func TypeColor(t inventory.SupplierType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return "#6b7280"
}

// Node is a supplier placed on the diagram.
type Node struct {
	ID    int64                  `json:"id"`
	Name  string                 `json:"name"`
	Type  inventory.SupplierType `json:"type"`
	X     float64                `json:"x"`
	Y     float64                `json:"y"`
	Color string                 `json:"color"`
}

// Edge aggregates every transaction from one supplier to another.
type Edge struct {
	From  int64           `json:"from"`
	To    int64           `json:"to"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Average is the mean transaction value on the edge.
func (e Edge) Average() decimal.Decimal {
	if e.Count == 0 {
		return decimal.Zero
	}
	return e.Total.Div(decimal.NewFromInt(int64(e.Count))).Round(2)
}

// Width is the stroke width drawn for the edge.
func (e Edge) Width() int {
	if e.Count > 10 {
		return 10
	}
	return e.Count
}

// Graph is the laid out network.
type Graph struct {
	Width int    `json:"width"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	index map[int64]int
}

// Build places suppliers evenly on a circle and folds transactions into
// directed edges kept in first-seen order. A non-positive width falls back to
// DefaultWidth.
func Build(suppliers []inventory.Supplier, txs []inventory.Transaction, width int) *Graph {
	if width <= 0 {
		width = DefaultWidth
	}
	g := &Graph{Width: width, index: make(map[int64]int, len(suppliers))}
	n := float64(len(suppliers))
	cx := float64(width) / 2
	for i, s := range suppliers {
		angle := float64(i) / n * 2 * math.Pi
		g.index[s.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{
			ID:    s.ID,
			Name:  s.Name,
			Type:  s.Type,
			X:     math.Cos(angle)*Radius + cx,
			Y:     math.Sin(angle)*Radius + CenterY,
			Color: TypeColor(s.Type),
		})
	}

	type pair struct{ from, to int64 }
	seen := make(map[pair]int)
	for _, t := range txs {
		key := pair{t.FromSupplierID, t.ToSupplierID}
		i, ok := seen[key]
		if !ok {
			i = len(g.Edges)
			seen[key] = i
			g.Edges = append(g.Edges, Edge{From: t.FromSupplierID, To: t.ToSupplierID, Total: decimal.Zero})
		}
		g.Edges[i].Count++
		g.Edges[i].Total = g.Edges[i].Total.Add(t.TotalAmount)
	}
	return g
}

// Node looks up a node by supplier ID.
func (g *Graph) Node(id int64) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Name resolves a supplier name, "Unknown" when the ID is not on the diagram.
func (g *Graph) Name(id int64) string {
	if n, ok := g.Node(id); ok {
		return n.Name
	}
	return "Unknown"
}

// ByValue returns the edges ordered by total value, highest first. Ties keep
// first-seen order.
func (g *Graph) ByValue() []Edge {
	out := append([]Edge(nil), g.Edges...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}
