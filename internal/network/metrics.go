package network

import (
	"math"

	"github.com/shopspring/decimal"
)

// Connectivity is a fixed placeholder score shown until the backend computes one.
const Connectivity = 85.0

// Metrics summarises the network shape.
type Metrics struct {
	Suppliers    int     `json:"suppliers"`
	Connections  int     `json:"connections"`
	Density      float64 `json:"density"`
	AvgDegree    float64 `json:"avgDegree"`
	AvgDegreeBar float64 `json:"avgDegreeBar"`
	Connectivity float64 `json:"connectivity"`
}

// Metrics computes density over distinct directed supplier pairs and the
// average degree, both rounded to one decimal.
func (g *Graph) Metrics() Metrics {
	n := len(g.Nodes)
	e := len(g.Edges)
	m := Metrics{Suppliers: n, Connections: e, Connectivity: Connectivity}
	if n > 1 {
		maxPairs := float64(n*(n-1)) / 2
		m.Density = round1(float64(e) / maxPairs * 100)
	}
	if n > 0 {
		m.AvgDegree = round1(float64(e*2) / float64(n))
	}
	m.AvgDegreeBar = math.Min(m.AvgDegree/10*100, 100)
	return m
}

// Connection is an edge with supplier names resolved for display.
type Connection struct {
	Rank    int             `json:"rank"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}

// Top returns the n most valuable connections.
func (g *Graph) Top(n int) []Connection {
	return g.connections(n)
}

// Table lists up to limit connections by value for the tabular view.
func (g *Graph) Table(limit int) []Connection {
	return g.connections(limit)
}

func (g *Graph) connections(limit int) []Connection {
	edges := g.ByValue()
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	out := make([]Connection, 0, len(edges))
	for i, e := range edges {
		out = append(out, Connection{
			Rank:    i + 1,
			From:    g.Name(e.From),
			To:      g.Name(e.To),
			Count:   e.Count,
			Total:   e.Total,
			Average: e.Average(),
		})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
