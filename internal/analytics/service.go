package analytics

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"strings"

	"github.com/stockdesk/stockdesk/internal/analytics/svg"
)

// ErrUnknownGroup is returned for a tab name outside Groups().
var ErrUnknownGroup = errors.New("analytics: unknown chart group")

// Rendered is a chart ready to embed in the page.
type Rendered struct {
	Name  string        `json:"name"`
	Title string        `json:"title"`
	Kind  Kind          `json:"kind"`
	SVG   template.HTML `json:"svg"`
	Peak  string        `json:"peak"`
	Total string        `json:"total"`
	Mean  string        `json:"mean"`

	// Margin is set for charts carrying both a revenue and a cost series.
	Margin string `json:"margin,omitempty"`
}

// Service renders chart groups through the cache.
type Service struct {
	catalog *Catalog
	cache   *Cache
	logger  *slog.Logger
}

// NewService wires a Catalog with a Cache helper.
func NewService(catalog *Catalog, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: catalog, cache: cache, logger: logger}
}

// Catalog exposes the chart declarations.
func (s *Service) Catalog() *Catalog { return s.catalog }

// RenderGroup returns every chart of group, rendered, in declaration order.
func (s *Service) RenderGroup(ctx context.Context, group string) ([]Rendered, error) {
	if !ValidGroup(group) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	key, err := s.cache.BuildKey(ctx, "charts", group)
	if err != nil {
		s.logger.Warn("chart cache unavailable", slog.String("group", group), slog.Any("error", err))
		return s.renderAll(group)
	}
	var out []Rendered
	err = s.cache.FetchJSON(ctx, key, &out, func(context.Context) (any, error) {
		return s.renderAll(group)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops every cached rendering.
func (s *Service) Invalidate(ctx context.Context) (int64, error) {
	return s.cache.Bump(ctx)
}

func (s *Service) renderAll(group string) ([]Rendered, error) {
	charts := s.catalog.Group(group)
	out := make([]Rendered, 0, len(charts))
	for _, chart := range charts {
		html, err := RenderChart(chart)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", chart.Name, err)
		}
		first := chart.Series[0].Values
		peak := 0.0
		for i, v := range first {
			if i == 0 || v > peak {
				peak = v
			}
		}
		out = append(out, Rendered{
			Name:   chart.Name,
			Title:  chart.Title,
			Kind:   chart.Kind,
			SVG:    html,
			Peak:   chart.FormatValue(peak),
			Total:  chart.FormatValue(math.Round(Sum(first)*100) / 100),
			Mean:   chart.FormatValue(Round1(Average(first))),
			Margin: chartMargin(chart),
		})
	}
	return out, nil
}

// chartMargin is the overall margin of a chart with Revenue and Cost series.
func chartMargin(chart ChartSpec) string {
	var revenue, cost []float64
	for _, s := range chart.Series {
		switch strings.ToLower(s.Label) {
		case "revenue":
			revenue = s.Values
		case "cost":
			cost = s.Values
		}
	}
	if revenue == nil || cost == nil {
		return ""
	}
	return trimFloat(Margin(Sum(revenue), Sum(cost))) + "%"
}

// RenderChart draws a single chart as inline SVG.
func RenderChart(chart ChartSpec) (template.HTML, error) {
	series := make([]svg.Series, 0, len(chart.Series))
	for _, s := range chart.Series {
		series = append(series, svg.Series{
			Label:     s.Label,
			Values:    s.Values,
			Color:     s.Color,
			Fill:      s.Fill,
			Secondary: s.Secondary,
			Overlay:   s.Overlay,
		})
	}
	w, h := svg.DefaultWidth, svg.DefaultHeight
	switch chart.Kind {
	case KindLine:
		return svg.Lines(w, h, series, chart.Labels, svg.LineOpts{Title: chart.Title, ShowDots: true})
	case KindBar:
		return svg.Bars(w, h, series, chart.Labels, svg.BarOpts{Title: chart.Title, Palette: chart.Colors})
	case KindStacked:
		return svg.Bars(w, 300, series, chart.Labels, svg.BarOpts{Title: chart.Title, Stacked: true})
	case KindHBar:
		return svg.HBars(w, 300, series[0].Values, chart.Labels, svg.BarOpts{Title: chart.Title, Palette: chart.Colors})
	case KindPie:
		return svg.Donut(w, h, series[0].Values, chart.Labels, chart.Colors, svg.PieOpts{Title: chart.Title, Shares: Shares(series[0].Values)})
	case KindDoughnut:
		return svg.Donut(w, h, series[0].Values, chart.Labels, chart.Colors, svg.PieOpts{Title: chart.Title, InnerRatio: 0.6, Shares: Shares(series[0].Values)})
	default:
		return "", fmt.Errorf("analytics: unsupported kind %q", chart.Kind)
	}
}
