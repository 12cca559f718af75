// Package chart turns analysis figures into embeddable HTML.
//
// A Figure is renderer-neutral: one or more side-by-side panels, each
// holding either a line series or a bar series. Renderers decide how the
// figure reaches the page: the Plotly renderer emits a div plus a script
// that draws it with Plotly.js loaded from a CDN, the SVG renderer draws a
// static image with go-chart at generation time.
package chart

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Default figure size, matching the report layout.
const (
	DefaultWidth  = 1500
	DefaultHeight = 500
)

// Figure is a titled row of panels.
type Figure struct {
	Title  string
	Width  int
	Height int
	Panels []Panel
}

// Panel is one subplot. Exactly one of Line or Bars is set.
type Panel struct {
	Title  string
	XTitle string
	YTitle string
	Line   *LineSeries
	Bars   *BarSeries
}

// LineSeries is a line over numeric X values. NaN Y values are gaps.
type LineSeries struct {
	Name string
	X    []float64
	Y    []float64
}

// BarSeries is a set of labelled bars.
type BarSeries struct {
	Name   string
	Labels []string
	Values []float64
	Colors []string // CSS color names or #rrggbb, one per bar
}

// Validate checks panel shape before rendering.
func (f Figure) Validate() error {
	if len(f.Panels) == 0 {
		return fmt.Errorf("figure %q has no panels", f.Title)
	}
	for i, p := range f.Panels {
		switch {
		case p.Line != nil && p.Bars != nil:
			return fmt.Errorf("panel %d: both line and bars set", i)
		case p.Line != nil:
			if len(p.Line.X) != len(p.Line.Y) {
				return fmt.Errorf("panel %d: %d x values, %d y values", i, len(p.Line.X), len(p.Line.Y))
			}
		case p.Bars != nil:
			if len(p.Bars.Labels) != len(p.Bars.Values) {
				return fmt.Errorf("panel %d: %d labels, %d values", i, len(p.Bars.Labels), len(p.Bars.Values))
			}
		default:
			return fmt.Errorf("panel %d: no series", i)
		}
	}
	return nil
}

func (f Figure) size() (int, int) {
	w, h := f.Width, f.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Renderer converts figures into HTML fragments.
type Renderer interface {
	// Name identifies the renderer in configuration.
	Name() string
	// Head returns markup to place once in the document head.
	Head() template.HTML
	// Render returns the fragment for fig. id is unique within the document.
	Render(id string, fig Figure) (template.HTML, error)
}

// Renderer names.
const (
	RendererPlotly = "plotly"
	RendererSVG    = "svg"
)

// DefaultPlotlyURL is the CDN build of Plotly.js.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// New returns the renderer registered under name.
func New(name, plotlyURL string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", RendererPlotly:
		if plotlyURL == "" {
			plotlyURL = DefaultPlotlyURL
		}
		return &PlotlyRenderer{ScriptURL: plotlyURL}, nil
	case RendererSVG:
		return &SVGRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown chart renderer %q (want %s or %s)", name, RendererPlotly, RendererSVG)
	}
}

func isGap(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
