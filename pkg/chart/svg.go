package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SVGRenderer draws figures at generation time with go-chart, so the
// report needs no charting script.
type SVGRenderer struct{}

// Name implements Renderer.
func (r *SVGRenderer) Name() string { return RendererSVG }

// Head implements Renderer.
func (r *SVGRenderer) Head() template.HTML { return "" }

// Render implements Renderer.
func (r *SVGRenderer) Render(id string, fig Figure) (template.HTML, error) {
	if err := fig.Validate(); err != nil {
		return "", err
	}

	w, h := fig.size()
	panelW := w / len(fig.Panels)

	var out strings.Builder
	fmt.Fprintf(&out, `<div id="%s" class="flex flex-row justify-center">`, template.HTMLEscapeString(id))
	for i, p := range fig.Panels {
		var buf bytes.Buffer
		var err error
		if p.Line != nil {
			err = renderLine(&buf, p, panelW, h)
		} else {
			err = renderBars(&buf, p, panelW, h)
		}
		if err != nil {
			return "", fmt.Errorf("panel %d (%s): %w", i, p.Title, err)
		}
		out.WriteString(`<figure class="m-2">`)
		if p.Title != "" {
			fmt.Fprintf(&out, `<figcaption class="text-center font-bold">%s</figcaption>`, template.HTMLEscapeString(p.Title))
		}
		out.Write(buf.Bytes())
		out.WriteString(`</figure>`)
	}
	out.WriteString(`</div>`)
	return template.HTML(out.String()), nil
}

func renderLine(buf *bytes.Buffer, p Panel, w, h int) error {
	xs := make([]float64, 0, len(p.Line.X))
	ys := make([]float64, 0, len(p.Line.Y))
	for i, y := range p.Line.Y {
		if isGap(y) {
			continue
		}
		xs = append(xs, p.Line.X[i])
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		xs, ys = []float64{0}, []float64{0}
	}
	// go-chart refuses a zero-width range; pad a single point
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	xMin, xMax := bounds(xs)
	yMin, yMax := bounds(ys)

	graph := gochart.Chart{
		Width:      w,
		Height:     h,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:  p.XTitle,
			Range: paddedRange(xMin, xMax, false),
		},
		YAxis: gochart.YAxis{
			Name:  p.YTitle,
			Range: paddedRange(math.Min(0, yMin), yMax, true),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    p.Line.Name,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2,
				},
			},
		},
	}
	return graph.Render(gochart.SVG, buf)
}

func renderBars(buf *bytes.Buffer, p Panel, w, h int) error {
	bars := make([]gochart.Value, len(p.Bars.Values))
	maxV := 0.0
	for i, v := range p.Bars.Values {
		bars[i] = gochart.Value{
			Label: fmt.Sprintf("%s (%v)", p.Bars.Labels[i], v),
			Value: v,
		}
		if i < len(p.Bars.Colors) {
			c := cssColor(p.Bars.Colors[i])
			bars[i].Style = gochart.Style{FillColor: c, StrokeColor: c}
		}
		if v > maxV {
			maxV = v
		}
	}

	graph := gochart.BarChart{
		Width:    w,
		Height:   h,
		BarWidth: w / (2 * (len(bars) + 1)),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		YAxis: gochart.YAxis{
			Name:  p.YTitle,
			Range: paddedRange(0, maxV, true),
		},
		Bars: bars,
	}
	return graph.Render(gochart.SVG, buf)
}

func bounds(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange never returns an empty range; headroom adds 10% above max.
func paddedRange(lo, hi float64, headroom bool) *gochart.ContinuousRange {
	if headroom {
		hi += (hi - lo) * 0.1
	}
	if hi <= lo {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

var namedColors = map[string]string{
	"blue":   "0000ff",
	"yellow": "ffd700",
	"red":    "ff0000",
	"green":  "008000",
	"gray":   "808080",
}

func cssColor(c string) drawing.Color {
	if hex, ok := namedColors[strings.ToLower(c)]; ok {
		return drawing.ColorFromHex(hex)
	}
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}
