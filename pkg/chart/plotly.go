package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// PlotlyRenderer draws figures in the browser with Plotly.js.
type PlotlyRenderer struct {
	ScriptURL string
}

// Name implements Renderer.
func (r *PlotlyRenderer) Name() string { return RendererPlotly }

// Head implements Renderer.
func (r *PlotlyRenderer) Head() template.HTML {
	var buf bytes.Buffer
	// execute cannot fail on a constant template with a string argument
	_ = plotlyHeadTmpl.Execute(&buf, r.ScriptURL)
	return template.HTML(buf.String())
}

// Render implements Renderer.
func (r *PlotlyRenderer) Render(id string, fig Figure) (template.HTML, error) {
	if err := fig.Validate(); err != nil {
		return "", err
	}

	data, layout := plotlySpec(fig)
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal traces: %w", err)
	}
	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}

	w, h := fig.size()
	var buf bytes.Buffer
	err = plotlyDivTmpl.Execute(&buf, map[string]interface{}{
		"ID":     id,
		"Width":  w,
		"Height": h,
		"Data":   template.JS(dataJSON),
		"Layout": template.JS(layoutJSON),
	})
	if err != nil {
		return "", fmt.Errorf("render plotly div: %w", err)
	}
	return template.HTML(buf.String()), nil
}

type plotlyTrace map[string]interface{}

// plotlySpec lays panels out left to right as subplots sharing one row.
func plotlySpec(fig Figure) ([]plotlyTrace, map[string]interface{}) {
	w, h := fig.size()
	n := len(fig.Panels)
	const gap = 0.08
	span := (1 - gap*float64(n-1)) / float64(n)

	layout := map[string]interface{}{
		"title":      map[string]interface{}{"text": fig.Title},
		"showlegend": false,
		"width":      w,
		"height":     h,
	}
	var annotations []map[string]interface{}
	traces := make([]plotlyTrace, 0, n)

	for i, p := range fig.Panels {
		suffix := ""
		if i > 0 {
			suffix = fmt.Sprint(i + 1)
		}
		start := float64(i) * (span + gap)
		end := start + span

		layout["xaxis"+suffix] = map[string]interface{}{
			"domain": []float64{start, end},
			"anchor": "y" + suffix,
			"title":  map[string]interface{}{"text": p.XTitle},
		}
		layout["yaxis"+suffix] = map[string]interface{}{
			"anchor": "x" + suffix,
			"title":  map[string]interface{}{"text": p.YTitle},
		}
		if p.Title != "" {
			annotations = append(annotations, map[string]interface{}{
				"text":      p.Title,
				"x":         (start + end) / 2,
				"y":         1.0,
				"xref":      "paper",
				"yref":      "paper",
				"xanchor":   "center",
				"yanchor":   "bottom",
				"showarrow": false,
			})
		}

		var tr plotlyTrace
		if p.Line != nil {
			ys := make([]interface{}, len(p.Line.Y))
			for j, v := range p.Line.Y {
				if isGap(v) {
					ys[j] = nil
				} else {
					ys[j] = v
				}
			}
			tr = plotlyTrace{
				"type": "scatter",
				"mode": "lines",
				"name": p.Line.Name,
				"x":    p.Line.X,
				"y":    ys,
			}
		} else {
			text := make([]string, len(p.Bars.Values))
			for j, v := range p.Bars.Values {
				text[j] = fmt.Sprint(v)
			}
			tr = plotlyTrace{
				"type":         "bar",
				"name":         p.Bars.Name,
				"x":            p.Bars.Labels,
				"y":            p.Bars.Values,
				"text":         text,
				"textposition": "outside",
			}
			if len(p.Bars.Colors) > 0 {
				tr["marker"] = map[string]interface{}{"color": p.Bars.Colors}
			}
		}
		tr["xaxis"] = "x" + suffix
		tr["yaxis"] = "y" + suffix
		traces = append(traces, tr)
	}
	if len(annotations) > 0 {
		layout["annotations"] = annotations
	}
	return traces, layout
}

var plotlyHeadTmpl = template.Must(template.New("plotly-head").Parse(
	`<script src="{{.}}" charset="utf-8"></script>`))

var plotlyDivTmpl = template.Must(template.New("plotly-div").Parse(
	`<div id="{{.ID}}" class="plotly-graph-div" style="height:{{.Height}}px; width:{{.Width}}px;"></div>
<script type="text/javascript">Plotly.newPlot({{.ID}}, {{.Data}}, {{.Layout}});</script>`))
