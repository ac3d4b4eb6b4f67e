package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"newslens/internal/chart"
)

// ErrEmptyChart is returned when a spec has nothing to draw.
var ErrEmptyChart = errors.New("chart has no data")

const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

// PNG renders one chart spec at a time to PNG. Bars are drawn vertically.
type PNG struct {
	Width  int
	Height int
}

func NewPNG() *PNG {
	return &PNG{Width: DefaultWidth, Height: DefaultHeight}
}

// Encode returns the PNG bytes of spec.
func (p *PNG) Encode(spec chart.Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf, spec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders spec as PNG to w.
func (p *PNG) Write(w io.Writer, spec chart.Spec) error {
	var err error
	switch spec.Kind {
	case chart.KindScatter:
		err = p.timeSeries(w, spec, true)
	case chart.KindLine:
		err = p.timeSeries(w, spec, false)
	case chart.KindBar:
		err = p.bars(w, spec)
	case chart.KindPie:
		err = p.pie(w, spec)
	default:
		err = fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", spec.ID, err)
	}
	return nil
}

func (p *PNG) timeSeries(w io.Writer, spec chart.Spec, dots bool) error {
	var (
		series      []gochart.Series
		first, last time.Time
		lo, hi      float64
	)
	for _, ds := range spec.Datasets {
		ts := gochart.TimeSeries{Name: ds.Label}
		var colors []drawing.Color
		for i, pt := range ds.Points {
			at, ok := parseTime(pt.X)
			if !ok || math.IsNaN(pt.Y) {
				continue
			}
			ts.XValues = append(ts.XValues, at)
			ts.YValues = append(ts.YValues, pt.Y)
			lo, hi = math.Min(lo, pt.Y), math.Max(hi, pt.Y)
			if i < len(ds.Colors) {
				colors = append(colors, parseColor(ds.Colors[i]))
			}
			if first.IsZero() || at.Before(first) {
				first = at
			}
			if at.After(last) {
				last = at
			}
		}
		if len(ts.XValues) == 0 {
			continue
		}

		line := parseColor(ds.Color)
		if dots {
			ts.Style = gochart.Style{StrokeWidth: gochart.Disabled, DotWidth: 4, DotColor: line}
			if len(colors) == len(ts.XValues) {
				ts.Style.DotColorProvider = func(_, _ gochart.Range, index int, _, _ float64) drawing.Color {
					return colors[index]
				}
			}
		} else {
			ts.Style = gochart.Style{StrokeWidth: 2, StrokeColor: line, DotWidth: 3, DotColor: line}
		}
		series = append(series, ts)
	}
	if len(series) == 0 {
		return ErrEmptyChart
	}

	// go-chart cannot draw a zero-width x range, so pad the data range by a day.
	start := float64(first.Add(-12 * time.Hour).UnixNano())
	end := float64(last.Add(12 * time.Hour).UnixNano())

	rng := yRange(spec)
	if rng == nil {
		rng = dataRange(lo, hi)
	}

	graph := gochart.Chart{
		Title:  spec.Title,
		Width:  p.Width,
		Height: p.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
			Range:          &gochart.ContinuousRange{Min: start, Max: end},
		},
		YAxis:  gochart.YAxis{Name: spec.ValueTitle, Range: rng},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.PNG, w)
}

func (p *PNG) bars(w io.Writer, spec chart.Spec) error {
	var bars []gochart.Value
	lo, hi := 0.0, 0.0
	for i, label := range spec.Labels {
		for d, ds := range spec.Datasets {
			if i >= len(ds.Values) || math.IsNaN(ds.Values[i]) {
				continue
			}
			v := ds.Values[i]
			fill := parseColor(ds.Color)
			if i < len(ds.Colors) {
				fill = parseColor(ds.Colors[i])
			}
			name := label
			if d > 0 {
				name = ""
			}
			bars = append(bars, gochart.Value{
				Label: name,
				Value: v,
				Style: gochart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
			})
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if len(bars) == 0 {
		return ErrEmptyChart
	}

	rng := yRange(spec)
	if rng == nil {
		rng = dataRange(lo, hi)
	}

	graph := gochart.BarChart{
		Title:  spec.Title,
		Width:  p.Width,
		Height: p.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth:     barWidth(p.Width, len(bars)),
		YAxis:        gochart.YAxis{Name: spec.ValueTitle, Range: rng},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	return graph.Render(gochart.PNG, w)
}

func (p *PNG) pie(w io.Writer, spec chart.Spec) error {
	if len(spec.Datasets) == 0 {
		return ErrEmptyChart
	}
	ds := spec.Datasets[0]

	var values []gochart.Value
	for i, label := range spec.Labels {
		if i >= len(ds.Values) || ds.Values[i] <= 0 {
			continue
		}
		if i < len(spec.Percentages) {
			label = fmt.Sprintf("%s (%d%%)", label, spec.Percentages[i])
		}
		fill := parseColor(ds.Color)
		if i < len(ds.Colors) {
			fill = parseColor(ds.Colors[i])
		}
		values = append(values, gochart.Value{
			Label: label,
			Value: ds.Values[i],
			Style: gochart.Style{FillColor: fill},
		})
	}
	if len(values) == 0 {
		return ErrEmptyChart
	}

	graph := gochart.PieChart{
		Title:  spec.Title,
		Width:  p.Height,
		Height: p.Height,
		Values: values,
	}
	return graph.Render(gochart.PNG, w)
}

// yRange returns the fixed value range of spec, or nil when it has none.
func yRange(spec chart.Spec) gochart.Range {
	if spec.ValueRange == nil {
		return nil
	}
	return &gochart.ContinuousRange{Min: spec.ValueRange.Min, Max: spec.ValueRange.Max}
}

// dataRange spans zero and every value, never collapsing to a zero delta.
func dataRange(lo, hi float64) gochart.Range {
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if hi <= lo {
		hi = lo + 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi * 1.1}
}

func barWidth(width, bars int) int {
	w := (width - 120) / (bars * 2)
	if w < 8 {
		return 8
	}
	if w > 60 {
		return 60
	}
	return w
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseColor reads "#rrggbb" and "rgba(r, g, b, a)" colours. Anything else is gray.
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#") && len(s) == 7:
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return drawing.Color{R: r, G: g, B: b, A: 255}
		}
	case strings.HasPrefix(s, "rgba("):
		var r, g, b uint8
		var a float64
		if _, err := fmt.Sscanf(s, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); err == nil {
			return drawing.Color{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
		}
	}
	return gochart.ColorAlternateGray
}
