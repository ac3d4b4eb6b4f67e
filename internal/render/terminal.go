package render

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"newslens/internal/chart"
	"newslens/internal/sentiment"
)

const (
	labelWidth = 28
	minBar     = 10
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00a651"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	labelStyle = lipgloss.NewStyle().Width(labelWidth).MaxWidth(labelWidth)
)

// Terminal renders chart specs as text blocks for a terminal of the given width.
// Every chart container is considered present.
type Terminal struct {
	Width int

	mu     sync.Mutex
	blocks map[string]string
	order  []string
}

func NewTerminal(width int) *Terminal {
	return &Terminal{Width: width, blocks: make(map[string]string)}
}

func (t *Terminal) HasContainer(string) bool { return true }

func (t *Terminal) Mount(_ context.Context, spec chart.Spec) error {
	block := RenderText(spec, t.Width)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.blocks[spec.ID]; !ok {
		t.order = append(t.order, spec.ID)
	}
	t.blocks[spec.ID] = block
	return nil
}

// Blocks returns the rendered charts in mount order.
func (t *Terminal) Blocks() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.blocks[id])
	}
	return out
}

// RenderText draws spec as a titled text block no wider than width.
func RenderText(spec chart.Spec, width int) string {
	barWidth := width - labelWidth - 12
	if barWidth < minBar {
		barWidth = minBar
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(spec.Title))
	b.WriteString("\n\n")

	switch spec.Kind {
	case chart.KindBar:
		writeBars(&b, spec, barWidth)
	case chart.KindPie:
		writePie(&b, spec, barWidth)
	case chart.KindScatter, chart.KindLine:
		writeSeries(&b, spec, barWidth)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeBars(b *strings.Builder, spec chart.Spec, width int) {
	scale := 0.0
	for _, ds := range spec.Datasets {
		for _, v := range ds.Values {
			if !math.IsNaN(v) {
				scale = math.Max(scale, math.Abs(v))
			}
		}
	}
	if spec.ValueRange != nil {
		scale = math.Max(math.Abs(spec.ValueRange.Min), math.Abs(spec.ValueRange.Max))
	}
	if scale == 0 {
		scale = 1
	}

	for i, label := range spec.Labels {
		for d, ds := range spec.Datasets {
			if i >= len(ds.Values) {
				continue
			}
			name := label
			if d > 0 {
				name = ""
			}
			color := ds.Color
			if i < len(ds.Colors) {
				color = ds.Colors[i]
			}
			v := ds.Values[i]
			n := 0
			if !math.IsNaN(v) {
				n = min(int(math.Round(math.Abs(v)/scale*float64(width))), width)
			}
			bar := lipgloss.NewStyle().Foreground(hexOf(color)).Render(strings.Repeat("█", n))
			fmt.Fprintf(b, "%s %s %s\n", labelStyle.Render(name), bar, mutedStyle.Render(formatValue(v)))
		}
	}
	if len(spec.Datasets) > 1 {
		b.WriteString("\n")
		for _, ds := range spec.Datasets {
			fmt.Fprintf(b, "%s %s  ", lipgloss.NewStyle().Foreground(hexOf(ds.Color)).Render("█"), ds.Label)
		}
		b.WriteString("\n")
	}
}

func writePie(b *strings.Builder, spec chart.Spec, width int) {
	if len(spec.Datasets) == 0 {
		return
	}
	ds := spec.Datasets[0]
	for i, label := range spec.Labels {
		if i >= len(ds.Values) {
			continue
		}
		pct := 0
		if i < len(spec.Percentages) {
			pct = spec.Percentages[i]
		}
		color := ""
		if i < len(ds.Colors) {
			color = ds.Colors[i]
		}
		n := pct * width / 100
		bar := lipgloss.NewStyle().Foreground(hexOf(color)).Render(strings.Repeat("█", n))
		fmt.Fprintf(b, "%s %s %s\n", labelStyle.Render(label), bar,
			mutedStyle.Render(fmt.Sprintf("%d (%d%%)", int(ds.Values[i]), pct)))
	}
}

// writeSeries summarises each point series. Line series also get a sparkline.
func writeSeries(b *strings.Builder, spec chart.Spec, width int) {
	for _, ds := range spec.Datasets {
		if len(ds.Points) == 0 {
			continue
		}
		lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
		first, last := ds.Points[0].X, ds.Points[0].X
		for _, p := range ds.Points {
			lo, hi, sum = math.Min(lo, p.Y), math.Max(hi, p.Y), sum+p.Y
			if p.X < first {
				first = p.X
			}
			if p.X > last {
				last = p.X
			}
		}
		mean := sum / float64(len(ds.Points))
		fmt.Fprintf(b, "%s %s\n", lipgloss.NewStyle().Foreground(hexOf(ds.Color)).Bold(true).Render(ds.Label),
			mutedStyle.Render(fmt.Sprintf("%d points, %s to %s", len(ds.Points), datePart(first), datePart(last))))
		fmt.Fprintf(b, "  min %s  mean %s  max %s\n", formatValue(lo), formatValue(mean), formatValue(hi))
		if spec.Kind == chart.KindLine {
			b.WriteString("  " + sparkline(ds.Points, width) + "\n")
		}
	}
}

var sparks = []rune("▁▂▃▄▅▆▇█")

func sparkline(points []chart.Point, width int) string {
	if len(points) > width {
		points = points[len(points)-width:]
	}
	hi := 0.0
	for _, p := range points {
		hi = math.Max(hi, p.Y)
	}
	out := make([]rune, 0, len(points))
	for _, p := range points {
		idx := 0
		if hi > 0 && !math.IsNaN(p.Y) {
			idx = int(math.Round(p.Y / hi * float64(len(sparks)-1)))
		}
		if idx < 0 {
			idx = 0
		}
		out = append(out, sparks[idx])
	}
	return string(out)
}

func datePart(s string) string {
	d, _, _ := strings.Cut(s, "T")
	return d
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// hexOf converts chart colours to the hex form lipgloss expects.
func hexOf(s string) lipgloss.Color {
	if s == "" {
		r, g, b := sentiment.RGB(sentiment.Neutral)
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
	}
	c := parseColor(s)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
