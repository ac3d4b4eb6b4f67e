package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"newslens/internal/chart"
	"newslens/internal/dashboard"
	"newslens/internal/domain"
	"newslens/internal/sentiment"
)

func sampleComparison() domain.Comparison {
	return domain.Comparison{
		ID:     "abc",
		Query1: "apple",
		Query2: "samsung",
		Articles1: []domain.Article{
			{Title: "Apple <rises>", URL: "https://a.example/1", PublishedAt: "2025-01-01T10:00:00Z", Sentiment: 0.5, Source: domain.Source{Name: "Reuters"}},
			{Title: "Apple falls", URL: "https://a.example/2", PublishedAt: "2025-01-02T10:00:00Z", Sentiment: -0.4, Source: domain.Source{Name: "Reuters"}},
			{Title: "Apple flat", URL: "https://a.example/3", PublishedAt: "2025-01-03T10:00:00Z", Sentiment: 0.0, Source: domain.Source{Name: "BBC"}},
		},
		Articles2: []domain.Article{
			{Title: "Samsung up", URL: "https://s.example/1", PublishedAt: "2025-01-02T08:00:00Z", Sentiment: 0.3, Source: domain.Source{Name: "CNN"}},
		},
		Analysis1: domain.Analysis{
			Timeline: []domain.TimelinePoint{{Date: "2025-01-01", Count: 1}, {Date: "2025-01-02", Count: 1}, {Date: "2025-01-03", Count: 1}},
			Sources:  []domain.SourceCount{{Name: "Reuters", Count: 2}, {Name: "BBC", Count: 1}},
		},
		Analysis2: &domain.Analysis{
			Timeline: []domain.TimelinePoint{{Date: "2025-01-02", Count: 1}},
			Sources:  []domain.SourceCount{{Name: "CNN", Count: 1}},
		},
	}
}

func TestHTMLPageRendersMountedCharts(t *testing.T) {
	t.Parallel()

	page := NewHTMLPage(Page{
		ID:           "abc",
		Query1:       "apple",
		Query2:       "samsung",
		Narrative:    "Apple dominates coverage.",
		ShareURL:     "https://lens.example/dashboards/abc",
		ExportURL:    "/api/dashboards/abc/export",
		AssistantURL: "https://assistant.example",
	})
	d := dashboard.New(sampleComparison(), dashboard.DefaultOptions())
	n, err := d.Render(context.Background(), page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7 mounted charts, got %d", n)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, id := range Layout {
		if !strings.Contains(out, `id="`+id+`"`) {
			t.Fatalf("expected container %s in page", id)
		}
	}
	for _, want := range []string{
		"Media Analysis: apple vs samsung",
		"Apple dominates coverage.",
		"Sentiment by Outlet: samsung",
		dashboard.NoticeLinkCopied,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if strings.Contains(out, "Apple <rises>") {
		t.Fatal("article titles must be escaped")
	}
}

func TestHTMLPageOmitsMissingContainers(t *testing.T) {
	t.Parallel()

	page := NewHTMLPage(Page{Query1: "apple"}, chart.ScatterID, chart.PieID1)
	if page.HasContainer(chart.TimelineID) {
		t.Fatal("timeline container should be absent")
	}
	if err := page.Mount(context.Background(), chart.Spec{ID: chart.TimelineID}); err == nil {
		t.Fatal("expected error mounting into a missing container")
	}

	d := dashboard.New(sampleComparison(), dashboard.DefaultOptions())
	n, err := d.Render(context.Background(), page)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 charts without error, got %d %v", n, err)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), `id="`+chart.TimelineID+`"`) {
		t.Fatal("unexpected timeline container")
	}
}

func TestPNGEncodesEveryChartKind(t *testing.T) {
	t.Parallel()

	png := NewPNG()
	for _, spec := range dashboard.New(sampleComparison(), dashboard.DefaultOptions()).Charts() {
		data, err := png.Encode(spec)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", spec.ID, err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Fatalf("%s: output is not a PNG", spec.ID)
		}
	}
}

func TestPNGEmptyCharts(t *testing.T) {
	t.Parallel()

	png := NewPNG()
	pie := chart.SentimentPie(chart.PieID1, "q", nil, sentiment.DefaultBuckets())
	if _, err := png.Encode(pie); !errors.Is(err, ErrEmptyChart) {
		t.Fatalf("expected ErrEmptyChart for empty pie, got %v", err)
	}
	bar := chart.Spec{ID: "x", Kind: chart.KindBar}
	if _, err := png.Encode(bar); !errors.Is(err, ErrEmptyChart) {
		t.Fatalf("expected ErrEmptyChart for empty bars, got %v", err)
	}
	if _, err := png.Encode(chart.Spec{ID: "x", Kind: "radar"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c := parseColor("#005e30")
	if c.R != 0 || c.G != 0x5e || c.B != 0x30 || c.A != 255 {
		t.Fatalf("unexpected hex colour: %+v", c)
	}
	c = parseColor(sentiment.Color(sentiment.Negative, 0.7))
	if c.R != 220 || c.G != 53 || c.B != 69 || c.A != 179 {
		t.Fatalf("unexpected rgba colour: %+v", c)
	}
}

func TestTerminalRendersBlocks(t *testing.T) {
	t.Parallel()

	term := NewTerminal(100)
	d := dashboard.New(sampleComparison(), dashboard.DefaultOptions())
	if _, err := d.Render(context.Background(), term); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blocks := term.Blocks()
	if len(blocks) != 7 {
		t.Fatalf("expected 7 blocks, got %d", len(blocks))
	}
	if !strings.Contains(blocks[0], "Sentiment Over Time") || !strings.Contains(blocks[0], "3 points") {
		t.Fatalf("unexpected scatter block: %q", blocks[0])
	}
	if !strings.Contains(blocks[3], "Positive") || !strings.Contains(blocks[3], "(33%)") {
		t.Fatalf("unexpected pie block: %q", blocks[3])
	}
	if !strings.Contains(blocks[5], "Reuters (2)") {
		t.Fatalf("unexpected outlet block: %q", blocks[5])
	}
}
