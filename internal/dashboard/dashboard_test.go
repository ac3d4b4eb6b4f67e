package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"newslens/internal/chart"
	"newslens/internal/domain"
)

func fullComparison() domain.Comparison {
	return domain.Comparison{
		ID:     "cmp-1",
		Query1: "apple",
		Query2: "samsung",
		Articles1: []domain.Article{
			{Title: "a", PublishedAt: "2025-01-01T00:00:00Z", Sentiment: 0.5, Source: domain.Source{Name: "A"}},
			{Title: "b", PublishedAt: "2025-01-02T00:00:00Z", Sentiment: -0.5, Source: domain.Source{Name: "B"}},
		},
		Articles2: []domain.Article{
			{Title: "c", PublishedAt: "2025-01-01T00:00:00Z", Sentiment: 0.1, Source: domain.Source{Name: "C"}},
		},
		Analysis1: domain.Analysis{
			Timeline: []domain.TimelinePoint{{Date: "2025-01-01", Count: 1}, {Date: "2025-01-02", Count: 1}},
			Sources:  []domain.SourceCount{{Name: "A", Count: 1}, {Name: "B", Count: 1}},
		},
		Analysis2: &domain.Analysis{
			Timeline: []domain.TimelinePoint{{Date: "2025-01-01", Count: 1}},
			Sources:  []domain.SourceCount{{Name: "C", Count: 1}},
		},
	}
}

func chartIDs(specs []chart.Spec) []string {
	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	return ids
}

func TestChartsFullComparison(t *testing.T) {
	t.Parallel()

	got := chartIDs(New(fullComparison(), DefaultOptions()).Charts())
	want := []string{
		chart.ScatterID, chart.TimelineID, chart.SourcesID,
		chart.PieID1, chart.PieID2, chart.OutletID1, chart.OutletID2,
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestChartsSkipsMissingInputs(t *testing.T) {
	t.Parallel()

	c := fullComparison()
	c.Query2 = ""
	c.Articles2 = nil
	c.Analysis2 = nil
	c.Analysis1.Timeline = nil

	got := chartIDs(New(c, DefaultOptions()).Charts())
	want := []string{chart.ScatterID, chart.SourcesID, chart.PieID1, chart.OutletID1}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}

	empty := New(domain.Comparison{Query1: "nothing"}, DefaultOptions())
	if n := len(empty.Charts()); n != 0 {
		t.Fatalf("expected no charts for an empty comparison, got %d", n)
	}
}

func TestChartLookup(t *testing.T) {
	t.Parallel()

	d := New(fullComparison(), DefaultOptions())
	if _, ok := d.Chart(chart.PieID2); !ok {
		t.Fatal("expected second pie chart")
	}
	if _, ok := d.Chart("nope"); ok {
		t.Fatal("unknown chart id should not resolve")
	}
}

type recordingTarget struct {
	containers map[string]bool
	failOn     string
	mounted    []string
}

func (r *recordingTarget) HasContainer(id string) bool { return r.containers[id] }

func (r *recordingTarget) Mount(_ context.Context, spec chart.Spec) error {
	if spec.ID == r.failOn {
		return errors.New("canvas lost")
	}
	r.mounted = append(r.mounted, spec.ID)
	return nil
}

func TestRenderSkipsAbsentContainers(t *testing.T) {
	t.Parallel()

	target := &recordingTarget{containers: map[string]bool{chart.ScatterID: true, chart.PieID1: true}}
	n, err := New(fullComparison(), DefaultOptions()).Render(context.Background(), target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || strings.Join(target.mounted, ",") != chart.ScatterID+","+chart.PieID1 {
		t.Fatalf("unexpected mounts: %d %v", n, target.mounted)
	}
}

func TestRenderContinuesAfterMountFailure(t *testing.T) {
	t.Parallel()

	target := &recordingTarget{
		containers: map[string]bool{chart.ScatterID: true, chart.TimelineID: true, chart.SourcesID: true},
		failOn:     chart.TimelineID,
	}
	n, err := New(fullComparison(), DefaultOptions()).Render(context.Background(), target)
	if err == nil || !strings.Contains(err.Error(), chart.TimelineID) {
		t.Fatalf("expected timeline mount error, got %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 mounted charts, got %d", n)
	}
}

type fakeClipboard struct {
	mu      sync.Mutex
	text    string
	err     error
	release chan struct{}
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	return f.err
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("copy did not complete")
		return Result{}
	}
}

func TestShareCopiesLink(t *testing.T) {
	t.Parallel()

	clip := &fakeClipboard{}
	actions := NewActions(New(fullComparison(), DefaultOptions()), "")
	results := make(chan Result, 1)

	if err := actions.Share(context.Background(), clip, "https://lens.example/dashboards/cmp-1", func(r Result) { results <- r }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := waitResult(t, results)
	if r.Err != nil || r.Notice != NoticeLinkCopied {
		t.Fatalf("unexpected result: %+v", r)
	}
	if clip.text != "https://lens.example/dashboards/cmp-1" {
		t.Fatalf("unexpected clipboard text %q", clip.text)
	}
}

func TestCopyForAssistant(t *testing.T) {
	t.Parallel()

	clip := &fakeClipboard{}
	actions := NewActions(New(fullComparison(), DefaultOptions()), "https://assistant.example/chat")
	results := make(chan Result, 1)

	if err := actions.CopyForAssistant(context.Background(), clip, func(r Result) { results <- r }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := waitResult(t, results)
	if r.OpenURL != "https://assistant.example/chat" || r.Alert != "" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if !strings.HasPrefix(clip.text, `Media Analysis for "apple" vs "samsung"`) {
		t.Fatalf("unexpected payload start: %q", clip.text)
	}
}

func TestCopyFailureReportsAlert(t *testing.T) {
	t.Parallel()

	clip := &fakeClipboard{err: errors.New("permission denied")}
	actions := NewActions(New(fullComparison(), DefaultOptions()), "")
	results := make(chan Result, 1)

	if err := actions.Share(context.Background(), clip, "x", func(r Result) { results <- r }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := waitResult(t, results)
	if r.Alert != AlertShareFailed || r.Err == nil || r.Notice != "" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestSecondCopyWhileBusy(t *testing.T) {
	t.Parallel()

	clip := &fakeClipboard{release: make(chan struct{})}
	actions := NewActions(New(fullComparison(), DefaultOptions()), "")
	results := make(chan Result, 2)

	if err := actions.Share(context.Background(), clip, "first", func(r Result) { results <- r }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := actions.Share(context.Background(), clip, "second", func(r Result) { results <- r }); !errors.Is(err, ErrCopyInProgress) {
		t.Fatalf("expected ErrCopyInProgress, got %v", err)
	}

	close(clip.release)
	waitResult(t, results)

	if err := actions.Share(context.Background(), clip, "third", func(r Result) { results <- r }); err != nil {
		t.Fatalf("expected copy to be allowed after completion, got %v", err)
	}
	waitResult(t, results)
}
