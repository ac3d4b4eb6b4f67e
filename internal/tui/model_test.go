package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"newslens/internal/dashboard"
	"newslens/internal/domain"
)

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.err
}

func (f *fakeClipboard) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

func testDashboard() *dashboard.Dashboard {
	return dashboard.New(domain.Comparison{
		ID:     "abc",
		Query1: "apple",
		Query2: "samsung",
		Articles1: []domain.Article{
			{Title: "A", PublishedAt: "2025-01-02T10:00:00Z", Sentiment: 0.5, Source: domain.Source{Name: "Reuters"}},
			{Title: "B", PublishedAt: "2025-01-03T10:00:00Z", Sentiment: -0.5, Source: domain.Source{Name: "CNBC"}},
		},
		Articles2: []domain.Article{
			{Title: "C", PublishedAt: "2025-01-02T10:00:00Z", Sentiment: 0.1, Source: domain.Source{Name: "BBC"}},
		},
		Analysis1: domain.Analysis{DateRange: domain.DateRange{Start: "2025-01-01", End: "2025-01-07"}},
	}, dashboard.DefaultOptions())
}

func newTestModel(clip dashboard.Clipboard) Model {
	m := New(context.Background(), testDashboard(), clip, "https://news.example/dashboards/abc", "https://assistant.example")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func press(m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(key)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewBeforeSize(t *testing.T) {
	m := New(context.Background(), testDashboard(), &fakeClipboard{}, "", "")
	if got := m.View(); got != "Loading dashboard..." {
		t.Fatalf("unexpected view: %q", got)
	}
}

func TestNavigateCharts(t *testing.T) {
	m := newTestModel(&fakeClipboard{})
	if len(m.charts) != 5 {
		t.Fatalf("expected 5 charts, got %d", len(m.charts))
	}
	if !strings.Contains(m.View(), m.charts[0].Title) {
		t.Fatal("expected first chart title in view")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.index != 1 {
		t.Fatalf("expected index 1, got %d", m.index)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.index != len(m.charts)-1 {
		t.Fatalf("expected wrap to last chart, got %d", m.index)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(&fakeClipboard{})
	_, cmd := press(m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestCopyForAssistant(t *testing.T) {
	clip := &fakeClipboard{}
	m := newTestModel(clip)

	m, cmd := press(m, runes("c"))
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	msg := cmd()
	done, ok := msg.(copyDoneMsg)
	if !ok {
		t.Fatalf("expected copyDoneMsg, got %T", msg)
	}
	if !strings.HasPrefix(clip.last(), `Media Analysis for "apple" vs "samsung"`) {
		t.Fatalf("unexpected clipboard text: %q", clip.last())
	}

	updated, tick := m.Update(done)
	m = updated.(Model)
	if tick == nil {
		t.Fatal("expected notice timer")
	}
	if m.notice != dashboard.NoticeAssistantCopied || m.openURL != "https://assistant.example" {
		t.Fatalf("unexpected notice state: %q %q", m.notice, m.openURL)
	}
	if !strings.Contains(m.View(), dashboard.NoticeAssistantCopied) {
		t.Fatal("expected notice in view")
	}

	updated, _ = m.Update(clearNoticeMsg{id: m.noticeID})
	m = updated.(Model)
	if m.notice != "" || m.openURL != "" {
		t.Fatal("expected notice to be cleared")
	}
}

func TestShareAndStaleClear(t *testing.T) {
	clip := &fakeClipboard{}
	m := newTestModel(clip)

	m, cmd := press(m, runes("s"))
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	if clip.last() != "https://news.example/dashboards/abc" {
		t.Fatalf("unexpected clipboard text: %q", clip.last())
	}
	if m.notice != dashboard.NoticeLinkCopied {
		t.Fatalf("unexpected notice %q", m.notice)
	}

	updated, _ = m.Update(clearNoticeMsg{id: m.noticeID - 1})
	m = updated.(Model)
	if m.notice == "" {
		t.Fatal("stale timer must not clear a newer notice")
	}
}

func TestCopyFailureShowsAlert(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no terminal")}
	m := newTestModel(clip)

	m, cmd := press(m, runes("s"))
	updated, tick := m.Update(cmd())
	m = updated.(Model)
	if tick != nil {
		t.Fatal("alerts are not dismissed on a timer")
	}
	if m.alert != dashboard.AlertShareFailed {
		t.Fatalf("unexpected alert %q", m.alert)
	}
	if !strings.Contains(m.View(), dashboard.AlertShareFailed) {
		t.Fatal("expected alert in view")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.alert != "" {
		t.Fatal("expected key press to dismiss alert")
	}
}
