package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newslens/internal/domain"
	"newslens/internal/service"

	tele "gopkg.in/telebot.v3"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	orig := newBotFunc
	defer func() { newBotFunc = orig }()
	newBotFunc = func(tele.Settings) (*tele.Bot, error) {
		t.Fatal("bot should not be created without a token")
		return nil, nil
	}

	StartTelegramBot(nil, "")
}

func TestStartTelegramBotCreateError(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	orig := newBotFunc
	defer func() { newBotFunc = orig }()
	called := false
	newBotFunc = func(pref tele.Settings) (*tele.Bot, error) {
		called = true
		if pref.Token != "token" {
			t.Fatalf("unexpected token %q", pref.Token)
		}
		return nil, errors.New("unauthorized")
	}

	StartTelegramBot(nil, "")
	if !called {
		t.Fatal("expected bot creation attempt")
	}
}

type stubReader struct {
	comparison *domain.Comparison
	err        error
	bucketErr  error
}

func (s stubReader) Get(context.Context, string) (*domain.Comparison, error) {
	return s.comparison, s.err
}

func (s stubReader) SentimentBuckets(_ context.Context, _ string, set int) (domain.BatchBuckets, error) {
	if s.bucketErr != nil {
		return domain.BatchBuckets{}, s.bucketErr
	}
	if set == 2 {
		return domain.BatchBuckets{Query: s.comparison.Query2, Articles: 1, Buckets: domain.SentimentBuckets{Negative: 1}}, nil
	}
	return domain.BatchBuckets{
		Query:    s.comparison.Query1,
		Articles: 4,
		Buckets:  domain.SentimentBuckets{Positive: 2, Neutral: 1, Negative: 1},
	}, nil
}

func (s stubReader) OutletSentiment(_ context.Context, _ string, set, limit int) ([]domain.OutletSummary, string, error) {
	if limit != topOutlets {
		return nil, "", errors.New("unexpected limit")
	}
	if set == 2 {
		return []domain.OutletSummary{{Outlet: "CNBC", Count: 1, AvgSentiment: -0.4}}, s.comparison.Query2, nil
	}
	return []domain.OutletSummary{
		{Outlet: "Reuters", Count: 3, AvgSentiment: 0.25},
		{Outlet: "Bloomberg", Count: 1, AvgSentiment: -0.1},
	}, s.comparison.Query1, nil
}

func TestDashboardReplyUsage(t *testing.T) {
	if got := DashboardReply(context.Background(), stubReader{}, "", nil); got != "Usage: /dashboard <id>" {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestDashboardReplyNotFound(t *testing.T) {
	got := DashboardReply(context.Background(), stubReader{err: service.ErrNotFound}, "", []string{"abc"})
	if got != "Dashboard abc not found" {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestDashboardReplySummary(t *testing.T) {
	reader := stubReader{comparison: &domain.Comparison{
		ID:        "abc",
		Query1:    "apple",
		Query2:    "samsung",
		Articles1: make([]domain.Article, 4),
		Articles2: make([]domain.Article, 1),
	}}

	got := DashboardReply(context.Background(), reader, "https://news.example/", []string{"abc"})

	for _, want := range []string{
		`Media Analysis: "apple" vs "samsung"`,
		"apple: 4 articles",
		"Positive 2 (50%), Neutral 1 (25%), Negative 1 (25%)",
		"Top outlets: Reuters (3, avg 0.25), Bloomberg (1, avg -0.10)",
		"samsung: 1 articles",
		"CNBC (1, avg -0.40)",
		"https://news.example/dashboards/abc",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("reply missing %q:\n%s", want, got)
		}
	}
}

func TestDashboardReplySingleQuery(t *testing.T) {
	reader := stubReader{comparison: &domain.Comparison{ID: "abc", Query1: "apple", Articles1: make([]domain.Article, 4)}}

	got := DashboardReply(context.Background(), reader, "https://news.example", []string{"abc"})
	if strings.Contains(got, " vs ") || strings.Contains(got, "CNBC") {
		t.Fatalf("single query reply should not mention a second batch:\n%s", got)
	}
}

func TestDashboardReplyBucketError(t *testing.T) {
	reader := stubReader{comparison: &domain.Comparison{ID: "abc", Query1: "apple"}, bucketErr: errors.New("boom")}

	got := DashboardReply(context.Background(), reader, "", []string{"abc"})
	if !strings.HasPrefix(got, "Error summarising dashboard abc") {
		t.Fatalf("unexpected reply: %q", got)
	}
}
