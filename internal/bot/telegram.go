package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"newslens/internal/domain"
	"newslens/internal/export"
	"newslens/internal/sentiment"
	"newslens/internal/service"

	tele "gopkg.in/telebot.v3"
)

const (
	replyTimeout = 10 * time.Second
	topOutlets   = 3
)

// DashboardReader is what the bot asks of the dashboard service.
type DashboardReader interface {
	Get(ctx context.Context, id string) (*domain.Comparison, error)
	SentimentBuckets(ctx context.Context, id string, set int) (domain.BatchBuckets, error)
	OutletSentiment(ctx context.Context, id string, set, limit int) ([]domain.OutletSummary, string, error)
}

var newBotFunc = tele.NewBot

// StartTelegramBot starts a long-polling bot answering /ping and /dashboard.
// It returns without starting anything when TELEGRAM_BOT_TOKEN is unset.
func StartTelegramBot(dashboards DashboardReader, publicBaseURL string) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := newBotFunc(pref)
	if err != nil {
		log.Printf("failed to create Telegram bot: %v", err)
		return
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/dashboard", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		return c.Send(DashboardReply(ctx, dashboards, publicBaseURL, c.Args()))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

// DashboardReply answers "/dashboard <id>" with bucket counts, the busiest
// outlets of each batch and the share link.
func DashboardReply(ctx context.Context, dashboards DashboardReader, publicBaseURL string, args []string) string {
	if len(args) == 0 {
		return "Usage: /dashboard <id>"
	}
	id := strings.TrimSpace(args[0])

	c, err := dashboards.Get(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		return fmt.Sprintf("Dashboard %s not found", id)
	}
	if err != nil {
		return fmt.Sprintf("Error loading dashboard %s: %v", id, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Media Analysis: %q", c.Query1)
	if c.Query2 != "" {
		fmt.Fprintf(&b, " vs %q", c.Query2)
	}
	b.WriteString("\n")

	sets := []int{1}
	if c.HasSecondBatch() {
		sets = append(sets, 2)
	}
	for _, set := range sets {
		if err := writeSet(ctx, &b, dashboards, id, set); err != nil {
			return fmt.Sprintf("Error summarising dashboard %s: %v", id, err)
		}
	}

	fmt.Fprintf(&b, "\n%s", export.ShareLink(publicBaseURL, id))
	return b.String()
}

func writeSet(ctx context.Context, b *strings.Builder, dashboards DashboardReader, id string, set int) error {
	batch, err := dashboards.SentimentBuckets(ctx, id, set)
	if err != nil {
		return err
	}
	outlets, _, err := dashboards.OutletSentiment(ctx, id, set, topOutlets)
	if err != nil {
		return err
	}

	shares := sentiment.Shares(batch)
	fmt.Fprintf(b, "\n%s: %d articles\n", batch.Query, batch.Articles)
	fmt.Fprintf(b, "%s %d (%d%%), %s %d (%d%%), %s %d (%d%%)\n",
		sentiment.Positive.Label(), batch.Buckets.Positive, shares[string(sentiment.Positive)],
		sentiment.Neutral.Label(), batch.Buckets.Neutral, shares[string(sentiment.Neutral)],
		sentiment.Negative.Label(), batch.Buckets.Negative, shares[string(sentiment.Negative)],
	)
	if len(outlets) == 0 {
		return nil
	}
	parts := make([]string, len(outlets))
	for i, o := range outlets {
		avg := "n/a"
		if !math.IsNaN(o.AvgSentiment) {
			avg = fmt.Sprintf("%.2f", o.AvgSentiment)
		}
		parts[i] = fmt.Sprintf("%s (%d, avg %s)", o.Outlet, o.Count, avg)
	}
	fmt.Fprintf(b, "Top outlets: %s\n", strings.Join(parts, ", "))
	return nil
}
