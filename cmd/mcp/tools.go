package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"newslens/internal/chart"
	"newslens/internal/domain"
	"newslens/internal/sentiment"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SentimentSource answers the per-batch questions the tools expose.
type SentimentSource interface {
	OutletSentiment(ctx context.Context, id string, set, limit int) ([]domain.OutletSummary, string, error)
	SentimentBuckets(ctx context.Context, id string, set int) (domain.BatchBuckets, error)
}

type OutletSentimentInput struct {
	DashboardID string `json:"dashboard_id" jsonschema:"id of a stored dashboard"`
	Set         int    `json:"set,omitempty" jsonschema:"article set, 1 (default) or 2"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of outlets, default 15"`
}

type OutletEntry struct {
	Outlet       string   `json:"outlet"`
	Count        int      `json:"count"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	Tone         string   `json:"tone"`
}

type OutletSentimentOutput struct {
	Query   string        `json:"query"`
	Outlets []OutletEntry `json:"outlets"`
}

type SentimentBucketsInput struct {
	DashboardID string `json:"dashboard_id" jsonschema:"id of a stored dashboard"`
	Set         int    `json:"set,omitempty" jsonschema:"article set, 1 (default) or 2"`
}

type SentimentBucketsOutput struct {
	Query       string         `json:"query"`
	Positive    int            `json:"positive"`
	Neutral     int            `json:"neutral"`
	Negative    int            `json:"negative"`
	Total       int            `json:"total"`
	Percentages map[string]int `json:"percentages"`
}

type tools struct {
	source SentimentSource
	tone   sentiment.ToneClassifier
}

func newServer(source SentimentSource, tone sentiment.ToneClassifier) *mcp.Server {
	t := &tools{source: source, tone: tone}
	server := mcp.NewServer(&mcp.Implementation{Name: "newslens", Version: "1.0.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "outlet_sentiment",
		Description: "Article count and mean sentiment per news outlet for one article set of a stored dashboard, busiest outlets first.",
	}, t.outletSentiment)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "sentiment_buckets",
		Description: "Positive, neutral and negative article counts with percentages for one article set of a stored dashboard.",
	}, t.sentimentBuckets)
	return server
}

func normalizeSet(set int) (int, error) {
	if set == 0 {
		return 1, nil
	}
	if set != 1 && set != 2 {
		return 0, errors.New("set must be 1 or 2")
	}
	return set, nil
}

func (t *tools) outletSentiment(ctx context.Context, _ *mcp.CallToolRequest, in OutletSentimentInput) (*mcp.CallToolResult, OutletSentimentOutput, error) {
	id := strings.TrimSpace(in.DashboardID)
	if id == "" {
		return nil, OutletSentimentOutput{}, errors.New("dashboard_id is required")
	}
	set, err := normalizeSet(in.Set)
	if err != nil {
		return nil, OutletSentimentOutput{}, err
	}
	limit := in.Limit
	if limit <= 0 {
		limit = chart.MaxOutlets
	}

	summaries, query, err := t.source.OutletSentiment(ctx, id, set, limit)
	if err != nil {
		return nil, OutletSentimentOutput{}, fmt.Errorf("outlet sentiment for %s: %w", id, err)
	}

	out := OutletSentimentOutput{Query: query, Outlets: make([]OutletEntry, len(summaries))}
	for i, s := range summaries {
		entry := OutletEntry{Outlet: s.Outlet, Count: s.Count, Tone: t.tone.Classify(s.AvgSentiment).Label()}
		if !math.IsNaN(s.AvgSentiment) {
			avg := s.AvgSentiment
			entry.AvgSentiment = &avg
		}
		out.Outlets[i] = entry
	}
	return nil, out, nil
}

func (t *tools) sentimentBuckets(ctx context.Context, _ *mcp.CallToolRequest, in SentimentBucketsInput) (*mcp.CallToolResult, SentimentBucketsOutput, error) {
	id := strings.TrimSpace(in.DashboardID)
	if id == "" {
		return nil, SentimentBucketsOutput{}, errors.New("dashboard_id is required")
	}
	set, err := normalizeSet(in.Set)
	if err != nil {
		return nil, SentimentBucketsOutput{}, err
	}

	b, err := t.source.SentimentBuckets(ctx, id, set)
	if err != nil {
		return nil, SentimentBucketsOutput{}, fmt.Errorf("sentiment buckets for %s: %w", id, err)
	}
	return nil, SentimentBucketsOutput{
		Query:       b.Query,
		Positive:    b.Buckets.Positive,
		Neutral:     b.Buckets.Neutral,
		Negative:    b.Buckets.Negative,
		Total:       b.Articles,
		Percentages: sentiment.Shares(b),
	}, nil
}
