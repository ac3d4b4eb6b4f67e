package domain

import (
	"strings"
	"time"
)

// Source identifies the outlet that published an article.
type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Article is a pre-fetched news article with an upstream sentiment score in [-1, 1].
type Article struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Author      string  `json:"author,omitempty"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
	Sentiment   float64 `json:"sentiment"`
	Source      Source  `json:"source"`
}

// PublishedDate returns the calendar part of PublishedAt (everything before "T").
func (a Article) PublishedDate() string {
	date, _, _ := strings.Cut(a.PublishedAt, "T")
	return date
}

type PeakArticle struct {
	Title     string  `json:"title"`
	Source    string  `json:"source"`
	URL       string  `json:"url"`
	Sentiment float64 `json:"sentiment"`
}

type TimelinePoint struct {
	Date        string       `json:"date"`
	Count       int          `json:"count"`
	PeakArticle *PeakArticle `json:"peak_article,omitempty"`
}

type SourceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Analysis is the upstream summary computed for one query's article batch.
type Analysis struct {
	Timeline      []TimelinePoint `json:"timeline"`
	Sources       []SourceCount   `json:"sources"`
	Topics        []TopicCount    `json:"topics"`
	TotalArticles int             `json:"total_articles"`
	DateRange     DateRange       `json:"date_range"`
	AvgSentiment  float64         `json:"avg_sentiment"`
}

// Comparison holds everything a dashboard is rendered from. The second query is optional.
type Comparison struct {
	ID        string    `json:"id"`
	Query1    string    `json:"query1"`
	Query2    string    `json:"query2"`
	Articles1 []Article `json:"articles1"`
	Articles2 []Article `json:"articles2"`
	Analysis1 Analysis  `json:"analysis1"`
	Analysis2 *Analysis `json:"analysis2"`
	Narrative string    `json:"narrative,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasSecondBatch reports whether the comparison carries articles for a second query.
func (c Comparison) HasSecondBatch() bool {
	return len(c.Articles2) > 0
}

// ArticleSet selects one of the two article batches; set is 1 or 2.
func (c Comparison) ArticleSet(set int) ([]Article, string, bool) {
	switch set {
	case 1:
		return c.Articles1, c.Query1, true
	case 2:
		return c.Articles2, c.Query2, c.HasSecondBatch()
	default:
		return nil, "", false
	}
}
