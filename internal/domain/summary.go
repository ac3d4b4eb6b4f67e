package domain

import "time"

// OutletSummary is the per-outlet article count and mean sentiment of one batch.
type OutletSummary struct {
	Outlet       string  `json:"outlet"`
	Count        int     `json:"count"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// SentimentBuckets counts articles per discrete sentiment category.
type SentimentBuckets struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (b SentimentBuckets) Total() int {
	return b.Positive + b.Neutral + b.Negative
}

// BatchBuckets is the bucket count of one article batch together with the
// batch size. Articles with a non-finite score are in Articles but no bucket.
type BatchBuckets struct {
	Query    string           `json:"query"`
	Articles int              `json:"articles"`
	Buckets  SentimentBuckets `json:"buckets"`
}

// DashboardSummary is the listing view of a stored comparison.
type DashboardSummary struct {
	ID        string    `json:"id"`
	Query1    string    `json:"query1"`
	Query2    string    `json:"query2,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
