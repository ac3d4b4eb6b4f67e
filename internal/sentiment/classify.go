// Package sentiment turns article sentiment scores into the discrete categories
// the dashboard counts and colours.
package sentiment

import (
	"fmt"
	"math"

	"newslens/internal/domain"
)

// Category is a discrete sentiment class. The empty Category means unclassified.
type Category string

const (
	Positive Category = "positive"
	Neutral  Category = "neutral"
	Negative Category = "negative"
)

// Categories lists the categories in display order.
var Categories = []Category{Positive, Neutral, Negative}

// Label is the display name of c.
func (c Category) Label() string {
	switch c {
	case Positive:
		return "Positive"
	case Neutral:
		return "Neutral"
	case Negative:
		return "Negative"
	default:
		return ""
	}
}

const (
	DefaultBucketBound = 0.2
	DefaultToneBound   = 0.33
)

// BucketClassifier assigns discrete count buckets. Values within [-Bound, Bound]
// are neutral, so both boundaries count as neutral.
type BucketClassifier struct {
	Bound float64
}

// DefaultBuckets returns the ±0.2 count buckets.
func DefaultBuckets() BucketClassifier {
	return BucketClassifier{Bound: DefaultBucketBound}
}

// Classify returns "" for NaN, which matches no bucket.
func (b BucketClassifier) Classify(score float64) Category {
	switch {
	case score > b.Bound:
		return Positive
	case score >= -b.Bound && score <= b.Bound:
		return Neutral
	case score < -b.Bound:
		return Negative
	default:
		return ""
	}
}

// Count tallies articles per bucket. Unclassified scores are not counted.
func (b BucketClassifier) Count(articles []domain.Article) domain.SentimentBuckets {
	var out domain.SentimentBuckets
	for _, a := range articles {
		switch b.Classify(a.Sentiment) {
		case Positive:
			out.Positive++
		case Neutral:
			out.Neutral++
		case Negative:
			out.Negative++
		}
	}
	return out
}

// BucketSentiment counts articles per category using the default ±0.2 buckets.
func BucketSentiment(articles []domain.Article) domain.SentimentBuckets {
	return DefaultBuckets().Count(articles)
}

// ToneClassifier maps a continuous or averaged score to a colour/label category.
// Unlike BucketClassifier the neutral band is half open: [Low, High).
// ToneClassifier picks the colour class of a score on charts. It is separate from
// the count buckets: below Low is negative, below High is neutral, anything else
// is positive.
type ToneClassifier struct {
	Low  float64
	High float64
}

// DefaultTone returns the ±0.33 tone band.
func DefaultTone() ToneClassifier {
	return ToneClassifier{Low: -DefaultToneBound, High: DefaultToneBound}
}

// Classify uses plain comparisons, so NaN falls through to Positive.
func (t ToneClassifier) Classify(score float64) Category {
	if score < t.Low {
		return Negative
	}
	if score < t.High {
		return Neutral
	}
	return Positive
}

// Color returns the fill colour for score at the standard 0.7 alpha.
func (t ToneClassifier) Color(score float64) string {
	return Color(t.Classify(score), 0.7)
}

// Describe formats a score the way outlet tooltips show it, e.g. "Sentiment: 0.41 (Positive)".
func (t ToneClassifier) Describe(score float64) string {
	return fmt.Sprintf("Sentiment: %.2f (%s)", score, t.Classify(score).Label())
}

// Shares returns each category's rounded percentage of the batch size, the
// same divisor the sentiment pie uses.
func Shares(b domain.BatchBuckets) map[string]int {
	return map[string]int{
		string(Positive): Percent(b.Buckets.Positive, b.Articles),
		string(Neutral):  Percent(b.Buckets.Neutral, b.Articles),
		string(Negative): Percent(b.Buckets.Negative, b.Articles),
	}
}

// Percent is the rounded share of value in total, 0 when total is 0.
func Percent(value, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(value) / float64(total) * 100))
}
