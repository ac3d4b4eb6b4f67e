package chart

import (
	"fmt"

	"newslens/internal/domain"
	"newslens/internal/outlet"
	"newslens/internal/sentiment"
)

// Scatter plots each article's sentiment against its publication time, one trace per query.
func Scatter(query1 string, articles1 []domain.Article, query2 string, articles2 []domain.Article, tone sentiment.ToneClassifier) Spec {
	spec := Spec{
		ID:         ScatterID,
		Kind:       KindScatter,
		Title:      "Sentiment Over Time",
		ValueRange: &Range{Min: -1, Max: 1},
		ValueTitle: "Sentiment Score",
		Datasets:   []Dataset{scatterTrace(query1, articles1, primaryLine, tone)},
	}
	if len(articles2) > 0 {
		spec.Datasets = append(spec.Datasets, scatterTrace(query2, articles2, secondaryLine, tone))
	}
	return spec
}

func scatterTrace(query string, articles []domain.Article, color string, tone sentiment.ToneClassifier) Dataset {
	ds := Dataset{
		Label:  query,
		Color:  color,
		Points: make([]Point, 0, len(articles)),
		Colors: make([]string, 0, len(articles)),
		Hover:  make([]string, 0, len(articles)),
		Links:  make([]string, 0, len(articles)),
	}
	for _, a := range articles {
		ds.Points = append(ds.Points, Point{X: a.PublishedAt, Y: a.Sentiment})
		ds.Colors = append(ds.Colors, tone.Color(a.Sentiment))
		ds.Hover = append(ds.Hover, fmt.Sprintf("%s\nSource: %s", a.Title, a.Source.Name))
		ds.Links = append(ds.Links, a.URL)
	}
	return ds
}

// Timeline draws article counts per day. The second dataset is added only when
// the second analysis has a non-empty timeline.
func Timeline(query1 string, analysis1 domain.Analysis, query2 string, analysis2 *domain.Analysis) Spec {
	spec := Spec{
		ID:         TimelineID,
		Kind:       KindLine,
		Title:      "Publication Timeline",
		ValueTitle: "Number of Articles",
		Datasets:   []Dataset{timelineSeries(query1, analysis1.Timeline, primaryLine)},
	}
	if analysis2 != nil && len(analysis2.Timeline) > 0 {
		spec.Datasets = append(spec.Datasets, timelineSeries(query2, analysis2.Timeline, secondaryLine))
	}
	return spec
}

func timelineSeries(query string, timeline []domain.TimelinePoint, color string) Dataset {
	ds := Dataset{Label: query, Color: color, Points: make([]Point, 0, len(timeline))}
	for _, p := range timeline {
		ds.Points = append(ds.Points, Point{X: p.Date, Y: float64(p.Count)})
	}
	return ds
}

// Sources compares the top sources of each query. With two queries the labels
// are the union of both top lists, first query first, and missing counts are 0.
func Sources(query1 string, analysis1 domain.Analysis, query2 string, analysis2 *domain.Analysis) Spec {
	top1 := topSources(analysis1.Sources)

	spec := Spec{
		ID:         SourcesID,
		Kind:       KindBar,
		Title:      "Top News Sources",
		Horizontal: true,
		ValueTitle: "Number of Articles",
	}

	if analysis2 == nil || len(analysis2.Sources) == 0 {
		ds := Dataset{Label: query1, Color: primaryFill}
		for _, s := range top1 {
			spec.Labels = append(spec.Labels, s.Name)
			ds.Values = append(ds.Values, float64(s.Count))
		}
		spec.Datasets = []Dataset{ds}
		return spec
	}

	top2 := topSources(analysis2.Sources)
	seen := make(map[string]bool, len(top1)+len(top2))
	for _, list := range [][]domain.SourceCount{top1, top2} {
		for _, s := range list {
			if !seen[s.Name] {
				seen[s.Name] = true
				spec.Labels = append(spec.Labels, s.Name)
			}
		}
	}

	spec.Datasets = []Dataset{
		{Label: query1, Color: primaryFill, Values: countsFor(spec.Labels, top1)},
		{Label: query2, Color: secondaryFill, Values: countsFor(spec.Labels, top2)},
	}
	return spec
}

func topSources(sources []domain.SourceCount) []domain.SourceCount {
	if len(sources) > MaxSourcesPerQuery {
		return sources[:MaxSourcesPerQuery]
	}
	return sources
}

func countsFor(labels []string, sources []domain.SourceCount) []float64 {
	out := make([]float64, len(labels))
	for i, label := range labels {
		for _, s := range sources {
			if s.Name == label {
				out[i] = float64(s.Count)
				break
			}
		}
	}
	return out
}

// SentimentPie shows the positive/neutral/negative split of one batch.
func SentimentPie(id, query string, articles []domain.Article, buckets sentiment.BucketClassifier) Spec {
	counts := buckets.Count(articles)
	values := []int{counts.Positive, counts.Neutral, counts.Negative}
	shares := sentiment.Shares(domain.BatchBuckets{Query: query, Articles: len(articles), Buckets: counts})

	spec := Spec{
		ID:    id,
		Kind:  KindPie,
		Title: fmt.Sprintf("Sentiment Distribution: %s", query),
	}
	ds := Dataset{Label: query}
	for i, c := range sentiment.Categories {
		spec.Labels = append(spec.Labels, c.Label())
		ds.Values = append(ds.Values, float64(values[i]))
		ds.Colors = append(ds.Colors, sentiment.Color(c, 0.7))
		spec.Percentages = append(spec.Percentages, shares[string(c)])
	}
	spec.Datasets = []Dataset{ds}
	return spec
}

// OutletSentiment bars the average sentiment of the busiest outlets of one batch.
func OutletSentiment(id, query string, articles []domain.Article, tone sentiment.ToneClassifier) Spec {
	top := outlet.Top(outlet.AggregateByOutlet(articles), MaxOutlets)

	spec := Spec{
		ID:         id,
		Kind:       KindBar,
		Title:      fmt.Sprintf("Sentiment by Outlet: %s", query),
		Horizontal: true,
		ValueRange: &Range{Min: -1, Max: 1},
		ValueTitle: "Average Sentiment",
	}
	ds := Dataset{Label: "Average Sentiment"}
	for _, s := range top {
		spec.Labels = append(spec.Labels, fmt.Sprintf("%s (%d)", s.Outlet, s.Count))
		ds.Values = append(ds.Values, s.AvgSentiment)
		ds.Colors = append(ds.Colors, tone.Color(s.AvgSentiment))
		ds.Hover = append(ds.Hover, tone.Describe(s.AvgSentiment))
	}
	spec.Datasets = []Dataset{ds}
	return spec
}
