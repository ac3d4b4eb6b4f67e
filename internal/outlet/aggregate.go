// Package outlet groups article batches by publishing outlet.
package outlet

import (
	"sort"

	"newslens/internal/domain"
)

// DashboardLimit is how many outlets the sentiment-by-outlet chart shows.
const DashboardLimit = 15

// AggregateByOutlet groups articles by exact source name and returns one summary
// per outlet, ordered by article count descending. Outlets with equal counts keep
// the order in which they first appear in articles.
func AggregateByOutlet(articles []domain.Article) []domain.OutletSummary {
	type group struct {
		count int
		total float64
	}

	order := make([]string, 0)
	groups := make(map[string]*group)
	for _, a := range articles {
		name := a.Source.Name
		g, ok := groups[name]
		if !ok {
			g = &group{}
			groups[name] = g
			order = append(order, name)
		}
		g.count++
		g.total += a.Sentiment
	}

	out := make([]domain.OutletSummary, 0, len(order))
	for _, name := range order {
		g := groups[name]
		out = append(out, domain.OutletSummary{
			Outlet:       name,
			Count:        g.count,
			AvgSentiment: g.total / float64(g.count),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Top returns at most n summaries from the front of s.
func Top(s []domain.OutletSummary, n int) []domain.OutletSummary {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
