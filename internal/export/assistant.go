// Package export formats dashboards for the clipboard.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"newslens/internal/domain"
)

const (
	topSourcesInPayload = 5
	topTopicsInPayload  = 10
	sampleArticles      = 5
)

type fullData struct {
	Query1    string           `json:"query1"`
	Query2    string           `json:"query2"`
	Analysis1 domain.Analysis  `json:"analysis1"`
	Analysis2 *domain.Analysis `json:"analysis2"`
	Articles1 []domain.Article `json:"articles1"`
	Articles2 []domain.Article `json:"articles2"`
}

// AssistantPayload builds the text block pasted into an analysis assistant:
// queries, date range, coverage metrics, top sources, top topics, sample
// articles and the full JSON data, in that order.
func AssistantPayload(c domain.Comparison) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Media Analysis for \"%s\"", c.Query1)
	if c.Query2 != "" {
		fmt.Fprintf(&b, " vs \"%s\"", c.Query2)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Date Range: %s to %s\n\n", c.Analysis1.DateRange.Start, c.Analysis1.DateRange.End)

	b.WriteString("## Coverage Metrics\n\n")
	fmt.Fprintf(&b, "%s: %d articles, Avg. Sentiment: %.2f\n", c.Query1, c.Analysis1.TotalArticles, c.Analysis1.AvgSentiment)
	if c.Analysis2 != nil {
		fmt.Fprintf(&b, "%s: %d articles, Avg. Sentiment: %.2f\n", c.Query2, c.Analysis2.TotalArticles, c.Analysis2.AvgSentiment)
	}
	b.WriteString("\n")

	b.WriteString("## Top Sources\n\n")
	for i, s := range c.Analysis1.Sources {
		if i >= topSourcesInPayload {
			break
		}
		fmt.Fprintf(&b, "- %s: %d articles\n", s.Name, s.Count)
	}
	b.WriteString("\n")

	b.WriteString("## Top Topics\n\n")
	for i, t := range c.Analysis1.Topics {
		if i >= topTopicsInPayload {
			break
		}
		fmt.Fprintf(&b, "- %s: %d mentions\n", t.Topic, t.Count)
	}
	b.WriteString("\n")

	b.WriteString("## Sample Articles\n\n")
	for i, a := range c.Articles1 {
		if i >= sampleArticles {
			break
		}
		fmt.Fprintf(&b, "- \"%s\" (%s, %s)\n", a.Title, a.Source.Name, a.PublishedDate())
		fmt.Fprintf(&b, "  Sentiment: %.2f, URL: %s\n\n", a.Sentiment, a.URL)
	}

	data, err := marshalIndent(fullData{
		Query1:    c.Query1,
		Query2:    c.Query2,
		Analysis1: c.Analysis1,
		Analysis2: c.Analysis2,
		Articles1: c.Articles1,
		Articles2: c.Articles2,
	})
	if err != nil {
		return "", fmt.Errorf("encode full data: %w", err)
	}

	b.WriteString("## Full JSON Data\n\n")
	b.WriteString("```json\n")
	b.Write(data)
	b.WriteString("\n```\n")

	return b.String(), nil
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ShareLink is the public URL of a stored dashboard.
func ShareLink(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/dashboards/" + url.PathEscape(id)
}
