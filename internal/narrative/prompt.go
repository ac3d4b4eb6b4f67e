package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"newslens/internal/domain"
)

const systemPrompt = `You are a media analyst. You compare how news outlets covered two topics over a period.
Write plain prose with short headed sections. Be specific and cite outlets or headlines where useful.
Do not invent articles that are not in the data.`

type articleDigest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}

func digest(articles []domain.Article) []articleDigest {
	out := make([]articleDigest, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleDigest{Title: a.Title, Description: a.Description, PublishedAt: a.PublishedAt})
	}
	return out
}

// BuildPrompt asks for coverage differences, trends and business implications of
// the two batches. Only titles, descriptions and dates are sent.
func BuildPrompt(req Request) (string, error) {
	first, err := json.Marshal(digest(req.Articles1))
	if err != nil {
		return "", fmt.Errorf("encode %s articles: %w", req.Query1, err)
	}
	second, err := json.Marshal(digest(req.Articles2))
	if err != nil {
		return "", fmt.Errorf("encode %s articles: %w", req.Query2, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Compare news coverage between %s (%s to %s) and %s (%s to %s).\n",
		req.Query1, req.From1, req.To1, req.Query2, req.From2, req.To2)
	b.WriteString("Key points:\n")
	b.WriteString("1. Major coverage differences\n")
	b.WriteString("2. Key trends\n")
	b.WriteString("3. Business implications\n\n")
	fmt.Fprintf(&b, "%s articles: %s\n", req.Query1, first)
	fmt.Fprintf(&b, "%s articles: %s\n", req.Query2, second)
	return b.String(), nil
}
