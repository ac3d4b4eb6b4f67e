package domain

import "testing"

func TestArticlePublishedDate(t *testing.T) {
	cases := map[string]string{
		"2025-03-01T10:20:30Z": "2025-03-01",
		"2025-03-01":           "2025-03-01",
		"":                     "",
	}
	for in, want := range cases {
		a := Article{PublishedAt: in}
		if got := a.PublishedDate(); got != want {
			t.Errorf("PublishedDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestComparisonArticleSet(t *testing.T) {
	c := Comparison{
		Query1:    "apple",
		Query2:    "samsung",
		Articles1: []Article{{Title: "a"}},
	}

	if _, q, ok := c.ArticleSet(1); !ok || q != "apple" {
		t.Fatalf("expected set 1 available, got ok=%v query=%q", ok, q)
	}
	if _, _, ok := c.ArticleSet(2); ok {
		t.Fatal("set 2 should be unavailable without articles")
	}
	if _, _, ok := c.ArticleSet(3); ok {
		t.Fatal("set 3 should never be available")
	}

	c.Articles2 = []Article{{Title: "b"}}
	if arts, q, ok := c.ArticleSet(2); !ok || q != "samsung" || len(arts) != 1 {
		t.Fatalf("unexpected set 2: ok=%v query=%q len=%d", ok, q, len(arts))
	}
}

func TestSentimentBucketsTotal(t *testing.T) {
	b := SentimentBuckets{Positive: 2, Neutral: 3, Negative: 1}
	if b.Total() != 6 {
		t.Fatalf("expected total 6, got %d", b.Total())
	}
}
