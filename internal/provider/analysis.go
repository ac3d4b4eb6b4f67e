package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newslens/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const analysisPath = "/v1/analyze"

// AnalysisProvider fetches scored articles and their aggregate analysis for one
// query and date range from the upstream analysis service.
type AnalysisProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewAnalysisProvider creates a provider limited to perMinute upstream calls.
func NewAnalysisProvider(tracer trace.Tracer, baseURL string, perMinute int) *AnalysisProvider {
	return &AnalysisProvider{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: PerMinute(perMinute),
	}
}

type analyzeResponse struct {
	Articles []domain.Article `json:"articles"`
	Analysis domain.Analysis  `json:"analysis"`
}

// Analyze returns the articles for query published between from and to
// (YYYY-MM-DD, inclusive) together with the upstream analysis of them.
func (p *AnalysisProvider) Analyze(ctx context.Context, query, from, to string) ([]domain.Article, domain.Analysis, error) {
	ctx, span := p.tracer.Start(ctx, "analysis.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from)
	params.Set("to", to)

	body, err := p.doRequest(ctx, p.baseURL+analysisPath+"?"+params.Encode())
	if err != nil {
		return nil, domain.Analysis{}, fmt.Errorf("analyze %q: %w", query, err)
	}

	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.Analysis{}, fmt.Errorf("decode analysis for %q: %w", query, err)
	}
	if resp.Articles == nil {
		resp.Articles = []domain.Article{}
	}
	if resp.Analysis.TotalArticles == 0 {
		resp.Analysis.TotalArticles = len(resp.Articles)
	}
	return resp.Articles, resp.Analysis, nil
}

func (p *AnalysisProvider) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("analysis service error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}
