package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"newslens/internal/cache"
	"newslens/internal/dashboard"
	"newslens/internal/domain"
	"newslens/internal/narrative"
	"newslens/internal/outlet"
	"newslens/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotFound   = errors.New("dashboard not found")
	ErrInvalidSet = errors.New("article set must be 1, or 2 when the dashboard has a second query")
	ErrUpstream   = errors.New("analysis service unavailable")

	ErrAlreadyExists = errors.New("dashboard already exists")
)

const DefaultCacheTTL = time.Hour

type DashboardStore interface {
	Create(ctx context.Context, c *domain.Comparison) error
	Get(ctx context.Context, id string) (*domain.Comparison, error)
	ListRecent(ctx context.Context, limit int) ([]domain.DashboardSummary, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Analyzer fetches one query's articles and analysis from the upstream service.
type Analyzer interface {
	Analyze(ctx context.Context, query, from, to string) ([]domain.Article, domain.Analysis, error)
}

type Narrator interface {
	Generate(ctx context.Context, req narrative.Request) (string, error)
}

// DashboardService stores comparisons in Postgres with a Redis read-through cache
// and answers the per-batch sentiment questions the surfaces ask.
type DashboardService struct {
	tracer   trace.Tracer
	store    DashboardStore
	redis    RedisClient
	analyzer Analyzer
	narrator Narrator
	opts     dashboard.Options
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

// NewDashboardService wires the service. store, analyzer and narrator may be nil:
// without a store dashboards live in the cache only, without an analyzer search
// is unavailable and without a narrator no narrative is written.
func NewDashboardService(
	tracer trace.Tracer,
	store DashboardStore,
	redisClient RedisClient,
	analyzer Analyzer,
	narrator Narrator,
	opts dashboard.Options,
	ttl time.Duration,
) *DashboardService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &DashboardService{
		tracer:   tracer,
		store:    store,
		redis:    redisClient,
		analyzer: analyzer,
		narrator: narrator,
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *DashboardService) Options() dashboard.Options {
	return s.opts
}

// Create stores a precomputed comparison and returns it with id and timestamp set.
// A stored comparison is never replaced: reusing an id fails with ErrAlreadyExists.
func (s *DashboardService) Create(ctx context.Context, c domain.Comparison) (*domain.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.create")
	defer span.End()

	c.Query1 = strings.TrimSpace(c.Query1)
	c.Query2 = strings.TrimSpace(c.Query2)
	if c.Query1 == "" {
		return nil, &ValidationError{Problems: []string{"query1 is required"}}
	}
	if c.Query2 == "" && (len(c.Articles2) > 0 || c.Analysis2 != nil) {
		return nil, &ValidationError{Problems: []string{"query2 is required when a second batch is given"}}
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	if c.Articles1 == nil {
		c.Articles1 = []domain.Article{}
	}
	span.SetAttributes(attribute.String("dashboard.id", c.ID))

	if s.store == nil {
		if err := s.addCache(ctx, &c); err != nil {
			return nil, err
		}
		return &c, nil
	}

	if err := s.store.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, c.ID)
		}
		return nil, fmt.Errorf("store dashboard %s: %w", c.ID, err)
	}
	if err := s.setCache(ctx, &c); err != nil {
		log.Printf("redis cache write error for dashboard %s: %v", c.ID, err)
	}
	return &c, nil
}

// Search validates req, fetches both batches from the analysis service, writes
// the narrative when there are two queries, and stores the result.
func (s *DashboardService) Search(ctx context.Context, req SearchRequest) (*domain.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.search")
	defer span.End()

	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.analyzer == nil {
		return nil, fmt.Errorf("%w: no analysis service configured", ErrUpstream)
	}

	c := domain.Comparison{Query1: req.Query1, Query2: req.Query2}
	var err error
	c.Articles1, c.Analysis1, err = s.analyzer.Analyze(ctx, req.Query1, req.FromDate1, req.ToDate1)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if req.Query2 != "" {
		articles, analysis, err := s.analyzer.Analyze(ctx, req.Query2, req.FromDate2, req.ToDate2)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		c.Articles2, c.Analysis2 = articles, &analysis
	}

	if s.narrator != nil && req.Query2 != "" {
		text, err := s.narrator.Generate(ctx, narrative.Request{
			Query1: req.Query1, From1: req.FromDate1, To1: req.ToDate1,
			Query2: req.Query2, From2: req.FromDate2, To2: req.ToDate2,
			Articles1: c.Articles1, Articles2: c.Articles2,
		})
		if err != nil {
			log.Printf("narrative skipped for %q vs %q: %v", req.Query1, req.Query2, err)
		}
		c.Narrative = text
	}

	return s.Create(ctx, c)
}

// Get returns the comparison with the given id or ErrNotFound.
func (s *DashboardService) Get(ctx context.Context, id string) (*domain.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.get")
	defer span.End()
	span.SetAttributes(attribute.String("dashboard.id", id))

	cached, err := s.getCache(ctx, id)
	if err != nil {
		log.Printf("redis cache read error for dashboard %s: %v", id, err)
	}
	if cached != nil {
		return cached, nil
	}

	if s.store == nil {
		return nil, ErrNotFound
	}
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load dashboard %s: %w", id, err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if err := s.setCache(ctx, c); err != nil {
		log.Printf("redis cache write error for dashboard %s: %v", id, err)
	}
	return c, nil
}

// ListRecent returns the newest stored dashboards. Without a store it is empty.
func (s *DashboardService) ListRecent(ctx context.Context, limit int) ([]domain.DashboardSummary, error) {
	if s.store == nil {
		return []domain.DashboardSummary{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListRecent(ctx, limit)
}

// Prune deletes dashboards older than maxAge and evicts them from the cache.
func (s *DashboardService) Prune(ctx context.Context, maxAge time.Duration) (int, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.prune")
	defer span.End()

	if s.store == nil {
		return 0, nil
	}
	ids, err := s.store.DeleteOlderThan(ctx, s.now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 && s.redis != nil {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = cache.DashboardKey(id)
		}
		if err := s.redis.Del(ctx, keys...).Err(); err != nil {
			log.Printf("redis cache evict error: %v", err)
		}
	}
	span.SetAttributes(attribute.Int("dashboard.pruned", len(ids)))
	return len(ids), nil
}

// Dashboard returns the chart model of a stored comparison.
func (s *DashboardService) Dashboard(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dashboard.New(*c, s.opts), nil
}

// OutletSentiment returns up to limit outlet summaries of one article set,
// busiest first, and the query the set belongs to. limit <= 0 means all.
func (s *DashboardService) OutletSentiment(ctx context.Context, id string, set, limit int) ([]domain.OutletSummary, string, error) {
	articles, query, err := s.articleSet(ctx, id, set)
	if err != nil {
		return nil, "", err
	}
	summaries := outlet.AggregateByOutlet(articles)
	if limit > 0 {
		summaries = outlet.Top(summaries, limit)
	}
	return summaries, query, nil
}

// SentimentBuckets counts one article set per sentiment category.
func (s *DashboardService) SentimentBuckets(ctx context.Context, id string, set int) (domain.BatchBuckets, error) {
	articles, query, err := s.articleSet(ctx, id, set)
	if err != nil {
		return domain.BatchBuckets{}, err
	}
	return domain.BatchBuckets{Query: query, Articles: len(articles), Buckets: s.opts.Buckets.Count(articles)}, nil
}

func (s *DashboardService) articleSet(ctx context.Context, id string, set int) ([]domain.Article, string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	articles, query, ok := c.ArticleSet(set)
	if !ok {
		return nil, "", ErrInvalidSet
	}
	return articles, query, nil
}

func (s *DashboardService) setCache(ctx context.Context, c *domain.Comparison) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cache.DashboardKey(c.ID), data, s.ttl).Err()
}

// addCache is the cache-only write: the key is set only if it is absent.
func (s *DashboardService) addCache(ctx context.Context, c *domain.Comparison) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	added, err := s.redis.SetNX(ctx, cache.DashboardKey(c.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("cache dashboard %s: %w", c.ID, err)
	}
	if !added {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, c.ID)
	}
	return nil
}

func (s *DashboardService) getCache(ctx context.Context, id string) (*domain.Comparison, error) {
	if s.redis == nil {
		return nil, nil
	}
	data, err := s.redis.Get(ctx, cache.DashboardKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c domain.Comparison
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
