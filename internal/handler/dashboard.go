package handler

import (
	"math"
	"net/http"
	"strconv"

	"newslens/internal/chart"
	"newslens/internal/domain"
	"newslens/internal/export"
	"newslens/internal/sentiment"
	"newslens/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type createdResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type outletItem struct {
	Outlet       string   `json:"outlet"`
	Count        int      `json:"count"`
	AvgSentiment *float64 `json:"avg_sentiment"`
}

type outletResponse struct {
	ID      string       `json:"id"`
	Set     int          `json:"set"`
	Query   string       `json:"query"`
	Outlets []outletItem `json:"outlets"`
}

type bucketResponse struct {
	ID          string         `json:"id"`
	Set         int            `json:"set"`
	Query       string         `json:"query"`
	Positive    int            `json:"positive"`
	Neutral     int            `json:"neutral"`
	Negative    int            `json:"negative"`
	Total       int            `json:"total"`
	Percentages map[string]int `json:"percentages"`
}

// CreateDashboard godoc
// @Summary      Store a precomputed comparison
// @Description  Ingests both article batches with their analyses and returns the dashboard id and link
// @Tags         dashboards
// @Accept       json
// @Produce      json
// @Param        X-API-Key   header  string             false  "API key when the server requires one"
// @Param        comparison  body    domain.Comparison  true   "Comparison to store"
// @Success      201  {object}  createdResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/dashboards [post]
func (h *Handler) CreateDashboard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.create-dashboard")
	defer span.End()

	var in domain.Comparison
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comparison body: " + err.Error()})
		return
	}

	stored, err := h.dashboards.Create(ctx, in)
	if err != nil {
		span.RecordError(err)
		writeError(c, err)
		return
	}
	span.SetAttributes(attribute.String("dashboard.id", stored.ID))
	c.JSON(http.StatusCreated, createdResponse{ID: stored.ID, URL: export.ShareLink(h.baseURL, stored.ID)})
}

// SearchDashboards godoc
// @Summary      Search and compare two queries
// @Description  Validates the search, fetches both article batches from the analysis service and stores the comparison
// @Tags         dashboards
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        search  body  service.SearchRequest  true  "Queries and date ranges"
// @Success      201  {object}  createdResponse
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/dashboards/search [post]
func (h *Handler) SearchDashboards(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search-dashboards")
	defer span.End()

	var req service.SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search: " + err.Error()})
		return
	}
	span.SetAttributes(attribute.String("query1", req.Query1), attribute.String("query2", req.Query2))

	stored, err := h.dashboards.Search(ctx, req)
	if err != nil {
		span.RecordError(err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: stored.ID, URL: export.ShareLink(h.baseURL, stored.ID)})
}

// ListDashboards godoc
// @Summary      List recent dashboards
// @Tags         dashboards
// @Produce      json
// @Param        limit  query  int  false  "Number of dashboards (default 20, max 100)"  default(20)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/dashboards [get]
func (h *Handler) ListDashboards(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-dashboards")
	defer span.End()

	limit := 20
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	list, err := h.dashboards.ListRecent(ctx, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboards": list})
}

// GetDashboard godoc
// @Summary      Get a stored comparison
// @Tags         dashboards
// @Produce      json
// @Param        id  path  string  true  "Dashboard id"
// @Success      200  {object}  domain.Comparison
// @Failure      404  {object}  map[string]string
// @Router       /api/dashboards/{id} [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-dashboard")
	defer span.End()
	span.SetAttributes(attribute.String("dashboard.id", c.Param("id")))

	comparison, err := h.dashboards.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// GetCharts godoc
// @Summary      Get chart specs
// @Description  Returns the specs of every chart that applies to the dashboard, in page order
// @Tags         charts
// @Produce      json
// @Param        id  path  string  true  "Dashboard id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/dashboards/{id}/charts [get]
func (h *Handler) GetCharts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-charts")
	defer span.End()

	d, err := h.dashboards.Dashboard(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	specs := d.Charts()
	if specs == nil {
		specs = []chart.Spec{}
	}
	span.SetAttributes(attribute.Int("charts", len(specs)))
	c.JSON(http.StatusOK, gin.H{"charts": specs})
}

// GetOutletSentiment godoc
// @Summary      Per-outlet sentiment
// @Description  Returns article count and mean sentiment per outlet, busiest first
// @Tags         sentiment
// @Produce      json
// @Param        id     path   string  true   "Dashboard id"
// @Param        set    query  int     false  "Article set, 1 or 2"  default(1)
// @Param        limit  query  int     false  "Number of outlets (0 for all)"  default(15)
// @Success      200  {object}  outletResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/dashboards/{id}/outlets [get]
func (h *Handler) GetOutletSentiment(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-outlet-sentiment")
	defer span.End()

	set, ok := articleSet(c)
	if !ok {
		return
	}
	limit := chart.MaxOutlets
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	summaries, query, err := h.dashboards.OutletSentiment(ctx, c.Param("id"), set, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]outletItem, len(summaries))
	for i, s := range summaries {
		items[i] = outletItem{Outlet: s.Outlet, Count: s.Count}
		if !math.IsNaN(s.AvgSentiment) {
			avg := s.AvgSentiment
			items[i].AvgSentiment = &avg
		}
	}
	c.JSON(http.StatusOK, outletResponse{ID: c.Param("id"), Set: set, Query: query, Outlets: items})
}

// GetSentimentBuckets godoc
// @Summary      Sentiment bucket counts
// @Description  Counts one article set per sentiment category with whole-number percentages
// @Tags         sentiment
// @Produce      json
// @Param        id   path   string  true   "Dashboard id"
// @Param        set  query  int     false  "Article set, 1 or 2"  default(1)
// @Success      200  {object}  bucketResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/dashboards/{id}/buckets [get]
func (h *Handler) GetSentimentBuckets(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-sentiment-buckets")
	defer span.End()

	set, ok := articleSet(c)
	if !ok {
		return
	}
	b, err := h.dashboards.SentimentBuckets(ctx, c.Param("id"), set)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bucketResponse{
		ID:          c.Param("id"),
		Set:         set,
		Query:       b.Query,
		Positive:    b.Buckets.Positive,
		Neutral:     b.Buckets.Neutral,
		Negative:    b.Buckets.Negative,
		Total:       b.Articles,
		Percentages: sentiment.Shares(b),
	})
}

// ExportDashboard godoc
// @Summary      Analysis-assistant export
// @Description  Returns the plain-text payload the copy action puts on the clipboard
// @Tags         dashboards
// @Produce      plain
// @Param        id  path  string  true  "Dashboard id"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]string
// @Router       /api/dashboards/{id}/export [get]
func (h *Handler) ExportDashboard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.export-dashboard")
	defer span.End()

	comparison, err := h.dashboards.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	payload, err := export.AssistantPayload(*comparison)
	if err != nil {
		span.RecordError(err)
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(payload))
}

// articleSet reads the set query parameter, writing a 400 when it is invalid.
func articleSet(c *gin.Context) (int, bool) {
	set, err := strconv.Atoi(c.DefaultQuery("set", "1"))
	if err != nil || (set != 1 && set != 2) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "set must be 1 or 2"})
		return 0, false
	}
	return set, true
}
