package handler

import (
	"context"
	"errors"
	"net/http"

	"newslens/internal/dashboard"
	"newslens/internal/domain"
	"newslens/internal/render"
	"newslens/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// Dashboards is the part of service.DashboardService the HTTP API serves.
type Dashboards interface {
	Create(ctx context.Context, c domain.Comparison) (*domain.Comparison, error)
	Search(ctx context.Context, req service.SearchRequest) (*domain.Comparison, error)
	Get(ctx context.Context, id string) (*domain.Comparison, error)
	ListRecent(ctx context.Context, limit int) ([]domain.DashboardSummary, error)
	Dashboard(ctx context.Context, id string) (*dashboard.Dashboard, error)
	OutletSentiment(ctx context.Context, id string, set, limit int) ([]domain.OutletSummary, string, error)
	SentimentBuckets(ctx context.Context, id string, set int) (domain.BatchBuckets, error)
}

type Handler struct {
	tracer       trace.Tracer
	dashboards   Dashboards
	png          *render.PNG
	baseURL      string
	assistantURL string
}

func New(tracer trace.Tracer, dashboards Dashboards, publicBaseURL, assistantURL string) *Handler {
	return &Handler{
		tracer:       tracer,
		dashboards:   dashboards,
		png:          render.NewPNG(),
		baseURL:      publicBaseURL,
		assistantURL: assistantURL,
	}
}

// RegisterRoutes mounts the API and the dashboard page. Ingesting precomputed
// comparisons requires apiKey when it is set.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)
	r.GET("/dashboards/:id", h.DashboardPage)

	api := r.Group("/api/dashboards")
	api.GET("", h.ListDashboards)
	api.POST("", APIKeyAuth(apiKey), h.CreateDashboard)
	api.POST("/search", h.SearchDashboards)
	api.GET("/:id", h.GetDashboard)
	api.GET("/:id/charts", h.GetCharts)
	api.GET("/:id/charts/:chart", h.GetChartImage)
	api.GET("/:id/outlets", h.GetOutletSentiment)
	api.GET("/:id/buckets", h.GetSentimentBuckets)
	api.GET("/:id/export", h.ExportDashboard)
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "problems": verr.Problems})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidSet):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
