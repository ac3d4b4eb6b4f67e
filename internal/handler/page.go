package handler

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strings"

	"newslens/internal/export"
	"newslens/internal/render"
	"newslens/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetChartImage godoc
// @Summary      Chart image
// @Description  Renders one chart of the dashboard as PNG. The chart id may carry a .png suffix.
// @Tags         charts
// @Produce      png
// @Param        id     path  string  true  "Dashboard id"
// @Param        chart  path  string  true  "Chart container id, e.g. sentimentPieChart1.png"
// @Success      200  {file}    binary
// @Failure      404  {object}  map[string]string
// @Router       /api/dashboards/{id}/charts/{chart} [get]
func (h *Handler) GetChartImage(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart-image")
	defer span.End()

	chartID := strings.TrimSuffix(c.Param("chart"), ".png")
	span.SetAttributes(attribute.String("dashboard.id", c.Param("id")), attribute.String("chart", chartID))

	d, err := h.dashboards.Dashboard(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	spec, ok := d.Chart(chartID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "chart " + chartID + " does not apply to this dashboard"})
		return
	}

	img, err := h.png.Encode(spec)
	if errors.Is(err, render.ErrEmptyChart) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "image/png", img)
}

// DashboardPage godoc
// @Summary      Dashboard page
// @Description  Serves the interactive comparison dashboard
// @Tags         dashboards
// @Produce      html
// @Param        id  path  string  true  "Dashboard id"
// @Success      200  {string}  string
// @Failure      404  {string}  string
// @Router       /dashboards/{id} [get]
func (h *Handler) DashboardPage(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.dashboard-page")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("dashboard.id", id))

	d, err := h.dashboards.Dashboard(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		c.String(http.StatusNotFound, "Dashboard not found")
		return
	}
	if err != nil {
		span.RecordError(err)
		c.String(http.StatusInternalServerError, "Could not load dashboard")
		return
	}

	comparison := d.Comparison()
	page := render.NewHTMLPage(render.Page{
		ID:           id,
		Query1:       comparison.Query1,
		Query2:       comparison.Query2,
		Narrative:    comparison.Narrative,
		ShareURL:     export.ShareLink(h.baseURL, id),
		ExportURL:    "/api/dashboards/" + id + "/export",
		AssistantURL: h.assistantURL,
	})
	mounted, err := d.Render(ctx, page)
	if err != nil {
		log.Printf("dashboard %s rendered with errors: %v", id, err)
	}
	span.SetAttributes(attribute.Int("charts", mounted))

	var buf bytes.Buffer
	if err := page.Execute(&buf); err != nil {
		span.RecordError(err)
		c.String(http.StatusInternalServerError, "Could not render dashboard")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
