// Package render provides the dashboard render targets: an HTML page, PNG
// images and terminal text.
package render

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"newslens/internal/chart"
	"newslens/internal/dashboard"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Layout is the container order of the dashboard page.
var Layout = []string{
	chart.ScatterID,
	chart.TimelineID,
	chart.SourcesID,
	chart.PieID1,
	chart.PieID2,
	chart.OutletID1,
	chart.OutletID2,
}

// Page holds everything on the dashboard page except the charts.
type Page struct {
	ID           string
	Query1       string
	Query2       string
	Narrative    string
	ShareURL     string
	ExportURL    string
	AssistantURL string
}

// HTMLPage collects mounted chart specs and writes them as a standalone page.
type HTMLPage struct {
	page       Page
	containers map[string]bool

	mu     sync.Mutex
	charts []chart.Spec
}

// NewHTMLPage returns a page with a container for every id in containers, or
// for the full Layout when none are given.
func NewHTMLPage(page Page, containers ...string) *HTMLPage {
	if len(containers) == 0 {
		containers = Layout
	}
	set := make(map[string]bool, len(containers))
	for _, id := range containers {
		set[id] = true
	}
	return &HTMLPage{page: page, containers: set}
}

func (p *HTMLPage) HasContainer(id string) bool {
	return p.containers[id]
}

func (p *HTMLPage) Mount(_ context.Context, spec chart.Spec) error {
	if !p.containers[spec.ID] {
		return fmt.Errorf("no container %q on page", spec.ID)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.charts = append(p.charts, spec)
	return nil
}

type slot struct {
	ID    string
	Title string
	Wide  bool
}

type pageData struct {
	Page
	Slots  []slot
	Charts []chart.Spec
	Notice struct {
		Assistant string
		Link      string
		Millis    int64
		CopyAlert string
		LinkAlert string
	}
}

// Execute writes the page with every mounted chart.
func (p *HTMLPage) Execute(w io.Writer) error {
	p.mu.Lock()
	charts := append([]chart.Spec(nil), p.charts...)
	p.mu.Unlock()

	mounted := make(map[string]chart.Spec, len(charts))
	for _, c := range charts {
		mounted[c.ID] = c
	}

	data := pageData{Page: p.page, Charts: charts}
	for _, id := range Layout {
		c, ok := mounted[id]
		if !ok {
			continue
		}
		data.Slots = append(data.Slots, slot{
			ID:    id,
			Title: c.Title,
			Wide:  id == chart.ScatterID || id == chart.TimelineID || id == chart.SourcesID,
		})
	}
	data.Notice.Assistant = dashboard.NoticeAssistantCopied
	data.Notice.Link = dashboard.NoticeLinkCopied
	data.Notice.Millis = dashboard.NoticeDuration.Milliseconds()
	data.Notice.CopyAlert = dashboard.AlertCopyFailed
	data.Notice.LinkAlert = dashboard.AlertShareFailed

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("execute dashboard template: %w", err)
	}
	return nil
}
