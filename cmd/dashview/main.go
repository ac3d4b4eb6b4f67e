// Command dashview opens the terminal dashboard for a comparison saved as JSON,
// e.g. the body of GET /api/dashboards/{id}.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"newslens/internal/clipboard"
	"newslens/internal/config"
	"newslens/internal/dashboard"
	"newslens/internal/domain"
	"newslens/internal/export"
	"newslens/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

const usage = "usage: dashview <comparison.json>"

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	readFileFunc   = os.ReadFile
	runProgramFunc = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
	fatalf = log.Fatalf
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	if len(os.Args) < 2 {
		fatalf(usage)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, err := newModel(ctx, cfg, os.Args[1])
	if err != nil {
		fatalf("%v", err)
		return
	}
	if err := runProgramFunc(model); err != nil {
		fatalf("dashview: %v", err)
	}
}

func newModel(ctx context.Context, cfg *config.Config, path string) (tui.Model, error) {
	c, err := loadComparison(path)
	if err != nil {
		return tui.Model{}, err
	}
	if clipboard.Unsupported() {
		log.Println("Warning: no system clipboard found, copy and share will fail")
	}

	shareURL := ""
	if c.ID != "" {
		shareURL = export.ShareLink(cfg.PublicBaseURL, c.ID)
	}
	d := dashboard.New(c, cfg.DashboardOptions())
	return tui.New(ctx, d, clipboard.Local{}, shareURL, cfg.AssistantChatURL), nil
}

func loadComparison(path string) (domain.Comparison, error) {
	data, err := readFileFunc(path)
	if err != nil {
		return domain.Comparison{}, fmt.Errorf("read %s: %w", path, err)
	}
	var c domain.Comparison
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Comparison{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.Query1 == "" {
		return domain.Comparison{}, errors.New("comparison has no query1")
	}
	return c, nil
}
