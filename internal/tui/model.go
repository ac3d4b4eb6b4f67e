// Package tui is the terminal dashboard: one chart at a time in a scrollable
// viewport with the copy and share actions bound to keys.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"newslens/internal/chart"
	"newslens/internal/dashboard"
	"newslens/internal/render"
)

const chromeHeight = 4

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("#005e30")).Padding(0, 1)
	tabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00a651")).Underline(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noticeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#28a745")).Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("#dc3545")).Padding(0, 1)
)

type copyDoneMsg struct {
	result dashboard.Result
}

type clearNoticeMsg struct {
	id int
}

// Model is the bubbletea model of one dashboard.
type Model struct {
	ctx      context.Context
	dash     *dashboard.Dashboard
	actions  *dashboard.Actions
	clip     dashboard.Clipboard
	shareURL string

	charts []chart.Spec
	blocks []string
	index  int

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	notice   string
	noticeID int
	alert    string
	openURL  string
}

// New builds the model. clip receives the copy and share text; shareURL is the
// public link of the dashboard.
func New(ctx context.Context, d *dashboard.Dashboard, clip dashboard.Clipboard, shareURL, assistantURL string) Model {
	return Model{
		ctx:      ctx,
		dash:     d,
		actions:  dashboard.NewActions(d, assistantURL),
		clip:     clip,
		shareURL: shareURL,
		charts:   d.Charts(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize lays the model out for a terminal of the given size before the
// first WindowSizeMsg arrives.
func (m *Model) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.resize(width, height)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.blocks = renderBlocks(m.ctx, m.dash, width)
	m.showChart()
}

func renderBlocks(ctx context.Context, d *dashboard.Dashboard, width int) []string {
	term := render.NewTerminal(width)
	if _, err := d.Render(ctx, term); err != nil {
		return []string{err.Error()}
	}
	return term.Blocks()
}

func (m *Model) showChart() {
	if !m.ready {
		return
	}
	if len(m.blocks) == 0 {
		m.viewport.SetContent("No charts for this comparison.")
		return
	}
	m.viewport.SetContent(m.blocks[m.index])
	m.viewport.GotoTop()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		m.alert = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "tab":
			if len(m.charts) > 0 {
				m.index = (m.index + 1) % len(m.charts)
				m.showChart()
			}
			return m, nil
		case "left", "h", "shift+tab":
			if len(m.charts) > 0 {
				m.index = (m.index + len(m.charts) - 1) % len(m.charts)
				m.showChart()
			}
			return m, nil
		case "c":
			return m, m.copyCmd(func(done func(dashboard.Result)) error {
				return m.actions.CopyForAssistant(m.ctx, m.clip, done)
			})
		case "s":
			return m, m.copyCmd(func(done func(dashboard.Result)) error {
				return m.actions.Share(m.ctx, m.clip, m.shareURL, done)
			})
		}

	case copyDoneMsg:
		if msg.result.Alert != "" {
			m.alert = msg.result.Alert
			return m, nil
		}
		m.notice = msg.result.Notice
		m.openURL = msg.result.OpenURL
		m.noticeID++
		id := m.noticeID
		return m, tea.Tick(dashboard.NoticeDuration, func(time.Time) tea.Msg {
			return clearNoticeMsg{id: id}
		})

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
			m.openURL = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// copyCmd starts a clipboard action and waits for its completion callback.
// A press while a copy is outstanding does nothing.
func (m Model) copyCmd(start func(done func(dashboard.Result)) error) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan dashboard.Result, 1)
		err := start(func(r dashboard.Result) { ch <- r })
		if errors.Is(err, dashboard.ErrCopyInProgress) {
			return nil
		}
		if err != nil {
			return copyDoneMsg{result: dashboard.Result{Alert: dashboard.AlertCopyFailed, Err: err}}
		}
		select {
		case r := <-ch:
			return copyDoneMsg{result: r}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading dashboard..."
	}

	c := m.dash.Comparison()
	title := "Media Analysis: " + c.Query1
	if c.Query2 != "" {
		title += " vs " + c.Query2
	}

	var b strings.Builder
	b.WriteString(headerStyle.Width(m.width).Render(title))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.alert != "":
		b.WriteString(alertStyle.Render(m.alert))
	case m.notice != "":
		line := noticeStyle.Render(m.notice)
		if m.openURL != "" {
			line += helpStyle.Render("  open " + m.openURL)
		}
		b.WriteString(line)
	default:
		b.WriteString(helpStyle.Render("←/→ chart · c copy for analysis assistant · s share · q quit"))
	}
	return b.String()
}

func (m Model) tabs() string {
	if len(m.charts) == 0 {
		return tabStyle.Render("no charts")
	}
	parts := make([]string, len(m.charts))
	for i := range m.charts {
		label := fmt.Sprintf("%d", i+1)
		if i == m.index {
			parts[i] = activeTab.Render(label + " " + m.charts[i].Title)
			continue
		}
		parts[i] = tabStyle.Render(label)
	}
	return strings.Join(parts, " ")
}
