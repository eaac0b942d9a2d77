// Package tui provides the interactive terminal interface for
// searching the document index.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	scoreStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the Bubble Tea model for the search interface.
type Model struct {
	service  driving.RetrievalService
	input    textinput.Model
	viewport viewport.Model
	results  []domain.CandidateResult
	status   string
	cursor   int
	rerank   bool
	ready    bool
}

// New creates a new TUI model. rerank sets the initial re-ranking
// toggle state.
func New(service driving.RetrievalService, rerank bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		input:    ti,
		viewport: vp,
		rerank:   rerank,
		status:   "Ready. Type to search, ctrl+r toggles re-ranking.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + spacer + query box + status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.rerank = !m.rerank
			m.status = fmt.Sprintf("Re-ranking %s.", onOff(m.rerank))
			return m, nil
		default:
		}

		switch msg.String() {
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m = m.search(q)
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// search runs a query and updates results, cursor and status.
func (m Model) search(query string) Model {
	opts := domain.SearchOptions{UseReranking: m.rerank}
	results, err := m.service.Search(context.Background(), query, opts)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else if len(results) == 0 {
		m.status = fmt.Sprintf("No matches for %q", query)
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d results for %q (re-ranking %s)", len(results), query, onOff(m.rerank))
		m.results = results
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderCurrentResult())
	return m
}

// View renders the layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Recall")
	hint := dimStyle.Render("  up/down to browse, esc to quit")
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + hint + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}

	r := m.results[m.cursor]
	score := fmt.Sprintf("similarity=%.3f", r.SimilarityScore)
	if r.RerankScore != nil {
		score += fmt.Sprintf("  rerank=%.3f", *r.RerankScore)
	}

	title := fmt.Sprintf("Result %d/%d  %s", m.cursor+1, len(m.results), scoreStyle.Render(score))

	origin := r.Metadata[domain.MetaSource]
	if page := r.Metadata[domain.MetaPage]; page != "" {
		origin += " p." + page
	}

	return title + "\n" + dimStyle.Render(origin) + "\n\n" + r.Content
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
