// internal/tui/tui.go
// Package tui provides the terminal rendition of the evaluation dashboard.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/evaldash/internal/dataset"
	"github.com/mwiater/evaldash/internal/evaluation"
	"github.com/mwiater/evaldash/internal/view"
)

// Loader supplies the dataset shown by the TUI.
type Loader interface {
	Load(upload *dataset.Upload) (*dataset.Dataset, error)
}

// viewState is the screen currently shown.
type viewState int

const (
	// viewOverview shows the results table.
	viewOverview viewState = iota
	// viewDetail shows the selected record.
	viewDetail
)

const (
	maxColumnWidth = 24
	chromeHeight   = 9
	minTableHeight = 3
)

var (
	headerStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	badgeStyle   = lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Padding(1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	passStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#255C32")).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	failStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#893A42")).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
)

type dataLoadedMsg struct {
	data *dataset.Dataset
}

type dataLoadErr struct {
	error
}

// model is the Bubble Tea model behind the dashboard TUI.
type model struct {
	loader        Loader
	opts          view.Options
	state         viewState
	isLoading     bool
	err           error
	data          *dataset.Dataset
	filter        view.Filter
	dash          view.Dashboard
	table         table.Model
	spinner       spinner.Model
	width, height int
}

func newModel(loader Loader, opts view.Options) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(table.WithFocused(true), table.WithHeight(10))

	return &model{
		loader:    loader,
		opts:      opts,
		state:     viewOverview,
		isLoading: true,
		filter:    view.Filter{Journal: view.AllJournals, Alignment: view.AlignmentAll},
		table:     t,
		spinner:   s,
	}
}

func loadCmd(loader Loader) tea.Cmd {
	return func() tea.Msg {
		data, err := loader.Load(nil)
		if err != nil {
			return dataLoadErr{error: err}
		}
		return dataLoadedMsg{data: data}
	}
}

// Init starts the spinner and the first load.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.loader))
}

// Update handles key presses, resizes and load results.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.isLoading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, loadCmd(m.loader))
		case "esc", "backspace":
			m.state = viewOverview
			return m, nil
		case "j":
			m.filter.Journal = nextOption(m.dash.JournalOptions, m.filter.Journal)
			m.filter.Record = ""
			m.state = viewOverview
			m.rebuild()
			return m, nil
		case "a":
			m.filter.Alignment = m.filter.Alignment.Next()
			m.filter.Record = ""
			m.state = viewOverview
			m.rebuild()
			return m, nil
		case "enter":
			if m.state == viewOverview && m.dash.Ready() {
				if i := m.table.Cursor(); i >= 0 && i < len(m.dash.RecordOptions) {
					m.filter.Record = m.dash.RecordOptions[i]
					m.rebuild()
					m.state = viewDetail
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 2)
		m.table.SetHeight(max(msg.Height-chromeHeight, minTableHeight))
		return m, nil

	case dataLoadedMsg:
		m.isLoading = false
		m.err = nil
		m.data = msg.data
		m.rebuild()
		return m, nil

	case dataLoadErr:
		m.isLoading = false
		m.err = msg.error
		return m, nil

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == viewOverview {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// rebuild derives the dashboard from the loaded data and current filter and
// refreshes the table.
func (m *model) rebuild() {
	if m.data == nil {
		return
	}
	m.dash = view.Build(m.data.Table, m.filter, m.opts)
	m.dash.Source = m.data.Source
	m.filter = m.dash.Filter

	cursor := m.table.Cursor()
	// Rows must be cleared first: the table renders existing rows against the
	// new column count.
	m.table.SetRows(nil)
	m.table.SetColumns(overviewColumns(m.dash.Overview))
	rows := overviewRows(m.dash.Overview)
	m.table.SetRows(rows)
	if cursor < 0 || cursor >= len(rows) {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

func overviewColumns(ov view.Overview) []table.Column {
	cols := make([]table.Column, len(ov.Headers))
	for i, h := range ov.Headers {
		width := lipgloss.Width(h.Label)
		for _, row := range ov.Rows {
			width = max(width, lipgloss.Width(row[i].Text))
		}
		cols[i] = table.Column{Title: h.Label, Width: min(width, maxColumnWidth)}
	}
	return cols
}

func overviewRows(ov view.Overview) []table.Row {
	rows := make([]table.Row, 0, len(ov.Rows))
	for _, cells := range ov.Rows {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c.Text
		}
		rows = append(rows, row)
	}
	return rows
}

func nextOption(options []string, current string) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if strings.EqualFold(o, current) {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// View renders the current screen.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.isLoading {
		return fmt.Sprintf("\n  %s Loading evaluation results...\n", m.spinner.View())
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("%s\n%s", view.ErrorDashboard(m.err).Error, view.ErrorHint))
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch {
	case m.dash.Warning != "":
		b.WriteString(warningStyle.Render(m.dash.Warning))
	case m.state == viewDetail && m.dash.Detail != nil:
		b.WriteString(detailView(m.dash.Detail, m.width))
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(summaryLine(m.dash.Summary))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" j journal | a alignment | enter details | esc back | r reload | q quit"))
	return b.String()
}

func (m *model) headerView() string {
	header := headerStyle.Render(m.dash.Title)
	header += badgeStyle.Render("Journal: " + m.filter.Journal)
	header += badgeStyle.Render("Alignment: " + string(m.filter.Alignment))
	if m.dash.Source != "" {
		header += badgeStyle.Render(m.dash.Source)
	}
	return header
}

func summaryLine(s view.Summary) string {
	parts := []string{
		fmt.Sprintf("Records: %d", s.TotalRecords),
		fmt.Sprintf("Journals: %d", s.UniqueJournals),
		fmt.Sprintf("Evaluation Types: %d", s.EvaluationTypes),
	}
	if s.HasAligned {
		parts = append(parts, fmt.Sprintf("Aligned: %.1f%%", s.AlignedPct))
	}
	if s.HasSuccessRate {
		parts = append(parts, fmt.Sprintf("Avg Success: %.1f%%", s.AverageSuccess))
	}
	return helpStyle.Render(" " + strings.Join(parts, " | "))
}

func renderStatus(text, status string) string {
	switch status {
	case evaluation.StatusPass:
		return passStyle.Render(text)
	case evaluation.StatusFail:
		return failStyle.Render(text)
	default:
		return text
	}
}

func detailView(d *view.Detail, width int) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(label+":"), value)
	}

	b.WriteString(labelStyle.Render("Detailed Results") + "  " + d.Label + "\n\n")
	field("Journal ID", d.JournalID)
	field("Article ID", d.ArticleID)
	field("Title", d.Title)
	field("Timestamp", d.Timestamp)
	field("Evaluations Run", d.EvaluationsRun)
	field("Source File", d.SourceFile)
	field("Aligned", renderStatus(d.Aligned, d.Aligned))
	field("Gold Aligned", renderStatus(d.GoldAligned, d.GoldAligned))
	field("Rationale", "")
	b.WriteString(lipgloss.NewStyle().Width(max(width-4, 20)).PaddingLeft(4).Render(d.Rationale) + "\n")

	b.WriteString("\n" + labelStyle.Render("Evaluation Results") + "\n")
	for _, r := range d.Results {
		fmt.Fprintf(&b, "  %-32s %s\n", r.Evaluation, renderStatus(r.Result, r.Status))
	}
	return b.String()
}

// Run starts the TUI and blocks until the user quits.
func Run(loader Loader, opts view.Options) error {
	p := tea.NewProgram(newModel(loader, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
