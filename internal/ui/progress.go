// Package ui renders live attempt progress for the run command.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"diagen/internal/pipeline"
)

type attemptItem struct {
	status string
	stage  pipeline.Stage
}

type progressModel struct {
	title       string
	events      <-chan pipeline.Event
	spinner     spinner.Model
	prog        progress.Model
	attempts    []attemptItem
	maxAttempts int
	width       int
	done        bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model rendering one attempt row
// per retry, fed from the coordinator's event channel. The channel
// closing ends the program.
func NewProgressModel(title string, maxAttempts int, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &progressModel{
		title:       title,
		events:      events,
		spinner:     sp,
		prog:        prog,
		maxAttempts: maxAttempts,
		width:       80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")

	for i, item := range m.attempts {
		status := fmt.Sprintf("%10s", item.status)
		b.WriteString(fmt.Sprintf("  %s attempt %d/%d\n",
			styleStatus(item.status).Render(status), i+1, m.maxAttempts))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	for len(m.attempts) < ev.Attempt {
		m.attempts = append(m.attempts, attemptItem{status: "queued"})
	}
	if ev.Attempt < 1 {
		return nil
	}
	item := &m.attempts[ev.Attempt-1]
	item.stage = ev.Stage
	switch ev.Status {
	case pipeline.StatusError:
		item.status = "error"
	case pipeline.StatusDone:
		if ev.Stage == pipeline.StageRender {
			item.status = "done"
		} else {
			item.status = stageLabel(ev.Stage)
		}
	case pipeline.StatusWorking:
		item.status = stageLabel(ev.Stage)
	}

	// Overall progress blends attempt position and stage depth.
	frac := (float64(ev.Attempt-1) + progressFromStage(ev.Stage)) / float64(m.maxAttempts)
	if item.status == "done" {
		frac = 1.0
	}
	return m.prog.SetPercent(frac)
}

func progressFromStage(stage pipeline.Stage) float64 {
	switch stage {
	case pipeline.StageDraft:
		return 0.1
	case pipeline.StageValidate:
		return 0.3
	case pipeline.StageCorrect:
		return 0.5
	case pipeline.StageExecute:
		return 0.7
	case pipeline.StageRender:
		return 0.9
	default:
		return 0.0
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageDraft:
		return "drafting"
	case pipeline.StageValidate:
		return "validating"
	case pipeline.StageCorrect:
		return "correcting"
	case pipeline.StageExecute:
		return "executing"
	case pipeline.StageRender:
		return "rendering"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "queued", "":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
