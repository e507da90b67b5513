package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/roadmapper/pkg/application"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive terminal board",
	Long: `Browse and edit the roadmap in the terminal.

Keys:
  left/right, h/l   select lane
  up/down, j/k      select task
  [ ]               move the selected task to the previous/next lane
  a                 add a task to the selected lane
  s                 suggest a task (the selected task is used as context)
  q                 quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}
		if skipRun("ROADMAPPER_SKIP_BOARD_RUN") {
			return nil
		}
		p := tea.NewProgram(newBoardModel(cmd.Context(), services.Board), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("board run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(boardCmd)
}

const laneWidth = 28

// Styles
var (
	laneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(laneWidth).
			Padding(0, 1)

	activeLaneStyle = laneStyle.
			BorderForeground(lipgloss.Color("#7D56F4"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	selectedTaskStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	freshTaskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noticeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// laneColors gives each lane a stable accent in terminals that cannot render
// the CSS colors used by the web board.
var laneColors = []lipgloss.Color{"205", "208", "45", "141", "220"}

// boardService is what the terminal board needs from the application layer.
type boardService interface {
	Lanes() []board.Lane
	MoveTask(taskID, fromLaneID, toLaneID string) error
	AddTask(laneID, content string) (board.Task, error)
	Suggest(ctx context.Context, currentTask string) (*application.SuggestResult, error)
}

type suggestDoneMsg struct {
	result *application.SuggestResult
	err    error
}

type boardModel struct {
	ctx        context.Context
	svc        boardService
	lanes      []board.Lane
	lane       int
	task       int
	adding     bool
	input      textinput.Model
	suggesting bool
	fresh      string
	notice     string
	err        error
}

func newBoardModel(ctx context.Context, svc boardService) boardModel {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Placeholder = "Task description"
	ti.CharLimit = 280
	ti.Width = laneWidth * 2

	return boardModel{
		ctx:   ctx,
		svc:   svc,
		lanes: svc.Lanes(),
		input: ti,
	}
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestDoneMsg:
		m.suggesting = false
		if msg.err != nil {
			m.err = msg.err
			m.notice = ""
			return m, nil
		}
		m.refresh()
		m.fresh = msg.result.Task.ID
		m.err = nil
		m.notice = fmt.Sprintf("Suggested %q for %s", msg.result.Task.Content, msg.result.Lane.Title)
		m.selectTask(msg.result.Lane.ID, msg.result.Task.ID)
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m boardModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case tea.KeyEnter:
		content := m.input.Value()
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		if strings.TrimSpace(content) == "" {
			return m, nil
		}
		laneID := m.lanes[m.lane].ID
		task, err := m.svc.AddTask(laneID, content)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.refresh()
		m.fresh = task.ID
		m.err = nil
		m.notice = fmt.Sprintf("Added %q", task.Content)
		m.selectTask(laneID, task.ID)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m boardModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.lanes) == 0 {
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.lane > 0 {
			m.lane--
			m.clampTask()
		}
	case "right", "l":
		if m.lane < len(m.lanes)-1 {
			m.lane++
			m.clampTask()
		}
	case "up", "k":
		if m.task > 0 {
			m.task--
		}
	case "down", "j":
		if m.task < len(m.lanes[m.lane].Tasks)-1 {
			m.task++
		}
	case "[":
		m.moveSelected(m.lane - 1)
	case "]":
		m.moveSelected(m.lane + 1)
	case "a":
		m.adding = true
		m.notice = ""
		return m, m.input.Focus()
	case "s":
		if m.suggesting {
			return m, nil
		}
		m.suggesting = true
		m.notice = "Suggesting..."
		m.err = nil
		return m, m.suggestCmd(m.selectedContent())
	}
	return m, nil
}

func (m boardModel) suggestCmd(current string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		res, err := svc.Suggest(ctx, current)
		return suggestDoneMsg{result: res, err: err}
	}
}

func (m *boardModel) moveSelected(target int) {
	if target < 0 || target >= len(m.lanes) {
		return
	}
	src := m.lanes[m.lane]
	if m.task >= len(src.Tasks) {
		return
	}
	task := src.Tasks[m.task]
	dst := m.lanes[target]
	if err := m.svc.MoveTask(task.ID, src.ID, dst.ID); err != nil {
		m.err = err
		return
	}
	m.refresh()
	m.err = nil
	m.notice = fmt.Sprintf("Moved %q to %s", task.Content, dst.Title)
	m.selectTask(dst.ID, task.ID)
}

func (m *boardModel) refresh() {
	m.lanes = m.svc.Lanes()
	if m.lane >= len(m.lanes) {
		m.lane = 0
	}
	m.clampTask()
}

func (m *boardModel) clampTask() {
	if len(m.lanes) == 0 {
		m.task = 0
		return
	}
	n := len(m.lanes[m.lane].Tasks)
	if m.task >= n {
		m.task = n - 1
	}
	if m.task < 0 {
		m.task = 0
	}
}

func (m *boardModel) selectTask(laneID, taskID string) {
	for i, l := range m.lanes {
		if l.ID != laneID {
			continue
		}
		m.lane = i
		for j, t := range l.Tasks {
			if t.ID == taskID {
				m.task = j
				return
			}
		}
	}
	m.clampTask()
}

func (m boardModel) selectedContent() string {
	if len(m.lanes) == 0 {
		return ""
	}
	tasks := m.lanes[m.lane].Tasks
	if m.task < len(tasks) {
		return tasks[m.task].Content
	}
	return ""
}

func (m boardModel) View() string {
	header := headerStyle.Render("Roadmap")

	columns := make([]string, 0, len(m.lanes))
	for i, l := range m.lanes {
		columns = append(columns, m.renderLane(i, l))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if len(m.lanes) == 0 {
		body = mutedStyle.Render("No lanes configured.")
	}

	status := ""
	switch {
	case m.err != nil:
		status = errorStyle.Render(describeError(m.err))
	case m.notice != "":
		status = noticeStyle.Render(m.notice)
	}

	footer := "[←/→] Lane  [↑/↓] Task  [ / ] Move  [a] Add  [s] Suggest  [q] Quit"
	if m.adding && len(m.lanes) > 0 {
		footer = fmt.Sprintf("Add to %s: %s  [enter] Save  [esc] Cancel", m.lanes[m.lane].Title, m.input.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		status,
		mutedStyle.Render(footer),
	) + "\n"
}

func (m boardModel) renderLane(i int, l board.Lane) string {
	style := laneStyle
	if i == m.lane {
		style = activeLaneStyle
	}
	accent := lipgloss.NewStyle().Bold(true).Foreground(laneColors[i%len(laneColors)])

	var b strings.Builder
	b.WriteString(accent.Render(l.Title))
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" %d", len(l.Tasks))))
	b.WriteString("\n")
	if len(l.Tasks) == 0 {
		b.WriteString(mutedStyle.Render("(empty)"))
	}
	for j, t := range l.Tasks {
		line := "• " + t.Content
		switch {
		case i == m.lane && j == m.task:
			line = selectedTaskStyle.Render("> " + t.Content)
		case t.ID == m.fresh:
			line = freshTaskStyle.Render(line)
		}
		b.WriteString(line)
		if j < len(l.Tasks)-1 {
			b.WriteString("\n")
		}
	}
	return style.Render(b.String())
}

func describeError(err error) string {
	var cliErr *CLIError
	if errors.As(MapError(err), &cliErr) {
		if cliErr.Hint != "" {
			return cliErr.Message + " (" + cliErr.Hint + ")"
		}
		return cliErr.Message
	}
	return err.Error()
}
