package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/formdrop/formdrop/internal/transport"
	"github.com/formdrop/formdrop/internal/widget"
)

// submissionCompleteMsg carries the raw response payload of a finished upload
type submissionCompleteMsg struct {
	correlationID string
	payload       []byte
}

// submissionFailedMsg carries the terminal error of a failed upload
type submissionFailedMsg struct {
	correlationID string
	err           error
}

// formKeyMap defines key bindings for the form screen
type formKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Pick   key.Binding
	Clear  key.Binding
	Submit key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Submit, k.Quit, k.Help}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Pick, k.Clear},
		{k.Submit, k.Reset, k.Help, k.Quit},
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous slot"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next slot"),
		),
		Pick: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose file"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear slot"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset form"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FormModel is the interactive upload form. It owns a widget.Controller
// and runs it inside the Bubble Tea update loop, which serializes slot
// changes and transport completions onto a single goroutine.
type FormModel struct {
	controller *widget.Controller
	endpoint   string

	picker  filepicker.Model
	spinner spinner.Model
	helpVw  help.Model
	keys    formKeyMap

	width  int
	height int

	cursor   int  // Selected slot
	picking  bool // File picker overlay active
	pickSlot int  // Slot the picker is choosing for

	outcomes chan tea.Msg

	result  *widget.SubmissionResult
	lastErr error

	quitting bool
}

// NewFormModel builds the form for the given configuration. The client's
// completion callbacks are wired to deliver outcomes back into the
// update loop, so callers must not set them.
func NewFormModel(cfg widget.Config, client *transport.Client) (FormModel, error) {
	outcomes := make(chan tea.Msg, 2)
	client.OnComplete = func(correlationID string, payload []byte) {
		outcomes <- submissionCompleteMsg{correlationID: correlationID, payload: payload}
	}
	client.OnFailure = func(correlationID string, err error) {
		outcomes <- submissionFailedMsg{correlationID: correlationID, err: err}
	}

	controller, err := widget.New(cfg, client, nil)
	if err != nil {
		return FormModel{}, err
	}

	picker := filepicker.New()
	if home, err := os.UserHomeDir(); err == nil {
		picker.CurrentDirectory = home
	}
	picker.Height = 12

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	endpoint := cfg.FormAction
	if endpoint == "" {
		endpoint = client.Endpoint
	}

	width, height := GetTerminalSize()

	return FormModel{
		controller: controller,
		endpoint:   endpoint,
		picker:     picker,
		spinner:    sp,
		helpVw:     help.New(),
		keys:       newFormKeyMap(),
		width:      width,
		height:     height,
		outcomes:   outcomes,
	}, nil
}

// Init implements tea.Model
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForOutcome(m.outcomes))
}

// waitForOutcome blocks until the transport reports a terminal outcome
func waitForOutcome(outcomes chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-outcomes
	}
}

// Update implements tea.Model
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.width < MinTerminalWidth {
			m.width = MinTerminalWidth
		}
		if m.width > MaxContentWidth {
			m.width = MaxContentWidth
		}
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submissionCompleteMsg:
		result, err := m.controller.HandleTransportComplete(msg.payload)
		if err != nil {
			m.lastErr = err
		} else {
			m.result = result
			m.lastErr = nil
		}
		return m, waitForOutcome(m.outcomes)

	case submissionFailedMsg:
		m.controller.HandleTransportFailure(msg.err)
		m.lastErr = msg.err
		return m, waitForOutcome(m.outcomes)

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateForm(msg)
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updatePicker routes keys to the file picker overlay
func (m FormModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.picking = false
		action, err := m.controller.SetSlotValue(m.pickSlot, path)
		if err != nil {
			m.lastErr = err
			return m, cmd
		}
		m.lastErr = nil
		m.result = nil
		if action == widget.ActionSubmit {
			return m, tea.Batch(cmd, m.spinner.Tick)
		}
	}
	return m, cmd
}

// updateForm handles keys on the slot list
func (m FormModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVw.ShowAll = !m.helpVw.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.controller.SlotCount()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Pick):
		if m.controller.RequestFileSelect(m.cursor) {
			m.picking = true
			m.pickSlot = m.cursor
			return m, m.picker.Init()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if _, err := m.controller.SetSlotValue(m.cursor, ""); err != nil {
			m.lastErr = err
		} else {
			m.lastErr = nil
			m.result = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if _, err := m.controller.Submit(); err != nil {
			m.lastErr = err
			return m, nil
		}
		m.lastErr = nil
		m.result = nil
		return m, m.spinner.Tick

	case key.Matches(msg, m.keys.Reset):
		if err := m.controller.Reset(); err != nil {
			m.lastErr = err
			return m, nil
		}
		m.cursor = 0
		m.lastErr = nil
		m.result = nil
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m FormModel) View() string {
	if m.quitting {
		return ""
	}

	if m.picking {
		var b strings.Builder
		b.WriteString(HeaderTitleStyle.Render(fmt.Sprintf("Choose a file for slot %d", m.pickSlot+1)))
		b.WriteString("\n\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("esc to cancel"))
		return b.String()
	}

	var b strings.Builder

	b.WriteString(RenderHeader("formdrop", m.endpoint, map[string]string{
		"Files": fmt.Sprintf("%d/%d", m.controller.FilledCount(), m.controller.Config().NumberOfFiles),
	}, m.width))
	b.WriteString("\n\n")

	b.WriteString(m.renderSlots())
	b.WriteString("\n")

	if !m.controller.Enabled() {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(StatusStyle.Render(fmt.Sprintf("Uploading (%s)...", shortID(m.controller.InFlightID()))))
		b.WriteString("\n")
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(NewSuccessResult("Upload accepted", resultDetails(m.result)).SetWidth(m.width).Render())
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(ErrorMessageStyle.Render("  " + FailureMarker + " " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.helpVw.View(m.keys)))
	b.WriteString("\n")

	return b.String()
}

// renderSlots renders the slot list with cursor and fill markers
func (m FormModel) renderSlots() string {
	var lines []string
	for i, value := range m.controller.Values() {
		cursor := " "
		if i == m.cursor {
			cursor = SlotCursorStyle.Render(CursorMarker)
		}

		var marker, label string
		if value != "" {
			marker = SlotFilledStyle.Render(SlotMarkerFilled)
			label = SlotValueStyle.Render(filepath.Base(value))
		} else {
			marker = SlotEmptyStyle.Render(SlotMarkerEmpty)
			label = SlotEmptyStyle.Render("(empty)")
		}

		lines = append(lines, fmt.Sprintf("  %s %s Slot %d  %s", cursor, marker, i+1, label))
	}
	return strings.Join(lines, "\n")
}

// resultDetails flattens a submission result's payload for the result box
func resultDetails(result *widget.SubmissionResult) map[string]string {
	details := map[string]string{
		"Correlation": shortID(result.CorrelationID),
	}
	for key, value := range result.Payload {
		switch v := value.(type) {
		case string:
			details[key] = v
		case float64:
			details[key] = fmt.Sprintf("%g", v)
		case bool:
			details[key] = fmt.Sprintf("%t", v)
		}
	}
	return details
}

// shortID trims a correlation id for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RunForm runs the interactive form and returns the final model state
func RunForm(cfg widget.Config, client *transport.Client) (FormModel, error) {
	model, err := NewFormModel(cfg, client)
	if err != nil {
		return FormModel{}, err
	}

	p := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, err := p.Run()
	if err != nil {
		return FormModel{}, err
	}

	if fm, ok := final.(FormModel); ok {
		return fm, nil
	}
	return model, nil
}

// Result returns the last accepted submission, if any
func (m FormModel) Result() *widget.SubmissionResult {
	return m.result
}

// Err returns the last submission error, if any
func (m FormModel) Err() error {
	return m.lastErr
}
