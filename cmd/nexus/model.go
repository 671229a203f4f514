package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	session "github.com/nexusai/nexus-core/core"
	"github.com/nexusai/nexus-core/core/status"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	systemStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	interimStyle   = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("250"))
	stateStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle      = lipgloss.NewStyle().Faint(true)

	badgeConnected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Padding(0, 1)
	badgeDisconnected = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("240")).
				Padding(0, 1)
)

type stateChangedMsg struct{ state session.State }

type transcriptUpdatedMsg struct{}

type interimTranscriptMsg struct{ transcript string }

type clarificationMsg struct {
	question string
	options  []string
}

type clarificationClearedMsg struct{}

type handoffMsg struct {
	url     string
	message string
}

type serviceStatusMsg struct{ statuses map[string]bool }

type roomCreatedMsg struct {
	roomName string
	url      string
}

type roomFailedMsg struct{ message string }

type model struct {
	controller *session.Controller
	openURL    func(url string) error
	createRoom tea.Cmd

	input textinput.Model

	width  int
	height int

	state    session.State
	interim  string
	notice   string
	statuses map[string]bool

	clarificationOptions []string
}

func newModel(controller *session.Controller, openURL func(url string) error, createRoom tea.Cmd) model {
	input := textinput.New()
	input.Placeholder = "Type a command or press ctrl+l to talk..."
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	statuses := map[string]bool{}
	for _, service := range status.DefaultServices() {
		statuses[service] = false
	}

	return model{
		controller: controller,
		openURL:    openURL,
		createRoom: createRoom,
		input:      input,
		state:      session.StateIdle,
		statuses:   statuses,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			if err := m.controller.BeginCapture(); err != nil {
				m.interim = ""
			}
			return m, nil
		case "esc":
			m.controller.Cancel()
			m.interim = ""
			return m, nil
		case "ctrl+r":
			if m.createRoom != nil {
				return m, m.createRoom
			}
			return m, nil
		case "enter":
			return m.submitInput()
		}

	case stateChangedMsg:
		m.state = msg.state
		if msg.state != session.StateListening {
			m.interim = ""
		}
		return m, nil

	case interimTranscriptMsg:
		m.interim = msg.transcript
		return m, nil

	case transcriptUpdatedMsg:
		return m, nil

	case clarificationMsg:
		m.clarificationOptions = msg.options
		return m, nil

	case clarificationClearedMsg:
		m.clarificationOptions = nil
		return m, nil

	case handoffMsg:
		if err := m.openURL(msg.url); err != nil {
			m.notice = fmt.Sprintf("Couldn't open your browser. Visit %s manually.", msg.url)
		} else {
			m.notice = ""
		}
		return m, nil

	case serviceStatusMsg:
		m.statuses = msg.statuses
		return m, nil

	case roomCreatedMsg:
		m.notice = fmt.Sprintf("Voice room %s ready: %s", msg.roomName, msg.url)
		return m, nil

	case roomFailedMsg:
		m.notice = msg.message
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if text == "" {
		return m, nil
	}

	// While a clarification is pending, a bare option number (or the option
	// text itself) answers it instead of starting a fresh command.
	if len(m.clarificationOptions) > 0 {
		if option, ok := m.matchClarificationOption(text); ok {
			m.clarificationOptions = nil
			if err := m.controller.SelectClarificationOption(option); err == nil {
				return m, nil
			}
		}
	}

	m.controller.SubmitText(text)
	return m, nil
}

func (m model) matchClarificationOption(text string) (string, bool) {
	if index, err := strconv.Atoi(text); err == nil {
		if index >= 1 && index <= len(m.clarificationOptions) {
			return m.clarificationOptions[index-1], true
		}
		return "", false
	}

	for _, option := range m.clarificationOptions {
		if strings.EqualFold(option, text) {
			return option, true
		}
	}
	return "", false
}

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("NEXUS"))
	b.WriteString("  ")
	b.WriteString(m.renderBadges())
	b.WriteString("\n\n")

	for _, entry := range m.controller.Transcript() {
		b.WriteString(renderEntry(entry, width))
		b.WriteString("\n")
	}

	if len(m.clarificationOptions) > 0 {
		for i, option := range m.clarificationOptions {
			b.WriteString(optionStyle.Render(fmt.Sprintf("  [%d] %s", i+1, option)))
			b.WriteString("\n")
		}
	}

	if m.interim != "" {
		b.WriteString(interimStyle.Render(wordwrap.String("… "+m.interim, width)))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(systemStyle.Render(wordwrap.String(m.notice, width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(stateStyle.Render(strings.ToUpper(m.state.String())))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+l talk · esc cancel · ctrl+r voice room · ctrl+c quit"))

	return b.String()
}

func renderEntry(entry session.Entry, width int) string {
	switch entry.Role {
	case session.RoleUser:
		return userStyle.Render("you ") + wordwrap.String(entry.Text, width-6)
	case session.RoleSystem:
		return systemStyle.Render(wordwrap.String(entry.Text, width))
	default:
		return assistantStyle.Render(wordwrap.String(entry.Text, width))
	}
}

func (m model) renderBadges() string {
	services := make([]string, 0, len(m.statuses))
	for service := range m.statuses {
		services = append(services, service)
	}
	sort.Strings(services)

	badges := make([]string, 0, len(services))
	for _, service := range services {
		if m.statuses[service] {
			badges = append(badges, badgeConnected.Render(service))
		} else {
			badges = append(badges, badgeDisconnected.Render(service))
		}
	}
	return strings.Join(badges, " ")
}
