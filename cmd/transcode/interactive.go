package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/serialization/encoding"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// anyType keeps the parsed input shape and only runs the encode step.
const anyType = "(any)"

var builtinTypes = []string{
	anyType,
	"bool", "int", "float", "string",
	"bool[]", "int[]", "float[]", "string[]",
	"int[][]", "string[][]",
}

type modelState int

const (
	stateSelectType modelState = iota
	stateInputValue
	stateShowResult
)

type interactiveModel struct {
	err      error
	registry *encoding.Registry
	result   string
	types    []string
	input    textinput.Model
	selected int
	state    modelState
}

type transcodeResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(r *encoding.Registry, typeName string) *interactiveModel {
	m := &interactiveModel{
		registry: r,
		types:    builtinTypes,
		state:    stateSelectType,
	}
	if typeName != "" {
		m.selected = -1
		for i, t := range m.types {
			if t == typeName {
				m.selected = i
			}
		}
		if m.selected < 0 {
			m.types = append([]string{typeName}, m.types...)
			m.selected = 0
		}
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) typeName() string {
	if t := m.types[m.selected]; t != anyType {
		return t
	}
	return ""
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputValue {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.types)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				m.prepareInput()
				m.state = stateInputValue
				return m, textinput.Blink

			case stateInputValue:
				return m, m.transcode

			case stateShowResult:
				m.state = stateInputValue
				m.result = ""
				m.err = nil
				return m, m.input.Focus()
			}

		case "esc":
			switch m.state {
			case stateInputValue:
				m.state = stateSelectType
			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}
		}

	case transcodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		m.input.Blur()
	}

	if m.state == stateInputValue {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = `{"name": "ada", "tags": [1, 2]}`
	ti.Prompt = "value: "
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) transcode() tea.Msg {
	out, err := transcode(m.registry, []byte(m.input.Value()), m.typeName())
	if err != nil {
		return transcodeResultMsg{err: err}
	}
	rendered, err := render(out, true)
	if err != nil {
		return transcodeResultMsg{err: err}
	}
	return transcodeResultMsg{result: rendered}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Transcode"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectType:
		b.WriteString("Select a target type:\n\n")
		for i, t := range m.types {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + t))
			} else {
				b.WriteString("  " + typeStyle.Render(t))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputValue:
		b.WriteString(fmt.Sprintf("Decode as %s\n\n", typeStyle.Render(m.types[m.selected])))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter transcode • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result as %s:\n\n", typeStyle.Render(m.types[m.selected])))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit • esc types • q quit"))
	}

	return b.String()
}

func runInteractive(r *encoding.Registry, typeName string) error {
	p := tea.NewProgram(newInteractiveModel(r, typeName), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
