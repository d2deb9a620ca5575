// Package prompt asks for a template and a project name in the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

type (
	phase byte

	Model struct {
		help    help.Model
		dump    io.Writer
		invalid error
		choices []Choice
		ti      textinput.Model
		index   int
		phase   phase
		aborted bool
	}

	// Choice is one entry of the template list. Description may be empty.
	Choice struct {
		ID          string
		Description string
	}

	// TUI is the terminal implementation of the pipeline's prompter.
	TUI struct {
		In  io.Reader
		Out io.Writer
		// Dump receives every message the prompt handles, for debugging key handling.
		Dump io.Writer
	}

	chooseKeyMap struct{}

	nameKeyMap struct{}
)

const (
	choosing phase = iota
	naming
	done
)

var (
	ErrAborted = errors.New("prompt aborted")

	keys = struct {
		up     key.Binding
		down   key.Binding
		choose key.Binding
		submit key.Binding
		help   key.Binding
		quit   key.Binding
	}{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "choose template"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "submit name"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}

	palette = struct {
		magenta lipgloss.Color
		red     lipgloss.Color
		cyan    lipgloss.Color
	}{
		magenta: lipgloss.Color("212"),
		red:     lipgloss.Color("9"),
		cyan:    lipgloss.Color("14"),
	}

	highlightedStyle = lipgloss.NewStyle().Foreground(palette.magenta)
	questionStyle    = lipgloss.NewStyle().Bold(true)
	answerStyle      = lipgloss.NewStyle().Foreground(palette.cyan)
	invalidStyle     = lipgloss.NewStyle().Foreground(palette.red)
	descriptionStyle = lipgloss.NewStyle().Faint(true)
)

func (chooseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.help, keys.quit}
}

func (chooseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.up, keys.down, keys.choose},
		{keys.help, keys.quit},
	}
}

func (nameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.submit, keys.quit}
}

func (nameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.submit, keys.quit},
	}
}

// New builds the prompt over choices, listed in the given order. dump may be nil.
func New(choices []Choice, dump io.Writer) Model {
	ti := textinput.New()
	ti.Placeholder = "my-project"
	// No limit: a truncated value would name a different directory than the user typed.
	ti.CharLimit = 0
	ti.Width = 40
	ti.Prompt = "> "

	return Model{
		help:    help.New(),
		dump:    dump,
		choices: choices,
		ti:      ti,
	}
}

func (m Model) Choice() string {
	if len(m.choices) == 0 {
		return ""
	}

	return m.choices[m.index].ID
}

func (m Model) Name() string {
	return m.ti.Value()
}

func (m Model) Done() bool {
	return m.phase == done
}

func (m Model) Aborted() bool {
	return m.aborted
}

// Invalid returns why the last submitted name was rejected, if it was.
func (m Model) Invalid() error {
	return m.invalid
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.dump != nil {
		spew.Fdump(m.dump, msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.aborted = true

			return m, tea.Quit
		case m.phase == choosing:
			return m.chooseUpdate(msg)
		case m.phase == naming:
			return m.nameUpdate(msg)
		default:
			return m, nil
		}
	}

	if m.phase == naming {
		var cmd tea.Cmd

		m.ti, cmd = m.ti.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) chooseUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		if m.index > 0 {
			m.index -= 1
		}
	case key.Matches(msg, keys.down):
		if m.index < len(m.choices)-1 {
			m.index += 1
		}
	case key.Matches(msg, keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.choose) && len(m.choices) > 0:
		m.phase = naming
		m.help.ShowAll = false

		cmd := m.ti.Focus()

		return m, cmd
	default:
	}

	return m, nil
}

func (m Model) nameUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if key.Matches(msg, keys.submit) {
		m.invalid = ValidateName(m.ti.Value())
		if m.invalid != nil {
			return m, nil
		}

		m.ti.Blur()
		m.phase = done

		return m, tea.Quit
	}

	m.invalid = nil
	m.ti, cmd = m.ti.Update(msg)

	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(questionStyle.Render("What kind of project do you want to create?"))

	if m.phase != choosing {
		b.WriteString(" " + answerStyle.Render(m.Choice()) + "\n")
	} else {
		b.WriteString("\n\n")

		for i, choice := range m.choices {
			if i == m.index {
				b.WriteString(highlightedStyle.Render("> " + choice.ID))
			} else {
				b.WriteString("  " + choice.ID)
			}

			if choice.Description != "" {
				b.WriteString("  " + descriptionStyle.Render(choice.Description))
			}

			b.WriteRune('\n')
		}

		b.WriteRune('\n')
		b.WriteString(m.help.View(chooseKeyMap{}))
		b.WriteRune('\n')

		return b.String()
	}

	b.WriteString(questionStyle.Render("What do you want to call your project?"))

	if m.phase == done {
		b.WriteString(" " + answerStyle.Render(m.Name()) + "\n")

		return b.String()
	}

	b.WriteString("\n\n")
	b.WriteString(m.ti.View())
	b.WriteRune('\n')

	if m.invalid != nil {
		b.WriteString(invalidStyle.Render(">> " + m.invalid.Error()))
		b.WriteRune('\n')
	}

	b.WriteRune('\n')
	b.WriteString(m.help.View(nameKeyMap{}))
	b.WriteRune('\n')

	return b.String()
}

// Ask shows the prompt until a template is chosen and a valid name is submitted.
// Non-nil returned error wraps [ErrAborted] when the user quits early.
func (t TUI) Ask(choices []Choice) (templateID, projectName string, err error) {
	if len(choices) == 0 {
		return "", "", errors.New("no templates to choose from")
	}

	var opts []tea.ProgramOption

	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}

	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}

	final, err := tea.NewProgram(New(choices, t.Dump), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return "", "", fmt.Errorf("%w: %s", ErrAborted, err.Error())
	} else if err != nil {
		return "", "", fmt.Errorf("failed to run the interactive prompt: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Aborted() || !m.Done() {
		return "", "", ErrAborted
	}

	return m.Choice(), m.Name(), nil
}
