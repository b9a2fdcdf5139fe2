package picker

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// promptModel reads one session name. It lives for a single prompt:
// the completion candidates are fixed at construction and the next
// cycle builds a fresh model with that cycle's names.
type promptModel struct {
	input   textinput.Model
	answer  string
	aborted bool
	done    bool
}

func newPromptModel(candidates []string) promptModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("session> ")
	ti.CharLimit = 256
	ti.ShowSuggestions = true
	ti.SetSuggestions(candidates)
	ti.Focus()
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.answer = m.input.Value()
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case "ctrl+d":
			// EOF on an empty line ends the loop; with text present
			// the key falls through as delete-forward.
			if m.input.Value() == "" {
				m.aborted = true
				m.done = true
				return m, tea.Quit
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}
	return m.input.View() + "\n" +
		dimStyle.Render("Tab=complete  Enter=attach/create  empty=shell  Ctrl+C=quit")
}

// ask runs one interactive prompt. ok is false when the operator ended
// the session (interrupt or EOF on an empty line).
func ask(candidates []string) (answer string, ok bool, err error) {
	p := tea.NewProgram(newPromptModel(candidates))
	out, err := p.Run()
	if err != nil {
		return "", false, err
	}
	m := out.(promptModel)
	if m.aborted {
		return "", false, nil
	}
	return m.answer, true, nil
}
