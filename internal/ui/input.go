package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
)

type inputModel struct {
	textInput textinput.Model
	submitted bool
	cancelled bool
}

func newInputModel(prompt string) inputModel {
	ti := textinput.New()
	ti.Prompt = pterm.Bold.Sprint(pterm.Cyan(prompt))
	ti.Focus()
	ti.SetSuggestions(CommandNames())
	ti.ShowSuggestions = true
	return inputModel{textInput: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return m.textInput.View()
}

// LineReader reads one line per call with command completion.
type LineReader struct {
	Prompt string
}

func NewLineReader() *LineReader {
	return &LineReader{Prompt: "What did you work on? "}
}

// ReadLine returns ok=false when the user cancels (Ctrl+C/Ctrl+D) or ctx ends.
func (r *LineReader) ReadLine(ctx context.Context) (string, bool) {
	p := tea.NewProgram(newInputModel(r.Prompt), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return "", false
	}
	result := finalModel.(inputModel)
	if result.cancelled {
		return "", false
	}
	return strings.TrimSpace(result.textInput.Value()), true
}

// Prompter asks follow-up questions with huh forms.
type Prompter struct{}

func (Prompter) Confirm(question string) bool {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return err == nil && ok
}

func (Prompter) Ask(question string) string {
	var text string
	if err := huh.NewInput().Title(question).Value(&text).Run(); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
