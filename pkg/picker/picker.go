// Package picker is a small fuzzy-filter chooser: type to narrow the
// list, arrows to move, enter to confirm, esc to abort.
package picker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxVisibleRows = 15

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	queryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

type model struct {
	title    string
	options  []string
	filtered []string
	query    string
	cursor   int
	choice   string
	aborted  bool
}

func newModel(title string, options []string) model {
	m := model{title: title, options: options}
	m.refilter()
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "enter":
		if len(m.filtered) == 0 {
			return m, nil
		}
		m.choice = m.filtered[m.cursor]
		return m, tea.Quit
	case "up", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "backspace":
		if len(m.query) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.query)
			m.query = m.query[:len(m.query)-size]
			m.refilter()
		}
	default:
		switch {
		case key.Type == tea.KeyRunes && !key.Alt:
			m.query += string(key.Runes)
			m.refilter()
		case key.Type == tea.KeySpace:
			m.query += " "
			m.refilter()
		}
	}
	return m, nil
}

func (m *model) refilter() {
	m.filtered = rank(m.options, m.query)
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) View() string {
	if m.choice != "" || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	query := m.query
	if query == "" {
		query = hintStyle.Render("(type to filter)")
	} else {
		query = queryStyle.Render(query)
	}
	b.WriteString("> " + query + "\n")

	shown := m.filtered
	offset := 0
	if m.cursor >= maxVisibleRows {
		offset = m.cursor - maxVisibleRows + 1
	}
	if offset+maxVisibleRows < len(shown) {
		shown = shown[offset : offset+maxVisibleRows]
	} else {
		shown = shown[offset:]
	}

	for i, opt := range shown {
		if offset+i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + opt))
		} else {
			b.WriteString(rowStyle.Render("  " + opt))
		}
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(hintStyle.Render("  no matches") + "\n")
	}

	b.WriteString(hintStyle.Render(fmt.Sprintf("%d/%d  enter select  esc cancel", len(m.filtered), len(m.options))))
	b.WriteString("\n")
	return b.String()
}

// Picker runs the chooser as a terminal program. It satisfies the
// navigator Selector interface.
type Picker struct {
	input  io.Reader
	output io.Writer
}

func New() Picker { return Picker{output: os.Stderr} }

// Select presents options and returns the chosen one. An abort returns
// "" with no error. UI frames go to stderr; stdout carries only the
// fetched document.
func (p Picker) Select(title string, options []string) (string, error) {
	out := p.output
	if out == nil {
		out = os.Stderr
	}
	opts := []tea.ProgramOption{tea.WithOutput(out)}
	if p.input != nil {
		opts = append(opts, tea.WithInput(p.input))
	}

	program := tea.NewProgram(newModel(title, options), opts...)
	final, err := program.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(model)
	if !ok || m.aborted {
		return "", nil
	}
	return m.choice, nil
}
