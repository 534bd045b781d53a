package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrSelectionCancelled is returned when the picker is aborted.
var ErrSelectionCancelled = errors.New("selection cancelled")

const defaultVisibleRows = 12

// Option is one selectable entry.
type Option struct {
	Value string
	Label string
	Hint  string
}

// KeyMap holds the picker's bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// MultiSelectModel is a bubbletea model for picking several options.
type MultiSelectModel struct {
	title    string
	options  []Option
	selected map[int]bool
	cursor   int
	offset   int
	rows     int
	keys     KeyMap

	// Required rejects an empty submission when set.
	Required bool

	warning   string
	done      bool
	cancelled bool
}

// NewMultiSelect returns a picker over options.
func NewMultiSelect(title string, options []Option) *MultiSelectModel {
	return &MultiSelectModel{
		title:    title,
		options:  options,
		selected: make(map[int]bool),
		rows:     defaultVisibleRows,
		keys:     DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m *MultiSelectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *MultiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Title, help and warning lines.
		if rows := msg.Height - 4; rows > 0 && rows < defaultVisibleRows {
			m.rows = rows
		} else {
			m.rows = defaultVisibleRows
		}
		m.scroll()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *MultiSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.warning = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if len(m.options) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
	case key.Matches(msg, m.keys.All):
		all := len(m.Selected()) < len(m.options)
		for i := range m.options {
			m.selected[i] = all
		}
	case key.Matches(msg, m.keys.Submit):
		if m.Required && len(m.Selected()) == 0 {
			m.warning = "select at least one item"
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}
	m.scroll()
	return m, nil
}

func (m *MultiSelectModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
}

// View implements tea.Model.
func (m *MultiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Title(m.title))
	sb.WriteString("\n")

	end := min(m.offset+m.rows, len(m.options))
	for i := m.offset; i < end; i++ {
		opt := m.options[i]
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if m.selected[i] {
			box = Success("[x]")
		}
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		line := fmt.Sprintf("%s%s %s", pointer, box, label)
		if opt.Hint != "" {
			line += " " + Label(opt.Hint)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if m.warning != "" {
		sb.WriteString(Warn(m.warning))
		sb.WriteString("\n")
	}
	sb.WriteString(Label(fmt.Sprintf("%d selected · space toggle · a all · enter confirm · esc cancel", len(m.Selected()))))
	sb.WriteString("\n")
	return sb.String()
}

// Selected returns the chosen values in option order.
func (m *MultiSelectModel) Selected() []string {
	var out []string
	for i, opt := range m.options {
		if m.selected[i] {
			out = append(out, opt.Value)
		}
	}
	return out
}

// Cancelled reports whether the picker was aborted.
func (m *MultiSelectModel) Cancelled() bool {
	return m.cancelled
}

// RunMultiSelect shows the picker on out and returns the chosen values.
func RunMultiSelect(in io.Reader, out io.Writer, title string, options []Option, required bool) ([]string, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	m := NewMultiSelect(title, options)
	m.Required = required

	final, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return nil, fmt.Errorf("running selector: %w", err)
	}
	result, ok := final.(*MultiSelectModel)
	if !ok || result.Cancelled() {
		return nil, ErrSelectionCancelled
	}
	return result.Selected(), nil
}
