package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bitmem/buffer"
	"github.com/wippyai/bitmem/cast"
	"github.com/wippyai/bitmem/codec"
	"github.com/wippyai/bitmem/kind"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	castStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateEdit
	stateGoto
)

// chrome is the number of lines View uses around the element rows.
const chrome = 7

type interactiveModel struct {
	err       error
	buf       *buffer.Buffer
	log       *zap.Logger
	status    string
	input     textinput.Model
	kind      kind.Kind
	castTo    kind.Kind // kind.Count when no cast column is shown
	cursor    uint64
	top       uint64
	height    int
	columns   int
	valueCast bool
	state     modelState
}

func newInteractiveModel(s *session) *interactiveModel {
	height := 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		height = h
	}
	ti := textinput.New()
	ti.Width = 40
	return &interactiveModel{
		buf:     s.buf,
		log:     s.log,
		input:   ti,
		kind:    s.kind,
		castTo:  kind.Count,
		height:  height,
		columns: max(s.cfg.View.Columns, 1),
		state:   stateBrowse,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) rows() uint64 {
	return uint64(max(m.height-chrome, 1))
}

func (m *interactiveModel) pageLen() uint64 {
	return m.rows() * uint64(m.columns)
}

func (m *interactiveModel) length() uint64 {
	return m.buf.Len(m.kind)
}

// scroll keeps the cursor on the visible page.
func (m *interactiveModel) scroll() {
	n := m.length()
	if n == 0 {
		m.cursor, m.top = 0, 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	cols := uint64(m.columns)
	row := m.cursor / cols * cols
	if row < m.top {
		m.top = row
	}
	if end := m.top + m.pageLen(); row >= end {
		m.top = row - m.pageLen() + cols
	}
}

func (m *interactiveModel) move(delta int64) {
	switch {
	case delta < 0 && uint64(-delta) > m.cursor:
		m.cursor = 0
	case delta < 0:
		m.cursor -= uint64(-delta)
	default:
		m.cursor += uint64(delta)
	}
	m.scroll()
}

func (m *interactiveModel) setKind(k kind.Kind) {
	// keep the cursor on the same bit
	bit := m.cursor * uint64(m.kind.BitWidth())
	m.kind = k
	m.cursor = bit / uint64(k.BitWidth())
	m.top = 0
	m.scroll()
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		if m.state != stateBrowse {
			return m.updateInput(msg)
		}
		m.err = nil
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.move(-1)
		case "right", "l":
			m.move(1)
		case "up", "k":
			m.move(-int64(m.columns))
		case "down", "j":
			m.move(int64(m.columns))
		case "pgup":
			m.move(-int64(m.pageLen()))
		case "pgdown":
			m.move(int64(m.pageLen()))
		case "tab":
			m.setKind(kind.Kind((int(m.kind) + 1) % kind.Count))
		case "shift+tab":
			m.setKind(kind.Kind((int(m.kind) + kind.Count - 1) % kind.Count))
		case "c":
			m.castTo = kind.Kind((int(m.castTo) + 1) % (kind.Count + 1))
		case "v":
			m.valueCast = !m.valueCast
		case "e":
			if m.length() > 0 {
				m.beginInput(stateEdit, strconv.FormatUint(m.cursor, 10)+": ", m.kind.String())
			}
		case "g":
			m.beginInput(stateGoto, "goto: ", "index")
		case "z":
			if m.length() > 0 {
				zero, _ := cast.FromRaw(0, m.kind)
				m.err = m.buf.Fill(m.kind, m.cursor, 1, zero)
			}
		}
	}
	return m, nil
}

func (m *interactiveModel) beginInput(state modelState, prompt, placeholder string) {
	m.state = state
	m.input.Reset()
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.Focus()
}

func (m *interactiveModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		m.err = m.apply(m.input.Value())
		m.state = stateBrowse
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) apply(text string) error {
	switch m.state {
	case stateGoto:
		i, err := strconv.ParseUint(strings.TrimSpace(text), 0, 64)
		if err != nil {
			return err
		}
		if i >= m.length() {
			return fmt.Errorf("index %d out of range (%d elements)", i, m.length())
		}
		m.cursor = i
		m.scroll()
		return nil
	case stateEdit:
		v, err := parseValue(m.kind, text)
		if err != nil {
			return err
		}
		if err := m.buf.Set(m.kind, m.cursor, v); err != nil {
			return err
		}
		m.status = fmt.Sprintf("set %s[%d] = %s", m.kind, m.cursor, formatValue(v))
		m.log.Debug("element set", zap.Stringer("kind", m.kind), zap.Uint64("index", m.cursor))
	}
	return nil
}

// castValue converts one element for the cast column.
func (m *interactiveModel) castValue(v any) string {
	var out any
	var err error
	if m.valueCast {
		out, err = cast.Value(v, m.castTo)
	} else {
		out, err = cast.ValueBits(v, m.castTo)
	}
	if err != nil {
		return "!"
	}
	return formatValue(out)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("bitview"))
	fmt.Fprintf(&b, " %d bits  view %s  %d elements\n",
		m.buf.Bits(), kindStyle.Render(m.kind.String()), m.length())
	fmt.Fprintf(&b, "digest %s\n\n", codec.Sum(m.buf).String()[:16])

	n := m.length()
	if n == 0 {
		b.WriteString("(no whole elements of this kind)\n")
	}
	end := min(m.top+m.pageLen(), n)
	cols := uint64(m.columns)
	for row := m.top; row < end; row += cols {
		fmt.Fprintf(&b, "%8d:", row)
		for i := row; i < min(row+cols, end); i++ {
			v, err := m.buf.Get(m.kind, i)
			cell := "?"
			if err == nil {
				cell = formatValue(v)
			}
			if i == m.cursor {
				cell = selectedStyle.Render(cell)
			}
			b.WriteString(" " + cell)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if n > 0 {
		v, err := m.buf.Get(m.kind, m.cursor)
		if err == nil {
			fmt.Fprintf(&b, "[%d] %s", m.cursor, formatValue(v))
			if m.castTo.Valid() {
				b.WriteString(castStyle.Render(fmt.Sprintf("  as %s (%s): %s",
					m.castTo, castMode(m.valueCast), m.castValue(v))))
			}
			b.WriteByte('\n')
		}
	}

	switch {
	case m.state != stateBrowse:
		b.WriteString(m.input.View())
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("←/→/↑/↓ move • tab kind • c cast • v mode • e edit • g goto • z zero • q quit"))
	default:
		b.WriteString(statusStyle.Render(m.status))
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("←/→/↑/↓ move • tab kind • c cast • v mode • e edit • g goto • z zero • q quit"))
	}

	return b.String()
}

func runInteractive(s *session) error {
	p := tea.NewProgram(newInteractiveModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
