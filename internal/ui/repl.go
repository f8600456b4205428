package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxHistory - сколько строк вывода держим в модели.
const maxHistory = 500

var (
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

type replyMsg struct {
	line  string
	reply Reply
}

type historyLine struct {
	text  string
	style lipgloss.Style
}

type replModel struct {
	ctx     context.Context
	session *Session
	prompt  string
	input   textinput.Model
	spinner spinner.Model
	history []historyLine
	running bool
	cancel  context.CancelFunc
	width   int
	quit    bool
}

// NewREPLModel returns a Bubble Tea model for the interactive loop.
// Evaluation runs off the UI goroutine; Esc cancels it.
func NewREPLModel(ctx context.Context, session *Session, prompt string) tea.Model {
	return newREPLModel(ctx, session, prompt)
}

func newREPLModel(ctx context.Context, session *Session, prompt string) *replModel {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = `\x.x  (:help)`
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &replModel{
		ctx:     ctx,
		session: session,
		prompt:  prompt,
		input:   ti,
		spinner: sp,
		width:   80,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case replyMsg:
		return m, m.finish(msg)
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if m.cancel != nil {
			m.cancel()
		}
		m.quit = true
		return tea.Quit
	case tea.KeyEsc:
		if m.running && m.cancel != nil {
			m.cancel()
		}
		return nil
	case tea.KeyEnter:
		if m.running {
			return nil
		}
		line := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(line) == "" {
			return nil
		}
		return tea.Batch(m.submit(line), m.spinner.Tick)
	}
	if m.running {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submit starts evaluation of line and returns the command delivering its reply.
func (m *replModel) submit(line string) tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.running = true
	m.cancel = cancel
	m.push(m.prompt+line, echoStyle)
	session := m.session
	return func() tea.Msg {
		defer cancel()
		return replyMsg{line: line, reply: session.Exec(ctx, line)}
	}
}

func (m *replModel) finish(msg replyMsg) tea.Cmd {
	m.running = false
	m.cancel = nil
	if msg.reply.Quit {
		m.quit = true
		return tea.Quit
	}
	if msg.reply.Text == "" {
		return nil
	}
	style := resultStyle
	if msg.reply.Err {
		style = errorStyle
	}
	for _, line := range strings.Split(msg.reply.Text, "\n") {
		m.push(line, style)
	}
	return nil
}

func (m *replModel) push(text string, style lipgloss.Style) {
	m.history = append(m.history, historyLine{text: text, style: style})
	if over := len(m.history) - maxHistory; over > 0 {
		m.history = append(m.history[:0], m.history[over:]...)
	}
}

func (m *replModel) View() string {
	var b strings.Builder
	for _, line := range m.history {
		// обрезаем до стилизации: ANSI-коды ломают подсчёт ширины
		b.WriteString(line.style.Render(truncate(line.text, m.width)))
		b.WriteString("\n")
	}
	if m.quit {
		return b.String()
	}
	if m.running {
		b.WriteString(m.spinner.View() + " reducing " + hintStyle.Render("(esc to cancel)"))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	return b.String()
}

// RunREPL runs the Bubble Tea REPL until the user quits.
func RunREPL(ctx context.Context, session *Session, prompt string) error {
	p := tea.NewProgram(NewREPLModel(ctx, session, prompt), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
