package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
)

// Asker is the TUI-facing subset of the RAG service.
type Asker interface {
	Query(ctx context.Context, question string) (*domain.Answer, error)
}

// answerMsg carries the outcome of one question back into Update.
type answerMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

// Model is the Bubble Tea model for the question/answer screen.
type Model struct {
	ctx      context.Context
	service  Asker
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	answer   *domain.Answer
	title    string
	status   string
	cursor   int
	ready    bool
	asking   bool
	lastQ    string
}

// New creates a new TUI model. title names the loaded document.
func New(ctx context.Context, service Asker, title string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:      ctx,
		service:  service,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		title:    title,
		status:   "Loaded. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) ask(q string) tea.Cmd {
	return func() tea.Msg {
		a, err := m.service.Query(m.ctx, q)
		return answerMsg{question: q, answer: a, err: err}
	}
}

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, title, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.render())
		return m, nil
	case answerMsg:
		m.asking = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else {
			m.status = fmt.Sprintf("%d sources for %q", len(msg.answer.Sources), msg.question)
			m.answer = msg.answer
			m.cursor = 0
			m.lastQ = msg.question
		}
		m.viewport.SetContent(m.render())
		return m, nil
	case spinner.TickMsg:
		if !m.asking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.asking {
				m.asking = true
				m.status = "Thinking..."
				m.input.SetValue("")
				return m, tea.Batch(m.ask(q), m.spinner.Tick)
			}
		case "down":
			if n := m.sourceCount(); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "up":
			if n := m.sourceCount(); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.render())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Q&A")
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.title)
	input := queryBoxStyle.Render(m.input.View())
	status := m.status
	if m.asking {
		status = m.spinner.View() + " " + status
	}
	status = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + title + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) sourceCount() int {
	if m.answer == nil {
		return 0
	}
	return len(m.answer.Sources)
}

func (m Model) render() string {
	if m.answer == nil {
		return "No answer yet."
	}
	var b strings.Builder
	b.WriteString(answerStyle.Render(m.answer.Text))
	if len(m.answer.Sources) == 0 {
		return b.String()
	}
	src := m.answer.Sources[m.cursor]
	fmt.Fprintf(&b, "\n\nSource %d/%d  page=%d  score=%.3f\n\n", m.cursor+1, len(m.answer.Sources), src.Chunk.Position, src.Score)
	b.WriteString(highlightBestSentence(src.Chunk.Text, m.lastQ))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle    = lipgloss.NewStyle().Bold(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
