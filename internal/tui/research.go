package tui

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/nlpodyssey/openai-agents-go/agents"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/errs"
	"github.com/dotcommander/scout/internal/present"
	"github.com/dotcommander/scout/internal/researcher"
	"github.com/dotcommander/scout/internal/storage/cache"
)

type state int

const (
	startState state = iota
	requestState
	responseState
	doneState
	errorState
)

// Research is the Bubble Tea model that streams one research run to the
// terminal: it reads any piped stdin as extra context, hands the query to
// the researcher service, and renders the report as it arrives.
type Research struct {
	// Output is populated at the end of a run for non-raw output printing.
	Output string
	Input  string
	Styles present.Styles
	Error  *errs.Error

	state        state
	renderer     *lipgloss.Renderer
	glam         *glamour.TermRenderer
	glamViewport viewport.Model
	glamOutput   string
	glamHeight   int
	anim         tea.Model
	width        int
	height       int

	Config *config.Config
	svc    *researcher.Service
	query  string

	// reportBuf holds only the assistant's text, without the tool notices
	// mixed into the display buffer. It is what gets persisted.
	reportBuf bytes.Buffer
	messages  []cache.Message

	content      []string
	contentMutex *sync.Mutex

	outputBuf       bytes.Buffer
	outputTruncated bool
	activeCancel    context.CancelFunc

	renderScheduled bool
	dirtyOutput     bool

	ctx context.Context
}

// NewResearch creates the Bubble Tea model for a streamed research run.
// svc must be provided by the caller so the view stays focused on rendering
// (no config resolution, cache wiring, etc.).
func NewResearch(
	ctx context.Context,
	r *lipgloss.Renderer,
	cfg *config.Config,
	svc *researcher.Service,
	query string,
) *Research {
	gr, _ := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(cfg.WordWrap),
	)
	vp := viewport.New(0, 0)
	vp.GotoBottom()
	return &Research{
		Styles:       present.MakeStyles(r),
		glam:         gr,
		state:        startState,
		renderer:     r,
		glamViewport: vp,
		contentMutex: &sync.Mutex{},
		Config:       cfg,
		svc:          svc,
		query:        query,
		ctx:          ctx,
	}
}

// researchInput is a tea.Msg that wraps the content read from stdin.
type researchInput struct {
	content string
}

// researchOutput is a tea.Msg carrying one streamed piece of the run. A nil
// events channel signals the run is complete.
type researchOutput struct {
	content string
	notice  string
	events  <-chan agents.StreamEvent
	errc    <-chan error
}

type renderOutputMsg struct{}

// Piped stdin is context for the agent, not the report itself, so runaway
// pipes get clipped rather than buffered whole.
const maxPipedInputBytes = 1024 * 1024

// Init implements tea.Model.
func (m *Research) Init() tea.Cmd {
	cmds := []tea.Cmd{m.readStdinCmd}
	if !m.Config.Quiet {
		m.anim = newAnim(m.Config.Fanciness, m.Config.StatusText, m.renderer, m.Styles)
		cmds = append(cmds, m.anim.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Research) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case researchInput:
		if msg.content != "" {
			m.Input = removeWhitespace(msg.content)
		}
		if m.Input == "" && strings.TrimSpace(m.query) == "" {
			return m, m.quit
		}
		m.state = requestState
		cmds = append(cmds, m.startResearchCmd())

	case researchOutput:
		if msg.events == nil {
			m.Output = m.outputBuf.String()
			if !present.IsOutputTTY() || m.Config.Raw {
				m.flushBufferedContent()
			}
			if m.shouldRenderFormattedOutput() && m.dirtyOutput {
				m.renderFormattedOutput()
			}
			m.state = doneState
			return m, m.quit
		}
		if msg.notice != "" && !m.Config.Quiet {
			m.appendToOutput(fmt.Sprintf("\n*%s*\n\n", msg.notice))
			m.state = responseState
		}
		if msg.content != "" {
			m.reportBuf.WriteString(msg.content)
			m.appendToOutput(msg.content)
			m.state = responseState
		}
		if m.shouldRenderFormattedOutput() && m.dirtyOutput && !m.renderScheduled {
			m.renderScheduled = true
			cmds = append(cmds, m.renderOutputCmd())
		}
		cmds = append(cmds, m.receiveEventCmd(msg.events, msg.errc))

	case renderOutputMsg:
		m.renderScheduled = false
		if m.dirtyOutput {
			m.renderFormattedOutput()
		}

	case errs.Error:
		e := msg
		m.Error = &e
		m.state = errorState
		return m, m.quit
	case error:
		e := errs.Error{Err: msg}
		m.Error = &e
		m.state = errorState
		return m, m.quit

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.glamViewport.Width = m.width
		m.glamViewport.Height = m.height
		if m.shouldRenderFormattedOutput() && m.outputBuf.Len() > 0 {
			m.renderFormattedOutput()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancelActive()
			m.state = doneState
			return m, m.quit
		}
	}
	if !m.Config.Quiet && m.state == requestState {
		var cmd tea.Cmd
		m.anim, cmd = m.anim.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.viewportNeeded() {
		// Only respond to keypresses when the viewport (i.e. the content) is
		// taller than the window.
		var cmd tea.Cmd
		m.glamViewport, cmd = m.glamViewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Research) viewportNeeded() bool {
	return m.glamHeight > m.height
}

// View implements tea.Model.
func (m *Research) View() string {
	//nolint:exhaustive
	switch m.state {
	case errorState:
		return ""
	case requestState:
		if !m.Config.Quiet {
			return m.anim.View()
		}
	case responseState:
		if !m.Config.Raw && present.IsOutputTTY() {
			if m.viewportNeeded() {
				return m.glamViewport.View()
			}
			// We don't need the viewport yet.
			return m.glamOutput
		}
		m.flushBufferedContent()
	case doneState:
		if !present.IsOutputTTY() {
			fmt.Printf("\n")
		}
		return ""
	}
	return ""
}

func (m *Research) quit() tea.Msg {
	return tea.Quit()
}

func (m *Research) startResearchCmd() tea.Cmd {
	return func() tea.Msg {
		if m.svc == nil {
			return errs.Error{Reason: "Researcher is not available"}
		}
		m.cancelActive()
		ctx := m.ctx
		if m.Config.RequestTimeout > 0 {
			cctx, cancel := context.WithTimeout(m.ctx, m.Config.RequestTimeout)
			ctx = cctx
			m.activeCancel = cancel
		}

		query := m.query
		switch {
		case query == "":
			query = m.Input
		case m.Input != "":
			query = query + "\n\nContext:\n\n" + m.Input
		}
		m.query = query
		m.messages = []cache.Message{{Role: "user", Content: query}}

		events, errc, err := m.svc.Stream(ctx, query)
		if err != nil {
			m.cancelActive()
			var e errs.Error
			if errors.As(err, &e) {
				return e
			}
			return errs.Error{Err: err}
		}
		return m.receiveEventCmd(events, errc)()
	}
}

// receiveEventCmd waits for the next stream event. Events that carry nothing
// worth showing are skipped in place rather than bounced through Update.
func (m *Research) receiveEventCmd(events <-chan agents.StreamEvent, errc <-chan error) tea.Cmd {
	return func() tea.Msg {
		for {
			event, ok := <-events
			if !ok {
				err := <-errc
				m.cancelActive()
				if err != nil {
					var e errs.Error
					if errors.As(err, &e) {
						return e
					}
					return errs.Error{Err: err}
				}
				m.messages = append(m.messages, cache.Message{Role: "assistant", Content: m.reportBuf.String()})
				return researchOutput{}
			}

			switch e := event.(type) {
			case agents.RawResponsesStreamEvent:
				if e.Data.Type == "response.output_text.delta" && e.Data.Delta != "" {
					return researchOutput{content: e.Data.Delta, events: events, errc: errc}
				}
			case agents.RunItemStreamEvent:
				switch item := e.Item.(type) {
				case agents.ToolCallItem:
					if name := toolCallName(item); name != "" {
						return researchOutput{notice: "Running " + name, events: events, errc: errc}
					}
				case agents.ToolCallOutputItem:
					m.messages = append(m.messages, cache.Message{Role: "tool", Content: fmt.Sprint(item.Output)})
				}
			}
		}
	}
}

func toolCallName(item agents.ToolCallItem) string {
	if call, ok := item.RawItem.(agents.ResponseFunctionToolCall); ok {
		return call.Name
	}
	return ""
}

func (m *Research) readStdinCmd() tea.Msg {
	if !present.IsInputTTY() {
		reader := io.LimitReader(bufio.NewReader(os.Stdin), maxPipedInputBytes+1)
		stdinBytes, err := io.ReadAll(reader)
		if err != nil {
			return errs.Error{Err: err, Reason: "Unable to read stdin."}
		}
		if len(stdinBytes) > maxPipedInputBytes {
			stdinBytes = stdinBytes[:maxPipedInputBytes]
		}
		return researchInput{increaseIndent(string(stdinBytes))}
	}
	return researchInput{""}
}

const tabWidth = 4

const maxRetainedOutputBytes = 2 * 1024 * 1024

func (m *Research) cancelActive() {
	if m.activeCancel != nil {
		m.activeCancel()
		m.activeCancel = nil
	}
}

func (m *Research) outputStringForRender() string {
	if m.outputBuf.Len() == 0 {
		return ""
	}
	out := m.outputBuf.String()
	if m.outputTruncated {
		return "[output truncated]\n\n" + out
	}
	return out
}

func (m *Research) appendToOutput(s string) {
	if !present.IsOutputTTY() || m.Config.Raw {
		m.contentMutex.Lock()
		m.content = append(m.content, s)
		m.contentMutex.Unlock()
		return
	}

	_, _ = m.outputBuf.WriteString(s)
	if m.outputBuf.Len() > maxRetainedOutputBytes {
		b := m.outputBuf.Bytes()
		if len(b) > maxRetainedOutputBytes {
			keep := append([]byte(nil), b[len(b)-maxRetainedOutputBytes:]...)
			m.outputBuf.Reset()
			_, _ = m.outputBuf.Write(keep)
			m.outputTruncated = true
		}
	}
	m.dirtyOutput = true
}

func (m *Research) flushBufferedContent() {
	m.contentMutex.Lock()
	defer m.contentMutex.Unlock()
	for _, c := range m.content {
		fmt.Print(c)
	}
	m.content = []string{}
}

func (m Research) shouldRenderFormattedOutput() bool {
	return present.IsOutputTTY() && !m.Config.Raw
}

func (m *Research) renderOutputCmd() tea.Cmd {
	const renderInterval = 33 * time.Millisecond
	return tea.Tick(renderInterval, func(time.Time) tea.Msg {
		return renderOutputMsg{}
	})
}

func (m *Research) renderFormattedOutput() {
	wasAtBottom := m.glamViewport.ScrollPercent() == 1.0
	oldHeight := m.glamHeight
	m.glamOutput, _ = m.glam.Render(m.outputStringForRender())
	m.glamOutput = strings.TrimRightFunc(m.glamOutput, unicode.IsSpace)
	m.glamOutput = strings.ReplaceAll(m.glamOutput, "\t", strings.Repeat(" ", tabWidth))
	m.glamHeight = lipgloss.Height(m.glamOutput)
	m.glamOutput += "\n"
	truncatedGlamOutput := m.renderer.NewStyle().
		MaxWidth(m.width).
		Render(m.glamOutput)
	m.glamViewport.SetContent(truncatedGlamOutput)
	if oldHeight < m.glamHeight && wasAtBottom {
		// If the viewport's at the bottom and we've received a new
		// line of content, follow the output by auto scrolling to
		// the bottom.
		m.glamViewport.GotoBottom()
	}
	m.dirtyOutput = false
}

// if the input is whitespace only, make it empty.
func removeWhitespace(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func increaseIndent(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "\t" + lines[i]
	}
	return strings.Join(lines, "\n")
}
