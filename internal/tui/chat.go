package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
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

type chatState int

const (
	chatInputState chatState = iota
	chatTurnState
)

// SaveFn persists the session transcript after each turn.
type SaveFn func([]cache.Message) error

// Chat is the Bubble Tea model for the interactive research session. Each
// submitted line runs one agent turn; the input list returned by the
// framework carries the conversation into the next turn.
type Chat struct {
	Error *errs.Error

	state    chatState
	input    textinput.Model
	viewport viewport.Model
	glam     *glamour.TermRenderer
	renderer *lipgloss.Renderer
	styles   present.Styles
	anim     tea.Model

	history    []agents.TResponseInputItem
	transcript []cache.Message
	historyBuf bytes.Buffer // rendered conversation so far

	activeCancel context.CancelFunc

	svc    *researcher.Service
	saveFn SaveFn
	cfg    *config.Config
	ctx    context.Context

	width  int
	height int

	dirtyOutput   bool
	initialPrompt string
	waitingSince  time.Time
}

// NewChat creates the Bubble Tea model for an interactive session.
func NewChat(
	ctx context.Context,
	r *lipgloss.Renderer,
	cfg *config.Config,
	svc *researcher.Service,
	transcript []cache.Message,
	saveFn SaveFn,
	initialPrompt string,
) *Chat {
	gr, _ := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(cfg.WordWrap),
	)

	ti := textinput.New()
	ti.Prompt = "scout> "
	ti.Focus()
	ti.CharLimit = 0

	vp := viewport.New(0, 0)
	vp.GotoBottom()

	c := &Chat{
		state:         chatInputState,
		input:         ti,
		viewport:      vp,
		glam:          gr,
		renderer:      r,
		styles:        present.MakeStyles(r),
		svc:           svc,
		saveFn:        saveFn,
		cfg:           cfg,
		ctx:           ctx,
		transcript:    transcript,
		initialPrompt: initialPrompt,
	}

	// Pre-render a resumed transcript into historyBuf and rebuild the
	// framework input list from it.
	for _, msg := range transcript {
		switch msg.Role {
		case "user":
			fmt.Fprintf(&c.historyBuf, "> %s\n\n", msg.Content)
			c.history = append(c.history, agents.UserMessage(msg.Content))
		case "assistant":
			fmt.Fprintf(&c.historyBuf, "%s\n\n", msg.Content)
			c.history = append(c.history, agents.AssistantMessage(msg.Content))
		}
	}

	return c
}

// chatSubmitMsg is sent when the user presses Enter with non-empty input.
type chatSubmitMsg struct {
	prompt string
}

// chatReplyMsg carries the outcome of one agent turn.
type chatReplyMsg struct {
	reply      string
	history    []agents.TResponseInputItem
	transcript []cache.Message
}

type chatWaitingTickMsg struct{}

// Init implements tea.Model.
func (c *Chat) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if !c.cfg.Quiet {
		c.anim = newAnim(c.cfg.Fanciness, c.cfg.StatusText, c.renderer, c.styles)
		cmds = append(cmds, c.anim.Init())
	}
	if c.initialPrompt != "" {
		cmds = append(cmds, func() tea.Msg {
			return chatSubmitMsg{prompt: c.initialPrompt}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.resizeViewport()
		c.refreshViewport()
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if c.state == chatTurnState {
				c.cancelActive()
				c.waitingSince = time.Time{}
				c.state = chatInputState
				c.resizeViewport()
				return c, nil
			}
			return c, tea.Quit
		case "enter":
			if c.state != chatInputState {
				break
			}
			text := strings.TrimSpace(c.input.Value())
			if text == "" {
				return c, nil
			}
			if text == "/exit" || text == "/quit" {
				return c, tea.Quit
			}
			c.input.SetValue("")
			return c, func() tea.Msg {
				return chatSubmitMsg{prompt: text}
			}
		}

	case chatSubmitMsg:
		fmt.Fprintf(&c.historyBuf, "> %s\n\n", msg.prompt)
		c.waitingSince = time.Now()
		c.state = chatTurnState
		c.resizeViewport()
		c.dirtyOutput = true
		c.refreshViewport()
		return c, tea.Batch(c.startTurnCmd(msg.prompt), c.waitingTickCmd())

	case chatReplyMsg:
		c.history = msg.history
		c.transcript = append(c.transcript, msg.transcript...)
		c.waitingSince = time.Time{}
		c.finishTurn(msg.reply)
		c.state = chatInputState
		c.resizeViewport()
		c.refreshViewport()
		return c, nil

	case chatWaitingTickMsg:
		if c.state == chatTurnState {
			return c, c.waitingTickCmd()
		}
		return c, nil

	case errs.Error:
		e := msg
		c.Error = &e
		return c, tea.Quit

	case error:
		e := errs.Error{Err: msg}
		c.Error = &e
		return c, tea.Quit
	}

	// Update sub-models.
	if c.state == chatInputState {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	if c.state == chatTurnState && !c.cfg.Quiet && c.anim != nil {
		var cmd tea.Cmd
		c.anim, cmd = c.anim.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

// View implements tea.Model.
func (c *Chat) View() string {
	if c.width == 0 || c.height == 0 {
		return ""
	}

	divider := c.styles.Comment.Render(strings.Repeat("─", max(c.width, 1)))

	if c.state == chatTurnState {
		status := c.waitingStatus(time.Now())
		if !c.cfg.Quiet && c.anim != nil {
			return c.viewport.View() + "\n" + divider + "\n" + status + "\n" + c.anim.View()
		}
		return c.viewport.View() + "\n" + divider + "\n" + status
	}
	return c.viewport.View() + "\n" + divider + "\n" + c.input.View()
}

// Messages returns the session transcript collected so far.
func (c *Chat) Messages() []cache.Message {
	return c.transcript
}

func (c *Chat) startTurnCmd(prompt string) tea.Cmd {
	return func() tea.Msg {
		if c.svc == nil {
			return errs.Error{Reason: "Researcher is not available"}
		}
		c.cancelActive()

		ctx := c.ctx
		if c.cfg.RequestTimeout > 0 {
			cctx, cancel := context.WithTimeout(c.ctx, c.cfg.RequestTimeout)
			ctx = cctx
			c.activeCancel = cancel
		}

		result, err := c.svc.Continue(ctx, c.history, prompt)
		c.cancelActive()
		if err != nil {
			var e errs.Error
			if errors.As(err, &e) {
				return e
			}
			return errs.Error{Err: err}
		}

		return chatReplyMsg{
			reply:      researcher.FinalText(result),
			history:    result.ToInputList(),
			transcript: researcher.Transcript(prompt, result.NewItems),
		}
	}
}

func (c *Chat) finishTurn(reply string) {
	if reply != "" {
		fmt.Fprintf(&c.historyBuf, "%s\n\n", reply)
	}
	c.dirtyOutput = true

	// Persist to cache.
	if c.saveFn != nil {
		if err := c.saveFn(c.transcript); err != nil {
			fmt.Fprintln(os.Stderr, c.styles.Comment.Render("Warning: failed to save session: "+err.Error()))
		}
	}
}

func (c *Chat) cancelActive() {
	if c.activeCancel != nil {
		c.activeCancel()
		c.activeCancel = nil
	}
}

func (c *Chat) refreshViewport() {
	combined := c.historyBuf.String()
	if combined == "" {
		return
	}

	rendered, err := c.glam.Render(combined)
	if err != nil {
		rendered = combined
	}
	rendered = strings.TrimRightFunc(rendered, unicode.IsSpace)
	rendered += "\n"

	truncated := c.renderer.NewStyle().MaxWidth(c.width).Render(rendered)

	wasAtBottom := c.viewport.ScrollPercent() >= 1.0
	c.viewport.SetContent(truncated)
	if wasAtBottom {
		c.viewport.GotoBottom()
	}
	c.dirtyOutput = false
}

func (c *Chat) waitingTickCmd() tea.Cmd {
	const waitingInterval = 200 * time.Millisecond
	return tea.Tick(waitingInterval, func(time.Time) tea.Msg {
		return chatWaitingTickMsg{}
	})
}

func (c *Chat) footerLineCount() int {
	if c.state == chatTurnState && !c.cfg.Quiet && c.anim != nil {
		return 3
	}
	return 2
}

func (c *Chat) resizeViewport() {
	if c.width > 0 {
		c.viewport.Width = c.width
	}
	h := c.height - c.footerLineCount()
	if h < 1 {
		h = 1
	}
	c.viewport.Height = h
}

func (c *Chat) waitingStatus(now time.Time) string {
	if c.waitingSince.IsZero() {
		return c.styles.Comment.Render("Waiting for response...")
	}

	elapsed := now.Sub(c.waitingSince)
	if elapsed < 0 {
		elapsed = 0
	}

	return c.styles.Comment.Render("Waiting for response... [" + formatElapsedClock(elapsed) + "]")
}

func formatElapsedClock(d time.Duration) string {
	totalSeconds := int(d / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
