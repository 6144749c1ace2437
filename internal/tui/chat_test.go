package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/storage/cache"
)

func newTestChat(opts ...func(*Chat)) *Chat {
	r := lipgloss.DefaultRenderer()
	cfg := &config.Config{
		Settings: config.Settings{
			WordWrap: 80,
			Quiet:    true,
		},
	}
	c := NewChat(context.Background(), r, cfg, nil, nil, nil, "")
	for _, o := range opts {
		o(c)
	}
	// Simulate a window size so View doesn't short-circuit.
	c.width = 80
	c.height = 24
	c.viewport.Width = 80
	c.viewport.Height = 23
	return c
}

func TestChat_ExitCommand(t *testing.T) {
	c := newTestChat()

	// Type "/exit" and press enter.
	c.input.SetValue("/exit")
	m, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_ = m

	if cmd == nil {
		t.Fatal("expected a command from /exit")
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestChat_QuitCommand(t *testing.T) {
	c := newTestChat()

	c.input.SetValue("/quit")
	m, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_ = m

	if cmd == nil {
		t.Fatal("expected a command from /quit")
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestChat_CtrlC_InputState(t *testing.T) {
	c := newTestChat()

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a command from ctrl+c")
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestChat_CtrlC_TurnState(t *testing.T) {
	c := newTestChat()
	c.state = chatTurnState

	m, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	chat := m.(*Chat)
	if chat.state != chatInputState {
		t.Errorf("expected chatInputState, got %d", chat.state)
	}
	// Should not quit, just cancel the running turn.
	if cmd != nil {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			t.Error("ctrl+c during a turn should not quit")
		}
	}
}

func TestChat_EmptyInput_Ignored(t *testing.T) {
	c := newTestChat()

	c.input.SetValue("")
	m, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	chat := m.(*Chat)
	if chat.state != chatInputState {
		t.Errorf("expected state to remain chatInputState, got %d", chat.state)
	}
	if cmd != nil {
		t.Error("expected no command for empty input")
	}
}

func TestChat_WhitespaceInput_Ignored(t *testing.T) {
	c := newTestChat()

	c.input.SetValue("   ")
	m, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	chat := m.(*Chat)
	if chat.state != chatInputState {
		t.Errorf("expected state to remain chatInputState, got %d", chat.state)
	}
	if cmd != nil {
		t.Error("expected no command for whitespace input")
	}
}

func TestChat_SubmitInput_TransitionsToTurn(t *testing.T) {
	c := newTestChat()

	// Simulate receiving a submit message.
	m, cmd := c.Update(chatSubmitMsg{prompt: "research acme corp"})
	chat := m.(*Chat)

	if chat.state != chatTurnState {
		t.Errorf("expected chatTurnState, got %d", chat.state)
	}
	if cmd == nil {
		t.Fatal("expected a command to start the turn")
	}
}

func TestChat_FinishTurn_CallsSaveFn(t *testing.T) {
	saved := false
	c := newTestChat(func(c *Chat) {
		c.saveFn = func(msgs []cache.Message) error {
			saved = true
			return nil
		}
	})

	c.transcript = []cache.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "response text"},
	}
	c.finishTurn("response text")

	if !saved {
		t.Error("expected saveFn to be called")
	}
	if !strings.Contains(c.historyBuf.String(), "response text") {
		t.Error("expected reply appended to history buffer")
	}
}

func TestChat_Reply_ReturnsToInput(t *testing.T) {
	c := newTestChat()
	c.state = chatTurnState

	reply := chatReplyMsg{
		reply: "hello",
		transcript: []cache.Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	}

	m, _ := c.Update(reply)
	chat := m.(*Chat)

	if chat.state != chatInputState {
		t.Errorf("expected chatInputState after reply, got %d", chat.state)
	}
	if len(chat.transcript) != 2 {
		t.Errorf("expected transcript length 2, got %d", len(chat.transcript))
	}
}

func TestChat_ResumedTranscriptRebuildsHistory(t *testing.T) {
	r := lipgloss.DefaultRenderer()
	cfg := &config.Config{Settings: config.Settings{WordWrap: 80, Quiet: true}}
	resumed := []cache.Message{
		{Role: "user", Content: "research acme corp"},
		{Role: "tool", Content: "raw tool output"},
		{Role: "assistant", Content: "the report"},
	}
	chat := NewChat(context.Background(), r, cfg, nil, resumed, nil, "")

	// Tool output stays out of the replayed input list.
	if len(chat.history) != 2 {
		t.Fatalf("expected 2 replayed input items, got %d", len(chat.history))
	}
	if !strings.Contains(chat.historyBuf.String(), "the report") {
		t.Error("expected resumed transcript rendered into history buffer")
	}
}

func TestChat_InitialPrompt(t *testing.T) {
	c := newTestChat(func(c *Chat) {
		c.initialPrompt = "hello world"
	})

	cmd := c.Init()
	if cmd == nil {
		t.Fatal("expected init command")
	}
}

func TestChat_ViewShowsWaitingStatusDuringTurn(t *testing.T) {
	c := newTestChat()
	c.state = chatTurnState
	c.waitingSince = time.Now().Add(-3 * time.Second)
	c.historyBuf.WriteString("> hi\n\n")
	c.refreshViewport()

	v := c.View()
	if !strings.Contains(v, "Waiting for response...") {
		t.Fatalf("expected waiting status in view, got: %q", v)
	}
}

func TestChat_WaitingStatusIncludesElapsedClock(t *testing.T) {
	c := newTestChat()
	now := time.Date(2026, time.February, 16, 12, 0, 0, 0, time.UTC)
	c.waitingSince = now.Add(-(1*time.Minute + 15*time.Second))

	status := c.waitingStatus(now)
	if !strings.Contains(status, "[01:15]") {
		t.Fatalf("expected stopwatch in waiting status, got: %q", status)
	}
}
