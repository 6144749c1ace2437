package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/scout/internal/present"
)

const (
	animFPS          = 12
	defaultFanciness = 10
	animDotChar      = "."
)

type animTickMsg time.Time

// anim renders the "Researching..." line shown while waiting for the first
// streamed content. Fanciness controls how many animated dots trail the
// status text.
type anim struct {
	label string
	dots  int
	frame int
	ramp  []lipgloss.Style
	ellip lipgloss.Style
}

func newAnim(fanciness uint, label string, r *lipgloss.Renderer, s present.Styles) tea.Model {
	n := int(fanciness)
	if n == 0 {
		n = defaultFanciness
	}
	a := anim{
		label: s.Comment.Render(label),
		dots:  n,
		ellip: r.NewStyle().Faint(true),
	}
	for _, color := range present.MakeGradientRamp(n) {
		a.ramp = append(a.ramp, r.NewStyle().Foreground(color))
	}
	return a
}

// Init implements tea.Model.
func (a anim) Init() tea.Cmd {
	return a.tick()
}

// Update implements tea.Model.
func (a anim) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(animTickMsg); ok {
		a.frame++
		return a, a.tick()
	}
	return a, nil
}

// View implements tea.Model.
func (a anim) View() string {
	var b strings.Builder
	b.WriteString(a.label)
	for i := 0; i < a.dots; i++ {
		// Light up one dot at a time, sweeping across the ramp.
		if (a.frame+i)%a.dots == 0 {
			b.WriteString(a.ramp[i%len(a.ramp)].Render(animDotChar))
		} else {
			b.WriteString(a.ellip.Render(animDotChar))
		}
	}
	return b.String()
}

func (a anim) tick() tea.Cmd {
	return tea.Tick(time.Second/animFPS, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}
