package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Starter builds a live model for the named preset.
type Starter func(preset string) (Model, error)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuItem     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var presetInfo = map[string]string{
	"disc":      "400 bodies, thin disc",
	"dense":     "2000 bodies, flat disc",
	"sparse":    "60 bodies, thick disc",
	"binary":    "two earths in orbit",
	"earthmoon": "moon on a circular orbit",
}

// Menu lets the user pick a preset before the live view starts.
type Menu struct {
	presets []string
	cursor  int
	start   Starter
	live    *Model
	err     error
}

func NewMenu(presets []string, start Starter) Menu {
	return Menu{presets: presets, start: start}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.presets) == 0 {
			return m, nil
		}
		live, err := m.start(m.presets[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live = &live
		return m, live.Init()
	}
	return m, nil
}

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("NBODYSIM") + "\n    " + menuSub.Render("gravitational n-body integrator") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-12s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuItem.Render(fmt.Sprintf("  %-12s", name)), menuItem.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuSub.Render(" navigate  ") + menuKey.Render("enter") + menuSub.Render(" start  ") + menuKey.Render("q") + menuSub.Render(" quit") + "\n")
	return b.String()
}

// RunMenu starts the preset picker on the alternate screen.
func RunMenu(m Menu) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
