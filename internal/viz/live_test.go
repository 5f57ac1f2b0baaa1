package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/nbodysim/internal/models"
	"github.com/san-kum/nbodysim/internal/sim"
)

func newLive(t *testing.T, n int) Model {
	t.Helper()
	s, err := sim.New(models.NewDisc(models.DefaultConstants(), 9), nil, nil, sim.Config{SimRate: 10000}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Initialize(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	return NewModel(s, Options{FPS: 30, ViewRadius: models.MoonOrbit})
}

func press(m Model, key string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model)
}

func TestLiveMassKeys(t *testing.T) {
	m := newLive(t, 10)

	m = press(m, "m")
	if got, want := m.sim.Bodies().Mass(0), models.EarthMass*10; got < want*0.999 || got > want*1.001 {
		t.Errorf("mass after m = %g, want %g", got, want)
	}
	m = press(m, "n")
	m = press(m, "n")
	if got, want := m.sim.Bodies().Mass(0), models.EarthMass/10; got < want*0.999 || got > want*1.001 {
		t.Errorf("mass after m,n,n = %g, want %g", got, want)
	}
}

func TestLiveBodyCountKeys(t *testing.T) {
	m := newLive(t, 10)

	m = press(m, "]")
	if m.bodies != 20 || m.sim.Bodies().Len() != 20 {
		t.Errorf("after ] bodies = %d/%d, want 20", m.bodies, m.sim.Bodies().Len())
	}
	m = press(m, "[")
	m = press(m, "[")
	if m.bodies != 5 {
		t.Errorf("after [[ bodies = %d, want 5", m.bodies)
	}
	old := m.sim.Bodies()
	m = press(m, "r")
	if m.sim.Bodies() == old || m.sim.Bodies().Len() != 5 {
		t.Error("r did not reinitialize")
	}
}

func TestLivePauseStopsTicks(t *testing.T) {
	m := newLive(t, 4)

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("tick did not schedule the next frame")
	}
	if m.sim.Ticks() != 1 {
		t.Fatalf("ticks = %d, want 1", m.sim.Ticks())
	}

	m = press(m, " ")
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.sim.Ticks() != 1 {
		t.Errorf("paused model ticked: %d", m.sim.Ticks())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view does not show PAUSED")
	}
}

func TestLiveQuit(t *testing.T) {
	m := newLive(t, 2)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestMenuStartsLive(t *testing.T) {
	var started string
	menu := NewMenu([]string{"binary", "disc"}, func(p string) (Model, error) {
		started = p
		return newLive(t, 3), nil
	})

	next, _ := menu.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	next, _ = next.(Menu).Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := next.(Menu)

	if started != "disc" {
		t.Errorf("started %q, want disc", started)
	}
	if m.live == nil {
		t.Fatal("menu did not switch to the live view")
	}
	if !strings.Contains(m.View(), "N-BODY") {
		t.Error("menu view is not the live view")
	}
}
