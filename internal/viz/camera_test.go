package viz

import (
	"testing"

	"github.com/san-kum/nbodysim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCameraProjectTargetAtCentre(t *testing.T) {
	cam := NewCamera(1000)
	cam.Follow(r3.Vec{X: 500, Y: -20, Z: 7})

	x, y, ok := cam.Project(cam.Target, 160, 96)
	if !ok || x != 80 || y != 48 {
		t.Errorf("target projected to (%d, %d, %v), want (80, 48, true)", x, y, ok)
	}
}

func TestCameraProjectScale(t *testing.T) {
	cam := &Camera{ViewRadius: 1000, Zoom: 1}

	// Half the short side is 48 pixels for 1000 km.
	x, _, ok := cam.Project(r3.Vec{X: 500}, 160, 96)
	if !ok || x != 80+24 {
		t.Errorf("x = %d, want %d", x, 80+24)
	}

	cam.ZoomIn()
	x, _, _ = cam.Project(r3.Vec{X: 500}, 160, 96)
	if x != 80+30 {
		t.Errorf("zoomed x = %d, want %d", x, 80+30)
	}

	if _, _, ok := cam.Project(r3.Vec{X: 5000}, 160, 96); ok {
		t.Error("far point reported on screen")
	}
}

func TestRenderFrame(t *testing.T) {
	c := NewCanvas(40, 12)
	cam := &Camera{ViewRadius: 100, Zoom: 1}
	frame := sim.Frame{Bodies: []sim.BodyView{
		{Radius: 10},
		{Position: r3.Vec{X: 50}, Radius: 0},
		{Position: r3.Vec{X: 1e6}},
	}}

	if got := RenderFrame(c, frame, cam); got != 2 {
		t.Errorf("visible = %d, want 2", got)
	}
	// 24 px per 100 km: the primary is a disc of radius 2.
	if !c.IsSet(40+2, 24) {
		t.Error("primary not drawn as a disc")
	}
	if !c.IsSet(40+12, 24) {
		t.Error("secondary not drawn")
	}
}
