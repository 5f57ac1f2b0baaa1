package viz

import (
	"math"

	"github.com/san-kum/nbodysim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
)

// Camera is an orthographic view centred on Target. ViewRadius is the world
// distance, in km, from the centre to the nearest screen edge at zoom 1.
type Camera struct {
	Target     r3.Vec
	ViewRadius float64
	RotX, RotY float64
	Zoom       float64
}

// NewCamera looks down on the disc plane at a tilt.
func NewCamera(viewRadius float64) *Camera {
	return &Camera{ViewRadius: viewRadius, RotX: -1.1, Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(1000, c.Zoom*1.25) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.01, c.Zoom/1.25) }

// Follow retargets the camera, normally at body 0 every frame.
func (c *Camera) Follow(p r3.Vec) { c.Target = p }

// pixelsPerKm is the projection scale for a sw x sh sub-pixel surface.
func (c *Camera) pixelsPerKm(sw, sh int) float64 {
	half := float64(sw) / 2
	if h := float64(sh) / 2; h < half {
		half = h
	}
	if c.ViewRadius <= 0 {
		return 0
	}
	return half * c.Zoom / c.ViewRadius
}

// Project maps a world point to sub-pixel coordinates. The bool reports
// whether the point lands on the surface.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, bool) {
	rel := r3.Sub(p, c.Target)
	rel = r3.Rotate(rel, c.RotY, axisY)
	rel = r3.Rotate(rel, c.RotX, axisX)

	k := c.pixelsPerKm(sw, sh)
	sx := int(math.Round(rel.X*k)) + sw/2
	sy := int(math.Round(-rel.Y*k)) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// RenderFrame draws every body of a frame. Bodies whose projected radius
// reaches two sub-pixels are drawn as filled discs.
func RenderFrame(c *Canvas, f sim.Frame, cam *Camera) int {
	if c == nil || cam == nil {
		return 0
	}
	sw, sh := c.PixelSize()
	k := cam.pixelsPerKm(sw, sh)

	visible := 0
	for _, b := range f.Bodies {
		x, y, ok := cam.Project(b.Position, sw, sh)
		if !ok {
			continue
		}
		visible++
		if r := int(b.Radius * k); r >= 2 {
			c.FillDisc(x, y, min(r, sw+sh))
		} else {
			c.Set(x, y)
		}
	}
	return visible
}
