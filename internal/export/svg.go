package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/san-kum/nbodysim/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

// Braille dot-to-bit mapping
var dotMap = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG writes a Braille canvas as SVG, one circle per lit dot.
func CanvasToSVG(w io.Writer, canvas *viz.Canvas, scale float64, fill string) error {
	if canvas == nil {
		return nil
	}
	bw := bufio.NewWriter(w)

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := r - 0x2800

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

// TrajectoryToSVG draws a path through points seen from above, X to the
// right and Z down the page.
func TrajectoryToSVG(w io.Writer, points []r3.Vec, width, height int, strokeColor string) error {
	if len(points) < 2 {
		return fmt.Errorf("trajectory needs at least 2 points, got %d", len(points))
	}

	minX, maxX := points[0].X, points[0].X
	minZ, maxZ := points[0].Z, points[0].Z
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minZ, maxZ = min(minZ, p.Z), max(maxZ, p.Z)
	}

	rangeX, rangeZ := maxX-minX, maxZ-minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	minZ -= rangeZ * 0.1
	rangeX *= 1.2
	rangeZ *= 1.2

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Z - minZ) / rangeZ * float64(height)
		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
	}

	bw.WriteString("\"/>\n</svg>\n")
	return bw.Flush()
}
