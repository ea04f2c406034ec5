// Package export renders runs to image files.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Size()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ccff">
`, width, height, width, height)

	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

var legColors = map[gait.Leg]string{
	gait.Right: "#00ccff",
	gait.Left:  "#ff66cc",
}

// CoPPathSVG draws the ground-plane centre-of-pressure paths of both feet,
// X to the right and Z down. Each stance becomes its own polyline.
func CoPPathSVG(outputs []grfm.Output, width, height int) string {
	v := viz.FitViewport(outputs, 0.05)
	sx := float64(width) / (v.MaxX - v.MinX)
	sz := float64(height) / (v.MaxZ - v.MinZ)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, leg := range []gait.Leg{gait.Right, gait.Left} {
		var path []string
		flush := func() {
			if len(path) > 1 {
				fmt.Fprintf(&sb, "<polyline fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" points=\"%s\"/>\n",
					legColors[leg], strings.Join(path, " "))
			}
			path = path[:0]
		}
		for _, o := range outputs {
			r := o.Right
			if leg == gait.Left {
				r = o.Left
			}
			if r.IsZero() {
				flush()
				continue
			}
			x := (r.Point.X - v.MinX) * sx
			y := (r.Point.Z - v.MinZ) * sz
			path = append(path, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		flush()
	}

	sb.WriteString("</svg>")
	return sb.String()
}
