package export

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/viz"
)

const (
	background = "#0a0a0a"
	foreground = "#00ff00"
)

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
// Tinted cells keep their colour.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	sw, sh := canvas.Dots()
	var sb strings.Builder
	header(&sb, float64(sw)*scale, float64(sh)*scale)
	sb.WriteString(fmt.Sprintf("<g fill=%q>\n", foreground))

	dotRadius := scale * 0.4
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			if t := canvas.Tint[y/4][x/2]; t != nil {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, t.Hex()))
			} else {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SnapshotToSVG draws every visible instance as a circle in its own colour,
// far particles first. Radii below half a pixel are raised to stay visible.
func SnapshotToSVG(snap dynamo.Snapshot, cam *viz.Camera, width, height int) string {
	if cam == nil {
		return ""
	}

	type circle struct {
		x, y, r, depth float64
		fill           string
	}
	circles := make([]circle, 0, len(snap.Instances))
	for _, in := range snap.Instances {
		x, y, d, ok := cam.Project(in.Position, width, height)
		if !ok {
			continue
		}
		r := max(0.5, in.Radius*cam.UnitScale(d, width, height))
		circles = append(circles, circle{float64(x), float64(y), r, d, in.Color.Clamped().Hex()})
	}
	slices.SortFunc(circles, func(a, b circle) int { return cmp.Compare(a.depth, b.depth) })

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString("<g>\n")
	for _, c := range circles {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>
`, c.x, c.y, c.r, c.fill))
	}
	sb.WriteString(fmt.Sprintf("</g>\n<text x=\"8\" y=\"16\" fill=\"#888899\" font-family=\"monospace\" font-size=\"12\">tick %d  n=%d</text>\n</svg>",
		snap.Tick, len(snap.Instances)))
	return sb.String()
}

// SeriesToSVG plots values against their index as a single polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := slices.Min(values), slices.Max(values)

	// Add padding
	rangeX := float64(len(values) - 1)
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
