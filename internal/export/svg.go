package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/fieldtrace/internal/analysis"
)

// TraceToSVG draws a projection as one path per defined segment, so
// undefined slots break the line.
func TraceToSVG(proj *analysis.Projection, width, height int, strokeColor string) string {
	if proj == nil || len(proj.Points()) < 2 {
		return ""
	}

	minX, maxX, minY, maxY := proj.Extent()
	rangeX := maxX - minX
	rangeY := maxY - minY

	toSVG := func(p analysis.Point2D) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, seg := range proj.Segments {
		if len(seg) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
		for i, p := range seg {
			x, y := toSVG(p)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
