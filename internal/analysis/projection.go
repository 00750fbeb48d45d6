package analysis

import (
	"strings"

	"github.com/san-kum/fieldtrace/internal/trace"
)

type Point2D struct{ X, Y float64 }

// Projection is a result flattened onto two axes. Each defined run becomes
// its own segment.
type Projection struct {
	XIndex, YIndex int
	Segments       [][]Point2D
}

// NewProjection projects res onto axes xIdx and yIdx. It returns nil when
// either index is outside the result's dimension.
func NewProjection(res *trace.Result, xIdx, yIdx int) *Projection {
	if res == nil || len(res.Points) == 0 {
		return nil
	}
	m := len(res.Points[0])
	if xIdx < 0 || yIdx < 0 || xIdx >= m || yIdx >= m {
		return nil
	}

	proj := &Projection{XIndex: xIdx, YIndex: yIdx}
	for _, run := range res.Runs() {
		seg := make([]Point2D, 0, run[1]-run[0]+1)
		for i := run[0]; i <= run[1]; i++ {
			p := res.Points[i]
			seg = append(seg, Point2D{X: p[xIdx], Y: p[yIdx]})
		}
		proj.Segments = append(proj.Segments, seg)
	}
	return proj
}

// Points returns every projected point, segments concatenated.
func (p *Projection) Points() []Point2D {
	var out []Point2D
	for _, seg := range p.Segments {
		out = append(out, seg...)
	}
	return out
}

// Extent returns the bounding box of the projection with 10% padding on
// each side. Degenerate axes get a unit range.
func (p *Projection) Extent() (minX, maxX, minY, maxY float64) {
	points := p.Points()
	if len(points) == 0 {
		return 0, 1, 0, 1
	}
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, pt := range points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}

// ProjectionToASCII draws the projection with axes through the origin when
// visible. Segment ends are drawn with '•'.
func ProjectionToASCII(proj *Projection, width, height int) string {
	if proj == nil || len(proj.Segments) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := proj.Extent()
	rangeX := maxX - minX
	rangeY := maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, seg := range proj.Segments {
		for i, p := range seg {
			col := int((p.X - minX) / rangeX * float64(width-1))
			row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
			if row < 0 || row >= height || col < 0 || col >= width {
				continue
			}
			mark := '·'
			if i == 0 || i == len(seg)-1 {
				mark = '•'
			}
			canvas[row][col] = mark
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
