package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PageFit/internal/model"
)

// DXFOptions controls how drawing units become centimeters.
type DXFOptions struct {
	Scale       float64 // Centimeters per drawing unit
	ArcSegments int
}

// DefaultDXFOptions assumes drawings in millimeters.
func DefaultDXFOptions() DXFOptions {
	return DXFOptions{Scale: 0.1, ArcSegments: 32}
}

type point struct{ x, y float64 }

// bounds accumulates the bounding box of a shape.
type bounds struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newBounds() bounds { return bounds{empty: true} }

func (b *bounds) add(p point) {
	if b.empty {
		b.minX, b.maxX, b.minY, b.maxY = p.x, p.x, p.y, p.y
		b.empty = false
		return
	}
	b.minX = math.Min(b.minX, p.x)
	b.maxX = math.Max(b.maxX, p.x)
	b.minY = math.Min(b.minY, p.y)
	b.maxY = math.Max(b.maxY, p.y)
}

func (b bounds) size() (w, h float64) {
	if b.empty {
		return 0, 0
	}
	return b.maxX - b.minX, b.maxY - b.minY
}

// ImportDXF turns every closed LWPOLYLINE and CIRCLE of a drawing into an
// image sized to the shape's bounding box. It is meant for sticker and
// cut-out sheets where the outline is the print size.
func ImportDXF(path string, opts DXFOptions) ImportResult {
	result := ImportResult{}
	if opts.Scale <= 0 {
		opts.Scale = DefaultDXFOptions().Scale
	}
	if opts.ArcSegments <= 0 {
		opts.ArcSegments = DefaultDXFOptions().ArcSegments
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []bounds
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			shapes = append(shapes, polylineBounds(e, opts.ArcSegments))
		case *entity.Circle:
			b := newBounds()
			b.add(point{e.Center[0] - e.Radius, e.Center[1] - e.Radius})
			b.add(point{e.Center[0] + e.Radius, e.Center[1] + e.Radius})
			shapes = append(shapes, b)
		default:
			// Other entity types carry no print outline
		}
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, b := range shapes {
		w, h := b.size()
		w, h = w*opts.Scale, h*opts.Scale
		if !model.ValidDim(model.RoundDim(w)) || !model.ValidDim(model.RoundDim(h)) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f cm)", w, h))
			continue
		}
		result.Images = append(result.Images, model.NewImage(fmt.Sprintf("DXF Shape %d", i+1), w, h))
	}
	return result
}

// polylineBounds includes the arcs described by vertex bulges.
func polylineBounds(lw *entity.LwPolyline, segments int) bounds {
	b := newBounds()
	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		cur := point{lw.Vertices[i][0], lw.Vertices[i][1]}
		b.add(cur)

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			continue
		}
		next := lw.Vertices[(i+1)%n]
		for _, p := range bulgeArcPoints(cur, point{next[0], next[1]}, bulge, segments) {
			b.add(p)
		}
	}
	return b
}

// bulgeArcPoints samples the arc between p1 and p2. The DXF bulge is the
// tangent of a quarter of the included angle; positive means counter-clockwise.
func bulgeArcPoints(p1, p2 point, bulge float64, segments int) []point {
	dx, dy := p2.x-p1.x, p2.y-p1.y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chord, dx/chord
	if bulge < 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx := (p1.x+p2.x)/2 + perpX*dist
	cy := (p1.y+p2.y)/2 + perpY*dist

	start := math.Atan2(p1.y-cy, p1.x-cx)
	end := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	}
	if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make([]point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := start + (end-start)*float64(i)/float64(segments)
		pts = append(pts, point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)})
	}
	return pts
}
