package engine

import (
	"math"

	"github.com/piwi3910/PageFit/internal/model"
)

// candidate is a scored position for an image inside one free rectangle.
type candidate struct {
	rect      model.Rect
	rotated   bool
	primary   float64
	secondary float64
}

// better reports whether c ranks strictly before other.
func (c candidate) better(other candidate) bool {
	if c.primary != other.primary {
		return c.primary < other.primary
	}
	return c.secondary < other.secondary
}

// score ranks placing a w x h footprint at the origin of free. Lower is better.
func score(h Heuristic, free model.Rect, w, ht float64) (float64, float64) {
	switch h {
	case TopRight:
		return free.Y, -free.X
	case BestShortSideFit:
		return math.Min(math.Abs(free.Width-w), math.Abs(free.Height-ht)), free.X
	case BestAreaFit:
		return free.Width*free.Height - w*ht, free.X
	default:
		return free.Y, free.X
	}
}

// findBest scans the free rectangles in order, trying each unrotated and then
// rotated, and returns the lowest scoring position. Exact ties keep the first.
func findBest(free []model.Rect, img model.Image, h Heuristic) (candidate, bool) {
	var best candidate
	found := false

	consider := func(f model.Rect, w, ht float64, rotated bool) {
		if f.Width < w || f.Height < ht {
			return
		}
		p, s := score(h, f, w, ht)
		c := candidate{
			rect:      model.Rect{X: f.X, Y: f.Y, Width: w, Height: ht},
			rotated:   rotated,
			primary:   p,
			secondary: s,
		}
		if !found || c.better(best) {
			best = c
			found = true
		}
	}

	for _, f := range free {
		consider(f, img.Width, img.Height, false)
		consider(f, img.Height, img.Width, true)
	}
	return best, found
}
