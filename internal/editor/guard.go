// Package editor applies manual edits to a computed layout while keeping
// every image inside the print area and clear of its neighbours.
package editor

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PageFit/internal/model"
)

var (
	ErrExceedsPrintArea = errors.New("exceeds print area")
	ErrOverlaps         = errors.New("overlaps another image")
	ErrNotFound         = errors.New("image not found")
)

// Guard validates manual moves and rotations against one page geometry.
type Guard struct {
	Spec model.PageSpec
}

func NewGuard(spec model.PageSpec) Guard {
	if spec.IsZero() {
		spec = model.A4
	}
	return Guard{Spec: spec}
}

// DisplaySize returns the size an image occupies on the page, falling back to
// the image's own size when no display size was recorded.
func DisplaySize(p model.PlacedImage) (w, h float64) {
	w, h = p.DisplayWidth, p.DisplayHeight
	if w == 0 {
		w = p.Width
	}
	if h == 0 {
		h = p.Height
	}
	return w, h
}

// Clamp pulls the image's origin back inside the print area.
func (g Guard) Clamp(p model.PlacedImage, w, h float64) model.PlacedImage {
	maxX := max(0, g.Spec.PrintWidth()-w)
	maxY := max(0, g.Spec.PrintHeight()-h)
	p.X = min(max(p.X, 0), maxX)
	p.Y = min(max(p.Y, 0), maxY)
	return p
}

// Check validates candidate against the other images of its page and returns
// the clamped placement.
func (g Guard) Check(candidate model.PlacedImage, others []model.PlacedImage) (model.PlacedImage, error) {
	w, h := DisplaySize(candidate)
	if w > g.Spec.PrintWidth() || h > g.Spec.PrintHeight() {
		return candidate, fmt.Errorf("%s (%.2f x %.2f): %w", candidate.ID, w, h, ErrExceedsPrintArea)
	}

	clamped := g.Clamp(candidate, w, h)
	clamped.DisplayWidth, clamped.DisplayHeight = w, h
	fp := clamped.Footprint()
	for _, other := range others {
		ow, oh := DisplaySize(other)
		if model.Overlaps(fp, model.Rect{X: other.X, Y: other.Y, Width: ow, Height: oh}) {
			return candidate, fmt.Errorf("%s and %s: %w", candidate.ID, other.ID, ErrOverlaps)
		}
	}
	return clamped, nil
}

// Move places an image at a new position on its page.
func (g Guard) Move(layout model.Layout, pageIndex int, id string, x, y float64) (model.Layout, error) {
	return g.update(layout, pageIndex, id, func(p model.PlacedImage) model.PlacedImage {
		p.X, p.Y = x, y
		return p
	})
}

// Rotate toggles the 90 degree rotation of an image in place.
func (g Guard) Rotate(layout model.Layout, pageIndex int, id string) (model.Layout, error) {
	return g.update(layout, pageIndex, id, func(p model.PlacedImage) model.PlacedImage {
		return model.Place(p.Image, p.X, p.Y, !p.Rotated)
	})
}

// update runs fn on one image and commits the result only if the guard
// accepts it. The input layout is never modified.
func (g Guard) update(layout model.Layout, pageIndex int, id string, fn func(model.PlacedImage) model.PlacedImage) (model.Layout, error) {
	pi := -1
	for i, p := range layout.Pages {
		if p.Index == pageIndex {
			pi = i
			break
		}
	}
	if pi < 0 {
		return layout, fmt.Errorf("page %d: %w", pageIndex, ErrNotFound)
	}

	page := layout.Pages[pi]
	target := page.Find(id)
	if target < 0 {
		return layout, fmt.Errorf("%s on page %d: %w", id, pageIndex, ErrNotFound)
	}

	next := fn(page.Images[target])
	next.PageIndex = page.Index

	others := make([]model.PlacedImage, 0, len(page.Images)-1)
	others = append(others, page.Images[:target]...)
	others = append(others, page.Images[target+1:]...)

	checked, err := g.Check(next, others)
	if err != nil {
		return layout, err
	}

	out := layout.Clone()
	out.Pages[pi].Images[target] = checked
	return out, nil
}
