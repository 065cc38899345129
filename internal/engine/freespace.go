package engine

import "github.com/piwi3910/PageFit/internal/model"

// freeSpace tracks the maximal free rectangles of one page. It is a value:
// place never mutates the receiver, so every packing step can be inspected
// on its own.
type freeSpace struct {
	rects []model.Rect
}

func newFreeSpace(area model.Rect) freeSpace {
	return freeSpace{rects: []model.Rect{area}}
}

// Rects returns a copy of the current free rectangles.
func (fs freeSpace) Rects() []model.Rect {
	return append([]model.Rect(nil), fs.rects...)
}

// pristine reports whether nothing has been placed since the page was started.
func (fs freeSpace) pristine(area model.Rect) bool {
	return len(fs.rects) == 1 && fs.rects[0] == area
}

// place removes used from every free rectangle it intersects and returns the
// resulting tracker. Each intersected rectangle yields up to four full-span
// leftovers (above, below, left, right of used); the rest are kept as is.
func (fs freeSpace) place(used model.Rect) freeSpace {
	next := make([]model.Rect, 0, len(fs.rects)+4)

	for _, free := range fs.rects {
		if !model.Overlaps(used, free) {
			next = append(next, free)
			continue
		}
		next = append(next, splitAround(free, used)...)
	}

	return freeSpace{rects: pruneFree(next)}
}

// splitAround returns the parts of free that lie strictly outside used.
func splitAround(free, used model.Rect) []model.Rect {
	out := make([]model.Rect, 0, 4)

	if used.Y > free.Y && used.Y < free.Bottom() {
		out = append(out, model.Rect{X: free.X, Y: free.Y, Width: free.Width, Height: used.Y - free.Y})
	}
	if used.Bottom() < free.Bottom() {
		out = append(out, model.Rect{X: free.X, Y: used.Bottom(), Width: free.Width, Height: free.Bottom() - used.Bottom()})
	}
	if used.X > free.X && used.X < free.Right() {
		out = append(out, model.Rect{X: free.X, Y: free.Y, Width: used.X - free.X, Height: free.Height})
	}
	if used.Right() < free.Right() {
		out = append(out, model.Rect{X: used.Right(), Y: free.Y, Width: free.Right() - used.Right(), Height: free.Height})
	}

	return out
}

// pruneFree drops slivers thinner than model.MinFreeSide and every rectangle
// contained in another entry of rects. Identical rectangles contain each
// other, so duplicates are all dropped.
func pruneFree(rects []model.Rect) []model.Rect {
	kept := make([]model.Rect, 0, len(rects))
	for i, a := range rects {
		if a.Width < model.MinFreeSide || a.Height < model.MinFreeSide {
			continue
		}
		contained := false
		for j, b := range rects {
			if i != j && model.Contains(b, a) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}
