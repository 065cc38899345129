package engine

import "github.com/piwi3910/PageFit/internal/model"

// ReasonExceedsPrintArea is recorded for images rejected under OversizeReject.
const ReasonExceedsPrintArea = "exceeds print area"

// maxAttempts bounds how often one image is retried: once on the current
// page and once on a fresh page.
const maxAttempts = 2

// packConfig is everything a single packing run needs besides the images.
type packConfig struct {
	heuristic Heuristic
	area      model.Rect
	oversize  model.OversizePolicy
}

// packState is the accumulator threaded through the packing fold. Steps
// return a new state and leave the previous one untouched.
type packState struct {
	pages    []model.Page
	current  []model.PlacedImage
	free     freeSpace
	rejected []model.Rejection
}

func initialState(area model.Rect) packState {
	return packState{free: newFreeSpace(area)}
}

// closePage appends the current page, if it holds anything, and resets the
// free space to the full print area.
func (s packState) closePage(area model.Rect) packState {
	next := packState{
		pages:    s.pages,
		free:     newFreeSpace(area),
		rejected: s.rejected,
	}
	if len(s.current) > 0 {
		idx := len(s.pages)
		images := make([]model.PlacedImage, len(s.current))
		for i, p := range s.current {
			p.PageIndex = idx
			images[i] = p
		}
		next.pages = append(cloneSlice(s.pages), model.Page{Index: idx, Images: images})
	}
	return next
}

// withPlacement adds p to the current page and carves it out of the free space.
func (s packState) withPlacement(p model.PlacedImage) packState {
	return packState{
		pages:    s.pages,
		current:  append(cloneSlice(s.current), p),
		free:     s.free.place(p.Footprint()),
		rejected: s.rejected,
	}
}

func (s packState) withRejection(img model.Image, reason string) packState {
	next := s
	next.rejected = append(cloneSlice(s.rejected), model.Rejection{Image: img, Reason: reason})
	return next
}

// step places one image, starting new pages as needed.
func (s packState) step(img model.Image, cfg packConfig) packState {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if best, ok := findBest(s.free.rects, img, cfg.heuristic); ok {
			placed := model.PlacedImage{
				Image:         img,
				X:             best.rect.X,
				Y:             best.rect.Y,
				PageIndex:     len(s.pages),
				Rotated:       best.rotated,
				DisplayWidth:  best.rect.Width,
				DisplayHeight: best.rect.Height,
			}
			return s.withPlacement(placed)
		}

		if s.free.pristine(cfg.area) {
			return s.oversized(img, cfg)
		}
		s = s.closePage(cfg.area)
	}
	return s
}

// oversized handles an image that fits nowhere on an empty page.
func (s packState) oversized(img model.Image, cfg packConfig) packState {
	if cfg.oversize == model.OversizeReject {
		return s.withRejection(img, ReasonExceedsPrintArea)
	}

	rotated := img.Width > cfg.area.Width && img.Height <= cfg.area.Width
	forced := model.Place(img, 0, 0, rotated)
	forced.PageIndex = len(s.pages)

	next := packState{
		pages:    s.pages,
		current:  append(cloneSlice(s.current), forced),
		free:     s.free,
		rejected: s.rejected,
	}
	return next.closePage(cfg.area)
}

// finish closes the last page and returns the layout.
func (s packState) finish(area model.Rect) model.Layout {
	done := s.closePage(area)
	pages := done.pages
	if pages == nil {
		pages = []model.Page{}
	}
	return model.Layout{Pages: pages, Rejected: done.rejected}
}

// Pack lays images out with a single strategy.
func Pack(images []model.Image, strategy Strategy, spec model.PageSpec, oversize model.OversizePolicy) model.Layout {
	return packOrdered(sortImages(images, strategy.Sort), packConfig{
		heuristic: strategy.Heuristic,
		area:      spec.PrintArea(),
		oversize:  oversize,
	})
}

// packOrdered folds over images in the given order.
func packOrdered(images []model.Image, cfg packConfig) model.Layout {
	state := initialState(cfg.area)
	for _, img := range images {
		state = state.step(img, cfg)
	}
	return state.finish(cfg.area)
}

func cloneSlice[T any](s []T) []T {
	return append([]T(nil), s...)
}
