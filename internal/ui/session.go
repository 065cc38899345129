package ui

import (
	"context"
	"fmt"

	"github.com/piwi3910/PageFit/internal/editor"
	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/model"
)

// manualStrategy labels layouts that were edited by hand.
const manualStrategy = "manual"

// Session is the editable state behind the desktop window: the image set,
// its current layout and the undo history. It has no Fyne dependency.
type Session struct {
	Project  model.Project
	Layout   model.Layout
	Strategy string

	engine  *engine.Engine
	guard   editor.Guard
	history *History
}

// NewSession starts an empty project laid out with eng.
func NewSession(eng *engine.Engine) *Session {
	return &Session{
		Project: model.NewProject(),
		Layout:  model.Layout{Pages: []model.Page{}},
		engine:  eng,
		guard:   editor.NewGuard(eng.Options().Page),
		history: NewHistory(),
	}
}

// SetEngine swaps the engine after a settings change. An automatic layout is
// recomputed; a manual one is kept.
func (s *Session) SetEngine(eng *engine.Engine) error {
	s.engine = eng
	s.guard = editor.NewGuard(eng.Options().Page)
	if s.Project.Manual {
		return nil
	}
	return s.recompute(context.Background())
}

func (s *Session) Spec() model.PageSpec { return s.guard.Spec }

func (s *Session) History() *History { return s.history }

// Score returns the layout score of the current layout.
func (s *Session) Score() float64 { return engine.Score(s.Layout) }

func (s *Session) snapshot(label string) Snapshot {
	snap := MakeSnapshot(s.Project.Images, s.Layout, s.Project.Manual, label)
	snap.Strategy = s.Strategy
	return snap
}

func (s *Session) restore(snap Snapshot) {
	s.Project.Images = snap.Images
	s.Layout = snap.Layout
	s.Project.Manual = snap.Manual
	s.Strategy = snap.Strategy
}

// recompute lays out the image set from scratch and drops any manual edits.
func (s *Session) recompute(ctx context.Context) error {
	result, err := s.engine.Search(ctx, s.Project.Images)
	if err != nil {
		return err
	}
	s.Layout = result.Layout
	s.Project.Manual = false
	s.Strategy = ""
	if len(s.Project.Images) > 0 {
		s.Strategy = result.Strategy.String()
	}
	return nil
}

// changeImages applies fn to a copy of the image set, validates the result and
// recomputes the layout. Nothing changes when validation fails.
func (s *Session) changeImages(label string, fn func([]model.Image) []model.Image) error {
	next := fn(append([]model.Image(nil), s.Project.Images...))
	for i := range next {
		next[i] = model.Normalize(next[i])
		if err := model.Validate(next[i]); err != nil {
			return err
		}
	}

	before := s.snapshot(label)
	prev := s.Project.Images
	s.Project.Images = next
	if err := s.recompute(context.Background()); err != nil {
		s.Project.Images = prev
		return err
	}
	s.history.Push(before)
	return nil
}

// AddImages appends images and recomputes the layout.
func (s *Session) AddImages(images ...model.Image) error {
	if len(images) == 0 {
		return nil
	}
	label := "Add image"
	if len(images) > 1 {
		label = fmt.Sprintf("Add %d images", len(images))
	}
	return s.changeImages(label, func(cur []model.Image) []model.Image {
		return append(cur, images...)
	})
}

// UpdateImage replaces the image at idx, keeping its ID.
func (s *Session) UpdateImage(idx int, img model.Image) error {
	if idx < 0 || idx >= len(s.Project.Images) {
		return fmt.Errorf("image %d: %w", idx, editor.ErrNotFound)
	}
	return s.changeImages("Edit image", func(cur []model.Image) []model.Image {
		img.ID = cur[idx].ID
		cur[idx] = img
		return cur
	})
}

// RemoveImage deletes the image at idx.
func (s *Session) RemoveImage(idx int) error {
	if idx < 0 || idx >= len(s.Project.Images) {
		return fmt.Errorf("image %d: %w", idx, editor.ErrNotFound)
	}
	return s.changeImages("Remove image", func(cur []model.Image) []model.Image {
		return append(cur[:idx], cur[idx+1:]...)
	})
}

// ClearImages removes every image.
func (s *Session) ClearImages() error {
	if len(s.Project.Images) == 0 {
		return nil
	}
	return s.changeImages("Clear images", func([]model.Image) []model.Image {
		return []model.Image{}
	})
}

// edit commits a guarded layout change and marks the layout as manual.
func (s *Session) edit(label string, fn func(model.Layout) (model.Layout, error)) error {
	next, err := fn(s.Layout)
	if err != nil {
		return err
	}
	s.history.Push(s.snapshot(label))
	s.Layout = next
	s.Project.Manual = true
	s.Strategy = manualStrategy
	return nil
}

// Move repositions one image. Positions are clamped into the print area.
func (s *Session) Move(page int, id string, x, y float64) error {
	return s.edit("Move image", func(l model.Layout) (model.Layout, error) {
		return s.guard.Move(l, page, id, x, y)
	})
}

// Rotate turns one image by 90 degrees in place.
func (s *Session) Rotate(page int, id string) error {
	return s.edit("Rotate image", func(l model.Layout) (model.Layout, error) {
		return s.guard.Rotate(l, page, id)
	})
}

// ResetLayout discards manual edits and recomputes the layout.
func (s *Session) ResetLayout() error {
	if !s.Project.Manual {
		return nil
	}
	before := s.snapshot("Reset layout")
	if err := s.recompute(context.Background()); err != nil {
		return err
	}
	s.history.Push(before)
	return nil
}

// Undo restores the previous state. It reports false when there is nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo(s.snapshot("Undo"))
	if ok {
		s.restore(snap)
	}
	return ok
}

// Redo re-applies the last undone change.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo(s.snapshot("Redo"))
	if ok {
		s.restore(snap)
	}
	return ok
}

// Load replaces the session with proj. A manual layout stored in the project
// is kept as is; otherwise the layout is recomputed.
func (s *Session) Load(proj model.Project) error {
	prev := s.Project
	s.Project = proj
	if proj.Manual && proj.Layout != nil {
		s.Layout = proj.Layout.Clone()
		s.Strategy = manualStrategy
	} else if err := s.recompute(context.Background()); err != nil {
		s.Project = prev
		return err
	}
	s.Project.Layout = nil
	s.history.Clear()
	return nil
}

// Reset starts a new, empty project.
func (s *Session) Reset() {
	s.Project = model.NewProject()
	s.Layout = model.Layout{Pages: []model.Page{}}
	s.Strategy = ""
	s.history.Clear()
}

// SavedProject returns the project as it should be written to disk.
func (s *Session) SavedProject() model.Project {
	proj := s.Project
	proj.Images = append([]model.Image(nil), s.Project.Images...)
	proj.Layout = nil
	if proj.Manual {
		l := s.Layout.Clone()
		proj.Layout = &l
	}
	return proj
}

// Compare packs the image set with every catalog strategy.
func (s *Session) Compare() []engine.StrategyResult {
	opts := s.engine.Options()
	return engine.CompareStrategies(s.Project.Images, opts.Catalog, opts.Page, opts.Oversize)
}

// Locate returns the placed image with id and the index of its page.
func (s *Session) Locate(id string) (model.PlacedImage, int, bool) {
	for _, p := range s.Layout.Pages {
		if i := p.Find(id); i >= 0 {
			return p.Images[i], p.Index, true
		}
	}
	return model.PlacedImage{}, 0, false
}
