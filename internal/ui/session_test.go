package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PageFit/internal/editor"
	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/model"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(engine.New(engine.DefaultOptions(), nil))
}

func square(id string, side float64) model.Image {
	return model.Image{ID: id, Label: id, Width: side, Height: side}
}

func TestSession_AddImagesRecomputes(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 5)))

	assert.Len(t, s.Layout.Pages, 1)
	assert.Equal(t, 2, s.Layout.ImageCount())
	assert.NotEmpty(t, s.Strategy)
	assert.NotEqual(t, manualStrategy, s.Strategy)
	assert.False(t, s.Project.Manual)
	assert.True(t, s.History().CanUndo())
}

func TestSession_AddInvalidImageLeavesStateUntouched(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5)))

	err := s.AddImages(model.Image{ID: "bad", Width: 0, Height: 4})
	require.ErrorIs(t, err, model.ErrInvalidDimensions)
	assert.Len(t, s.Project.Images, 1)

	require.True(t, s.Undo())
	assert.Empty(t, s.Project.Images)
	assert.False(t, s.History().CanUndo(), "failed add must not push history")
}

func TestSession_AddNormalizesDimensions(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(model.Image{ID: "a", Width: 5.004, Height: 3.996}))
	assert.Equal(t, 5.0, s.Project.Images[0].Width)
	assert.Equal(t, 4.0, s.Project.Images[0].Height)
}

func TestSession_MoveMarksManual(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 5)))
	_, page, ok := s.Locate("b")
	require.True(t, ok)

	require.NoError(t, s.Move(page, "b", 10, 10))
	moved, _, _ := s.Locate("b")
	assert.Equal(t, 10.0, moved.X)
	assert.Equal(t, 10.0, moved.Y)
	assert.True(t, s.Project.Manual)
	assert.Equal(t, manualStrategy, s.Strategy)
}

func TestSession_MoveOntoNeighbourRejected(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 5)))
	a, page, _ := s.Locate("a")
	before := s.Layout.Clone()

	err := s.Move(page, "b", a.X, a.Y)
	require.ErrorIs(t, err, editor.ErrOverlaps)
	assert.Equal(t, before, s.Layout)
	assert.False(t, s.Project.Manual)
}

func TestSession_RotateTooWideRejected(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(model.Image{ID: "tall", Label: "tall", Width: 19, Height: 25}))
	img, page, ok := s.Locate("tall")
	require.True(t, ok)
	require.False(t, img.Rotated)

	err := s.Rotate(page, "tall")
	assert.ErrorIs(t, err, editor.ErrExceedsPrintArea)
}

func TestSession_RotateInPlace(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(model.Image{ID: "card", Label: "card", Width: 8, Height: 4}))
	before, page, _ := s.Locate("card")

	require.NoError(t, s.Rotate(page, "card"))
	after, _, _ := s.Locate("card")
	assert.NotEqual(t, before.Rotated, after.Rotated)
	assert.Equal(t, before.DisplayWidth, after.DisplayHeight)
	assert.Equal(t, before.DisplayHeight, after.DisplayWidth)
}

func TestSession_UndoRedoEdit(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 5)))
	original, page, _ := s.Locate("b")
	require.NoError(t, s.Move(page, "b", 12, 12))

	require.True(t, s.Undo())
	restored, _, _ := s.Locate("b")
	assert.Equal(t, original.X, restored.X)
	assert.Equal(t, original.Y, restored.Y)
	assert.False(t, s.Project.Manual)
	assert.NotEqual(t, manualStrategy, s.Strategy)

	require.True(t, s.Redo())
	redone, _, _ := s.Locate("b")
	assert.Equal(t, 12.0, redone.X)
	assert.True(t, s.Project.Manual)
}

func TestSession_ResetLayout(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 5)))
	computed := s.Layout.Clone()
	_, page, _ := s.Locate("b")
	require.NoError(t, s.Move(page, "b", 12, 12))

	require.NoError(t, s.ResetLayout())
	assert.Equal(t, computed, s.Layout)
	assert.False(t, s.Project.Manual)
}

func TestSession_ImageChangeDiscardsManualLayout(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 5)))
	_, page, _ := s.Locate("b")
	require.NoError(t, s.Move(page, "b", 12, 12))

	require.NoError(t, s.AddImages(square("c", 5)))
	assert.False(t, s.Project.Manual)
	assert.Equal(t, 3, s.Layout.ImageCount())
}

func TestSession_UpdateAndRemove(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 5)))

	require.NoError(t, s.UpdateImage(0, model.Image{ID: "ignored", Label: "big", Width: 10, Height: 6}))
	assert.Equal(t, "a", s.Project.Images[0].ID, "update keeps the ID")
	assert.Equal(t, 10.0, s.Project.Images[0].Width)

	require.NoError(t, s.RemoveImage(1))
	assert.Len(t, s.Project.Images, 1)
	assert.Equal(t, 1, s.Layout.ImageCount())

	assert.ErrorIs(t, s.RemoveImage(5), editor.ErrNotFound)
	assert.ErrorIs(t, s.UpdateImage(-1, square("x", 1)), editor.ErrNotFound)
}

func TestSession_ClearImages(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.ClearImages())
	assert.False(t, s.History().CanUndo())

	require.NoError(t, s.AddImages(square("a", 5)))
	require.NoError(t, s.ClearImages())
	assert.Empty(t, s.Layout.Pages)
	assert.Empty(t, s.Strategy)
}

func TestSession_LoadManualProjectKeepsLayout(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5)))
	manual := model.Layout{Pages: []model.Page{{
		Index:  0,
		Images: []model.PlacedImage{model.Place(square("a", 5), 7, 9, false)},
	}}}

	require.NoError(t, s.Load(model.Project{
		Name:   "saved",
		Images: []model.Image{square("a", 5)},
		Layout: &manual,
		Manual: true,
	}))
	img, _, ok := s.Locate("a")
	require.True(t, ok)
	assert.Equal(t, 7.0, img.X)
	assert.Equal(t, 9.0, img.Y)
	assert.Equal(t, manualStrategy, s.Strategy)
	assert.False(t, s.History().CanUndo(), "loading clears history")

	saved := s.SavedProject()
	require.NotNil(t, saved.Layout)
	assert.True(t, saved.Manual)
}

func TestSession_LoadAutomaticProjectRecomputes(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Load(model.Project{
		Name:   "auto",
		Images: []model.Image{square("a", 5), square("b", 5)},
	}))
	assert.Equal(t, 2, s.Layout.ImageCount())
	assert.Nil(t, s.SavedProject().Layout)
}

func TestSession_SetEngineAppliesOversizePolicy(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(model.Image{ID: "poster", Label: "poster", Width: 30, Height: 40}))
	assert.Len(t, s.Layout.Pages, 1, "force policy places oversized images")

	opts := engine.DefaultOptions()
	opts.Oversize = model.OversizeReject
	require.NoError(t, s.SetEngine(engine.New(opts, nil)))
	assert.Empty(t, s.Layout.Pages)
	assert.Len(t, s.Layout.Rejected, 1)
}

func TestSession_Compare(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5), square("b", 7)))

	results := s.Compare()
	require.Len(t, results, len(engine.DefaultCatalog()))
	assert.Equal(t, s.Score(), results[engine.BestResult(results)].Score)
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.AddImages(square("a", 5)))
	s.Reset()
	assert.Empty(t, s.Project.Images)
	assert.Empty(t, s.Layout.Pages)
	assert.Equal(t, "Untitled", s.Project.Name)
	assert.False(t, s.History().CanUndo())
}
