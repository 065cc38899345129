package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PageFit/internal/model"
)

func TestFindBestHeuristics(t *testing.T) {
	tests := []struct {
		name        string
		free        []model.Rect
		w, h        float64
		heuristic   Heuristic
		wantX       float64
		wantY       float64
		wantRotated bool
	}{
		{
			name:      "top left prefers lowest y then x",
			free:      []model.Rect{{X: 10, Y: 0, Width: 10, Height: 10}, {X: 0, Y: 0, Width: 10, Height: 10}},
			w:         5, h: 5,
			heuristic: TopLeft,
			wantX:     0, wantY: 0,
		},
		{
			name:      "top right prefers largest x",
			free:      []model.Rect{{X: 0, Y: 0, Width: 10, Height: 10}, {X: 10, Y: 0, Width: 10, Height: 10}},
			w:         5, h: 5,
			heuristic: TopRight,
			wantX:     10, wantY: 0,
		},
		{
			name:      "top left row beats column",
			free:      []model.Rect{{X: 0, Y: 5, Width: 20, Height: 22.2}, {X: 5, Y: 0, Width: 15, Height: 27.2}},
			w:         5, h: 5,
			heuristic: TopLeft,
			wantX:     5, wantY: 0,
		},
		{
			name:      "best short side fit",
			free:      []model.Rect{{X: 0, Y: 0, Width: 10, Height: 10}, {X: 10, Y: 0, Width: 5, Height: 9.5}},
			w:         5, h: 9,
			heuristic: BestShortSideFit,
			wantX:     10, wantY: 0,
		},
		{
			name:      "best area fit",
			free:      []model.Rect{{X: 0, Y: 0, Width: 20, Height: 20}, {X: 0, Y: 20, Width: 6, Height: 6}},
			w:         5, h: 5,
			heuristic: BestAreaFit,
			wantX:     0, wantY: 20,
		},
		{
			name:        "rotation when only rotated fits",
			free:        []model.Rect{{X: 0, Y: 0, Width: 9, Height: 5}},
			w:           5, h: 9,
			heuristic:   TopLeft,
			wantRotated: true,
		},
		{
			name:      "tie keeps unrotated",
			free:      []model.Rect{{X: 0, Y: 0, Width: 5, Height: 5}},
			w:         4, h: 5,
			heuristic: TopLeft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := model.Image{ID: "x", Width: tt.w, Height: tt.h}
			best, ok := findBest(tt.free, img, tt.heuristic)
			require.True(t, ok)
			assert.Equal(t, tt.wantX, best.rect.X)
			assert.Equal(t, tt.wantY, best.rect.Y)
			assert.Equal(t, tt.wantRotated, best.rotated)
			if tt.wantRotated {
				assert.Equal(t, tt.h, best.rect.Width)
				assert.Equal(t, tt.w, best.rect.Height)
			} else {
				assert.Equal(t, tt.w, best.rect.Width)
				assert.Equal(t, tt.h, best.rect.Height)
			}
		})
	}
}

func TestFindBestNoFit(t *testing.T) {
	free := []model.Rect{{X: 0, Y: 0, Width: 4, Height: 4}}
	_, ok := findBest(free, model.Image{ID: "big", Width: 5, Height: 3}, TopLeft)
	assert.False(t, ok)

	_, ok = findBest(nil, model.Image{ID: "any", Width: 1, Height: 1}, TopLeft)
	assert.False(t, ok)
}

func TestFindBestExactFit(t *testing.T) {
	free := []model.Rect{model.A4.PrintArea()}
	best, ok := findBest(free, model.Image{ID: "full", Width: 20, Height: 27.2}, BestAreaFit)
	require.True(t, ok)
	assert.False(t, best.rotated)
	assert.Equal(t, 0.0, best.primary)
}

func TestScoreValues(t *testing.T) {
	free := model.Rect{X: 2, Y: 3, Width: 10, Height: 8}

	p, s := score(TopLeft, free, 4, 4)
	assert.Equal(t, []float64{3, 2}, []float64{p, s})

	p, s = score(TopRight, free, 4, 4)
	assert.Equal(t, []float64{3, -2}, []float64{p, s})

	p, s = score(BestShortSideFit, free, 4, 5)
	assert.Equal(t, []float64{3, 2}, []float64{p, s})

	p, s = score(BestAreaFit, free, 4, 5)
	assert.Equal(t, []float64{60, 2}, []float64{p, s})
}
