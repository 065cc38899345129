package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PageFit/internal/model"
)

func TestLayoutEmptyInput(t *testing.T) {
	e := New(DefaultOptions(), nil)

	layout := e.Layout(nil)
	assert.NotNil(t, layout.Pages)
	assert.Empty(t, layout.Pages)
	assert.Equal(t, 0.0, Score(layout))
}

func TestLayoutScenarios(t *testing.T) {
	e := New(DefaultOptions(), nil)

	t.Run("three small squares", func(t *testing.T) {
		layout := e.Layout(squares(3, 5))
		require.Len(t, layout.Pages, 1)
		require.Len(t, layout.Pages[0].Images, 3)
		for _, p := range layout.Pages[0].Images {
			assert.False(t, p.Rotated)
		}
		assertLayoutInvariants(t, squares(3, 5), layout)
	})

	t.Run("wide image rotated", func(t *testing.T) {
		layout := e.Layout([]model.Image{{ID: "wide", Width: 25, Height: 5}})
		require.Len(t, layout.Pages, 1)
		p := layout.Pages[0].Images[0]
		assert.True(t, p.Rotated)
		assert.Equal(t, 5.0, p.DisplayWidth)
		assert.Equal(t, 25.0, p.DisplayHeight)
	})

	t.Run("more than a page", func(t *testing.T) {
		layout := e.Layout(squares(6, 10))
		assert.GreaterOrEqual(t, len(layout.Pages), 2)
	})

	t.Run("exact print size", func(t *testing.T) {
		layout := e.Layout([]model.Image{{ID: "full", Width: 20, Height: 27.2}})
		require.Len(t, layout.Pages, 1)
		p := layout.Pages[0].Images[0]
		assert.Equal(t, 0.0, p.X)
		assert.Equal(t, 0.0, p.Y)
		assert.False(t, p.Rotated)
	})
}

func TestLayoutIsBestOfCatalog(t *testing.T) {
	for seed := int64(10); seed < 15; seed++ {
		images := randomImages(seed, 25, 14)
		e := New(DefaultOptions(), nil)

		best := Score(e.Layout(images))
		results := CompareStrategies(images, DefaultCatalog(), model.A4, model.OversizeForce)
		require.Len(t, results, 10)

		lowest := results[0].Score
		for _, r := range results {
			assert.LessOrEqual(t, best, r.Score, r.Strategy.String())
			lowest = min(lowest, r.Score)
		}
		assert.Equal(t, lowest, best)
	}
}

func TestLayoutPicksFirstOnTie(t *testing.T) {
	images := squares(3, 5)
	e := New(DefaultOptions(), nil)

	result, err := e.Search(context.Background(), images)
	require.NoError(t, err)

	results := CompareStrategies(images, DefaultCatalog(), model.A4, model.OversizeForce)
	assert.Equal(t, results[BestResult(results)].Strategy, result.Strategy)
	assert.Equal(t, DefaultCatalog()[0], result.Strategy)
}

func TestLayoutIsDeterministic(t *testing.T) {
	images := randomImages(3, 30, 12)
	e := New(DefaultOptions(), nil)
	assert.Equal(t, e.Layout(images), e.Layout(images))
}

func TestLayoutNormalizesDimensions(t *testing.T) {
	e := New(DefaultOptions(), nil)
	layout := e.Layout([]model.Image{{ID: "n", Width: 5.004, Height: 3.996}})

	require.Len(t, layout.Pages, 1)
	p := layout.Pages[0].Images[0]
	assert.Equal(t, 5.0, p.Width)
	assert.Equal(t, 4.0, p.Height)
}

func TestParallelSearchMatchesSequential(t *testing.T) {
	images := randomImages(21, 40, 13)

	seq := New(DefaultOptions(), nil)
	opts := DefaultOptions()
	opts.Workers = 4
	par := New(opts, nil)

	want, err := seq.Search(context.Background(), images)
	require.NoError(t, err)
	got, err := par.Search(context.Background(), images)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLayoutContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		opts := DefaultOptions()
		opts.Workers = workers
		_, err := New(opts, nil).LayoutContext(ctx, squares(4, 5))
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestGeneticRefinementNeverWorse(t *testing.T) {
	images := randomImages(5, 20, 11)

	catalog := New(DefaultOptions(), nil)
	base, err := catalog.Search(context.Background(), images)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Algorithm = model.AlgorithmGenetic
	opts.Genetic.PopulationSize = 12
	opts.Genetic.Generations = 8
	refined, err := New(opts, nil).Search(context.Background(), images)
	require.NoError(t, err)

	assert.LessOrEqual(t, refined.Score, base.Score)
	assertLayoutInvariants(t, images, refined.Layout)

	again, err := New(opts, nil).Search(context.Background(), images)
	require.NoError(t, err)
	assert.Equal(t, refined, again)
}

func TestGeneticSkipsTinyInputs(t *testing.T) {
	opts := DefaultOptions()
	opts.Algorithm = model.AlgorithmGenetic
	layout := New(opts, nil).Layout(squares(2, 5))
	require.Len(t, layout.Pages, 1)
	assert.Len(t, layout.Pages[0].Images, 2)
}

func TestOrderCrossoverKeepsPermutation(t *testing.T) {
	g := newGeneticSearch(DefaultGeneticConfig(), squares(8, 1), defaultConfig(TopLeft))
	p1 := chromosome{order: []int{0, 1, 2, 3, 4, 5, 6, 7}}
	p2 := chromosome{order: []int{7, 6, 5, 4, 3, 2, 1, 0}}

	for i := 0; i < 20; i++ {
		child := g.orderCrossover(p1, p2)
		g.mutate(&child)
		seen := make(map[int]bool)
		for _, idx := range child.order {
			seen[idx] = true
		}
		assert.Len(t, seen, 8)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	e := New(Options{}, nil)
	opts := e.Options()

	assert.Len(t, opts.Catalog, 10)
	assert.Equal(t, model.A4, opts.Page)
	assert.Equal(t, model.OversizeForce, opts.Oversize)
	assert.Equal(t, DefaultGeneticConfig(), opts.Genetic)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.StrategySet = model.StrategySetExtended
	cfg.OversizePolicy = model.OversizeReject
	cfg.Workers = 3

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Len(t, opts.Catalog, 12)
	assert.Equal(t, model.OversizeReject, opts.Oversize)
	assert.Equal(t, 3, opts.Workers)

	cfg.StrategySet = "unknown"
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}

func TestSearchLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	New(DefaultOptions(), logger).Layout(squares(2, 5))
	assert.Contains(t, buf.String(), "catalog search done")
}

func TestScore(t *testing.T) {
	layout := model.Layout{Pages: []model.Page{
		{Images: []model.PlacedImage{model.Place(model.Image{ID: "a", Width: 5, Height: 7}, 0, 3, false)}},
		{Images: []model.PlacedImage{model.Place(model.Image{ID: "b", Width: 5, Height: 7}, 0, 0, true)}},
	}}
	assert.Equal(t, 2*10000.0+10+5, Score(layout))
}
