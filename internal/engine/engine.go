package engine

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PageFit/internal/model"
)

// Options configures a layout search.
type Options struct {
	Catalog   Catalog
	Page      model.PageSpec
	Oversize  model.OversizePolicy
	Algorithm model.Algorithm
	Workers   int // Strategies evaluated concurrently; values below 2 run sequentially
	Genetic   GeneticConfig
}

func DefaultOptions() Options {
	return Options{
		Catalog:   DefaultCatalog(),
		Page:      model.A4,
		Oversize:  model.OversizeForce,
		Algorithm: model.AlgorithmCatalog,
		Workers:   1,
		Genetic:   DefaultGeneticConfig(),
	}
}

// OptionsFromConfig maps the persisted app configuration onto engine options.
func OptionsFromConfig(cfg model.AppConfig) (Options, error) {
	opts := DefaultOptions()
	catalog, err := CatalogFor(cfg.StrategySet)
	if err != nil {
		return opts, err
	}
	opts.Catalog = catalog
	if cfg.OversizePolicy != "" {
		opts.Oversize = cfg.OversizePolicy
	}
	if cfg.Algorithm != "" {
		opts.Algorithm = cfg.Algorithm
	}
	if cfg.Workers > 0 {
		opts.Workers = cfg.Workers
	}
	return opts, nil
}

// Engine computes multi-page layouts.
type Engine struct {
	opts   Options
	logger *log.Logger
}

// New returns an engine. A nil logger discards all output.
func New(opts Options, logger *log.Logger) *Engine {
	if len(opts.Catalog) == 0 {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Page.IsZero() {
		opts.Page = model.A4
	}
	if opts.Oversize == "" {
		opts.Oversize = model.OversizeForce
	}
	if opts.Genetic.PopulationSize == 0 {
		opts.Genetic = DefaultGeneticConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{opts: opts, logger: logger}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Layout returns the most compact layout for images.
func (e *Engine) Layout(images []model.Image) model.Layout {
	layout, _ := e.LayoutContext(context.Background(), images)
	return layout
}

// LayoutContext is Layout with cancellation. The error is non-nil only when
// ctx is done before the search finishes.
func (e *Engine) LayoutContext(ctx context.Context, images []model.Image) (model.Layout, error) {
	result, err := e.Search(ctx, images)
	if err != nil {
		return model.Layout{}, err
	}
	return result.Layout, nil
}

// Search runs every catalog strategy and returns the winning result.
// Empty input yields an empty layout without packing anything.
func (e *Engine) Search(ctx context.Context, images []model.Image) (StrategyResult, error) {
	if len(images) == 0 {
		return StrategyResult{Layout: model.Layout{Pages: []model.Page{}}}, nil
	}

	normalized := normalizeAll(images)
	results, err := e.evaluate(ctx, normalized)
	if err != nil {
		return StrategyResult{}, err
	}

	best := results[BestResult(results)]
	e.logger.Debug("catalog search done",
		"strategy", best.Strategy.String(),
		"score", best.Score,
		"pages", best.Pages)

	if e.opts.Algorithm == model.AlgorithmGenetic {
		refined, err := e.refine(ctx, normalized, best)
		if err != nil {
			return StrategyResult{}, err
		}
		best = refined
	}
	return best, nil
}

// evaluate packs with every strategy. Results are stored by catalog index so
// the concurrent path picks the same winner as the sequential one.
func (e *Engine) evaluate(ctx context.Context, images []model.Image) ([]StrategyResult, error) {
	results := make([]StrategyResult, len(e.opts.Catalog))

	run := func(i int) {
		s := e.opts.Catalog[i]
		results[i] = newStrategyResult(s, Pack(images, s, e.opts.Page, e.opts.Oversize), e.opts.Page)
		e.logger.Debug("strategy evaluated", "strategy", s.String(), "score", results[i].Score)
	}

	if e.opts.Workers < 2 {
		for i := range e.opts.Catalog {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			run(i)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range e.opts.Catalog {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
