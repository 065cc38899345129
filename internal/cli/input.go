package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/importer"
	"github.com/piwi3910/PageFit/internal/model"
	"github.com/piwi3910/PageFit/internal/project"
)

// input is what commands compute from: the images and, for projects edited
// by hand, the stored layout.
type input struct {
	images []model.Image
	manual *model.Layout
}

// readInputs merges every file into one image set. Import errors are logged
// and skipped; it fails only when nothing usable was read.
func (c *CLI) readInputs(paths []string) (input, error) {
	var in input
	var failures int
	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), project.FileExtension) {
			proj, err := project.Load(path)
			if err != nil {
				return input{}, err
			}
			in.images = append(in.images, proj.Images...)
			if proj.Manual && proj.Layout != nil && len(paths) == 1 {
				in.manual = proj.Layout
			}
			continue
		}

		result := importer.ImportFile(path)
		for _, w := range result.Warnings {
			c.Logger.Debug(w, "file", path)
		}
		for _, e := range result.Errors {
			c.Logger.Warn(e, "file", path)
		}
		failures += len(result.Errors)
		in.images = append(in.images, result.Images...)
		c.Logger.Debug("imported", "file", path, "images", len(result.Images))
	}
	if len(in.images) == 0 {
		if failures > 0 {
			return input{}, fmt.Errorf("no images imported (%d errors)", failures)
		}
		return input{}, errors.New("no images given")
	}
	return in, nil
}

// compute returns the stored manual layout or runs the engine.
func (c *CLI) compute(ctx context.Context, in input, opts engine.Options) (engine.StrategyResult, error) {
	if in.manual != nil {
		c.Logger.Info("using manual layout from project")
		return engine.StrategyResult{
			Layout:     *in.manual,
			Score:      engine.Score(*in.manual),
			Pages:      len(in.manual.Pages),
			Efficiency: in.manual.TotalEfficiency(opts.Page),
			Rejected:   len(in.manual.Rejected),
		}, nil
	}

	p := newProgress(c.Logger)
	result, err := engine.New(opts, c.Logger).Search(ctx, in.images)
	if err != nil {
		return engine.StrategyResult{}, fmt.Errorf("compute layout: %w", err)
	}
	p.done("layout computed", "images", len(in.images), "pages", len(result.Layout.Pages))
	return result, nil
}
