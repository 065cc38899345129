package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PageFit/internal/engine"
)

// layoutCommand computes a layout and writes it as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   engineFlags
		output  string
		compare bool
	)

	cmd := &cobra.Command{
		Use:   "layout <file>...",
		Short: "Compute a page layout from image lists",
		Long: `Compute a page layout from one or more image lists (CSV, Excel, YAML/JSON,
DXF or a saved .pagefit project) and write it as JSON.

With --compare every catalog strategy is listed with its page count and score;
the winner is marked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.apply(cmd, c.config)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args, opts, output, compare)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&compare, "compare", false, "print every strategy's result")
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, paths []string, opts engine.Options, output string, compare bool) error {
	in, err := c.readInputs(paths)
	if err != nil {
		return err
	}

	if compare {
		results := engine.CompareStrategies(in.images, opts.Catalog, opts.Page, opts.Oversize)
		best := engine.BestResult(results)
		printTitle(c.out, "Strategies")
		for i, r := range results {
			printStrategyRow(c.out, r.Strategy.String(), r.Pages, r.Score, r.Efficiency, i == best)
		}
		if output == "" {
			return nil
		}
	}

	result, err := c.compute(ctx, in, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result.Layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if output == "" {
		_, err = fmt.Fprintln(c.out, string(data))
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess(c.out, "Layout complete")
	printFile(c.out, output)
	c.printSummary(result, in.manual == nil)
	return nil
}

// printSummary prints layout statistics; the strategy only for computed layouts.
func (c *CLI) printSummary(result engine.StrategyResult, computed bool) {
	if computed && len(result.Layout.Pages) > 0 {
		printKeyValue(c.out, "strategy", result.Strategy.String())
	}
	printKeyValue(c.out, "pages", fmt.Sprintf("%d", len(result.Layout.Pages)))
	printKeyValue(c.out, "images", fmt.Sprintf("%d", result.Layout.ImageCount()))
	printKeyValue(c.out, "score", fmt.Sprintf("%.2f", result.Score))
	printKeyValue(c.out, "efficiency", fmt.Sprintf("%.1f%%", result.Efficiency))
	for _, r := range result.Layout.Rejected {
		printWarning(c.out, "%s (%.2f x %.2f): %s", r.Image.Label, r.Image.Width, r.Image.Height, r.Reason)
	}
}
