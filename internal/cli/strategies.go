package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/model"
)

func (c *CLI) strategiesCommand() *cobra.Command {
	var extended bool
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the strategy catalog in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := c.config.StrategySet
			if extended {
				set = model.StrategySetExtended
			}
			catalog, err := engine.CatalogFor(set)
			if err != nil {
				return err
			}
			for i, name := range catalog.Names() {
				fmt.Fprintf(c.out, "%2d  %s\n", i+1, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&extended, "extended", false, "include best-area-fit strategies")
	return cmd
}
