package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/export"
)

type exportFlags struct {
	output    string
	report    string
	sourceDir string
	qr        bool
	guide     bool
}

// exportCommand renders a layout to PDF.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags engineFlags
		ef    exportFlags
	)

	cmd := &cobra.Command{
		Use:   "export <file>...",
		Short: "Render the layout of image lists to a PDF",
		Long: `Compute the layout of one or more image lists and render it to a PDF, one
page per layout page. Images with a readable source are embedded; others are
drawn as labelled boxes. A .pagefit project edited by hand is exported as is.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.apply(cmd, c.config)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("qr") {
				ef.qr = c.config.EmbedManifestQR
			}
			if !cmd.Flags().Changed("print-area") {
				ef.guide = c.config.DrawPrintArea
			}
			return c.runExport(cmd.Context(), args, opts, ef)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&ef.output, "output", "o", "", "PDF file (default: <first input>.pdf)")
	cmd.Flags().StringVar(&ef.report, "report", "", "also write an xlsx report to this file")
	cmd.Flags().StringVar(&ef.sourceDir, "source-dir", "", "base directory for relative image sources (default: input directory)")
	cmd.Flags().BoolVar(&ef.qr, "qr", false, "embed a manifest QR code on every page")
	cmd.Flags().BoolVar(&ef.guide, "print-area", false, "outline the printable area")
	return cmd
}

func (c *CLI) runExport(ctx context.Context, paths []string, opts engine.Options, ef exportFlags) error {
	in, err := c.readInputs(paths)
	if err != nil {
		return err
	}
	result, err := c.compute(ctx, in, opts)
	if err != nil {
		return err
	}

	output := ef.output
	if output == "" {
		output = strings.TrimSuffix(paths[0], filepath.Ext(paths[0])) + ".pdf"
	}
	sourceDir := ef.sourceDir
	if sourceDir == "" {
		sourceDir = filepath.Dir(paths[0])
	}

	pdfOpts := export.PDFOptions{
		Spec:            opts.Page,
		DrawPrintArea:   ef.guide,
		EmbedManifestQR: ef.qr,
		SourceDir:       sourceDir,
	}
	if err := export.ExportPDF(output, result.Layout, pdfOpts); err != nil {
		return fmt.Errorf("write PDF %s: %w", output, err)
	}

	printSuccess(c.out, "Export complete")
	printFile(c.out, output)
	if ef.report != "" {
		if err := export.ExportReport(ef.report, result.Layout, opts.Page); err != nil {
			return fmt.Errorf("write report %s: %w", ef.report, err)
		}
		printFile(c.out, ef.report)
	}
	c.printSummary(result, in.manual == nil)
	return nil
}
