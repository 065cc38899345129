package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PageFit/internal/model"
)

const (
	sheetPlacements = "Placements"
	sheetPages      = "Pages"
	sheetRejected   = "Rejected"
)

// ExportReport writes a spreadsheet summary of the layout.
func ExportReport(path string, layout model.Layout, spec model.PageSpec) error {
	f, err := buildReport(layout, spec)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteReport streams the spreadsheet summary to w.
func WriteReport(w io.Writer, layout model.Layout, spec model.PageSpec) error {
	f, err := buildReport(layout, spec)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func buildReport(layout model.Layout, spec model.PageSpec) (*excelize.File, error) {
	if spec.IsZero() {
		spec = model.A4
	}
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), sheetPlacements); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetPages); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	var placements [][]interface{}
	for _, page := range layout.Pages {
		for _, img := range page.Images {
			placements = append(placements, []interface{}{
				page.Index + 1, img.ID, img.Label, img.X, img.Y,
				img.DisplayWidth, img.DisplayHeight, img.Rotated,
			})
		}
	}
	if err := writeTable(f, sheetPlacements, header,
		[]interface{}{"Page", "ID", "Label", "X (cm)", "Y (cm)", "Width (cm)", "Height (cm)", "Rotated"},
		placements); err != nil {
		return nil, err
	}

	var pages [][]interface{}
	for _, page := range layout.Pages {
		pages = append(pages, []interface{}{
			page.Index + 1, len(page.Images), round2(page.UsedArea()),
			round2(page.Efficiency(spec)), round2(page.MaxBottom()),
		})
	}
	pages = append(pages, []interface{}{
		"Total", layout.ImageCount(), "", round2(layout.TotalEfficiency(spec)), "",
	})
	if err := writeTable(f, sheetPages, header,
		[]interface{}{"Page", "Images", "Used area (cm²)", "Efficiency (%)", "Max bottom (cm)"},
		pages); err != nil {
		return nil, err
	}

	if len(layout.Rejected) > 0 {
		if _, err := f.NewSheet(sheetRejected); err != nil {
			return nil, err
		}
		var rows [][]interface{}
		for _, r := range layout.Rejected {
			rows = append(rows, []interface{}{r.Image.ID, r.Image.Label, r.Image.Width, r.Image.Height, r.Reason})
		}
		if err := writeTable(f, sheetRejected, header,
			[]interface{}{"ID", "Label", "Width (cm)", "Height (cm)", "Reason"}, rows); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeTable(f *excelize.File, sheet string, style int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return model.RoundDim(v)
}
