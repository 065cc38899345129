// Package export renders computed layouts to print-ready PDF documents and
// spreadsheet reports.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PageFit/internal/model"
)

// ErrEmptyLayout is returned when there is nothing to render.
var ErrEmptyLayout = errors.New("layout has no pages")

// placeholderColors mirrors the palette of the page canvas widget.
var placeholderColors = []struct{ R, G, B int }{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
}

const (
	qrSide       = 0.9 // cm
	footerFontPt = 7
)

// PDFOptions controls document rendering.
type PDFOptions struct {
	Spec            model.PageSpec
	DrawPrintArea   bool   // Dashed outline of the printable region
	EmbedManifestQR bool   // Per-page manifest QR code in the bottom margin
	SourceDir       string // Base for relative image sources
}

func (o PDFOptions) spec() model.PageSpec {
	if o.Spec.IsZero() {
		return model.A4
	}
	return o.Spec
}

// ExportPDF writes the layout to a PDF file, one document page per layout page.
func ExportPDF(path string, layout model.Layout, opts PDFOptions) error {
	pdf, err := buildPDF(layout, opts)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF streams the rendered document to w.
func WritePDF(w io.Writer, layout model.Layout, opts PDFOptions) error {
	pdf, err := buildPDF(layout, opts)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(layout model.Layout, opts PDFOptions) (*fpdf.Fpdf, error) {
	if len(layout.Pages) == 0 {
		return nil, ErrEmptyLayout
	}
	spec := opts.spec()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "cm",
		Size:           fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("PageFit", true)

	r := renderer{pdf: pdf, spec: spec, opts: opts, registered: map[string]string{}}
	for i, page := range layout.Pages {
		pdf.AddPage()
		if err := r.page(page, i+1, len(layout.Pages)); err != nil {
			return nil, fmt.Errorf("page %d: %w", page.Index, err)
		}
		if pdf.Err() {
			return nil, fmt.Errorf("page %d: %w", page.Index, pdf.Error())
		}
	}
	return pdf, nil
}

// renderer carries per-document state such as already registered pictures.
type renderer struct {
	pdf        *fpdf.Fpdf
	spec       model.PageSpec
	opts       PDFOptions
	registered map[string]string // source path -> fpdf image name, "" if unusable
}

func (r *renderer) page(page model.Page, num, total int) error {
	if r.opts.DrawPrintArea {
		r.pdf.SetDrawColor(180, 180, 180)
		r.pdf.SetLineWidth(0.01)
		r.pdf.SetDashPattern([]float64{0.2, 0.1}, 0)
		r.pdf.Rect(r.spec.MarginLeft, r.spec.MarginTop, r.spec.PrintWidth(), r.spec.PrintHeight(), "D")
		r.pdf.SetDashPattern([]float64{}, 0)
	}

	for i, img := range page.Images {
		x := r.spec.MarginLeft + img.X
		y := r.spec.MarginTop + img.Y
		if name := r.source(img.Source); name != "" {
			r.picture(name, img, x, y)
			continue
		}
		r.placeholder(img, i, x, y)
	}

	r.footer(num, total)
	if r.opts.EmbedManifestQR {
		return r.manifestQR(page)
	}
	return nil
}

// source registers the picture once and returns its image name, or "" when
// the file cannot be used.
func (r *renderer) source(src string) string {
	if src == "" {
		return ""
	}
	path := src
	if !filepath.IsAbs(path) && r.opts.SourceDir != "" {
		path = filepath.Join(r.opts.SourceDir, path)
	}
	if name, ok := r.registered[path]; ok {
		return name
	}

	data, kind, err := loadPicture(path)
	if err != nil {
		r.registered[path] = ""
		return ""
	}
	name := fmt.Sprintf("img%d", len(r.registered))
	info := r.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
	if info == nil || r.pdf.Err() {
		// Unsupported picture data, fall back to a placeholder.
		r.pdf.ClearError()
		name = ""
	}
	r.registered[path] = name
	return name
}

// picture draws a registered image into its footprint. A rotated image is
// drawn at its natural size and turned 90 degrees about the footprint center.
func (r *renderer) picture(name string, img model.PlacedImage, x, y float64) {
	opts := fpdf.ImageOptions{}
	if !img.Rotated {
		r.pdf.ImageOptions(name, x, y, img.DisplayWidth, img.DisplayHeight, false, opts, 0, "")
		return
	}
	cx := x + img.DisplayWidth/2
	cy := y + img.DisplayHeight/2
	r.pdf.TransformBegin()
	r.pdf.TransformRotate(90, cx, cy)
	r.pdf.ImageOptions(name, cx-img.Width/2, cy-img.Height/2, img.Width, img.Height, false, opts, 0, "")
	r.pdf.TransformEnd()
}

func (r *renderer) placeholder(img model.PlacedImage, i int, x, y float64) {
	col := placeholderColors[i%len(placeholderColors)]
	r.pdf.SetFillColor(col.R, col.G, col.B)
	r.pdf.SetDrawColor(30, 30, 30)
	r.pdf.SetLineWidth(0.02)
	r.pdf.Rect(x, y, img.DisplayWidth, img.DisplayHeight, "FD")

	if img.DisplayWidth < 1.5 || img.DisplayHeight < 0.8 {
		return
	}
	r.pdf.SetFont("Helvetica", "", labelFontSize(img.DisplayWidth, img.DisplayHeight))
	r.pdf.SetTextColor(0, 0, 0)

	label := img.Label
	dims := fmt.Sprintf("%.2f x %.2f cm", img.Width, img.Height)
	if img.Rotated {
		dims += " R"
	}
	if w := r.pdf.GetStringWidth(label); w < img.DisplayWidth-0.2 {
		r.pdf.SetXY(x+(img.DisplayWidth-w)/2, y+img.DisplayHeight/2-0.4)
		r.pdf.CellFormat(w, 0.4, label, "", 0, "C", false, 0, "")
	}
	if w := r.pdf.GetStringWidth(dims); img.DisplayHeight > 1.4 && w < img.DisplayWidth-0.2 {
		r.pdf.SetXY(x+(img.DisplayWidth-w)/2, y+img.DisplayHeight/2)
		r.pdf.CellFormat(w, 0.4, dims, "", 0, "C", false, 0, "")
	}
}

func (r *renderer) footer(num, total int) {
	r.pdf.SetFont("Helvetica", "", footerFontPt)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.SetXY(r.spec.MarginLeft, r.spec.Height-r.spec.MarginBottom+0.3)
	r.pdf.CellFormat(4, 0.4, fmt.Sprintf("Page %d / %d", num, total), "", 0, "L", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *renderer) manifestQR(page model.Page) error {
	png, err := ManifestQR(NewPageManifest(page))
	if err != nil {
		return err
	}
	name := fmt.Sprintf("qr%d", page.Index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	side := min(qrSide, r.spec.MarginBottom)
	x := r.spec.Width - r.spec.MarginRight - side
	y := r.spec.Height - r.spec.MarginBottom + (r.spec.MarginBottom-side)/2
	r.pdf.ImageOptions(name, x, y, side, side, false, opts, 0, "")
	return nil
}

// labelFontSize picks a font size (pt) that fits the placeholder box (cm).
func labelFontSize(w, h float64) float64 {
	size := min(w, h) * 3
	if size > 10 {
		return 10
	}
	if size < 5 {
		return 5
	}
	return size
}
