package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PageFit/internal/model"
)

// Image colors, cycled for visual distinction.
var imageColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	paperColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	marginColor    = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	borderColor    = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	selectedColor  = color.NRGBA{R: 220, G: 0, B: 0, A: 255}
	overflowColor  = color.NRGBA{R: 255, G: 50, B: 50, A: 120}
	imageEdgeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
)

// PageCanvas renders one A4 page with its placed images. Tapping an image
// selects it.
type PageCanvas struct {
	widget.BaseWidget
	page      model.Page
	spec      model.PageSpec
	selected  string
	maxWidth  float32
	maxHeight float32

	// OnSelect is called with the tapped image ID, or "" for empty paper.
	OnSelect func(id string)
}

func NewPageCanvas(page model.Page, spec model.PageSpec, maxW, maxH float32) *PageCanvas {
	pc := &PageCanvas{
		page:      page,
		spec:      spec,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

// SetSelected highlights the image with id.
func (pc *PageCanvas) SetSelected(id string) {
	pc.selected = id
	pc.Refresh()
}

func (pc *PageCanvas) scale() float32 {
	return fitScale(pc.spec, pc.maxWidth, pc.maxHeight)
}

// Tapped implements fyne.Tappable.
func (pc *PageCanvas) Tapped(ev *fyne.PointEvent) {
	id := ImageAt(pc.page, pc.spec, pc.scale(), ev.Position)
	pc.SetSelected(id)
	if pc.OnSelect != nil {
		pc.OnSelect(id)
	}
}

func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newPageCanvasRenderer(pc)
}

// fitScale returns the pixels per centimeter that fit the page into maxW x maxH.
func fitScale(spec model.PageSpec, maxW, maxH float32) float32 {
	if spec.Width <= 0 || spec.Height <= 0 {
		return 1
	}
	return min(maxW/float32(spec.Width), maxH/float32(spec.Height))
}

// ImageAt returns the ID of the topmost image under pos, where pos is in
// widget pixels and scale is pixels per centimeter.
func ImageAt(page model.Page, spec model.PageSpec, scale float32, pos fyne.Position) string {
	if scale <= 0 {
		return ""
	}
	x := float64(pos.X/scale) - spec.MarginLeft
	y := float64(pos.Y/scale) - spec.MarginTop
	for i := len(page.Images) - 1; i >= 0; i-- {
		fp := page.Images[i].Footprint()
		if x >= fp.X && x < fp.Right() && y >= fp.Y && y < fp.Bottom() {
			return page.Images[i].ID
		}
	}
	return ""
}

type pageCanvasRenderer struct {
	pc      *PageCanvas
	objects []fyne.CanvasObject
}

func newPageCanvasRenderer(pc *PageCanvas) *pageCanvasRenderer {
	r := &pageCanvasRenderer{pc: pc}
	r.rebuild()
	return r
}

func (r *pageCanvasRenderer) rect(fill, stroke color.Color, width float32, x, y, w, h float32) {
	rc := canvas.NewRectangle(fill)
	rc.StrokeColor = stroke
	rc.StrokeWidth = width
	rc.Resize(fyne.NewSize(w, h))
	rc.Move(fyne.NewPos(x, y))
	r.objects = append(r.objects, rc)
}

func (r *pageCanvasRenderer) rebuild() {
	r.objects = nil

	spec := r.pc.spec
	scale := r.pc.scale()
	pageW := float32(spec.Width) * scale
	pageH := float32(spec.Height) * scale

	// Margins are drawn as a grey frame around the white print area
	r.rect(marginColor, borderColor, 2, 0, 0, pageW, pageH)
	originX := float32(spec.MarginLeft) * scale
	originY := float32(spec.MarginTop) * scale
	r.rect(paperColor, color.Transparent, 0, originX, originY,
		float32(spec.PrintWidth())*scale, float32(spec.PrintHeight())*scale)

	area := spec.PrintArea()
	for i, img := range r.pc.page.Images {
		fp := img.Footprint()
		px := originX + float32(fp.X)*scale
		py := originY + float32(fp.Y)*scale
		pw := float32(fp.Width) * scale
		ph := float32(fp.Height) * scale

		fill := color.Color(imageColors[i%len(imageColors)])
		if !model.Contains(area, fp) {
			fill = overflowColor
		}
		stroke, width := color.Color(imageEdgeColor), float32(1)
		if img.ID == r.pc.selected {
			stroke, width = selectedColor, 3
		}
		r.rect(fill, stroke, width, px, py, pw, ph)

		// Label (only if big enough)
		if pw > 30 && ph > 16 {
			text := fmt.Sprintf("%s\n%.1fx%.1f", img.Label, img.Width, img.Height)
			if img.Rotated {
				text += " R"
			}
			label := canvas.NewText(text, color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(px+3, py+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *pageCanvasRenderer) Layout(size fyne.Size)        {}
func (r *pageCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *pageCanvasRenderer) Destroy()                     {}
func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pageCanvasRenderer) MinSize() fyne.Size {
	scale := r.pc.scale()
	return fyne.NewSize(float32(r.pc.spec.Width)*scale, float32(r.pc.spec.Height)*scale)
}

// RenderLayout creates a scrollable container with one canvas per page.
// onSelect receives the page index and image ID of a tapped image.
func RenderLayout(layout model.Layout, spec model.PageSpec, selected string, onSelect func(page int, id string)) fyne.CanvasObject {
	if len(layout.Pages) == 0 && len(layout.Rejected) == 0 {
		return widget.NewLabel("No layout yet. Add images to compute one.")
	}

	var items []fyne.CanvasObject
	for _, page := range layout.Pages {
		header := widget.NewLabel(fmt.Sprintf(
			"Page %d: %d images, %.1f%% efficiency, bottom at %.2f cm",
			page.Index+1, len(page.Images), page.Efficiency(spec), page.MaxBottom(),
		))
		header.TextStyle = fyne.TextStyle{Bold: true}

		pc := NewPageCanvas(page, spec, 420, 594)
		pc.selected = selected
		index := page.Index
		pc.OnSelect = func(id string) {
			if onSelect != nil {
				onSelect(index, id)
			}
		}
		items = append(items, header, container.NewHBox(pc), widget.NewSeparator())
	}

	if len(layout.Rejected) > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d images do not fit on a page and were left out.",
			len(layout.Rejected),
		))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
		for _, rej := range layout.Rejected {
			items = append(items, widget.NewLabel(fmt.Sprintf(
				"  %s (%.2f x %.2f cm): %s", rej.Image.Label, rej.Image.Width, rej.Image.Height, rej.Reason,
			)))
		}
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d pages, %d images, %.1f%% overall efficiency",
		len(layout.Pages), layout.ImageCount(), layout.TotalEfficiency(spec),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}
