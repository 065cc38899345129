package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrInvalidDimensions is returned for images whose width or height is not a
// positive finite number.
var ErrInvalidDimensions = errors.New("invalid image dimensions")

// Image is a picture to be printed at a fixed physical size.
type Image struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Width  float64 `json:"width"`            // cm
	Height float64 `json:"height"`           // cm
	Source string  `json:"source,omitempty"` // Optional path to the picture file
}

func NewImage(label string, w, h float64) Image {
	return Image{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  RoundDim(w),
		Height: RoundDim(h),
	}
}

// Normalize snaps the dimensions to DimPrecision.
func Normalize(img Image) Image {
	img.Width = RoundDim(img.Width)
	img.Height = RoundDim(img.Height)
	return img
}

// Validate checks that both dimensions are positive and finite.
func Validate(img Image) error {
	if !ValidDim(img.Width) || !ValidDim(img.Height) {
		name := img.Label
		if name == "" {
			name = img.ID
		}
		return fmt.Errorf("%s (%.2f x %.2f): %w", name, img.Width, img.Height, ErrInvalidDimensions)
	}
	return nil
}

// ValidDim reports whether v is a usable length: positive and finite. NaN fails.
func ValidDim(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// PlacedImage is an image positioned on a page.
type PlacedImage struct {
	Image
	X             float64 `json:"x"`         // Offset from the print area's left edge
	Y             float64 `json:"y"`         // Offset from the print area's top edge
	PageIndex     int     `json:"page_index"`
	Rotated       bool    `json:"rotated"` // Turned 90 degrees
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
}

// Place builds a PlacedImage whose display size follows the rotation flag.
func Place(img Image, x, y float64, rotated bool) PlacedImage {
	p := PlacedImage{Image: img, X: x, Y: y, Rotated: rotated}
	p.DisplayWidth, p.DisplayHeight = img.Width, img.Height
	if rotated {
		p.DisplayWidth, p.DisplayHeight = img.Height, img.Width
	}
	return p
}

// Footprint returns the rectangle the image occupies on its page.
func (p PlacedImage) Footprint() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.DisplayWidth, Height: p.DisplayHeight}
}

// Page is one printed sheet with its placed images.
type Page struct {
	Index  int           `json:"index"`
	Images []PlacedImage `json:"images"`
}

// MaxBottom returns the lowest edge reached by any image on the page.
func (p Page) MaxBottom() float64 {
	var bottom float64
	for _, img := range p.Images {
		if b := img.Y + img.DisplayHeight; b > bottom {
			bottom = b
		}
	}
	return bottom
}

// UsedArea returns the total area covered by placed images.
func (p Page) UsedArea() float64 {
	var total float64
	for _, img := range p.Images {
		total += img.DisplayWidth * img.DisplayHeight
	}
	return total
}

// Efficiency returns the print-area usage percentage.
func (p Page) Efficiency(spec PageSpec) float64 {
	area := spec.PrintArea().Area()
	if area == 0 {
		return 0
	}
	return (p.UsedArea() / area) * 100.0
}

// Find returns the position of the image with the given ID, or -1.
func (p Page) Find(id string) int {
	for i, img := range p.Images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// Rejection records an image the packer refused to place.
type Rejection struct {
	Image  Image  `json:"image"`
	Reason string `json:"reason"`
}

// Layout is the full multi-page arrangement.
type Layout struct {
	Pages    []Page      `json:"pages"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

// ImageCount returns the number of placed images across all pages.
func (l Layout) ImageCount() int {
	n := 0
	for _, p := range l.Pages {
		n += len(p.Images)
	}
	return n
}

// TotalEfficiency returns overall print-area usage percentage.
func (l Layout) TotalEfficiency(spec PageSpec) float64 {
	var used float64
	for _, p := range l.Pages {
		used += p.UsedArea()
	}
	total := spec.PrintArea().Area() * float64(len(l.Pages))
	if total == 0 {
		return 0
	}
	return (used / total) * 100.0
}

// Clone returns a deep copy so edits never alias the original pages.
func (l Layout) Clone() Layout {
	out := Layout{Pages: make([]Page, len(l.Pages))}
	for i, p := range l.Pages {
		out.Pages[i] = Page{Index: p.Index, Images: append([]PlacedImage(nil), p.Images...)}
	}
	if len(l.Rejected) > 0 {
		out.Rejected = append([]Rejection(nil), l.Rejected...)
	}
	return out
}

// Project ties the image set and its optional manual layout together for save/load.
type Project struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
	Layout *Layout `json:"layout,omitempty"`
	Manual bool    `json:"manual"` // Layout was edited by hand and must be kept
}

func NewProject() Project {
	return Project{
		Name:   "Untitled",
		Images: []Image{},
	}
}
