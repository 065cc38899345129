package model

import "math"

const (
	// MinFreeSide is the smallest width or height a free rectangle may keep.
	// Anything thinner is discarded after a split.
	MinFreeSide = 0.1

	// DimPrecision is the grid image dimensions are rounded to at ingestion.
	DimPrecision = 0.01

	dimScale = 100
)

// Rect is an axis-aligned rectangle in page print-area coordinates (cm).
// The origin is the top-left corner of the print area, y grows downward.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Area() float64   { return r.Width * r.Height }

// Overlaps reports whether a and b share interior area.
// Rectangles that only touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.Right() && a.Right() > b.X &&
		a.Y < b.Bottom() && a.Bottom() > b.Y
}

// Contains reports whether inner lies entirely within outer. Shared edges count.
func Contains(outer, inner Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() && inner.Bottom() <= outer.Bottom()
}

// RoundDim snaps a dimension to DimPrecision.
func RoundDim(v float64) float64 {
	return math.Round(v*dimScale) / dimScale
}
