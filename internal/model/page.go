package model

// PageSpec describes a physical page and its non-printable margins (cm).
type PageSpec struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
	MarginRight  float64 `json:"margin_right"`
}

// A4 is the portrait A4 sheet every layout is computed for.
var A4 = PageSpec{
	Width:        21.0,
	Height:       29.7,
	MarginTop:    1.5,
	MarginBottom: 1.0,
	MarginLeft:   0.5,
	MarginRight:  0.5,
}

// PrintWidth is the usable width inside the left and right margins.
func (p PageSpec) PrintWidth() float64 {
	return RoundDim(p.Width - p.MarginLeft - p.MarginRight)
}

// PrintHeight is the usable height inside the top and bottom margins.
func (p PageSpec) PrintHeight() float64 {
	return RoundDim(p.Height - p.MarginTop - p.MarginBottom)
}

// PrintArea returns the print area as a rect anchored at the origin.
func (p PageSpec) PrintArea() Rect {
	return Rect{Width: p.PrintWidth(), Height: p.PrintHeight()}
}

// IsZero reports whether the page geometry was left unset.
func (p PageSpec) IsZero() bool {
	return p == PageSpec{}
}
