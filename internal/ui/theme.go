package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// compactTheme wraps the default Fyne theme with tighter sizing so whole
// pages fit next to the controls.
type compactTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// newCompactTheme maps the configured theme name ("light", "dark", anything
// else follows the system) onto a variant.
func newCompactTheme(name string) *compactTheme {
	t := &compactTheme{base: theme.DefaultTheme()}
	t.SetVariant(name)
	return t
}

// SetVariant updates the light/dark choice.
func (t *compactTheme) SetVariant(name string) {
	switch name {
	case "light":
		t.variant, t.forced = theme.VariantLight, true
	case "dark":
		t.variant, t.forced = theme.VariantDark, true
	default:
		t.forced = false
	}
}

func (t *compactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *compactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *compactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *compactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
