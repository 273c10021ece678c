package preferences

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// variantTheme pins the default theme to one variant regardless of the OS
// preference.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (pinned variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return pinned.Theme.Color(name, pinned.variant)
}

// Theme returns the app theme for the "light" or "dark" setting.
func Theme(name string) fyne.Theme {
	variant := theme.VariantLight
	if name == "dark" {
		variant = theme.VariantDark
	}
	return variantTheme{Theme: theme.DefaultTheme(), variant: variant}
}
