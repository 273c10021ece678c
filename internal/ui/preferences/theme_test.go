package preferences

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestThemePinsVariant(t *testing.T) {
	test.NewTempApp(t)

	base := theme.DefaultTheme()

	dark := Theme("dark")
	assert.Equal(t,
		base.Color(theme.ColorNameBackground, theme.VariantDark),
		dark.Color(theme.ColorNameBackground, theme.VariantLight))

	light := Theme("light")
	assert.Equal(t,
		base.Color(theme.ColorNameBackground, theme.VariantLight),
		light.Color(theme.ColorNameBackground, theme.VariantDark))
}
