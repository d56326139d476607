package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/sim"
)

// Theme colours the live view. Particle is the resting particle colour and
// Flash the colour a particle takes right after a collision. Primary and
// Secondary are the ends of the header gradient.
type Theme struct {
	Name      string
	Particle  lipgloss.Color
	Flash     lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
}

var (
	ThemeHotPink = Theme{
		Name:      "hotpink",
		Particle:  lipgloss.Color("#ff69b4"),
		Flash:     lipgloss.Color("#000000"),
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
	}

	ThemePhosphor = Theme{
		Name:      "phosphor",
		Particle:  lipgloss.Color("#88ff88"),
		Flash:     lipgloss.Color("#003300"),
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
	}

	ThemeIce = Theme{
		Name:      "ice",
		Particle:  lipgloss.Color("#00d4ff"),
		Flash:     lipgloss.Color("#ffffff"),
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#e0f0ff"),
	}

	ThemeEmber = Theme{
		Name:      "ember",
		Particle:  lipgloss.Color("#feca57"),
		Flash:     lipgloss.Color("#ff4757"),
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Particle:  lipgloss.Color("#cccccc"),
		Flash:     lipgloss.Color("#444444"),
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeHotPink

	// Themes is the order t cycles through.
	Themes = []Theme{ThemeHotPink, ThemePhosphor, ThemeIce, ThemeEmber, ThemeMono}
)

// GetTheme returns a theme by name, falling back to hotpink.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeHotPink
}

func SetTheme(name string) { CurrentTheme = GetTheme(name) }

// Palette converts the theme into particle colours for the simulator.
func (t Theme) Palette() sim.Palette {
	p := sim.DefaultPalette()
	if c, err := colorful.Hex(string(t.Particle)); err == nil {
		p.Base = c
	}
	if c, err := colorful.Hex(string(t.Flash)); err == nil {
		p.Flash = c
	}
	return p
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}
