package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/javiermolinar/blockweek/internal/task"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Warning     lipgloss.Color
	Group       lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnGroup   lipgloss.Color

	Border lipgloss.AdaptiveColor

	processes map[task.Process]ProcessShades
}

// ProcessShades are the colors a block of one process is drawn with.
type ProcessShades struct {
	Fg     lipgloss.Color // accent, for labels and totals
	Bg     lipgloss.Color // primary block background
	BgAlt  lipgloss.Color // alternative block background
	TextOn lipgloss.Color // text drawn on Bg
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	isLight := isLightTheme(t.Bg)
	p := &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Warning:     lipgloss.Color(t.Warning),
		Group:       lipgloss.Color(t.Group),

		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),
		TextOnGroup:   lipgloss.Color(chooseTextColor(t.Group, t.Bg, t.Fg)),

		Border: adaptiveColor(coalesce(t.Accent, t.FgMuted)),

		processes: make(map[task.Process]ProcessShades, len(task.Processes())),
	}

	for _, proc := range task.Processes() {
		accent := t.Process.Of(proc)
		bg := taskBaseBg(accent, t.Bg, isLight)
		p.processes[proc] = ProcessShades{
			Fg:     lipgloss.Color(accent),
			Bg:     lipgloss.Color(bg),
			BgAlt:  lipgloss.Color(alternateShade(bg, isLight)),
			TextOn: lipgloss.Color(chooseTextColor(bg, t.Fg, t.Bg)),
		}
	}
	return p
}

// Process returns the shades of proc. Unknown processes get neutral shades.
func (p *Palette) Process(proc task.Process) ProcessShades {
	if s, ok := p.processes[proc]; ok {
		return s
	}
	return ProcessShades{Fg: p.FgMuted, Bg: p.BgHighlight, BgAlt: p.BgSelection, TextOn: p.Fg}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

func taskBaseBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return darkenColor(accent)
}

// hexColor parses a #rrggbb color. Short forms and names are rejected so
// callers can pass them through untouched.
func hexColor(hex string) (colorful.Color, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	return c, err == nil
}

// darkenColor halves the brightness of a block color, keeping each channel
// above a floor so blocks stay visible on dark themes.
func darkenColor(hex string) string {
	c, ok := hexColor(hex)
	if !ok {
		return hex
	}
	const factor, floor = 0.5, 40.0 / 255
	return colorful.Color{
		R: max(c.R*factor, floor),
		G: max(c.G*factor, floor),
		B: max(c.B*factor, floor),
	}.Hex()
}

// alternateShade shifts a block background for alternatives stacked under
// their primary.
func alternateShade(hex string, isLight bool) string {
	if _, ok := hexColor(hex); !ok {
		return hex
	}
	if isLight {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

func blendColors(a, b string, ratio float64) string {
	ca, okA := hexColor(a)
	cb, okB := hexColor(b)
	if !okA || !okB {
		return a
	}
	return ca.BlendRgb(cb, min(max(ratio, 0), 1)).Clamped().Hex()
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}

// chooseTextColor returns whichever of the two text colors reads better on bg.
func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance is the WCAG luminance of a #rrggbb color, 0 for anything
// unparsable.
func relativeLuminance(hex string) float64 {
	c, ok := hexColor(hex)
	if !ok {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
