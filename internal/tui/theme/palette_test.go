package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/blockweek/internal/task"
)

func darkBase() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Warning:     "#888888",
		Group:       "#ffff00",
		Process: ProcessColors{
			Marketing:   "#112233",
			Development: "#445566",
			ClientWork:  "#00ff00",
			Operations:  "#0000ff",
			Admin:       "#777777",
		},
	}
}

func TestNewPalette_ProcessShades(t *testing.T) {
	base := darkBase()
	palette := NewPalette(base)

	mkt := palette.Process(task.ProcessMarketing)
	if mkt.Fg != lipgloss.Color(base.Process.Marketing) {
		t.Fatalf("Fg = %q, want %q", mkt.Fg, base.Process.Marketing)
	}
	if mkt.Bg != lipgloss.Color(darkenColor(base.Process.Marketing)) {
		t.Fatalf("Bg = %q, want %q", mkt.Bg, darkenColor(base.Process.Marketing))
	}
	if mkt.BgAlt != lipgloss.Color(alternateShade(darkenColor(base.Process.Marketing), false)) {
		t.Fatalf("BgAlt = %q, want lighter shade of Bg", mkt.BgAlt)
	}
	if mkt.TextOn != lipgloss.Color(base.Fg) {
		t.Fatalf("TextOn = %q, want %q on a dark block", mkt.TextOn, base.Fg)
	}
}

func TestNewPalette_UnknownProcessIsNeutral(t *testing.T) {
	palette := NewPalette(darkBase())
	got := palette.Process(task.Process("sales"))
	if got.Bg != palette.BgHighlight || got.Fg != palette.FgMuted {
		t.Fatalf("Process(unknown) = %+v, want neutral shades", got)
	}
}

func TestNewPalette_LightThemeInvertsShades(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Warning:     "#c2410c",
		Process: ProcessColors{
			Marketing:   "#1d8a8a",
			Development: "#2f8f2f",
			ClientWork:  "#2f8f2f",
			Operations:  "#2f8f2f",
			Admin:       "#2f8f2f",
		},
	}

	palette := NewPalette(base)
	bg := string(palette.Process(task.ProcessMarketing).Bg)
	if relativeLuminance(bg) <= relativeLuminance(base.Process.Marketing) {
		t.Fatalf("Bg luminance = %f, want greater than the accent", relativeLuminance(bg))
	}
}

func TestNewPalette_NilUsesMocha(t *testing.T) {
	palette := NewPalette(nil)
	if palette.Bg != lipgloss.Color("#1e1e2e") {
		t.Fatalf("Bg = %q, want mocha base", palette.Bg)
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}

func TestDarkenColor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#ff8000", "#804028"},
		{"#000000", "#282828"},
		{"red", "red"},
		{"#fff", "#fff"},
	}
	for _, tt := range tests {
		if got := darkenColor(tt.in); got != tt.want {
			t.Errorf("darkenColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlendColors_ClampsRatio(t *testing.T) {
	if got := blendColors("#000000", "#ffffff", 2); got != "#ffffff" {
		t.Errorf("ratio above 1 = %q, want #ffffff", got)
	}
	if got := blendColors("#000000", "#ffffff", -1); got != "#000000" {
		t.Errorf("ratio below 0 = %q, want #000000", got)
	}
	if got := blendColors("nope", "#ffffff", 0.5); got != "nope" {
		t.Errorf("unparsable input = %q, want it unchanged", got)
	}
}
