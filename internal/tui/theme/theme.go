// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/blockweek/internal/task"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Sidebar, empty cells
	BgSelection string `toml:"bg_selection"` // Cursor, selection
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Alternatives, hints
	Accent      string `toml:"accent"`       // Title, borders, drop target
	Warning     string `toml:"warning"`      // Cap warnings, rejections
	Group       string `toml:"group"`        // Hovering a block that would form a group

	Process ProcessColors `toml:"process"`
}

// ProcessColors is the accent color of each process.
type ProcessColors struct {
	Marketing   string `toml:"marketing"`
	Development string `toml:"development"`
	ClientWork  string `toml:"clientwork"`
	Operations  string `toml:"operations"`
	Admin       string `toml:"admin"`
}

// Of returns the color of p, or "" for an unknown process.
func (c ProcessColors) Of(p task.Process) string {
	switch p {
	case task.ProcessMarketing:
		return c.Marketing
	case task.ProcessDevelopment:
		return c.Development
	case task.ProcessClientWork:
		return c.ClientWork
	case task.ProcessOperations:
		return c.Operations
	case task.ProcessAdmin:
		return c.Admin
	default:
		return ""
	}
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	if t.Group == "" {
		t.Group = coalesce(t.Warning, t.Accent)
	}
	p := &t.Process
	for _, c := range []*string{&p.Marketing, &p.Development, &p.ClientWork, &p.Operations, &p.Admin} {
		if *c == "" {
			*c = t.Accent
		}
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
