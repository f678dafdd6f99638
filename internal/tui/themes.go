package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the terminal interface
type Theme struct {
	Name        string
	Description string

	// Base colors
	Surface lipgloss.Color
	Border  lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in themes
var (
	// SakuraTheme is the default pink theme
	SakuraTheme = Theme{
		Name:        "sakura",
		Description: "Sakura - Soft pink bubbles on a dark background",

		Surface: lipgloss.Color("#2b2130"),
		Border:  lipgloss.Color("#ffb6c1"),

		Primary:   lipgloss.Color("#ff69b4"), // hot pink, assistant bubbles
		Secondary: lipgloss.Color("#ffc0cb"), // pink, user bubbles
		Accent:    lipgloss.Color("#ff1493"),
		Error:     lipgloss.Color("#ff6b6b"),

		Text:     lipgloss.Color("#fff0f5"),
		TextDim:  lipgloss.Color("#c9a0b4"),
		TextMute: lipgloss.Color("#7a5c6b"),
	}

	// TokyoNightTheme is a dark theme based on the Tokyo Night color scheme
	TokyoNightTheme = Theme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// NordTheme is based on the Nord color palette
	NordTheme = Theme{
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",

		Surface: lipgloss.Color("#3b4252"),
		Border:  lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"), // Frost
		Secondary: lipgloss.Color("#a3be8c"), // Aurora green
		Accent:    lipgloss.Color("#b48ead"), // Aurora purple
		Error:     lipgloss.Color("#bf616a"), // Aurora red

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),
	}
)

var currentTheme = SakuraTheme

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme activates the theme called name and rebuilds the styles.
// It reports false, leaving the current theme, when name is unknown.
func SetTheme(name string) bool {
	theme, ok := ThemeByName(name)
	if !ok {
		return false
	}
	currentTheme = theme
	UpdateTheme()
	return true
}

// ThemeByName returns a built-in theme
func ThemeByName(name string) (Theme, bool) {
	for _, t := range AvailableThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// AvailableThemes returns every built-in theme, default first
func AvailableThemes() []Theme {
	return []Theme{SakuraTheme, TokyoNightTheme, NordTheme}
}

// ThemeNames returns just the theme names for selection
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
