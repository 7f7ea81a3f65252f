package ui

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, paths, note references
// - Muted (gray): Secondary info, hints
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var (
	// Accent style for file paths, entity ids, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

var (
	accentColor string
	codeTheme   string
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ConfigureTheme applies the user's accent color and code theme from config.
// Invalid accent values are ignored.
func ConfigureTheme(accent, theme string) {
	if color, ok := normalizeAccentColor(accent); ok {
		accentColor = color
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	codeTheme = strings.TrimSpace(theme)
}

// normalizeAccentColor validates an accent value: an ANSI color code
// ("0" to "255") or a hex color ("#RRGGBB").
func normalizeAccentColor(accent string) (string, bool) {
	trimmed := strings.TrimSpace(accent)
	if trimmed == "" {
		return "", false
	}
	if hexColorPattern.MatchString(trimmed) {
		return trimmed, true
	}
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 && n <= 255 {
		return strconv.Itoa(n), true
	}
	return "", false
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// CodeTheme returns the configured markdown code theme, if any.
func CodeTheme() string {
	return codeTheme
}
