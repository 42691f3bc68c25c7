package layouts

import (
	"fmt"
	"regexp"
	"strings"
)

// Theme holds the board's brand colours.
type Theme struct {
	PrimaryColor string
	AccentColor  string
	SurfaceColor string
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor: "#1f7a4d",
		AccentColor:  "#f5a623",
		SurfaceColor: "#ffffff",
	}
}

func IsHexColor(value string) bool {
	return hexColorPattern.MatchString(value)
}

func getThemeCssVars(theme Theme) string {
	defaults := DefaultTheme()
	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-accent:%s;--theme-surface:%s;}",
		themeColorOrDefault(theme.PrimaryColor, defaults.PrimaryColor),
		themeColorOrDefault(theme.AccentColor, defaults.AccentColor),
		themeColorOrDefault(theme.SurfaceColor, defaults.SurfaceColor),
	)
}

func themeColorOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if !IsHexColor(trimmed) {
		return fallback
	}
	return trimmed
}
