package domain

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ParseThemeMode returns light for anything that is not "dark".
func ParseThemeMode(s string) ThemeMode {
	if ThemeMode(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
