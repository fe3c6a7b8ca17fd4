package style

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorConfig holds the configurable colors. Values are ANSI color numbers
// (0-255) or "bold".
type ColorConfig struct {
	Success string
	Warning string
	Error   string
	Info    string
	Muted   string
	Header  string
	Prompt  string
	Echo    string
}

// BaseThemeNames lists the theme bases; the dark or light variant is picked
// from the terminal background.
var BaseThemeNames = []string{
	"default",
	"cocoa",
	"mono",
}

// Themes contains the built-in themes. Dark variants use bright colors and
// light variants dark ones.
var Themes = map[string]ColorConfig{
	"default-dark": {
		Success: "10",
		Warning: "11",
		Error:   "9",
		Info:    "14",
		Muted:   "245",
		Header:  "bold",
		Prompt:  "11",
		Echo:    "250",
	},
	"default-light": {
		Success: "28",
		Warning: "130",
		Error:   "124",
		Info:    "27",
		Muted:   "243",
		Header:  "bold",
		Prompt:  "130",
		Echo:    "238",
	},

	// Warm browns and creams.
	"cocoa-dark": {
		Success: "150",
		Warning: "179",
		Error:   "167",
		Info:    "180",
		Muted:   "244",
		Header:  "bold",
		Prompt:  "173",
		Echo:    "223",
	},
	"cocoa-light": {
		Success: "64",
		Warning: "94",
		Error:   "88",
		Info:    "95",
		Muted:   "242",
		Header:  "bold",
		Prompt:  "130",
		Echo:    "58",
	},

	"mono-dark": {
		Success: "255",
		Warning: "bold",
		Error:   "bold",
		Info:    "250",
		Muted:   "242",
		Header:  "bold",
		Prompt:  "bold",
		Echo:    "248",
	},
	"mono-light": {
		Success: "232",
		Warning: "bold",
		Error:   "bold",
		Info:    "238",
		Muted:   "246",
		Header:  "bold",
		Prompt:  "bold",
		Echo:    "240",
	},
}

// colorConfigKeys maps settings keys to ColorConfig fields.
var colorConfigKeys = map[string]string{
	"color_success": "Success",
	"color_warning": "Warning",
	"color_error":   "Error",
	"color_info":    "Info",
	"color_muted":   "Muted",
	"color_header":  "Header",
	"color_prompt":  "Prompt",
	"color_echo":    "Echo",
}

// IsDarkBackground reports whether the terminal background is dark. It
// returns true when detection fails.
func IsDarkBackground() bool {
	return termenv.HasDarkBackground()
}

// ResolveThemeName appends -dark or -light to a base theme name.
func ResolveThemeName(name string) string {
	if strings.HasSuffix(name, "-dark") || strings.HasSuffix(name, "-light") {
		return name
	}
	if IsDarkBackground() {
		return name + "-dark"
	}
	return name + "-light"
}

// LoadColorConfig resolves colors, highest priority first: CHOCO_COLOR_*
// environment variables, color_* settings, the theme named by
// CHOCO_COLOR_THEME or color_theme, then the default theme.
func LoadColorConfig(cfg map[string]string) ColorConfig {
	themeName := ResolveThemeName("default")
	if envTheme := os.Getenv("CHOCO_COLOR_THEME"); envTheme != "" {
		themeName = ResolveThemeName(envTheme)
	} else if cfgTheme := cfg["color_theme"]; cfgTheme != "" {
		themeName = ResolveThemeName(cfgTheme)
	}

	result, ok := Themes[themeName]
	if !ok {
		result = Themes["default-dark"]
	}

	for configKey, field := range colorConfigKeys {
		if envVal := os.Getenv("CHOCO_" + strings.ToUpper(configKey)); envVal != "" {
			setColorField(&result, field, envVal)
			continue
		}
		if cfgVal := cfg[configKey]; cfgVal != "" {
			setColorField(&result, field, cfgVal)
		}
	}

	return result
}

func setColorField(c *ColorConfig, field, value string) {
	switch field {
	case "Success":
		c.Success = value
	case "Warning":
		c.Warning = value
	case "Error":
		c.Error = value
	case "Info":
		c.Info = value
	case "Muted":
		c.Muted = value
	case "Header":
		c.Header = value
	case "Prompt":
		c.Prompt = value
	case "Echo":
		c.Echo = value
	}
}
