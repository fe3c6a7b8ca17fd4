// Package style provides semantic terminal styling using lipgloss.
//
// Styling is semantic (Success, Warning, Error, ...) rather than visual.
// When disabled, every helper returns its input unchanged.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	enabled bool
	colors  ColorConfig

	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	headerStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
	promptStyle  lipgloss.Style
	echoStyle    lipgloss.Style
)

// Init sets whether output is styled and loads the colors from cfg (nil
// means defaults). NO_COLOR or CHOCO_NO_COLOR, set to anything, disable
// styling regardless of enable.
func Init(enable bool, cfg map[string]string) {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CHOCO_NO_COLOR") != "" {
		enabled = false
		return
	}

	enabled = enable
	if enabled {
		colors = LoadColorConfig(cfg)
		initStyles(colors)
	}
}

// GetColors returns the active colors, empty when styling is disabled.
func GetColors() ColorConfig {
	return colors
}

func initStyles(colors ColorConfig) {
	lipgloss.SetColorProfile(termenv.ANSI256)

	successStyle = makeStyle(colors.Success)
	warningStyle = makeStyle(colors.Warning)
	errorStyle = makeStyle(colors.Error)
	infoStyle = makeStyle(colors.Info)
	mutedStyle = makeStyle(colors.Muted)
	headerStyle = makeStyle(colors.Header)
	promptStyle = makeStyle(colors.Prompt)
	echoStyle = makeStyle(colors.Echo)
}

// makeStyle accepts "bold" or an ANSI color number (0-255).
func makeStyle(value string) lipgloss.Style {
	if value == "bold" {
		return lipgloss.NewStyle().Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(value))
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	return enabled
}

func render(s lipgloss.Style, text string) string {
	if !enabled {
		return text
	}
	return s.Render(text)
}

// Success styles confirmations and flag names.
func Success(text string) string { return render(successStyle, text) }

// Warning styles defaults and recoverable problems.
func Warning(text string) string { return render(warningStyle, text) }

// Error styles failures.
func Error(text string) string { return render(errorStyle, text) }

// Info styles type names and hints.
func Info(text string) string { return render(infoStyle, text) }

// Header styles titles.
func Header(text string) string { return render(headerStyle, text) }

// Muted styles secondary text such as ranges and descriptions.
func Muted(text string) string { return render(mutedStyle, text) }

// Prompt styles the interactive input prompt.
func Prompt(text string) string { return render(promptStyle, text) }

// Echo styles input lines echoed back to the output.
func Echo(text string) string { return render(echoStyle, text) }
