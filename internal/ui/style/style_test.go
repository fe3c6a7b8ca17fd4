package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var helpers = []struct {
	name string
	fn   func(string) string
}{
	{"Success", Success},
	{"Warning", Warning},
	{"Error", Error},
	{"Info", Info},
	{"Header", Header},
	{"Muted", Muted},
	{"Prompt", Prompt},
	{"Echo", Echo},
}

func clearColorEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	t.Setenv("CHOCO_NO_COLOR", "")
	t.Setenv("CHOCO_COLOR_THEME", "")
	for key := range colorConfigKeys {
		t.Setenv("CHOCO_"+strings.ToUpper(key), "")
	}
}

func TestDisabledReturnsPlainText(t *testing.T) {
	clearColorEnv(t)
	Init(false, nil)

	for _, tt := range helpers {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, "test message", tt.fn("test message"))
		})
	}
	require.False(t, Enabled())
}

func TestEnabledReturnsStyledText(t *testing.T) {
	clearColorEnv(t)
	Init(true, nil)
	t.Cleanup(func() { Init(false, nil) })

	for _, tt := range helpers {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.fn("test message")
			require.Contains(t, out, "test message")
			require.Contains(t, out, "\x1b[")
		})
	}
}

func TestNoColorEnvDisables(t *testing.T) {
	for _, env := range []string{"NO_COLOR", "CHOCO_NO_COLOR"} {
		t.Run(env, func(t *testing.T) {
			clearColorEnv(t)
			t.Setenv(env, "1")
			Init(true, nil)
			require.False(t, Enabled())
			require.Equal(t, "x", Error("x"))
		})
	}
}

func TestLoadColorConfig(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		cfg   map[string]string
		check func(t *testing.T, c ColorConfig)
	}{
		{
			name: "explicit theme",
			cfg:  map[string]string{"color_theme": "cocoa-dark"},
			check: func(t *testing.T, c ColorConfig) {
				require.Equal(t, Themes["cocoa-dark"], c)
			},
		},
		{
			name: "unknown theme falls back",
			cfg:  map[string]string{"color_theme": "nope-dark"},
			check: func(t *testing.T, c ColorConfig) {
				require.Equal(t, Themes["default-dark"], c)
			},
		},
		{
			name: "settings override theme",
			cfg:  map[string]string{"color_theme": "mono-light", "color_error": "196"},
			check: func(t *testing.T, c ColorConfig) {
				require.Equal(t, "196", c.Error)
				require.Equal(t, Themes["mono-light"].Info, c.Info)
			},
		},
		{
			name: "env overrides settings",
			env:  map[string]string{"CHOCO_COLOR_PROMPT": "33", "CHOCO_COLOR_THEME": "default-light"},
			cfg:  map[string]string{"color_theme": "mono-dark", "color_prompt": "44"},
			check: func(t *testing.T, c ColorConfig) {
				require.Equal(t, "33", c.Prompt)
				require.Equal(t, Themes["default-light"].Success, c.Success)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearColorEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			tt.check(t, LoadColorConfig(tt.cfg))
		})
	}
}

func TestThemesAreComplete(t *testing.T) {
	for _, base := range BaseThemeNames {
		for _, variant := range []string{"-dark", "-light"} {
			theme, ok := Themes[base+variant]
			require.True(t, ok, base+variant)
			for _, field := range colorConfigKeys {
				c := ColorConfig{}
				setColorField(&c, field, "x")
				require.NotEqual(t, ColorConfig{}, c, field)
			}
			require.NotEmpty(t, theme.Prompt)
			require.NotEmpty(t, theme.Echo)
		}
	}
}

func TestResolveThemeName(t *testing.T) {
	require.Equal(t, "mono-light", ResolveThemeName("mono-light"))
	got := ResolveThemeName("cocoa")
	require.True(t, got == "cocoa-dark" || got == "cocoa-light", got)
}

func TestNopStyler(t *testing.T) {
	var s NopStyler
	require.False(t, s.Enabled())
	require.Equal(t, "x", s.Header("x"))
}
