package console

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpEntry(t *testing.T) {
	c, _ := newTestConsole(t)

	cheat, err := c.CreateFlag("CHEAT")
	require.NoError(t, err)

	_, err = c.RegisterRangeInt("r_fov", 90, 60, 120, WithFlags(FlagArchive|cheat), WithDescription("Field of view"))
	require.NoError(t, err)
	_, err = c.RegisterString("name", "player one")
	require.NoError(t, err)

	tests := []struct {
		name string
		want string
	}{
		{"r_fov", "r_fov 90 (90 default) Range (60 - 120) - RangeInteger\n  Flags: ARCHIVE | CHEAT\n  Field of view"},
		{"name", `name "player one" ("player one" default) - String`},
		{"echo", "echo - Command\n  Print the arguments"},
		{"R_FOV", "r_fov 90 (90 default) Range (60 - 120) - RangeInteger\n  Flags: ARCHIVE | CHEAT\n  Field of view"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Help(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err = c.Help("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSummary(t *testing.T) {
	c, _ := newTestConsole(t)
	v, err := c.RegisterFloat("s_volume", 0.5, WithDescription("Master volume"))
	require.NoError(t, err)

	require.Equal(t, "s_volume 0.500000 - Master volume", c.Summary(v.Entry()))

	e, _ := c.GetEntry("flags")
	require.Equal(t, "flags - List registered flags", c.Summary(e))
}
