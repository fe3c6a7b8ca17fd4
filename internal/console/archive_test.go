package console

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/console/internal/log"
)

func TestBuildArchive(t *testing.T) {
	c, _ := newTestConsole(t)

	_, err := c.RegisterString("archived.name", "Hello World", WithFlags(FlagArchive))
	require.NoError(t, err)
	_, err = c.RegisterInt("archived.int", 3, WithFlags(FlagArchive))
	require.NoError(t, err)
	_, err = c.RegisterVec2("archived.vec", mgl32.Vec2{1, 2}, WithFlags(FlagArchive))
	require.NoError(t, err)
	_, err = c.RegisterString("archived.empty", "", WithFlags(FlagArchive))
	require.NoError(t, err)
	_, err = c.RegisterInt("volatile.int", 9)
	require.NoError(t, err)

	c.AddArchiveCallback(func(b *strings.Builder) {
		b.WriteString("bind w +forward\n")
	})
	c.AddArchiveCallback(nil)

	got := c.BuildArchive()
	require.True(t, strings.HasPrefix(got, archiveHeader))

	body := strings.TrimPrefix(got, archiveHeader)
	require.Equal(t,
		"con_remove_dup_input_history true\n"+
			"con_search_behavior 1\n"+
			"archived.name \"Hello World\"\n"+
			"archived.int 3\n"+
			"archived.vec \"1.000000 2.000000\"\n"+
			"archived.empty \"\"\n"+
			"\n"+archiveRule+"\n"+
			"bind w +forward\n",
		body)
	require.NotContains(t, got, "volatile.int")
}

func TestArchive_RoundTrip(t *testing.T) {
	c, _ := newTestConsole(t)

	name, _ := c.RegisterString("rt.name", "", WithFlags(FlagArchive))
	quote, _ := c.RegisterString("rt.quote", "", WithFlags(FlagArchive))
	path, _ := c.RegisterString("rt.path", "", WithFlags(FlagArchive))
	vec, _ := c.RegisterVec3("rt.vec", mgl32.Vec3{}, WithFlags(FlagArchive))
	fov, _ := c.RegisterRangeFloat("rt.fov", 90, 60, 120, WithFlags(FlagArchive))
	empty, _ := c.RegisterString("rt.empty", "default", WithFlags(FlagArchive))

	name.Set("Hello World")
	quote.Set(`say "hi"`)
	path.Set("maps/de_dust; quit")
	vec.Set(mgl32.Vec3{1, -2, 3.5})
	fov.Set(100.25)
	empty.Set("")

	require.NoError(t, c.WriteArchive(""))

	for _, e := range c.Entries() {
		if e.IsVar() {
			c.ResetToDefault(e.Name())
		}
	}
	require.Equal(t, "default", empty.Get())

	require.NoError(t, c.Exec(c.ArchivePath()))

	require.Equal(t, "Hello World", name.Get())
	require.Equal(t, `say "hi"`, quote.Get())
	require.Equal(t, "maps/de_dust; quit", path.Get())
	require.Equal(t, mgl32.Vec3{1, -2, 3.5}, vec.Get())
	require.Equal(t, float32(100.25), fov.Get())
	require.Equal(t, "", empty.Get())
}

func TestArchive_QuoteMix(t *testing.T) {
	c, _ := newTestConsole(t)

	both, _ := c.RegisterString("rt.both", "", WithFlags(FlagArchive))
	both.Set(`a"b'c d`)

	require.NoError(t, c.WriteArchive(""))
	c.ResetToDefault("rt.both")
	require.NoError(t, c.Exec(c.ArchivePath()))
	require.Equal(t, `a"b'c d`, both.Get())
}

func TestArchive_SkipsMultilineValues(t *testing.T) {
	var logs bytes.Buffer
	c, _ := newTestConsole(t, WithLogger(log.NewWriter(&logs, log.LevelDebug)))

	motd, _ := c.RegisterString("rt.motd", "welcome", WithFlags(FlagArchive))
	other, _ := c.RegisterInt("rt.other", 1, WithFlags(FlagArchive))
	motd.Set("line1\nrt.other 0")
	other.Set(7)

	body := c.BuildArchive()
	require.NotContains(t, body, "rt.motd")
	require.NotContains(t, body, "line1")
	require.Contains(t, logs.String(), `"rt.motd" holds a newline`)

	require.NoError(t, c.WriteArchive(""))
	c.ResetToDefault("rt.motd")
	c.ResetToDefault("rt.other")
	require.NoError(t, c.Exec(c.ArchivePath()))
	require.Equal(t, "welcome", motd.Get())
	require.Equal(t, 7, other.Get())
}

func TestWriteArchive_Paths(t *testing.T) {
	c, _ := newTestConsole(t)

	require.NoError(t, c.WriteArchive(""))
	_, err := os.Stat(filepath.Join(c.CfgDir(), "config.cfg"))
	require.NoError(t, err)
	require.False(t, c.LastArchiveWrite().IsZero())

	require.NoError(t, c.WriteArchive("profiles/alt"))
	_, err = os.Stat(filepath.Join(c.CfgDir(), "profiles", "alt.cfg"))
	require.NoError(t, err)

	c.SetDefaultArchive("mine.cfg", "")
	require.Equal(t, filepath.Join(c.CfgDir(), "mine.cfg"), c.ArchivePath())
	require.Equal(t, filepath.Join(c.CfgDir(), "config_default.cfg"), c.DefaultArchivePath())
}

func TestWriteArchive_Failure(t *testing.T) {
	c, _ := newTestConsole(t)
	v, _ := c.RegisterInt("fail.int", 1, WithFlags(FlagArchive))
	v.Set(5)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	err := c.WriteArchive(filepath.Join(blocker, "config.cfg"))
	require.ErrorIs(t, err, ErrArchiveIO)
	require.Equal(t, 5, v.Get(), "a failed write leaves the registry alone")
	require.True(t, c.LastArchiveWrite().IsZero())
}

func TestResolvePath(t *testing.T) {
	c, _ := newTestConsole(t)
	dir := c.CfgDir()
	abs := filepath.Join(t.TempDir(), "abs.cfg")

	tests := []struct {
		in   string
		want string
	}{
		{"autoexec", filepath.Join(dir, "autoexec.cfg")},
		{"autoexec.cfg", filepath.Join(dir, "autoexec.cfg")},
		{"maps/dust", filepath.Join(dir, "maps", "dust.cfg")},
		{abs, abs},
		{filepath.Join(dir, "inside.cfg"), filepath.Join(dir, "inside.cfg")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, c.ResolvePath(tt.in))
		})
	}
}
