package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/console/internal/console"
	"github.com/footprint-tools/console/internal/log"
)

type fakeTarget struct {
	path    string
	written time.Time
	queued  []string
}

func (f *fakeTarget) ArchivePath() string            { return f.path }
func (f *fakeTarget) LastArchiveWrite() time.Time    { return f.written }
func (f *fakeTarget) QueueCommandSilent(text string) { f.queued = append(f.queued, text) }

func TestHandle(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "config.cfg")
	now := time.Now()

	tests := []struct {
		name    string
		event   fsnotify.Event
		written time.Time
		want    bool
	}{
		{"write", fsnotify.Event{Name: archive, Op: fsnotify.Write}, time.Time{}, true},
		{"create", fsnotify.Event{Name: archive, Op: fsnotify.Create}, time.Time{}, true},
		{"remove", fsnotify.Event{Name: archive, Op: fsnotify.Remove}, time.Time{}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "other.cfg"), Op: fsnotify.Write}, time.Time{}, false},
		{"own write", fsnotify.Event{Name: archive, Op: fsnotify.Write}, now.Add(-100 * time.Millisecond), false},
		{"old own write", fsnotify.Event{Name: archive, Op: fsnotify.Write}, now.Add(-2 * QuietPeriod), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeTarget{path: archive, written: tt.written}
			w := &Watcher{target: target, logger: log.NopLogger{}, path: archive}

			require.Equal(t, tt.want, w.handle(tt.event, now))
			require.Empty(t, target.queued)
		})
	}
}

func TestReload(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "my configs", "config.cfg")
	target := &fakeTarget{path: archive}
	w := &Watcher{target: target, logger: log.NopLogger{}, path: archive}

	w.reload()
	require.Equal(t, []string{`exec "` + archive + `"`}, target.queued)
}

func TestWatcher_ReloadsEditedArchive(t *testing.T) {
	c := console.New(console.WithOutput(io.Discard), console.WithCfgDir(filepath.Join(t.TempDir(), "cfg")))
	v, err := c.RegisterInt("watched.int", 1, console.WithFlags(console.FlagArchive))
	require.NoError(t, err)

	w, err := New(c, log.NopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(c.ArchivePath(), []byte("watched.int 42\n"), 0600))

	require.Eventually(t, func() bool {
		c.Update()
		return v.Get() == 42
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
