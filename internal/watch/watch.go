// Package watch reloads the console archive when it is edited on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/footprint-tools/console/internal/cmdline"
	"github.com/footprint-tools/console/internal/domain"
)

const (
	// QuietPeriod is how long after the console's own archive write events
	// are ignored.
	QuietPeriod = time.Second

	// SettleDelay is how long the archive must stay untouched before it is
	// reloaded.
	SettleDelay = 100 * time.Millisecond
)

// Target is the console being kept in sync with its archive.
type Target interface {
	ArchivePath() string
	LastArchiveWrite() time.Time
	QueueCommandSilent(text string)
}

// Watcher queues an exec of the archive whenever another program changes it.
type Watcher struct {
	target Target
	logger domain.Logger
	path   string
	fs     *fsnotify.Watcher
}

// New starts watching the directory holding the target's archive, creating
// it when missing.
func New(target Target, logger domain.Logger) (*Watcher, error) {
	path := filepath.Clean(target.ArchivePath())
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("watch: create %s: %w", filepath.Dir(path), err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{target: target, logger: logger, path: path, fs: fsw}, nil
}

// Run handles file events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	settle := time.NewTimer(SettleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.handle(e, time.Now()) {
				settle.Reset(SettleDelay)
			}

		case <-settle.C:
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: %v", err)
		}
	}
}

func (w *Watcher) handle(e fsnotify.Event, now time.Time) bool {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return false
	}
	if filepath.Clean(e.Name) != w.path {
		return false
	}
	return now.Sub(w.target.LastArchiveWrite()) >= QuietPeriod
}

func (w *Watcher) reload() {
	w.logger.Info("watch: %s changed, reloading", w.path)
	w.target.QueueCommandSilent("exec " + cmdline.Quote(w.path))
}
