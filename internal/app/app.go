package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/footprint-tools/console/internal/config"
	"github.com/footprint-tools/console/internal/console"
	"github.com/footprint-tools/console/internal/domain"
	"github.com/footprint-tools/console/internal/history"
	"github.com/footprint-tools/console/internal/log"
	"github.com/footprint-tools/console/internal/paths"
	"github.com/footprint-tools/console/internal/ui/style"
	"github.com/footprint-tools/console/internal/watch"
)

// maxBatchFrames bounds how many frames batch mode runs while commands keep
// queueing more commands.
const maxBatchFrames = 1000

// Options configures the application factory.
type Options struct {
	// Log options
	LogEnabled bool
	LogLevel   log.Level
	LogPath    string
	LogEcho    io.Writer

	// Style options
	Color        string
	StyleEnabled bool
	StyleConfig  map[string]string

	// Console options
	Output         io.Writer
	CfgDir         string
	Archive        string
	ArchiveDefault string

	// History options
	HistoryEnabled bool
	HistoryLimit   int
	HistoryPath    string

	WatchArchive bool
	Frame        time.Duration

	// Settings is exposed to the console through the host_setting command.
	Settings domain.ConfigProvider
}

// DefaultOptions builds options from the host settings. Values that fail to
// read or validate fall back to their defaults; the error reports them.
func DefaultOptions(settings domain.ConfigProvider) (Options, error) {
	all, err := settings.GetAll()
	if err == nil {
		err = config.Validate(all)
	}

	get := func(key string) string {
		if v, ok := all[key]; ok && v != "" {
			return v
		}
		v, _ := config.DefaultValue(key)
		return v
	}

	opts := Options{
		LogEnabled:     parseBool(get("log_enabled"), true),
		LogLevel:       log.ParseLevel(get("log_level")),
		LogPath:        paths.LogFilePath(),
		Color:          get("color"),
		StyleEnabled:   true,
		StyleConfig:    all,
		Output:         os.Stdout,
		CfgDir:         get("cfg_dir"),
		Archive:        get("archive"),
		ArchiveDefault: get("archive_default"),
		HistoryEnabled: parseBool(get("history_enabled"), true),
		HistoryLimit:   parsePositive(get("history_limit"), 512),
		HistoryPath:    paths.HistoryDBPath(),
		WatchArchive:   parseBool(get("watch_archive"), false),
		Frame:          time.Duration(parsePositive(get("frame_ms"), 16)) * time.Millisecond,
		Settings:       settings,
	}
	return opts, err
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parsePositive(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// ColorEnabled resolves a color setting against whether output is a terminal.
func ColorEnabled(mode string, tty bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return tty
	}
}

// App holds the wired console and the resources backing it.
type App struct {
	Console *console.Console
	Logger  domain.Logger
	History *history.Store
	Watcher *watch.Watcher
	Frame   time.Duration

	settings     domain.ConfigProvider
	historyLimit int
	closed       bool
}

// New creates the console with all dependencies wired up. Failing optional
// parts such as the log file or the history database are logged and left
// out rather than failing startup.
func New(opts Options) (*App, error) {
	logger := newLogger(opts)

	style.Init(opts.StyleEnabled, opts.StyleConfig)
	var styler domain.Styler = style.NopStyler{}
	if opts.StyleEnabled {
		styler = style.NewStyler()
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	conOpts := []console.Option{
		console.WithLogger(logger),
		console.WithOutput(out),
		console.WithStyler(styler),
		console.WithHistoryLimit(opts.HistoryLimit),
		console.WithCfgDir(opts.CfgDir),
	}

	a := &App{Logger: logger, Frame: opts.Frame, settings: opts.Settings, historyLimit: opts.HistoryLimit}

	if opts.HistoryEnabled && opts.HistoryPath != "" {
		store, err := history.New(opts.HistoryPath)
		if err != nil {
			logger.Warn("app: history disabled: %v", err)
		} else {
			if opts.HistoryLimit > 0 {
				if err := store.Trim(opts.HistoryLimit); err != nil {
					logger.Warn("app: trim history: %v", err)
				}
			}
			a.History = store
			conOpts = append(conOpts, console.WithHistoryStore(store))
		}
	}

	a.Console = console.New(conOpts...)
	a.Console.SetDefaultArchive(opts.Archive, opts.ArchiveDefault)

	if opts.WatchArchive {
		w, err := watch.New(a.Console, logger)
		if err != nil {
			logger.Warn("app: archive watch disabled: %v", err)
		} else {
			a.Watcher = w
		}
	}

	if a.settings != nil {
		if err := a.Console.RegisterCommand("host_setting", a.cmdHostSetting,
			console.WithDescription("Show or change a host setting: host_setting [key [value]]"),
			console.WithDropdown(a.dropdownSettings)); err != nil {
			logger.Error("app: %v", err)
		}
	}

	logger.Debug("app: console ready, cfg dir %s", a.Console.CfgDir())
	return a, nil
}

func newLogger(opts Options) domain.Logger {
	var loggers log.Multi

	if opts.LogEnabled && opts.LogPath != "" {
		l, err := log.New(opts.LogPath, opts.LogLevel)
		if err == nil {
			log.SetDefault(l)
			loggers = append(loggers, l)
		}
	}
	if opts.LogEcho != nil {
		loggers = append(loggers, log.NewWriter(opts.LogEcho, max(opts.LogLevel, log.LevelWarn)))
	}

	switch len(loggers) {
	case 0:
		return log.NopLogger{}
	case 1:
		return loggers[0]
	default:
		return loggers
	}
}

// Watch runs the archive watcher, if enabled, until ctx is done.
func (a *App) Watch(ctx context.Context) {
	if a.Watcher == nil {
		return
	}
	go func() {
		if err := a.Watcher.Run(ctx); err != nil {
			a.Logger.Warn("app: archive watch stopped: %v", err)
		}
	}()
}

// RunBatch runs the startup scripts immediately, then drains the command
// queue. It returns the errors of the scripts that failed.
func (a *App) RunBatch(args []string) error {
	var failed []error
	for _, script := range a.Console.StartupScripts(args) {
		if err := a.Console.Exec(script); err != nil {
			failed = append(failed, err)
		}
	}

	for i := 0; i < maxBatchFrames && a.Console.Pending() > 0; i++ {
		a.Console.Update()
	}
	if n := a.Console.Pending(); n > 0 {
		a.Logger.Warn("app: %d commands still queued after %d frames", n, maxBatchFrames)
	}

	switch len(failed) {
	case 0:
		return nil
	case 1:
		return failed[0]
	default:
		return fmt.Errorf("%d startup scripts failed: %w", len(failed), failed[0])
	}
}

func (a *App) cmdHostSetting(args []string, _ string) {
	switch len(args) {
	case 0:
		all, err := a.settings.GetAll()
		if err != nil {
			a.Console.Println(style.Error(err.Error()))
		}
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			a.Console.Printf("%s=%s\n", k, all[k])
		}

	case 1:
		v, ok := a.settings.Get(args[0])
		if !ok {
			a.Console.Println(style.Warning(fmt.Sprintf("host_setting: unknown key %q", args[0])))
			return
		}
		a.Console.Printf("%s=%s\n", args[0], v)

	default:
		key, value := args[0], strings.Join(args[1:], " ")
		if _, ok := config.DefaultValue(key); !ok {
			a.Console.Println(style.Warning(fmt.Sprintf("host_setting: unknown key %q", key)))
			return
		}
		if err := config.Validate(map[string]string{key: value}); err != nil {
			a.Console.Println(style.Error(err.Error()))
			return
		}
		if err := a.settings.Set(key, value); err != nil {
			a.Logger.Error("app: write setting %s: %v", key, err)
			a.Console.Println(style.Error(err.Error()))
			return
		}
		a.Console.Printf("%s=%s (applies on next start)\n", key, value)
	}
}

func (a *App) dropdownSettings(args []string, _ string) []string {
	if len(args) > 1 {
		return nil
	}
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	var out []string
	for _, k := range config.Keys {
		if strings.HasPrefix(k.Name, prefix) {
			out = append(out, k.Name)
		}
	}
	return out
}

// RestoreHistory seeds the console input history from the history store.
// Call it after the archive has run so con_remove_dup_input_history has its
// saved value.
func (a *App) RestoreHistory() {
	if a.History == nil {
		return
	}
	lines, err := a.History.Recent(a.historyLimit)
	if err != nil {
		a.Logger.Warn("app: load history: %v", err)
		return
	}
	a.Console.LoadHistory(lines)
}

// Shutdown writes the archive when writeArchive is set, then closes the
// app. A failed write is returned but does not stop the close.
func (a *App) Shutdown(writeArchive bool) error {
	var err error
	if writeArchive {
		if err = a.Console.WriteArchive(""); err != nil {
			a.Logger.Error("app: write archive on exit: %v", err)
		}
	}
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close cleans up application resources. Calling it again is a no-op.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.History != nil {
		_ = a.History.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Close()
	}
	log.SetDefault(nil)
	return nil
}
