// Package console implements a typed command and variable registry.
//
// Entries are registered by name as either commands or typed variables.
// Text input is tokenized by package cmdline, queued, and dispatched once per
// frame by Update. Variables flagged FlagArchive are persisted by
// WriteArchive as console commands that exec can read back.
//
// A Console is safe for concurrent use. Structural changes and queue access
// are guarded by short critical sections; no lock is held while user
// callbacks run, so callbacks may freely call back into the Console.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/footprint-tools/console/internal/domain"
	"github.com/footprint-tools/console/internal/log"
	"github.com/footprint-tools/console/internal/ui/style"
)

const (
	defaultCfgDir         = "cfg"
	defaultArchive        = "config.cfg"
	defaultArchiveDefault = "config_default.cfg"
	defaultHistoryLimit   = 512
)

// Console owns the flag registry, the value store and the command queue.
type Console struct {
	flags *FlagRegistry

	mu            sync.RWMutex
	entries       []*Entry
	names         []string
	descs         []string
	index         map[string]int
	registerFlags Flag

	qmu          sync.Mutex
	pending      []queued
	spare        []queued
	history      []string
	historyLimit int

	amu              sync.Mutex
	archiveFuncs     []ArchiveFunc
	cfgDir           string
	archive          string
	archiveDefault   string
	lastArchiveWrite time.Time

	execMu    sync.Mutex
	execStack []string

	outMu sync.Mutex
	out   io.Writer

	logger domain.Logger
	styler domain.Styler
	store  domain.HistoryStore

	dupHistory Var[bool]
	searchMode Var[int]
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the diagnostics logger.
func WithLogger(l domain.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOutput sets where printed console text goes.
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		if w != nil {
			c.out = w
		}
	}
}

// WithStyler sets the styler used by help and search output.
func WithStyler(s domain.Styler) Option {
	return func(c *Console) {
		if s != nil {
			c.styler = s
		}
	}
}

// WithHistoryStore persists queued input that is added to history.
func WithHistoryStore(s domain.HistoryStore) Option {
	return func(c *Console) {
		c.store = s
	}
}

// WithHistoryLimit bounds the in-memory history. Zero or less keeps the default.
func WithHistoryLimit(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

// WithCfgDir sets the directory relative config paths resolve against.
func WithCfgDir(dir string) Option {
	return func(c *Console) {
		if dir != "" {
			c.cfgDir = dir
		}
	}
}

// New creates a Console with the built-in commands and variables registered.
func New(opts ...Option) *Console {
	c := &Console{
		flags:          NewFlagRegistry(),
		index:          make(map[string]int),
		historyLimit:   defaultHistoryLimit,
		cfgDir:         defaultCfgDir,
		archive:        defaultArchive,
		archiveDefault: defaultArchiveDefault,
		out:            os.Stdout,
		logger:         log.NopLogger{},
		styler:         style.NopStyler{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.registerBuiltins()
	return c
}

// Flags returns the flag registry.
func (c *Console) Flags() *FlagRegistry {
	return c.flags
}

// CreateFlag registers a flag by name. Running out of bits is logged as an
// error since it means the program registers too many flags.
func (c *Console) CreateFlag(name string) (Flag, error) {
	f, err := c.flags.Create(name)
	if err != nil {
		c.logger.Error("console: %v", err)
	}
	return f, err
}

// SetFlagCallback installs the gate of the flag called name.
func (c *Console) SetFlagCallback(name string, gate GateFunc) error {
	f, ok := c.flags.ByName(name)
	if !ok {
		return fmt.Errorf("%w: flag %q", ErrNotFound, name)
	}
	return c.flags.SetCallback(f, gate)
}

// SetRegisterFlags sets flags added to every entry registered afterwards.
// Bits not allocated by CreateFlag are dropped.
func (c *Console) SetRegisterFlags(f Flag) {
	if unknown := f &^ c.flags.Allocated(); unknown != 0 {
		c.logger.Warn("console: register flags hold unallocated bits %#x, dropped", uint64(unknown))
		f &^= unknown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerFlags = f
}

// RegisterFlags returns the flags added to new entries.
func (c *Console) RegisterFlags() Flag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registerFlags
}

// Printf writes formatted text to the console output.
func (c *Console) Printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// Println writes a line to the console output.
func (c *Console) Println(text string) {
	c.Printf("%s\n", text)
}
