package console

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/footprint-tools/console/internal/cmdline"
	"github.com/footprint-tools/console/internal/config"
)

// ArchiveFunc appends a section of its own to the archive being written.
type ArchiveFunc func(buf *strings.Builder)

const (
	archiveRule   = "// -----------------------------------------------------"
	archiveHeader = archiveRule + "\n// Auto generated file, archived variables are rewritten on save\n\n"
	cfgExt        = ".cfg"
)

// AddArchiveCallback registers fn to run every time an archive is built,
// after the archived variables, in registration order.
func (c *Console) AddArchiveCallback(fn ArchiveFunc) {
	if fn == nil {
		return
	}
	c.amu.Lock()
	defer c.amu.Unlock()
	c.archiveFuncs = append(c.archiveFuncs, fn)
}

// SetDefaultArchive sets the archive written when no path is given and the
// fallback read at startup when it does not exist. Empty arguments keep the
// current values.
func (c *Console) SetDefaultArchive(file, defaultFile string) {
	c.amu.Lock()
	defer c.amu.Unlock()
	if file != "" {
		c.archive = file
	}
	if defaultFile != "" {
		c.archiveDefault = defaultFile
	}
}

// ArchivePath returns the resolved default archive path.
func (c *Console) ArchivePath() string {
	c.amu.Lock()
	file := c.archive
	c.amu.Unlock()
	return c.ResolvePath(file)
}

// DefaultArchivePath returns the resolved fallback archive path.
func (c *Console) DefaultArchivePath() string {
	c.amu.Lock()
	file := c.archiveDefault
	c.amu.Unlock()
	return c.ResolvePath(file)
}

// CfgDir returns the directory relative config paths resolve against.
func (c *Console) CfgDir() string {
	return c.cfgDir
}

// ResolvePath maps a config name to a file path. ".cfg" is appended when
// missing, and relative paths not already inside the cfg dir are placed
// there.
func (c *Console) ResolvePath(file string) string {
	if !strings.HasSuffix(file, cfgExt) {
		file += cfgExt
	}
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}

	dir := filepath.Clean(c.cfgDir)
	clean := filepath.Clean(file)
	if clean == dir || strings.HasPrefix(clean, dir+string(filepath.Separator)) {
		return clean
	}
	return filepath.Join(dir, clean)
}

// BuildArchive renders the archive text: a header, one line per variable
// flagged FlagArchive in registration order, then each callback section.
// A string value holding a newline cannot be read back and is skipped with
// an error logged.
func (c *Console) BuildArchive() string {
	var b strings.Builder
	b.WriteString(archiveHeader)

	for _, e := range c.Entries() {
		if !e.IsVar() || e.Flags()&FlagArchive == 0 {
			continue
		}
		value := e.Value().String()
		if !cmdline.Quotable(value) {
			c.logger.Error("console: %q holds a newline and is left out of the archive", e.Name())
			continue
		}
		b.WriteString(e.Name())
		b.WriteString(" ")
		b.WriteString(cmdline.Quote(value))
		b.WriteString("\n")
	}

	c.amu.Lock()
	funcs := append([]ArchiveFunc(nil), c.archiveFuncs...)
	c.amu.Unlock()

	for _, fn := range funcs {
		b.WriteString("\n")
		b.WriteString(archiveRule)
		b.WriteString("\n")
		fn(&b)
	}

	return b.String()
}

// WriteArchive writes the archive to path, or to ArchivePath when path is
// empty. Failures are logged and returned wrapping ErrArchiveIO; the
// registry is not affected.
func (c *Console) WriteArchive(path string) error {
	if path == "" {
		path = c.ArchivePath()
	} else {
		path = c.ResolvePath(path)
	}

	data := []byte(c.BuildArchive())
	err := config.WithLock(path, func() error {
		return config.WriteFileAtomic(path, data)
	})
	if err != nil {
		c.logger.Error("console: failed to write archive %s: %v", path, err)
		return fmt.Errorf("%w: %s: %w", ErrArchiveIO, path, err)
	}

	c.amu.Lock()
	c.lastArchiveWrite = time.Now()
	c.amu.Unlock()

	c.logger.Info("console: wrote archive %s", path)
	return nil
}

// LastArchiveWrite returns when this Console last wrote an archive.
func (c *Console) LastArchiveWrite() time.Time {
	c.amu.Lock()
	defer c.amu.Unlock()
	return c.lastArchiveWrite
}
