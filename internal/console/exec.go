package console

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/footprint-tools/console/internal/cmdline"
	"github.com/footprint-tools/console/internal/config"
)

// Exec runs a config script immediately. Each line has its "//" comment
// removed and is run like typed input, so ';' separates commands too. A bad
// line is reported and skipped. A script that execs itself, directly or
// through another script, is refused.
func (c *Console) Exec(file string) error {
	path := c.ResolvePath(file)

	c.execMu.Lock()
	if slices.Contains(c.execStack, path) {
		c.execMu.Unlock()
		c.logger.Error("console: refusing to exec %s recursively", path)
		return fmt.Errorf("%w: %s is already running", ErrInvalidArgs, path)
	}
	c.execStack = append(c.execStack, path)
	c.execMu.Unlock()

	defer func() {
		c.execMu.Lock()
		c.execStack = slices.DeleteFunc(c.execStack, func(p string) bool { return p == path })
		c.execMu.Unlock()
	}()

	lines, err := config.ReadScript(path)
	if err != nil {
		c.logger.Error("console: failed to exec %s: %v", path, err)
		return fmt.Errorf("%w: %s: %w", ErrArchiveIO, path, err)
	}

	c.logger.Debug("console: exec %s (%d lines)", path, len(lines))

	var failed []error
	for n, line := range lines {
		line = cmdline.StripComment(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := c.RunCommand(line); err != nil {
			failed = append(failed, fmt.Errorf("%s:%d: %w", path, n+1, err))
		}
	}
	return joinErrors(failed)
}

// StartupScripts lists the scripts to run at boot: the archive, or the
// default archive when the archive is missing, followed by the file of
// every -exec argument.
func (c *Console) StartupScripts(args []string) []string {
	var scripts []string
	for _, p := range []string{c.ArchivePath(), c.DefaultArchivePath()} {
		if _, err := os.Stat(p); err == nil {
			scripts = append(scripts, p)
			break
		}
	}
	return append(scripts, ExecArgs(args)...)
}

// PostLoad queues a silent exec of every startup script. Call it once all
// variables are registered and before the first Update.
func (c *Console) PostLoad(args []string) []string {
	scripts := c.StartupScripts(args)
	for _, s := range scripts {
		c.QueueCommandSilent("exec " + cmdline.Quote(s))
	}
	return scripts
}

// ExecArgs extracts the files named by "-exec <file>" or "-exec=<file>"
// in a process argument list.
func ExecArgs(args []string) []string {
	var files []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-exec" || a == "--exec":
			if i+1 < len(args) {
				files = append(files, args[i+1])
				i++
			}
		case strings.HasPrefix(a, "-exec="):
			files = append(files, strings.TrimPrefix(a, "-exec="))
		case strings.HasPrefix(a, "--exec="):
			files = append(files, strings.TrimPrefix(a, "--exec="))
		}
	}
	return files
}
