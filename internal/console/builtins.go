package console

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/bmatcuk/doublestar/v4"
)

func (c *Console) registerBuiltins() {
	c.dupHistory, _ = c.RegisterBool("con_remove_dup_input_history", true,
		WithFlags(FlagArchive),
		WithDescription("Remove earlier copies of a command from the input history"))
	c.searchMode, _ = c.RegisterRangeInt("con_search_behavior", SearchContains, SearchPrefix, SearchContains,
		WithFlags(FlagArchive),
		WithDescription("0 matches names by prefix only, 1 also matches names containing the text"))

	builtins := []struct {
		name     string
		desc     string
		fn       CommandFunc
		dropdown DropdownFunc
	}{
		{"exec", "Run a config script", c.cmdExec, c.dropdownCfgFiles},
		{"echo", "Print the arguments", c.cmdEcho, nil},
		{"help", "List every entry, or show help for one", c.cmdHelp, c.dropdownNames},
		{"find", "List entries matching any of the arguments (globs allowed)", c.cmdFind, nil},
		{"findand", "List entries matching all of the arguments (globs allowed)", c.cmdFindAnd, nil},
		{"cvar_reset", "Reset a variable to its default", c.cmdReset, c.dropdownVars},
		{"cvar_toggle", "Flip a bool variable", c.cmdToggle, c.dropdownVars},
		{"flags", "List registered flags", c.cmdFlags, nil},
		{"app.config.write", "Write the archive, optionally to another file", c.cmdWriteArchive, nil},
		{"con_cvar_mem_usage", "Print registry memory usage", c.cmdMemUsage, nil},
		{"con_history_clear", "Clear the input history", c.cmdHistoryClear, nil},
	}

	for _, b := range builtins {
		opts := []RegisterOption{WithDescription(b.desc)}
		if b.dropdown != nil {
			opts = append(opts, WithDropdown(b.dropdown))
		}
		if err := c.RegisterCommand(b.name, b.fn, opts...); err != nil {
			c.logger.Error("console: register %s: %v", b.name, err)
		}
	}
}

func (c *Console) cmdExec(args []string, _ string) {
	if len(args) == 0 {
		c.Println("usage: exec <file>")
		return
	}
	_ = c.Exec(args[0])
}

func (c *Console) cmdEcho(args []string, _ string) {
	c.Println(strings.Join(args, " "))
}

func (c *Console) cmdHelp(args []string, _ string) {
	if len(args) == 0 {
		for _, e := range c.Entries() {
			c.Println(c.Summary(e))
		}
		return
	}
	for _, name := range args {
		text, err := c.Help(name)
		if err != nil {
			c.Println(c.styler.Error(fmt.Sprintf("help: %q is not a command or variable", name)))
			continue
		}
		c.Println(text)
	}
}

func (c *Console) cmdFind(args []string, _ string) {
	c.printMatches(args, false)
}

func (c *Console) cmdFindAnd(args []string, _ string) {
	c.printMatches(args, true)
}

func (c *Console) printMatches(patterns []string, all bool) {
	if len(patterns) == 0 {
		c.Println("usage: find <text> [text...]")
		return
	}
	for _, e := range c.Entries() {
		if matchName(e.Name(), patterns, all) {
			c.Println(c.Summary(e))
		}
	}
}

// matchName reports whether name matches any (or, with all, every) pattern.
// Patterns holding glob syntax are matched with doublestar, others as case
// insensitive substrings.
func matchName(name string, patterns []string, all bool) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		p = strings.ToLower(p)
		var ok bool
		if strings.ContainsAny(p, "*?[{") {
			ok, _ = doublestar.Match(p, lower)
		} else {
			ok = strings.Contains(lower, p)
		}
		if ok && !all {
			return true
		}
		if !ok && all {
			return false
		}
	}
	return all
}

func (c *Console) cmdReset(args []string, _ string) {
	if len(args) == 0 {
		c.Println("usage: cvar_reset <name>")
		return
	}
	e, ok := c.lookup(args[0])
	if !ok || !e.IsVar() {
		c.Println(c.styler.Error(fmt.Sprintf("cvar_reset: %q is not a variable", args[0])))
		return
	}
	c.ResetToDefault(e.Name())
}

func (c *Console) cmdToggle(args []string, _ string) {
	if len(args) == 0 {
		c.Println("usage: cvar_toggle <name>")
		return
	}
	e, ok := c.lookup(args[0])
	if !ok || e.Kind() != KindBool {
		c.Println(c.styler.Error(fmt.Sprintf("cvar_toggle: %q is not a bool variable", args[0])))
		return
	}
	c.SetValue(e.Name(), BoolValue(!e.Value().Bool()))
}

func (c *Console) cmdFlags(_ []string, _ string) {
	for i := 0; i < c.flags.Count(); i++ {
		f := Flag(1) << i
		name, _ := c.flags.Name(f)
		gate := ""
		if c.flags.Callback(f) != nil {
			gate = c.styler.Muted(" (gated)")
		}
		c.Printf("%#018x %s%s\n", uint64(f), name, gate)
	}
}

func (c *Console) cmdWriteArchive(args []string, _ string) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if err := c.WriteArchive(path); err != nil {
		c.Println(c.styler.Error(err.Error()))
	}
}

func (c *Console) cmdMemUsage(_ []string, _ string) {
	entries := c.Entries()

	var commands, vars, text int
	for _, e := range entries {
		if e.IsCommand() {
			commands++
		} else {
			vars++
			if v := e.Value(); v.Kind() == KindString {
				text += len(v.Text()) + len(e.Default().Text())
			}
		}
		text += len(e.Name()) + len(e.Description())
	}

	size := commands*int(unsafe.Sizeof(command{})) +
		vars*int(unsafe.Sizeof(variable{})) +
		len(entries)*int(unsafe.Sizeof(Entry{})+unsafe.Sizeof(&Entry{})) +
		text

	c.Printf("%d entries (%d commands, %d variables), %d flags\n", len(entries), commands, vars, c.flags.Count())
	c.Printf("about %d bytes (%.2f KiB)\n", size, float64(size)/1024)
}

func (c *Console) cmdHistoryClear(_ []string, _ string) {
	if err := c.ClearHistory(); err != nil {
		c.Println(c.styler.Error(err.Error()))
	}
}

func (c *Console) dropdownNames(args []string, _ string) []string {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	var out []string
	for _, m := range c.search(prefix, SearchPrefix) {
		out = append(out, m.Name)
	}
	return out
}

func (c *Console) dropdownVars(args []string, full string) []string {
	var out []string
	for _, name := range c.dropdownNames(args, full) {
		if e, ok := c.GetEntry(name); ok && e.IsVar() {
			out = append(out, name)
		}
	}
	return out
}

// dropdownCfgFiles lists the .cfg files under the cfg dir, relative to it
// and without extension, that start with the typed argument.
func (c *Console) dropdownCfgFiles(args []string, _ string) []string {
	prefix := ""
	if len(args) > 0 {
		prefix = strings.ToLower(args[0])
	}

	matches, err := doublestar.Glob(os.DirFS(c.cfgDir), "**/*"+cfgExt)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("console: list %s: %v", c.cfgDir, err)
	}

	var out []string
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.ToSlash(m), cfgExt)
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			out = append(out, name)
		}
	}
	return out
}
