// Package cli parses the host command line.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/footprint-tools/console/internal/ui/style"
	"github.com/footprint-tools/console/internal/usage"
)

// FlagDescriptor documents one host flag.
type FlagDescriptor struct {
	Names       []string
	ValueHint   string
	Description string
	Repeatable  bool
}

// RootFlags lists every flag the host accepts.
var RootFlags = []FlagDescriptor{
	{
		Names:       []string{"--help", "-h"},
		Description: "Show help",
	},
	{
		Names:       []string{"--version", "-v"},
		Description: "Show version",
	},
	{
		Names:       []string{"--no-color"},
		Description: "Disable colored output",
	},
	{
		Names:       []string{"--batch"},
		Description: "Run the startup scripts, drain the command queue and exit",
	},
	{
		Names:       []string{"--exec", "-exec"},
		ValueHint:   "<file>",
		Description: "Run a config script after the archive",
		Repeatable:  true,
	},
	{
		Names:       []string{"--log-level"},
		ValueHint:   "<level>",
		Description: "Minimum log level: debug, info, warn, error",
	},
	{
		Names:       []string{"--cfg-dir"},
		ValueHint:   "<dir>",
		Description: "Directory holding config scripts",
	},
}

func lookup(name string) (FlagDescriptor, bool) {
	for _, d := range RootFlags {
		for _, n := range d.Names {
			if n == name {
				return d, true
			}
		}
	}
	return FlagDescriptor{}, false
}

// Parse splits args into normalized flags. Value flags given as
// "--flag value" become "--flag=value" under their first name. Unknown
// flags and positional arguments are reported as *usage.Error.
func Parse(args []string) (*ParsedFlags, error) {
	var flags []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			return nil, usage.UnexpectedArgument(arg)
		}

		name, value, hasValue := strings.Cut(arg, "=")
		d, ok := lookup(name)
		if !ok {
			return nil, usage.UnknownFlag(name)
		}
		canonical := d.Names[0]

		if d.ValueHint == "" {
			if hasValue {
				return nil, usage.InvalidFlag(name, "does not take a value")
			}
			flags = append(flags, canonical)
			continue
		}

		if !hasValue {
			if i+1 >= len(args) {
				return nil, usage.MissingArgument(name, d.ValueHint)
			}
			i++
			value = args[i]
		}
		flags = append(flags, canonical+"="+value)
	}

	return NewParsedFlags(flags), nil
}

// ParsedFlags provides typed access to command-line flags.
type ParsedFlags struct {
	raw []string
}

// NewParsedFlags creates a ParsedFlags from a slice of flag strings.
func NewParsedFlags(flags []string) *ParsedFlags {
	return &ParsedFlags{raw: flags}
}

// Raw returns the underlying flag strings.
func (f *ParsedFlags) Raw() []string {
	return f.raw
}

// Has returns true if the flag is present (for boolean flags).
func (f *ParsedFlags) Has(name string) bool {
	for _, flag := range f.raw {
		if flag == name {
			return true
		}
	}
	return false
}

// String returns the value of a flag, or defaultVal if not present.
func (f *ParsedFlags) String(name, defaultVal string) string {
	prefix := name + "="
	for _, flag := range f.raw {
		if strings.HasPrefix(flag, prefix) {
			return strings.TrimPrefix(flag, prefix)
		}
	}
	return defaultVal
}

// PrintUsage writes the host help text.
func PrintUsage(w io.Writer, program string) {
	_, _ = fmt.Fprintf(w, "%s %s\n\n", style.Header("usage:"), style.Info(program)+" "+style.Muted("[flags]"))
	_, _ = fmt.Fprintln(w, style.Header("flags:"))

	width := 0
	labels := make([]string, len(RootFlags))
	for i, d := range RootFlags {
		label := strings.Join(d.Names, ", ")
		if d.ValueHint != "" {
			label += " " + d.ValueHint
		}
		labels[i] = label
		width = max(width, len(label))
	}

	for i, d := range RootFlags {
		desc := d.Description
		if d.Repeatable {
			desc += " (repeatable)"
		}
		_, _ = fmt.Fprintf(w, "  %s  %s\n", style.Info(fmt.Sprintf("%-*s", width, labels[i])), desc)
	}
}
