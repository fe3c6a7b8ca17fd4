package console

import (
	"fmt"
	"strings"
)

// Help renders the help text of the entry called name.
func (c *Console) Help(name string) (string, error) {
	e, ok := c.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.HelpEntry(e), nil
}

// HelpEntry renders an entry as
//
//	name value (default default) Range (min - max) - Type
//	  Flags: A | B
//	  description
//
// Lines without content are left out.
func (c *Console) HelpEntry(e *Entry) string {
	var b strings.Builder
	b.WriteString(e.Name())

	if e.IsVar() {
		b.WriteString(" ")
		b.WriteString(displayValue(e.Value()))
		b.WriteString(" ")
		b.WriteString(c.styler.Warning("(" + displayValue(e.Default()) + " default)"))
		if lo, hi, ok := e.Range(); ok {
			b.WriteString(" ")
			b.WriteString(c.styler.Muted("Range (" + lo.String() + " - " + hi.String() + ")"))
		}
	}

	b.WriteString(" - ")
	b.WriteString(c.styler.Info(e.Kind().String()))

	if names := c.flags.Names(e.Flags()); len(names) > 0 {
		b.WriteString("\n  Flags: ")
		b.WriteString(c.styler.Success(strings.Join(names, " | ")))
	}

	if desc := e.Description(); desc != "" {
		b.WriteString("\n  ")
		b.WriteString(desc)
	}

	return b.String()
}

func displayValue(v Value) string {
	if v.Kind() == KindString {
		return "\"" + v.Text() + "\""
	}
	return v.String()
}

// Summary renders a one line listing of an entry used by help and find.
func (c *Console) Summary(e *Entry) string {
	line := e.Name()
	if e.IsVar() {
		line += " " + displayValue(e.Value())
	}
	if desc := e.Description(); desc != "" {
		line += " " + c.styler.Muted("- "+desc)
	}
	return line
}
