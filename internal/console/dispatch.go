package console

import (
	"fmt"
	"strings"

	"github.com/footprint-tools/console/internal/cmdline"
)

// SetValue changes a variable. The flag gates of the entry run first, lowest
// bit first; a gate returning false aborts the change. The entry's change
// function then sees the proposed value and may rewrite it, and range kinds
// are clamped when the result is stored.
func (c *Console) SetValue(name string, v Value) Result {
	e, ok := c.GetEntry(name)
	if !ok {
		c.logger.Warn("console: cannot set %q, no such variable", name)
		return ResultNotFound
	}
	if !e.IsVar() || !v.fits(e.kind) {
		c.logger.Error("console: type mismatch for %s, got %q, expected %q", name, v.kind, e.kind)
		return ResultTypeMismatch
	}

	text := v.String()
	if !c.passGates(e, name, []string{text}, name+" "+cmdline.Quote(text)) {
		return ResultGateRejected
	}

	c.commit(e, name, v)
	return ResultOk
}

// ResetToDefault sets a variable back to its registered default through the
// same protocol as SetValue.
func (c *Console) ResetToDefault(name string) Result {
	e, ok := c.GetEntry(name)
	if !ok {
		c.logger.Warn("console: cannot reset %q, no such variable", name)
		return ResultNotFound
	}
	if !e.IsVar() {
		c.logger.Error("console: cannot reset %q, it is a command", name)
		return ResultTypeMismatch
	}
	return c.SetValue(name, e.Default())
}

func (c *Console) passGates(e *Entry, name string, args []string, full string) bool {
	for _, gate := range c.flags.gates(e.flags) {
		if !gate(name, args, full) {
			c.logger.Debug("console: %q rejected by flag callback", name)
			return false
		}
	}
	return true
}

func (c *Console) commit(e *Entry, name string, proposed Value) {
	c.mu.RLock()
	prev := e.cvar.value
	change := e.cvar.change
	c.mu.RUnlock()

	next := proposed
	if change != nil {
		change(prev, &next)
		if !next.fits(e.kind) {
			c.logger.Error("console: change function of %q produced a %s, keeping %s", name, next.kind, prev)
			next = prev
		}
	}

	if e.kind.IsRange() {
		clamped, changed := clampValue(next, e.cvar.lo, e.cvar.hi)
		if changed {
			c.logger.Warn("console: value out of range for %s, got %s, must be within %s - %s", name, next, e.cvar.lo, e.cvar.hi)
		}
		next = clamped
	}

	c.mu.Lock()
	e.cvar.value = next
	c.mu.Unlock()
}

// RunCommand runs every command in text immediately, bypassing the queue.
// A failing command does not stop the ones after it; the failures are
// returned together.
func (c *Console) RunCommand(text string) error {
	var failed []error
	for _, cmd := range cmdline.Split(text) {
		if err := c.dispatch(cmd); err != nil {
			failed = append(failed, err)
		}
	}
	return joinErrors(failed)
}

// RunCommandArgs runs one command given as a name and arguments. Arguments
// holding a newline are rejected with ErrInvalidArgs.
func (c *Console) RunCommandArgs(name string, args ...string) error {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if !cmdline.Quotable(a) {
			c.logger.Error("console: %s: argument %q holds a newline", name, a)
			return fmt.Errorf("%w: %s: argument holds a newline", ErrInvalidArgs, name)
		}
		parts = append(parts, cmdline.Quote(a))
	}
	cmd := cmdline.Parse(strings.Join(parts, " "))
	cmd.Name = name
	return c.dispatch(cmd)
}

func (c *Console) dispatch(cmd cmdline.Command) error {
	e, ok := c.lookup(cmd.Name)
	if !ok {
		c.reportUnknown(cmd.Name)
		return fmt.Errorf("%w: %q", ErrNotFound, cmd.Name)
	}
	name := e.Name()

	if e.IsVar() && len(cmd.Args) == 0 {
		c.Println(c.HelpEntry(e))
		return nil
	}

	if !c.passGates(e, name, cmd.Args, cmd.Full) {
		return fmt.Errorf("%w: %q", ErrGateRejected, name)
	}

	if e.IsCommand() {
		e.cmd.fn(cmd.Args, cmd.Full)
		return nil
	}

	v, err := valueFromArgs(e.kind, cmd.Args, cmd.Tail())
	if err != nil {
		c.logger.Error("console: %s: %v", name, err)
		return fmt.Errorf("%s: %w", name, err)
	}
	c.commit(e, name, v)
	return nil
}

func (c *Console) reportUnknown(name string) {
	msg := fmt.Sprintf("unknown command %q", name)
	if similar := FindSimilar(name, c.nameList(), 3); len(similar) > 0 {
		msg += ", did you mean " + strings.Join(similar, ", ") + "?"
	}
	c.logger.Warn("console: %s", msg)
	c.Println(c.styler.Error(msg))
}

func (c *Console) nameList() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}
