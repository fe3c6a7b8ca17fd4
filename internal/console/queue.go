package console

import (
	"slices"

	"github.com/pixil98/go-errors"

	"github.com/footprint-tools/console/internal/cmdline"
)

type queued struct {
	text   string
	silent bool
}

// QueueCommand appends text to the command queue. The text is echoed to the
// output and, when addToHistory is set, recorded in the input history.
func (c *Console) QueueCommand(text string, addToHistory bool) {
	c.Printf("] %s\n", text)

	removeDup := !c.dupHistory.Valid() || c.dupHistory.Get()

	c.qmu.Lock()
	c.pending = append(c.pending, queued{text: text})
	recorded := addToHistory && c.addHistoryLocked(text, removeDup)
	c.qmu.Unlock()

	if recorded && c.store != nil {
		if err := c.store.Append(text); err != nil {
			c.logger.Warn("console: could not persist history: %v", err)
		}
	}
}

// QueueCommandSilent appends text to the queue without echo or history.
func (c *Console) QueueCommandSilent(text string) {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	c.pending = append(c.pending, queued{text: text, silent: true})
}

// Pending returns the number of queued entries waiting for Update.
func (c *Console) Pending() int {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	return len(c.pending)
}

// Update runs every entry queued before the call, in order. Entries queued
// while it runs wait for the next Update. A failing command is logged and
// the rest still run. It returns the number of commands dispatched.
func (c *Console) Update() int {
	c.qmu.Lock()
	batch := c.pending
	c.pending = c.spare[:0]
	c.spare = nil
	c.qmu.Unlock()

	ran := 0
	for _, q := range batch {
		for _, cmd := range cmdline.Split(q.text) {
			if err := c.dispatch(cmd); err != nil && !q.silent {
				c.logger.Debug("console: %q: %v", cmd.Full, err)
			}
			ran++
		}
	}

	clear(batch)
	c.qmu.Lock()
	if c.spare == nil {
		c.spare = batch[:0]
	}
	c.qmu.Unlock()
	return ran
}

// addHistoryLocked records text, dropping earlier copies when removeDup is
// set and otherwise only an immediate repeat. Caller holds qmu.
func (c *Console) addHistoryLocked(text string, removeDup bool) bool {
	if removeDup {
		c.history = slices.DeleteFunc(c.history, func(h string) bool { return h == text })
	} else if n := len(c.history); n > 0 && c.history[n-1] == text {
		return false
	}

	c.history = append(c.history, text)
	if over := len(c.history) - c.historyLimit; over > 0 {
		c.history = slices.Delete(c.history, 0, over)
	}
	return true
}

// History returns a copy of the input history, oldest first.
func (c *Console) History() []string {
	c.qmu.Lock()
	defer c.qmu.Unlock()
	return slices.Clone(c.history)
}

// LoadHistory seeds the in-memory history, typically from a HistoryStore at
// startup. Lines are not written back to the store.
func (c *Console) LoadHistory(lines []string) {
	removeDup := !c.dupHistory.Valid() || c.dupHistory.Get()

	c.qmu.Lock()
	defer c.qmu.Unlock()
	for _, line := range lines {
		c.addHistoryLocked(line, removeDup)
	}
}

// ClearHistory empties the in-memory history and the persistent store.
func (c *Console) ClearHistory() error {
	c.qmu.Lock()
	c.history = nil
	c.qmu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Clear()
}

// joinErrors returns nil, the single error, or every error as one list.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	el := errors.NewErrorList()
	for _, err := range errs {
		el.Add(err)
	}
	return el.Err()
}
