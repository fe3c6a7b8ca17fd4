package console

import (
	"strings"

	"github.com/footprint-tools/console/internal/cmdline"
)

// Search modes selected by con_search_behavior.
const (
	SearchPrefix   = 0
	SearchContains = 1
)

// Match is one search hit.
type Match struct {
	Name  string
	Index int
}

// Search returns the entries whose name matches text ignoring case. Names
// starting with text come first; in SearchContains mode names containing
// it follow. Each group keeps registration order.
func (c *Console) Search(text string) []Match {
	mode := SearchContains
	if c.searchMode.Valid() {
		mode = c.searchMode.Get()
	}
	return c.search(text, mode)
}

func (c *Console) search(text string, mode int) []Match {
	needle := strings.ToLower(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var prefix, contains []Match
	for i, name := range c.names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, needle):
			prefix = append(prefix, Match{Name: name, Index: i})
		case mode == SearchContains && strings.Contains(lower, needle):
			contains = append(contains, Match{Name: name, Index: i})
		}
	}
	return append(prefix, contains...)
}

// BuildAutoCompleteList returns full-line completions for partial input.
// Only the last command of a multi-command line is completed. When the
// typed name is a command with a dropdown and an argument has been started,
// the dropdown supplies the candidates; otherwise names starting with the
// typed text are offered.
func (c *Console) BuildAutoCompleteList(partial string) []string {
	head, tail := cmdline.LastSegment(partial)
	lead := ""
	if head != "" {
		lead = head + " "
	}

	trimmed := strings.TrimLeft(tail, " \t")
	cmd := cmdline.Parse(trimmed)

	if cmd.Name != "" && (len(cmd.Args) > 0 || strings.HasSuffix(trimmed, " ")) {
		e, ok := c.lookup(cmd.Name)
		if !ok || !e.HasDropdown() {
			return nil
		}
		name := e.Name()
		var out []string
		for _, candidate := range e.cmd.dropdown(cmd.Args, cmd.Full) {
			out = append(out, lead+name+" "+cmdline.Quote(candidate))
		}
		return out
	}

	var out []string
	for _, m := range c.search(cmd.Name, SearchPrefix) {
		out = append(out, lead+m.Name)
	}
	return out
}
