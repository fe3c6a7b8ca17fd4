// Package cmdline splits console input into commands.
//
// A line holds one or more commands separated by ';' or a newline. Each
// command is a name followed by whitespace separated arguments. A span
// enclosed in double or single quotes is kept as part of one argument with
// the quote characters removed, and adjacent spans join into one argument.
// There is no escape syntax: a quote character can only appear inside a span
// delimited by the other quote character. An unterminated span runs to the
// end of the line.
package cmdline

import "strings"

// Separator splits several commands written on one line.
const Separator = ';'

// Command is one parsed command.
type Command struct {
	Name string
	Args []string

	// Full is the command text with surrounding whitespace trimmed,
	// name included.
	Full string

	tail string
}

// Tail returns the raw text following the command name, trimmed.
func (c Command) Tail() string {
	return c.tail
}

// Parse returns the first command in line.
func Parse(line string) Command {
	cmd, _, _ := ParseEx(line, 0)
	return cmd
}

// ParseEx parses the command starting at byte offset pos. It returns the
// command, the offset where the next command starts and false once no
// command is left.
func ParseEx(line string, pos int) (Command, int, bool) {
	i := pos
	for i < len(line) && (isSpace(line[i]) || isSeparator(line[i])) {
		i++
	}
	if i >= len(line) {
		return Command{}, len(line), false
	}

	start := i
	nameEnd := -1
	var tokens []string

	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i >= len(line) || isSeparator(line[i]) {
			break
		}

		var b strings.Builder
		for i < len(line) {
			c := line[i]
			if c == '"' || c == '\'' {
				i++
				for i < len(line) && line[i] != c && line[i] != '\n' {
					b.WriteByte(line[i])
					i++
				}
				if i < len(line) && line[i] == c {
					i++
				}
				continue
			}
			if isSpace(c) || isSeparator(c) {
				break
			}
			b.WriteByte(c)
			i++
		}

		tokens = append(tokens, b.String())
		if nameEnd < 0 {
			nameEnd = i
		}
	}

	end := i
	next := end
	if next < len(line) {
		next++
	}

	cmd := Command{
		Full: strings.TrimSpace(line[start:end]),
	}
	if len(tokens) > 0 {
		cmd.Name = tokens[0]
		cmd.Args = tokens[1:]
		cmd.tail = strings.TrimSpace(line[nameEnd:end])
	}
	return cmd, next, true
}

// Split parses every command in line, skipping empty segments.
func Split(line string) []Command {
	var cmds []Command
	pos := 0
	for {
		cmd, next, ok := ParseEx(line, pos)
		if !ok {
			return cmds
		}
		if cmd.Name != "" || len(cmd.Args) > 0 {
			cmds = append(cmds, cmd)
		}
		pos = next
	}
}

// LastSegment splits line at its last separator outside quotes. head keeps
// the separator and everything before it.
func LastSegment(line string) (head, tail string) {
	cut := -1
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote || c == '\n' {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case isSeparator(c):
			cut = i
		}
	}
	if cut < 0 {
		return "", line
	}
	return line[:cut+1], line[cut+1:]
}

// StripComment removes a "//" comment that starts outside quotes.
func StripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

// Quotable reports whether Quote can render value so that parsing gives
// it back. A newline always ends a command, so values holding one cannot be
// written as an argument.
func Quotable(value string) bool {
	return !strings.Contains(value, "\n")
}

// Quote renders value as a single argument. Values that are empty or hold
// whitespace, a separator or a quote are wrapped in double quotes, or in
// single quotes when a double quote comes first. A quote character matching
// the open span closes it and reopens a span with the other quote, so values
// holding both kinds still parse back unchanged. Newlines are not
// representable; check Quotable first.
func Quote(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\r\n;\"'/") {
		return value
	}

	q := byte('"')
	if d := strings.IndexByte(value, '"'); d >= 0 {
		if s := strings.IndexByte(value, '\''); s < 0 || d < s {
			q = '\''
		}
	}

	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte(q)
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == q {
			b.WriteByte(q)
			q = otherQuote(q)
			b.WriteByte(q)
		}
		b.WriteByte(c)
	}
	b.WriteByte(q)
	return b.String()
}

func otherQuote(q byte) byte {
	if q == '"' {
		return '\''
	}
	return '"'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func isSeparator(c byte) bool {
	return c == Separator || c == '\n'
}
