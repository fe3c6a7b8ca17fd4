package cmdline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantArgs []string
		wantFull string
		wantTail string
	}{
		{
			name:     "bare command",
			line:     "ping",
			wantName: "ping",
			wantArgs: []string{},
			wantFull: "ping",
		},
		{
			name:     "surrounding whitespace trimmed",
			line:     "   r.vsync   1  ",
			wantName: "r.vsync",
			wantArgs: []string{"1"},
			wantFull: "r.vsync   1",
			wantTail: "1",
		},
		{
			name:     "double quoted span is one argument",
			line:     `greeting "Hello World"`,
			wantName: "greeting",
			wantArgs: []string{"Hello World"},
			wantFull: `greeting "Hello World"`,
			wantTail: `"Hello World"`,
		},
		{
			name:     "single quoted span keeps double quotes",
			line:     `say 'he said "hi"'`,
			wantName: "say",
			wantArgs: []string{`he said "hi"`},
			wantFull: `say 'he said "hi"'`,
			wantTail: `'he said "hi"'`,
		},
		{
			name:     "quotes glued to text",
			line:     `echo a"b c"d`,
			wantName: "echo",
			wantArgs: []string{"ab cd"},
			wantFull: `echo a"b c"d`,
			wantTail: `a"b c"d`,
		},
		{
			name:     "empty quotes give empty argument",
			line:     `name ""`,
			wantName: "name",
			wantArgs: []string{""},
			wantFull: `name ""`,
			wantTail: `""`,
		},
		{
			name:     "unterminated quote runs to end",
			line:     `echo "open ended`,
			wantName: "echo",
			wantArgs: []string{"open ended"},
			wantFull: `echo "open ended`,
			wantTail: `"open ended`,
		},
		{
			name:     "backslash is literal",
			line:     `echo a\"b`,
			wantName: "echo",
			wantArgs: []string{`a\b`},
			wantFull: `echo a\"b`,
			wantTail: `a\"b`,
		},
		{
			name:     "tabs separate arguments",
			line:     "vec\t1\t2",
			wantName: "vec",
			wantArgs: []string{"1", "2"},
			wantFull: "vec\t1\t2",
			wantTail: "1\t2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Parse(tt.line)
			require.Equal(t, tt.wantName, cmd.Name)
			require.Equal(t, len(tt.wantArgs), len(cmd.Args))
			for i := range tt.wantArgs {
				require.Equal(t, tt.wantArgs[i], cmd.Args[i])
			}
			require.Equal(t, tt.wantFull, cmd.Full)
			require.Equal(t, tt.wantTail, cmd.Tail())
		})
	}
}

func TestParseEx_WalksCommands(t *testing.T) {
	line := `echo a; echo "b;c"` + "\n" + "ping"

	cmd, next, ok := ParseEx(line, 0)
	require.True(t, ok)
	require.Equal(t, "echo", cmd.Name)
	require.Equal(t, []string{"a"}, cmd.Args)

	cmd, next, ok = ParseEx(line, next)
	require.True(t, ok)
	require.Equal(t, "echo", cmd.Name)
	require.Equal(t, []string{"b;c"}, cmd.Args)

	cmd, next, ok = ParseEx(line, next)
	require.True(t, ok)
	require.Equal(t, "ping", cmd.Name)

	_, next, ok = ParseEx(line, next)
	require.False(t, ok)
	require.Equal(t, len(line), next)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		names []string
	}{
		{"empty", "", nil},
		{"only separators", " ; ;\n ", nil},
		{"single", "ping", []string{"ping"}},
		{"semicolons", "a;b ; c", []string{"a", "b", "c"}},
		{"newlines", "a\nb\r\nc", []string{"a", "b", "c"}},
		{"quoted separator", `echo "x;y"; z`, []string{"echo", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := Split(tt.line)
			var names []string
			for _, c := range cmds {
				names = append(names, c.Name)
			}
			require.Equal(t, tt.names, names)
		})
	}
}

func TestLastSegment(t *testing.T) {
	head, tail := LastSegment("echo hi; r.vs")
	require.Equal(t, "echo hi;", head)
	require.Equal(t, " r.vs", tail)

	head, tail = LastSegment(`echo "a;b"`)
	require.Equal(t, "", head)
	require.Equal(t, `echo "a;b"`, tail)
}

func TestStripComment(t *testing.T) {
	require.Equal(t, "", StripComment("// comment"))
	require.Equal(t, "r.vsync 1 ", StripComment("r.vsync 1 // keep vsync"))
	require.Equal(t, `echo "http://x"`, StripComment(`echo "http://x"`))
	require.Equal(t, "plain", StripComment("plain"))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", `""`},
		{"Hello World", `"Hello World"`},
		{"a;b", `"a;b"`},
		{`say "hi"`, `'say "hi"'`},
		{"cfg/x.cfg", `"cfg/x.cfg"`},
		{"1.000000 2.000000", `"1.000000 2.000000"`},
		{`it's`, `"it's"`},
		{`a"b'c d`, `'a"b'"'c d"`},
		{`x'y"z`, `"x'y"'"z'`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestQuote_RoundTrip(t *testing.T) {
	values := []string{
		"plain", "", "Hello World", "a;b", `say "hi"`, "x // y",
		`a"b'c d`, `'"'"`, `"both" 'kinds'; "/"`, "tab\there",
	}
	for _, v := range values {
		require.True(t, Quotable(v))
		cmd := Parse("name " + Quote(v))
		require.Equal(t, []string{v}, cmd.Args, "value %q", v)
		require.Equal(t, "name "+Quote(v), StripComment("name "+Quote(v)), "value %q", v)
	}
}

func TestQuotable(t *testing.T) {
	require.True(t, Quotable("one line"))
	require.False(t, Quotable("line1\nother 0"))
	require.False(t, Quotable("\n"))
}
