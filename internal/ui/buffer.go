// Package ui holds terminal output helpers shared by the interactive console.
package ui

import (
	"strings"
	"sync"
)

// DefaultScrollback is the number of lines a Buffer keeps when none is given.
const DefaultScrollback = 2000

// Buffer is an io.Writer that keeps the last lines written to it. The
// interactive console renders it as scrollback. Safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	lines   []string
	partial string
	max     int
	version uint64
}

// NewBuffer creates a Buffer keeping up to max complete lines.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultScrollback
	}
	return &Buffer{max: max}
}

// Write implements io.Writer. Text after the last newline is held until the
// line is completed.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.partial + strings.ReplaceAll(string(p), "\r\n", "\n")
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	b.lines = append(b.lines, parts[:len(parts)-1]...)

	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
	b.version++
	return len(p), nil
}

// Lines returns the complete lines followed by any pending partial line.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.lines), len(b.lines)+1)
	copy(out, b.lines)
	if b.partial != "" {
		out = append(out, b.partial)
	}
	return out
}

// String joins Lines with newlines.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}

// Version changes every time the content changes.
func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Clear drops everything written so far.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
	b.partial = ""
	b.version++
}
