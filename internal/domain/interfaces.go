package domain

// Logger defines logging operations.
type Logger interface {
	// Debug logs a debug message.
	Debug(format string, args ...any)

	// Info logs an info message.
	Info(format string, args ...any)

	// Warn logs a warning message.
	Warn(format string, args ...any)

	// Error logs an error message.
	Error(format string, args ...any)

	// Close releases the log target.
	Close() error
}

// Styler defines text styling operations.
type Styler interface {
	// Enabled returns true if styling is enabled.
	Enabled() bool

	// Success styles text as success.
	Success(text string) string

	// Warning styles text as warning.
	Warning(text string) string

	// Error styles text as error.
	Error(text string) string

	// Info styles text as info.
	Info(text string) string

	// Muted styles text as muted.
	Muted(text string) string

	// Header styles text as header.
	Header(text string) string
}

// HistoryStore persists interactive console input across sessions.
type HistoryStore interface {
	// Append records one submitted line.
	Append(line string) error

	// Recent returns up to limit lines, oldest first.
	Recent(limit int) ([]string, error)

	// Clear removes every stored line.
	Clear() error

	// Close closes the store connection.
	Close() error
}

// ConfigProvider defines read access to host settings.
type ConfigProvider interface {
	// Get returns the value for a settings key.
	Get(key string) (string, bool)

	// GetAll returns all settings values merged with defaults.
	GetAll() (map[string]string, error)

	// Set sets a settings value.
	Set(key, value string) error
}
