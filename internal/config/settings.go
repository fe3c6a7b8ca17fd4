package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pixil98/go-errors"

	"github.com/footprint-tools/console/internal/domain"
	"github.com/footprint-tools/console/internal/log"
	"github.com/footprint-tools/console/internal/paths"
)

// Key describes one host setting.
type Key struct {
	Name        string
	Default     string
	Description string
}

// Keys lists every host setting in display order.
var Keys = []Key{
	{Name: "log_enabled", Default: "true", Description: "Write diagnostics to the log file (true/false)"},
	{Name: "log_level", Default: "info", Description: "Minimum log level: debug, info, warn, error"},
	{Name: "color", Default: "auto", Description: "Colored output: auto, always, never"},
	{Name: "color_theme", Default: "default", Description: "Color theme: default, cocoa, mono (optionally -dark or -light)"},
	{Name: "cfg_dir", Default: "", Description: "Directory holding console config scripts"},
	{Name: "archive", Default: "config.cfg", Description: "Archive written by app.config.write"},
	{Name: "archive_default", Default: "config_default.cfg", Description: "Fallback script run when the archive is missing"},
	{Name: "history_enabled", Default: "true", Description: "Persist console input history (true/false)"},
	{Name: "history_limit", Default: "512", Description: "Number of history lines kept"},
	{Name: "watch_archive", Default: "false", Description: "Reload the archive when it changes on disk (true/false)"},
	{Name: "frame_ms", Default: "16", Description: "Interactive console frame interval in milliseconds"},
}

// Defaults holds values computed at run time rather than fixed in Keys.
var Defaults = map[string]func() string{
	"cfg_dir": paths.CfgDir,
}

// DefaultValue returns the default of a key.
func DefaultValue(key string) (string, bool) {
	if fn, ok := Defaults[key]; ok {
		return fn(), true
	}
	for _, k := range Keys {
		if k.Name == key {
			return k.Default, true
		}
	}
	return "", false
}

// ReadLines returns the lines of the settings file at path, creating it with
// the defaults when it does not exist or is empty.
func ReadLines(path string) ([]string, error) {
	info, err := os.Stat(path)
	isNew := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	if isNew {
		lines := initializeDefaults()
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return lines, err
		}
		if err := WriteLines(path, lines); err != nil {
			log.Warn("config: could not write default settings: %v", err)
		}
		return lines, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func initializeDefaults() []string {
	lines := []string{
		"# Console host settings",
		"# Edit values below; lines starting with # are ignored",
		"",
	}

	for _, key := range Keys {
		value, _ := DefaultValue(key.Name)
		lines = append(lines, "# "+key.Description)
		lines = append(lines, key.Name+"="+quote(value))
	}
	return lines
}

func quote(value string) string {
	if strings.Contains(value, " ") {
		return "\"" + value + "\""
	}
	return value
}

// Parse reads key=value lines. Blank lines and lines starting with # are
// skipped, surrounding whitespace and double quotes around values removed.
func Parse(lines []string) (map[string]string, error) {
	cfg := make(map[string]string)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected key=value", i+1)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("config: line %d: empty key", i+1)
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		cfg[key] = value
	}

	return cfg, nil
}

// Set replaces the value of key in lines, appending it when absent. It
// reports whether an existing line was replaced.
func Set(lines []string, key, value string) ([]string, bool) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		k, _, ok := strings.Cut(trimmed, "=")
		if ok && strings.TrimSpace(k) == key {
			lines[i] = key + "=" + quote(value)
			return lines, true
		}
	}

	return append(lines, key+"="+quote(value)), false
}

// Validate checks values that must parse, reporting every problem at once.
func Validate(cfg map[string]string) error {
	el := errors.NewErrorList()

	for _, key := range []string{"log_enabled", "history_enabled", "watch_archive"} {
		if v, ok := cfg[key]; ok {
			if _, err := strconv.ParseBool(v); err != nil {
				el.Add(fmt.Errorf("%s: %q is not true or false", key, v))
			}
		}
	}

	for _, key := range []string{"history_limit", "frame_ms"} {
		if v, ok := cfg[key]; ok {
			if n, err := strconv.Atoi(v); err != nil || n <= 0 {
				el.Add(fmt.Errorf("%s: %q is not a positive number", key, v))
			}
		}
	}

	if v, ok := cfg["color"]; ok && v != "auto" && v != "always" && v != "never" {
		el.Add(fmt.Errorf("color: %q is not auto, always or never", v))
	}

	if v, ok := cfg["log_level"]; ok {
		switch strings.ToLower(v) {
		case "debug", "info", "warn", "warning", "error":
		default:
			el.Add(fmt.Errorf("log_level: %q is not a log level", v))
		}
	}

	return el.Err()
}

// Provider reads and writes the settings file at a fixed path.
type Provider struct {
	path string
}

// NewProvider creates a provider for the settings file at path.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// Path returns the settings file location.
func (p *Provider) Path() string {
	return p.path
}

// Get returns the value for key from the file, falling back to its default.
func (p *Provider) Get(key string) (string, bool) {
	all, err := p.GetAll()
	if err != nil {
		return DefaultValue(key)
	}
	v, ok := all[key]
	return v, ok
}

// GetAll returns the defaults overridden by the file contents. On a read or
// parse error the defaults are returned with the error.
func (p *Provider) GetAll() (map[string]string, error) {
	result := make(map[string]string)
	for _, key := range Keys {
		result[key.Name], _ = DefaultValue(key.Name)
	}

	lines, err := ReadLines(p.path)
	if err != nil {
		return result, err
	}

	cfg, err := Parse(lines)
	if err != nil {
		return result, err
	}

	for key, value := range cfg {
		result[key] = value
	}
	return result, nil
}

// Set stores a value in the settings file.
func (p *Provider) Set(key, value string) error {
	return WithLock(p.path, func() error {
		lines, err := ReadLines(p.path)
		if err != nil {
			return err
		}
		lines, _ = Set(lines, key, value)
		return WriteLines(p.path, lines)
	})
}

var _ domain.ConfigProvider = (*Provider)(nil)
