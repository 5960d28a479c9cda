// Package config provides functionality for managing configuration options
// for the locker using command-line flags, an optional config file and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Parse.
const (
	EnvConfig   = "XLOCKER_CONFIG"
	EnvLogLevel = "XLOCKER_LOG_LEVEL"
	EnvShadow   = "XLOCKER_SHADOW"
	EnvWayland  = "WAYLAND_DISPLAY"
)

// Options holds the configuration values for the application.
type Options struct {
	// ShowVersion prints build metadata and exits.
	ShowVersion bool `json:"-" toml:"-" yaml:"-"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level" toml:"log_level" yaml:"log_level"`

	// ShadowPath is the shadow password database.
	ShadowPath string `json:"shadow" toml:"shadow" yaml:"shadow"`

	// Display overrides $DISPLAY.
	Display string `json:"display" toml:"display" yaml:"display"`

	// CursorFG and CursorBG are X color names for the grab cursor.
	CursorFG string `json:"cursor_fg" toml:"cursor_fg" yaml:"cursor_fg"`
	CursorBG string `json:"cursor_bg" toml:"cursor_bg" yaml:"cursor_bg"`

	// Config is the path to the config file.
	Config string `json:"-" toml:"-" yaml:"-"`

	// WaylandDisplay is the value of $WAYLAND_DISPLAY, if any.
	WaylandDisplay string `json:"-" toml:"-" yaml:"-"`

	// Ignored lists the settings dropped because the process runs with
	// elevated privileges.
	Ignored []string `json:"-" toml:"-" yaml:"-"`
}

// Defaults returns the options used when nothing is configured.
func Defaults() *Options {
	return &Options{
		LogLevel:   "warn",
		ShadowPath: "/etc/shadow",
	}
}

// Wayland reports whether the X server is probably an Xwayland instance,
// which cannot keep input away from native Wayland clients.
func (o *Options) Wayland() bool {
	return o.WaylandDisplay != ""
}

// options holds the current configuration values.
var options = Defaults()

// init registers the command-line flags.
func init() {
	register(flag.CommandLine, options)
}

func register(fs *flag.FlagSet, o *Options) {
	fs.BoolVar(&o.ShowVersion, "version", false, "show build version and date")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&o.ShadowPath, "shadow", o.ShadowPath, "path to the shadow password database")
	fs.StringVar(&o.Display, "display", o.Display, "X display to lock (default $DISPLAY)")
	fs.StringVar(&o.Config, "config", "", "path to config file (.toml, .yaml or .json)")
	fs.StringVar(&o.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the config file and environment
// variables. Precedence, lowest first: defaults, config file, flags given on
// the command line, environment.
//
// When elevated is true the caller still holds setuid or setgid privileges,
// and every setting naming a file to read is ignored: no config file is
// loaded and the shadow database stays at its default path.
func Parse(elevated bool) (*Options, error) {
	flag.Parse()
	if err := load(flag.CommandLine, options, os.Getenv, elevated); err != nil {
		return nil, err
	}
	return options, nil
}

func load(fs *flag.FlagSet, o *Options, getenv func(string) string, elevated bool) error {
	if path := getenv(EnvConfig); path != "" {
		o.Config = path
	}
	if elevated {
		restrict(o, getenv)
		o.WaylandDisplay = getenv(EnvWayland)
		if v := getenv(EnvLogLevel); v != "" {
			o.LogLevel = v
		}
		return nil
	}

	if o.Config != "" {
		// Flags given explicitly win over the file.
		given := make(map[string]string)
		fs.Visit(func(f *flag.Flag) {
			given[f.Name] = f.Value.String()
		})

		if err := readFile(o.Config, o); err != nil {
			return err
		}
		for name, value := range given {
			if err := fs.Set(name, value); err != nil {
				return fmt.Errorf("reapply flag -%s: %w", name, err)
			}
		}
	}

	if v := getenv(EnvLogLevel); v != "" {
		o.LogLevel = v
	}
	if v := getenv(EnvShadow); v != "" {
		o.ShadowPath = v
	}
	o.WaylandDisplay = getenv(EnvWayland)
	return nil
}

// restrict drops the config file and any shadow path override, recording
// what was dropped.
func restrict(o *Options, getenv func(string) string) {
	if o.Config != "" {
		o.Ignored = append(o.Ignored, "config file")
		o.Config = ""
	}
	def := Defaults().ShadowPath
	if o.ShadowPath != def || getenv(EnvShadow) != "" {
		o.Ignored = append(o.Ignored, "shadow path")
		o.ShadowPath = def
	}
}

// readFile decodes the config file into o, picking the format from the
// file extension.
func readFile(path string, o *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), o); err != nil {
			return fmt.Errorf("decode TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, o); err != nil {
			return fmt.Errorf("decode YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, o); err != nil {
			return fmt.Errorf("decode JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file type %q", ext)
	}
	return nil
}
