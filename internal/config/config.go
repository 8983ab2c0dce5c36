// Package config loads project-level settings for replfeed.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/duskline/replfeed/internal/lang"
	"github.com/duskline/replfeed/internal/source"
)

// Config holds project-level settings loaded from replfeed.yml.
type Config struct {
	// Interpreter is the console interpreter binary. Default: python3.
	Interpreter string `yaml:"interpreter,omitempty"`

	// InterpreterArgs are passed to the interpreter before the program is
	// written to stdin. Default: -I -q - (Python, isolated, from stdin).
	InterpreterArgs []string `yaml:"interpreterArgs,omitempty"`

	// Language selects the statement splitter. Default: python.
	Language string `yaml:"language,omitempty"`

	// Version is the language version, e.g. "3.12".
	Version string `yaml:"version,omitempty"`

	// CellMarker delimits cells in source files. Default: "# %%".
	CellMarker string `yaml:"cellMarker,omitempty"`

	// Newline selects the separator synthesized between fragments:
	// lf, crlf, or cr. Default: lf.
	Newline string `yaml:"newline,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read replfeed.yml or replfeed.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"replfeed.yml", "replfeed.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Interpreter == "" {
		c.Interpreter = "python3"
	}
	if len(c.InterpreterArgs) == 0 {
		c.InterpreterArgs = []string{"-I", "-q", "-"}
	}
	if c.Language == "" {
		c.Language = string(lang.LangPython)
	}
	if c.Version == "" {
		c.Version = "3.12"
	}
	if c.CellMarker == "" {
		c.CellMarker = source.DefaultCellMarker
	}
	if c.Newline == "" {
		c.Newline = "lf"
	}
}

// NewlineString maps the configured newline name to its literal.
func (c *Config) NewlineString() string {
	switch c.Newline {
	case "crlf":
		return "\r\n"
	case "cr":
		return "\r"
	default:
		return "\n"
	}
}

// LanguageVersion resolves the configured language and version.
func (c *Config) LanguageVersion() (lang.Language, lang.Version, error) {
	v, err := lang.ParseVersion(c.Version)
	if err != nil {
		return "", lang.Version{}, err
	}
	lg := lang.Language(c.Language)
	if _, ok := lang.NewSplitter(lg, v); !ok {
		return "", lang.Version{}, fmt.Errorf("unsupported language %q version %s", c.Language, v)
	}
	return lg, v, nil
}
