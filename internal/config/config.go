// Package config loads calculator settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/rpncalc"
)

// Config is the calculator configuration.
type Config struct {
	// Angle is "radians" or "degrees".
	Angle string `yaml:"angle" json:"angle"`
	// Format is the printf verb for results.
	Format string `yaml:"format" json:"format"`
	// Vars maps variable names to expressions giving their values. An
	// expression may refer to other variables in Vars.
	Vars map[string]string `yaml:"vars" json:"vars"`
	// Consts are extra constants.
	Consts map[string]float64 `yaml:"consts" json:"consts"`
	// History is the number of results the REPL remembers.
	History int `yaml:"history" json:"history"`
	// LogLevel is a slog level name such as "debug" or "warn".
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Angle:    "radians",
		Format:   "%g",
		History:  3,
		LogLevel: "warn",
	}
}

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json. Fields absent from the file keep
// their default values.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return c, c.Validate()
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return c, c.Validate()
}

// Validate checks that every field has a usable value.
func (c Config) Validate() error {
	if _, err := c.AngleUnit(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.History < 0 {
		return fmt.Errorf("history must not be negative, got %d", c.History)
	}
	if c.Format == "" {
		return fmt.Errorf("format must not be empty")
	}
	return nil
}

// AngleUnit parses the Angle field.
func (c Config) AngleUnit() (rpncalc.AngleUnit, error) {
	switch strings.ToLower(c.Angle) {
	case "", "rad", "radians":
		return rpncalc.Radians, nil
	case "deg", "degrees":
		return rpncalc.Degrees, nil
	default:
		return 0, fmt.Errorf("unknown angle unit %q", c.Angle)
	}
}

// Level parses the LogLevel field.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Definitions builds the registry the configuration describes.
func (c Config) Definitions() (*rpncalc.Definitions, error) {
	u, err := c.AngleUnit()
	if err != nil {
		return nil, err
	}
	opts := []rpncalc.DefOption{rpncalc.WithAngleUnit(u)}
	names := make([]string, 0, len(c.Consts))
	for k := range c.Consts {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		opts = append(opts, rpncalc.WithConstant(k, c.Consts[k]))
	}
	return rpncalc.NewDefinitions(opts...), nil
}

// Bindings evaluates Vars with defs. A variable's expression may use other
// variables from Vars; bindings are resolved in dependency order.
func (c Config) Bindings(defs *rpncalc.Definitions) (map[string]float64, error) {
	pending := make(map[string]*rpncalc.Expr, len(c.Vars))
	for name, src := range c.Vars {
		e, err := rpncalc.Parse(src, rpncalc.UseDefinitions(defs))
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		pending[name] = e
	}
	ctx := rpncalc.NewContext()
	for len(pending) > 0 {
		progress := false
		for _, name := range sortedNames(pending) {
			e := pending[name]
			if !ready(ctx, e) {
				continue
			}
			v, err := ctx.Eval(e)
			if err != nil {
				return nil, fmt.Errorf("variable %s: %w", name, err)
			}
			ctx.Set(name, v)
			delete(pending, name)
			progress = true
		}
		if !progress {
			return nil, fmt.Errorf("variables with unresolvable dependencies: %s", strings.Join(sortedNames(pending), ", "))
		}
	}
	return ctx.Vars(), nil
}

func ready(ctx *rpncalc.Context, e *rpncalc.Expr) bool {
	for _, v := range e.Vars() {
		if _, ok := ctx.Lookup(v); !ok {
			return false
		}
	}
	return true
}

func sortedNames(m map[string]*rpncalc.Expr) []string {
	r := make([]string, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}
