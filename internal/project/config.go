// Package project loads lambda.toml, the optional configuration consulted by
// the CLI before flags are applied.
package project

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"lambda/internal/eval"
)

// Config mirrors lambda.toml.
type Config struct {
	Eval   EvalConfig   `toml:"eval"`
	Output OutputConfig `toml:"output"`
	REPL   REPLConfig   `toml:"repl"`
}

type EvalConfig struct {
	// MaxSteps - потолок шагов, 0 без ограничения.
	MaxSteps int `toml:"max_steps"`
	// Subst - режим подстановки, textual|capture-avoiding.
	Subst   string   `toml:"subst"`
	Timeout Duration `toml:"timeout"`
}

type OutputConfig struct {
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|json
}

type REPLConfig struct {
	Prompt string `toml:"prompt"`
}

// Duration decodes TOML strings such as "5s" or "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults returns the configuration used when no lambda.toml exists.
func Defaults() Config {
	return Config{
		Eval:   EvalConfig{Subst: eval.SubstTextual.String()},
		Output: OutputConfig{Color: "auto", Format: "pretty"},
		REPL:   REPLConfig{Prompt: "λ> "},
	}
}

// Load decodes path over Defaults. Unknown keys and invalid values are errors
// prefixed with the file path.
func Load(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Defaults(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Defaults(), fmt.Errorf("%s: unknown key(s): %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Eval.MaxSteps < 0 {
		return fmt.Errorf("[eval].max_steps must be >= 0, got %d", c.Eval.MaxSteps)
	}
	if _, err := eval.ParseSubstMode(c.Eval.Subst); err != nil {
		return fmt.Errorf("[eval].subst: %w", err)
	}
	if c.Eval.Timeout.Duration < 0 {
		return fmt.Errorf("[eval].timeout must not be negative, got %s", c.Eval.Timeout)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("[output].format must be pretty or json, got %q", c.Output.Format)
	}
	return nil
}
