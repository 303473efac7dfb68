package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/treeline/pkg/errors"
)

// Config holds the user settings for the interactive browser. All fields are
// optional in the file; missing keys keep their defaults.
type Config struct {
	// IndentWidth is the number of columns each outline level indents by.
	IndentWidth int `toml:"indent_width"`

	// Autosave persists expansion state per document, so reopening a
	// document restores which folders were disclosed.
	Autosave bool `toml:"autosave"`

	// StateDir overrides where expansion state is stored. Empty means the
	// XDG state directory.
	StateDir string `toml:"state_dir"`

	// FallbackDelayMS bounds how long a drop on a collapsed folder waits
	// for the expansion to finish before the deferred reload is abandoned.
	FallbackDelayMS int `toml:"fallback_delay_ms"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `toml:"-"`
}

func defaultConfig() Config {
	return Config{
		IndentWidth:     2,
		Autosave:        true,
		FallbackDelayMS: 500,
	}
}

// LoadConfig reads the config file at path on top of the defaults. A missing
// file is not an error: it yields the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "failed to parse %s", path)
	}
	return cfg, nil
}

// ValidateAndSetDefaults checks field ranges and fills unset values.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}
	if c.IndentWidth == 0 {
		c.IndentWidth = 2
	}
	if c.IndentWidth < 1 || c.IndentWidth > 8 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "indent_width %d out of range (1-8)", c.IndentWidth)
	}
	if c.FallbackDelayMS < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "fallback_delay_ms must not be negative")
	}
	if c.FallbackDelayMS == 0 {
		c.FallbackDelayMS = 500
	}
	c.validated = true
	return nil
}

// FallbackDelay returns the configured deferred-reload bound as a duration.
func (c Config) FallbackDelay() time.Duration {
	return time.Duration(c.FallbackDelayMS) * time.Millisecond
}

// loadConfig reads the user config for a command. Validation is left to the
// caller so flag overrides can land first. Without a resolvable home
// directory the defaults are used.
func (c *CLI) loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return defaultConfig(), nil
	}
	return LoadConfig(path)
}
