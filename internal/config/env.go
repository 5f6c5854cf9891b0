package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix shared by every environment override.
const EnvPrefix = "SETLIST_"

// envSetter applies one raw environment value to a config.
type envSetter func(c *Config, val string) error

// envMapping returns the environment variable to setting mappings.
func envMapping() map[string]envSetter {
	return map[string]envSetter{
		"SETLIST_HISTORY_CAPACITY": intSetter(func(c *Config) *int { return &c.History.Capacity }),
		"SETLIST_ENCORE_MIN_SONGS": intSetter(func(c *Config) *int { return &c.Encore.MinSongs }),
		"SETLIST_LIMITS_TITLE":     intSetter(func(c *Config) *int { return &c.Limits.Title }),
		"SETLIST_LIMITS_KEY":       intSetter(func(c *Config) *int { return &c.Limits.Key }),
		"SETLIST_LIMITS_SET_NAME":  intSetter(func(c *Config) *int { return &c.Limits.SetName }),
		"SETLIST_STORAGE_PATH":     stringSetter(func(c *Config) *string { return &c.Storage.Path }),
		"SETLIST_STORAGE_WATCH":    boolSetter(func(c *Config) *bool { return &c.Storage.Watch }),
		"SETLIST_STORAGE_AUTOSAVE_DELAY": func(c *Config, val string) error {
			d, err := time.ParseDuration(val)
			if err != nil {
				return err
			}
			c.Storage.AutosaveDelay = Duration(d)
			return nil
		},
		"SETLIST_LOG_LEVEL":  stringSetter(func(c *Config) *string { return &c.Log.Level }),
		"SETLIST_LOG_FORMAT": stringSetter(func(c *Config) *string { return &c.Log.Format }),
	}
}

// ApplyEnv overrides settings from SETLIST_* environment variables.
// Unknown SETLIST_* variables are ignored.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envMapping() {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(c, strings.TrimSpace(val)); err != nil {
			return &EnvError{Name: name, Value: val, Err: err}
		}
	}
	return nil
}

func intSetter(field func(*Config) *int) envSetter {
	return func(c *Config, val string) error {
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Config) *bool) envSetter {
	return func(c *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func stringSetter(field func(*Config) *string) envSetter {
	return func(c *Config, val string) error {
		*field(c) = val
		return nil
	}
}
