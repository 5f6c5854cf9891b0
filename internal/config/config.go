package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/setlist/internal/engine/history"
	"github.com/dshills/setlist/internal/setlist"
)

// Default values.
const (
	DefaultStoragePath   = "setlist.json"
	DefaultAutosaveDelay = 500 * time.Millisecond
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config is the complete engine configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	Encore  EncoreConfig  `toml:"encore"`
	Limits  LimitsConfig  `toml:"limits"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// HistoryConfig configures undo/redo.
type HistoryConfig struct {
	// Capacity is the maximum number of stored snapshots.
	Capacity int `toml:"capacity"`
}

// EncoreConfig configures the encore marker.
type EncoreConfig struct {
	// MinSongs is the number of real songs the last set needs before it
	// receives a marker.
	MinSongs int `toml:"min_songs"`
}

// LimitsConfig holds the maximum length of each text field, in runes.
type LimitsConfig struct {
	Title       int `toml:"title"`
	Key         int `toml:"key"`
	SetName     int `toml:"set_name"`
	SetListName int `toml:"set_list_name"`
	Venue       int `toml:"venue"`
	Date        int `toml:"date"`
	ActName     int `toml:"act_name"`
}

// StorageConfig configures document persistence.
type StorageConfig struct {
	// Path is the document file.
	Path string `toml:"path"`
	// AutosaveDelay is the debounce delay before an edit is written.
	AutosaveDelay Duration `toml:"autosave_delay"`
	// Watch reloads the document when another process changes the file.
	Watch bool `toml:"watch"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
}

// Duration is a time.Duration that reads and writes as a string like "500ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() *Config {
	l := setlist.DefaultLimits()
	return &Config{
		History: HistoryConfig{Capacity: history.DefaultCapacity},
		Encore:  EncoreConfig{MinSongs: setlist.DefaultEncoreMinSongs},
		Limits: LimitsConfig{
			Title:       l.Title,
			Key:         l.Key,
			SetName:     l.SetName,
			SetListName: l.SetListName,
			Venue:       l.Venue,
			Date:        l.Date,
			ActName:     l.ActName,
		},
		Storage: StorageConfig{
			Path:          DefaultStoragePath,
			AutosaveDelay: Duration(DefaultAutosaveDelay),
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads a TOML file over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := cfg.Parse(path, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data into c. Keys absent from data keep their current
// values.
func (c *Config) Parse(source string, data []byte) error {
	if err := toml.Unmarshal(data, c); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}

// Encode returns c as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	positive := func(path string, v int) {
		if v <= 0 {
			errs = append(errs, &ValidationError{Path: path, Message: "must be positive", Value: v})
		}
	}

	positive("history.capacity", c.History.Capacity)
	positive("encore.min_songs", c.Encore.MinSongs)
	positive("limits.title", c.Limits.Title)
	positive("limits.key", c.Limits.Key)
	positive("limits.set_name", c.Limits.SetName)
	positive("limits.set_list_name", c.Limits.SetListName)
	positive("limits.venue", c.Limits.Venue)
	positive("limits.date", c.Limits.Date)
	positive("limits.act_name", c.Limits.ActName)

	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, &ValidationError{Path: "storage.path", Message: "must not be empty", Value: c.Storage.Path})
	}
	if c.Storage.AutosaveDelay < 0 {
		errs = append(errs, &ValidationError{Path: "storage.autosave_delay", Message: "must not be negative", Value: c.Storage.AutosaveDelay.Std()})
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: c.Log.Level})
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, &ValidationError{Path: "log.format", Message: "must be text or json", Value: c.Log.Format})
	}

	return errors.Join(errs...)
}

// SetlistLimits converts the configured limits for the sanitizers.
func (c *Config) SetlistLimits() setlist.Limits {
	return setlist.Limits{
		Title:       c.Limits.Title,
		Key:         c.Limits.Key,
		SetName:     c.Limits.SetName,
		SetListName: c.Limits.SetListName,
		Venue:       c.Limits.Venue,
		Date:        c.Limits.Date,
		ActName:     c.Limits.ActName,
	}
}
