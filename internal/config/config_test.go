package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/setlist/internal/engine/history"
	"github.com/dshills/setlist/internal/setlist"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, history.DefaultCapacity, cfg.History.Capacity)
	assert.Equal(t, setlist.DefaultEncoreMinSongs, cfg.Encore.MinSongs)
	assert.Equal(t, setlist.DefaultLimits(), cfg.SetlistLimits())
	assert.Equal(t, DefaultAutosaveDelay, cfg.Storage.AutosaveDelay.Std())
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setlist.toml")
	data := `
[history]
capacity = 20

[encore]
min_songs = 3

[limits]
title = 40

[storage]
path = "gig.json"
autosave_delay = "2s"
watch = true

[log]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.History.Capacity)
	assert.Equal(t, 3, cfg.Encore.MinSongs)
	assert.Equal(t, 40, cfg.Limits.Title)
	assert.Equal(t, setlist.DefaultLimits().Key, cfg.Limits.Key, "unset keys keep defaults")
	assert.Equal(t, "gig.json", cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Storage.AutosaveDelay.Std())
	assert.True(t, cfg.Storage.Watch)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[history\ncapacity = 1\n"), 0o644))

	_, err := Load(path)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
	assert.Positive(t, pe.Line)
}

func TestParseBadDuration(t *testing.T) {
	cfg := Default()
	err := cfg.Parse("inline", []byte("[storage]\nautosave_delay = \"soon\"\n"))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.History.Capacity = 7
	data, err := cfg.Encode()
	require.NoError(t, err)

	got := Default()
	require.NoError(t, got.Parse("encoded", data))
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"capacity", func(c *Config) { c.History.Capacity = 0 }, "history.capacity"},
		{"min songs", func(c *Config) { c.Encore.MinSongs = -1 }, "encore.min_songs"},
		{"title limit", func(c *Config) { c.Limits.Title = 0 }, "limits.title"},
		{"storage path", func(c *Config) { c.Storage.Path = "  " }, "storage.path"},
		{"autosave delay", func(c *Config) { c.Storage.AutosaveDelay = -1 }, "storage.autosave_delay"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.path, ve.Path)
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	cfg := Default()
	cfg.History.Capacity = 0
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history.capacity")
	assert.Contains(t, err.Error(), "log.format")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SETLIST_HISTORY_CAPACITY":       "5",
		"SETLIST_ENCORE_MIN_SONGS":       " 4 ",
		"SETLIST_STORAGE_PATH":           "other.json",
		"SETLIST_STORAGE_WATCH":          "true",
		"SETLIST_STORAGE_AUTOSAVE_DELAY": "1s",
		"SETLIST_LOG_LEVEL":              "warn",
		"SETLIST_UNKNOWN":                "ignored",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, 5, cfg.History.Capacity)
	assert.Equal(t, 4, cfg.Encore.MinSongs)
	assert.Equal(t, "other.json", cfg.Storage.Path)
	assert.True(t, cfg.Storage.Watch)
	assert.Equal(t, time.Second, cfg.Storage.AutosaveDelay.Std())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("SETLIST_HISTORY_CAPACITY", "many")

	cfg := Default()
	err := cfg.ApplyEnv()
	require.ErrorIs(t, err, ErrInvalidEnv)

	var ee *EnvError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "SETLIST_HISTORY_CAPACITY", ee.Name)
}
