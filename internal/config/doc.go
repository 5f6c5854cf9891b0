// Package config provides the configuration for the set list engine.
//
// Configuration is resolved in three steps, each overriding the previous:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← SETLIST_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Config File             │  ← config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// # Usage
//
//	cfg, err := config.Load("setlist.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyEnv(); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// A missing config file is not an error; the defaults are returned.
//
// # File Format
//
//	[history]
//	capacity = 100
//
//	[encore]
//	min_songs = 2
//
//	[limits]
//	title = 120
//	key = 12
//
//	[storage]
//	path = "setlist.json"
//	autosave_delay = "500ms"
//
//	[log]
//	level = "info"
//	format = "text"
package config
