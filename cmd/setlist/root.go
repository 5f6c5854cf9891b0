package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/setlist/internal/app"
	"github.com/dshills/setlist/internal/config"
	"github.com/dshills/setlist/internal/setlist"
	"github.com/dshills/setlist/internal/storage"
)

// cli holds the state shared by every command.
type cli struct {
	configPath string
	filePath   string
	logLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	session *app.Session
	files   *storage.FileStore
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "setlist",
		Short: "Edit performance set lists",
		Long: `setlist edits a set list document: ordered sets of songs with an
automatically maintained encore marker on the last set.

Every command loads the document file, applies its change and writes the
file back when the document changed.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.open,
	}
	root.SetVersionTemplate("setlist {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to configuration file (TOML)")
	flags.StringVarP(&c.filePath, "file", "f", "", "Set list document (default from config)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		c.newCmd(),
		c.showCmd(),
		c.addSetCmd(),
		c.renameSetCmd(),
		c.removeSetCmd(),
		c.addSongCmd(),
		c.removeSongCmd(),
		c.moveSongCmd(),
		c.editSongCmd(),
		c.metaCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.runCmd(),
		c.watchCmd(),
	)
	return root
}

// open resolves configuration and loads the document file.
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if c.filePath != "" {
		cfg.Storage.Path = c.filePath
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.cfg = cfg
	c.logger = app.NewLogger(cfg.Log, cmd.ErrOrStderr())
	c.session = app.NewSession(app.WithConfig(cfg), app.WithLogger(c.logger))
	c.files = storage.NewFileStore(cfg.Storage.Path)

	if _, err := storage.Open(c.session, c.files); err != nil {
		// new replaces whatever is on disk, readable or not
		if cmd.Name() != "new" {
			return fmt.Errorf("opening %s: %w", c.files.Path(), err)
		}
		c.logger.Warn("ignoring unreadable document", "path", c.files.Path(), "error", err)
	}
	return nil
}

// save writes the document back when it has unsaved changes.
func (c *cli) save() error {
	if !c.session.IsDirty() {
		return nil
	}
	if err := c.session.Save(c.files); err != nil {
		return err
	}
	return nil
}

// resolveSet accepts a set id or a 1-based set position.
func (c *cli) resolveSet(ref string) (setlist.SetItem, error) {
	sets := c.session.Sets()
	for _, set := range sets {
		if set.ID == ref {
			return set, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(sets) {
		return sets[n-1], nil
	}
	return setlist.SetItem{}, fmt.Errorf("no set %q", ref)
}

// resolveSong accepts a song id or a 1-based position within set.
func resolveSong(set setlist.SetItem, ref string) (int, error) {
	if i := set.SongIndex(ref); i >= 0 {
		return i, nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(set.Songs) {
		return n - 1, nil
	}
	return -1, fmt.Errorf("no song %q in set %s", ref, set.ID)
}

// position parses a 1-based position argument into a 0-based index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	return n - 1, nil
}
