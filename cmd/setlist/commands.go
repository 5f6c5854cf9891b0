package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/setlist/internal/engine"
	"github.com/dshills/setlist/internal/script"
	"github.com/dshills/setlist/internal/setlist"
	"github.com/dshills/setlist/internal/storage"
	"github.com/dshills/setlist/internal/transport"
)

func (c *cli) newCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new set list with one empty set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(c.files.Path()); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to replace it)", c.files.Path())
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			c.session.Reset()
			if err := c.session.Save(c.files); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", c.files.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing document")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the set list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" || format == "text" {
				printDocument(cmd.OutOrStdout(), c.session.Document())
				return nil
			}
			f, err := transport.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := transport.Encode(c.session.Document(), f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}

func (c *cli) addSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-set [name]",
		Short: "Append an empty set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := c.session.AddSet()
			if len(args) == 1 {
				c.session.RenameSet(id, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return c.save()
		},
	}
}

func (c *cli) renameSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-set <set> [name]",
		Short: "Rename a set; omit the name to restore the default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			set, err := c.resolveSet(args[0])
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			c.session.RenameSet(set.ID, name)
			return c.save()
		},
	}
}

func (c *cli) removeSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-set <set>",
		Short: "Remove a set and its songs",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			set, err := c.resolveSet(args[0])
			if err != nil {
				return err
			}
			c.session.RemoveSet(set.ID)
			return c.save()
		},
	}
}

func (c *cli) addSongCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "add-song <set> [title]",
		Short: "Add a song to a set",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := c.resolveSet(args[0])
			if err != nil {
				return err
			}
			in := engine.SongInput{Key: key}
			if len(args) == 2 {
				in.Title = args[1]
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.session.AddSongToSet(set.ID, in))
			return c.save()
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Musical key")
	return cmd
}

func (c *cli) removeSongCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-song <set> <song>",
		Short: "Remove a song by id or position",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			set, err := c.resolveSet(args[0])
			if err != nil {
				return err
			}
			i, err := resolveSong(set, args[1])
			if err != nil {
				return err
			}
			c.session.RemoveSongFromSet(set.ID, set.Songs[i].ID)
			return c.save()
		},
	}
}

func (c *cli) moveSongCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move-song <from-set> <from-pos> <to-set> <to-pos>",
		Short: "Move a song within or between sets (positions are 1-based)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := c.resolveSet(args[0])
			if err != nil {
				return err
			}
			to, err := c.resolveSet(args[2])
			if err != nil {
				return err
			}
			fromPos, err := position(args[1])
			if err != nil {
				return err
			}
			toPos, err := position(args[3])
			if err != nil {
				return err
			}

			if fromPos < len(from.Songs) && from.ID != to.ID && setlist.IsMarker(from.Songs[fromPos]) {
				fmt.Fprintln(cmd.ErrOrStderr(), "the encore marker cannot leave its set")
			}
			c.session.MoveSong(from.ID, to.ID, fromPos, toPos)
			return c.save()
		},
	}
}

func (c *cli) editSongCmd() *cobra.Command {
	var title, key string
	cmd := &cobra.Command{
		Use:   "edit-song <set> <song>",
		Short: "Change a song's title or key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := c.resolveSet(args[0])
			if err != nil {
				return err
			}
			i, err := resolveSong(set, args[1])
			if err != nil {
				return err
			}
			var patch engine.SongPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("key") {
				patch.Key = &key
			}
			c.session.UpdateSong(set.ID, set.Songs[i].ID, patch)
			return c.save()
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&key, "key", "k", "", "New key (empty clears it)")
	return cmd
}

func (c *cli) metaCmd() *cobra.Command {
	var name, venue, date, act string
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Set the set list name, venue, date or act",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var patch engine.MetadataPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.SetListName = &name
			}
			if flags.Changed("venue") {
				patch.Venue = &venue
			}
			if flags.Changed("date") {
				patch.Date = &date
			}
			if flags.Changed("act") {
				patch.ActName = &act
			}
			c.session.UpdateMetadata(patch)
			return c.save()
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Set list name")
	cmd.Flags().StringVar(&venue, "venue", "", "Venue")
	cmd.Flags().StringVar(&date, "date", "", "Date")
	cmd.Flags().StringVar(&act, "act", "", "Act name")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the set list to another file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := transport.FormatFromPath(args[0])
			if format != "" {
				var err error
				if f, err = transport.ParseFormat(format); err != nil {
					return err
				}
			}
			data, err := transport.Encode(c.session.Document(), f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from extension)")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the set list with the contents of another file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			raw, err := transport.Decode(data, transport.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			if err := c.session.Import(raw, args[0], nil); err != nil {
				return err
			}
			if err := c.session.Save(c.files); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func (c *cli) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Run a Lua script against the set list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saver := storage.NewAutosaver(c.session, c.files,
				storage.WithDelay(c.cfg.Storage.AutosaveDelay.Std()),
				storage.WithLogger(c.logger),
			)
			sub := c.session.Store().Subscribe(saver)
			defer sub.Unsubscribe()

			host := script.NewHost(c.session, script.WithOutput(cmd.OutOrStdout()), script.WithLogger(c.logger))
			runErr := host.RunFile(cmd.Context(), args[0])

			if err := saver.Close(); err != nil {
				return errors.Join(runErr, err)
			}
			if saver.Err() == nil {
				c.session.MarkClean()
			}
			return runErr
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the set list whenever the file changes on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := storage.NewWatcher(c.files.Path())
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()
			printDocument(out, c.session.Document())
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					if ev.Removed {
						fmt.Fprintf(out, "%s removed\n", ev.Path)
						continue
					}
					modified, err := c.files.Modified()
					if err != nil || !modified {
						continue
					}
					raw, err := c.files.Read()
					if err == nil {
						err = c.session.LoadErr(raw)
					}
					if err != nil {
						c.logger.Warn("reload failed", "path", ev.Path, "error", err)
						continue
					}
					fmt.Fprintf(out, "\n%s reloaded at %s\n", ev.Path, ev.Timestamp.Format("15:04:05"))
					printDocument(out, c.session.Document())
				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					c.logger.Warn("watch error", "error", err)
				}
			}
		},
	}
}

// printDocument renders doc as an indented outline.
func printDocument(w io.Writer, doc setlist.Document) {
	md := doc.Metadata
	header := []string{}
	for _, v := range []string{md.SetListName, md.ActName, md.Venue, md.Date} {
		if v != "" {
			header = append(header, v)
		}
	}
	if len(header) > 0 {
		fmt.Fprintln(w, strings.Join(header, " / "))
	}

	for i, set := range doc.Sets {
		fmt.Fprintf(w, "%s [%s]\n", setlist.DisplayName(set, i), set.ID)
		n := 0
		for _, song := range set.Songs {
			if setlist.IsMarker(song) {
				fmt.Fprintln(w, "   -- encore --")
				continue
			}
			n++
			if song.Key != "" {
				fmt.Fprintf(w, "%3d. %s (%s)\n", n, song.Title, song.Key)
			} else {
				fmt.Fprintf(w, "%3d. %s\n", n, song.Title)
			}
		}
	}
}
