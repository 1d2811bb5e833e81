package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Push every notification YAML created or written in DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := app.geometry()
			if err != nil {
				return err
			}
			p := app.pusher()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			if err := watcher.Add(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", args[0])

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !isNoteEvent(ev) {
						continue
					}
					frames, err := encodeNote(ev.Name, g)
					if err == nil {
						err = p.send(frames)
					}
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", ev.Name, err)
						continue
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: sent %d frames\n", ev.Name, len(frames))
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					return err
				}
			}
		},
	}
}

func isNoteEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	return ext == ".yaml" || ext == ".yml"
}
