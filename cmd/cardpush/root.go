package main

import (
	"strings"
	"time"

	"carousel/cardos/frag"
	"carousel/internal/buildinfo"
	"carousel/internal/config"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Preset     string
	URL        string
	Timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "cardpush",
		Short:        "Encode notifications into card fragments and push them to a carousel",
		Version:      buildinfo.Short(),
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Write the frames of one notification to a file
  cardpush encode -f note.yaml -o note.bin

  # Push a notification over the HTTP link
  cardpush send -f note.yaml --url http://localhost:8080

  # Push every note written into a directory
  cardpush watch ./inbox --url http://localhost:8080

  # Print pending events from the device
  cardpush events --url http://localhost:8080
`),
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Device config YAML (overlays --preset)")
	cmd.PersistentFlags().StringVar(&app.Preset, "preset", "classic", "Built-in geometry: classic or wear")
	cmd.PersistentFlags().StringVar(&app.URL, "url", "http://localhost:8080", "Base URL of the HTTP link")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 5*time.Second, "Per-request timeout")

	cmd.AddCommand(newEncodeCmd(app))
	cmd.AddCommand(newSendCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	return cmd
}

// geometry resolves the fragment layout from --config or --preset.
func (app *App) geometry() (frag.Geometry, error) {
	var cfg config.Config
	if app.ConfigPath != "" {
		c, err := config.LoadConfig(app.ConfigPath)
		if err != nil {
			return frag.Geometry{}, err
		}
		cfg = *c
	} else {
		c, err := config.Preset(app.Preset)
		if err != nil {
			return frag.Geometry{}, err
		}
		cfg = c
	}
	if err := cfg.Validate(); err != nil {
		return frag.Geometry{}, err
	}
	return cfg.FragGeometry(), nil
}

func (app *App) pusher() *pusher {
	return newPusher(app.URL, app.Timeout)
}
