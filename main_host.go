//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"carousel/app"
	"carousel/cardos/proto"
	"carousel/hal"
	"carousel/internal/buildinfo"
	"carousel/internal/config"
)

func main() {
	var (
		headless    hal.HeadlessConfig
		configPath  string
		preset      string
		linkKind    string
		httpAddr    string
		bleName     string
		evdev       string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "YAML config file (overlays -preset).")
	flag.StringVar(&preset, "preset", "classic", "Built-in geometry: classic or wear.")
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Frame rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N frames in headless mode (0 = run forever).")
	flag.StringVar(&headless.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.StringVar(&linkKind, "link", "", "Link transport: loop, http or ble (overrides config).")
	flag.StringVar(&httpAddr, "http", "", "HTTP link listen address (overrides config).")
	flag.StringVar(&bleName, "ble-name", "", "BLE advertised name (overrides config).")
	flag.StringVar(&evdev, "evdev", "", "Linux input device path or name for buttons.")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := loadConfig(configPath, preset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if linkKind != "" {
		cfg.Link = linkKind
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if bleName != "" {
		cfg.BLEName = bleName
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	hostCfg := hal.HostConfig{
		Width:    cfg.Screen.Width,
		Height:   cfg.Screen.Height,
		Link:     cfg.Link,
		HTTPAddr: cfg.HTTPAddr,
		BLEName:  cfg.BLEName,
		MaxFrame: cfg.MaxPayload + proto.FragmentOverhead,
		Evdev:    evdev,
	}
	newApp := func(h hal.HAL) func() error { return app.New(h, *cfg) }

	if headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, hostCfg, newApp, headless); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(hostCfg, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path, preset string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	cfg, err := config.Preset(preset)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
