// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/lib/config"
	"github.com/bureau-foundation/automation/lib/process"
	"github.com/bureau-foundation/automation/lib/version"
)

func main() {
	if err := rootCommand().Execute(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

type hostFlags struct {
	configPath  string
	layoutPath  string
	watch       bool
	socketPath  string
	showVersion bool
}

func rootCommand() *cli.Command {
	var flags hostFlags
	return &cli.Command{
		Name:    "automation-host",
		Summary: "Host a declared UI and serve its automation tree",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("automation-host", pflag.ContinueOnError)
			flagSet.StringVar(&flags.configPath, "config", "", "config file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
			flagSet.StringVar(&flags.layoutPath, "layout", "", "layout file, overriding host.layout_path")
			flagSet.BoolVar(&flags.watch, "watch", false, "rebuild the UI when the layout file changes")
			flagSet.StringVar(&flags.socketPath, "socket", "", "socket path, overriding host.socket_path")
			flagSet.BoolVar(&flags.showVersion, "version", false, "print version information and exit")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Serve the demo window on the default socket", Command: "automation-host"},
			{Description: "Serve a layout file", Command: "automation-host --layout ./form.yaml --socket /tmp/form.sock"},
			{Description: "Rebuild the UI on every save of the layout", Command: "automation-host --layout ./form.yaml --watch"},
		},
		Run: func(args []string) error {
			if flags.showVersion {
				fmt.Println(version.Full())
				return nil
			}
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := cli.NewLogger(cfg.Logging.SlogLevel())
			return newHost(cfg, logger).run(ctx)
		},
	}
}

// loadConfig reads the config file named by the flags or the
// environment, applies the flag overrides and validates the result.
func loadConfig(flags hostFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = os.Getenv(config.EnvironmentVariable)
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if flags.layoutPath != "" {
		cfg.Host.LayoutPath = flags.layoutPath
	}
	if flags.socketPath != "" {
		cfg.Host.SocketPath = flags.socketPath
	}
	if flags.watch {
		cfg.Host.WatchLayout = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
