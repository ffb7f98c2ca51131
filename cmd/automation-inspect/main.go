// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/lib/process"
	"github.com/bureau-foundation/automation/lib/version"
)

func main() {
	if err := rootCommand(os.Stdout).Execute(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func rootCommand(out io.Writer) *cli.Command {
	var showVersion bool
	return &cli.Command{
		Name:    "automation-inspect",
		Summary: "Inspect and drive an automation host",
		Description: "Inspect and drive the automation tree served by automation-host.\n\n" +
			"Elements are addressed by the ids printed by tree and find.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("automation-inspect", pflag.ContinueOnError)
			flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
			return flagSet
		},
		Run: func(args []string) error {
			if showVersion {
				fmt.Fprintln(out, version.Info())
				return nil
			}
			if len(args) > 0 {
				return fmt.Errorf("unknown command %q\n\nRun 'automation-inspect --help' for usage.", args[0])
			}
			return fmt.Errorf("subcommand required\n\nRun 'automation-inspect --help' for usage.")
		},
		Subcommands: []*cli.Command{
			statusCommand(out),
			rootsCommand(out),
			treeCommand(out),
			findCommand(out),
			showCommand(out),
			propertyCommand(out),
			navigateCommand(out),
			focusedCommand(out),
			atCommand(out),
			elementCommand(out, "invoke", "Run the element's primary action"),
			elementCommand(out, "toggle", "Advance the element's toggle state"),
			elementCommand(out, "expand", "Expand the element"),
			elementCommand(out, "collapse", "Collapse the element"),
			elementCommand(out, "select", "Select the item, replacing the selection"),
			elementCommand(out, "add-to-selection", "Add the item to the selection"),
			elementCommand(out, "remove-from-selection", "Remove the item from the selection"),
			elementCommand(out, "scroll-into-view", "Scroll the item into view"),
			elementCommand(out, "focus", "Move keyboard focus to the element"),
			contextMenuCommand(out),
			setValueCommand(out),
			setRangeCommand(out),
			scrollCommand(out),
			scrollPercentCommand(out),
			eventsCommand(out),
			dumpCommand(out),
			browseCommand(),
		},
	}
}
