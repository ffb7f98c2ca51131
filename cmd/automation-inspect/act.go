// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/remote"
)

// elementCommand builds a command that runs action on one element and
// prints the element afterwards.
func elementCommand(out io.Writer, action, summary string) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    action,
		Summary: summary,
		Usage:   "automation-inspect " + action + " <element> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet(action) },
		Run: func(args []string) error {
			id, err := elementArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().Command(ctx, action, id)
			if err != nil {
				return err
			}
			return writeResult(out, &conn, info)
		},
	}
}

func contextMenuCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "context-menu",
		Summary: "Open an element's context menu",
		Usage:   "automation-inspect context-menu <element> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("context-menu") },
		Run: func(args []string) error {
			id, err := elementArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			shown, err := conn.client().ShowContextMenu(ctx, id)
			if err != nil {
				return err
			}
			if done, err := conn.EmitJSON(out, map[string]bool{"shown": shown}); done {
				return err
			}
			if !shown {
				fmt.Fprintln(out, "element has no context menu")
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintln(out, "context menu shown")
			return nil
		},
	}
}

func setValueCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "set-value",
		Summary: "Replace the text of a value element",
		Usage:   "automation-inspect set-value <element> <text> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("set-value") },
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected an element id and a value")
			}
			id, err := elementArg(args[:1])
			if err != nil {
				return err
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().SetValue(ctx, id, args[1])
			if err != nil {
				return err
			}
			return writeResult(out, &conn, info)
		},
	}
}

func setRangeCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "set-range",
		Summary: "Set the value of a range element",
		Usage:   "automation-inspect set-range <element> <number> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("set-range") },
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected an element id and a number")
			}
			id, err := elementArg(args[:1])
			if err != nil {
				return err
			}
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q", args[1])
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().SetRange(ctx, id, value)
			if err != nil {
				return err
			}
			return writeResult(out, &conn, info)
		},
	}
}

func scrollCommand(out io.Writer) *cli.Command {
	var conn connection
	var horizontal, vertical string
	return &cli.Command{
		Name:    "scroll",
		Summary: "Scroll an element by lines or pages",
		Usage:   "automation-inspect scroll <element> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := conn.flagSet("scroll")
			flagSet.StringVar(&horizontal, "horizontal", "none", "page-back, line-back, none, line-forward or page-forward")
			flagSet.StringVar(&vertical, "vertical", "none", "page-back, line-back, none, line-forward or page-forward")
			return flagSet
		},
		Examples: []cli.Example{{Description: "One page down", Command: "automation-inspect scroll 15 --vertical page-forward"}},
		Run: func(args []string) error {
			id, err := elementArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().Scroll(ctx, id, horizontal, vertical)
			if err != nil {
				return err
			}
			return writeResult(out, &conn, info)
		},
	}
}

func scrollPercentCommand(out io.Writer) *cli.Command {
	var conn connection
	var horizontal, vertical float64
	// parsed is the flag set Execute parsed, for Changed.
	var parsed *pflag.FlagSet
	return &cli.Command{
		Name:    "scroll-percent",
		Summary: "Scroll an element to a percentage",
		Usage:   "automation-inspect scroll-percent <element> [flags]",
		Flags: func() *pflag.FlagSet {
			parsed = conn.flagSet("scroll-percent")
			parsed.Float64Var(&horizontal, "horizontal", 0, "horizontal percent, 0 to 100 (unset: leave alone)")
			parsed.Float64Var(&vertical, "vertical", 0, "vertical percent, 0 to 100 (unset: leave alone)")
			return parsed
		},
		Run: func(args []string) error {
			id, err := elementArg(args)
			if err != nil {
				return err
			}
			var horizontalPercent, verticalPercent *float64
			if parsed.Changed("horizontal") {
				horizontalPercent = &horizontal
			}
			if parsed.Changed("vertical") {
				verticalPercent = &vertical
			}
			if horizontalPercent == nil && verticalPercent == nil {
				return fmt.Errorf("set --horizontal, --vertical or both")
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().ScrollPercent(ctx, id, horizontalPercent, verticalPercent)
			if err != nil {
				return err
			}
			return writeResult(out, &conn, info)
		},
	}
}

// writeResult prints the element a command left behind.
func writeResult(out io.Writer, conn *connection, info *remote.ElementInfo) error {
	if done, err := conn.EmitJSON(out, info); done {
		return err
	}
	if info != nil {
		fmt.Fprintln(out, elementLine(*info))
	}
	return nil
}
