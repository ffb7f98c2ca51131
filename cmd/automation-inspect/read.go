// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/remote"
)

func statusCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "status",
		Summary: "Show the host's version, uptime and tree size",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("status") },
		Run: func(args []string) error {
			ctx, cancel := conn.requestContext()
			defer cancel()
			status, err := conn.client().Status(ctx)
			if err != nil {
				return err
			}
			if done, err := conn.EmitJSON(out, status); done {
				return err
			}
			fmt.Fprintf(out, "%s%s\n", labelStyle.Render("version"), status.Version)
			fmt.Fprintf(out, "%s%s (pid %d)\n", labelStyle.Render("framework"), status.FrameworkID, status.ProcessID)
			fmt.Fprintf(out, "%s%s\n", labelStyle.Render("uptime"), time.Duration(status.UptimeSeconds)*time.Second)
			fmt.Fprintf(out, "%s%d roots, %d nodes\n", labelStyle.Render("tree"), status.Roots, status.Nodes)
			fmt.Fprintf(out, "%s%d (latest %d)\n", labelStyle.Render("subscriptions"), status.Subscriptions, status.LatestEvent)
			return nil
		},
	}
}

func rootsCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "roots",
		Summary: "List the root elements",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("roots") },
		Run: func(args []string) error {
			ctx, cancel := conn.requestContext()
			defer cancel()
			roots, err := conn.client().Roots(ctx)
			if err != nil {
				return err
			}
			if done, err := conn.EmitJSON(out, roots); done {
				return err
			}
			for _, root := range roots {
				fmt.Fprintln(out, elementLine(root))
			}
			return nil
		},
	}
}

func treeCommand(out io.Writer) *cli.Command {
	var conn connection
	var options remote.TreeOptions
	return &cli.Command{
		Name:    "tree",
		Summary: "Print the element tree",
		Usage:   "automation-inspect tree [element] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := conn.flagSet("tree")
			flagSet.IntVar(&options.Depth, "depth", 0, "levels to print, counting the start (0: all)")
			flagSet.BoolVar(&options.ControlOnly, "control", false, "show only control elements")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Print every root two levels deep", Command: "automation-inspect tree --depth 2"},
			{Description: "Print the subtree of element 12", Command: "automation-inspect tree 12"},
		},
		Run: func(args []string) error {
			options.Element = 0
			if len(args) > 0 {
				id, err := elementArg(args)
				if err != nil {
					return err
				}
				options.Element = id
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			tree, err := conn.client().Tree(ctx, options)
			if err != nil {
				return err
			}
			if done, err := conn.EmitJSON(out, tree); done {
				return err
			}
			writeTree(out, tree)
			return nil
		},
	}
}

func showCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "show",
		Summary: "Show every property of an element",
		Usage:   "automation-inspect show <element> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("show") },
		Run: func(args []string) error {
			id, err := elementArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			detail, err := conn.client().Show(ctx, id)
			if err != nil {
				return err
			}
			if done, err := conn.EmitJSON(out, detail); done {
				return err
			}
			writeDetail(out, detail)
			return nil
		},
	}
}

func propertyCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "property",
		Summary: "Read one property of an element",
		Usage:   "automation-inspect property <element> <name-or-number> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("property") },
		Examples: []cli.Example{
			{Command: "automation-inspect property 9 Toggle.ToggleState"},
			{Command: "automation-inspect property 9 30005"},
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected an element id and a property name")
			}
			id, err := elementArg(args[:1])
			if err != nil {
				return err
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			property, err := conn.client().Property(ctx, id, args[1])
			if err != nil {
				return err
			}
			if done, err := conn.EmitJSON(out, property); done {
				return err
			}
			fmt.Fprintf(out, "%s%s\n", labelStyle.Render(property.Name), formatValue(property.Value))
			return nil
		},
	}
}

func navigateCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "navigate",
		Summary: "Print an element's parent, sibling or child",
		Usage:   "automation-inspect navigate <element> <parent|next|previous|first|last> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("navigate") },
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected an element id and a direction")
			}
			id, err := elementArg(args[:1])
			if err != nil {
				return err
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().Navigate(ctx, id, args[1])
			if err != nil {
				return err
			}
			return writeOptionalElement(out, &conn, info, "no "+args[1]+" element")
		},
	}
}

func focusedCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "focused",
		Summary: "Print the element with keyboard focus",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("focused") },
		Run: func(args []string) error {
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().Focused(ctx)
			if err != nil {
				return err
			}
			return writeOptionalElement(out, &conn, info, "nothing has focus")
		},
	}
}

func atCommand(out io.Writer) *cli.Command {
	var conn connection
	return &cli.Command{
		Name:    "at",
		Summary: "Print the element at a screen point",
		Usage:   "automation-inspect at <x> <y> [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("at") },
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected x and y")
			}
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q", args[0])
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q", args[1])
			}
			ctx, cancel := conn.requestContext()
			defer cancel()
			info, err := conn.client().ElementAt(ctx, x, y)
			if err != nil {
				return err
			}
			return writeOptionalElement(out, &conn, info, "no element at that point")
		},
	}
}

// writeOptionalElement prints info, or missing when it is nil. With
// --json a missing element is null.
func writeOptionalElement(out io.Writer, conn *connection, info *remote.ElementInfo, missing string) error {
	if done, err := conn.EmitJSON(out, info); done {
		return err
	}
	if info == nil {
		fmt.Fprintln(out, missing)
		return &cli.ExitError{Code: 1}
	}
	fmt.Fprintln(out, elementLine(*info))
	return nil
}
