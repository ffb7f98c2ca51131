// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework shared by the automation
// binaries: a tree of [Command] values dispatched by name, pflag flag
// sets parsed per command, typo suggestions for unknown commands and
// flags, --json output helpers, and the process logger.
//
// A command with Subcommands dispatches on its first positional
// argument; a leaf command parses its flags and calls Run with what
// is left:
//
//	root := &cli.Command{
//	    Name: "automation-inspect",
//	    Subcommands: []*cli.Command{treeCommand(), invokeCommand()},
//	}
//	err := root.Execute(os.Args[1:])
//
// Errors implementing ExitCode() int (see [ExitError]) tell main to
// exit with that code without printing anything more.
package cli
