// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/lib/config"
	"github.com/bureau-foundation/automation/remote"
)

// socketEnvironmentVariable overrides the default socket path.
const socketEnvironmentVariable = "AUTOMATION_SOCKET"

// connection holds the flags every command shares.
type connection struct {
	cli.JSONOutput
	socketPath string
	timeout    time.Duration
}

func (c *connection) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.socketPath, "socket", defaultSocketPath(), "automation host socket")
	flagSet.DurationVar(&c.timeout, "timeout", 10*time.Second, "request timeout")
	c.JSONOutput.AddFlags(flagSet)
}

func defaultSocketPath() string {
	if path := os.Getenv(socketEnvironmentVariable); path != "" {
		return path
	}
	return config.Default().Host.SocketPath
}

func (c *connection) client() *remote.Client {
	return remote.NewClient(c.socketPath)
}

// requestContext returns a context bounded by --timeout.
func (c *connection) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// flagSet returns a flag set with the connection flags registered.
func (c *connection) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	c.addFlags(flagSet)
	return flagSet
}

// elementArg parses the single element id positional argument.
func elementArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one element id, got %d arguments", len(args))
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid element id %q", args[0])
	}
	return id, nil
}
