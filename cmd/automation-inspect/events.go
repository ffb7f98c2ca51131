// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/remote"
)

// followWait is how long each poll of a followed log may block.
const followWait = 20 * time.Second

type eventsParams struct {
	connection
	after       uint64
	limit       int
	follow      bool
	advise      []int
	adviseFocus []int
}

func eventsCommand(out io.Writer) *cli.Command {
	var params eventsParams
	return &cli.Command{
		Name:    "events",
		Summary: "Print the host's automation events",
		Description: "Print logged automation events, oldest first.\n\n" +
			"Property-change events are only raised for elements some client has advised;\n" +
			"--advise does that for the duration of the command.",
		Flags: func() *pflag.FlagSet {
			flagSet := params.flagSet("events")
			flagSet.Uint64Var(&params.after, "after", 0, "print events after this sequence number")
			flagSet.IntVar(&params.limit, "limit", 0, "print at most this many events per batch (0: all)")
			flagSet.BoolVarP(&params.follow, "follow", "f", false, "keep waiting for new events")
			flagSet.IntSliceVar(&params.advise, "advise", nil, "advise property events on these elements")
			flagSet.IntSliceVar(&params.adviseFocus, "advise-focus", nil, "advise focus events on these roots")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Watch a slider's value", Command: "automation-inspect events --follow --advise 11"},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runEvents(ctx, out, &params)
		},
	}
}

func runEvents(ctx context.Context, out io.Writer, params *eventsParams) error {
	client := params.client()

	var subscriptions []string
	defer func() {
		cleanup, cancel := context.WithTimeout(context.Background(), params.timeout)
		defer cancel()
		for _, subscription := range subscriptions {
			client.Unadvise(cleanup, subscription)
		}
	}()
	advise := func(ids []int, event string) error {
		for _, id := range ids {
			requestCtx, cancel := context.WithTimeout(ctx, params.timeout)
			subscription, err := client.Advise(requestCtx, id, event)
			cancel()
			if err != nil {
				return fmt.Errorf("advising %s events on #%d: %w", event, id, err)
			}
			subscriptions = append(subscriptions, subscription)
		}
		return nil
	}
	if err := advise(params.advise, "property"); err != nil {
		return err
	}
	if err := advise(params.adviseFocus, "focus"); err != nil {
		return err
	}

	after := params.after
	for {
		wait := time.Duration(0)
		timeout := params.timeout
		if params.follow {
			wait = followWait
			timeout += followWait
		}
		requestCtx, cancel := context.WithTimeout(ctx, timeout)
		batch, err := client.Events(requestCtx, after, params.limit, wait)
		cancel()
		if err != nil {
			if params.follow && ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := writeBatch(out, &params.connection, batch); err != nil {
			return err
		}
		after = batch.Last
		if !params.follow {
			return nil
		}
	}
}

func writeBatch(out io.Writer, conn *connection, batch remote.EventBatch) error {
	if batch.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d events were dropped before they could be read\n", batch.Dropped)
	}
	if conn.OutputJSON {
		for _, record := range batch.Events {
			if err := cli.WriteJSON(out, record); err != nil {
				return err
			}
		}
		return nil
	}
	for _, record := range batch.Events {
		fmt.Fprintln(out, eventLine(record))
	}
	return nil
}
