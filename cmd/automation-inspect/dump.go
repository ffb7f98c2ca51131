// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/lib/codec"
	"github.com/bureau-foundation/automation/remote"
)

// dumpFile is the content of a dump: the tree as CBOR, zstd
// compressed.
type dumpFile struct {
	Taken  time.Time         `cbor:"taken" json:"taken"`
	Socket string            `cbor:"socket" json:"socket"`
	Digest string            `cbor:"digest" json:"digest"`
	Tree   []remote.TreeNode `cbor:"tree" json:"tree"`
}

func writeDump(w io.Writer, dump dumpFile) error {
	data, err := codec.Marshal(dump)
	if err != nil {
		return err
	}
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if _, err := encoder.Write(data); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

func readDump(r io.Reader) (dumpFile, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return dumpFile{}, err
	}
	defer decoder.Close()

	var dump dumpFile
	if err := codec.NewDecoder(decoder).Decode(&dump); err != nil {
		return dumpFile{}, fmt.Errorf("decoding dump: %w", err)
	}
	digest, err := remote.Digest(dump.Tree)
	if err != nil {
		return dumpFile{}, err
	}
	if digest != dump.Digest {
		return dumpFile{}, fmt.Errorf("dump is corrupt: digest %s does not match recorded %s", digest, dump.Digest)
	}
	return dump, nil
}

func dumpCommand(out io.Writer) *cli.Command {
	var conn connection
	var options remote.TreeOptions
	var outputPath, readPath string
	return &cli.Command{
		Name:    "dump",
		Summary: "Save the element tree to a compressed file, or print a saved one",
		Usage:   "automation-inspect dump [element] --output FILE | --read FILE",
		Flags: func() *pflag.FlagSet {
			flagSet := conn.flagSet("dump")
			flagSet.StringVarP(&outputPath, "output", "o", "", "write the dump to this file")
			flagSet.StringVar(&readPath, "read", "", "print a dump written earlier")
			flagSet.IntVar(&options.Depth, "depth", 0, "levels to save, counting the start (0: all)")
			flagSet.BoolVar(&options.ControlOnly, "control", false, "save only control elements")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Save the whole tree", Command: "automation-inspect dump -o tree.cbor.zst"},
			{Description: "Print it later", Command: "automation-inspect dump --read tree.cbor.zst"},
		},
		Run: func(args []string) error {
			if readPath != "" {
				file, err := os.Open(readPath)
				if err != nil {
					return err
				}
				defer file.Close()
				dump, err := readDump(file)
				if err != nil {
					return err
				}
				if done, err := conn.EmitJSON(out, dump); done {
					return err
				}
				fmt.Fprintf(out, "%s from %s at %s\n", idStyle.Render(dump.Digest[:16]), dump.Socket, dump.Taken.Format(time.RFC3339))
				writeTree(out, dump.Tree)
				return nil
			}

			if outputPath == "" {
				return fmt.Errorf("set --output or --read")
			}
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
			snapshot, err := conn.client().Snapshot(ctx, options, "")
			if err != nil {
				return err
			}
			file, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			dump := dumpFile{
				Taken:  time.Now().UTC(),
				Socket: conn.socketPath,
				Digest: snapshot.Digest,
				Tree:   snapshot.Tree,
			}
			if err := writeDump(file, dump); err != nil {
				file.Close()
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s (digest %s)\n", outputPath, snapshot.Digest[:16])
			return nil
		},
	}
}
