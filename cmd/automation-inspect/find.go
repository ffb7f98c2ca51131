// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/automation/lib/cli"
	"github.com/bureau-foundation/automation/remote"
)

func init() {
	algo.Init("default")
}

// match is an element that matched a find pattern.
type match struct {
	Element remote.ElementInfo `json:"element"`
	Path    string             `json:"path"`
	Score   int                `json:"score"`
}

// flatElement is a tree node with the names of its ancestors.
type flatElement struct {
	info remote.ElementInfo
	path string
}

func flatten(nodes []remote.TreeNode, path string, into []flatElement) []flatElement {
	for _, node := range nodes {
		into = append(into, flatElement{info: node.ElementInfo, path: path})
		label := node.Name
		if label == "" {
			label = node.ControlType
		}
		childPath := label
		if path != "" {
			childPath = path + " / " + label
		}
		into = flatten(node.Children, childPath, into)
	}
	return into
}

// findMatches ranks elements by how well "ControlType Name" matches
// pattern, best first. Ties keep tree order.
func findMatches(elements []flatElement, pattern string) []match {
	caseSensitive := strings.IndexFunc(pattern, unicode.IsUpper) >= 0
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}
	runes := []rune(pattern)
	slab := util.MakeSlab(100*1024, 2048)

	var matches []match
	for _, element := range elements {
		text := element.info.ControlType + " " + element.info.Name
		chars := util.ToChars([]byte(text))
		result, _ := algo.FuzzyMatchV2(caseSensitive, true, true, &chars, runes, false, slab)
		if result.Start < 0 || result.Score <= 0 {
			continue
		}
		matches = append(matches, match{Element: element.info, Path: element.path, Score: result.Score})
	}
	slices.SortStableFunc(matches, func(a, b match) int { return cmp.Compare(b.Score, a.Score) })
	return matches
}

func findCommand(out io.Writer) *cli.Command {
	var conn connection
	var limit int
	var controlOnly bool
	return &cli.Command{
		Name:    "find",
		Summary: "Fuzzy-find elements by control type and name",
		Usage:   "automation-inspect find <pattern> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := conn.flagSet("find")
			flagSet.IntVar(&limit, "limit", 10, "print at most this many matches (0: all)")
			flagSet.BoolVar(&controlOnly, "control", false, "search only control elements")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Find the save button", Command: "automation-inspect find 'button save'"},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("expected a pattern")
			}
			pattern := strings.Join(args, " ")
			ctx, cancel := conn.requestContext()
			defer cancel()
			tree, err := conn.client().Tree(ctx, remote.TreeOptions{ControlOnly: controlOnly})
			if err != nil {
				return err
			}
			matches := findMatches(flatten(tree, "", nil), pattern)
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			if done, err := conn.EmitJSON(out, matches); done {
				return err
			}
			if len(matches) == 0 {
				fmt.Fprintf(out, "no element matches %q\n", pattern)
				return &cli.ExitError{Code: 1}
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%s %s\n", elementLine(m.Element), idStyle.Render(m.Path))
			}
			return nil
		},
	}
}
