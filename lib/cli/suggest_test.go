// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "tree", 4},
		{"tree", "tree", 0},
		{"tree", "trees", 1},
		{"togle", "toggle", 1},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if got := levenshtein(test.b, test.a); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("scroll", pflag.ContinueOnError)
	flagSet.String("vertical", "", "")
	flagSet.String("horizontal", "", "")

	if got := suggestFlag([]string{"12", "--vertcal", "line-forward"}, flagSet); got != "--vertical" {
		t.Errorf("suggestFlag = %q, want --vertical", got)
	}
	if got := suggestFlag([]string{"--zzzzzzzz"}, flagSet); got != "" {
		t.Errorf("suggestFlag for a distant name = %q", got)
	}
	if got := suggestFlag([]string{"--vertical", "x"}, flagSet); got != "" {
		t.Errorf("suggestFlag with only known flags = %q", got)
	}
}
