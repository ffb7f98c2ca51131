// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package locale resolves the process culture to the numeric locale
// identifier (LCID) that automation clients expect in the Culture
// property.
//
// The active locale comes from an explicit override, or from the POSIX
// environment (LC_ALL, LC_MESSAGES, LANG in that order). The tag is
// matched against a fixed table of supported cultures with
// golang.org/x/text/language, so "en_GB.UTF-8" and "en-GB" resolve the
// same way and an unsupported region falls back to its language.
// Anything unresolvable is the invariant culture (LCID 127).
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Invariant is the LCID of the invariant culture.
const Invariant = 127

// cultures maps supported tags to Windows LCIDs. The first entry for a
// base language is the one an unlisted region falls back to.
var cultures = []struct {
	tag  language.Tag
	lcid int
}{
	{language.AmericanEnglish, 0x0409},
	{language.BritishEnglish, 0x0809},
	{language.MustParse("en-CA"), 0x1009},
	{language.MustParse("en-AU"), 0x0C09},
	{language.German, 0x0407},
	{language.MustParse("de-AT"), 0x0C07},
	{language.MustParse("de-CH"), 0x0807},
	{language.French, 0x040C},
	{language.CanadianFrench, 0x0C0C},
	{language.Spanish, 0x0C0A},
	{language.LatinAmericanSpanish, 0x580A},
	{language.Italian, 0x0410},
	{language.Dutch, 0x0413},
	{language.BrazilianPortuguese, 0x0416},
	{language.EuropeanPortuguese, 0x0816},
	{language.Swedish, 0x041D},
	{language.Danish, 0x0406},
	{language.Norwegian, 0x0414},
	{language.Finnish, 0x040B},
	{language.Polish, 0x0415},
	{language.Czech, 0x0405},
	{language.Russian, 0x0419},
	{language.Ukrainian, 0x0422},
	{language.Turkish, 0x041F},
	{language.Greek, 0x0408},
	{language.Hebrew, 0x040D},
	{language.Arabic, 0x0401},
	{language.Japanese, 0x0411},
	{language.Korean, 0x0412},
	{language.SimplifiedChinese, 0x0804},
	{language.TraditionalChinese, 0x0404},
	{language.Hindi, 0x0439},
	{language.Thai, 0x041E},
	{language.Vietnamese, 0x042A},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(cultures))
	for i, culture := range cultures {
		tags[i] = culture.tag
	}
	return language.NewMatcher(tags)
}()

// LCID returns the locale identifier for a BCP 47 or POSIX locale name.
// Empty, "C", "POSIX" and unparseable names are the invariant culture.
func LCID(name string) int {
	tag, ok := parse(name)
	if !ok {
		return Invariant
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Invariant
	}
	return cultures[index].lcid
}

// Current returns the LCID for override when it is non-empty, otherwise
// for the locale named by the environment.
func Current(override string) int {
	if override != "" {
		return LCID(override)
	}
	return LCID(FromEnvironment())
}

// FromEnvironment returns the first non-empty locale variable, or "".
func FromEnvironment() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

// parse accepts BCP 47 tags and POSIX names such as "de_DE.UTF-8@euro".
func parse(name string) (language.Tag, bool) {
	name = strings.TrimSpace(name)
	if index := strings.IndexAny(name, ".@"); index >= 0 {
		name = name[:index]
	}
	if name == "" || name == "C" || name == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
