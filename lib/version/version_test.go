// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestInfoMarksDirtyBuilds(t *testing.T) {
	saved := []string{Version, GitCommit, GitDirty, BuildTime}
	t.Cleanup(func() {
		Version, GitCommit, GitDirty, BuildTime = saved[0], saved[1], saved[2], saved[3]
	})

	Version, GitCommit, BuildTime = "1.2.3", "abc1234", "2026-10-01T00:00:00Z"
	GitDirty = "false"
	if got, want := Info(), "1.2.3 (abc1234, 2026-10-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want dirty marker", got)
	}
	if got := Full(); !strings.Contains(got, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() = %q, want platform", got)
	}
	if Short() != "1.2.3" {
		t.Errorf("Short() = %q", Short())
	}
}

func TestStampFallsBackToBuildSettings(t *testing.T) {
	saved := GitDirty
	t.Cleanup(func() { GitDirty = saved })
	GitDirty = "false"

	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
	}
	got := stamp{commit: "unknown", time: "unknown"}.merge(settings)
	want := stamp{commit: "0123456789ab", dirty: true, time: "2026-09-30T12:00:00Z"}
	if got != want {
		t.Errorf("merge = %+v, want %+v", got, want)
	}

	pinned := stamp{commit: "abc1234", time: "2026-10-01T00:00:00Z"}.merge(settings)
	if pinned.commit != "abc1234" || pinned.time != "2026-10-01T00:00:00Z" {
		t.Errorf("ldflags values overridden: %+v", pinned)
	}
}
