// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags -X at build time. A binary built without them
// falls back to the VCS stamp the go command embeds.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"

	// Version is the semantic version, set by hand for releases.
	Version = "0.1.0-dev"
)

// stamp is the build identity Info reports.
type stamp struct {
	commit string
	dirty  bool
	time   string
}

// current merges the ldflags values with the embedded build settings.
// Values set by ldflags win.
func current() stamp {
	s := stamp{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return s
	}
	return s.merge(info.Settings)
}

func (s stamp) merge(settings []debug.BuildSetting) stamp {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if s.commit == "unknown" && setting.Value != "" {
				s.commit = setting.Value[:min(len(setting.Value), 12)]
			}
		case "vcs.modified":
			if GitDirty == "false" && setting.Value == "true" {
				s.dirty = true
			}
		case "vcs.time":
			if s.time == "unknown" {
				s.time = setting.Value
			}
		}
	}
	return s
}

// Info returns a formatted version string for --version output and
// the host's status reply.
func Info() string {
	s := current()
	dirty := ""
	if s.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, s.commit, dirty, s.time)
}

// Full adds the Go version and platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}
