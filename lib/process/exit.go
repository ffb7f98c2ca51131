// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
)

// Fatal exits the process for an error returned from main's command.
// Errors carrying ExitCode() int exit with that code silently, as the
// command has already reported; everything else is printed as
// "error: err" and exits with code 1.
func Fatal(err error) {
	os.Exit(report(err))
}

func report(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}
