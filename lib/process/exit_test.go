// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"testing"
)

type exitCoder struct{ code int }

func (e exitCoder) Error() string { return "handled" }
func (e exitCoder) ExitCode() int { return e.code }

func TestReportExitCodes(t *testing.T) {
	if code := report(errors.New("boom")); code != 1 {
		t.Errorf("plain error exit code = %d, want 1", code)
	}
	if code := report(fmt.Errorf("wrapped: %w", exitCoder{code: 4})); code != 4 {
		t.Errorf("wrapped exit coder = %d, want 4", code)
	}
}
