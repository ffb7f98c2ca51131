// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"errors"
	"fmt"
)

// Error codes carried to socket clients beside platform.Error codes.
// The values are the UIA ones.
const (
	ErrorCodeElementNotAvailable uint32 = 0x80040201
	ErrorCodeNotSupported        uint32 = 0x80040204
	ErrorCodeInvalidOperation    uint32 = 0x80131509
)

// ErrElementNotAvailable matches errors for ids that name no live node.
var ErrElementNotAvailable = errors.New("element not available")

// ErrNotSupported matches errors for commands on elements without the
// pattern the command needs.
var ErrNotSupported = errors.New("pattern not supported")

type elementError struct{ id int }

func (e *elementError) Error() string {
	return fmt.Sprintf("element %d is not available", e.id)
}

func (e *elementError) ErrorCode() uint32 { return ErrorCodeElementNotAvailable }

func (e *elementError) Is(target error) bool { return target == ErrElementNotAvailable }

type patternError struct {
	id      int
	pattern string
}

func (e *patternError) Error() string {
	return fmt.Sprintf("element %d does not support %s", e.id, e.pattern)
}

func (e *patternError) ErrorCode() uint32 { return ErrorCodeNotSupported }

func (e *patternError) Is(target error) bool { return target == ErrNotSupported }

// invalidOperation carries ErrorCodeInvalidOperation for command
// failures that are neither not-enabled nor unsupported, such as
// deselecting the only tab.
type invalidOperation struct{ err error }

func (e *invalidOperation) Error() string     { return e.err.Error() }
func (e *invalidOperation) Unwrap() error     { return e.err }
func (e *invalidOperation) ErrorCode() uint32 { return ErrorCodeInvalidOperation }
