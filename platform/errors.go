// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/automation/peer"
)

// ErrorCodeElementNotEnabled is reported when a command targets a
// disabled element. The value is UIA_E_ELEMENTNOTENABLED.
const ErrorCodeElementNotEnabled uint32 = 0x80040200

// Error is a failure reported to an automation client with a numeric
// platform code.
type Error struct {
	Code uint32
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v (0x%08X)", e.Op, e.Err, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode returns the platform code carried to socket clients.
func (e *Error) ErrorCode() uint32 { return e.Code }

// IsElementNotEnabled reports whether err carries the not-enabled code.
func IsElementNotEnabled(err error) bool {
	var platformError *Error
	return errors.As(err, &platformError) && platformError.Code == ErrorCodeElementNotEnabled
}

// translate converts tree-thread command failures into what clients see.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, peer.ErrElementNotEnabled):
		return &Error{Code: ErrorCodeElementNotEnabled, Op: op, Err: err}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// InconsistencyError is the panic value raised when the peer tree breaks
// a contract the bridge depends on, such as a peer whose node was not
// created by this package.
type InconsistencyError struct {
	Message string
}

func (e *InconsistencyError) Error() string {
	return "platform: inconsistent peer tree: " + e.Message
}
