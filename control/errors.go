// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import "errors"

var (
	// ErrInvalidOperation is returned by selection and value commands
	// the element's current configuration does not allow, such as adding
	// a second item to a single-selection list.
	ErrInvalidOperation = errors.New("operation not valid for the element's state")

	// ErrReadOnly is returned by SetValue on a read-only text box.
	ErrReadOnly = errors.New("element is read-only")
)
