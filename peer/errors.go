// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import "errors"

// ErrElementNotEnabled is returned by commands that require an enabled
// element when the element is disabled. Check with errors.Is: facet
// implementations may wrap it.
var ErrElementNotEnabled = errors.New("element is not enabled")
