// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the module's CBOR encoding configuration.
//
// CBOR carries the automation socket protocol between the host and its
// clients, and the tree dumps written by automation-inspect. JSON is
// used only for human-facing output (--json).
//
// The encoder uses Core Deterministic Encoding, so the same logical
// data always produces identical bytes. The remote package relies on
// that: a snapshot digest is the BLAKE3 hash of the encoded snapshot.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct tags
//
// Types that only travel over the socket use `cbor` tags. Types that
// are also printed with --json use `json` tags; fxamacker/cbor falls
// back to them when no `cbor` tag is present. Never put both on one
// field.
package codec
