// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the socket transport between the automation
// host and its clients.
//
// [SocketServer] serves a CBOR request-response protocol on a Unix
// socket: one request per connection, routed by its "action" field to
// a registered [ActionFunc]. Responses are wrapped in a [Response]
// envelope. Failures whose error implements [CodedError] carry the
// numeric code in the envelope so clients can tell, for example, a
// disabled element from a missing one.
//
// [ServiceClient] is the matching client. It opens a connection per
// [ServiceClient.Call] and returns a [*ServiceError] when the server
// reports a failure.
//
// # Access control
//
// The socket file is created with mode 0600. On Linux the server also
// reads the peer credentials of every accepted connection and closes
// connections from other users before reading anything.
package service
