// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bureau-foundation/automation/lib/codec"
)

func TestClientCall(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, testLogger())
	server.Handle("show", func(ctx context.Context, raw []byte) (any, error) {
		var request struct {
			Element string `cbor:"element"`
		}
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, err
		}
		return map[string]any{"element": request.Element, "name": "OK"}, nil
	})
	ctx := startServer(t, server)

	client := NewServiceClient(socketPath)
	var result map[string]any
	if err := client.Call(ctx, "show", map[string]any{"element": "e7"}, &result); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result["element"] != "e7" || result["name"] != "OK" {
		t.Errorf("result = %v", result)
	}

	if err := client.Call(ctx, "show", nil, nil); err != nil {
		t.Errorf("Call with nil result: %v", err)
	}
}

func TestClientCallNoResponseData(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, testLogger())
	server.Handle("noop", func(ctx context.Context, raw []byte) (any, error) {
		return nil, nil
	})
	ctx := startServer(t, server)

	result := map[string]any{"untouched": true}
	if err := NewServiceClient(socketPath).Call(ctx, "noop", nil, &result); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result["untouched"] != true {
		t.Errorf("result modified without response data: %v", result)
	}
}

func TestClientCallServiceError(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, testLogger())
	server.Handle("fail", func(ctx context.Context, raw []byte) (any, error) {
		return nil, errors.New("something broke")
	})
	server.Handle("disabled", func(ctx context.Context, raw []byte) (any, error) {
		return nil, fmt.Errorf("toggle: %w", codedError{code: 0x80040200})
	})
	ctx := startServer(t, server)
	client := NewServiceClient(socketPath)

	err := client.Call(ctx, "fail", nil, nil)
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if serviceErr.Action != "fail" || serviceErr.Message != "something broke" || serviceErr.Code != 0 {
		t.Errorf("error = %+v", serviceErr)
	}

	err = client.Call(ctx, "disabled", nil, nil)
	var coded CodedError
	if !errors.As(err, &coded) || coded.ErrorCode() != 0x80040200 {
		t.Errorf("expected code 0x80040200, got %v", err)
	}

	err = client.Call(ctx, "unknown", nil, nil)
	if !errors.As(err, &serviceErr) {
		t.Errorf("unknown action: expected *ServiceError, got %T: %v", err, err)
	}
}

func TestClientCallConnectionRefused(t *testing.T) {
	client := NewServiceClient(filepath.Join(t.TempDir(), "missing.sock"))

	err := client.Call(context.Background(), "status", nil, nil)
	if err == nil {
		t.Fatal("expected error for a missing socket")
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		t.Fatalf("connection failure should not be *ServiceError, got %v", serviceErr)
	}
}

func TestClientConcurrentCalls(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, testLogger())
	server.Handle("echo", func(ctx context.Context, raw []byte) (any, error) {
		var request struct {
			Value int `cbor:"value"`
		}
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, err
		}
		return map[string]any{"value": request.Value}, nil
	})
	ctx := startServer(t, server)
	client := NewServiceClient(socketPath)

	const concurrency = 20
	var clientWg sync.WaitGroup
	for i := range concurrency {
		clientWg.Add(1)
		go func() {
			defer clientWg.Done()
			var result map[string]any
			if err := client.Call(ctx, "echo", map[string]any{"value": i}, &result); err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			if result["value"] != uint64(i) {
				t.Errorf("call %d: got value %v, want %d", i, result["value"], i)
			}
		}()
	}
	clientWg.Wait()
}
