// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// request uses cbor tags, the convention for socket-only types.
type request struct {
	Action string `cbor:"action"`
	Node   int    `cbor:"node,omitempty"`
	Value  string `cbor:"value,omitempty"`
}

// summary uses json tags, the convention for types also printed as
// JSON.
type summary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// direction has a text form and travels as its name.
type direction int

func (d direction) MarshalText() ([]byte, error) {
	return []byte([]string{"parent", "next"}[d]), nil
}

func (d *direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "parent":
		*d = 0
	default:
		*d = 1
	}
	return nil
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{"zeta": 1, "alpha": 2, "mid": []int{3, 4}}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	data, err := Marshal(summary{ID: 7, Name: "OK"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["name"] != "OK" {
		t.Errorf("decoded = %v, want name key from json tag", decoded)
	}
}

func TestAnyMapsDecodeWithStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": true}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested map decoded as %T", outer["outer"])
	}
}

func TestTextMarshalerTravelsAsName(t *testing.T) {
	data, err := Marshal(struct {
		Direction direction `cbor:"direction"`
	}{Direction: 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"next"`) {
		t.Errorf("diagnostic %s does not carry the text form", diagnostic)
	}

	var decoded struct {
		Direction direction `cbor:"direction"`
	}
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Direction != 1 {
		t.Errorf("Direction = %d, want 1", decoded.Direction)
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	requests := []request{
		{Action: "tree"},
		{Action: "invoke", Node: 4},
		{Action: "set-value", Node: 9, Value: "hello"},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, r := range requests {
		if err := encoder.Encode(r); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range requests {
		var got request
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if got != want {
			t.Errorf("message %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestRawMessageDelaysDecoding(t *testing.T) {
	data, err := Marshal(request{Action: "invoke", Node: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw RawMessage
	if err := Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	var header struct {
		Action string `cbor:"action"`
	}
	if err := Unmarshal(raw, &header); err != nil {
		t.Fatalf("Unmarshal header: %v", err)
	}
	if header.Action != "invoke" {
		t.Errorf("action = %q", header.Action)
	}
}
