package codec

import (
	"reflect"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestJSONCodec(t *testing.T) {
	c := JSON()
	in := map[string]any{"a": 1, "b": "x"}
	b, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["a"].(float64) != 1 || out["b"].(string) != "x" {
		t.Fatalf("roundtrip mismatch: %#v", out)
	}
}

func TestCBORCodec(t *testing.T) {
	c := CBOR()
	in := map[string]any{"n": 42}
	b, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(out["n"].(uint64)) != 42 { // canonical decode of small positive ints
		t.Fatalf("roundtrip mismatch: %#v", out)
	}
}

func TestCBORRecordRoundTrip(t *testing.T) {
	type record struct {
		ID   int
		Name string
		Tags []string
	}
	c := CBOR()
	in := record{ID: 7, Name: "stage", Tags: []string{"a", "b"}}
	b, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out record
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("roundtrip mismatch: %#v", out)
	}
}

func TestCBORNil(t *testing.T) {
	c := CBOR()
	b, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("marshal nil: %v", err)
	}
	var out any = "sentinel"
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal nil: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil, got %#v", out)
	}
}

func TestProtoCodec(t *testing.T) {
	c := Proto()
	s, err := structpb.NewStruct(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	b, err := c.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out structpb.Struct
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Fields["k"].GetStringValue() != "v" {
		t.Fatalf("roundtrip mismatch")
	}
	if _, err := c.Marshal("not a proto message"); err == nil {
		t.Fatal("expected error for non-proto payload")
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	for _, key := range []string{"cbor", "json", "proto", "application/cbor", "application/json"} {
		if r.Get(key) == nil {
			t.Fatalf("missing codec for %q", key)
		}
	}
	if r.Get("bencode") != nil {
		t.Fatal("unexpected codec for unknown name")
	}
}
