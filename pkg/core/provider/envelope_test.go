package provider

import (
	"reflect"
	"testing"
)

func TestDecode_KnownEnvelopes(t *testing.T) {
	inner := []any{map[string]any{"symbol": "PETR4.SA"}}

	cases := []struct {
		key  string
		kind Kind
	}{
		{"results", KindResults},
		{"stocks", KindStocks},
		{"currency", KindCurrency},
		{"inflation", KindInflation},
		{"prime-rate", KindPrimeRate},
		{"coins", KindCoins},
	}
	for _, c := range cases {
		p := Decode(map[string]any{c.key: inner})
		if p.Kind != c.kind {
			t.Errorf("key %q decoded to %v, want %v", c.key, p.Kind, c.kind)
		}
		if !reflect.DeepEqual(p.Value, inner) {
			t.Errorf("key %q: inner value not extracted", c.key)
		}
	}
}

func TestDecode_UnknownObjectPassesThrough(t *testing.T) {
	raw := map[string]any{"unrelated": float64(1)}
	p := Decode(raw)
	if p.Kind != KindUnknown {
		t.Errorf("kind = %v, want KindUnknown", p.Kind)
	}
	if !reflect.DeepEqual(p.Value, raw) {
		t.Error("unknown object should pass through unchanged")
	}
}

func TestDecode_NonObjectPassesThrough(t *testing.T) {
	for _, raw := range []any{nil, []any{1.0, 2.0}, "plain", 42.0} {
		p := Decode(raw)
		if p.Kind != KindUnknown {
			t.Errorf("Decode(%v).Kind = %v, want KindUnknown", raw, p.Kind)
		}
		if !reflect.DeepEqual(p.Value, raw) {
			t.Errorf("Decode(%v) altered the value", raw)
		}
	}
}

func TestDecode_PriorityOrder(t *testing.T) {
	// A payload carrying two known keys resolves by decode-table order.
	raw := map[string]any{
		"stocks":  "second",
		"results": "first",
	}
	p := Decode(raw)
	if p.Kind != KindResults || p.Value != "first" {
		t.Errorf("got %v/%v, want results envelope to win", p.Kind, p.Value)
	}
}
