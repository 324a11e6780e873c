package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.344", 1234, true}, // rounds down
		{"12.345", 1235, true}, // rounds half up
		{"100", 10000, true},
		{"0", 0, true},
		{"0.4", 40, true},
		{".5", 50, true},
		{"1e2", 10000, true}, // exponent fallback
		{"", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || m.Cents != tc.cents) {
			t.Fatalf("ParseAmount(%q) = %d, %v; want %d", tc.in, m.Cents, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseAmount(%q) expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{4000, "40"},
		{4050, "40.5"},
		{4005, "40.05"},
		{1234, "12.34"},
		{0, "0"},
		{-60, "-0.6"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSONNumber(t *testing.T) {
	// Amounts travel as bare JSON numbers, never strings.
	b, err := json.Marshal(Money{Cents: 4050})
	if err != nil || string(b) != "40.5" {
		t.Fatalf("marshal = %s, %v", b, err)
	}

	var m Money
	if err := json.Unmarshal([]byte("12.34"), &m); err != nil || m.Cents != 1234 {
		t.Fatalf("unmarshal number = %d, %v", m.Cents, err)
	}
	// Tolerate quoted numbers in hand-edited blobs.
	if err := json.Unmarshal([]byte(`"7.5"`), &m); err != nil || m.Cents != 750 {
		t.Fatalf("unmarshal quoted = %d, %v", m.Cents, err)
	}
	// Negative values decode; Transaction.Validate rejects them later.
	if err := json.Unmarshal([]byte("-5"), &m); err != nil || m.Cents != -500 {
		t.Fatalf("unmarshal negative = %d, %v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"oops"`), &m); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}
