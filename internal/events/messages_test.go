package events

import (
	"strings"
	"testing"
)

func TestLedgerChangeMessageRoundTrip(t *testing.T) {
	msg := NewLedgerChangeMessage("add", "1709290000000_42", 3)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	got, err := LedgerChangeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if got.Op != "add" || got.TransactionID != msg.TransactionID || got.Count != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp lost")
	}
}

func TestLedgerChangeMessageOmitsEmptyID(t *testing.T) {
	data, err := NewLedgerChangeMessage("clear", "", 0).ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	if strings.Contains(string(data), "transaction_id") {
		t.Fatalf("empty id serialized: %s", data)
	}
}

func TestLedgerChangeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LedgerChangeMessageFromJSON([]byte("{oops")); err == nil {
		t.Fatalf("expected error")
	}
}
