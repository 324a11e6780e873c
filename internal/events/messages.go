package events

import (
	"encoding/json"
	"time"
)

// LedgerChangeMessage announces a completed ledger mutation to external
// consumers. It carries identifiers only; anyone needing record detail
// queries the API.
type LedgerChangeMessage struct {
	Op            string    `json:"op"` // add, delete, clear
	TransactionID string    `json:"transaction_id,omitempty"`
	Count         int       `json:"count"` // ledger length after the change
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerChangeMessage(op, transactionID string, count int) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Op:            op,
		TransactionID: transactionID,
		Count:         count,
		Timestamp:     time.Now(),
	}
}

func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
