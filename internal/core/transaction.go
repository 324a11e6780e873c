package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// DefaultCategory is assigned when a transaction carries no category label.
const DefaultCategory = "Other"

type (
	// Type discriminates income from expense. The sign of an amount is
	// implied by the type and never encoded in the stored value.
	Type string

	// Transaction is a single ledger record. Immutable once created;
	// the only lifecycle operations are append and delete.
	Transaction struct {
		ID       string `json:"id"`
		Type     Type   `json:"type"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
		Note     string `json:"note"`
		Date     string `json:"date"`
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// Categories is the conventional suggestion set offered by clients.
// The label itself is free-form; nothing in the ledger enforces membership.
var Categories = []string{
	"Groceries",
	"Fuel",
	"Salary",
	"Shopping",
	"Entertainment",
	"Bills",
	"Children",
	"Other",
}

// Currencies lists the supported display currency labels.
var Currencies = []string{"USD", "PKR", "EUR", "GBP"}

func (t Type) IsValid() bool {
	return t == Income || t == Expense
}

// Validate checks the fields a caller controls. ID is deliberately not
// checked here: the ledger assigns it at insertion time.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.Date != "" {
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// CategoryOrDefault returns the category label, falling back to
// DefaultCategory when the label is empty or blank.
func (t Transaction) CategoryOrDefault() string {
	if strings.TrimSpace(t.Category) == "" {
		return DefaultCategory
	}
	return t.Category
}
