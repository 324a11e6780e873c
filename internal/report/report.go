// Package report computes derived views over a ledger snapshot:
// totals, a date-bucketed index and a category breakdown. Everything
// here is a pure function of its inputs; no view is ever stored.
package report

import (
	"time"

	"kharcha/internal/core"
)

// Totals is the balance summary for a snapshot. Last is the final
// element by append order, which may not be the most recent by date;
// that is the documented "last transaction" behavior, not a bug.
type Totals struct {
	Income     core.Money
	Expense    core.Money
	Balance    core.Money
	UsageRatio float64
	Last       *core.Transaction
}

// ComputeTotals folds the snapshot into income, expense, balance and
// the expense/income usage ratio (clamped to 1, zero when no income).
func ComputeTotals(snapshot []core.Transaction) Totals {
	var t Totals
	for _, tx := range snapshot {
		switch tx.Type {
		case core.Income:
			t.Income.Cents += tx.Amount.Cents
		case core.Expense:
			t.Expense.Cents += tx.Amount.Cents
		}
	}
	t.Balance.Cents = t.Income.Cents - t.Expense.Cents
	if t.Income.Cents > 0 {
		ratio := float64(t.Expense.Cents) / float64(t.Income.Cents)
		if ratio > 1 {
			ratio = 1
		}
		t.UsageRatio = ratio
	}
	if n := len(snapshot); n > 0 {
		last := snapshot[n-1]
		t.Last = &last
	}
	return t
}

// ByDate buckets the snapshot by calendar date. Records without a date
// (possible only for legacy persisted data; Add stamps every new
// record) fall into "today" in loc at computation time.
func ByDate(snapshot []core.Transaction, now time.Time, loc *time.Location) map[string][]core.Transaction {
	out := make(map[string][]core.Transaction)
	today := ""
	for _, tx := range snapshot {
		d := tx.Date
		if len(d) > len(core.DateLayout) {
			d = d[:len(core.DateLayout)]
		}
		if d == "" {
			if today == "" {
				today = core.Today(now, loc)
			}
			d = today
		}
		out[d] = append(out[d], tx)
	}
	return out
}

// ByCategory sums expense amounts per category label. Income never
// appears; uncategorized expenses land under the default label.
func ByCategory(snapshot []core.Transaction) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, tx := range snapshot {
		if tx.Type != core.Expense {
			continue
		}
		c := tx.CategoryOrDefault()
		sum := out[c]
		sum.Cents += tx.Amount.Cents
		out[c] = sum
	}
	return out
}
