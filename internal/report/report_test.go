package report

import (
	"testing"
	"time"

	"kharcha/internal/core"
)

func tx(id string, typ core.Type, cents int64, category, date string) core.Transaction {
	return core.Transaction{ID: id, Type: typ, Amount: core.Money{Cents: cents}, Category: category, Date: date}
}

func TestComputeTotals(t *testing.T) {
	snapshot := []core.Transaction{
		tx("1", core.Income, 10000, "Salary", "2024-03-01"),
		tx("2", core.Expense, 3000, "Groceries", "2024-03-01"),
		tx("3", core.Expense, 1000, "Fuel", "2024-03-02"),
	}

	got := ComputeTotals(snapshot)
	if got.Income.Cents != 10000 || got.Expense.Cents != 4000 {
		t.Fatalf("income/expense = %d/%d", got.Income.Cents, got.Expense.Cents)
	}
	if got.Balance.Cents != 6000 {
		t.Fatalf("balance = %d, want 6000", got.Balance.Cents)
	}
	if got.UsageRatio != 0.4 {
		t.Fatalf("usage = %v, want 0.4", got.UsageRatio)
	}
	if got.Last == nil || got.Last.ID != "3" {
		t.Fatalf("last = %+v, want final element by append order", got.Last)
	}
}

func TestComputeTotalsEdgeCases(t *testing.T) {
	// Empty snapshot.
	got := ComputeTotals(nil)
	if got.Income.Cents != 0 || got.Expense.Cents != 0 || got.Balance.Cents != 0 || got.UsageRatio != 0 {
		t.Fatalf("empty totals = %+v", got)
	}
	if got.Last != nil {
		t.Fatalf("expected nil last for empty snapshot")
	}

	// No income: ratio stays zero even with expenses.
	got = ComputeTotals([]core.Transaction{tx("1", core.Expense, 500, "Fuel", "")})
	if got.UsageRatio != 0 {
		t.Fatalf("usage without income = %v", got.UsageRatio)
	}
	if got.Balance.Cents != -500 {
		t.Fatalf("balance = %d, want -500", got.Balance.Cents)
	}

	// Overspending clamps to 1.
	got = ComputeTotals([]core.Transaction{
		tx("1", core.Income, 100, "Salary", ""),
		tx("2", core.Expense, 300, "Bills", ""),
	})
	if got.UsageRatio != 1 {
		t.Fatalf("usage = %v, want clamped 1", got.UsageRatio)
	}
}

func TestComputeTotalsLastIgnoresDates(t *testing.T) {
	// Append order wins even when an earlier element has a later date.
	snapshot := []core.Transaction{
		tx("new", core.Income, 1, "Salary", "2024-12-31"),
		tx("old", core.Expense, 1, "Fuel", "2020-01-01"),
	}
	got := ComputeTotals(snapshot)
	if got.Last == nil || got.Last.ID != "old" {
		t.Fatalf("last = %+v, want append-order tail", got.Last)
	}
}

func TestByDate(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	snapshot := []core.Transaction{
		tx("1", core.Expense, 100, "Fuel", "2024-03-01"),
		tx("2", core.Income, 200, "Salary", "2024-03-01"),
		tx("3", core.Expense, 300, "Bills", "2024-03-02"),
		tx("4", core.Expense, 400, "Other", ""),                     // legacy, no date
		tx("5", core.Expense, 500, "Other", "2024-03-02T10:00:00Z"), // timestamp gets truncated
	}

	got := ByDate(snapshot, now, time.UTC)
	if len(got["2024-03-01"]) != 2 {
		t.Fatalf("2024-03-01 = %d entries, want 2", len(got["2024-03-01"]))
	}
	if len(got["2024-03-02"]) != 2 {
		t.Fatalf("2024-03-02 = %d entries, want 2 (truncated timestamp included)", len(got["2024-03-02"]))
	}
	if len(got["2024-03-05"]) != 1 || got["2024-03-05"][0].ID != "4" {
		t.Fatalf("dateless record must land on today: %+v", got["2024-03-05"])
	}
	// Within a bucket, append order is preserved.
	if got["2024-03-01"][0].ID != "1" || got["2024-03-01"][1].ID != "2" {
		t.Fatalf("bucket order broken: %+v", got["2024-03-01"])
	}
}

func TestByCategory(t *testing.T) {
	snapshot := []core.Transaction{
		tx("1", core.Expense, 3000, "Groceries", ""),
		tx("2", core.Expense, 2000, "Groceries", ""),
		tx("3", core.Expense, 1000, "Fuel", ""),
		tx("4", core.Income, 99999, "Salary", ""), // income excluded
		tx("5", core.Expense, 500, "", ""),        // lands on the default label
	}

	got := ByCategory(snapshot)
	if got["Groceries"].Cents != 5000 {
		t.Fatalf("Groceries = %d, want 5000", got["Groceries"].Cents)
	}
	if got["Fuel"].Cents != 1000 {
		t.Fatalf("Fuel = %d", got["Fuel"].Cents)
	}
	if got[core.DefaultCategory].Cents != 500 {
		t.Fatalf("default bucket = %d", got[core.DefaultCategory].Cents)
	}
	if _, ok := got["Salary"]; ok {
		t.Fatalf("income leaked into category breakdown")
	}
	if len(got) != 3 {
		t.Fatalf("categories = %d, want 3", len(got))
	}
}
