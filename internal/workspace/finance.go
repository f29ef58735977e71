package workspace

import (
	"math"

	"github.com/Tiliavir/nexus/internal/model"
)

// Summary totals a set of transactions. Balance is Income minus Expense.
type Summary struct {
	Income  float64
	Expense float64
	Balance float64
	Count   int
}

// cents converts an amount to integer minor units. Sums are taken in cents so
// the result does not depend on the order of the transactions.
func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

// Balance sums the transactions among items. Other item types are ignored.
func Balance(items []model.Item) Summary {
	var income, expense int64
	count := 0
	for _, it := range items {
		tx, ok := it.Details.(model.Transaction)
		if !ok {
			continue
		}
		count++
		if tx.IsExpense {
			expense += cents(tx.Amount)
		} else {
			income += cents(tx.Amount)
		}
	}
	return Summary{
		Income:  fromCents(income),
		Expense: fromCents(expense),
		Balance: fromCents(income - expense),
		Count:   count,
	}
}

// CategoryTotals returns the expense total per category.
func CategoryTotals(items []model.Item) map[string]float64 {
	sums := map[string]int64{}
	for _, it := range items {
		if tx, ok := it.Details.(model.Transaction); ok && tx.IsExpense {
			sums[tx.Category] += cents(tx.Amount)
		}
	}
	totals := make(map[string]float64, len(sums))
	for c, v := range sums {
		totals[c] = fromCents(v)
	}
	return totals
}

// Balance summarises every cached transaction.
func (w *Workspace) Balance() Summary {
	return Balance(w.Items())
}
