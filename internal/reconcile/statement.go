package reconcile

import (
	"fmt"
	"sort"

	"medibill/m/domain"
)

func billReference(sale domain.SaleRecord) string {
	return fmt.Sprintf("BILL-%d", sale.SaleID)
}

// BuildSaleStatement renders the full sale history of one visit or patient
// as a chronological running-balance statement. CREDIT bills post to the
// credit column, settled bills to the debit column, and the running balance
// accumulates the credit column only: it tracks cumulative unpaid exposure,
// not cash position, so debits never reduce it.
func BuildSaleStatement(sales []domain.SaleRecord) domain.Statement {
	ordered := make([]domain.SaleRecord, len(sales))
	copy(ordered, sales)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SaleDate.Before(ordered[j].SaleDate)
	})

	stmt := domain.Statement{Entries: make([]domain.LedgerEntry, 0, len(ordered))}
	for _, sale := range ordered {
		entry := domain.LedgerEntry{
			Date:          sale.SaleDate,
			BillReference: billReference(sale),
		}
		if sale.IsCredit() {
			entry.Credit = sale.TotalAmount
		} else {
			entry.Debit = sale.TotalAmount
		}
		stmt.ClosingBalance = stmt.ClosingBalance.Add(entry.Credit)
		entry.RunningBalance = stmt.ClosingBalance
		stmt.TotalDebit = stmt.TotalDebit.Add(entry.Debit)
		stmt.TotalCredit = stmt.TotalCredit.Add(entry.Credit)
		stmt.Entries = append(stmt.Entries, entry)
	}
	return stmt
}

// BuildCollectionStatement renders the same sale set for the collections
// view: what was actually paid per bill, the discount given, and what each
// bill still contributes to the outstanding balance.
func BuildCollectionStatement(sales []domain.SaleRecord) domain.CollectionStatement {
	ordered := make([]domain.SaleRecord, len(sales))
	copy(ordered, sales)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SaleDate.Before(ordered[j].SaleDate)
	})

	stmt := domain.CollectionStatement{Entries: make([]domain.CollectionEntry, 0, len(ordered))}
	for _, sale := range ordered {
		entry := domain.CollectionEntry{
			Date:          sale.SaleDate,
			BillReference: billReference(sale),
			Discount:      sale.Discount,
		}
		if sale.IsCredit() {
			entry.BalanceDue = sale.TotalAmount
		} else {
			entry.PaidAmount = sale.TotalAmount
		}
		stmt.TotalPaid = stmt.TotalPaid.Add(entry.PaidAmount)
		stmt.TotalDiscount = stmt.TotalDiscount.Add(entry.Discount)
		stmt.TotalBalanceDue = stmt.TotalBalanceDue.Add(entry.BalanceDue)
		stmt.Entries = append(stmt.Entries, entry)
	}
	return stmt
}
