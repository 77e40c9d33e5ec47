package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one row of the chronological sale statement. Debit holds the
// paid amount for settled bills, Credit the amount still owed for CREDIT
// bills; RunningBalance accumulates the Credit column only.
type LedgerEntry struct {
	Date           time.Time       `json:"date"`
	BillReference  string          `json:"bill_reference"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Statement is a sale statement with its totals row.
type Statement struct {
	Entries        []LedgerEntry   `json:"entries"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// CollectionEntry is one row of the payment/collections statement.
type CollectionEntry struct {
	Date          time.Time       `json:"date"`
	BillReference string          `json:"bill_reference"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Discount      decimal.Decimal `json:"discount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// CollectionStatement is a payment/collections statement with column totals.
type CollectionStatement struct {
	Entries         []CollectionEntry `json:"entries"`
	TotalPaid       decimal.Decimal   `json:"total_paid"`
	TotalDiscount   decimal.Decimal   `json:"total_discount"`
	TotalBalanceDue decimal.Decimal   `json:"total_balance_due"`
}
