// Package store is the Ledger Store: persistence and querying of the raw
// billing event streams. The reconcile package never touches it directly;
// the API layer fetches a snapshot here and hands it to the pure pipeline.
package store

import (
	"context"
	"errors"

	"medibill/m/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// LedgerStore is the contract the billing handlers consume. Payments are
// append-only; sales are immutable apart from an explicit operator delete.
type LedgerStore interface {
	// FetchCreditSales returns all CREDIT-tagged sales for the hospital,
	// newest first. Callers that care about order re-sort themselves.
	FetchCreditSales(ctx context.Context, hospitalID int64) ([]domain.SaleRecord, error)

	// FetchAllSales returns the full sale history for a statement, any
	// payment method, keyed by visit id or by patient code.
	FetchAllSales(ctx context.Context, hospitalID int64, visitID, patientCode string) ([]domain.SaleRecord, error)

	FetchPayments(ctx context.Context, hospitalID int64) ([]domain.PaymentRecord, error)
	FetchReturns(ctx context.Context, hospitalID int64) ([]domain.ReturnRecord, error)

	// ResolvePatientKey maps the external patient code printed on paper
	// records to the internal patient key.
	ResolvePatientKey(ctx context.Context, hospitalID int64, externalCode string) (int64, error)

	// AppendPayment inserts a single payment and fills in the stored id.
	// There is no update or delete path for payments.
	AppendPayment(ctx context.Context, payment *domain.PaymentRecord) error

	// DeleteSale removes a sale and its line items in one transaction.
	DeleteSale(ctx context.Context, hospitalID, saleID int64) error
}
