// Package reconcile derives authoritative outstanding balances and
// chronological statements from three independent streams of billing events:
// credit sales, payments received and merchandise returns. Everything in
// this package is a pure transform over an immutable snapshot; it performs
// no I/O and holds no state, so a refresh is always a full recompute and
// concurrent callers are safe by construction.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"medibill/m/domain"
)

// Snapshot is one consistent read of the three event streams for a billing
// scope. A stream the store failed to produce is simply left empty; the
// pipeline still yields a best-effort view.
type Snapshot struct {
	Sales    []domain.SaleRecord
	Payments []domain.PaymentRecord
	Returns  []domain.ReturnRecord
}

// WithPayment returns a copy of the snapshot with one more payment appended.
// Re-running Reconcile on the result is how callers patch a ledger after a
// successful write, so the optimistic path and the refetched path agree.
func (s Snapshot) WithPayment(p domain.PaymentRecord) Snapshot {
	payments := make([]domain.PaymentRecord, 0, len(s.Payments)+1)
	payments = append(payments, s.Payments...)
	payments = append(payments, p)
	return Snapshot{Sales: s.Sales, Payments: payments, Returns: s.Returns}
}

// Reconcile runs the full pipeline over a snapshot: group credit sales into
// visit buckets, attribute payments and returns, compute balances, then
// filter and order for the outstanding view. Deterministic and idempotent
// for a given snapshot.
func Reconcile(snap Snapshot) []*domain.VisitLedger {
	credit := make([]domain.SaleRecord, 0, len(snap.Sales))
	for _, sale := range snap.Sales {
		if sale.IsCredit() {
			credit = append(credit, sale)
		}
	}
	ledgers := AggregateSales(credit)
	ledgers = ApplyPayments(ledgers, snap.Payments)
	ledgers = ApplyReturns(ledgers, snap.Returns)
	ledgers = ComputeBalances(ledgers)
	return Outstanding(ledgers)
}

// FindLedger locates the ledger for a visit id, or the first ledger for a
// patient id when the visit id is empty. Returns nil when nothing matches.
func FindLedger(ledgers []*domain.VisitLedger, visitID, patientID string) *domain.VisitLedger {
	if visitID != "" {
		for _, ledger := range ledgers {
			if ledger.Key.IsVisit() && ledger.Key.VisitID() == visitID {
				return ledger
			}
		}
		return nil
	}
	for _, ledger := range ledgers {
		if ledger.PatientID == patientID {
			return ledger
		}
	}
	return nil
}

// ValidationError blocks a payment write before it is attempted. It is
// local and non-retryable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidatePayment gates AppendPayment: the amount must be positive and must
// not exceed the outstanding balance of the target ledger.
func ValidatePayment(amount, balance decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if amount.GreaterThan(balance) {
		return &ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("exceeds outstanding balance %s", balance.StringFixed(2)),
		}
	}
	return nil
}
