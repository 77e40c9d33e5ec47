package reconcile

import (
	"medibill/m/domain"
)

// ApplyPayments distributes payments into ledger paid totals and returns a
// new ledger collection. Attribution rules, in priority order:
//
//  1. A payment tagged with a visit id goes to the bucket with that exact
//     visit id, if one exists.
//  2. A legacy payment (no visit id) goes to the first bucket, in bucket
//     creation order, whose patient id matches the payment's patient id.
//  3. Otherwise the payment contributes to no ledger.
//
// Rule 2 is a best-effort heuristic: a patient with two open visits and one
// legacy payment gets that payment on whichever bucket was built first,
// which may not be the visit the money was collected against. Each payment
// contributes to at most one bucket.
func ApplyPayments(ledgers []*domain.VisitLedger, payments []domain.PaymentRecord) []*domain.VisitLedger {
	out := cloneLedgers(ledgers)

	byVisit := make(map[string]*domain.VisitLedger, len(out))
	for _, ledger := range out {
		if ledger.Key.IsVisit() {
			byVisit[ledger.Key.VisitID()] = ledger
		}
	}

	for _, payment := range payments {
		if !payment.IsLegacy() {
			if ledger, ok := byVisit[*payment.VisitID]; ok {
				ledger.PaidTotal = ledger.PaidTotal.Add(payment.Amount)
			}
			// A visit-tagged payment with no matching bucket is dropped;
			// it must not leak onto another patient ledger.
			continue
		}
		for _, ledger := range out {
			if ledger.PatientID == payment.PatientID {
				ledger.PaidTotal = ledger.PaidTotal.Add(payment.Amount)
				break
			}
		}
	}
	return out
}
