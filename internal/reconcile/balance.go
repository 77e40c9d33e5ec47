package reconcile

import (
	"sort"

	"medibill/m/domain"
)

// ComputeBalances recomputes every ledger balance from the identity
// credit - paid - returns and returns a new ledger collection. The balance
// is never carried over from a previous pass.
func ComputeBalances(ledgers []*domain.VisitLedger) []*domain.VisitLedger {
	out := cloneLedgers(ledgers)
	for _, ledger := range out {
		ledger.Balance = ledger.CreditTotal.Sub(ledger.PaidTotal).Sub(ledger.ReturnTotal)
	}
	return out
}

// Outstanding filters to ledgers still owing money and orders them largest
// balance first. The sort is stable so equal balances keep bucket creation
// order.
func Outstanding(ledgers []*domain.VisitLedger) []*domain.VisitLedger {
	out := make([]*domain.VisitLedger, 0, len(ledgers))
	for _, ledger := range ledgers {
		if ledger.Balance.IsPositive() {
			out = append(out, ledger)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Balance.GreaterThan(out[j].Balance)
	})
	return out
}
