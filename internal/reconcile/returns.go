package reconcile

import (
	"medibill/m/domain"
)

// ApplyReturns assigns each refund to the ledger whose sales contain the
// refund's originating sale and returns a new ledger collection. A return
// whose original sale is unknown contributes to no ledger.
func ApplyReturns(ledgers []*domain.VisitLedger, returns []domain.ReturnRecord) []*domain.VisitLedger {
	out := cloneLedgers(ledgers)

	bySale := make(map[int64]*domain.VisitLedger)
	for _, ledger := range out {
		for _, sale := range ledger.Sales {
			bySale[sale.SaleID] = ledger
		}
	}

	for _, ret := range returns {
		if ledger, ok := bySale[ret.OriginalSaleID]; ok {
			ledger.ReturnTotal = ledger.ReturnTotal.Add(ret.NetRefund)
		}
	}
	return out
}
