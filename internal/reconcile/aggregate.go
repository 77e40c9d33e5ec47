package reconcile

import (
	"medibill/m/domain"
)

const unknownPatient = "UNKNOWN"

// keyFor picks the aggregation key for a sale: the visit id when the sale
// belongs to a tracked visit, otherwise a per-sale walk-in key.
func keyFor(sale domain.SaleRecord) domain.VisitKey {
	if sale.VisitID != nil && *sale.VisitID != "" {
		return domain.VisitKeyForVisit(*sale.VisitID)
	}
	patientID := unknownPatient
	if sale.PatientID != nil && *sale.PatientID != "" {
		patientID = *sale.PatientID
	}
	return domain.VisitKeyForWalkIn(patientID, sale.SaleID)
}

// AggregateSales groups sales into visit ledgers, preserving first-seen
// order. The bucket order produced here is the order the payment matcher
// scans for legacy payments, so it must be stable for a given input order.
// Every sale lands in exactly one bucket and no bucket is created empty.
func AggregateSales(sales []domain.SaleRecord) []*domain.VisitLedger {
	ledgers := make([]*domain.VisitLedger, 0, len(sales))
	index := make(map[domain.VisitKey]int, len(sales))

	for _, sale := range sales {
		key := keyFor(sale)
		i, ok := index[key]
		if !ok {
			patientID := unknownPatient
			if sale.PatientID != nil && *sale.PatientID != "" {
				patientID = *sale.PatientID
			}
			ledger := &domain.VisitLedger{
				Key:         key,
				VisitID:     sale.VisitID,
				PatientID:   patientID,
				PatientName: sale.PatientName,
			}
			i = len(ledgers)
			ledgers = append(ledgers, ledger)
			index[key] = i
		}
		ledger := ledgers[i]
		ledger.Sales = append(ledger.Sales, sale)
		ledger.CreditTotal = ledger.CreditTotal.Add(sale.TotalAmount)
	}
	return ledgers
}

// cloneLedgers copies the ledger structs so each pass returns a fresh
// collection instead of mutating its input. Sale records are immutable and
// may be shared.
func cloneLedgers(ledgers []*domain.VisitLedger) []*domain.VisitLedger {
	out := make([]*domain.VisitLedger, len(ledgers))
	for i, ledger := range ledgers {
		copied := *ledger
		out[i] = &copied
	}
	return out
}
