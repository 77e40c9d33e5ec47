package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type visitKeyKind uint8

const (
	keyVisit visitKeyKind = iota
	keyWalkIn
)

// VisitKey identifies the unit of reconciliation. A sale that carries a visit
// id is keyed by that id; a walk-in sale is keyed by patient code plus the
// sale id, so two walk-in sales by the same patient never silently merge.
// The zero value is not a valid key.
type VisitKey struct {
	kind      visitKeyKind
	visitID   string
	patientID string
	saleID    int64
}

// VisitKeyForVisit keys a ledger by a tracked IPD/OPD visit.
func VisitKeyForVisit(visitID string) VisitKey {
	return VisitKey{kind: keyVisit, visitID: visitID}
}

// VisitKeyForWalkIn keys a ledger by a single untracked sale.
func VisitKeyForWalkIn(patientID string, saleID int64) VisitKey {
	return VisitKey{kind: keyWalkIn, patientID: patientID, saleID: saleID}
}

// IsVisit reports whether the key refers to a tracked visit.
func (k VisitKey) IsVisit() bool { return k.kind == keyVisit }

// VisitID returns the tracked visit id, or "" for walk-in keys.
func (k VisitKey) VisitID() string { return k.visitID }

func (k VisitKey) String() string {
	if k.kind == keyVisit {
		return "visit:" + k.visitID
	}
	return fmt.Sprintf("walkin:%s:%d", k.patientID, k.saleID)
}

// VisitLedger is the derived aggregate of one visit's sales, payments and
// returns. It is computed on demand and never persisted; Balance always
// equals CreditTotal - PaidTotal - ReturnTotal.
type VisitLedger struct {
	Key         VisitKey        `json:"-"`
	VisitID     *string         `json:"visit_id,omitempty"`
	PatientID   string          `json:"patient_id"`
	PatientName string          `json:"patient_name"`
	Sales       []SaleRecord    `json:"sales"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	PaidTotal   decimal.Decimal `json:"paid_total"`
	ReturnTotal decimal.Decimal `json:"return_total"`
	Balance     decimal.Decimal `json:"balance"`
}
