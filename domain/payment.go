package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one payment applied against outstanding credit.
// Records created before visit-level tracking existed carry no VisitID
// and are attributed by the legacy fallback in the reconcile package.
type PaymentRecord struct {
	ID               int64           `db:"id" json:"id"`
	HospitalID       int64           `db:"hospital_id" json:"hospital_id"`
	PatientID        string          `db:"patient_code" json:"patient_id"`
	VisitID          *string         `db:"visit_id" json:"visit_id,omitempty"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod    string          `db:"payment_method" json:"payment_method"`
	PaymentReference *string         `db:"payment_reference" json:"payment_reference,omitempty"`
	PaymentDate      time.Time       `db:"payment_date" json:"payment_date"`
	ReceivedBy       string          `db:"received_by" json:"received_by"`
}

// IsLegacy reports whether the payment predates visit-level attribution.
func (p PaymentRecord) IsLegacy() bool {
	return p.VisitID == nil || *p.VisitID == ""
}
