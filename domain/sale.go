package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment method tags used on sales and credit payments.
const (
	MethodCredit = "CREDIT"
	MethodCash   = "CASH"
	MethodCard   = "CARD"
	MethodUPI    = "UPI"
)

// SaleRecord is one billed transaction. Sales are immutable once created;
// an operator delete cascades to the line items at the store layer.
type SaleRecord struct {
	SaleID        int64           `db:"id" json:"sale_id"`
	HospitalID    int64           `db:"hospital_id" json:"hospital_id"`
	VisitID       *string         `db:"visit_id" json:"visit_id,omitempty"`
	PatientID     *string         `db:"patient_code" json:"patient_id,omitempty"`
	PatientName   string          `db:"patient_name" json:"patient_name"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	SaleDate      time.Time       `db:"sale_date" json:"sale_date"`
}

// IsCredit reports whether the sale was billed-but-unpaid at time of sale.
func (s SaleRecord) IsCredit() bool {
	return s.PaymentMethod == MethodCredit
}

type SaleItem struct {
	ID        int64           `db:"id" json:"id"`
	SaleID    int64           `db:"sale_id" json:"sale_id"`
	ItemName  string          `db:"item_name" json:"item_name"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
}
