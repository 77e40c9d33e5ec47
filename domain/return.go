package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnRecord is a refund against a previously billed sale.
type ReturnRecord struct {
	ID             int64           `db:"id" json:"id"`
	HospitalID     int64           `db:"hospital_id" json:"hospital_id"`
	OriginalSaleID int64           `db:"original_sale_id" json:"original_sale_id"`
	NetRefund      decimal.Decimal `db:"net_refund" json:"net_refund"`
	ReturnDate     time.Time       `db:"return_date" json:"return_date"`
}
