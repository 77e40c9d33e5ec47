package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medibill/m/domain"
)

// PostgresStore implements LedgerStore over the hospital billing schema.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const saleColumns = `id, hospital_id, visit_id, patient_code, patient_name, total_amount, discount, payment_method, sale_date`

func (s *PostgresStore) FetchCreditSales(ctx context.Context, hospitalID int64) ([]domain.SaleRecord, error) {
	sales := []domain.SaleRecord{}
	query := `SELECT ` + saleColumns + ` FROM sales WHERE hospital_id = $1 AND payment_method = $2 ORDER BY sale_date DESC, id DESC`
	if err := s.db.SelectContext(ctx, &sales, query, hospitalID, domain.MethodCredit); err != nil {
		return nil, fmt.Errorf("fetch credit sales: %w", err)
	}
	return sales, nil
}

func (s *PostgresStore) FetchAllSales(ctx context.Context, hospitalID int64, visitID, patientCode string) ([]domain.SaleRecord, error) {
	sales := []domain.SaleRecord{}
	var (
		query string
		arg   string
	)
	switch {
	case visitID != "":
		query = `SELECT ` + saleColumns + ` FROM sales WHERE hospital_id = $1 AND visit_id = $2 ORDER BY sale_date ASC, id ASC`
		arg = visitID
	case patientCode != "":
		query = `SELECT ` + saleColumns + ` FROM sales WHERE hospital_id = $1 AND patient_code = $2 ORDER BY sale_date ASC, id ASC`
		arg = patientCode
	default:
		return nil, errors.New("fetch all sales: visit id or patient code required")
	}
	if err := s.db.SelectContext(ctx, &sales, query, hospitalID, arg); err != nil {
		return nil, fmt.Errorf("fetch all sales: %w", err)
	}
	return sales, nil
}

func (s *PostgresStore) FetchPayments(ctx context.Context, hospitalID int64) ([]domain.PaymentRecord, error) {
	payments := []domain.PaymentRecord{}
	query := `SELECT id, hospital_id, patient_code, visit_id, amount, payment_method, payment_reference, payment_date, received_by
	          FROM credit_payments WHERE hospital_id = $1 ORDER BY payment_date ASC, id ASC`
	if err := s.db.SelectContext(ctx, &payments, query, hospitalID); err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}
	return payments, nil
}

func (s *PostgresStore) FetchReturns(ctx context.Context, hospitalID int64) ([]domain.ReturnRecord, error) {
	returns := []domain.ReturnRecord{}
	query := `SELECT id, hospital_id, original_sale_id, net_refund, return_date
	          FROM sales_returns WHERE hospital_id = $1 ORDER BY return_date ASC, id ASC`
	if err := s.db.SelectContext(ctx, &returns, query, hospitalID); err != nil {
		return nil, fmt.Errorf("fetch returns: %w", err)
	}
	return returns, nil
}

func (s *PostgresStore) ResolvePatientKey(ctx context.Context, hospitalID int64, externalCode string) (int64, error) {
	var id int64
	query := `SELECT id FROM patients WHERE hospital_id = $1 AND patient_code = $2`
	if err := s.db.GetContext(ctx, &id, query, hospitalID, externalCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("resolve patient key: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) AppendPayment(ctx context.Context, payment *domain.PaymentRecord) error {
	query := `INSERT INTO credit_payments (hospital_id, patient_code, visit_id, amount, payment_method, payment_reference, payment_date, received_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := s.db.QueryRowxContext(ctx, query,
		payment.HospitalID, payment.PatientID, payment.VisitID, payment.Amount,
		payment.PaymentMethod, payment.PaymentReference, payment.PaymentDate, payment.ReceivedBy,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("append payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteSale(ctx context.Context, hospitalID, saleID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = $1 AND hospital_id = $2`, saleID, hospitalID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
