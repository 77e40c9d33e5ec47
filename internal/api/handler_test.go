package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibill/m/domain"
	"medibill/m/internal/store"
)

type mockLedgerStore struct {
	creditSales []domain.SaleRecord
	allSales    []domain.SaleRecord
	payments    []domain.PaymentRecord
	returns     []domain.ReturnRecord
	patients    map[string]int64

	creditSalesErr error
	paymentsErr    error
	returnsErr     error
	appendErr      error

	appended []domain.PaymentRecord
}

func (m *mockLedgerStore) FetchCreditSales(ctx context.Context, hospitalID int64) ([]domain.SaleRecord, error) {
	if m.creditSalesErr != nil {
		return nil, m.creditSalesErr
	}
	return m.creditSales, nil
}

func (m *mockLedgerStore) FetchAllSales(ctx context.Context, hospitalID int64, visitID, patientCode string) ([]domain.SaleRecord, error) {
	out := []domain.SaleRecord{}
	for _, sale := range m.allSales {
		switch {
		case visitID != "" && sale.VisitID != nil && *sale.VisitID == visitID:
			out = append(out, sale)
		case visitID == "" && sale.PatientID != nil && *sale.PatientID == patientCode:
			out = append(out, sale)
		}
	}
	return out, nil
}

func (m *mockLedgerStore) FetchPayments(ctx context.Context, hospitalID int64) ([]domain.PaymentRecord, error) {
	if m.paymentsErr != nil {
		return nil, m.paymentsErr
	}
	return m.payments, nil
}

func (m *mockLedgerStore) FetchReturns(ctx context.Context, hospitalID int64) ([]domain.ReturnRecord, error) {
	if m.returnsErr != nil {
		return nil, m.returnsErr
	}
	return m.returns, nil
}

func (m *mockLedgerStore) ResolvePatientKey(ctx context.Context, hospitalID int64, externalCode string) (int64, error) {
	if id, ok := m.patients[externalCode]; ok {
		return id, nil
	}
	return 0, store.ErrNotFound
}

func (m *mockLedgerStore) AppendPayment(ctx context.Context, payment *domain.PaymentRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	payment.ID = int64(len(m.appended) + 1)
	m.appended = append(m.appended, *payment)
	return nil
}

func (m *mockLedgerStore) DeleteSale(ctx context.Context, hospitalID, saleID int64) error {
	for _, sale := range m.allSales {
		if sale.SaleID == saleID {
			return nil
		}
	}
	return store.ErrNotFound
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func testSale(id int64, visitID, patientID, amount, method string) domain.SaleRecord {
	sale := domain.SaleRecord{
		SaleID:        id,
		HospitalID:    1,
		PatientName:   "Patient " + patientID,
		TotalAmount:   dec(amount),
		PaymentMethod: method,
		SaleDate:      time.Date(2024, 3, int(id), 10, 0, 0, 0, time.UTC),
	}
	if visitID != "" {
		sale.VisitID = strPtr(visitID)
	}
	if patientID != "" {
		sale.PatientID = strPtr(patientID)
	}
	return sale
}

func newTestHandler(t *testing.T, mock *mockLedgerStore) (*Handler, string) {
	t.Helper()
	h := New(nil, mock, "test_secret")
	token, err := h.generateToken(1, "cashier1", "cashier", 1)
	require.NoError(t, err)
	return h, token
}

func doRequest(h *Handler, token, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func TestOutstanding_RequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t, &mockLedgerStore{})
	rec := doRequest(h, "", http.MethodGet, "/billing/outstanding", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOutstanding_SortedByBalanceDescending(t *testing.T) {
	mock := &mockLedgerStore{
		creditSales: []domain.SaleRecord{
			testSale(1, "V1", "P1", "100", domain.MethodCredit),
			testSale(2, "V2", "P2", "900", domain.MethodCredit),
		},
	}
	h, token := newTestHandler(t, mock)

	rec := doRequest(h, token, http.MethodGet, "/billing/outstanding", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ledgers []struct {
			VisitID string          `json:"visit_id"`
			Balance decimal.Decimal `json:"balance"`
		} `json:"ledgers"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Ledgers, 2)
	assert.Equal(t, "V2", resp.Ledgers[0].VisitID)
	assert.Equal(t, "V1", resp.Ledgers[1].VisitID)
	assert.Empty(t, resp.Warnings)
}

func TestOutstanding_DegradedStreamStillServes(t *testing.T) {
	mock := &mockLedgerStore{
		creditSales: []domain.SaleRecord{
			testSale(1, "V1", "P1", "500", domain.MethodCredit),
		},
		returnsErr: errors.New("connection refused"),
	}
	h, token := newTestHandler(t, mock)

	rec := doRequest(h, token, http.MethodGet, "/billing/outstanding", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ledgers []struct {
			ReturnTotal decimal.Decimal `json:"return_total"`
			Balance     decimal.Decimal `json:"balance"`
		} `json:"ledgers"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Ledgers, 1)
	assert.True(t, resp.Ledgers[0].ReturnTotal.IsZero())
	assert.True(t, dec("500").Equal(resp.Ledgers[0].Balance))
	assert.Equal(t, []string{"returns unavailable"}, resp.Warnings)
}

func TestStatement_SaleMode(t *testing.T) {
	mock := &mockLedgerStore{
		allSales: []domain.SaleRecord{
			testSale(1, "V1", "P1", "200", domain.MethodCash),
			testSale(2, "V1", "P1", "500", domain.MethodCredit),
			testSale(3, "V1", "P1", "300", domain.MethodCredit),
		},
	}
	h, token := newTestHandler(t, mock)

	rec := doRequest(h, token, http.MethodGet, "/billing/statement?visit_id=V1&mode=sale", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stmt struct {
		Entries []struct {
			RunningBalance decimal.Decimal `json:"running_balance"`
		} `json:"entries"`
		TotalDebit     decimal.Decimal `json:"total_debit"`
		TotalCredit    decimal.Decimal `json:"total_credit"`
		ClosingBalance decimal.Decimal `json:"closing_balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stmt))
	require.Len(t, stmt.Entries, 3)
	assert.True(t, stmt.Entries[0].RunningBalance.IsZero())
	assert.True(t, dec("500").Equal(stmt.Entries[1].RunningBalance))
	assert.True(t, dec("800").Equal(stmt.Entries[2].RunningBalance))
	assert.True(t, dec("200").Equal(stmt.TotalDebit))
	assert.True(t, dec("800").Equal(stmt.TotalCredit))
	assert.True(t, dec("800").Equal(stmt.ClosingBalance))
}

func TestStatement_RequiresKey(t *testing.T) {
	h, token := newTestHandler(t, &mockLedgerStore{})
	rec := doRequest(h, token, http.MethodGet, "/billing/statement", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceivePayment_HappyPath(t *testing.T) {
	mock := &mockLedgerStore{
		creditSales: []domain.SaleRecord{
			testSale(1, "V1", "P1", "500", domain.MethodCredit),
			testSale(2, "V1", "P1", "300", domain.MethodCredit),
		},
		patients: map[string]int64{"P1": 42},
	}
	h, token := newTestHandler(t, mock)

	body, _ := json.Marshal(map[string]any{
		"patient_id":     "P1",
		"visit_id":       "V1",
		"amount":         "400",
		"payment_method": "CASH",
	})
	rec := doRequest(h, token, http.MethodPost, "/billing/payments", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, mock.appended, 1)
	assert.Equal(t, "cashier1", mock.appended[0].ReceivedBy)
	assert.NotNil(t, mock.appended[0].PaymentReference)

	var resp struct {
		AmountInWords string `json:"amount_in_words"`
		Ledger        struct {
			Balance decimal.Decimal `json:"balance"`
		} `json:"ledger"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Four Hundred Only", resp.AmountInWords)
	assert.True(t, dec("400").Equal(resp.Ledger.Balance), "optimistic recompute must reflect the new payment")
}

func TestReceivePayment_RejectsOverpayment(t *testing.T) {
	mock := &mockLedgerStore{
		creditSales: []domain.SaleRecord{
			testSale(1, "V1", "P1", "500", domain.MethodCredit),
		},
		patients: map[string]int64{"P1": 42},
	}
	h, token := newTestHandler(t, mock)

	body, _ := json.Marshal(map[string]any{
		"patient_id":     "P1",
		"visit_id":       "V1",
		"amount":         "500.01",
		"payment_method": "UPI",
	})
	rec := doRequest(h, token, http.MethodPost, "/billing/payments", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, mock.appended, "validation failures must block the write")
}

func TestReceivePayment_RejectsUnknownPatient(t *testing.T) {
	h, token := newTestHandler(t, &mockLedgerStore{patients: map[string]int64{}})
	body, _ := json.Marshal(map[string]any{
		"patient_id":     "NOPE",
		"amount":         "10",
		"payment_method": "CASH",
	})
	rec := doRequest(h, token, http.MethodPost, "/billing/payments", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceivePayment_WriteFailurePropagates(t *testing.T) {
	mock := &mockLedgerStore{
		creditSales: []domain.SaleRecord{
			testSale(1, "V1", "P1", "500", domain.MethodCredit),
		},
		patients:  map[string]int64{"P1": 42},
		appendErr: errors.New("constraint violation"),
	}
	h, token := newTestHandler(t, mock)

	body, _ := json.Marshal(map[string]any{
		"patient_id":     "P1",
		"visit_id":       "V1",
		"amount":         "100",
		"payment_method": "CARD",
	})
	rec := doRequest(h, token, http.MethodPost, "/billing/payments", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, mock.appended)
}

func TestDeleteSale_AdminOnly(t *testing.T) {
	mock := &mockLedgerStore{
		allSales: []domain.SaleRecord{testSale(1, "V1", "P1", "500", domain.MethodCredit)},
	}
	h, cashierToken := newTestHandler(t, mock)

	rec := doRequest(h, cashierToken, http.MethodDelete, "/billing/sales/1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := h.generateToken(2, "admin1", "admin", 1)
	require.NoError(t, err)
	rec = doRequest(h, adminToken, http.MethodDelete, "/billing/sales/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(h, adminToken, http.MethodDelete, "/billing/sales/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
