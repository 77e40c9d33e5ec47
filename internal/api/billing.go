package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"medibill/m/domain"
	"medibill/m/internal/reconcile"
	"medibill/m/internal/store"
)

// fetchSnapshot reads the three event streams for the hospital. A stream the
// store cannot produce degrades to an empty slice with a warning instead of
// failing the whole view.
func (h *Handler) fetchSnapshot(ctx context.Context, hospitalID int64) (reconcile.Snapshot, []string) {
	var (
		snap     reconcile.Snapshot
		warnings []string
	)

	sales, err := h.ledger.FetchCreditSales(ctx, hospitalID)
	if err != nil {
		log.Printf("credit sales unavailable for hospital %d: %v", hospitalID, err)
		warnings = append(warnings, "credit sales unavailable")
	}
	snap.Sales = sales

	payments, err := h.ledger.FetchPayments(ctx, hospitalID)
	if err != nil {
		log.Printf("payments unavailable for hospital %d: %v", hospitalID, err)
		warnings = append(warnings, "payments unavailable")
	}
	snap.Payments = payments

	returns, err := h.ledger.FetchReturns(ctx, hospitalID)
	if err != nil {
		log.Printf("returns unavailable for hospital %d: %v", hospitalID, err)
		warnings = append(warnings, "returns unavailable")
	}
	snap.Returns = returns

	return snap, warnings
}

type outstandingResponse struct {
	Ledgers  []*domain.VisitLedger `json:"ledgers"`
	Warnings []string              `json:"warnings,omitempty"`
}

func (h *Handler) outstandingLedgers(w http.ResponseWriter, r *http.Request) {
	hospitalID := hospitalIDFromContext(r)
	if hospitalID <= 0 {
		respondError(w, http.StatusForbidden, "invalid hospital context")
		return
	}

	snap, warnings := h.fetchSnapshot(r.Context(), hospitalID)
	ledgers := reconcile.Reconcile(snap)
	respondJSON(w, http.StatusOK, outstandingResponse{Ledgers: ledgers, Warnings: warnings})
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	hospitalID := hospitalIDFromContext(r)
	if hospitalID <= 0 {
		respondError(w, http.StatusForbidden, "invalid hospital context")
		return
	}

	visitID := strings.TrimSpace(r.URL.Query().Get("visit_id"))
	patientID := strings.TrimSpace(r.URL.Query().Get("patient_id"))
	if visitID == "" && patientID == "" {
		respondError(w, http.StatusBadRequest, "visit_id or patient_id is required")
		return
	}

	mode := strings.TrimSpace(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = "sale"
	}

	sales, err := h.ledger.FetchAllSales(r.Context(), hospitalID, visitID, patientID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load sale history")
		return
	}

	switch mode {
	case "sale":
		respondJSON(w, http.StatusOK, reconcile.BuildSaleStatement(sales))
	case "payment":
		respondJSON(w, http.StatusOK, reconcile.BuildCollectionStatement(sales))
	default:
		respondError(w, http.StatusBadRequest, "mode must be sale or payment")
	}
}

type paymentRequest struct {
	PatientID        string          `json:"patient_id"`
	VisitID          *string         `json:"visit_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
}

type receiptResponse struct {
	Payment       domain.PaymentRecord `json:"payment"`
	AmountInWords string               `json:"amount_in_words"`
	Ledger        *domain.VisitLedger  `json:"ledger,omitempty"`
	Warnings      []string             `json:"warnings,omitempty"`
}

func (h *Handler) receivePayment(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin", "cashier") {
		return
	}
	hospitalID := hospitalIDFromContext(r)
	if hospitalID <= 0 {
		respondError(w, http.StatusForbidden, "invalid hospital context")
		return
	}

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.PatientID == "" {
		respondError(w, http.StatusBadRequest, "patient_id is required")
		return
	}
	switch req.PaymentMethod {
	case domain.MethodCash, domain.MethodCard, domain.MethodUPI:
	default:
		respondError(w, http.StatusBadRequest, "payment_method must be CASH, CARD or UPI")
		return
	}

	if _, err := h.ledger.ResolvePatientKey(r.Context(), hospitalID, req.PatientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusBadRequest, "unknown patient_id")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to resolve patient")
		return
	}

	snap, warnings := h.fetchSnapshot(r.Context(), hospitalID)
	ledgers := reconcile.Reconcile(snap)

	visitID := ""
	if req.VisitID != nil {
		visitID = strings.TrimSpace(*req.VisitID)
	}
	target := reconcile.FindLedger(ledgers, visitID, req.PatientID)
	if target == nil {
		respondError(w, http.StatusBadRequest, "no outstanding ledger for this patient or visit")
		return
	}
	if err := reconcile.ValidatePayment(req.Amount, target.Balance); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reference := uuid.NewString()
	if req.PaymentReference != nil && strings.TrimSpace(*req.PaymentReference) != "" {
		reference = strings.TrimSpace(*req.PaymentReference)
	}
	payment := domain.PaymentRecord{
		HospitalID:       hospitalID,
		PatientID:        req.PatientID,
		VisitID:          req.VisitID,
		Amount:           req.Amount,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: &reference,
		PaymentDate:      time.Now().UTC(),
		ReceivedBy:       usernameFromContext(r),
	}

	// The write must succeed before any local state is patched.
	if err := h.ledger.AppendPayment(r.Context(), &payment); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Patch by re-running the pure pipeline over snapshot+payment, so this
	// view is provably the same one a refetch would produce.
	updated := reconcile.Reconcile(snap.WithPayment(payment))
	respondJSON(w, http.StatusCreated, receiptResponse{
		Payment:       payment,
		AmountInWords: reconcile.AmountInWordsDecimal(payment.Amount) + " Only",
		Ledger:        reconcile.FindLedger(updated, visitID, req.PatientID),
		Warnings:      warnings,
	})
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}
	hospitalID := hospitalIDFromContext(r)
	if hospitalID <= 0 {
		respondError(w, http.StatusForbidden, "invalid hospital context")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	if err := h.ledger.DeleteSale(r.Context(), hospitalID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "sale not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to delete sale")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
