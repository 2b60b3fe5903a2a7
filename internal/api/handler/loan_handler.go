package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/api/middleware"
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// Checkout handles POST /checkout
//
// @Summary Buy now, pay later
// @Description Opens an order and a loan for the caller at a merchant, splits it into installments per the caller's repayment preference and reserves the amount against their available credit.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Merchant and amount"
// @Success 201 {object} dto.CheckoutResponse "Loan originated"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or payload"
// @Failure 402 {object} dto.ErrorResponse "Insufficient credit"
// @Failure 403 {object} dto.ErrorResponse "Customer suspended"
// @Failure 404 {object} dto.ErrorResponse "Customer or merchant not found"
// @Failure 422 {object} dto.ErrorResponse "Merchant not accepting orders"
// @Failure 503 {object} dto.ErrorResponse "Ledger unavailable"
// @Router /checkout [post]
// @Security BearerAuth
func (h *LoanHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid checkout request", slog.Any("error", err))
		respondError(w, err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.service.Checkout(r.Context(), customerID, req.MerchantID, amount)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Checkout failed",
			slog.Int64("customerID", customerID), slog.Int64("merchantID", req.MerchantID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Checkout completed", slog.Int64("loanID", result.Loan.ID))
	respondJSON(w, http.StatusCreated, dto.NewCheckoutResponse(result))
}

// PayInstallment handles POST /installments/{installmentID}/pay
//
// @Summary Pay an installment
// @Description Settles one installment in full with one of the caller's payment instruments and restores the amount to their available credit.
// @Tags Loans
// @Accept json
// @Produce json
// @Param installmentID path int true "Installment ID" Minimum(1)
// @Param request body dto.PayInstallmentRequest true "Instrument to charge"
// @Success 200 {object} dto.SettlementResponse "Installment settled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Installment or instrument belongs to someone else"
// @Failure 409 {object} dto.ErrorResponse "Installment already paid"
// @Failure 503 {object} dto.ErrorResponse "Ledger unavailable"
// @Router /installments/{installmentID}/pay [post]
// @Security BearerAuth
func (h *LoanHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	installmentID, err := pathID(r, "installmentID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.PayInstallmentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid payment request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	result, err := h.service.PayInstallment(r.Context(), customerID, installmentID, req.InstrumentID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Installment payment failed",
			slog.Int64("customerID", customerID), slog.Int64("installmentID", installmentID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Installment paid",
		slog.Int64("installmentID", installmentID), slog.Bool("loanPaid", result.LoanPaid))
	respondJSON(w, http.StatusOK, dto.NewSettlementResponse(result))
}

// GetLoan handles GET /loans/{loanID}
//
// @Summary Retrieve a loan
// @Description Returns a loan with its installment schedule. Customers only see their own loans.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.LoanResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	// Another customer's loan is reported as missing.
	id, _ := middleware.IdentityFromContext(r.Context())
	if !id.IsAdmin() && l.CustomerID != id.CustomerID {
		respondError(w, apperrors.ErrNotFound)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// PendingInstallments handles GET /me/installments
//
// @Summary List unpaid installments
// @Description Lists the caller's unpaid installments on active loans, soonest due first.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.InstallmentResponse "Unpaid installments"
// @Router /me/installments [get]
// @Security BearerAuth
func (h *LoanHandler) PendingInstallments(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	items, err := h.service.PendingInstallments(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list pending installments", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInstallmentListResponse(items))
}
