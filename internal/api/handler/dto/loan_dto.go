package dto

import (
	"bnpl-engine/internal/domain/loan"
	"time"
)

type CheckoutRequest struct {
	MerchantID int64  `json:"merchantId" validate:"required,gt=0"`
	Amount     string `json:"amount" validate:"required"`
}

type PayInstallmentRequest struct {
	InstrumentID int64 `json:"instrumentId" validate:"required,gt=0"`
}

type InstallmentResponse struct {
	ID       int64      `json:"id"`
	LoanID   int64      `json:"loanId"`
	Sequence int        `json:"sequence"`
	Amount   string     `json:"amount"`
	DueDate  string     `json:"dueDate"`
	Status   string     `json:"status"`
	PaidDate *time.Time `json:"paidDate,omitempty"`
}

func NewInstallmentResponse(i loan.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:       i.ID,
		LoanID:   i.LoanID,
		Sequence: i.Sequence,
		Amount:   i.Amount.String(),
		DueDate:  i.DueDate.Format(time.DateOnly),
		Status:   string(i.Status),
		PaidDate: i.PaidDate,
	}
}

func NewInstallmentListResponse(items []loan.Installment) []InstallmentResponse {
	resp := make([]InstallmentResponse, 0, len(items))
	for _, i := range items {
		resp = append(resp, NewInstallmentResponse(i))
	}
	return resp
}

type LoanResponse struct {
	ID               int64                 `json:"id"`
	OrderID          int64                 `json:"orderId"`
	CustomerID       int64                 `json:"customerId"`
	Principal        string                `json:"principal"`
	RemainingBalance string                `json:"remainingBalance"`
	Plan             string                `json:"plan"`
	Status           string                `json:"status"`
	CreatedAt        time.Time             `json:"createdAt"`
	Installments     []InstallmentResponse `json:"installments"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	return LoanResponse{
		ID:               l.ID,
		OrderID:          l.OrderID,
		CustomerID:       l.CustomerID,
		Principal:        l.Principal.String(),
		RemainingBalance: l.RemainingBalance.String(),
		Plan:             string(l.Plan),
		Status:           string(l.Status),
		CreatedAt:        l.CreatedAt,
		Installments:     NewInstallmentListResponse(l.Installments),
	}
}

type CheckoutResponse struct {
	OrderID         int64                 `json:"orderId"`
	MerchantID      int64                 `json:"merchantId"`
	Loan            LoanResponse          `json:"loan"`
	Installments    []InstallmentResponse `json:"installments"`
	AvailableCredit string                `json:"availableCredit"`
}

func NewCheckoutResponse(c *loan.Checkout) CheckoutResponse {
	l := NewLoanResponse(c.Loan)
	l.Installments = nil
	return CheckoutResponse{
		OrderID:         c.Order.ID,
		MerchantID:      c.Order.MerchantID,
		Loan:            l,
		Installments:    NewInstallmentListResponse(c.Installments),
		AvailableCredit: c.AvailableCredit.String(),
	}
}

type SettlementResponse struct {
	Installment      InstallmentResponse `json:"installment"`
	LoanID           int64               `json:"loanId"`
	RemainingBalance string              `json:"remainingBalance"`
	LoanPaid         bool                `json:"loanPaid"`
	Bonus            string              `json:"bonus"`
	AvailableCredit  string              `json:"availableCredit"`
	Instrument       string              `json:"instrument"`
}

func NewSettlementResponse(s *loan.Settlement) SettlementResponse {
	return SettlementResponse{
		Installment:      NewInstallmentResponse(s.Installment),
		LoanID:           s.LoanID,
		RemainingBalance: s.RemainingBalance.String(),
		LoanPaid:         s.LoanPaid,
		Bonus:            s.Bonus.String(),
		AvailableCredit:  s.AvailableCredit.String(),
		Instrument:       s.Instrument,
	}
}
