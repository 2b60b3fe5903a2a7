package dto

import (
	"bnpl-engine/internal/domain/customer"
	"time"
)

type CreateCustomerRequest struct {
	Name                string `json:"name" validate:"required,max=200"`
	Email               string `json:"email" validate:"required,email"`
	CreditLimit         string `json:"creditLimit" validate:"required"`
	RepaymentPreference string `json:"repaymentPreference" validate:"required"`
}

type UpdatePreferenceRequest struct {
	RepaymentPreference string `json:"repaymentPreference" validate:"required"`
}

type CustomerResponse struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	AvailableCredit     string    `json:"availableCredit"`
	RepaymentPreference string    `json:"repaymentPreference"`
	Active              bool      `json:"active"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Email:               c.Email,
		AvailableCredit:     c.AvailableCredit.String(),
		RepaymentPreference: string(c.RepaymentPreference),
		Active:              c.Active,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}

type AddInstrumentRequest struct {
	Brand       string `json:"brand" validate:"required,max=40"`
	Last4       string `json:"last4" validate:"required,len=4,numeric"`
	MakeDefault bool   `json:"makeDefault"`
}

type InstrumentResponse struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	Last4     string    `json:"last4"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewInstrumentResponse(p *customer.PaymentInstrument) InstrumentResponse {
	return InstrumentResponse{
		ID:        p.ID,
		Brand:     p.Brand,
		Last4:     p.Last4,
		IsDefault: p.IsDefault,
		CreatedAt: p.CreatedAt,
	}
}

func NewInstrumentListResponse(items []*customer.PaymentInstrument) []InstrumentResponse {
	resp := make([]InstrumentResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, NewInstrumentResponse(p))
	}
	return resp
}
