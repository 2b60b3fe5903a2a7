package customer

import (
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"time"
)

type Customer struct {
	ID                  int64            `json:"id"`
	Name                string           `json:"name"`
	Email               string           `json:"email"`
	AvailableCredit     money.Money      `json:"availableCredit"`
	RepaymentPreference schedule.Cadence `json:"repaymentPreference"`
	Active              bool             `json:"active"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

func NewCustomer(name, email string, creditLimit money.Money, preference schedule.Cadence) *Customer {
	now := time.Now()
	return &Customer{
		Name:                name,
		Email:               email,
		AvailableCredit:     creditLimit,
		RepaymentPreference: preference,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// CanAfford reports whether amount fits inside the available credit.
func (c *Customer) CanAfford(amount money.Money) bool {
	return amount <= c.AvailableCredit
}

type PaymentInstrument struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	Brand      string    `json:"brand"`
	Last4      string    `json:"last4"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (p *PaymentInstrument) Label() string {
	return p.Brand + " ****" + p.Last4
}
