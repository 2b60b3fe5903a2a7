// Package group re-divides a loan's outstanding balance among several
// customers and keeps every member's schedule in step with their share.
package group

import (
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"time"
)

// Group records what the creator had already paid when the split happened.
// Payments are detected by comparing the current paid installment count with
// PaidInstallmentsAtSplit, never by timestamps.
type Group struct {
	ID                      int64       `json:"id"`
	OriginalOrderID         int64       `json:"originalOrderId"`
	CreatorID               int64       `json:"creatorId"`
	Total                   money.Money `json:"total"`
	PaidInstallmentsAtSplit int         `json:"paidInstallmentsAtSplit"`
	PaidAmountAtSplit       money.Money `json:"paidAmountAtSplit"`
	CreatedAt               time.Time   `json:"createdAt"`
}

// Member.Principal is the loan principal. For the creator it still includes
// what was paid before the split; Share is the slice of Group.Total, and the
// shares of all members add up to it exactly.
type Member struct {
	CustomerID       int64            `json:"customerId"`
	LoanID           int64            `json:"loanId"`
	OrderID          int64            `json:"orderId"`
	Principal        money.Money      `json:"principal"`
	Share            money.Money      `json:"share"`
	RemainingBalance money.Money      `json:"remainingBalance"`
	Plan             schedule.Cadence `json:"plan"`
	Status           loan.Status      `json:"status"`
}

func memberFromLoan(g *Group, l *loan.Loan) Member {
	share := l.Principal
	if l.CustomerID == g.CreatorID {
		share -= g.PaidAmountAtSplit
	}
	return Member{
		CustomerID:       l.CustomerID,
		LoanID:           l.ID,
		OrderID:          l.OrderID,
		Principal:        l.Principal,
		Share:            share,
		RemainingBalance: l.RemainingBalance,
		Plan:             l.Plan,
		Status:           l.Status,
	}
}

type Composition struct {
	Group   *Group   `json:"group"`
	Members []Member `json:"members"`
}

func (c *Composition) ShareTotal() money.Money {
	var total money.Money
	for _, m := range c.Members {
		total += m.Share
	}
	return total
}

func (c *Composition) Includes(customerID int64) bool {
	for _, m := range c.Members {
		if m.CustomerID == customerID {
			return true
		}
	}
	return false
}

// Share is one member's slice of the group after a restructuring.
type Share struct {
	CustomerID   int64              `json:"customerId"`
	LoanID       int64              `json:"loanId"`
	Amount       money.Money        `json:"amount"`
	Refunded     money.Money        `json:"refunded"`
	Installments []loan.Installment `json:"installments"`
}

type SplitResult struct {
	Group  *Group  `json:"group"`
	Shares []Share `json:"shares"`
}

func (r *SplitResult) Total() money.Money {
	var total money.Money
	for _, s := range r.Shares {
		total += s.Amount
	}
	return total
}
