package loan

import (
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customerId"`
	MerchantID int64       `json:"merchantId"`
	Total      money.Money `json:"total"`
	Status     OrderStatus `json:"status"`
	GroupID    *int64      `json:"groupId,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type Loan struct {
	ID               int64            `json:"id"`
	OrderID          int64            `json:"orderId"`
	CustomerID       int64            `json:"customerId"`
	Principal        money.Money      `json:"principal"`
	RemainingBalance money.Money      `json:"remainingBalance"`
	Plan             schedule.Cadence `json:"plan"`
	Status           Status           `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	Installments     []Installment    `json:"installments,omitempty"`
}

func (l *Loan) IsSettled() bool {
	return l.Status == StatusPaid || l.RemainingBalance <= 0
}

type Installment struct {
	ID       int64             `json:"id"`
	LoanID   int64             `json:"loanId"`
	Sequence int               `json:"sequence"`
	Amount   money.Money       `json:"amount"`
	DueDate  time.Time         `json:"dueDate"`
	Status   InstallmentStatus `json:"status"`
	PaidDate *time.Time        `json:"paidDate,omitempty"`
}

// PaidOnTime compares calendar days. DueDate is a civil date and its fields
// are read as stored; PaidDate is an instant and takes its day in loc, the zone
// of the clock that built the schedule and stamped the payment.
func (i Installment) PaidOnTime(loc *time.Location) bool {
	if i.Status != InstallmentPaid || i.PaidDate == nil {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	return !civilDay(i.PaidDate.In(loc)).After(civilDay(i.DueDate))
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (i Installment) IsOverdue(cutoff time.Time) bool {
	return i.Status != InstallmentPaid && i.DueDate.Before(cutoff)
}

func AllPaidOnTime(items []Installment, loc *time.Location) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.PaidOnTime(loc) {
			return false
		}
	}
	return true
}

// InstallmentsFromSchedule shifts sequence numbers by offset so regenerated
// installments continue after the ones that are kept.
func InstallmentsFromSchedule(loanID int64, entries []schedule.Entry, offset int) []Installment {
	items := make([]Installment, len(entries))
	for i, e := range entries {
		items[i] = Installment{
			LoanID:   loanID,
			Sequence: e.Sequence + offset,
			Amount:   e.Amount,
			DueDate:  e.DueDate,
			Status:   InstallmentPending,
		}
	}
	return items
}

func SumAmounts(items []Installment) money.Money {
	var total money.Money
	for _, it := range items {
		total += it.Amount
	}
	return total
}
