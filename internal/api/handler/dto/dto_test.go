package dto

import (
	"bnpl-engine/internal/domain/group"
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/money"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCheckoutResponse_FormatsAmountsAsDecimals(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	c := &loan.Checkout{
		Order: &loan.Order{ID: 9, MerchantID: 3},
		Loan: &loan.Loan{
			ID: 4, OrderID: 9, CustomerID: 1,
			Principal:        money.MustParse("100.00"),
			RemainingBalance: money.MustParse("100.00"),
			Plan:             schedule.Monthly3,
			Status:           loan.StatusActive,
		},
		Installments: []loan.Installment{
			{ID: 1, LoanID: 4, Sequence: 1, Amount: money.MustParse("33.33"), DueDate: due, Status: loan.InstallmentPending},
		},
		AvailableCredit: money.MustParse("400.5"),
	}

	resp := NewCheckoutResponse(c)

	assert.Equal(t, "100.00", resp.Loan.Principal)
	assert.Equal(t, "400.50", resp.AvailableCredit)
	assert.Nil(t, resp.Loan.Installments)
	assert.Equal(t, "33.33", resp.Installments[0].Amount)
	assert.Equal(t, "2025-07-15", resp.Installments[0].DueDate)
}

func TestNewSplitResponse(t *testing.T) {
	r := &group.SplitResult{
		Group: &group.Group{ID: 2, Total: money.MustParse("90")},
		Shares: []group.Share{
			{CustomerID: 1, LoanID: 10, Amount: money.MustParse("45"), Refunded: money.MustParse("55")},
			{CustomerID: 2, LoanID: 11, Amount: money.MustParse("45")},
		},
	}

	resp := NewSplitResponse(r)

	assert.Equal(t, "90.00", resp.Group.Total)
	assert.Len(t, resp.Shares, 2)
	assert.Equal(t, "55.00", resp.Shares[0].Refunded)
	assert.Equal(t, "0.00", resp.Shares[1].Refunded)
	assert.NotNil(t, resp.Shares[1].Installments)
}

func TestNewCompositionResponse_ReportsShareNextToPrincipal(t *testing.T) {
	c := &group.Composition{
		Group: &group.Group{ID: 5, CreatorID: 1, Total: money.MustParse("1000.00")},
		Members: []group.Member{
			{CustomerID: 1, Principal: money.MustParse("700.00"), Share: money.MustParse("500.00"), Plan: schedule.Monthly3},
			{CustomerID: 2, Principal: money.MustParse("500.00"), Share: money.MustParse("500.00"), Plan: schedule.Biweekly4},
		},
	}

	resp := NewCompositionResponse(c)

	assert.Equal(t, "1000.00", resp.Group.Total)
	assert.Equal(t, "700.00", resp.Members[0].Principal)
	assert.Equal(t, "500.00", resp.Members[0].Share)
	assert.Equal(t, "500.00", resp.Members[1].Share)
}
