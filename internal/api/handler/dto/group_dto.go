package dto

import (
	"bnpl-engine/internal/domain/group"
	"time"
)

type SplitLoanRequest struct {
	Participants []string `json:"participants" validate:"required,min=1,dive,required,email"`
}

type AddParticipantRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ShareResponse struct {
	CustomerID   int64                 `json:"customerId"`
	LoanID       int64                 `json:"loanId"`
	Amount       string                `json:"amount"`
	Refunded     string                `json:"refunded"`
	Installments []InstallmentResponse `json:"installments"`
}

type GroupResponse struct {
	ID              int64     `json:"id"`
	OriginalOrderID int64     `json:"originalOrderId"`
	CreatorID       int64     `json:"creatorId"`
	Total           string    `json:"total"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewGroupResponse(g *group.Group) GroupResponse {
	return GroupResponse{
		ID:              g.ID,
		OriginalOrderID: g.OriginalOrderID,
		CreatorID:       g.CreatorID,
		Total:           g.Total.String(),
		CreatedAt:       g.CreatedAt,
	}
}

type SplitResponse struct {
	Group  GroupResponse   `json:"group"`
	Shares []ShareResponse `json:"shares"`
}

func NewSplitResponse(r *group.SplitResult) SplitResponse {
	shares := make([]ShareResponse, 0, len(r.Shares))
	for _, s := range r.Shares {
		shares = append(shares, ShareResponse{
			CustomerID:   s.CustomerID,
			LoanID:       s.LoanID,
			Amount:       s.Amount.String(),
			Refunded:     s.Refunded.String(),
			Installments: NewInstallmentListResponse(s.Installments),
		})
	}
	return SplitResponse{Group: NewGroupResponse(r.Group), Shares: shares}
}

type MemberResponse struct {
	CustomerID       int64  `json:"customerId"`
	LoanID           int64  `json:"loanId"`
	OrderID          int64  `json:"orderId"`
	Principal        string `json:"principal"`
	Share            string `json:"share"`
	RemainingBalance string `json:"remainingBalance"`
	Plan             string `json:"plan"`
	Status           string `json:"status"`
}

type CompositionResponse struct {
	Group   GroupResponse    `json:"group"`
	Members []MemberResponse `json:"members"`
}

func NewCompositionResponse(c *group.Composition) CompositionResponse {
	members := make([]MemberResponse, 0, len(c.Members))
	for _, m := range c.Members {
		members = append(members, MemberResponse{
			CustomerID:       m.CustomerID,
			LoanID:           m.LoanID,
			OrderID:          m.OrderID,
			Principal:        m.Principal.String(),
			Share:            m.Share.String(),
			RemainingBalance: m.RemainingBalance.String(),
			Plan:             string(m.Plan),
			Status:           string(m.Status),
		})
	}
	return CompositionResponse{Group: NewGroupResponse(c.Group), Members: members}
}
