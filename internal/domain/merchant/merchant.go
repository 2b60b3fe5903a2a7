package merchant

import (
	"context"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusInactive  Status = "inactive"
)

type Merchant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CanOriginate reports whether new loans may be opened against the merchant.
func (m *Merchant) CanOriginate() bool {
	return m != nil && m.Status == StatusActive
}

type Directory interface {
	FindByID(ctx context.Context, merchantID int64) (*Merchant, error)
}
