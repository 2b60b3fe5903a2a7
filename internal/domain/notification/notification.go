package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Category string

const (
	CategoryLoan    Category = "loan"
	CategoryPayment Category = "payment"
	CategoryGroup   Category = "group"
	CategoryRisk    Category = "risk"
	CategoryAccount Category = "account"
)

// Notification is addressed to a role and, unless it is a broadcast, to one
// recipient of that role.
type Notification struct {
	ID            int64     `json:"id"`
	RecipientRole Role      `json:"recipientRole"`
	RecipientID   *int64    `json:"recipientId,omitempty"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Link          *string   `json:"link,omitempty"`
	Category      Category  `json:"category"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"createdAt"`
}

func ToCustomer(customerID int64, category Category, title, message string) Notification {
	id := customerID
	return Notification{
		RecipientRole: RoleCustomer,
		RecipientID:   &id,
		Title:         title,
		Message:       message,
		Category:      category,
	}
}

func ToAdmins(category Category, title, message string) Notification {
	return Notification{
		RecipientRole: RoleAdmin,
		Title:         title,
		Message:       message,
		Category:      category,
	}
}

func (n Notification) WithLink(link string) Notification {
	n.Link = &link
	return n
}

type Kind string

const (
	KindLoanOriginated      Kind = "loan.originated"
	KindInstallmentPaid     Kind = "installment.paid"
	KindLoanSplit           Kind = "group.split"
	KindParticipantAdded    Kind = "group.participant_added"
	KindCustomerSuspended   Kind = "customer.suspended"
	KindCustomerReactivated Kind = "customer.reactivated"
	KindCustomerCreated     Kind = "customer.created"
)

// Event is the one side effect a ledger operation produces after it commits.
type Event struct {
	ID            string         `json:"eventId"`
	Kind          Kind           `json:"kind"`
	OccurredAt    time.Time      `json:"occurredAt"`
	Payload       any            `json:"payload"`
	Notifications []Notification `json:"-"`
}

func NewEvent(kind Kind, payload any, notifications ...Notification) Event {
	return Event{
		ID:            uuid.NewString(),
		Kind:          kind,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
		Notifications: notifications,
	}
}

type Emitter interface {
	Emit(ctx context.Context, event Event)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Repository interface {
	SaveAll(ctx context.Context, notifications []Notification) error

	ListForRecipient(ctx context.Context, role Role, recipientID int64, unreadOnly bool, limit int) ([]*Notification, error)

	MarkRead(ctx context.Context, notificationID int64, role Role, recipientID int64) error
}

// NopEmitter drops every event.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Event) {}
