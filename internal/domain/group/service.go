package group

import (
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/loan"
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/infrastructure/monitoring"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"bnpl-engine/internal/pkg/txretry"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// CreditLedger is satisfied by customer.Repository.
type CreditLedger interface {
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*customer.Customer, error)
	FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*customer.Customer, error)
	AdjustCreditInTx(ctx context.Context, tx pgx.Tx, customerID int64, delta money.Money) (money.Money, error)
}

type GroupService interface {
	SplitLoan(ctx context.Context, customerID, loanID int64, inviteeEmails []string) (*SplitResult, error)

	AddParticipant(ctx context.Context, customerID, groupID int64, email string) (*SplitResult, error)

	GetComposition(ctx context.Context, groupID int64) (*Composition, error)
}

type Option func(*groupService)

func WithClock(now func() time.Time) Option {
	return func(s *groupService) { s.now = now }
}

type groupService struct {
	groups  Repository
	loans   loan.Repository
	ledger  CreditLedger
	tx      *txretry.Runner
	emitter notification.Emitter
	now     func() time.Time
	logger  *slog.Logger
}

func NewGroupService(groups Repository, loans loan.Repository, ledger CreditLedger, runner *txretry.Runner,
	emitter notification.Emitter, logger *slog.Logger, opts ...Option) GroupService {
	if emitter == nil {
		emitter = notification.NopEmitter{}
	}
	s := &groupService{
		groups:  groups,
		loans:   loans,
		ledger:  ledger,
		tx:      runner,
		emitter: emitter,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "groupService")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// lockCustomers takes the customer row locks in ascending id order.
func (s *groupService) lockCustomers(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]*customer.Customer, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	locked := make(map[int64]*customer.Customer, len(sorted))
	for _, id := range sorted {
		c, err := s.ledger.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to lock customer %d: %w", id, err)
		}
		locked[id] = c
	}
	return locked, nil
}

func (s *groupService) resolveParticipant(ctx context.Context, tx pgx.Tx, email string) (*customer.Customer, error) {
	c, err := s.ledger.FindByEmailInTx(ctx, tx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.UnknownParticipant(email)
	}
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCustomerSuspended, email)
	}
	return c, nil
}

func countPaid(items []loan.Installment) int {
	n := 0
	for _, it := range items {
		if it.Status == loan.InstallmentPaid {
			n++
		}
	}
	return n
}

func allocate(total money.Money, n int) ([]money.Money, error) {
	shares, err := money.Allocate(total, n)
	if err != nil {
		return nil, apperrors.NewValidationError("participants", err.Error())
	}
	if shares[len(shares)-1].IsZero() {
		return nil, apperrors.NewValidationError("participants", fmt.Sprintf("%s cannot be divided among %d people", total, n))
	}
	return shares, nil
}

type restructuredPayload struct {
	GroupID int64             `json:"groupId"`
	Total   string            `json:"total"`
	Shares  map[string]string `json:"shares"`
}

func payloadFor(r *SplitResult) restructuredPayload {
	p := restructuredPayload{GroupID: r.Group.ID, Total: r.Group.Total.String(), Shares: make(map[string]string, len(r.Shares))}
	for _, sh := range r.Shares {
		p.Shares[fmt.Sprintf("%d", sh.CustomerID)] = sh.Amount.String()
	}
	return p
}

func (s *groupService) SplitLoan(ctx context.Context, customerID, loanID int64, inviteeEmails []string) (result *SplitResult, err error) {
	defer func() { monitoring.RecordRestructure("split", outcome(err)) }()

	if len(inviteeEmails) == 0 {
		return nil, apperrors.NewValidationError("emails", "at least one participant is required")
	}
	emails := make([]string, 0, len(inviteeEmails))
	for _, raw := range inviteeEmails {
		email := normalizeEmail(raw)
		if email == "" {
			return nil, apperrors.NewValidationError("emails", "cannot contain an empty address")
		}
		if slices.Contains(emails, email) {
			return nil, apperrors.DuplicateParticipant(email)
		}
		emails = append(emails, email)
	}

	logCtx := s.logger.With(slog.Int64("customerID", customerID), slog.Int64("loanID", loanID))

	err = s.tx.Run(ctx, "split_loan", func(ctx context.Context, tx pgx.Tx) error {
		ln, err := s.loans.GetLoanForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if ln.CustomerID != customerID {
			logCtx.WarnContext(ctx, "Split attempted on a loan owned by another customer", slog.Int64("ownerID", ln.CustomerID))
			return fmt.Errorf("%w: loan %d", apperrors.ErrForbidden, loanID)
		}
		if ln.IsSettled() {
			return fmt.Errorf("%w: loan %d", apperrors.ErrAlreadyPaid, loanID)
		}
		if ln.Status != loan.StatusActive {
			return fmt.Errorf("%w: loan %d is %s", apperrors.ErrConflict, loanID, ln.Status)
		}
		order, err := s.loans.GetOrderInTx(ctx, tx, ln.OrderID)
		if err != nil {
			return err
		}
		if order.GroupID != nil {
			return fmt.Errorf("%w: order %d already belongs to group %d", apperrors.ErrConflict, order.ID, *order.GroupID)
		}

		invitees := make([]*customer.Customer, len(emails))
		for i, email := range emails {
			c, err := s.resolveParticipant(ctx, tx, email)
			if err != nil {
				return err
			}
			if c.ID == customerID {
				return apperrors.DuplicateParticipant(email)
			}
			invitees[i] = c
		}

		balance := ln.RemainingBalance
		shares, err := allocate(balance, 1+len(invitees))
		if err != nil {
			return err
		}

		history, err := s.loans.GetInstallmentsInTx(ctx, tx, ln.ID)
		if err != nil {
			return err
		}
		g := &Group{
			OriginalOrderID:         order.ID,
			CreatorID:               customerID,
			Total:                   balance,
			PaidInstallmentsAtSplit: countPaid(history),
			PaidAmountAtSplit:       ln.Principal - balance,
		}
		if err := s.groups.CreateGroupInTx(ctx, tx, g); err != nil {
			return err
		}
		if err := s.loans.SetOrderGroupInTx(ctx, tx, order.ID, g.ID); err != nil {
			return err
		}

		ids := []int64{customerID}
		for _, c := range invitees {
			ids = append(ids, c.ID)
		}
		locked, err := s.lockCustomers(ctx, tx, ids)
		if err != nil {
			return err
		}
		for i, c := range invitees {
			current := locked[c.ID]
			if !current.Active {
				return fmt.Errorf("%w: %s", apperrors.ErrCustomerSuspended, emails[i])
			}
			if !current.CanAfford(shares[i+1]) {
				return apperrors.NewInsufficientCreditError(c.ID, shares[i+1], current.AvailableCredit)
			}
		}

		now := s.now()
		ownerItems, err := loan.Reschedule(ctx, tx, s.loans, ln, shares[0], locked[customerID].RepaymentPreference, now)
		if err != nil {
			return err
		}
		refund := balance - shares[0]
		if _, err := s.ledger.AdjustCreditInTx(ctx, tx, customerID, refund); err != nil {
			return err
		}

		out := &SplitResult{Group: g, Shares: make([]Share, 0, len(shares))}
		out.Shares = append(out.Shares, Share{CustomerID: customerID, LoanID: ln.ID, Amount: shares[0], Refunded: refund, Installments: ownerItems})

		for i, c := range invitees {
			share := shares[i+1]
			orig, err := loan.Originate(ctx, tx, s.loans, loan.Terms{
				CustomerID: c.ID,
				MerchantID: order.MerchantID,
				Amount:     share,
				Plan:       locked[c.ID].RepaymentPreference,
				GroupID:    &g.ID,
				Start:      now,
			})
			if err != nil {
				return err
			}
			if _, err := s.ledger.AdjustCreditInTx(ctx, tx, c.ID, share.Neg()); err != nil {
				return err
			}
			out.Shares = append(out.Shares, Share{CustomerID: c.ID, LoanID: orig.Loan.ID, Amount: share, Installments: orig.Installments})
		}

		if out.Total() != g.Total {
			return fmt.Errorf("%w: shares sum to %s, group total is %s", apperrors.ErrLedgerInvariant, out.Total(), g.Total)
		}
		result = out
		return nil
	})
	if err != nil {
		logCtx.WarnContext(ctx, "Split rejected", slog.Any("error", err))
		return nil, err
	}

	logCtx.InfoContext(ctx, "Loan split", slog.Int64("groupID", result.Group.ID), slog.Int("participants", len(result.Shares)))
	s.emitter.Emit(ctx, notification.NewEvent(notification.KindLoanSplit, payloadFor(result), s.shareNotifications(result, "Loan split")...))
	return result, nil
}

func (s *groupService) AddParticipant(ctx context.Context, customerID, groupID int64, email string) (result *SplitResult, err error) {
	defer func() { monitoring.RecordRestructure("add_participant", outcome(err)) }()

	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email", "cannot be empty")
	}
	logCtx := s.logger.With(slog.Int64("customerID", customerID), slog.Int64("groupID", groupID))

	err = s.tx.Run(ctx, "add_participant", func(ctx context.Context, tx pgx.Tx) error {
		g, err := s.groups.GetGroupForUpdate(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if g.CreatorID != customerID {
			logCtx.WarnContext(ctx, "Participant change attempted by non-creator", slog.Int64("creatorID", g.CreatorID))
			return fmt.Errorf("%w: group %d", apperrors.ErrForbidden, groupID)
		}

		members, err := s.groups.ListMembersInTx(ctx, tx, groupID)
		if err != nil {
			return err
		}
		paid, err := s.groups.CountPaidInTx(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if paid > g.PaidInstallmentsAtSplit {
			return fmt.Errorf("%w: %d installment(s) paid since the split", apperrors.ErrGroupLocked, paid-g.PaidInstallmentsAtSplit)
		}

		newcomer, err := s.resolveParticipant(ctx, tx, email)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(members)+1)
		for _, m := range members {
			if m.CustomerID == newcomer.ID {
				return apperrors.DuplicateParticipant(email)
			}
			ids = append(ids, m.CustomerID)
		}
		ids = append(ids, newcomer.ID)

		shares, err := allocate(g.Total, len(members)+1)
		if err != nil {
			return err
		}
		order, err := s.loans.GetOrderInTx(ctx, tx, g.OriginalOrderID)
		if err != nil {
			return err
		}

		now := s.now()
		out := &SplitResult{Group: g, Shares: make([]Share, 0, len(shares))}
		for i, m := range members {
			oldBalance := m.RemainingBalance
			items, err := loan.Reschedule(ctx, tx, s.loans, m, shares[i], m.Plan, now)
			if err != nil {
				return err
			}
			out.Shares = append(out.Shares, Share{CustomerID: m.CustomerID, LoanID: m.ID, Amount: shares[i], Refunded: oldBalance - shares[i], Installments: items})
		}

		locked, err := s.lockCustomers(ctx, tx, ids)
		if err != nil {
			return err
		}
		newShare := shares[len(shares)-1]
		if !locked[newcomer.ID].Active {
			return fmt.Errorf("%w: %s", apperrors.ErrCustomerSuspended, email)
		}
		if !locked[newcomer.ID].CanAfford(newShare) {
			return apperrors.NewInsufficientCreditError(newcomer.ID, newShare, locked[newcomer.ID].AvailableCredit)
		}

		for _, sh := range out.Shares {
			if sh.Refunded < 0 {
				return fmt.Errorf("%w: member %d would owe more after adding a participant", apperrors.ErrLedgerInvariant, sh.CustomerID)
			}
			if sh.Refunded.IsZero() {
				continue
			}
			if _, err := s.ledger.AdjustCreditInTx(ctx, tx, sh.CustomerID, sh.Refunded); err != nil {
				return err
			}
		}

		orig, err := loan.Originate(ctx, tx, s.loans, loan.Terms{
			CustomerID: newcomer.ID,
			MerchantID: order.MerchantID,
			Amount:     newShare,
			Plan:       locked[newcomer.ID].RepaymentPreference,
			GroupID:    &g.ID,
			Start:      now,
		})
		if err != nil {
			return err
		}
		if _, err := s.ledger.AdjustCreditInTx(ctx, tx, newcomer.ID, newShare.Neg()); err != nil {
			return err
		}
		out.Shares = append(out.Shares, Share{CustomerID: newcomer.ID, LoanID: orig.Loan.ID, Amount: newShare, Installments: orig.Installments})

		if out.Total() != g.Total {
			return fmt.Errorf("%w: shares sum to %s, group total is %s", apperrors.ErrLedgerInvariant, out.Total(), g.Total)
		}
		result = out
		return nil
	})
	if err != nil {
		logCtx.WarnContext(ctx, "Participant not added", slog.String("email", email), slog.Any("error", err))
		return nil, err
	}

	logCtx.InfoContext(ctx, "Participant added", slog.Int("participants", len(result.Shares)))
	s.emitter.Emit(ctx, notification.NewEvent(notification.KindParticipantAdded, payloadFor(result), s.shareNotifications(result, "Group updated")...))
	return result, nil
}

func (s *groupService) shareNotifications(r *SplitResult, title string) []notification.Notification {
	link := fmt.Sprintf("/groups/%d", r.Group.ID)
	out := make([]notification.Notification, 0, len(r.Shares)+1)
	for _, sh := range r.Shares {
		out = append(out, notification.ToCustomer(sh.CustomerID, notification.CategoryGroup, title,
			fmt.Sprintf("Your share of group %d is now %s over %d installment(s).", r.Group.ID, sh.Amount, len(sh.Installments))).WithLink(link))
	}
	out = append(out, notification.ToAdmins(notification.CategoryGroup, title,
		fmt.Sprintf("Group %d (%s) now has %d participants.", r.Group.ID, r.Group.Total, len(r.Shares))).WithLink(link))
	return out
}

func (s *groupService) GetComposition(ctx context.Context, groupID int64) (*Composition, error) {
	g, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Group not found", slog.Int64("groupID", groupID))
			return nil, err
		}
		return nil, fmt.Errorf("failed to get group %d: %w", groupID, err)
	}
	loans, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of group %d: %w", groupID, err)
	}
	comp := &Composition{Group: g, Members: make([]Member, len(loans))}
	for i, l := range loans {
		comp.Members[i] = memberFromLoan(g, l)
	}
	return comp, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrInsufficientCredit):
		return "insufficient_credit"
	case errors.Is(err, apperrors.ErrUnknownParticipant), errors.Is(err, apperrors.ErrDuplicateParticipant):
		return "participant_rejected"
	case errors.Is(err, apperrors.ErrGroupLocked):
		return "locked"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperrors.ErrLedgerUnavailable):
		return "unavailable"
	default:
		return "failure"
	}
}
