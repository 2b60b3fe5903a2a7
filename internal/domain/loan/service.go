package loan

import (
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/merchant"
	"bnpl-engine/internal/domain/notification"
	"bnpl-engine/internal/infrastructure/monitoring"
	"bnpl-engine/internal/pkg/apperrors"
	"bnpl-engine/internal/pkg/money"
	"bnpl-engine/internal/pkg/txretry"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CreditLedger is the slice of the customer store the loan workflows lock
// and adjust. customer.Repository satisfies it.
type CreditLedger interface {
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (*customer.Customer, error)
	FindInstrumentInTx(ctx context.Context, tx pgx.Tx, instrumentID int64) (*customer.PaymentInstrument, error)
	AdjustCreditInTx(ctx context.Context, tx pgx.Tx, customerID int64, delta money.Money) (money.Money, error)
}

type LoanService interface {
	Checkout(ctx context.Context, customerID, merchantID int64, amount money.Money) (*Checkout, error)

	PayInstallment(ctx context.Context, customerID, installmentID, instrumentID int64) (*Settlement, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	PendingInstallments(ctx context.Context, customerID int64) ([]Installment, error)
}

type Checkout struct {
	Order           *Order        `json:"order"`
	Loan            *Loan         `json:"loan"`
	Installments    []Installment `json:"installments"`
	AvailableCredit money.Money   `json:"availableCredit"`
}

type Settlement struct {
	Installment      Installment `json:"installment"`
	LoanID           int64       `json:"loanId"`
	RemainingBalance money.Money `json:"remainingBalance"`
	LoanPaid         bool        `json:"loanPaid"`
	Bonus            money.Money `json:"bonus"`
	AvailableCredit  money.Money `json:"availableCredit"`
	Instrument       string      `json:"instrument"`
}

type Option func(*loanServiceImpl)

func WithClock(now func() time.Time) Option {
	return func(s *loanServiceImpl) { s.now = now }
}

type loanServiceImpl struct {
	repo      Repository
	ledger    CreditLedger
	merchants merchant.Directory
	tx        *txretry.Runner
	emitter   notification.Emitter
	bonusRate decimal.Decimal
	now       func() time.Time
	logger    *slog.Logger
}

func NewLoanService(repo Repository, ledger CreditLedger, merchants merchant.Directory, runner *txretry.Runner,
	emitter notification.Emitter, bonusRate decimal.Decimal, logger *slog.Logger, opts ...Option) LoanService {
	if emitter == nil {
		emitter = notification.NopEmitter{}
	}
	s := &loanServiceImpl{
		repo:      repo,
		ledger:    ledger,
		merchants: merchants,
		tx:        runner,
		emitter:   emitter,
		bonusRate: bonusRate,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "loanService")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type originatedPayload struct {
	OrderID      int64  `json:"orderId"`
	LoanID       int64  `json:"loanId"`
	CustomerID   int64  `json:"customerId"`
	MerchantID   int64  `json:"merchantId"`
	Amount       string `json:"amount"`
	Plan         string `json:"plan"`
	Installments int    `json:"installments"`
}

func (s *loanServiceImpl) Checkout(ctx context.Context, customerID, merchantID int64, amount money.Money) (result *Checkout, err error) {
	defer func() { monitoring.RecordCheckout(outcome(err)) }()

	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be greater than zero")
	}
	logCtx := s.logger.With(slog.Int64("customerID", customerID), slog.Int64("merchantID", merchantID))

	var merchantName string
	err = s.tx.Run(ctx, "checkout", func(ctx context.Context, tx pgx.Tx) error {
		cust, err := s.ledger.FindByIDForUpdate(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if !cust.Active {
			return fmt.Errorf("%w: customer %d", apperrors.ErrCustomerSuspended, customerID)
		}
		if !cust.CanAfford(amount) {
			return apperrors.NewInsufficientCreditError(customerID, amount, cust.AvailableCredit)
		}

		m, err := s.merchants.FindByID(ctx, merchantID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if !m.CanOriginate() {
			return fmt.Errorf("%w: merchant %d", apperrors.ErrMerchantUnavailable, merchantID)
		}
		merchantName = m.Name

		orig, err := Originate(ctx, tx, s.repo, Terms{
			CustomerID: customerID,
			MerchantID: merchantID,
			Amount:     amount,
			Plan:       cust.RepaymentPreference,
			Start:      s.now(),
		})
		if err != nil {
			return err
		}

		available, err := s.ledger.AdjustCreditInTx(ctx, tx, customerID, amount.Neg())
		if err != nil {
			return err
		}

		result = &Checkout{
			Order:           orig.Order,
			Loan:            orig.Loan,
			Installments:    orig.Installments,
			AvailableCredit: available,
		}
		return nil
	})
	if err != nil {
		logCtx.WarnContext(ctx, "Checkout rejected", slog.String("amount", amount.String()), slog.Any("error", err))
		return nil, err
	}

	logCtx.InfoContext(ctx, "Loan originated",
		slog.Int64("loanID", result.Loan.ID),
		slog.String("amount", amount.String()),
		slog.String("plan", string(result.Loan.Plan)),
	)
	link := fmt.Sprintf("/loans/%d", result.Loan.ID)
	s.emitter.Emit(ctx, notification.NewEvent(notification.KindLoanOriginated,
		originatedPayload{
			OrderID:      result.Order.ID,
			LoanID:       result.Loan.ID,
			CustomerID:   customerID,
			MerchantID:   merchantID,
			Amount:       amount.String(),
			Plan:         string(result.Loan.Plan),
			Installments: len(result.Installments),
		},
		notification.ToCustomer(customerID, notification.CategoryLoan, "Purchase approved",
			fmt.Sprintf("Your purchase of %s at %s was approved in %d installment(s).", amount, merchantName, len(result.Installments))).WithLink(link),
		notification.ToAdmins(notification.CategoryLoan, "New loan",
			fmt.Sprintf("Customer %d opened loan %d for %s.", customerID, result.Loan.ID, amount)).WithLink(link),
	))
	return result, nil
}

type settledPayload struct {
	InstallmentID    int64  `json:"installmentId"`
	LoanID           int64  `json:"loanId"`
	CustomerID       int64  `json:"customerId"`
	Amount           string `json:"amount"`
	Instrument       string `json:"instrument"`
	Bonus            string `json:"bonus"`
	RemainingBalance string `json:"remainingBalance"`
	LoanPaid         bool   `json:"loanPaid"`
}

func (s *loanServiceImpl) PayInstallment(ctx context.Context, customerID, installmentID, instrumentID int64) (result *Settlement, err error) {
	defer func() { monitoring.RecordSettlement(outcome(err)) }()

	logCtx := s.logger.With(slog.Int64("customerID", customerID), slog.Int64("installmentID", installmentID))

	err = s.tx.Run(ctx, "pay_installment", func(ctx context.Context, tx pgx.Tx) error {
		instrument, err := s.ledger.FindInstrumentInTx(ctx, tx, instrumentID)
		if errors.Is(err, apperrors.ErrNotFound) || (err == nil && instrument.CustomerID != customerID) {
			logCtx.WarnContext(ctx, "Payment instrument not owned by caller", slog.Int64("instrumentID", instrumentID))
			return fmt.Errorf("%w: instrument %d", apperrors.ErrInvalidInstrument, instrumentID)
		}
		if err != nil {
			return err
		}

		peek, err := s.repo.GetInstallmentInTx(ctx, tx, installmentID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: installment %d", apperrors.ErrForbidden, installmentID)
		}
		if err != nil {
			return err
		}

		ln, err := s.repo.GetLoanForUpdate(ctx, tx, peek.LoanID)
		if err != nil {
			return err
		}
		if ln.CustomerID != customerID {
			logCtx.WarnContext(ctx, "Settlement attempted on a loan owned by another customer", slog.Int64("loanID", ln.ID))
			return fmt.Errorf("%w: installment %d", apperrors.ErrForbidden, installmentID)
		}

		item, err := s.repo.GetInstallmentForUpdate(ctx, tx, installmentID)
		if err != nil {
			return err
		}
		if item.Status == InstallmentPaid {
			return fmt.Errorf("%w: installment %d", apperrors.ErrAlreadyPaid, installmentID)
		}
		if ln.Status != StatusActive {
			return fmt.Errorf("%w: loan %d is %s", apperrors.ErrConflict, ln.ID, ln.Status)
		}

		paidAt := s.now()
		if err := s.repo.MarkInstallmentPaidInTx(ctx, tx, item.ID, paidAt); err != nil {
			return err
		}
		item.Status = InstallmentPaid
		item.PaidDate = &paidAt

		balance, err := s.repo.DebitLoanBalanceInTx(ctx, tx, ln.ID, item.Amount)
		if err != nil {
			return err
		}
		if balance < 0 {
			return fmt.Errorf("%w: loan %d balance would become %s", apperrors.ErrLedgerInvariant, ln.ID, balance)
		}

		var bonus money.Money
		if balance.IsZero() {
			if err := s.repo.UpdateLoanStatusInTx(ctx, tx, ln.ID, StatusPaid); err != nil {
				return err
			}
			if err := s.repo.UpdateOrderStatusInTx(ctx, tx, ln.OrderID, OrderCompleted); err != nil {
				return err
			}
			items, err := s.repo.GetInstallmentsInTx(ctx, tx, ln.ID)
			if err != nil {
				return err
			}
			if AllPaidOnTime(items, paidAt.Location()) {
				bonus = ln.Principal.Percent(s.bonusRate)
			}
		}

		available, err := s.ledger.AdjustCreditInTx(ctx, tx, customerID, item.Amount+bonus)
		if err != nil {
			return err
		}

		result = &Settlement{
			Installment:      *item,
			LoanID:           ln.ID,
			RemainingBalance: balance,
			LoanPaid:         balance.IsZero(),
			Bonus:            bonus,
			AvailableCredit:  available,
			Instrument:       instrument.Label(),
		}
		return nil
	})
	if err != nil {
		logCtx.WarnContext(ctx, "Settlement rejected", slog.Any("error", err))
		return nil, err
	}

	if result.Bonus.IsPositive() {
		monitoring.RecordBonus()
	}
	logCtx.InfoContext(ctx, "Installment settled",
		slog.Int64("loanID", result.LoanID),
		slog.String("amount", result.Installment.Amount.String()),
		slog.String("bonus", result.Bonus.String()),
		slog.Bool("loanPaid", result.LoanPaid),
	)

	message := fmt.Sprintf("Payment of %s received with %s.", result.Installment.Amount, result.Instrument)
	if result.LoanPaid {
		message += " Your loan is fully paid."
	}
	if result.Bonus.IsPositive() {
		message += fmt.Sprintf(" A punctuality bonus of %s was added to your credit.", result.Bonus)
	}
	s.emitter.Emit(ctx, notification.NewEvent(notification.KindInstallmentPaid,
		settledPayload{
			InstallmentID:    result.Installment.ID,
			LoanID:           result.LoanID,
			CustomerID:       customerID,
			Amount:           result.Installment.Amount.String(),
			Instrument:       result.Instrument,
			Bonus:            result.Bonus.String(),
			RemainingBalance: result.RemainingBalance.String(),
			LoanPaid:         result.LoanPaid,
		},
		notification.ToCustomer(customerID, notification.CategoryPayment, "Payment received", message).
			WithLink(fmt.Sprintf("/loans/%d", result.LoanID)),
		notification.ToAdmins(notification.CategoryPayment, "Installment paid",
			fmt.Sprintf("Customer %d paid installment %d (%s).", customerID, result.Installment.ID, result.Installment.Amount)),
	))
	return result, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	ln, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, err
		}
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	items, err := s.repo.GetInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments for loan %d: %w", loanID, err)
	}
	ln.Installments = items
	return ln, nil
}

func (s *loanServiceImpl) PendingInstallments(ctx context.Context, customerID int64) ([]Installment, error) {
	items, err := s.repo.GetPendingInstallmentsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending installments: %w", err)
	}
	return items, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrInsufficientCredit):
		return "insufficient_credit"
	case errors.Is(err, apperrors.ErrMerchantUnavailable):
		return "merchant_unavailable"
	case errors.Is(err, apperrors.ErrInvalidInstrument):
		return "invalid_instrument"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperrors.ErrAlreadyPaid):
		return "already_paid"
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrCustomerSuspended):
		return "rejected"
	case errors.Is(err, apperrors.ErrLedgerUnavailable):
		return "unavailable"
	default:
		return "failure_internal"
	}
}
