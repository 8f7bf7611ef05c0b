package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Finledger/internal/domain/shared"
	"Finledger/internal/domain/user"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/logger"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserGetter interface {
	GetByID(ctx context.Context, userID ulid.ULID) (*user.User, error)
}

type Service struct {
	Repository  Repository
	UserService UserGetter
	Notifier    shared.Notifier
	shared.BaseService
}

func NewService(repo Repository, userSvc UserGetter, notifier shared.Notifier, userChecker *shared.UserCheckerService) *Service {
	return &Service{
		Repository:  repo,
		UserService: userSvc,
		Notifier:    notifier,
		BaseService: shared.BaseService{
			UserChecker: userChecker,
		},
	}
}

type CreateLoanRequest struct {
	UserId          ulid.ULID
	Description     string
	PrincipalAmount decimal.Decimal
	InterestRate    *decimal.Decimal
	NextPaymentDue  *time.Time
}

func (s *Service) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*Loan, error) {
	if err := s.EnsureUserExists(ctx, req.UserId); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Description) == "" {
		return nil, appErrors.NewValidationError("description", "não pode ser vazia")
	}

	if req.PrincipalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, appErrors.NewValidationError("principal_amount", "deve ser maior que zero")
	}

	l := &Loan{
		Id:               pkg.GenerateULIDObject(),
		UserId:           req.UserId,
		Description:      strings.TrimSpace(req.Description),
		PrincipalAmount:  req.PrincipalAmount,
		RemainingBalance: req.PrincipalAmount,
		InterestRate:     req.InterestRate,
		Status:           StatusActive,
		NextPaymentDue:   req.NextPaymentDue,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.Repository.Create(ctx, l); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return l, nil
}

func (s *Service) GetLoanByID(ctx context.Context, loanID, userID ulid.ULID) (*Loan, error) {
	l, err := s.Repository.GetById(ctx, loanID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrLoanNotFound
		}
		return nil, appErrors.NewDatabaseError(err)
	}

	if l.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}

	return l, nil
}

func (s *Service) ListLoans(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Loan, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetByUserId(ctx, userID, pagination)
}

func (s *Service) DeleteLoan(ctx context.Context, loanID, userID ulid.ULID) error {
	if _, err := s.GetLoanByID(ctx, loanID, userID); err != nil {
		return err
	}

	return s.Repository.SetDeleted(ctx, loanID, userID, true)
}

// MakePayment abate o valor do saldo devedor e grava o pagamento atomicamente.
// Saldo zerado marca o empréstimo como PAID_OFF; caso contrário o próximo
// vencimento avança um mês de calendário.
func (s *Service) MakePayment(ctx context.Context, loanID, userID ulid.ULID, amount decimal.Decimal) (*Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	l, err := s.GetLoanByID(ctx, loanID, userID)
	if err != nil {
		return nil, err
	}

	if l.Status == StatusPaidOff {
		return nil, appErrors.NewValidationError("loan", "empréstimo já está quitado")
	}

	if amount.GreaterThan(l.RemainingBalance) {
		return nil, appErrors.NewValidationError("amount", "não pode exceder o saldo devedor")
	}

	l.RemainingBalance = l.RemainingBalance.Sub(amount)
	l.UpdatedAt = time.Now()

	if l.RemainingBalance.IsZero() {
		l.Status = StatusPaidOff
		l.NextPaymentDue = nil
	} else if l.NextPaymentDue != nil {
		next := l.NextPaymentDue.AddDate(0, 1, 0)
		l.NextPaymentDue = &next
	}

	p := &Payment{
		Id:     pkg.GenerateULIDObject(),
		LoanId: loanID,
		Amount: amount,
		PaidAt: time.Now(),
	}

	if err := s.Repository.RecordPayment(ctx, l, p); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return p, nil
}

func (s *Service) GetPayments(ctx context.Context, loanID, userID ulid.ULID) ([]*Payment, error) {
	if _, err := s.GetLoanByID(ctx, loanID, userID); err != nil {
		return nil, err
	}

	payments, err := s.Repository.GetPayments(ctx, loanID)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return payments, nil
}

// SendPaymentReminders notifica por e-mail os empréstimos com vencimento dentro
// da janela. Falhas individuais são registradas em log e não interrompem o
// lote. Retorna o número de lembretes enviados.
func (s *Service) SendPaymentReminders(ctx context.Context, daysAhead int) (int, error) {
	until := time.Now().AddDate(0, 0, daysAhead)

	due, err := s.Repository.GetDueSoon(ctx, until)
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}

	sent := 0
	for _, l := range due {
		u, err := s.UserService.GetByID(ctx, l.UserId)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("loan_id", l.Id.String()).
				Str("user_id", l.UserId.String()).
				Msg("falha ao buscar usuário para lembrete de empréstimo")
			continue
		}

		body := fmt.Sprintf(
			"O empréstimo %q vence em %s. Saldo devedor: %s.",
			l.Description,
			l.NextPaymentDue.Format("02/01/2006"),
			l.RemainingBalance.StringFixed(2),
		)
		s.Notifier.SendEmail(u.Email, "Lembrete de pagamento de empréstimo", body)
		sent++
	}

	return sent, nil
}
