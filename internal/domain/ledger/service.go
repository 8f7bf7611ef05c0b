package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"Finledger/internal/domain/account"
	"Finledger/internal/domain/shared"
	"Finledger/internal/domain/user"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/logger"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountValidator interface {
	GetAccountByID(ctx context.Context, accountID, userID ulid.ULID) (*account.Account, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, userID ulid.ULID) (*user.User, error)
}

type Service struct {
	Repository     Repository
	AccountService AccountValidator
	BudgetService  shared.BudgetAdmitter
	UserService    UserGetter
	Notifier       shared.Notifier
	shared.BaseService
}

func NewService(repo Repository, accountSvc AccountValidator, budgetSvc shared.BudgetAdmitter, userSvc UserGetter, notifier shared.Notifier, userChecker *shared.UserCheckerService) *Service {
	return &Service{
		Repository:     repo,
		AccountService: accountSvc,
		BudgetService:  budgetSvc,
		UserService:    userSvc,
		Notifier:       notifier,
		BaseService: shared.BaseService{
			UserChecker: userChecker,
		},
	}
}

type PostRequest struct {
	UserId        ulid.ULID
	AccountId     ulid.ULID
	CategoryId    *ulid.ULID
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
}

type TransferRequest struct {
	UserId        ulid.ULID
	FromAccountId ulid.ULID
	ToAccountId   ulid.ULID
	Amount        decimal.Decimal
	Description   string
}

type CreateRecurringRequest struct {
	PostRequest
	Type     Types
	Interval Interval
}

// Deposit credita a conta e grava a transação COMPLETED na mesma unidade atômica.
func (s *Service) Deposit(ctx context.Context, req *PostRequest) (*Transaction, error) {
	if err := s.validatePostRequest(ctx, req); err != nil {
		return nil, err
	}

	transaction := s.buildTransaction(req, Deposit)
	if err := s.Repository.Post(ctx, transaction, BalanceEntry{AccountId: req.AccountId, Delta: req.Amount}); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return transaction, nil
}

// Withdraw debita a conta após admissão pelo orçamento da categoria. Orçamento
// STRICT estourado recusa sem mutação alguma. O saldo pode ficar negativo:
// não há proteção de cheque especial nesta camada.
func (s *Service) Withdraw(ctx context.Context, req *PostRequest) (*Transaction, error) {
	if err := s.validatePostRequest(ctx, req); err != nil {
		return nil, err
	}

	if err := s.admitWithdrawal(ctx, req.UserId, req.CategoryId, req.Amount); err != nil {
		return nil, err
	}

	nearLimit := s.checkUsageAlert(ctx, req.UserId, req.CategoryId, req.Amount)

	transaction := s.buildTransaction(req, Withdrawal)
	if err := s.Repository.Post(ctx, transaction, BalanceEntry{AccountId: req.AccountId, Delta: req.Amount.Neg()}); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	if nearLimit {
		s.notifyBudgetUsage(ctx, req.UserId)
	}

	return transaction, nil
}

// Transfer move valor entre duas contas do mesmo usuário: débito, crédito e a
// linha TRANSFER são gravados juntos. A soma dos saldos é preservada.
func (s *Service) Transfer(ctx context.Context, req *TransferRequest) (*Transaction, error) {
	if err := s.EnsureUserExists(ctx, req.UserId); err != nil {
		return nil, err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	if req.FromAccountId == req.ToAccountId {
		return nil, appErrors.NewValidationError("destination_account_id", "deve ser diferente da conta de origem")
	}

	if _, err := s.AccountService.GetAccountByID(ctx, req.FromAccountId, req.UserId); err != nil {
		return nil, err
	}
	if _, err := s.AccountService.GetAccountByID(ctx, req.ToAccountId, req.UserId); err != nil {
		return nil, err
	}

	destination := req.ToAccountId
	transaction := &Transaction{
		Id:                   pkg.GenerateULIDObject(),
		UserId:               req.UserId,
		AccountId:            req.FromAccountId,
		DestinationAccountId: &destination,
		Amount:               req.Amount,
		Type:                 Transfer,
		Status:               StatusCompleted,
		Description:          strings.TrimSpace(req.Description),
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	err := s.Repository.Post(ctx, transaction,
		BalanceEntry{AccountId: req.FromAccountId, Delta: req.Amount.Neg()},
		BalanceEntry{AccountId: req.ToAccountId, Delta: req.Amount},
	)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return transaction, nil
}

// CreateRecurring registra a transação modelo, lança a primeira ocorrência
// imediatamente e agenda a próxima pelo intervalo.
func (s *Service) CreateRecurring(ctx context.Context, req *CreateRecurringRequest) (*Transaction, error) {
	if req.Type != Deposit && req.Type != Withdrawal {
		return nil, appErrors.NewValidationError("type", "recorrência é permitida apenas para DEPOSIT e WITHDRAWAL")
	}

	if !req.Interval.IsValid() {
		return nil, appErrors.NewValidationError("recurrence_interval", "deve ser DAILY, WEEKLY, MONTHLY ou YEARLY")
	}

	if err := s.validatePostRequest(ctx, &req.PostRequest); err != nil {
		return nil, err
	}

	if req.Type == Withdrawal {
		if err := s.admitWithdrawal(ctx, req.UserId, req.CategoryId, req.Amount); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	interval := req.Interval
	nextDue := interval.Next(now)

	transaction := s.buildTransaction(&req.PostRequest, req.Type)
	transaction.IsRecurring = true
	transaction.RecurrenceInterval = &interval
	transaction.NextDueDate = &nextDue

	delta := req.Amount
	if req.Type == Withdrawal {
		delta = delta.Neg()
	}

	if err := s.Repository.Post(ctx, transaction, BalanceEntry{AccountId: req.AccountId, Delta: delta}); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return transaction, nil
}

// ProcessRecurringTransactions materializa as ocorrências vencidas. Para cada
// modelo vencido, o next_due_date é avançado por compare-and-swap antes do
// lançamento; perder o CAS significa que outro processamento já cuidou da
// ocorrência e o modelo é pulado. Falhas individuais são registradas em log e
// não interrompem o lote. Retorna o número de ocorrências lançadas.
func (s *Service) ProcessRecurringTransactions(ctx context.Context) (int, error) {
	now := time.Now()

	due, err := s.Repository.GetDueRecurring(ctx, now)
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}

	processed := 0
	for _, template := range due {
		if template.RecurrenceInterval == nil || !template.RecurrenceInterval.IsValid() || template.NextDueDate == nil {
			logger.Warn().
				Str("transaction_id", template.Id.String()).
				Msg("modelo recorrente sem intervalo válido ou sem vencimento, ignorando")
			continue
		}

		expected := *template.NextDueDate
		next := template.RecurrenceInterval.Next(expected)

		advanced, err := s.Repository.AdvanceNextDue(ctx, template.Id, expected, next)
		if err != nil {
			logger.Error().
				Err(err).
				Str("transaction_id", template.Id.String()).
				Msg("falha ao avançar vencimento da recorrência")
			continue
		}
		if !advanced {
			logger.Debug().
				Str("transaction_id", template.Id.String()).
				Msg("ocorrência já processada por outro ciclo")
			continue
		}

		if err := s.postOccurrence(ctx, template); err != nil {
			logger.Error().
				Err(err).
				Str("transaction_id", template.Id.String()).
				Str("user_id", template.UserId.String()).
				Msg("falha ao lançar ocorrência recorrente")
			continue
		}

		processed++
	}

	return processed, nil
}

func (s *Service) postOccurrence(ctx context.Context, template *Transaction) error {
	if template.Type == Withdrawal {
		if err := s.admitWithdrawal(ctx, template.UserId, template.CategoryId, template.Amount); err != nil {
			return err
		}
	}

	parentID := template.Id
	occurrence := &Transaction{
		Id:                  pkg.GenerateULIDObject(),
		UserId:              template.UserId,
		AccountId:           template.AccountId,
		CategoryId:          template.CategoryId,
		Amount:              template.Amount,
		Type:                template.Type,
		Status:              StatusCompleted,
		PaymentMethod:       template.PaymentMethod,
		Description:         template.Description,
		ParentTransactionId: &parentID,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	delta := template.Amount
	if template.Type == Withdrawal {
		delta = delta.Neg()
	}

	return s.Repository.Post(ctx, occurrence, BalanceEntry{AccountId: template.AccountId, Delta: delta})
}

func (s *Service) GetTransactionByID(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error) {
	transaction, err := s.Repository.GetByIdAndUser(ctx, transactionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrTransactionNotFound
		}
		return nil, appErrors.NewDatabaseError(err)
	}

	if transaction.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}

	return transaction, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID ulid.ULID, accountID *ulid.ULID, pagination *pkg.PaginationParams) ([]*Transaction, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetAll(ctx, userID, accountID, pagination)
}

func (s *Service) ListTransactionsByType(ctx context.Context, userID ulid.ULID, transactionType Types, pagination *pkg.PaginationParams) ([]*Transaction, int64, error) {
	if !transactionType.IsValid() {
		return nil, 0, appErrors.NewValidationError("type", "deve ser DEPOSIT, WITHDRAWAL ou TRANSFER")
	}

	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetByType(ctx, userID, transactionType, pagination)
}

func (s *Service) ListTransactionsByCategory(ctx context.Context, categoryID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Transaction, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetByCategory(ctx, categoryID, userID, pagination)
}

// DeleteTransaction oculta a transação do extrato. O lançamento contábil não é
// revertido: saldos permanecem como estão.
func (s *Service) DeleteTransaction(ctx context.Context, transactionID, userID ulid.ULID) error {
	if _, err := s.GetTransactionByID(ctx, transactionID, userID); err != nil {
		return err
	}

	return s.Repository.SetDeleted(ctx, transactionID, userID, true)
}

func (s *Service) validatePostRequest(ctx context.Context, req *PostRequest) error {
	if err := s.EnsureUserExists(ctx, req.UserId); err != nil {
		return err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	if _, err := s.AccountService.GetAccountByID(ctx, req.AccountId, req.UserId); err != nil {
		return err
	}

	return nil
}

func (s *Service) admitWithdrawal(ctx context.Context, userID ulid.ULID, categoryID *ulid.ULID, amount decimal.Decimal) error {
	if categoryID == nil {
		return nil
	}

	within, err := s.BudgetService.IsWithinBudget(ctx, userID, *categoryID, amount, time.Now())
	if err != nil {
		return err
	}
	if !within {
		return appErrors.ErrBudgetExceeded
	}

	return nil
}

func (s *Service) checkUsageAlert(ctx context.Context, userID ulid.ULID, categoryID *ulid.ULID, amount decimal.Decimal) bool {
	if categoryID == nil {
		return false
	}

	nearLimit, err := s.BudgetService.CheckBudgetUsage(ctx, userID, *categoryID, amount)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Msg("falha ao verificar uso do orçamento")
		return false
	}

	return nearLimit
}

// notifyBudgetUsage dispara o alerta de 80% de uso em segundo plano. Falha de
// envio não afeta a transação já lançada.
func (s *Service) notifyBudgetUsage(ctx context.Context, userID ulid.ULID) {
	u, err := s.UserService.GetByID(ctx, userID)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Msg("falha ao buscar usuário para alerta de orçamento")
		return
	}

	go s.Notifier.SendEmail(
		u.Email,
		"Alerta de orçamento",
		"Você já utilizou 80% ou mais do limite de um dos seus orçamentos.",
	)
}

func (s *Service) buildTransaction(req *PostRequest, transactionType Types) *Transaction {
	return &Transaction{
		Id:            pkg.GenerateULIDObject(),
		UserId:        req.UserId,
		AccountId:     req.AccountId,
		CategoryId:    req.CategoryId,
		Amount:        req.Amount,
		Type:          transactionType,
		Status:        StatusCompleted,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Description:   strings.TrimSpace(req.Description),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}
